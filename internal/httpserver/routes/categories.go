package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver/handlers"
)

func init() { Register(registerCategories) }

func registerCategories(r chi.Router, d deps.Deps) {
	a := api(r, d)
	a.Get("/api/categories", handlers.Categories(d))
	a.Get("/api/categories/{category}", handlers.CategoryResources(d))
	a.Get("/api/categories/{category}/suggestions", handlers.CategorySuggestions(d))
}
