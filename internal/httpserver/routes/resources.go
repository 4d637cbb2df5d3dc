package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver/handlers"
)

func init() { Register(registerResources) }

func registerResources(r chi.Router, d deps.Deps) {
	a := api(r, d)
	a.Get("/api/resources/duplicate", handlers.FindDuplicate(d))
	a.Get("/api/resources/{id}", handlers.GetResource(d))

	w := writes(a, d)
	w.Post("/api/resources", handlers.AddResource(d))
	w.Patch("/api/resources/{id}", handlers.UpdateResource(d))
	w.Delete("/api/resources/{id}", handlers.DeleteResource(d))
}
