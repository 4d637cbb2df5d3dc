package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver/handlers"
)

func init() { Register(registerJobs) }

func registerJobs(r chi.Router, d deps.Deps) {
	a := api(r, d)
	a.Get("/api/jobs", handlers.ActiveJobs(d))
	a.Get("/api/jobs/all", handlers.AllJobs(d))
	a.Get("/api/jobs/ending-soon", handlers.EndingSoon(d))
	a.Get("/api/jobs/starting-soon", handlers.StartingSoon(d))
	a.Get("/api/jobs/digest", handlers.Digest(d))

	writes(a, d).Post("/api/jobs", handlers.AddJob(d))
}
