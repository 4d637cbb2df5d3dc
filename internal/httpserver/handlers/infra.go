package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
)

type componentStatus struct {
	OK        bool   `json:"ok"`
	Backend   string `json:"backend,omitempty"`
	Resources *int   `json:"resources,omitempty"`
	Jobs      *int   `json:"jobs,omitempty"`
	Terms     *int   `json:"terms,omitempty"`
	LastFlush string `json:"last_flush,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Impact    string `json:"impact,omitempty"`
	Error     string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		terms := d.Categorizer.Table().Len()
		components := map[string]componentStatus{
			"store": checkStore(ctx, d),
			"cache": checkCache(ctx, d),
			"categorizer": {
				OK:    terms > 0,
				Terms: &terms,
			},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if s, ok := components["store"]; ok && !s.OK {
		return "critical" // no store = no bot
	}
	if c, ok := components["cache"]; ok && !c.OK {
		return "degraded" // searches still work, uncached
	}
	return "operational"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	resources, err := d.Store.AllResources(ctx)
	if err != nil {
		return componentStatus{OK: false, Backend: d.StoreBackend, Error: err.Error()}
	}
	jobs, err := d.Store.GetAllJobs(ctx)
	if err != nil {
		return componentStatus{OK: false, Backend: d.StoreBackend, Error: err.Error()}
	}

	nr, nj := len(resources), len(jobs)
	return componentStatus{OK: true, Backend: d.StoreBackend, Resources: &nr, Jobs: &nj}
}

func checkCache(ctx context.Context, d deps.Deps) componentStatus {
	if d.MemoryIndex != nil {
		lastFlush := "never"
		if t := d.MemoryIndex.LastFlush(); !t.IsZero() {
			lastFlush = t.Format("2006-01-02 15:04:05")
		}
		return componentStatus{OK: true, Mode: "memory", LastFlush: lastFlush}
	}

	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "searches-uncached",
			Error:  "client not initialized",
		}
	}

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "redis",
			Impact: "searches-uncached",
			Error:  "timeout",
		}
	}
	return componentStatus{OK: true, Mode: "redis"}
}
