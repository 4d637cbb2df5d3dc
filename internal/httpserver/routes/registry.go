package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver/mw"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var registry []entry

// Register a registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// Called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		sub := r.With(e.mws...) // apply per-route middlewares
		e.reg(sub, d)
	}
}

// api returns the router every /api route hangs off: Host enforcement only.
func api(r chi.Router, d deps.Deps) chi.Router {
	return r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
}

// writes adds the shared write limiter when one is configured.
func writes(r chi.Router, d deps.Deps) chi.Router {
	if d.WriteLimit == nil {
		return r
	}
	return r.With(d.WriteLimit)
}

// ops restricts operational endpoints to the CIDR allow-list.
func ops(r chi.Router, d deps.Deps) chi.Router {
	return r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
}
