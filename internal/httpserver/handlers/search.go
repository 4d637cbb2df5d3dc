package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
)

// Search runs the tiered lookup for ?q=. An empty query lists the most recent links.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryLimit(r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		out, err := d.Search.Lookup(r.Context(), r.URL.Query().Get("q"), limit)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
