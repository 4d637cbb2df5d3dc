package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
)

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type categoryResponse struct {
	Category  string                `json:"category"`
	Resources []domain.ResourceView `json:"resources"`
}

type suggestionsResponse struct {
	Category    string   `json:"category"`
	Suggestions []string `json:"suggestions"`
}

func Categories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := d.Store.GetAllCategories(r.Context())
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, categoriesResponse{Categories: cats})
	}
}

// CategoryResources lists the newest links of one category.
func CategoryResources(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryLimit(r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		category := domain.NormalizeCategory(chi.URLParam(r, "category"))
		views, err := d.Store.GetResourcesByCategory(r.Context(), category, limit)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, categoryResponse{Category: category, Resources: views})
	}
}

// CategorySuggestions returns the term table entries that map to a category.
func CategorySuggestions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := domain.NormalizeCategory(chi.URLParam(r, "category"))
		suggestions := d.Categorizer.SuggestionsFor(category)
		if suggestions == nil {
			suggestions = []string{}
		}
		writeJSON(w, http.StatusOK, suggestionsResponse{Category: category, Suggestions: suggestions})
	}
}
