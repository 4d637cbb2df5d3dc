package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkbot/internal/store"
)

type duplicateResponse struct {
	Duplicate bool             `json:"duplicate"`
	Resource  *domain.Resource `json:"resource,omitempty"`
}

type updateCategoryRequest struct {
	Category string `json:"category"`
}

// AddResource upserts a link. 201 when added, 200 when an existing link was updated.
func AddResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in store.AddResourceInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, d, err)
			return
		}

		res, err := d.Store.AddResource(r.Context(), in)
		if err != nil {
			writeError(w, d, err)
			return
		}

		status := http.StatusOK
		if res.Action == store.ActionAdded {
			status = http.StatusCreated
		}
		writeJSON(w, status, res)
	}
}

func GetResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := d.Store.GetResource(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// UpdateResource overrides the category of a stored link.
func UpdateResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateCategoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d, err)
			return
		}

		res, err := d.Store.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req.Category)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func DeleteResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.DeleteResource(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// FindDuplicate reports whether ?url= already exists under another spelling.
func FindDuplicate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("url")
		if raw == "" {
			writeError(w, d, domain.Invalid("url", raw, "missing"))
			return
		}

		res, found, err := d.Store.FindDuplicate(r.Context(), raw)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, duplicateResponse{Duplicate: found, Resource: res})
	}
}
