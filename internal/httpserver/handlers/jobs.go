package handlers

import (
	"context"
	"net/http"

	"github.com/MrSnakeDoc/linkbot/internal/digest"
	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkbot/internal/jobwindow"
	"github.com/MrSnakeDoc/linkbot/internal/store"
)

type jobView struct {
	*domain.Job
	Window jobwindow.Window `json:"window"`
}

type jobsResponse struct {
	Jobs []jobView `json:"jobs"`
}

func AddJob(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in store.AddJobInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, d, err)
			return
		}

		job, err := d.Store.AddJob(r.Context(), in)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, jobView{Job: job, Window: jobwindow.Classify(job, d.Store.Now())})
	}
}

// ActiveJobs lists jobs that have not expired, upcoming included.
func ActiveJobs(d deps.Deps) http.HandlerFunc {
	return listJobs(d, d.Store.GetAllActiveJobs)
}

// AllJobs lists every stored job, expired ones included.
func AllJobs(d deps.Deps) http.HandlerFunc {
	return listJobs(d, d.Store.GetAllJobs)
}

func EndingSoon(d deps.Deps) http.HandlerFunc {
	return listJobs(d, d.Store.GetJobsEndingSoon)
}

func StartingSoon(d deps.Deps) http.HandlerFunc {
	return listJobs(d, d.Store.GetJobsStartingSoon)
}

func listJobs(d deps.Deps, list func(ctx context.Context) ([]*domain.Job, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := list(r.Context())
		if err != nil {
			writeError(w, d, err)
			return
		}

		now := d.Store.Now()
		views := make([]jobView, 0, len(jobs))
		for _, j := range jobs {
			views = append(views, jobView{Job: j, Window: jobwindow.Classify(j, now)})
		}
		writeJSON(w, http.StatusOK, jobsResponse{Jobs: views})
	}
}

// Digest renders the daily reminder. ?format=text returns the chat text.
func Digest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dg, err := digest.Compose(r.Context(), d.Store, d.Store.Now())
		if err != nil {
			writeError(w, d, err)
			return
		}

		if r.URL.Query().Get("format") == "text" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			if dg.Empty() {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			_, _ = w.Write([]byte(dg.Text()))
			return
		}
		writeJSON(w, http.StatusOK, dg)
	}
}
