package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/digest"
	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/jobwindow"
	"github.com/MrSnakeDoc/linkbot/internal/search"
	"github.com/MrSnakeDoc/linkbot/internal/store"
)

func writeAddResult(w io.Writer, res store.AddResult) {
	if res.Action == store.ActionUpdated {
		fmt.Fprintf(w, "♻️ Resource updated in category: %s (id %s)\n", res.Category, res.ID)
		return
	}
	fmt.Fprintf(w, "✅ Resource added to category: %s (id %s)\n", res.Category, res.ID)
}

func writeOutcome(w io.Writer, out *search.Outcome) {
	if out.Tier == search.TierNone {
		fmt.Fprintf(w, "No results found for: %q\n", out.Query)
		if len(out.Suggestions) > 0 {
			fmt.Fprintf(w, "Did you mean: %s\n", strings.Join(out.Suggestions, ", "))
		}
		return
	}

	if out.Tier == search.TierRecent {
		fmt.Fprintln(w, "🆕 Recently added:")
	} else {
		fmt.Fprintf(w, "🔍 Search results for %q (%s):\n", out.Query, out.Tier)
	}
	if len(out.Hits) == 0 {
		fmt.Fprintln(w, "No resources yet.")
		return
	}
	fmt.Fprintln(w)
	for i, h := range out.Hits {
		fmt.Fprintf(w, "%d. [%s] %s\n%s\n\n", i+1, h.Category, h.Description, h.URL)
	}
}

func writeCategories(w io.Writer, cats []string) {
	if len(cats) == 0 {
		fmt.Fprintln(w, "No categories available yet. Use add to store resources first.")
		return
	}
	fmt.Fprintln(w, "Available categories:")
	for _, c := range cats {
		fmt.Fprintf(w, "• %s\n", c)
	}
}

func writeCategory(w io.Writer, category string, views []domain.ResourceView) {
	if len(views) == 0 {
		fmt.Fprintf(w, "No resources found in category: %s\n", category)
		return
	}
	fmt.Fprintf(w, "Resources in %s (%d):\n\n", category, len(views))
	for i, v := range views {
		fmt.Fprintf(w, "%d. %s\n%s\n\n", i+1, v.Description, v.URL)
	}
}

func writeJobs(w io.Writer, title string, jobs []*domain.Job, now time.Time) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "📭 No job postings.")
		return
	}
	fmt.Fprintf(w, "📋 %s (%d):\n\n", title, len(jobs))
	for i, j := range jobs {
		fmt.Fprintf(w, "%d. %s\n", i+1, j.Title)
		fmt.Fprintf(w, "   📅 %s (%s)\n", formatRange(j), strings.ToUpper(string(jobwindow.Classify(j, now))))
		if j.OfficialURL != "" {
			fmt.Fprintf(w, "   🔗 %s\n", j.OfficialURL)
		}
		if j.Description != "" {
			fmt.Fprintf(w, "   📝 %s\n", j.Description)
		}
		fmt.Fprintln(w)
	}
}

func formatRange(j *domain.Job) string {
	return j.StartDate.Format(digest.DateLayout) + " to " + j.EndDate.Format(digest.DateLayout)
}
