// Package digest renders the daily job reminder.
package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/jobwindow"
)

// DateLayout is used for every date printed in a digest.
const DateLayout = "02 Jan 2006"

// JobSource is the subset of the store a digest reads.
type JobSource interface {
	GetAllActiveJobs(ctx context.Context) ([]*domain.Job, error)
	GetJobsEndingSoon(ctx context.Context) ([]*domain.Job, error)
	GetJobsStartingSoon(ctx context.Context) ([]*domain.Job, error)
}

// Entry is one job line.
type Entry struct {
	Title  string           `json:"title"`
	URL    string           `json:"official_url"`
	Start  time.Time        `json:"start_date"`
	End    time.Time        `json:"end_date"`
	Window jobwindow.Window `json:"window"`
}

// Digest groups open jobs for a reminder.
type Digest struct {
	GeneratedAt  time.Time `json:"generated_at"`
	StartingSoon []Entry   `json:"starting_soon"`
	EndingSoon   []Entry   `json:"ending_soon"`
	Active       []Entry   `json:"active"`
}

// Compose reads the three job selections from src.
func Compose(ctx context.Context, src JobSource, now time.Time) (*Digest, error) {
	active, err := src.GetAllActiveJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", err)
	}
	ending, err := src.GetJobsEndingSoon(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs ending soon: %w", err)
	}
	starting, err := src.GetJobsStartingSoon(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs starting soon: %w", err)
	}
	return Build(now, active, ending, starting), nil
}

// Build assembles a digest from already selected jobs.
func Build(now time.Time, active, endingSoon, startingSoon []*domain.Job) *Digest {
	return &Digest{
		GeneratedAt:  now,
		StartingSoon: entries(startingSoon, now),
		EndingSoon:   entries(endingSoon, now),
		Active:       entries(active, now),
	}
}

func entries(jobs []*domain.Job, now time.Time) []Entry {
	out := make([]Entry, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, Entry{
			Title:  j.Title,
			URL:    j.OfficialURL,
			Start:  j.StartDate,
			End:    j.EndDate,
			Window: jobwindow.Classify(j, now),
		})
	}
	return out
}

// Empty reports whether there is nothing worth sending.
func (d *Digest) Empty() bool {
	return len(d.Active) == 0
}

// Text renders the reminder. An empty digest renders as "".
func (d *Digest) Text() string {
	if d.Empty() {
		return ""
	}

	var b strings.Builder
	b.WriteString("DAILY JOB REMINDER\n\n")

	if len(d.StartingSoon) > 0 {
		b.WriteString("STARTING SOON:\n")
		for _, e := range d.StartingSoon {
			fmt.Fprintf(&b, "- %s - starts %s\n", e.Title, e.Start.Format(DateLayout))
		}
		b.WriteString("\n")
	}

	if len(d.EndingSoon) > 0 {
		b.WriteString("ENDING SOON:\n")
		for _, e := range d.EndingSoon {
			fmt.Fprintf(&b, "- %s - ends %s\n", e.Title, e.End.Format(DateLayout))
		}
		b.WriteString("\n")
	}

	b.WriteString("ACTIVE JOB POSTINGS:\n")
	for _, e := range d.Active {
		fmt.Fprintf(&b, "- %s (%s to %s) [%s]\n",
			e.Title, e.Start.Format(DateLayout), e.End.Format(DateLayout), strings.ToUpper(string(e.Window)))
	}
	return b.String()
}
