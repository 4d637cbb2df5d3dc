package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/jobwindow"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
)

// AddJobInput is a job posting with dates in any jobwindow format.
type AddJobInput struct {
	Title       string `json:"title"`
	OfficialURL string `json:"official_url"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
	PostedBy    string `json:"posted_by,omitempty"`
}

// AddJob validates and appends a job with status "active".
func (s *Store) AddJob(ctx context.Context, in AddJobInput) (*domain.Job, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Invalid("title", in.Title, "must not be empty")
	}
	link, err := validateURL("official_url", in.OfficialURL)
	if err != nil {
		return nil, err
	}
	start, err := jobwindow.ParseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := jobwindow.ParseDate(in.EndDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		s.logger.Warn("job starts after it ends",
			logger.String("title", title),
			logger.Time("start", start),
			logger.Time("end", end),
		)
	}

	var job domain.Job
	err = s.mutate(ctx, func(doc *domain.Document) (bool, error) {
		j := &domain.Job{
			ID:          s.newID(),
			Title:       title,
			OfficialURL: link,
			Description: strings.TrimSpace(in.Description),
			PostedBy:    strings.TrimSpace(in.PostedBy),
			StartDate:   start,
			EndDate:     end,
			Status:      domain.JobStatusActive,
			CreatedAt:   s.now(),
		}
		doc.Jobs = append(doc.Jobs, j)
		job = *j
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetAllJobs returns every stored job in document order.
func (s *Store) GetAllJobs(ctx context.Context) ([]*domain.Job, error) {
	doc, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Jobs, nil
}

// GetAllActiveJobs returns jobs tagged active that have not expired,
// including ones that have not started yet. Ordered by start date.
func (s *Store) GetAllActiveJobs(ctx context.Context) ([]*domain.Job, error) {
	return s.selectJobs(ctx, jobwindow.IsOpen, byStart)
}

// GetJobsEndingSoon returns active jobs whose end date falls within the
// lookahead window. Ordered by end date.
func (s *Store) GetJobsEndingSoon(ctx context.Context) ([]*domain.Job, error) {
	return s.selectJobs(ctx, jobwindow.EndingSoon, byEnd)
}

// GetJobsStartingSoon returns active jobs whose start date falls within the
// lookahead window. Ordered by start date.
func (s *Store) GetJobsStartingSoon(ctx context.Context) ([]*domain.Job, error) {
	return s.selectJobs(ctx, jobwindow.StartingSoon, byStart)
}

func (s *Store) selectJobs(
	ctx context.Context,
	keep func(*domain.Job, time.Time) bool,
	key func(*domain.Job) time.Time,
) ([]*domain.Job, error) {
	doc, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]*domain.Job, 0)
	for _, j := range doc.Jobs {
		if j.IsActiveStatus() && keep(j, now) {
			out = append(out, j)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return key(out[a]).Before(key(out[b]))
	})
	return out, nil
}

func byStart(j *domain.Job) time.Time { return j.StartDate }
func byEnd(j *domain.Job) time.Time   { return j.EndDate }
