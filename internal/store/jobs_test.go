package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/jobwindow"
)

func jobTitles(jobs []*domain.Job) []string {
	titles := make([]string, 0, len(jobs))
	for _, j := range jobs {
		titles = append(titles, j.Title)
	}
	return titles
}

func TestAddJob(t *testing.T) {
	s, _ := newTestStore(t, &fakeClock{t: epoch})
	ctx := context.Background()

	job, err := s.AddJob(ctx, AddJobInput{
		Title:       " IBPS PO ",
		OfficialURL: "ibps.in",
		StartDate:   "16-07-2025",
		EndDate:     "2025/08/05",
		PostedBy:    "u1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "IBPS PO", job.Title)
	assert.Equal(t, "https://ibps.in", job.OfficialURL)
	assert.Equal(t, domain.JobStatusActive, job.Status)
	assert.Equal(t, time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC), job.StartDate)
	assert.Equal(t, time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC), job.EndDate)
	assert.Equal(t, epoch, job.CreatedAt)

	all, err := s.GetAllJobs(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddJobValidation(t *testing.T) {
	valid := AddJobInput{Title: "t", OfficialURL: "x.org", StartDate: "01-07-2025", EndDate: "10-07-2025"}

	tests := map[string]func(in *AddJobInput){
		"missing title": func(in *AddJobInput) { in.Title = " " },
		"bad url":       func(in *AddJobInput) { in.OfficialURL = "" },
		"bad start":     func(in *AddJobInput) { in.StartDate = "32-01-2025" },
		"bad end":       func(in *AddJobInput) { in.EndDate = "16-07-1999" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			s, _ := newTestStore(t, &fakeClock{t: epoch})
			in := valid
			mutate(&in)

			_, err := s.AddJob(context.Background(), in)
			require.ErrorIs(t, err, domain.ErrValidation)

			jobs, err := s.GetAllJobs(context.Background())
			require.NoError(t, err)
			assert.Empty(t, jobs)
		})
	}
}

func TestAddJobDateErrorCarriesFormats(t *testing.T) {
	s, _ := newTestStore(t, &fakeClock{t: epoch})

	_, err := s.AddJob(context.Background(), AddJobInput{
		Title: "t", OfficialURL: "x.org", StartDate: "16-13-2025", EndDate: "20-12-2025",
	})

	var derr *jobwindow.InvalidDateError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "16-13-2025", derr.Input)
	assert.Equal(t, jobwindow.AcceptedFormats, derr.Formats)
}

func TestAddJobAcceptsInvertedRange(t *testing.T) {
	s, _ := newTestStore(t, &fakeClock{t: epoch})

	job, err := s.AddJob(context.Background(), AddJobInput{
		Title: "t", OfficialURL: "x.org", StartDate: "20-07-2025", EndDate: "10-07-2025",
	})
	require.NoError(t, err)
	assert.True(t, job.StartDate.After(job.EndDate))
}

func TestGetAllActiveJobs(t *testing.T) {
	clock := &fakeClock{t: epoch}
	s, _ := newTestStore(t, clock)
	ctx := context.Background()

	for _, in := range []AddJobInput{
		{Title: "upcoming", StartDate: "20-07-2025", EndDate: "30-07-2025"},
		{Title: "expired", StartDate: "01-06-2025", EndDate: "30-06-2025"},
		{Title: "running", StartDate: "25-06-2025", EndDate: "05-07-2025"},
		{Title: "ends today", StartDate: "2025-06-01", EndDate: "2025-07-01"},
	} {
		in.OfficialURL = "jobs.example.com"
		_, err := s.AddJob(ctx, in)
		require.NoError(t, err)
	}

	active, err := s.GetAllActiveJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ends today", "running", "upcoming"}, jobTitles(active))
}

func TestJobWindowsScenario(t *testing.T) {
	clock := &fakeClock{t: epoch}
	s, _ := newTestStore(t, clock)
	ctx := context.Background()

	// starts in 10 days, ends in 20
	_, err := s.AddJob(ctx, AddJobInput{
		Title:       "exam",
		OfficialURL: "exam.gov",
		StartDate:   "11-07-2025",
		EndDate:     "21-07-2025",
	})
	require.NoError(t, err)

	steps := []struct {
		now      time.Time
		starting bool
		ending   bool
		active   bool
	}{
		{now: epoch, starting: false, ending: false, active: true},
		{now: epoch.AddDate(0, 0, 2), starting: false, ending: false, active: true},
		{now: epoch.AddDate(0, 0, 3), starting: true, ending: false, active: true},
		{now: epoch.AddDate(0, 0, 10), starting: true, ending: false, active: true},
		{now: epoch.AddDate(0, 0, 11), starting: false, ending: false, active: true},
		{now: epoch.AddDate(0, 0, 13), starting: false, ending: true, active: true},
		{now: epoch.AddDate(0, 0, 20), starting: false, ending: true, active: true},
		{now: epoch.AddDate(0, 0, 21), starting: false, ending: false, active: false},
	}

	for _, step := range steps {
		clock.Set(step.now)

		starting, err := s.GetJobsStartingSoon(ctx)
		require.NoError(t, err)
		ending, err := s.GetJobsEndingSoon(ctx)
		require.NoError(t, err)
		active, err := s.GetAllActiveJobs(ctx)
		require.NoError(t, err)

		day := step.now.Format("2006-01-02")
		assert.Equal(t, step.starting, len(starting) == 1, "starting soon at %s", day)
		assert.Equal(t, step.ending, len(ending) == 1, "ending soon at %s", day)
		assert.Equal(t, step.active, len(active) == 1, "active at %s", day)
	}
}

func TestSoonListsAreOrdered(t *testing.T) {
	clock := &fakeClock{t: epoch}
	s, _ := newTestStore(t, clock)
	ctx := context.Background()

	for _, in := range []AddJobInput{
		{Title: "b", StartDate: "05-07-2025", EndDate: "06-07-2025"},
		{Title: "a", StartDate: "03-07-2025", EndDate: "07-07-2025"},
	} {
		in.OfficialURL = "jobs.example.com"
		_, err := s.AddJob(ctx, in)
		require.NoError(t, err)
	}

	starting, err := s.GetJobsStartingSoon(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, jobTitles(starting))

	ending, err := s.GetJobsEndingSoon(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, jobTitles(ending))
}
