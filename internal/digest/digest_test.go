package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/jobwindow"
)

var now = time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
}

type stubSource struct {
	active, ending, starting []*domain.Job
	err                      error
}

func (s *stubSource) GetAllActiveJobs(context.Context) ([]*domain.Job, error) {
	return s.active, s.err
}

func (s *stubSource) GetJobsEndingSoon(context.Context) ([]*domain.Job, error) {
	return s.ending, nil
}

func (s *stubSource) GetJobsStartingSoon(context.Context) ([]*domain.Job, error) {
	return s.starting, nil
}

func TestEmptyDigestRendersNothing(t *testing.T) {
	d := Build(now, nil, nil, nil)

	assert.True(t, d.Empty())
	assert.Equal(t, "", d.Text())
	assert.NotNil(t, d.Active)
}

func TestDigestText(t *testing.T) {
	upcoming := &domain.Job{Title: "Exam", StartDate: day(5), EndDate: day(20), Status: domain.JobStatusActive}
	closing := &domain.Job{Title: "Internship", StartDate: day(1), EndDate: day(3), Status: domain.JobStatusActive}

	d, err := Compose(context.Background(), &stubSource{
		active:   []*domain.Job{closing, upcoming},
		ending:   []*domain.Job{closing},
		starting: []*domain.Job{upcoming},
	}, now)
	require.NoError(t, err)

	want := "DAILY JOB REMINDER\n\n" +
		"STARTING SOON:\n" +
		"- Exam - starts 05 Jul 2025\n\n" +
		"ENDING SOON:\n" +
		"- Internship - ends 03 Jul 2025\n\n" +
		"ACTIVE JOB POSTINGS:\n" +
		"- Internship (01 Jul 2025 to 03 Jul 2025) [ACTIVE]\n" +
		"- Exam (05 Jul 2025 to 20 Jul 2025) [UPCOMING]\n"
	assert.Equal(t, want, d.Text())
	assert.Equal(t, jobwindow.Upcoming, d.Active[1].Window)
}

func TestDigestOmitsEmptySections(t *testing.T) {
	job := &domain.Job{Title: "Long", StartDate: day(1), EndDate: day(30), Status: domain.JobStatusActive}

	text := Build(now, []*domain.Job{job}, nil, nil).Text()

	assert.NotContains(t, text, "STARTING SOON")
	assert.NotContains(t, text, "ENDING SOON")
	assert.Contains(t, text, "- Long (01 Jul 2025 to 30 Jul 2025) [ACTIVE]")
}

func TestComposePropagatesErrors(t *testing.T) {
	_, err := Compose(context.Background(), &stubSource{err: domain.ErrStoreIO}, now)
	assert.True(t, errors.Is(err, domain.ErrStoreIO))
}
