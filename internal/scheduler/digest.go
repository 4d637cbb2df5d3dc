package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MrSnakeDoc/linkbot/internal/digest"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
)

// DefaultDigestSchedule sends the reminder every day at 06:00
const DefaultDigestSchedule = "0 6 * * *"

// DigestSink receives a rendered, non-empty digest
type DigestSink func(ctx context.Context, d *digest.Digest) error

// LogSink writes the digest text to the logger
func LogSink(log logger.Logger) DigestSink {
	return func(_ context.Context, d *digest.Digest) error {
		log.Info("daily job reminder ready",
			logger.Int("active", len(d.Active)),
			logger.Int("ending_soon", len(d.EndingSoon)),
			logger.Int("starting_soon", len(d.StartingSoon)),
			logger.String("text", d.Text()))
		return nil
	}
}

// DigestScheduler composes and delivers the job digest on a cron schedule
type DigestScheduler struct {
	cron   *cron.Cron
	source digest.JobSource
	sink   DigestSink
	now    func() time.Time
	logger logger.Logger
	ctx    context.Context
}

// NewDigestScheduler validates spec and prepares the scheduler
func NewDigestScheduler(
	spec string,
	source digest.JobSource,
	sink DigestSink,
	now func() time.Time,
	log logger.Logger,
) (*DigestScheduler, error) {
	if spec == "" {
		spec = DefaultDigestSchedule
	}

	s := &DigestScheduler{
		cron:   cron.New(),
		source: source,
		sink:   sink,
		now:    now,
		logger: log,
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start launches the cron loop. Runs use ctx until Stop.
func (s *DigestScheduler) Start(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Info("digest scheduler started",
		logger.Time("next_run", s.NextRun()))
	return nil
}

// Stop halts the cron loop and waits for a running job to finish
func (s *DigestScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// NextRun returns the next scheduled run, zero before Start
func (s *DigestScheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *DigestScheduler) tick() {
	if _, err := s.Run(s.ctx); err != nil {
		s.logger.Error("daily digest failed", logger.Error(err))
	}
}

// Run composes the digest once and sends it when non-empty.
// It reports whether anything was sent.
func (s *DigestScheduler) Run(ctx context.Context) (bool, error) {
	d, err := digest.Compose(ctx, s.source, s.now())
	if err != nil {
		return false, err
	}
	if d.Empty() {
		s.logger.Debug("no active jobs, digest skipped")
		return false, nil
	}
	if err := s.sink(ctx, d); err != nil {
		return false, fmt.Errorf("failed to deliver digest: %w", err)
	}
	return true, nil
}
