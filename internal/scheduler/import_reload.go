package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/sources/homepage"
)

// Importer runs one import pass
type Importer interface {
	Import(ctx context.Context) (homepage.Report, error)
}

// ImportReloader periodically re-imports a Homepage file.
// A send on manualTrigger forces an immediate run.
type ImportReloader struct {
	importer      Importer
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewImportReloader creates a new import reloader
func NewImportReloader(
	importer Importer,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ImportReloader {
	return &ImportReloader{
		importer:      importer,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (r *ImportReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := r.Reload(ctx); err != nil {
		return fmt.Errorf("initial homepage import failed: %w", err)
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.Reload(ctx); err != nil {
					r.logger.Error("failed to import homepage file",
						logger.Error(err))
				}
			case <-r.manualTrigger:
				r.logger.Info("manual homepage import triggered")
				if err := r.Reload(ctx); err != nil {
					r.logger.Error("failed to import homepage file",
						logger.Error(err))
				}
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (r *ImportReloader) Stop() {
	close(r.stopCh)
}

// Reload runs one import pass
func (r *ImportReloader) Reload(ctx context.Context) error {
	_, err := r.importer.Import(ctx)
	return err
}
