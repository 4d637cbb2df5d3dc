package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/logger"
)

// ResourcePruner removes resources older than a maximum age
type ResourcePruner interface {
	CleanupOldResources(ctx context.Context, maxAge time.Duration) (int, error)
}

// GarbageCollector periodically drops resources past the retention window
type GarbageCollector struct {
	store     ResourcePruner
	logger    logger.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(
	store ResourcePruner,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *GarbageCollector {
	return &GarbageCollector{
		store:     store,
		logger:    log,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect removes resources created more than the retention window ago
func (gc *GarbageCollector) Collect(ctx context.Context) (int, error) {
	gc.logger.Debug("running garbage collection for old resources",
		logger.Duration("retention", gc.retention))

	deleted, err := gc.store.CleanupOldResources(ctx, gc.retention)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("resources_deleted", deleted))
	} else {
		gc.logger.Debug("no resources to garbage collect")
	}
	return deleted, nil
}
