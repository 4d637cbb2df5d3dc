package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/sources/homepage"
)

type countingImporter struct {
	runs atomic.Int32
	err  error
}

func (c *countingImporter) Import(context.Context) (homepage.Report, error) {
	c.runs.Add(1)
	return homepage.Report{}, c.err
}

func TestImportReloader_ManualTrigger(t *testing.T) {
	imp := &countingImporter{}
	trigger := make(chan struct{}, 1)
	r := NewImportReloader(imp, logger.NewNop(), time.Hour, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	if imp.runs.Load() != 1 {
		t.Fatalf("runs after Start() = %d, want 1", imp.runs.Load())
	}

	trigger <- struct{}{}
	deadline := time.Now().Add(2 * time.Second)
	for imp.runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if imp.runs.Load() != 2 {
		t.Errorf("runs after trigger = %d, want 2", imp.runs.Load())
	}
}

func TestImportReloader_InitialFailure(t *testing.T) {
	imp := &countingImporter{err: errors.New("missing file")}
	r := NewImportReloader(imp, logger.NewNop(), time.Hour, make(chan struct{}))

	if err := r.Start(context.Background()); err == nil {
		t.Error("Start() should fail when the first import fails")
	}
}
