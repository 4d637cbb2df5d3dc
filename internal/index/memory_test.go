package index

import (
	"context"
	"sync"
	"testing"
	"time"
)

func newIndex(t *testing.T) *MemoryIndex {
	t.Helper()
	idx, err := NewMemoryIndex(100, 0)
	if err != nil {
		t.Fatalf("NewMemoryIndex() error = %v", err)
	}
	t.Cleanup(idx.Close)
	return idx
}

func TestNewMemoryIndexRejectsZeroSize(t *testing.T) {
	if _, err := NewMemoryIndex(0, 0); err == nil {
		t.Error("NewMemoryIndex(0) should fail")
	}
}

func TestGetMiss(t *testing.T) {
	idx := newIndex(t)

	got, err := idx.Get(context.Background(), "10:python")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %q, want nil on miss", got)
	}
}

func TestSetThenGet(t *testing.T) {
	idx := newIndex(t)
	ctx := context.Background()

	if err := idx.Set(ctx, "10:python", []byte(`{"tier":"exact"}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := idx.Get(ctx, "10:python")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"tier":"exact"}` {
		t.Errorf("Get() = %q", got)
	}
}

func TestFlush(t *testing.T) {
	idx := newIndex(t)
	ctx := context.Background()

	if !idx.LastFlush().IsZero() {
		t.Error("LastFlush() should be zero before any flush")
	}

	_ = idx.Set(ctx, "a", []byte("1"))
	_ = idx.Set(ctx, "b", []byte("2"))
	if err := idx.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	for _, key := range []string{"a", "b"} {
		if got, _ := idx.Get(ctx, key); got != nil {
			t.Errorf("Get(%q) after Flush() = %q, want nil", key, got)
		}
	}
	if time.Since(idx.LastFlush()) > time.Minute {
		t.Errorf("LastFlush() = %v, want recent", idx.LastFlush())
	}
}

func TestConcurrentAccess(t *testing.T) {
	idx := newIndex(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_ = idx.Set(ctx, "k", []byte("v"))
		}()
		go func() {
			defer wg.Done()
			_, _ = idx.Get(ctx, "k")
		}()
		go func() {
			defer wg.Done()
			_ = idx.Flush(ctx)
		}()
	}
	wg.Wait()
}
