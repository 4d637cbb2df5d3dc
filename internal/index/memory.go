package index

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// MemoryIndex is the in-process search result cache.
// It is used when Redis is not configured.
type MemoryIndex struct {
	cache      *ristretto.Cache[string, []byte]
	ttl        time.Duration
	lastFlush  atomic.Int64 // unix nanos
	maxEntries int64
}

// NewMemoryIndex creates a cache holding roughly maxEntries outcomes.
// A zero ttl keeps entries until evicted or flushed.
func NewMemoryIndex(maxEntries int64, ttl time.Duration) (*MemoryIndex, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("memory index size must be positive, got %d", maxEntries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create memory index: %w", err)
	}
	return &MemoryIndex{cache: cache, ttl: ttl, maxEntries: maxEntries}, nil
}

// Get returns the cached value or nil on a miss.
func (idx *MemoryIndex) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := idx.cache.Get(key)
	if !ok {
		return nil, nil
	}
	return value, nil
}

// Set stores value with a cost of one entry and waits until it is visible.
func (idx *MemoryIndex) Set(_ context.Context, key string, value []byte) error {
	idx.cache.SetWithTTL(key, value, 1, idx.ttl)
	idx.cache.Wait()
	return nil
}

// Flush drops every entry.
func (idx *MemoryIndex) Flush(_ context.Context) error {
	idx.cache.Clear()
	idx.lastFlush.Store(time.Now().UnixNano())
	return nil
}

// LastFlush returns the time of the last flush (zero if never flushed).
func (idx *MemoryIndex) LastFlush() time.Time {
	n := idx.lastFlush.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Capacity returns the configured entry budget.
func (idx *MemoryIndex) Capacity() int64 { return idx.maxEntries }

// Close stops the cache's background goroutines.
func (idx *MemoryIndex) Close() {
	idx.cache.Close()
}
