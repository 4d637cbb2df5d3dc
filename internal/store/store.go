// Package store owns the durable record set: resources and jobs held in a
// single document, mutated through serialized read-modify-write cycles.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
)

// DefaultLimit is used when a caller passes a non-positive limit.
const DefaultLimit = 10

// Collection is a durable document with atomic replace semantics.
//
// Load returns an empty document when nothing was persisted yet and an
// error wrapping domain.ErrStoreCorrupt when the persisted form cannot be
// parsed. Replace must never leave a partially written document visible.
type Collection interface {
	Load(ctx context.Context) (*domain.Document, error)
	Replace(ctx context.Context, doc *domain.Document) error
	Close() error
}

// Categorizer derives a category for resources submitted without one.
type Categorizer interface {
	Categorize(text, explicit string) string
}

// ChangeFunc is invoked after every successful mutation.
type ChangeFunc func(ctx context.Context)

// Store arbitrates all reads and writes of the document.
// Every public operation runs load -> mutate -> replace under one lock,
// so a single Store instance must own the collection.
type Store struct {
	mu          sync.Mutex
	coll        Collection
	categorizer Categorizer
	logger      logger.Logger
	now         func() time.Time
	newID       func() string

	hooksMu sync.RWMutex
	hooks   []ChangeFunc
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates a store over coll.
func New(coll Collection, categorizer Categorizer, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		coll:        coll,
		categorizer: categorizer,
		logger:      log,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads the document once so a corrupt store is repaired at startup.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.snapshot(ctx)
	return err
}

// Close releases the underlying collection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Close()
}

// OnChange registers fn to run after each successful mutation.
func (s *Store) OnChange(fn ChangeFunc) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time { return s.now() }

// load must be called with s.mu held. A corrupt document is replaced by
// an empty one; only I/O failures are returned. Records missing an ID are
// assigned one and written back so the ID stays stable across reads.
func (s *Store) load(ctx context.Context) (*domain.Document, error) {
	doc, err := s.coll.Load(ctx)
	if err == nil {
		if assigned := s.sanitize(doc); assigned > 0 {
			s.logger.Info("assigned ids to stored records", logger.Int("count", assigned))
			if err := s.coll.Replace(ctx, doc); err != nil {
				return nil, err
			}
		}
		return doc, nil
	}
	if !errors.Is(err, domain.ErrStoreCorrupt) {
		return nil, err
	}

	s.logger.Warn("store document corrupted, reinitializing empty", logger.Error(err))
	doc = domain.NewDocument()
	if err := s.coll.Replace(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// sanitize defaults fields that older or hand-edited documents may lack.
// It returns how many records received a new ID.
func (s *Store) sanitize(doc *domain.Document) int {
	assigned := 0
	for _, r := range doc.Resources {
		if r.ID == "" {
			r.ID = s.newID()
			assigned++
		}
		if r.Category == "" {
			r.Category = domain.DefaultCategory
		}
		if r.UpdatedAt.IsZero() {
			r.UpdatedAt = r.CreatedAt
		}
	}
	for _, j := range doc.Jobs {
		if j.ID == "" {
			j.ID = s.newID()
			assigned++
		}
		if j.Status == "" {
			j.Status = domain.JobStatusActive
		}
	}
	return assigned
}

// snapshot returns the current document for read-only use.
func (s *Store) snapshot(ctx context.Context) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// mutate runs fn against a freshly loaded document and persists it when
// fn reports a change. Hooks fire after the lock is released.
func (s *Store) mutate(ctx context.Context, fn func(doc *domain.Document) (bool, error)) error {
	changed, err := func() (bool, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		doc, err := s.load(ctx)
		if err != nil {
			return false, err
		}
		changed, err := fn(doc)
		if err != nil || !changed {
			return false, err
		}
		return true, s.coll.Replace(ctx, doc)
	}()
	if err != nil {
		return err
	}
	if changed {
		s.notify(ctx)
	}
	return nil
}

func (s *Store) notify(ctx context.Context) {
	s.hooksMu.RLock()
	hooks := make([]ChangeFunc, len(s.hooks))
	copy(hooks, s.hooks)
	s.hooksMu.RUnlock()

	for _, fn := range hooks {
		fn(ctx)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
