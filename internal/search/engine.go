// Package search runs the tiered resource lookup: exact matching first,
// then categories reachable through the term table, then a loose
// substring pass. The first tier with results wins.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
)

// DefaultLimit is used when a caller passes a non-positive limit.
const DefaultLimit = 10

// Tier names the stage of the fallback chain that produced the results.
type Tier string

const (
	TierRecent   Tier = "recent"
	TierExact    Tier = "exact"
	TierSemantic Tier = "semantic"
	TierLoose    Tier = "loose"
	TierNone     Tier = "none"
)

// Hit is one search result.
type Hit struct {
	URL         string `json:"url"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Outcome is a search answer with the tier that produced it.
// Suggestions lists categories completing the query when nothing matched.
type Outcome struct {
	Query       string   `json:"query"`
	Tier        Tier     `json:"tier"`
	Hits        []Hit    `json:"results"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ResourceSource exposes the full record set.
type ResourceSource interface {
	AllResources(ctx context.Context) ([]*domain.Resource, error)
}

// Semantics maps query words to categories.
type Semantics interface {
	FindSemanticCategories(query string) []string
	Complete(prefix string) []string
}

// Cache stores encoded outcomes. Get returns nil on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Flush(ctx context.Context) error
}

// Engine executes searches against a ResourceSource.
type Engine struct {
	source    ResourceSource
	semantics Semantics
	cache     Cache
	logger    logger.Logger

	// gen counts invalidations. A computed outcome is cached only if no
	// invalidation started since its resources were read.
	mu  sync.RWMutex
	gen uint64
}

// NewEngine creates an engine. cache may be nil.
func NewEngine(source ResourceSource, semantics Semantics, cache Cache, log logger.Logger) *Engine {
	return &Engine{
		source:    source,
		semantics: semantics,
		cache:     cache,
		logger:    log,
	}
}

// Search returns matching resources, newest first, truncated to limit.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	out, err := e.Lookup(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return out.Hits, nil
}

// Lookup is Search with the producing tier and suggestions attached.
func (e *Engine) Lookup(ctx context.Context, query string, limit int) (*Outcome, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))
	key := cacheKey(q, limit)

	if out := e.cached(ctx, key); out != nil {
		out.Query = strings.TrimSpace(query)
		return out, nil
	}

	gen := e.generation()
	resources, err := e.source.AllResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load resources: %w", err)
	}

	out := e.run(resources, q, limit)
	out.Query = strings.TrimSpace(query)
	e.store(ctx, key, out, gen)

	e.logger.Debug("search",
		logger.String("query", q),
		logger.String("tier", string(out.Tier)),
		logger.Int("hits", len(out.Hits)),
	)
	return out, nil
}

// Invalidate drops every cached outcome. Registered as a store change hook.
// The flush outlives cancellation of the writer's context.
func (e *Engine) Invalidate(ctx context.Context) {
	if e.cache == nil {
		return
	}
	e.mu.Lock()
	e.gen++
	e.mu.Unlock()

	if err := e.cache.Flush(context.WithoutCancel(ctx)); err != nil {
		e.logger.Warn("failed to flush search cache", logger.Error(err))
	}
}

func (e *Engine) run(resources []*domain.Resource, q string, limit int) *Outcome {
	if q == "" {
		return &Outcome{Tier: TierRecent, Hits: rank(resources, limit)}
	}

	if hits := filter(resources, func(r *domain.Resource) bool { return exactMatch(r, q) }); len(hits) > 0 {
		return &Outcome{Tier: TierExact, Hits: rank(hits, limit)}
	}

	if cats := e.semantics.FindSemanticCategories(q); len(cats) > 0 {
		set := make(map[string]struct{}, len(cats))
		for _, c := range cats {
			set[c] = struct{}{}
		}
		hits := filter(resources, func(r *domain.Resource) bool {
			_, ok := set[r.Category]
			return ok
		})
		if len(hits) > 0 {
			return &Outcome{Tier: TierSemantic, Hits: rank(hits, limit)}
		}
	}

	if hits := filter(resources, func(r *domain.Resource) bool { return looseMatch(r, q) }); len(hits) > 0 {
		return &Outcome{Tier: TierLoose, Hits: rank(hits, limit)}
	}

	return &Outcome{Tier: TierNone, Hits: []Hit{}, Suggestions: e.semantics.Complete(q)}
}

// exactMatch: description contains q, category equals q, or url contains q.
func exactMatch(r *domain.Resource, q string) bool {
	return strings.Contains(strings.ToLower(r.Description), q) ||
		strings.ToLower(r.Category) == q ||
		strings.Contains(strings.ToLower(r.URL), q)
}

// looseMatch: description or category contains q.
func looseMatch(r *domain.Resource, q string) bool {
	return strings.Contains(strings.ToLower(r.Description), q) ||
		strings.Contains(strings.ToLower(r.Category), q)
}

func filter(resources []*domain.Resource, keep func(*domain.Resource) bool) []*domain.Resource {
	var out []*domain.Resource
	for _, r := range resources {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// rank sorts newest first and truncates. The input slice is not modified.
func rank(resources []*domain.Resource, limit int) []Hit {
	sorted := make([]*domain.Resource, len(resources))
	copy(sorted, resources)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	hits := make([]Hit, 0, len(sorted))
	for _, r := range sorted {
		hits = append(hits, Hit{URL: r.URL, Description: r.Description, Category: r.Category})
	}
	return hits
}

func cacheKey(q string, limit int) string {
	return fmt.Sprintf("%d:%s", limit, q)
}

// cached returns a decoded hit or nil. Cache failures degrade to a miss.
func (e *Engine) cached(ctx context.Context, key string) *Outcome {
	if e.cache == nil {
		return nil
	}
	raw, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("search cache read failed", logger.Error(err))
		return nil
	}
	if raw == nil {
		return nil
	}
	var out Outcome
	if err := json.Unmarshal(raw, &out); err != nil {
		e.logger.Warn("search cache entry unreadable", logger.String("key", key), logger.Error(err))
		return nil
	}
	return &out
}

func (e *Engine) generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.gen
}

// store caches out unless an invalidation began after gen was read.
// The read lock is held across Set so a flush always follows any Set it races with.
func (e *Engine) store(ctx context.Context, key string, out *Outcome, gen uint64) {
	if e.cache == nil {
		return
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.gen != gen {
		return
	}
	if err := e.cache.Set(ctx, key, raw); err != nil {
		e.logger.Warn("search cache write failed", logger.Error(err))
	}
}
