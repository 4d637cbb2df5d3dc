package store

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
)

// Action reports what AddResource did.
type Action string

const (
	ActionAdded   Action = "added"
	ActionUpdated Action = "updated"
)

// AddResourceInput is a link submission. Category is optional.
type AddResourceInput struct {
	URL         string `json:"url"`
	Description string `json:"description"`
	UserID      string `json:"user_id,omitempty"`
	Category    string `json:"category,omitempty"`
}

// AddResult is returned by AddResource.
type AddResult struct {
	Action   Action `json:"action"`
	Category string `json:"category"`
	ID       string `json:"id"`
}

// FindDuplicate returns the resource whose URL shares rawURL's dedup key.
func (s *Store) FindDuplicate(ctx context.Context, rawURL string) (*domain.Resource, bool, error) {
	doc, err := s.snapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	r := findByKey(doc.Resources, domain.DedupKey(rawURL))
	return r, r != nil, nil
}

// AddResource upserts a link.
//
// An equivalent URL already stored is updated in place: description and
// UpdatedAt are overwritten, the category only when one is supplied.
// Otherwise a new resource is appended, categorized from its description
// when no category is supplied.
func (s *Store) AddResource(ctx context.Context, in AddResourceInput) (AddResult, error) {
	link, err := validateURL("url", in.URL)
	if err != nil {
		return AddResult{}, err
	}
	explicit, err := validateCategory(in.Category)
	if err != nil {
		return AddResult{}, err
	}
	description := strings.TrimSpace(in.Description)
	key := domain.DedupKey(link)

	var result AddResult
	err = s.mutate(ctx, func(doc *domain.Document) (bool, error) {
		now := s.now()

		if existing := findByKey(doc.Resources, key); existing != nil {
			existing.Description = description
			existing.UpdatedAt = now
			if explicit != "" {
				existing.Category = explicit
			}
			result = AddResult{Action: ActionUpdated, Category: existing.Category, ID: existing.ID}
			return true, nil
		}

		r := &domain.Resource{
			ID:          s.newID(),
			URL:         link,
			Description: description,
			Category:    s.categorizer.Categorize(description, explicit),
			UserID:      strings.TrimSpace(in.UserID),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		doc.Resources = append(doc.Resources, r)
		result = AddResult{Action: ActionAdded, Category: r.Category, ID: r.ID}
		return true, nil
	})
	if err != nil {
		return AddResult{}, err
	}

	s.logger.Debug("resource stored",
		logger.String("action", string(result.Action)),
		logger.String("id", result.ID),
		logger.String("category", result.Category),
	)
	return result, nil
}

// GetResource returns the resource with the given id.
func (s *Store) GetResource(ctx context.Context, id string) (*domain.Resource, error) {
	doc, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	r := findByID(doc.Resources, id)
	if r == nil {
		return nil, &domain.NotFoundError{Kind: "resource", ID: id}
	}
	return r, nil
}

// UpdateCategory sets an explicit category on an existing resource.
func (s *Store) UpdateCategory(ctx context.Context, id, category string) (*domain.Resource, error) {
	explicit, err := validateCategory(category)
	if err != nil {
		return nil, err
	}
	if explicit == "" {
		return nil, domain.Invalid("category", category, "must not be empty")
	}

	var updated domain.Resource
	err = s.mutate(ctx, func(doc *domain.Document) (bool, error) {
		r := findByID(doc.Resources, id)
		if r == nil {
			return false, &domain.NotFoundError{Kind: "resource", ID: id}
		}
		r.Category = explicit
		r.UpdatedAt = s.now()
		updated = *r
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteResource removes the resource with the given id.
func (s *Store) DeleteResource(ctx context.Context, id string) error {
	return s.mutate(ctx, func(doc *domain.Document) (bool, error) {
		for i, r := range doc.Resources {
			if r.ID == id {
				doc.Resources = append(doc.Resources[:i], doc.Resources[i+1:]...)
				return true, nil
			}
		}
		return false, &domain.NotFoundError{Kind: "resource", ID: id}
	})
}

// AllResources returns every stored resource in document order.
func (s *Store) AllResources(ctx context.Context) ([]*domain.Resource, error) {
	doc, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Resources, nil
}

// GetResourcesByCategory returns the newest resources whose stored category
// equals category exactly, projected to {url, description}.
func (s *Store) GetResourcesByCategory(ctx context.Context, category string, limit int) ([]domain.ResourceView, error) {
	doc, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var matched []*domain.Resource
	for _, r := range doc.Resources {
		if r.Category == category {
			matched = append(matched, r)
		}
	}
	SortNewestFirst(matched)

	limit = normalizeLimit(limit)
	if len(matched) > limit {
		matched = matched[:limit]
	}

	views := make([]domain.ResourceView, 0, len(matched))
	for _, r := range matched {
		views = append(views, r.View())
	}
	return views, nil
}

// GetAllCategories returns the distinct non-empty categories, sorted.
func (s *Store) GetAllCategories(ctx context.Context) ([]string, error) {
	doc, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, r := range doc.Resources {
		if r.Category == "" {
			continue
		}
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		categories = append(categories, r.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// CleanupOldResources removes resources created more than maxAge ago and
// returns how many were removed.
func (s *Store) CleanupOldResources(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}

	removed := 0
	err := s.mutate(ctx, func(doc *domain.Document) (bool, error) {
		cutoff := s.now().Add(-maxAge)
		kept := doc.Resources[:0]
		for _, r := range doc.Resources {
			if r.CreatedAt.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		doc.Resources = kept
		return removed > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// SortNewestFirst orders resources by CreatedAt descending, keeping
// document order among equal timestamps.
func SortNewestFirst(resources []*domain.Resource) {
	sort.SliceStable(resources, func(i, j int) bool {
		return resources[i].CreatedAt.After(resources[j].CreatedAt)
	})
}

func findByKey(resources []*domain.Resource, key string) *domain.Resource {
	for _, r := range resources {
		if domain.DedupKey(r.URL) == key {
			return r
		}
	}
	return nil
}

func findByID(resources []*domain.Resource, id string) *domain.Resource {
	for _, r := range resources {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// validateURL returns the URL with a guaranteed scheme or a ValidationError.
func validateURL(field, raw string) (string, error) {
	link := domain.EnsureScheme(raw)
	if link == "" {
		return "", domain.Invalid(field, raw, "must not be empty")
	}
	if strings.ContainsAny(link, " \t\r\n") {
		return "", domain.Invalid(field, raw, "must not contain whitespace")
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", domain.Invalid(field, raw, err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", domain.Invalid(field, raw, "scheme must be http or https")
	}
	if u.Host == "" {
		return "", domain.Invalid(field, raw, "missing host")
	}
	return link, nil
}

// validateCategory normalizes an optional category; it must be one token.
func validateCategory(raw string) (string, error) {
	category := domain.NormalizeCategory(raw)
	if strings.ContainsAny(category, " \t\r\n") {
		return "", domain.Invalid("category", raw, "must be a single word")
	}
	return category, nil
}
