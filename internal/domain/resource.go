package domain

import (
	"strings"
	"time"
)

// DefaultCategory is assigned when neither the caller nor the categorizer
// can name a better one.
const DefaultCategory = "general"

// Resource represents a submitted link.
//
// A Resource is uniquely identified by the dedup key of its URL
// (see DedupKey). Resubmitting an equivalent URL mutates the existing
// record instead of creating a new one.
type Resource struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned at creation and never changes.
	ID string `json:"id"`

	// URL is the submitted link with a guaranteed scheme.
	// It keeps its original form; comparison uses DedupKey.
	// Example: https://www.GitHub.com/x/
	URL string `json:"url"`

	// ─────────────────────────────
	// Functional description
	// (overwritten on resubmission)
	// ─────────────────────────────

	// Description is free text and may be empty.
	Description string `json:"description"`

	// Category is a lowercase token, caller-supplied or derived.
	// Never empty once stored.
	Category string `json:"category"`

	// ─────────────────────────────
	// Provenance
	// ─────────────────────────────

	// UserID identifies the submitter (optional).
	UserID string `json:"user_id,omitempty"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is the first time the resource was stored.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt advances on every upsert-driven mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// ResourceView is the {url, description} projection returned by category lookups.
type ResourceView struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// View projects the resource to its category-listing form.
func (r *Resource) View() ResourceView {
	return ResourceView{URL: r.URL, Description: r.Description}
}

// EnsureScheme prepends https:// when the URL carries no scheme.
func EnsureScheme(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || strings.Contains(rawURL, "://") {
		return rawURL
	}
	return "https://" + rawURL
}

// DedupKey returns the comparison form of a URL.
// Two URLs are duplicates iff their keys are equal.
//
// Examples:
//   - "http://Example.com/"           -> "example.com"
//   - "https://www.example.com/a?x=1" -> "example.com/a"
//   - "example.com/a/#top"            -> "example.com/a"
func DedupKey(rawURL string) string {
	key := strings.ToLower(strings.TrimSpace(rawURL))

	switch {
	case strings.HasPrefix(key, "https://"):
		key = key[len("https://"):]
	case strings.HasPrefix(key, "http://"):
		key = key[len("http://"):]
	}
	key = strings.TrimPrefix(key, "www.")

	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}

	return strings.TrimSuffix(key, "/")
}

// NormalizeCategory trims and lowercases a caller-supplied category.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
