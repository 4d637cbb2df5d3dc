package categorize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
)

const (
	// Scoring weights
	ScoreExactMatch     = 3
	ScoreSubstringMatch = 1

	// MinTokenLength is the shortest token kept by Tokenize.
	MinTokenLength = 3

	// MaxSuggestions caps SuggestionsFor.
	MaxSuggestions = 5
)

// Categorizer maps free text to a category using an immutable term table.
// It is safe for concurrent use.
type Categorizer struct {
	table *TermTable
}

// New creates a categorizer over table.
func New(table *TermTable) *Categorizer {
	return &Categorizer{table: table}
}

// Table returns the term table the categorizer reads from.
func (c *Categorizer) Table() *TermTable { return c.table }

// Categorize returns the best-fit category for text.
// A non-empty explicit category always wins and is returned lowercased.
func (c *Categorizer) Categorize(text, explicit string) string {
	if category := domain.NormalizeCategory(explicit); category != "" {
		return category
	}

	scores := make(map[string]int)
	var order []string // categories in the order they first scored

	add := func(category string, points int) {
		if _, ok := scores[category]; !ok {
			order = append(order, category)
		}
		scores[category] += points
	}

	for _, token := range Tokenize(text) {
		if category, ok := c.table.Lookup(token); ok {
			add(category, ScoreExactMatch)
		}
		for _, e := range c.table.entries {
			if matches(token, e.Term) {
				add(e.Category, ScoreSubstringMatch)
			}
		}
	}

	if len(order) == 0 {
		return domain.DefaultCategory
	}

	// strict > keeps the earliest category on ties
	best := order[0]
	for _, category := range order[1:] {
		if scores[category] > scores[best] {
			best = category
		}
	}
	return best
}

// FindSemanticCategories returns every category reachable from query
// through an exact or substring term match, in first-discovered order.
func (c *Categorizer) FindSemanticCategories(query string) []string {
	seen := make(map[string]bool)
	var found []string

	for _, token := range Tokenize(query) {
		for _, e := range c.table.entries {
			if seen[e.Category] {
				continue
			}
			if matches(token, e.Term) {
				seen[e.Category] = true
				found = append(found, e.Category)
			}
		}
	}
	return found
}

// SuggestionsFor returns up to MaxSuggestions representative terms for category.
func (c *Categorizer) SuggestionsFor(category string) []string {
	terms := c.table.byCategory[domain.NormalizeCategory(category)]
	if len(terms) > MaxSuggestions {
		terms = terms[:MaxSuggestions]
	}
	out := make([]string, len(terms))
	copy(out, terms)
	return out
}

// Complete returns the categories owning a term that starts with prefix,
// in table order.
func (c *Categorizer) Complete(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}
	found := c.table.prefixes.collect(prefix)
	if len(found) == 0 {
		return nil
	}
	out := make([]string, 0, len(found))
	for _, category := range c.table.categories {
		if found[category] {
			out = append(out, category)
		}
	}
	return out
}

// Tokenize lowercases text, strips everything that is not a letter, digit
// or whitespace, splits on whitespace and drops tokens shorter than
// MinTokenLength runes.
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, text)

	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= MinTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// matches reports whether term and token contain one another.
func matches(token, term string) bool {
	return strings.Contains(token, term) || strings.Contains(term, token)
}
