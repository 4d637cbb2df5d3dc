package categorize

import (
	"fmt"
	"strings"
)

// CategoryTerms is one category and the terms that point to it.
// The order of groups, then of terms inside a group, is the table's
// iteration order.
type CategoryTerms struct {
	Category string   `yaml:"category"`
	Terms    []string `yaml:"terms"`
}

// Term is a single table entry.
type Term struct {
	Term     string
	Category string
}

// TermTable is the immutable term -> category lookup.
// It is built once at startup and shared by reference; there is no
// mutation path after NewTermTable returns.
type TermTable struct {
	entries    []Term
	exact      map[string]string
	byCategory map[string][]string
	categories []string
	prefixes   *trie
}

// DefaultGroups is the built-in term table.
var DefaultGroups = []CategoryTerms{
	{Category: "programming", Terms: []string{"code", "python", "javascript", "java", "node", "react", "vue", "angular", "git", "github", "algorithm", "database", "sql", "nosql", "api", "backend", "frontend", "coding", "developer", "programming", "software"}},
	{Category: "design", Terms: []string{"design", "ui", "ux", "figma", "photoshop", "illustrator", "sketch", "prototype", "wireframe", "typography", "color", "layout", "responsive", "graphic", "visual"}},
	{Category: "business", Terms: []string{"business", "startup", "marketing", "finance", "investment", "venture", "capital", "entrepreneur", "strategy", "growth", "metrics", "roi", "customer", "sales"}},
	{Category: "devops", Terms: []string{"devops", "docker", "kubernetes", "aws", "azure", "gcp", "ci", "cd", "pipeline", "deployment", "infrastructure", "monitoring", "server", "cloud"}},
	{Category: "machinelearning", Terms: []string{"ml", "ai", "neural", "network", "tensorflow", "pytorch", "dataset", "training", "model", "prediction", "nlp", "computer vision", "deep learning", "artificial intelligence"}},
	{Category: "security", Terms: []string{"security", "hacking", "cybersecurity", "pentest", "firewall", "encryption", "vulnerability", "malware", "privacy", "authentication"}},
	{Category: "wargames", Terms: []string{"wargame", "ctf", "capture the flag", "hacking challenge", "security challenge", "overthewire"}},
	{Category: "education", Terms: []string{"learn", "education", "tutorial", "course", "free", "resource", "learning", "study", "training"}},
}

// DefaultTermTable builds the table from DefaultGroups.
func DefaultTermTable() *TermTable {
	t, err := NewTermTable(DefaultGroups)
	if err != nil {
		panic(fmt.Sprintf("default term table is invalid: %v", err))
	}
	return t
}

// NewTermTable builds an immutable table from ordered groups.
// A term listed twice keeps the position of its first occurrence and
// points to the category of its last one.
func NewTermTable(groups []CategoryTerms) (*TermTable, error) {
	t := &TermTable{
		exact:      make(map[string]string),
		byCategory: make(map[string][]string),
		prefixes:   newTrie(),
	}
	position := make(map[string]int)

	for _, g := range groups {
		category := strings.ToLower(strings.TrimSpace(g.Category))
		if category == "" {
			return nil, fmt.Errorf("term group with empty category")
		}
		for _, raw := range g.Terms {
			term := strings.ToLower(strings.TrimSpace(raw))
			if term == "" {
				continue
			}
			if i, ok := position[term]; ok {
				t.entries[i].Category = category
				continue
			}
			position[term] = len(t.entries)
			t.entries = append(t.entries, Term{Term: term, Category: category})
		}
	}

	if len(t.entries) == 0 {
		return nil, fmt.Errorf("term table has no terms")
	}

	seen := make(map[string]bool)
	for _, e := range t.entries {
		t.exact[e.Term] = e.Category
		t.byCategory[e.Category] = append(t.byCategory[e.Category], e.Term)
		t.prefixes.insert(e.Term, e.Category)
		if !seen[e.Category] {
			seen[e.Category] = true
			t.categories = append(t.categories, e.Category)
		}
	}

	return t, nil
}

// Len returns the number of distinct terms.
func (t *TermTable) Len() int { return len(t.entries) }

// Lookup returns the category of an exact term.
func (t *TermTable) Lookup(term string) (string, bool) {
	c, ok := t.exact[term]
	return c, ok
}

// Categories returns every category in first-appearance order.
func (t *TermTable) Categories() []string {
	out := make([]string, len(t.categories))
	copy(out, t.categories)
	return out
}

// Entries returns a copy of the table in iteration order.
func (t *TermTable) Entries() []Term {
	out := make([]Term, len(t.entries))
	copy(out, t.entries)
	return out
}
