package homepage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/linkbot/internal/store"
)

// Mapper converts Homepage entries into resource submissions.
// The Homepage group becomes the explicit category.
type Mapper struct {
	userID string
}

// NewMapper creates a mapper; userID is recorded as the submitter
func NewMapper(userID string) *Mapper {
	return &Mapper{userID: userID}
}

// MapServices converts a services.yaml config
func (m *Mapper) MapServices(config ServicesConfig) ([]store.AddResourceInput, error) {
	var inputs []store.AddResourceInput

	for _, groupMap := range config {
		for _, group := range sortedKeys(groupMap) {
			for _, serviceMap := range groupMap[group] {
				for _, name := range sortedKeys(serviceMap) {
					props := serviceMap[name]
					if strings.TrimSpace(props.Href) == "" {
						continue
					}

					description := name
					if props.Description != "" {
						description = name + " - " + props.Description
					}
					inputs = append(inputs, m.input(props.Href, description, group))
				}
			}
		}
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no valid services found in homepage config")
	}
	return inputs, nil
}

// MapBookmarks converts a bookmarks.yaml config
func (m *Mapper) MapBookmarks(config BookmarksConfig) ([]store.AddResourceInput, error) {
	var inputs []store.AddResourceInput

	for _, groupMap := range config {
		for _, group := range sortedKeys(groupMap) {
			for _, bookmarkMap := range groupMap[group] {
				for _, name := range sortedKeys(bookmarkMap) {
					entries := bookmarkMap[name]
					// Each bookmark has a list with a single entry
					if len(entries) == 0 || strings.TrimSpace(entries[0].Href) == "" {
						continue
					}
					inputs = append(inputs, m.input(entries[0].Href, name, group))
				}
			}
		}
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no valid bookmarks found in homepage config")
	}
	return inputs, nil
}

func (m *Mapper) input(href, description, group string) store.AddResourceInput {
	return store.AddResourceInput{
		URL:         strings.TrimSpace(href),
		Description: description,
		UserID:      m.userID,
		Category:    CategoryFromGroup(group),
	}
}

// CategoryFromGroup turns a Homepage group name into a category token
// Example: "Dev Tools" -> "dev-tools"
func CategoryFromGroup(group string) string {
	return strings.Join(strings.Fields(strings.ToLower(group)), "-")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
