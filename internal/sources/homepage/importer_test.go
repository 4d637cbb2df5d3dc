package homepage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkbot/internal/categorize"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/store"
	"github.com/MrSnakeDoc/linkbot/internal/store/file"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	coll, err := file.New(filepath.Join(t.TempDir(), "bot.json"))
	require.NoError(t, err)
	return store.New(coll, categorize.New(categorize.DefaultTermTable()), logger.NewNop())
}

func TestImportServices(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	path := writeFile(t, "services.yaml", servicesYAML)

	report, err := NewImporter(path, FormatServices, s, logger.NewNop()).Import(ctx)
	require.NoError(t, err)
	// Gitea's templated href is stripped to ""
	assert.Equal(t, Report{Added: 2}, report)

	cats, err := s.GetAllCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev-tools", "infrastructure"}, cats)
}

func TestImportSkipsKnownLinks(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	path := writeFile(t, "bookmarks.yaml", bookmarksYAML)

	_, err := s.AddResource(ctx, store.AddResourceInput{URL: "github.com", Category: "mine"})
	require.NoError(t, err)

	im := NewImporter(path, FormatBookmarks, s, logger.NewNop())
	report, err := im.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Added: 1, Skipped: 1}, report)

	r, ok, err := s.FindDuplicate(ctx, "https://github.com/")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "mine", r.Category)

	im.Overwrite = true
	report, err = im.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Updated: 2}, report)
}

func TestImportCountsInvalidEntries(t *testing.T) {
	s := newStore(t)
	path := writeFile(t, "bookmarks.yaml", `---
- Misc:
    - Broken:
        - href: ftp://files.example.com
    - Fine:
        - href: https://example.com
`)

	report, err := NewImporter(path, FormatBookmarks, s, logger.NewNop()).Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Added: 1, Invalid: 1}, report)
}
