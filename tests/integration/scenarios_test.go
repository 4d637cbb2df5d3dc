package integration

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkbot/internal/categorize"
	"github.com/MrSnakeDoc/linkbot/internal/digest"
	"github.com/MrSnakeDoc/linkbot/internal/index"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/search"
	"github.com/MrSnakeDoc/linkbot/internal/store"
	badgerstore "github.com/MrSnakeDoc/linkbot/internal/store/badger"
	"github.com/MrSnakeDoc/linkbot/internal/store/file"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

var epoch = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

type bot struct {
	store  *store.Store
	engine *search.Engine
	clock  *clock
}

// backends opens the same scenario against every Collection implementation.
func backends(t *testing.T) map[string]func(t *testing.T) store.Collection {
	return map[string]func(t *testing.T) store.Collection{
		"file": func(t *testing.T) store.Collection {
			coll, err := file.New(filepath.Join(t.TempDir(), "bot.json"))
			require.NoError(t, err)
			return coll
		},
		"badger": func(t *testing.T) store.Collection {
			coll, err := badgerstore.Open("", true, logger.NewNop())
			require.NoError(t, err)
			return coll
		},
	}
}

func newBot(t *testing.T, coll store.Collection) *bot {
	t.Helper()
	log := logger.NewNop()
	c := &clock{t: epoch}
	categorizer := categorize.New(categorize.DefaultTermTable())

	s := store.New(coll, categorizer, log, store.WithClock(c.Now))
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { _ = s.Close() })

	idx, err := index.NewMemoryIndex(32, 0)
	require.NoError(t, err)
	t.Cleanup(idx.Close)

	engine := search.NewEngine(s, categorizer, idx, log)
	s.OnChange(engine.Invalidate)
	return &bot{store: s, engine: engine, clock: c}
}

func TestScenarios(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("A categorizes from the description", func(t *testing.T) {
				b := newBot(t, open(t))
				res, err := b.store.AddResource(context.Background(), store.AddResourceInput{
					URL:         "github.com/x",
					Description: "python tutorial",
				})
				require.NoError(t, err)
				assert.Equal(t, store.ActionAdded, res.Action)
				assert.Equal(t, "programming", res.Category)

				stored, err := b.store.GetResource(context.Background(), res.ID)
				require.NoError(t, err)
				assert.Equal(t, "https://github.com/x", stored.URL)
			})

			t.Run("B deduplicates equivalent URLs", func(t *testing.T) {
				b := newBot(t, open(t))
				ctx := context.Background()

				first, err := b.store.AddResource(ctx, store.AddResourceInput{URL: "http://Example.com/"})
				require.NoError(t, err)
				second, err := b.store.AddResource(ctx, store.AddResourceInput{URL: "example.com"})
				require.NoError(t, err)

				assert.Equal(t, store.ActionUpdated, second.Action)
				assert.Equal(t, first.ID, second.ID)

				all, err := b.store.AllResources(ctx)
				require.NoError(t, err)
				assert.Len(t, all, 1)
			})

			t.Run("C exhausts every tier", func(t *testing.T) {
				b := newBot(t, open(t))
				ctx := context.Background()
				_, err := b.store.AddResource(ctx, store.AddResourceInput{URL: "a.example.com", Description: "python tutorial"})
				require.NoError(t, err)

				hits, err := b.engine.Search(ctx, "zzzznoresult", 0)
				require.NoError(t, err)
				assert.Empty(t, hits)
			})

			t.Run("D lists a job only inside the lookahead", func(t *testing.T) {
				b := newBot(t, open(t))
				ctx := context.Background()
				today := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

				_, err := b.store.AddJob(ctx, store.AddJobInput{
					Title:       "Exam",
					OfficialURL: "exam.example.com",
					StartDate:   today.AddDate(0, 0, 10).Format("02-01-2006"),
					EndDate:     today.AddDate(0, 0, 20).Format("2006-01-02"),
				})
				require.NoError(t, err)

				starting, err := b.store.GetJobsStartingSoon(ctx)
				require.NoError(t, err)
				assert.Empty(t, starting)
				ending, err := b.store.GetJobsEndingSoon(ctx)
				require.NoError(t, err)
				assert.Empty(t, ending)
				active, err := b.store.GetAllActiveJobs(ctx)
				require.NoError(t, err)
				assert.Len(t, active, 1, "upcoming jobs are open")

				b.clock.Set(today.AddDate(0, 0, 4))
				starting, err = b.store.GetJobsStartingSoon(ctx)
				require.NoError(t, err)
				assert.Len(t, starting, 1)
			})
		})
	}
}

func TestSearchCacheFollowsMutations(t *testing.T) {
	b := newBot(t, backends(t)["file"](t))
	ctx := context.Background()

	out, err := b.engine.Lookup(ctx, "kubernetes", 0)
	require.NoError(t, err)
	assert.Equal(t, search.TierNone, out.Tier)

	_, err = b.store.AddResource(ctx, store.AddResourceInput{URL: "k8s.example.com", Description: "kubernetes the hard way"})
	require.NoError(t, err)

	out, err = b.engine.Lookup(ctx, "kubernetes", 0)
	require.NoError(t, err)
	assert.Equal(t, search.TierExact, out.Tier)
	require.Len(t, out.Hits, 1)
	assert.Equal(t, "devops", out.Hits[0].Category)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.json")
	ctx := context.Background()

	coll, err := file.New(path)
	require.NoError(t, err)
	first := newBot(t, coll)
	_, err = first.store.AddResource(ctx, store.AddResourceInput{URL: "example.com", Description: "docker notes"})
	require.NoError(t, err)
	require.NoError(t, first.store.Close())

	coll, err = file.New(path)
	require.NoError(t, err)
	second := newBot(t, coll)
	cats, err := second.store.GetAllCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"devops"}, cats)
}

func TestBadgerStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	coll, err := badgerstore.Open(dir, false, logger.NewNop())
	require.NoError(t, err)
	first := newBot(t, coll)
	_, err = first.store.AddJob(ctx, store.AddJobInput{
		Title: "Internship", OfficialURL: "jobs.example.com", StartDate: "01-07-2025", EndDate: "03-07-2025",
	})
	require.NoError(t, err)
	require.NoError(t, first.store.Close())

	coll, err = badgerstore.Open(dir, false, logger.NewNop())
	require.NoError(t, err)
	second := newBot(t, coll)

	d, err := digest.Compose(ctx, second.store, epoch)
	require.NoError(t, err)
	assert.Contains(t, d.Text(), "ENDING SOON:\n- Internship - ends 03 Jul 2025")
}
