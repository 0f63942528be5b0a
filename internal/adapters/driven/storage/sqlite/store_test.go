package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ideabot/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func newTestIdea(id string, chatID int64, category string, at time.Time) *domain.Idea {
	return &domain.Idea{
		ID:            id,
		ChatID:        chatID,
		CategoryKey:   category,
		CategoryLabel: "Label " + category,
		Text:          "*🚀 Business Idea: " + id + "*",
		Model:         "gemini-2.5-flash",
		CreatedAt:     at,
	}
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseName), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_CreatesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStore_DefaultDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(home, ".ideabot", "data", DatabaseName), store.Path())
}

func TestNewStore_InvalidDirectory(t *testing.T) {
	_, err := NewStore("/dev/null/cannot/create")
	assert.Error(t, err)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, newTestIdea("keep", 1, "tech", time.Now())))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "keep", got.ID)
}

func TestMigrate_RecordsVersion(t *testing.T) {
	store := setupTestStore(t)

	var version int
	err := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestMigrate_SkipsAppliedAndUnnumbered(t *testing.T) {
	store := setupTestStore(t)

	fsys := fstest.MapFS{
		"001_ideas.up.sql":   {Data: []byte("THIS WOULD FAIL")},
		"notes.up.sql":       {Data: []byte("ALSO INVALID")},
		"002_extra.up.sql":   {Data: []byte("CREATE TABLE extra (id INTEGER);")},
		"002_extra.down.sql": {Data: []byte("DROP TABLE extra;")},
	}

	require.NoError(t, store.migrate(fsys))

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestMigrate_FailureRollsBack(t *testing.T) {
	store := setupTestStore(t)

	fsys := fstest.MapFS{
		"002_broken.up.sql": {Data: []byte("CREATE TABLE broken (;")},
	}

	err := store.migrate(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_broken.up.sql")

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

// ==================== Idea Store Tests ====================

func TestStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	at := time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.UTC)

	idea := newTestIdea("idea-1", 42, "food", at)
	idea.Random = true
	require.NoError(t, store.Save(ctx, idea))

	got, err := store.Get(ctx, "idea-1")
	require.NoError(t, err)
	assert.Equal(t, *idea, *got)
}

func TestStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	at := time.Now().UTC()

	require.NoError(t, store.Save(ctx, newTestIdea("idea-1", 1, "tech", at)))
	updated := newTestIdea("idea-1", 1, "tech", at)
	updated.Text = "replaced"
	require.NoError(t, store.Save(ctx, updated))

	got, err := store.Get(ctx, "idea-1")
	require.NoError(t, err)
	assert.Equal(t, "replaced", got.Text)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
}

func TestStore_SaveRejectsMissingID(t *testing.T) {
	store := setupTestStore(t)

	assert.ErrorIs(t, store.Save(context.Background(), &domain.Idea{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)
}

func TestStore_GetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListByChat(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, newTestIdea(id, 1, "food", base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, store.Save(ctx, newTestIdea("other", 2, "food", base)))

	all, err := store.ListByChat(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "a", all[2].ID)

	limited, err := store.ListByChat(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "c", limited[0].ID)

	none, err := store.ListByChat(ctx, 99, 5)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestStore_ListByChat_SameTimestampOrdersByID(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, newTestIdea("x1", 5, "tech", at)))
	require.NoError(t, store.Save(ctx, newTestIdea("x2", 5, "tech", at)))

	ideas, err := store.ListByChat(ctx, 5, 0)
	require.NoError(t, err)
	require.Len(t, ideas, 2)
	assert.Equal(t, "x2", ideas[0].ID)
}

func TestStore_Stats(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	now := time.Now()

	require.NoError(t, store.Save(ctx, newTestIdea("1", 1, "tech", now)))
	require.NoError(t, store.Save(ctx, newTestIdea("2", 1, "tech", now)))
	require.NoError(t, store.Save(ctx, newTestIdea("3", 2, "health", now)))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[string]int{"tech": 2, "health": 1}, stats.ByCategory)
}

func TestStore_StatsEmpty(t *testing.T) {
	store := setupTestStore(t)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.NotNil(t, stats.ByCategory)
}

func TestStore_ClosedDatabase(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.Error(t, store.Save(ctx, newTestIdea("x", 1, "tech", time.Now())))
	_, err = store.Get(ctx, "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	_, err = store.ListByChat(ctx, 1, 1)
	assert.Error(t, err)
	_, err = store.Stats(ctx)
	assert.Error(t, err)
}

func TestStore_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n))
			assert.NoError(t, store.Save(ctx, newTestIdea(id, 1, "tech", time.Now())))
		}(i)
	}
	wg.Wait()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, stats.Total)
}

func TestScanIdea_NoRows(t *testing.T) {
	store := setupTestStore(t)

	row := store.db.QueryRow("SELECT id, chat_id, category_key, category_label, text, model, random, created_at FROM ideas WHERE 0")
	_, err := scanIdea(row)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
