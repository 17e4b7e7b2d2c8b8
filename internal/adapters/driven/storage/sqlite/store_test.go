package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/normabundle/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
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

func testSnapshot(path string) *domain.BundleSnapshot {
	return &domain.BundleSnapshot{
		Path:             path,
		ManifestSize:     128,
		ReservedFiles:    []string{"fulltext.pdf", "results.json"},
		NonReservedFiles: []string{"ah1234.cif"},
		ReservedDirs:     []string{"results"},
		Summary:          "dir: " + path + "\n" + path + "/fulltext.pdf\n" + path + "/results.json\n",
		InspectedAt:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// ==================== Store Creation Tests ====================

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseName), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, dir)
}

func TestNewStore_MigrationsApplied(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.version()
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	var count int
	err = store.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='bundles'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.CatalogStore().Save(ctx, testSnapshot("/bundles/a")))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	version, err := reopened.version()
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	snap, err := reopened.CatalogStore().Get(ctx, "/bundles/a")
	require.NoError(t, err)
	assert.Equal(t, "/bundles/a", snap.Path)
}

// ==================== Catalog Store Tests ====================

func TestCatalogStore_SaveAndGet(t *testing.T) {
	catalog := setupTestStore(t).CatalogStore()
	ctx := context.Background()
	want := testSnapshot("/bundles/a")

	require.NoError(t, catalog.Save(ctx, want))

	got, err := catalog.Get(ctx, "/bundles/a")
	require.NoError(t, err)
	assert.Equal(t, want.Path, got.Path)
	assert.Equal(t, want.ManifestSize, got.ManifestSize)
	assert.Equal(t, want.ReservedFiles, got.ReservedFiles)
	assert.Equal(t, want.NonReservedFiles, got.NonReservedFiles)
	assert.Equal(t, want.ReservedDirs, got.ReservedDirs)
	assert.Nil(t, got.NonReservedDirs)
	assert.Equal(t, want.Summary, got.Summary)
	assert.True(t, want.InspectedAt.Equal(got.InspectedAt))
}

func TestCatalogStore_SaveReplaces(t *testing.T) {
	catalog := setupTestStore(t).CatalogStore()
	ctx := context.Background()

	require.NoError(t, catalog.Save(ctx, testSnapshot("/bundles/a")))

	updated := testSnapshot("/bundles/a")
	updated.ReservedFiles = append(updated.ReservedFiles, "results.xml")
	updated.ManifestSize = 256
	require.NoError(t, catalog.Save(ctx, updated))

	got, err := catalog.Get(ctx, "/bundles/a")
	require.NoError(t, err)
	assert.Equal(t, int64(256), got.ManifestSize)
	assert.Contains(t, got.ReservedFiles, "results.xml")

	all, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCatalogStore_SaveInvalid(t *testing.T) {
	catalog := setupTestStore(t).CatalogStore()
	ctx := context.Background()

	assert.ErrorIs(t, catalog.Save(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, catalog.Save(ctx, &domain.BundleSnapshot{}), domain.ErrInvalidInput)
}

func TestCatalogStore_SaveZeroTime(t *testing.T) {
	catalog := setupTestStore(t).CatalogStore()
	ctx := context.Background()
	snap := testSnapshot("/bundles/a")
	snap.InspectedAt = time.Time{}

	require.NoError(t, catalog.Save(ctx, snap))

	got, err := catalog.Get(ctx, "/bundles/a")
	require.NoError(t, err)
	assert.False(t, got.InspectedAt.IsZero())
}

func TestCatalogStore_GetNotFound(t *testing.T) {
	catalog := setupTestStore(t).CatalogStore()

	_, err := catalog.Get(context.Background(), "/nowhere")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogStore_ListOrderedByPath(t *testing.T) {
	catalog := setupTestStore(t).CatalogStore()
	ctx := context.Background()

	for _, p := range []string{"/bundles/c", "/bundles/a", "/bundles/b"} {
		require.NoError(t, catalog.Save(ctx, testSnapshot(p)))
	}

	all, err := catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "/bundles/a", all[0].Path)
	assert.Equal(t, "/bundles/b", all[1].Path)
	assert.Equal(t, "/bundles/c", all[2].Path)
}

func TestCatalogStore_ListEmpty(t *testing.T) {
	catalog := setupTestStore(t).CatalogStore()

	all, err := catalog.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCatalogStore_Delete(t *testing.T) {
	catalog := setupTestStore(t).CatalogStore()
	ctx := context.Background()
	require.NoError(t, catalog.Save(ctx, testSnapshot("/bundles/a")))

	require.NoError(t, catalog.Delete(ctx, "/bundles/a"))
	_, err := catalog.Get(ctx, "/bundles/a")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, catalog.Delete(ctx, "/bundles/a"))
}

func TestCatalogStore_ConcurrentSaves(t *testing.T) {
	catalog := setupTestStore(t).CatalogStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- catalog.Save(ctx, testSnapshot(filepath.Join("/bundles", string(rune('a'+i)))))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	all, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func TestDecodeNames(t *testing.T) {
	names, err := decodeNames(`["a","b"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	names, err = decodeNames(`[]`)
	require.NoError(t, err)
	assert.Nil(t, names)

	_, err = decodeNames(`not json`)
	assert.Error(t, err)
}
