package bundle

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/normabundle/internal/core/domain"
)

// writeFile creates a file (and parents) on the OS filesystem.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newBundleDir creates a valid bundle with a non-empty manifest.
func newBundleDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "journal.pone.0115884")
	writeFile(t, filepath.Join(dir, domain.ResultsJSON), `{"fulltext_pdf":{"value":["fulltext.pdf"]}}`)
	return dir
}

func TestNew_Defaults(t *testing.T) {
	m := New()

	assert.Empty(t, m.Dir())
	assert.NotNil(t, m.Fs())
	assert.Equal(t, domain.DefaultFileMode, m.fileMode)
	assert.Equal(t, domain.DefaultDirMode, m.dirMode)
}

func TestNew_Options(t *testing.T) {
	memFs := afero.NewMemMapFs()

	m := New(WithFs(memFs), WithFileMode(0o600), WithDirMode(0o700), WithFs(nil))

	assert.Same(t, memFs, m.Fs())
	assert.Equal(t, fs.FileMode(0o600), m.fileMode)
	assert.Equal(t, fs.FileMode(0o700), m.dirMode)
}

func TestBind(t *testing.T) {
	t.Run("does not touch the filesystem", func(t *testing.T) {
		memFs := afero.NewMemMapFs()
		m := New(WithFs(memFs))

		require.NoError(t, m.Bind("/nowhere/bundle"))

		assert.Equal(t, "/nowhere/bundle", m.Dir())
		exists, err := afero.Exists(memFs, "/nowhere/bundle")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("relative paths become absolute", func(t *testing.T) {
		m := New()
		require.NoError(t, m.Bind("some/bundle"))
		assert.True(t, filepath.IsAbs(m.Dir()))
	})

	t.Run("rebinding to the same path is allowed", func(t *testing.T) {
		m := Open("/data/a")
		assert.NoError(t, m.Bind("/data/a/"))
	})

	t.Run("rebinding to another path fails", func(t *testing.T) {
		m := Open("/data/a")
		err := m.Bind("/data/b")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.Equal(t, "/data/a", m.Dir())
	})
}

func TestCreateAndBind_FreshPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "bundle")
	m := New()

	require.NoError(t, m.CreateAndBind(dir, false))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, dir, m.Dir())
}

func TestCreateAndBind_ExistingDirectoryKept(t *testing.T) {
	dir := newBundleDir(t)
	m := New()

	require.NoError(t, m.CreateAndBind(dir, false))

	assert.FileExists(t, filepath.Join(dir, domain.ResultsJSON))
}

func TestCreateAndBind_Wipe(t *testing.T) {
	dir := newBundleDir(t)
	writeFile(t, filepath.Join(dir, "svg", "page1.svg"), "<svg/>")
	m := New()

	require.NoError(t, m.CreateAndBind(dir, true))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateAndBind_WipeMissingPathFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	m := New()

	err := m.CreateAndBind(dir, true)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NoDirExists(t, dir)
}

func TestCreateAndBind_EmptyPath(t *testing.T) {
	for _, path := range []string{"", "   "} {
		m := New()
		err := m.CreateAndBind(path, false)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestCreateAndBind_FileInTheWay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle")
	writeFile(t, path, "not a directory")
	m := New()

	err := m.CreateAndBind(path, false)

	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreateAndBind_MemFs(t *testing.T) {
	memFs := afero.NewMemMapFs()
	m := New(WithFs(memFs))

	require.NoError(t, m.CreateAndBind("/bundles/doi-1", false))

	ok, err := afero.DirExists(memFs, "/bundles/doi-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadAndValidate(t *testing.T) {
	t.Run("valid bundle", func(t *testing.T) {
		dir := newBundleDir(t)
		m := New()

		require.NoError(t, m.ReadAndValidate(dir))
		assert.Equal(t, dir, m.Dir())
		assert.Nil(t, m.classification, "validation must not classify")
	})

	t.Run("missing directory", func(t *testing.T) {
		m := New()
		err := m.ReadAndValidate(filepath.Join(t.TempDir(), "missing"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		writeFile(t, path, "x")
		m := New()
		err := m.ReadAndValidate(path)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("missing manifest", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, domain.FulltextPDF), "%PDF")
		m := New()
		err := m.ReadAndValidate(dir)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "results.json")
	})

	t.Run("empty manifest", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, domain.ResultsJSON), "")
		m := New()
		err := m.ReadAndValidate(dir)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("manifest is a directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, domain.ResultsJSON), 0o755))
		m := New()
		err := m.ReadAndValidate(dir)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("empty path", func(t *testing.T) {
		m := New()
		assert.ErrorIs(t, m.ReadAndValidate(""), domain.ErrInvalidInput)
	})
}

func TestReadAndValidate_StaysBoundAfterFailure(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "missing")
	good := newBundleDir(t)
	m := New()

	require.ErrorIs(t, m.ReadAndValidate(bad), domain.ErrNotFound)
	assert.Equal(t, bad, m.Dir())

	assert.ErrorIs(t, m.ReadAndValidate(good), domain.ErrInvalidState)
	require.NoError(t, New().ReadAndValidate(good))
}

func TestReadAndValidate_Errors_AreDistinct(t *testing.T) {
	dir := t.TempDir()
	m := New()

	err := m.ReadAndValidate(dir)

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrInvalidState))
	assert.False(t, errors.Is(err, domain.ErrIO))
}
