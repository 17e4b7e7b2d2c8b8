package bundle

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/normabundle/internal/core/domain"
)

func TestInspector_Inspect(t *testing.T) {
	memFs := afero.NewMemMapFs()
	populate(t, memFs, "/root/b")
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	inspector := NewInspector(WithFs(memFs))
	inspector.now = func() time.Time { return fixed }

	snap, err := inspector.Inspect(context.Background(), "/root/b")

	require.NoError(t, err)
	assert.Equal(t, "/root/b", snap.Path)
	assert.Equal(t, int64(len(`{"a":1}`)), snap.ManifestSize)
	assert.Equal(t, []string{"fulltext.pdf", "fulltext.xml", "results.json"}, snap.ReservedFiles)
	assert.Equal(t, []string{"pdf", "results"}, snap.ReservedDirs)
	assert.Equal(t, []string{"fulltext.xml.d", "svg"}, snap.NonReservedDirs)
	assert.Len(t, snap.NonReservedFiles, 5)
	assert.Equal(t, []string{domain.FulltextXML, domain.FulltextPDF}, snap.FulltextForms())
	assert.Contains(t, snap.Summary, "dir: /root/b\n")
	assert.Equal(t, fixed, snap.InspectedAt)
}

func TestInspector_Inspect_NotABundle(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/root/b/fulltext.pdf", []byte("x"), 0o644))
	inspector := NewInspector(WithFs(memFs))

	_, err := inspector.Inspect(context.Background(), "/root/b")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = inspector.Inspect(context.Background(), "/root/none")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInspector_Inspect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewInspector(WithFs(afero.NewMemMapFs())).Inspect(ctx, "/root/b")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestInspector_Inspect_SeesLatestState(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/b/results.json", []byte("{}"), 0o644))
	inspector := NewInspector(WithFs(memFs))

	first, err := inspector.Inspect(context.Background(), "/b")
	require.NoError(t, err)
	assert.False(t, first.HasReservedFile(domain.FulltextHTML))

	require.NoError(t, afero.WriteFile(memFs, "/b/fulltext.html", []byte("<html/>"), 0o644))

	second, err := inspector.Inspect(context.Background(), "/b")
	require.NoError(t, err)
	assert.True(t, second.HasReservedFile(domain.FulltextHTML))
}

func TestInspector_Candidates(t *testing.T) {
	memFs := afero.NewMemMapFs()
	for _, d := range []string{"/root/c", "/root/a", "/root/b"} {
		require.NoError(t, memFs.MkdirAll(d, 0o755))
	}
	require.NoError(t, afero.WriteFile(memFs, "/root/readme.txt", []byte("x"), 0o644))
	inspector := NewInspector(WithFs(memFs))

	dirs, err := inspector.Candidates(context.Background(), "/root")

	require.NoError(t, err)
	assert.Equal(t, []string{"/root/a", "/root/b", "/root/c"}, dirs)
}

func TestInspector_Candidates_Errors(t *testing.T) {
	inspector := NewInspector(WithFs(afero.NewMemMapFs()))

	_, err := inspector.Candidates(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inspector.Candidates(context.Background(), "/missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = inspector.Candidates(ctx, "/root")
	assert.ErrorIs(t, err, context.Canceled)
}
