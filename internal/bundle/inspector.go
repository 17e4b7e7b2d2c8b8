package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/custodia-labs/normabundle/internal/core/domain"
	"github.com/custodia-labs/normabundle/internal/core/ports/driven"
)

// Ensure Inspector implements the interface.
var _ driven.BundleInspector = (*Inspector)(nil)

// Inspector takes read-only snapshots of bundles for the catalog and watcher.
// Each call uses a fresh Manager, so snapshots are never stale.
type Inspector struct {
	opts []Option
	now  func() time.Time
}

// NewInspector creates an inspector whose managers use opts.
func NewInspector(opts ...Option) *Inspector {
	return &Inspector{
		opts: opts,
		now:  time.Now,
	}
}

// Inspect validates the bundle at path and classifies it.
func (i *Inspector) Inspect(ctx context.Context, path string) (*domain.BundleSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := New(i.opts...)
	if err := m.ReadAndValidate(path); err != nil {
		return nil, err
	}
	c, err := m.Classify()
	if err != nil {
		return nil, err
	}

	snap := &domain.BundleSnapshot{
		Path:             m.Dir(),
		ReservedFiles:    domain.Names(c.ReservedFiles),
		NonReservedFiles: domain.Names(c.NonReservedFiles),
		ReservedDirs:     domain.Names(c.ReservedDirs),
		NonReservedDirs:  domain.Names(c.NonReservedDirs),
		Summary:          domain.NewMetadataSummary(m.Dir(), c.ReservedFiles).String(),
		InspectedAt:      i.now(),
	}
	for _, e := range c.ReservedFiles {
		if e.Name == domain.ManifestName {
			snap.ManifestSize = e.Size
		}
	}
	return snap, nil
}

// Candidates returns the immediate subdirectories of root, sorted by name.
func (i *Inspector) Candidates(ctx context.Context, root string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if root == "" {
		return nil, fmt.Errorf("%w: empty root", domain.ErrInvalidInput)
	}

	fsys := New(i.opts...).Fs()
	root = normalisePath(root)
	infos, err := afero.ReadDir(fsys, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s does not exist", domain.ErrNotFound, root)
		}
		return nil, fmt.Errorf("%w: listing %s: %w", domain.ErrIO, root, err)
	}

	var dirs []string
	for _, info := range infos {
		if info.IsDir() {
			dirs = append(dirs, filepath.Join(root, info.Name()))
		}
	}
	return dirs, nil
}
