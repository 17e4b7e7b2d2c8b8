package driving

import (
	"context"

	"github.com/custodia-labs/normabundle/internal/core/domain"
)

// CatalogService records bundle snapshots so later pipeline stages can find
// bundles without walking the filesystem.
type CatalogService interface {
	// Index scans the immediate subdirectories of root, records every valid
	// bundle, and reports the directories that were skipped and why.
	Index(ctx context.Context, root string) (*domain.IndexReport, error)

	// Record inspects a single bundle and stores its snapshot.
	Record(ctx context.Context, path string) (*domain.BundleSnapshot, error)

	// Save stores a snapshot that was already taken, such as one reported
	// by the watcher.
	Save(ctx context.Context, snap *domain.BundleSnapshot) error

	// Get returns the catalogued snapshot for a bundle path.
	Get(ctx context.Context, path string) (*domain.BundleSnapshot, error)

	// List returns all catalogued snapshots.
	List(ctx context.Context) ([]domain.BundleSnapshot, error)

	// Remove forgets a bundle. The directory itself is untouched.
	Remove(ctx context.Context, path string) error
}
