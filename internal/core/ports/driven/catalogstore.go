package driven

import (
	"context"

	"github.com/custodia-labs/normabundle/internal/core/domain"
)

// CatalogStore persists bundle snapshots.
// The catalog holds metadata only; bundle contents stay on disk.
type CatalogStore interface {
	// Save stores or replaces the snapshot for snap.Path.
	Save(ctx context.Context, snap *domain.BundleSnapshot) error

	// Get retrieves the snapshot for a bundle path.
	// Returns domain.ErrNotFound if the path is not catalogued.
	Get(ctx context.Context, path string) (*domain.BundleSnapshot, error)

	// List returns all snapshots ordered by path.
	List(ctx context.Context) ([]domain.BundleSnapshot, error)

	// Delete removes a snapshot. Deleting an unknown path is not an error.
	Delete(ctx context.Context, path string) error
}
