package driven

import (
	"context"

	"github.com/custodia-labs/normabundle/internal/core/domain"
)

// BundleInspector validates and classifies a bundle directory without modifying it.
type BundleInspector interface {
	// Inspect returns a snapshot of the bundle at path.
	// Returns an error wrapping domain.ErrNotFound or domain.ErrInvalidState
	// when path is not a valid bundle.
	Inspect(ctx context.Context, path string) (*domain.BundleSnapshot, error)

	// Candidates returns the immediate subdirectories of root, sorted.
	// Each may or may not be a valid bundle.
	Candidates(ctx context.Context, root string) ([]string, error)
}
