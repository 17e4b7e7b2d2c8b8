package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/normabundle/internal/core/domain"
	"github.com/custodia-labs/normabundle/internal/core/ports/driven"
	"github.com/custodia-labs/normabundle/internal/core/ports/driving"
	"github.com/custodia-labs/normabundle/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService records bundle snapshots in a catalog store.
type CatalogService struct {
	inspector driven.BundleInspector
	store     driven.CatalogStore
	now       func() time.Time
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(inspector driven.BundleInspector, store driven.CatalogStore) *CatalogService {
	return &CatalogService{
		inspector: inspector,
		store:     store,
		now:       time.Now,
	}
}

// Index scans root's immediate subdirectories and records every valid bundle.
// Directories that fail validation are reported as skipped, not as errors.
// A store failure aborts the scan.
func (s *CatalogService) Index(ctx context.Context, root string) (*domain.IndexReport, error) {
	if s.inspector == nil || s.store == nil {
		return nil, fmt.Errorf("catalog service not configured: %w", domain.ErrInvalidInput)
	}

	report := &domain.IndexReport{
		ScanID:    uuid.New().String(),
		Root:      root,
		Skipped:   make(map[string]string),
		StartedAt: s.now(),
	}

	logger.Section("Catalog Index")
	candidates, err := s.inspector.Candidates(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("listing bundles under %s: %w", root, err)
	}
	logger.Debug("scan %s: %d candidate directories under %s", report.ScanID, len(candidates), root)

	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snap, err := s.inspector.Inspect(ctx, path)
		if err != nil {
			report.Skipped[path] = err.Error()
			logger.Warn("skipping %s: %v", path, err)
			continue
		}
		if err := s.store.Save(ctx, snap); err != nil {
			return nil, fmt.Errorf("saving %s: %w", path, err)
		}
		report.Indexed = append(report.Indexed, snap.Path)
	}

	report.FinishedAt = s.now()
	logger.Info("scan %s: indexed %d bundles, skipped %d", report.ScanID, len(report.Indexed), len(report.Skipped))
	return report, nil
}

// Record inspects one bundle and stores its snapshot.
func (s *CatalogService) Record(ctx context.Context, path string) (*domain.BundleSnapshot, error) {
	if s.inspector == nil || s.store == nil {
		return nil, fmt.Errorf("catalog service not configured: %w", domain.ErrInvalidInput)
	}
	snap, err := s.inspector.Inspect(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("saving %s: %w", path, err)
	}
	return snap, nil
}

// Save stores a snapshot without inspecting the bundle again.
func (s *CatalogService) Save(ctx context.Context, snap *domain.BundleSnapshot) error {
	if s.store == nil {
		return fmt.Errorf("catalog store not configured: %w", domain.ErrInvalidInput)
	}
	if snap == nil || snap.Path == "" {
		return fmt.Errorf("%w: empty snapshot", domain.ErrInvalidInput)
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("saving %s: %w", snap.Path, err)
	}
	return nil
}

// Get returns a catalogued snapshot.
func (s *CatalogService) Get(ctx context.Context, path string) (*domain.BundleSnapshot, error) {
	if s.store == nil {
		return nil, fmt.Errorf("catalog store not configured: %w", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, path)
}

// List returns all catalogued snapshots.
func (s *CatalogService) List(ctx context.Context) ([]domain.BundleSnapshot, error) {
	if s.store == nil {
		return nil, fmt.Errorf("catalog store not configured: %w", domain.ErrInvalidInput)
	}
	return s.store.List(ctx)
}

// Remove forgets a bundle.
func (s *CatalogService) Remove(ctx context.Context, path string) error {
	if s.store == nil {
		return fmt.Errorf("catalog store not configured: %w", domain.ErrInvalidInput)
	}
	if _, err := s.store.Get(ctx, path); err != nil {
		return err
	}
	return s.store.Delete(ctx, path)
}
