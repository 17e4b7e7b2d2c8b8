package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/custodia-labs/normabundle/internal/core/domain"
	"github.com/custodia-labs/normabundle/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is an in-memory implementation of driven.CatalogStore.
type CatalogStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.BundleSnapshot
}

// NewCatalogStore creates a new in-memory catalog store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		snapshots: make(map[string]domain.BundleSnapshot),
	}
}

// Save stores or replaces a snapshot.
func (s *CatalogStore) Save(_ context.Context, snap *domain.BundleSnapshot) error {
	if snap == nil || snap.Path == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.Path] = cloneSnapshot(*snap)
	return nil
}

// Get retrieves a snapshot by bundle path.
func (s *CatalogStore) Get(_ context.Context, path string) (*domain.BundleSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneSnapshot(snap)
	return &out, nil
}

// List returns all snapshots ordered by path.
func (s *CatalogStore) List(_ context.Context) ([]domain.BundleSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.BundleSnapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		result = append(result, cloneSnapshot(snap))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result, nil
}

// Delete removes a snapshot.
func (s *CatalogStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, path)
	return nil
}

// cloneSnapshot copies the name slices so callers cannot alias stored state.
func cloneSnapshot(snap domain.BundleSnapshot) domain.BundleSnapshot {
	snap.ReservedFiles = slices.Clone(snap.ReservedFiles)
	snap.NonReservedFiles = slices.Clone(snap.NonReservedFiles)
	snap.ReservedDirs = slices.Clone(snap.ReservedDirs)
	snap.NonReservedDirs = slices.Clone(snap.NonReservedDirs)
	return snap
}
