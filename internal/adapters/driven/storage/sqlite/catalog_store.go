package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/normabundle/internal/core/domain"
	"github.com/custodia-labs/normabundle/internal/core/ports/driven"
)

// catalogStore implements driven.CatalogStore.
type catalogStore struct {
	store *Store
}

var _ driven.CatalogStore = (*catalogStore)(nil)

const selectBundle = `
	SELECT path, manifest_size, reserved_files, non_reserved_files,
		reserved_dirs, non_reserved_dirs, summary, inspected_at
	FROM bundles`

// Save stores or replaces the snapshot for snap.Path.
func (s *catalogStore) Save(ctx context.Context, snap *domain.BundleSnapshot) error {
	if snap == nil || snap.Path == "" {
		return fmt.Errorf("%w: snapshot without path", domain.ErrInvalidInput)
	}

	lists := make([]string, 0, 4)
	for _, names := range [][]string{
		snap.ReservedFiles, snap.NonReservedFiles, snap.ReservedDirs, snap.NonReservedDirs,
	} {
		encoded, err := encodeNames(names)
		if err != nil {
			return err
		}
		lists = append(lists, encoded)
	}

	inspectedAt := snap.InspectedAt
	if inspectedAt.IsZero() {
		inspectedAt = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO bundles (path, manifest_size, reserved_files, non_reserved_files,
			reserved_dirs, non_reserved_dirs, summary, inspected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			manifest_size = excluded.manifest_size,
			reserved_files = excluded.reserved_files,
			non_reserved_files = excluded.non_reserved_files,
			reserved_dirs = excluded.reserved_dirs,
			non_reserved_dirs = excluded.non_reserved_dirs,
			summary = excluded.summary,
			inspected_at = excluded.inspected_at
	`, snap.Path, snap.ManifestSize, lists[0], lists[1], lists[2], lists[3],
		snap.Summary, inspectedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving bundle: %w", err)
	}
	return nil
}

// Get retrieves the snapshot for a bundle path.
func (s *catalogStore) Get(ctx context.Context, path string) (*domain.BundleSnapshot, error) {
	row := s.store.db.QueryRowContext(ctx, selectBundle+" WHERE path = ?", path)
	snap, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return snap, nil
}

// List returns all snapshots ordered by path.
func (s *catalogStore) List(ctx context.Context) ([]domain.BundleSnapshot, error) {
	rows, err := s.store.db.QueryContext(ctx, selectBundle+" ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("querying bundles: %w", err)
	}
	defer rows.Close()

	var snaps []domain.BundleSnapshot //nolint:prealloc // size unknown from query
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bundles: %w", err)
	}
	return snaps, nil
}

// Delete removes a snapshot.
func (s *catalogStore) Delete(ctx context.Context, path string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM bundles WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("deleting bundle: %w", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*domain.BundleSnapshot, error) {
	var snap domain.BundleSnapshot
	var reservedFiles, nonReservedFiles, reservedDirs, nonReservedDirs string
	var inspectedAt sql.NullTime
	if err := row.Scan(&snap.Path, &snap.ManifestSize, &reservedFiles, &nonReservedFiles,
		&reservedDirs, &nonReservedDirs, &snap.Summary, &inspectedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning bundle: %w", err)
	}

	for _, field := range []struct {
		raw  string
		dest *[]string
	}{
		{reservedFiles, &snap.ReservedFiles},
		{nonReservedFiles, &snap.NonReservedFiles},
		{reservedDirs, &snap.ReservedDirs},
		{nonReservedDirs, &snap.NonReservedDirs},
	} {
		names, err := decodeNames(field.raw)
		if err != nil {
			return nil, err
		}
		*field.dest = names
	}

	if inspectedAt.Valid {
		snap.InspectedAt = inspectedAt.Time
	}
	return &snap, nil
}

func encodeNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("marshalling names: %w", err)
	}
	return string(data), nil
}

// decodeNames returns nil for an empty list so snapshots compare equal to
// freshly inspected ones.
func decodeNames(raw string) ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("unmarshalling names: %w", err)
	}
	if len(names) == 0 {
		return nil, nil
	}
	return names, nil
}
