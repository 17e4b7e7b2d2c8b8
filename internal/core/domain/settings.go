package domain

import (
	"io/fs"
	"strconv"
)

// CatalogBackend selects where bundle snapshots are recorded.
type CatalogBackend string

// Available catalog backends.
const (
	// CatalogBackendSQLite persists snapshots to a SQLite database.
	CatalogBackendSQLite CatalogBackend = "sqlite"

	// CatalogBackendMemory keeps snapshots for the life of the process.
	CatalogBackendMemory CatalogBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b CatalogBackend) IsValid() bool {
	switch b {
	case CatalogBackendSQLite, CatalogBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CatalogBackend) String() string {
	return string(b)
}

// Default file and directory modes for bundle writes.
const (
	DefaultFileMode fs.FileMode = 0o644
	DefaultDirMode  fs.FileMode = 0o755
)

// Settings holds user configuration.
type Settings struct {
	// BundleRoot is the base for relative bundle paths given to the CLI.
	BundleRoot string

	// FileMode is applied to files the bundle manager creates.
	FileMode fs.FileMode

	// DirMode is applied to directories the bundle manager creates.
	DirMode fs.FileMode

	// CatalogBackend selects the catalog store.
	CatalogBackend CatalogBackend

	// CatalogDataDir is where the SQLite catalog lives. Empty means the default.
	CatalogDataDir string

	// Color allows styled terminal output.
	Color bool
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		FileMode:       DefaultFileMode,
		DirMode:        DefaultDirMode,
		CatalogBackend: CatalogBackendSQLite,
		Color:          true,
	}
}

// ParseFileMode parses an octal mode such as "0644" or "755".
func ParseFileMode(s string) (fs.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, ErrInvalidInput
	}
	if v > 0o777 {
		return 0, ErrInvalidInput
	}
	return fs.FileMode(v), nil
}
