package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/custodia-labs/normabundle/internal/core/domain"
	"github.com/custodia-labs/normabundle/internal/logger"
)

// Manager owns one bundle directory and its lazily computed classification.
type Manager struct {
	fs       afero.Fs
	dir      string
	fileMode fs.FileMode
	dirMode  fs.FileMode

	// classification is nil until first computed.
	classification *domain.Classification
}

// Option configures a Manager.
type Option func(*Manager)

// WithFs sets the filesystem the manager operates on.
func WithFs(fsys afero.Fs) Option {
	return func(m *Manager) {
		if fsys != nil {
			m.fs = fsys
		}
	}
}

// WithFileMode sets the mode for files the manager creates.
func WithFileMode(mode fs.FileMode) Option {
	return func(m *Manager) {
		m.fileMode = mode
	}
}

// WithDirMode sets the mode for directories the manager creates.
func WithDirMode(mode fs.FileMode) Option {
	return func(m *Manager) {
		m.dirMode = mode
	}
}

// New creates an unbound manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		fs:       afero.NewOsFs(),
		fileMode: domain.DefaultFileMode,
		dirMode:  domain.DefaultDirMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open creates a manager bound to path without touching the filesystem.
func Open(path string, opts ...Option) *Manager {
	m := New(opts...)
	m.dir = normalisePath(path)
	return m
}

// Dir returns the bound bundle directory, or "" if unbound.
func (m *Manager) Dir() string {
	return m.dir
}

// Fs returns the filesystem the manager operates on.
func (m *Manager) Fs() afero.Fs {
	return m.fs
}

// Bind associates the manager with path without touching the filesystem.
// A manager binds at most once; binding again to a different path fails.
func (m *Manager) Bind(path string) error {
	dir := normalisePath(path)
	if m.dir != "" && m.dir != dir {
		return fmt.Errorf("%w: bundle already bound to %s", domain.ErrInvalidState, m.dir)
	}
	m.dir = dir
	return nil
}

// CreateAndBind binds to path and creates it along with missing ancestors.
// When wipeExisting is true the path is first deleted recursively; a path
// that cannot be deleted (including one that does not exist) is an error
// the caller must handle.
func (m *Manager) CreateAndBind(path string, wipeExisting bool) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty bundle path", domain.ErrInvalidInput)
	}
	if err := m.Bind(path); err != nil {
		return err
	}

	if wipeExisting {
		if err := m.wipe(); err != nil {
			return err
		}
	}

	info, err := m.fs.Stat(m.dir)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("%w: cannot make directory %s: a file is in the way", domain.ErrInvalidState, m.dir)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: cannot make directory %s: %w", domain.ErrIO, m.dir, err)
	}

	if err := m.fs.MkdirAll(m.dir, m.dirMode); err != nil {
		return fmt.Errorf("%w: cannot make directory %s: %w", domain.ErrIO, m.dir, err)
	}
	m.classification = nil

	logger.Info("created bundle directory %s", m.dir)
	return nil
}

// wipe deletes the bound directory recursively.
func (m *Manager) wipe() error {
	if _, err := m.fs.Stat(m.dir); err != nil {
		return fmt.Errorf("%w: cannot delete directory %s: %w", domain.ErrIO, m.dir, err)
	}
	if err := m.fs.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("%w: cannot delete directory %s: %w", domain.ErrIO, m.dir, err)
	}
	logger.Info("wiped bundle directory %s", m.dir)
	return nil
}

// ReadAndValidate binds to path and checks it is a bundle: the path must be
// an existing directory holding a non-empty results.json file.
// It does not classify the directory.
//
// The manager stays bound to path even when validation fails, so a failed
// manager cannot validate a different path; create a new one instead.
func (m *Manager) ReadAndValidate(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty bundle path", domain.ErrInvalidInput)
	}
	if err := m.Bind(path); err != nil {
		return err
	}
	if err := m.requireDirectory(m.dir); err != nil {
		return err
	}
	if err := m.requireNonEmptyFile(filepath.Join(m.dir, domain.ManifestName)); err != nil {
		return err
	}
	logger.Debug("validated bundle %s", m.dir)
	return nil
}

func (m *Manager) requireDirectory(dir string) error {
	info, err := m.fs.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: directory %s does not exist", domain.ErrNotFound, dir)
		}
		return fmt.Errorf("%w: stat %s: %w", domain.ErrIO, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidState, dir)
	}
	return nil
}

func (m *Manager) requireNonEmptyFile(path string) error {
	info, err := m.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: file %s does not exist", domain.ErrNotFound, path)
		}
		return fmt.Errorf("%w: stat %s: %w", domain.ErrIO, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s must not be a directory", domain.ErrInvalidState, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: file %s must not be empty", domain.ErrNotFound, path)
	}
	return nil
}

// normalisePath returns an absolute, cleaned path. Empty stays empty.
func normalisePath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
