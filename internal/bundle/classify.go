package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/custodia-labs/normabundle/internal/core/domain"
	"github.com/custodia-labs/normabundle/internal/logger"
)

// Classify returns the classification of the bundle's immediate children,
// computing it on first use. The result is not refreshed when the directory
// changes afterwards; call Reclassify for that.
func (m *Manager) Classify() (*domain.Classification, error) {
	if m.classification != nil {
		return m.classification, nil
	}
	return m.Reclassify()
}

// Reclassify lists the bundle directory again and replaces the cached classification.
func (m *Manager) Reclassify() (*domain.Classification, error) {
	if m.dir == "" {
		return nil, domain.ErrNotBound
	}

	infos, err := afero.ReadDir(m.fs, m.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s does not exist", domain.ErrNotFound, m.dir)
		}
		return nil, fmt.Errorf("%w: listing %s: %w", domain.ErrIO, m.dir, err)
	}

	c := &domain.Classification{}
	for _, info := range infos {
		c.Classify(m.entry(info))
	}
	m.classification = c

	logger.Debug("classified %s: %d reserved files, %d other files, %d reserved dirs, %d other dirs",
		m.dir, len(c.ReservedFiles), len(c.NonReservedFiles), len(c.ReservedDirs), len(c.NonReservedDirs))
	return c, nil
}

// entry converts a directory listing result into a BundleEntry.
func (m *Manager) entry(info os.FileInfo) domain.BundleEntry {
	e := domain.BundleEntry{
		Name:    info.Name(),
		Path:    filepath.Join(m.dir, info.Name()),
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
	}
	if !e.IsDir {
		e.Size = info.Size()
	}
	return e
}

// ReservedFiles returns files whose names are reserved.
func (m *Manager) ReservedFiles() ([]domain.BundleEntry, error) {
	c, err := m.Classify()
	if err != nil {
		return nil, err
	}
	return c.ReservedFiles, nil
}

// NonReservedFiles returns files whose names are not reserved.
func (m *Manager) NonReservedFiles() ([]domain.BundleEntry, error) {
	c, err := m.Classify()
	if err != nil {
		return nil, err
	}
	return c.NonReservedFiles, nil
}

// ReservedDirs returns subdirectories whose names are reserved.
func (m *Manager) ReservedDirs() ([]domain.BundleEntry, error) {
	c, err := m.Classify()
	if err != nil {
		return nil, err
	}
	return c.ReservedDirs, nil
}

// NonReservedDirs returns subdirectories whose names are not reserved.
func (m *Manager) NonReservedDirs() ([]domain.BundleEntry, error) {
	c, err := m.Classify()
	if err != nil {
		return nil, err
	}
	return c.NonReservedDirs, nil
}

// ContainsNoReservedFilenames reports whether no immediate non-directory
// child of dir has a reserved file name. A missing dir, or a path that is
// not a directory, yields true: absence is not evidence of a collision.
// A nil fsys means the OS filesystem.
func ContainsNoReservedFilenames(fsys afero.Fs, dir string) bool {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if dir == "" {
		return true
	}
	if ok, err := afero.IsDir(fsys, dir); err != nil || !ok {
		return true
	}

	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		logger.Warn("cannot list %s: %v", dir, err)
		return true
	}
	for _, info := range infos {
		if !info.IsDir() && domain.IsReservedFilename(info.Name()) {
			return false
		}
	}
	return true
}

// ListFiles returns the paths of files (not directories) in the bundle,
// sorted lexically. With recursive set, files in subdirectories are included.
func (m *Manager) ListFiles(recursive bool) ([]string, error) {
	if m.dir == "" {
		return nil, domain.ErrNotBound
	}
	if err := m.requireDirectory(m.dir); err != nil {
		return nil, err
	}

	var files []string
	if !recursive {
		infos, err := afero.ReadDir(m.fs, m.dir)
		if err != nil {
			return nil, fmt.Errorf("%w: listing %s: %w", domain.ErrIO, m.dir, err)
		}
		for _, info := range infos {
			if !info.IsDir() {
				files = append(files, filepath.Join(m.dir, info.Name()))
			}
		}
		return files, nil
	}

	err := afero.Walk(m.fs, m.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walking %s: %w", domain.ErrIO, m.dir, err)
	}
	return files, nil
}
