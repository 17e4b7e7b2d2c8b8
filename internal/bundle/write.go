package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/custodia-labs/normabundle/internal/core/domain"
	"github.com/custodia-labs/normabundle/internal/logger"
)

// WriteNewFile writes content to filename inside the bundle. It never
// replaces an existing file: a file already at the target is a conflict
// (domain.ErrAlreadyExists). Missing parent directories inside the bundle
// are created. The write is a single attempt; a failure part way through
// may leave a partial file behind.
func (m *Manager) WriteNewFile(content []byte, filename string) error {
	target, err := m.localPath(filename)
	if err != nil {
		return err
	}

	if _, err := m.fs.Stat(target); err == nil {
		return fmt.Errorf("%w: file %s", domain.ErrAlreadyExists, target)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %w", domain.ErrIO, target, err)
	}

	if err := m.fs.MkdirAll(filepath.Dir(target), m.dirMode); err != nil {
		return fmt.Errorf("%w: cannot make directory for %s: %w", domain.ErrIO, target, err)
	}

	f, err := m.fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, m.fileMode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: file %s", domain.ErrAlreadyExists, target)
		}
		return fmt.Errorf("%w: cannot write file %s: %w", domain.ErrIO, target, err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: cannot write file %s: %w", domain.ErrIO, target, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: cannot write file %s: %w", domain.ErrIO, target, err)
	}

	logger.Debug("wrote %d bytes to %s", len(content), target)
	return nil
}

// WriteNewFileString is WriteNewFile for string content.
func (m *Manager) WriteNewFileString(content, filename string) error {
	return m.WriteNewFile([]byte(content), filename)
}

// WriteResultsDocument ensures subdir exists under the bundle and writes
// xml to results.xml inside it, replacing any previous content. Unlike
// WriteNewFile, overwriting is expected here. The document is written to
// a temporary sibling first and renamed into place.
func (m *Manager) WriteResultsDocument(subdir string, xml []byte) error {
	resultsDir, err := m.localPath(subdir)
	if err != nil {
		return err
	}

	if info, err := m.fs.Stat(resultsDir); err == nil && !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidState, resultsDir)
	}
	if err := m.fs.MkdirAll(resultsDir, m.dirMode); err != nil {
		return fmt.Errorf("%w: cannot make directory %s: %w", domain.ErrIO, resultsDir, err)
	}

	target := filepath.Join(resultsDir, domain.ResultsXML)
	tmp := filepath.Join(resultsDir, "."+domain.ResultsXML+"."+uuid.NewString()+".tmp")

	if err := afero.WriteFile(m.fs, tmp, xml, m.fileMode); err != nil {
		_ = m.fs.Remove(tmp)
		return fmt.Errorf("%w: cannot write %s: %w", domain.ErrIO, target, err)
	}
	if err := m.fs.Rename(tmp, target); err != nil {
		_ = m.fs.Remove(tmp)
		return fmt.Errorf("%w: cannot write %s: %w", domain.ErrIO, target, err)
	}

	logger.Debug("wrote results document %s (%d bytes)", target, len(xml))
	return nil
}

// localPath joins name onto the bundle directory, rejecting names that are
// empty, absolute, or escape the bundle.
func (m *Manager) localPath(name string) (string, error) {
	if m.dir == "" {
		return "", domain.ErrNotBound
	}
	if name == "" {
		return "", fmt.Errorf("%w: empty file name", domain.ErrInvalidInput)
	}
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q is outside the bundle", domain.ErrInvalidInput, name)
	}
	return filepath.Join(m.dir, name), nil
}
