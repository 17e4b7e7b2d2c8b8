package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/custodia-labs/normabundle/internal/core/domain"
)

// ReservedFile returns the path a reserved file has in this bundle,
// whether or not it exists.
func (m *Manager) ReservedFile(name string) (string, error) {
	if !domain.IsReservedFilename(name) {
		return "", fmt.Errorf("%q: %w", name, domain.ErrUnknownReservedName)
	}
	if m.dir == "" {
		return "", domain.ErrNotBound
	}
	return filepath.Join(m.dir, name), nil
}

// ExistingReservedFile returns the path of the reserved file name when it
// exists directly under the bundle as a regular (non-directory) entry.
//
// An unrecognised name is an error wrapping domain.ErrUnknownReservedName.
// A recognised name that is absent is not an error: ok is false.
func (m *Manager) ExistingReservedFile(name string) (path string, ok bool, err error) {
	path, err = m.ReservedFile(name)
	if err != nil {
		return "", false, err
	}
	info, err := m.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: stat %s: %w", domain.ErrIO, path, err)
	}
	if info.IsDir() {
		return "", false, nil
	}
	return path, true, nil
}

// HasReservedFile reports whether the reserved file exists as a non-directory.
// Unrecognised names and I/O failures report false.
func (m *Manager) HasReservedFile(name string) bool {
	_, ok, err := m.ExistingReservedFile(name)
	return err == nil && ok
}

func (m *Manager) existing(name string) (string, bool) {
	path, ok, err := m.ExistingReservedFile(name)
	if err != nil {
		return "", false
	}
	return path, ok
}

// HasFulltextXML reports whether fulltext.xml exists.
func (m *Manager) HasFulltextXML() bool { return m.HasReservedFile(domain.FulltextXML) }

// FulltextXML returns the path of fulltext.xml if it exists.
func (m *Manager) FulltextXML() (string, bool) { return m.existing(domain.FulltextXML) }

// HasFulltextHTML reports whether fulltext.html exists.
func (m *Manager) HasFulltextHTML() bool { return m.HasReservedFile(domain.FulltextHTML) }

// FulltextHTML returns the path of fulltext.html if it exists.
func (m *Manager) FulltextHTML() (string, bool) { return m.existing(domain.FulltextHTML) }

// HasFulltextPDF reports whether fulltext.pdf exists.
func (m *Manager) HasFulltextPDF() bool { return m.HasReservedFile(domain.FulltextPDF) }

// FulltextPDF returns the path of fulltext.pdf if it exists.
func (m *Manager) FulltextPDF() (string, bool) { return m.existing(domain.FulltextPDF) }

// HasFulltextDOCX reports whether fulltext.docx exists.
func (m *Manager) HasFulltextDOCX() bool { return m.HasReservedFile(domain.FulltextDOCX) }

// FulltextDOCX returns the path of fulltext.docx if it exists.
func (m *Manager) FulltextDOCX() (string, bool) { return m.existing(domain.FulltextDOCX) }

// HasAbstractHTML reports whether abstract.html exists.
func (m *Manager) HasAbstractHTML() bool { return m.HasReservedFile(domain.AbstractHTML) }

// AbstractHTML returns the path of abstract.html if it exists.
func (m *Manager) AbstractHTML() (string, bool) { return m.existing(domain.AbstractHTML) }

// HasScholarlyHTML reports whether scholarly.html exists.
func (m *Manager) HasScholarlyHTML() bool { return m.HasReservedFile(domain.ScholarlyHTML) }

// ScholarlyHTML returns the path of scholarly.html if it exists.
func (m *Manager) ScholarlyHTML() (string, bool) { return m.existing(domain.ScholarlyHTML) }

// HasResultsJSON reports whether the results.json manifest exists.
func (m *Manager) HasResultsJSON() bool { return m.HasReservedFile(domain.ResultsJSON) }

// ResultsJSON returns the path of results.json if it exists.
func (m *Manager) ResultsJSON() (string, bool) { return m.existing(domain.ResultsJSON) }

// HasResultsXML reports whether results.xml exists.
func (m *Manager) HasResultsXML() bool { return m.HasReservedFile(domain.ResultsXML) }

// ResultsXML returns the path of results.xml if it exists.
func (m *Manager) ResultsXML() (string, bool) { return m.existing(domain.ResultsXML) }
