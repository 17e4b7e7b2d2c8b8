package domain

import (
	"encoding/xml"
	"strings"
	"time"
)

// BundleEntry is one immediate child of a bundle directory.
type BundleEntry struct {
	// Name is the base name of the entry.
	Name string

	// Path is the entry's full path (bundle directory joined with Name).
	Path string

	// IsDir is true for subdirectories.
	IsDir bool

	// Size is the file size in bytes. Zero for directories.
	Size int64

	// ModTime is the last modification time.
	ModTime time.Time
}

// Classification partitions a bundle's immediate children by kind and by
// membership in the reserved name registry. Every child appears in exactly
// one of the four slices; each slice is ordered by name.
type Classification struct {
	ReservedFiles    []BundleEntry
	NonReservedFiles []BundleEntry
	ReservedDirs     []BundleEntry
	NonReservedDirs  []BundleEntry
}

// Classify places entry into the matching partition.
// Directories are tested against reserved directory names, everything
// else against reserved file names. Matching is exact.
func (c *Classification) Classify(entry BundleEntry) {
	switch {
	case entry.IsDir && IsReservedDirectory(entry.Name):
		c.ReservedDirs = append(c.ReservedDirs, entry)
	case entry.IsDir:
		c.NonReservedDirs = append(c.NonReservedDirs, entry)
	case IsReservedFilename(entry.Name):
		c.ReservedFiles = append(c.ReservedFiles, entry)
	default:
		c.NonReservedFiles = append(c.NonReservedFiles, entry)
	}
}

// Len returns the total number of classified entries.
func (c *Classification) Len() int {
	return len(c.ReservedFiles) + len(c.NonReservedFiles) + len(c.ReservedDirs) + len(c.NonReservedDirs)
}

// All returns every classified entry, partition by partition.
func (c *Classification) All() []BundleEntry {
	all := make([]BundleEntry, 0, c.Len())
	all = append(all, c.ReservedFiles...)
	all = append(all, c.NonReservedFiles...)
	all = append(all, c.ReservedDirs...)
	all = append(all, c.NonReservedDirs...)
	return all
}

// Names returns the base names of entries in order.
func Names(entries []BundleEntry) []string {
	names := make([]string, len(entries))
	for i := range entries {
		names[i] = entries[i].Name
	}
	return names
}

// metadataElement is the element name of the summary wrapper.
const metadataElement = "bundle"

// MetadataSummary is a diagnostic description of a bundle: the bundle
// directory followed by each reserved file path, one per line.
// It is a log artifact, not a machine-readable manifest.
type MetadataSummary struct {
	XMLName xml.Name `xml:"bundle"`
	Body    string   `xml:",chardata"`
}

// NewMetadataSummary renders the summary body for dir and its reserved files.
func NewMetadataSummary(dir string, reserved []BundleEntry) *MetadataSummary {
	var sb strings.Builder
	sb.WriteString("dir: ")
	sb.WriteString(dir)
	sb.WriteString("\n")
	for i := range reserved {
		sb.WriteString(reserved[i].Path)
		sb.WriteString("\n")
	}
	return &MetadataSummary{
		XMLName: xml.Name{Local: metadataElement},
		Body:    sb.String(),
	}
}

// String returns the human-readable body.
func (m *MetadataSummary) String() string {
	return m.Body
}

// XML marshals the summary as a single element.
func (m *MetadataSummary) XML() ([]byte, error) {
	return xml.Marshal(m)
}

// BundleSnapshot is a validated, classified view of a bundle at a point in time.
// It is what the catalog stores and what the watcher emits.
type BundleSnapshot struct {
	// Path is the bundle directory.
	Path string

	// ManifestSize is the size in bytes of results.json.
	ManifestSize int64

	// ReservedFiles are the reserved file names present.
	ReservedFiles []string

	// NonReservedFiles are the other file names present.
	NonReservedFiles []string

	// ReservedDirs are the reserved directory names present.
	ReservedDirs []string

	// NonReservedDirs are the other directory names present.
	NonReservedDirs []string

	// Summary is the metadata summary body.
	Summary string

	// InspectedAt is when the snapshot was taken.
	InspectedAt time.Time
}

// HasReservedFile reports whether the snapshot recorded the reserved file name.
func (s *BundleSnapshot) HasReservedFile(name string) bool {
	for _, n := range s.ReservedFiles {
		if n == name {
			return true
		}
	}
	return false
}

// FulltextForms returns the canonical full-text files present, in registry order.
func (s *BundleSnapshot) FulltextForms() []string {
	var forms []string
	for _, name := range []string{FulltextXML, FulltextHTML, FulltextPDF, FulltextDOCX} {
		if s.HasReservedFile(name) {
			forms = append(forms, name)
		}
	}
	return forms
}
