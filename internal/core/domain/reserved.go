package domain

import (
	"path/filepath"
	"slices"
	"strings"
)

// Reserved file names. These are bit-exact and case-sensitive.
const (
	AbstractHTML  = "abstract.html"
	FulltextDOCX  = "fulltext.docx"
	FulltextHTML  = "fulltext.html"
	FulltextPDF   = "fulltext.pdf"
	FulltextXML   = "fulltext.xml"
	ResultsJSON   = "results.json"
	ResultsXML    = "results.xml"
	ScholarlyHTML = "scholarly.html"
)

// Reserved directory names.
const (
	ResultsDir = "results"
	PDFDir     = "pdf"
)

// ManifestName is the mandatory listing file every read bundle must carry.
const ManifestName = ResultsJSON

// Full-text extensions understood by ResolveReservedNameForExtension.
const (
	extDOCX = "docx"
	extHTML = "html"
	extPDF  = "pdf"
	extXML  = "xml"
)

var reservedFileNames = []string{
	AbstractHTML,
	FulltextDOCX,
	FulltextHTML,
	FulltextPDF,
	FulltextXML,
	ResultsJSON,
	ResultsXML,
	ScholarlyHTML,
}

var reservedDirNames = []string{
	ResultsDir,
	PDFDir,
}

var reservedFilesByExtension = map[string]string{
	extDOCX: FulltextDOCX,
	extHTML: FulltextHTML,
	extPDF:  FulltextPDF,
	extXML:  FulltextXML,
}

// ReservedFileNames returns the canonical reserved file names.
// The returned slice is a copy.
func ReservedFileNames() []string {
	return slices.Clone(reservedFileNames)
}

// ReservedDirNames returns the canonical reserved directory names.
// The returned slice is a copy.
func ReservedDirNames() []string {
	return slices.Clone(reservedDirNames)
}

// ReservedExtensions returns the extension to canonical full-text name table.
// The returned map is a copy.
func ReservedExtensions() map[string]string {
	out := make(map[string]string, len(reservedFilesByExtension))
	for k, v := range reservedFilesByExtension {
		out[k] = v
	}
	return out
}

// IsReservedFilename reports whether name is literally one of the reserved file names.
func IsReservedFilename(name string) bool {
	return slices.Contains(reservedFileNames, name)
}

// IsReservedDirectory reports whether name is literally one of the reserved directory names.
func IsReservedDirectory(name string) bool {
	return slices.Contains(reservedDirNames, name)
}

// ResolveReservedNameForExtension maps a filename to the canonical full-text
// name for its extension, e.g. "data.pdf" to "fulltext.pdf".
// Returns false when the extension is empty or not in the table.
func ResolveReservedNameForExtension(filename string) (string, bool) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "", false
	}
	name, ok := reservedFilesByExtension[ext]
	return name, ok
}

// IsNonEmptyNonReservedInputList reports whether inputs names real content:
// it is non-empty and is not a lone reserved file name.
func IsNonEmptyNonReservedInputList(inputs []string) bool {
	if len(inputs) == 0 {
		return false
	}
	return len(inputs) != 1 || !IsReservedFilename(inputs[0])
}
