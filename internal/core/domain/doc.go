// Package domain defines the core entities for normabundle.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Reserved name registry: the canonical file and directory names a
//     bundle may carry, and the extension to full-text name mapping
//   - BundleEntry: one immediate child of a bundle directory
//   - Classification: the four-way partition of a bundle's children
//   - BundleSnapshot: a validated, classified view of a bundle for the catalog
//   - MetadataSummary: the diagnostic wrapper describing a bundle
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
