// Package bundle manages a single on-disk bundle directory: the unit of
// scraped content for one document as it moves through the pipeline.
//
// A bundle holds a mandatory manifest (results.json) and any number of
// content files and subdirectories. The Manager classifies a bundle's
// immediate children into reserved and non-reserved names, validates the
// manifest invariant, resolves canonical names, and writes new files under
// the naming contract shared by the scraper, normaliser and indexer stages.
//
// # Filesystem
//
// All I/O goes through an afero.Fs. Production code uses the OS filesystem;
// tests may substitute afero.NewMemMapFs().
//
// # Concurrency
//
// A Manager is not safe for concurrent use. One manager is expected to
// own a bundle at a time; there is no locking and no transaction spanning
// several operations.
package bundle
