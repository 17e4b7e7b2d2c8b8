// Package filesystem watches a directory of bundles on the local filesystem
// and reports bundles as they are handed off, changed, or removed.
//
// Bundles are the immediate subdirectories of the watched root. Watching is
// not recursive: the root and each bundle directory get their own fsnotify
// watch, and nested directories inside a bundle are not observed.
package filesystem
