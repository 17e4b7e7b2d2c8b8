package domain

import "time"

// IndexReport summarises one catalog scan over a root directory.
type IndexReport struct {
	// ScanID identifies the scan run.
	ScanID string

	// Root is the scanned directory.
	Root string

	// Indexed are the bundle paths recorded in the catalog.
	Indexed []string

	// Skipped maps directory paths to the reason they were not bundles.
	Skipped map[string]string

	// StartedAt and FinishedAt bracket the scan.
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the scan took.
func (r *IndexReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
