package domain

// ChangeType represents the type of bundle change seen by a watcher.
type ChangeType int

const (
	// ChangeCreated indicates a bundle became valid.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a valid bundle's contents changed.
	ChangeUpdated

	// ChangeDeleted indicates a bundle directory was removed.
	ChangeDeleted
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// BundleChange is a change event emitted by the bundle watcher.
// Snapshot is nil for deletions.
type BundleChange struct {
	Type     ChangeType
	Path     string
	Snapshot *BundleSnapshot
}
