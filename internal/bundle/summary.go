package bundle

import (
	"github.com/custodia-labs/normabundle/internal/core/domain"
)

// MetadataSummary describes the bundle directory and its reserved files.
func (m *Manager) MetadataSummary() (*domain.MetadataSummary, error) {
	c, err := m.Classify()
	if err != nil {
		return nil, err
	}
	return domain.NewMetadataSummary(m.dir, c.ReservedFiles), nil
}

// String renders the metadata summary body. If the bundle cannot be
// listed only the directory line is rendered.
func (m *Manager) String() string {
	summary, err := m.MetadataSummary()
	if err != nil {
		return domain.NewMetadataSummary(m.dir, nil).String()
	}
	return summary.String()
}
