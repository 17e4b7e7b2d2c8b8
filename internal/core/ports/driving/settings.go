package driving

import "github.com/custodia-labs/normabundle/internal/core/domain"

// SettingsService reads and updates user configuration.
type SettingsService interface {
	// Get returns the current settings with defaults applied.
	Get() (*domain.Settings, error)

	// SetValue sets a single configuration key from its string form.
	SetValue(key, value string) error

	// Value returns the string form of a configuration key.
	Value(key string) (string, error)

	// Keys returns the recognised configuration keys.
	Keys() []string
}
