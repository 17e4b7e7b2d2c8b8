package services

import (
	"fmt"
	"io/fs"
	"strconv"

	"github.com/custodia-labs/normabundle/internal/core/domain"
	"github.com/custodia-labs/normabundle/internal/core/ports/driven"
	"github.com/custodia-labs/normabundle/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyBundleRoot     = "bundle.root"
	keyFileMode       = "bundle.file_mode"
	keyDirMode        = "bundle.dir_mode"
	keyCatalogBackend = "catalog.backend"
	keyCatalogDataDir = "catalog.data_dir"
	keyOutputColor    = "output.color"
)

var settingsKeys = []string{
	keyBundleRoot,
	keyFileMode,
	keyDirMode,
	keyCatalogBackend,
	keyCatalogDataDir,
	keyOutputColor,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		BundleRoot:     s.configStore.GetString(keyBundleRoot),
		FileMode:       s.getMode(keyFileMode, defaults.FileMode),
		DirMode:        s.getMode(keyDirMode, defaults.DirMode),
		CatalogBackend: s.getBackend(defaults.CatalogBackend),
		CatalogDataDir: s.configStore.GetString(keyCatalogDataDir),
		Color:          s.getBool(keyOutputColor, defaults.Color),
	}
	return settings, nil
}

// Keys returns the recognised configuration keys.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settingsKeys))
	copy(out, settingsKeys)
	return out
}

// SetValue validates and stores a configuration value given as a string.
func (s *SettingsService) SetValue(key, value string) error {
	switch key {
	case keyBundleRoot, keyCatalogDataDir:
		return s.configStore.Set(key, value)
	case keyFileMode, keyDirMode:
		if _, err := domain.ParseFileMode(value); err != nil {
			return fmt.Errorf("%s: %q is not an octal mode: %w", key, value, domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, value)
	case keyCatalogBackend:
		if !domain.CatalogBackend(value).IsValid() {
			return fmt.Errorf("%s: %q: %w", key, value, domain.ErrUnsupportedType)
		}
		return s.configStore.Set(key, value)
	case keyOutputColor:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean: %w", key, value, domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, b)
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
}

// Value returns the effective value of a key in string form.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}
	switch key {
	case keyBundleRoot:
		return settings.BundleRoot, nil
	case keyFileMode:
		return fmt.Sprintf("%04o", uint32(settings.FileMode)), nil
	case keyDirMode:
		return fmt.Sprintf("%04o", uint32(settings.DirMode)), nil
	case keyCatalogBackend:
		return settings.CatalogBackend.String(), nil
	case keyCatalogDataDir:
		return settings.CatalogDataDir, nil
	case keyOutputColor:
		return strconv.FormatBool(settings.Color), nil
	default:
		return "", fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getMode(key string, defaultVal fs.FileMode) fs.FileMode {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	mode, err := domain.ParseFileMode(val)
	if err != nil {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getBackend(defaultVal domain.CatalogBackend) domain.CatalogBackend {
	val := s.configStore.GetString(keyCatalogBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.CatalogBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
