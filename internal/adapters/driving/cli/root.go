// Package cli implements the normabundle command line.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/normabundle/internal/adapters/driven/config/file"
	"github.com/custodia-labs/normabundle/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/normabundle/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/normabundle/internal/adapters/driving/styles"
	"github.com/custodia-labs/normabundle/internal/bundle"
	"github.com/custodia-labs/normabundle/internal/connectors/filesystem"
	"github.com/custodia-labs/normabundle/internal/core/domain"
	"github.com/custodia-labs/normabundle/internal/core/ports/driven"
	"github.com/custodia-labs/normabundle/internal/core/ports/driving"
	"github.com/custodia-labs/normabundle/internal/core/services"
	"github.com/custodia-labs/normabundle/internal/logger"
)

// version is set at build time.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
)

// Services used by commands. Tests replace them with in-memory versions.
var (
	configStore     driven.ConfigStore
	settingsService driving.SettingsService
	catalogService  driving.CatalogService
	bundleFs        afero.Fs = afero.NewOsFs()

	// closeServices releases resources opened by initServices.
	closeServices func() error
)

// skipServicesAnnotation marks commands that need no configuration.
const skipServicesAnnotation = "skip-services"

var rootCmd = &cobra.Command{
	Use:   "normabundle",
	Short: "Manage scraped-document bundle directories",
	Long: `normabundle creates, validates, and inspects bundle directories: one
directory per scholarly article holding results.json and the files scraped
for it (fulltext.pdf, fulltext.xml, supplementary data).

It keeps a catalog of validated bundles and can watch a directory for
bundles handed off by the scraper.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Annotations[skipServicesAnnotation] == "true" || settingsService != nil {
			return nil
		}
		return initServices()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug and info messages to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.normabundle)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if closeServices != nil {
		if cerr := closeServices(); cerr != nil {
			logger.Warn("closing services: %v", cerr)
		}
		closeServices = nil
	}
	if err != nil {
		ui := styles.ForWriter(os.Stderr, true)
		fmt.Fprintln(os.Stderr, ui.Error.Render("Error: "+err.Error()))
		return exitCode(err)
	}
	return 0
}

// exitCode maps an error to a process exit status by its kind.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrInvalidInput):
		return 2
	case errors.Is(err, domain.ErrNotFound):
		return 3
	case errors.Is(err, domain.ErrAlreadyExists):
		return 4
	case errors.Is(err, domain.ErrInvalidState):
		return 5
	case errors.Is(err, domain.ErrIO):
		return 6
	default:
		return 1
	}
}

// initServices wires the production adapters.
func initServices() error {
	dir := configDir
	if dir == "" {
		var err error
		if dir, err = file.DefaultDir(); err != nil {
			return err
		}
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	configStore = store
	settingsService = services.NewSettingsService(store)

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	var catalog driven.CatalogStore
	switch settings.CatalogBackend {
	case domain.CatalogBackendMemory:
		catalog = memory.NewCatalogStore()
	default:
		db, err := sqlite.NewStore(settings.CatalogDataDir)
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		catalog = db.CatalogStore()
		closeServices = db.Close
	}

	catalogService = services.NewCatalogService(bundle.NewInspector(bundleOptions(settings)...), catalog)
	logger.Debug("services initialised (config %s, catalog %s)", store.Path(), settings.CatalogBackend)
	return nil
}

// currentSettings returns the settings, or defaults when no service is wired.
func currentSettings() *domain.Settings {
	defaults := domain.DefaultSettings()
	if settingsService == nil {
		return &defaults
	}
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("reading settings: %v", err)
		return &defaults
	}
	return settings
}

func bundleOptions(settings *domain.Settings) []bundle.Option {
	return []bundle.Option{
		bundle.WithFs(bundleFs),
		bundle.WithFileMode(settings.FileMode),
		bundle.WithDirMode(settings.DirMode),
	}
}

// newManager creates an unbound manager configured from settings.
func newManager() *bundle.Manager {
	return bundle.New(bundleOptions(currentSettings())...)
}

// resolvePath turns a CLI argument into an absolute path. file:// URIs are
// accepted and relative paths are taken relative to bundle.root when it is set.
func resolvePath(arg string) string {
	path := filesystem.ResolvePath(arg)
	if path == "" {
		return ""
	}
	if !filepath.IsAbs(path) {
		if root := currentSettings().BundleRoot; root != "" {
			path = filepath.Join(root, path)
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// outputStyles returns styles for the command's output stream.
func outputStyles(cmd *cobra.Command) *styles.Styles {
	return styles.ForWriter(cmd.OutOrStdout(), currentSettings().Color)
}
