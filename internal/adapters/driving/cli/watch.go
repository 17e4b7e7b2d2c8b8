package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/normabundle/internal/bundle"
	"github.com/custodia-labs/normabundle/internal/connectors/filesystem"
	"github.com/custodia-labs/normabundle/internal/core/domain"
	"github.com/custodia-labs/normabundle/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [root]",
	Short: "Watch a directory for bundles",
	Long: `Watch the immediate subdirectories of root and report bundles as they are
handed off, changed, or removed. Valid bundles are recorded in the catalog and
removed bundles are dropped from it, unless --no-catalog is given.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var watchNoCatalog bool

func init() {
	watchCmd.Flags().BoolVar(&watchNoCatalog, "no-catalog", false, "Only print changes; do not update the catalog")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if catalogService == nil && !watchNoCatalog {
		return errors.New("catalog service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// fsnotify only sees the OS filesystem.
	opts := append(bundleOptions(currentSettings()), bundle.WithFs(afero.NewOsFs()))
	watcher := filesystem.NewWatcher(resolvePath(args[0]), bundle.NewInspector(opts...))
	defer watcher.Close()

	changes, errs, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	ui := outputStyles(cmd)
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", watcher.Root())

	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			cmd.Printf("%s %s\n", ui.Muted.Render(change.Type.String()), change.Path)
			if !watchNoCatalog {
				applyChange(ctx, change)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Error("watch: %v", err)
		}
	}
}

// applyChange mirrors a bundle change into the catalog using the snapshot
// the watcher took.
func applyChange(ctx context.Context, change domain.BundleChange) {
	switch change.Type {
	case domain.ChangeCreated, domain.ChangeUpdated:
		if change.Snapshot == nil {
			logger.Warn("no snapshot for %s", change.Path)
			return
		}
		if err := catalogService.Save(ctx, change.Snapshot); err != nil {
			logger.Warn("recording %s: %v", change.Path, err)
		}
	case domain.ChangeDeleted:
		if err := catalogService.Remove(ctx, change.Path); err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("removing %s: %v", change.Path, err)
		}
	}
}
