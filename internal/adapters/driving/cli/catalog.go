package cli

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the bundle catalog",
	Long: `The catalog records validated bundles so later pipeline stages can find
them without walking the filesystem. Bundle files stay on disk.`,
}

var catalogIndexCmd = &cobra.Command{
	Use:   "index [root]",
	Short: "Record every bundle under a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogIndex,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued bundles",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show a catalogued bundle",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "rm [path]",
	Short: "Remove a bundle from the catalog",
	Long:  `Forget a bundle. The bundle directory is not touched.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogRemove,
}

func init() {
	catalogCmd.AddCommand(catalogIndexCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogRemoveCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogIndex(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	report, err := catalogService.Index(context.Background(), resolvePath(args[0]))
	if err != nil {
		return err
	}

	cmd.Printf("Indexed %d bundles under %s in %s\n",
		len(report.Indexed), report.Root, report.Duration().Round(time.Millisecond))

	if len(report.Skipped) > 0 {
		paths := make([]string, 0, len(report.Skipped))
		for p := range report.Skipped {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		rows := make([][]string, 0, len(paths))
		for _, p := range paths {
			rows = append(rows, []string{p, report.Skipped[p]})
		}
		cmd.Println(outputStyles(cmd).Warning.Render("Skipped " + strconv.Itoa(len(paths)) + " directories:"))
		cmd.Println(renderTable([]string{"Directory", "Reason"}, rows, nil))
	}
	return nil
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	snaps, err := catalogService.List(context.Background())
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		cmd.Println("No bundles catalogued")
		return nil
	}

	rows := make([][]string, 0, len(snaps))
	for i := range snaps {
		forms := strings.Join(snaps[i].FulltextForms(), ", ")
		if forms == "" {
			forms = "-"
		}
		rows = append(rows, []string{
			snaps[i].Path,
			strconv.Itoa(len(snaps[i].ReservedFiles)),
			forms,
			humanize.Bytes(uint64(snaps[i].ManifestSize)),
			humanize.Time(snaps[i].InspectedAt),
		})
	}

	cmd.Println(renderTable([]string{"Bundle", "Reserved", "Full text", "Manifest", "Inspected"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft}))
	cmd.Printf("Total: %d bundles\n", len(snaps))
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	snap, err := catalogService.Get(context.Background(), resolvePath(args[0]))
	if err != nil {
		return err
	}

	ui := outputStyles(cmd)
	cmd.Println(ui.Title.Render("Bundle " + snap.Path))
	cmd.Printf("  Manifest:        %s\n", humanize.Bytes(uint64(snap.ManifestSize)))
	cmd.Printf("  Inspected:       %s (%s)\n", snap.InspectedAt.Format("2006-01-02 15:04:05"), humanize.Time(snap.InspectedAt))
	cmd.Printf("  Reserved files:  %s\n", joinOrDash(snap.ReservedFiles))
	cmd.Printf("  Other files:     %s\n", joinOrDash(snap.NonReservedFiles))
	cmd.Printf("  Reserved dirs:   %s\n", joinOrDash(snap.ReservedDirs))
	cmd.Printf("  Other dirs:      %s\n", joinOrDash(snap.NonReservedDirs))
	return nil
}

func runCatalogRemove(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	path := resolvePath(args[0])
	if err := catalogService.Remove(context.Background(), path); err != nil {
		return err
	}
	cmd.Printf("Removed %s from the catalog\n", path)
	return nil
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
