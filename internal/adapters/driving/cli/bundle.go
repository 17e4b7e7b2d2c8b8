package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/normabundle/internal/bundle"
	"github.com/custodia-labs/normabundle/internal/core/domain"
)

var createCmd = &cobra.Command{
	Use:   "create [path]",
	Short: "Create a bundle directory",
	Long: `Create the bundle directory and any missing parents.

With --wipe the directory is deleted first. Wiping a directory that does not
exist is an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check that a directory is a bundle",
	Long:  `A bundle is an existing directory holding a non-empty results.json.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var classifyCmd = &cobra.Command{
	Use:   "classify [path]",
	Short: "Classify the entries of a bundle",
	Long: `List the immediate children of a bundle, split into reserved files,
other files, reserved directories, and other directories.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [filename...]",
	Short: "Map file names to canonical full-text names",
	Long: `Print the reserved full-text name each file would be stored as, based on its extension.
A single name that is already reserved is reported as such.`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{skipServicesAnnotation: "true"},
	RunE:        runResolve,
}

var reservedCmd = &cobra.Command{
	Use:         "reserved",
	Short:       "List reserved names",
	Annotations: map[string]string{skipServicesAnnotation: "true"},
	RunE:        runReserved,
}

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Check a directory for reserved file names",
	Long: `Report whether any file directly in dir has a reserved name. A missing
directory has none.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var summaryCmd = &cobra.Command{
	Use:   "summary [path]",
	Short: "Print the bundle metadata summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List files in a bundle",
	Args:  cobra.ExactArgs(1),
	RunE:  runLs,
}

// Command flags.
var (
	createWipe   bool
	classifyJSON bool
	summaryText  bool
	lsRecursive  bool
)

func init() {
	createCmd.Flags().BoolVar(&createWipe, "wipe", false, "Delete the directory before creating it")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print the classification as JSON")
	summaryCmd.Flags().BoolVar(&summaryText, "text", false, "Print plain text instead of XML")
	lsCmd.Flags().BoolVarP(&lsRecursive, "recursive", "r", false, "Include files in subdirectories")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(reservedCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(lsCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	m := newManager()
	if err := m.CreateAndBind(resolvePath(args[0]), createWipe); err != nil {
		return err
	}
	cmd.Printf("Created bundle %s\n", m.Dir())
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	m := newManager()
	if err := m.ReadAndValidate(resolvePath(args[0])); err != nil {
		return err
	}
	cmd.Println(outputStyles(cmd).Success.Render(m.Dir() + " is a valid bundle"))
	return nil
}

// classificationJSON is the --json form of a classification.
type classificationJSON struct {
	Dir              string   `json:"dir"`
	ReservedFiles    []string `json:"reserved_files"`
	NonReservedFiles []string `json:"non_reserved_files"`
	ReservedDirs     []string `json:"reserved_dirs"`
	NonReservedDirs  []string `json:"non_reserved_dirs"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	m := bundle.Open(resolvePath(args[0]), bundleOptions(currentSettings())...)
	c, err := m.Classify()
	if err != nil {
		return err
	}

	if classifyJSON {
		out := classificationJSON{
			Dir:              m.Dir(),
			ReservedFiles:    nonNil(domain.Names(c.ReservedFiles)),
			NonReservedFiles: nonNil(domain.Names(c.NonReservedFiles)),
			ReservedDirs:     nonNil(domain.Names(c.ReservedDirs)),
			NonReservedDirs:  nonNil(domain.Names(c.NonReservedDirs)),
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding classification: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if c.Len() == 0 {
		cmd.Printf("Bundle %s is empty\n", m.Dir())
		return nil
	}

	ui := outputStyles(cmd)
	var rows [][]string
	add := func(entries []domain.BundleEntry, kind, reserved string) {
		for _, e := range entries {
			name := e.Name
			size := "-"
			if !e.IsDir {
				size = humanize.Bytes(uint64(e.Size))
			}
			if reserved == "yes" {
				name = ui.Reserved.Render(name)
			}
			rows = append(rows, []string{name, kind, reserved, size})
		}
	}
	add(c.ReservedFiles, "file", "yes")
	add(c.NonReservedFiles, "file", "no")
	add(c.ReservedDirs, "dir", "yes")
	add(c.NonReservedDirs, "dir", "no")

	cmd.Println(ui.Title.Render("Bundle " + m.Dir()))
	cmd.Println(renderTable([]string{"Name", "Kind", "Reserved", "Size"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
	cmd.Printf("%d reserved files, %d other files, %d reserved dirs, %d other dirs\n",
		len(c.ReservedFiles), len(c.NonReservedFiles), len(c.ReservedDirs), len(c.NonReservedDirs))
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	if !domain.IsNonEmptyNonReservedInputList(args) {
		cmd.Printf("%s is already a reserved name\n", args[0])
		return nil
	}
	for _, name := range args {
		if canonical, ok := domain.ResolveReservedNameForExtension(name); ok {
			cmd.Printf("%s -> %s\n", name, canonical)
		} else {
			cmd.Printf("%s -> (none)\n", name)
		}
	}
	return nil
}

func runReserved(cmd *cobra.Command, _ []string) error {
	exts := domain.ReservedExtensions()
	byName := make(map[string]string, len(exts))
	for ext, name := range exts {
		byName[name] = "." + ext
	}

	var rows [][]string
	for _, name := range domain.ReservedFileNames() {
		rows = append(rows, []string{name, "file", byName[name]})
	}
	for _, name := range domain.ReservedDirNames() {
		rows = append(rows, []string{name, "dir", ""})
	}

	cmd.Println(renderTable([]string{"Name", "Kind", "Extension"}, rows, nil))
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := resolvePath(args[0])
	if bundle.ContainsNoReservedFilenames(bundleFs, dir) {
		cmd.Printf("No reserved file names in %s\n", dir)
		return nil
	}

	m := bundle.Open(dir, bundleOptions(currentSettings())...)
	files, err := m.ReservedFiles()
	if err != nil {
		return err
	}
	cmd.Println(outputStyles(cmd).Warning.Render(dir + " contains reserved file names:"))
	for _, f := range files {
		cmd.Printf("  %s\n", f.Name)
	}
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	m := bundle.Open(resolvePath(args[0]), bundleOptions(currentSettings())...)
	summary, err := m.MetadataSummary()
	if err != nil {
		return err
	}

	if summaryText {
		cmd.Print(summary.String())
		return nil
	}
	data, err := summary.XML()
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runLs(cmd *cobra.Command, args []string) error {
	m := bundle.Open(resolvePath(args[0]), bundleOptions(currentSettings())...)
	files, err := m.ListFiles(lsRecursive)
	if err != nil {
		return err
	}
	sort.Strings(files)
	if len(files) == 0 {
		cmd.Printf("No files in %s\n", m.Dir())
		return nil
	}
	cmd.Println(strings.Join(files, "\n"))
	return nil
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
