package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/normabundle/internal/bundle"
	"github.com/custodia-labs/normabundle/internal/connectors/filesystem"
	"github.com/custodia-labs/normabundle/internal/core/domain"
)

var writeCmd = &cobra.Command{
	Use:   "write [path] [filename]",
	Short: "Write a new file into a bundle",
	Long: `Write content from --from (or standard input) to filename inside the bundle.

An existing file is never replaced.`,
	Args: cobra.ExactArgs(2),
	RunE: runWrite,
}

var resultsCmd = &cobra.Command{
	Use:   "results [path] [subdir]",
	Short: "Write results.xml into a bundle subdirectory",
	Long: `Write an XML document from --from (or standard input) to subdir/results.xml
inside the bundle, creating subdir if needed. An existing results.xml is replaced.`,
	Args: cobra.ExactArgs(2),
	RunE: runResults,
}

var (
	writeFrom   string
	resultsFrom string
)

func init() {
	writeCmd.Flags().StringVar(&writeFrom, "from", "-", "File to read content from, - for standard input")
	resultsCmd.Flags().StringVar(&resultsFrom, "from", "-", "File to read the document from, - for standard input")

	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(resultsCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	content, err := readInput(cmd, writeFrom)
	if err != nil {
		return err
	}

	m := bundle.Open(resolvePath(args[0]), bundleOptions(currentSettings())...)
	if err := m.WriteNewFile(content, args[1]); err != nil {
		return err
	}
	cmd.Printf("Wrote %s (%d bytes)\n", args[1], len(content))
	return nil
}

func runResults(cmd *cobra.Command, args []string) error {
	content, err := readInput(cmd, resultsFrom)
	if err != nil {
		return err
	}

	m := bundle.Open(resolvePath(args[0]), bundleOptions(currentSettings())...)
	if err := m.WriteResultsDocument(args[1], content); err != nil {
		return err
	}
	cmd.Printf("Wrote %s/%s (%d bytes)\n", args[1], domain.ResultsXML, len(content))
	return nil
}

// readInput reads from the command's input for "-" and from a file otherwise.
func readInput(cmd *cobra.Command, from string) ([]byte, error) {
	if from == "" || from == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("%w: reading standard input: %w", domain.ErrIO, err)
		}
		return data, nil
	}

	path := filesystem.ResolvePath(from)
	data, err := afero.ReadFile(bundleFs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: input file %s does not exist", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrIO, path, err)
	}
	return data, nil
}
