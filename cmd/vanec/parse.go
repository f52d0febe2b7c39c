package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vane/internal/diagfmt"
	"vane/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.src>...",
	Short: "Parse vane source files and report syntax diagnostics",
	Long:  "parse runs the lexer and parser over each file, with no symbol resolution or type checking.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}

	comp := driver.NewCompilation(maxDiagnostics)
	units, err := comp.ParseAll(args, jobs)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	comp.Bag.Sort()

	if comp.Bag.Len() > 0 {
		opts := diagfmt.PrettyOpts{Color: useColor(colorFlag, os.Stderr), Context: 2}
		diagfmt.Pretty(os.Stderr, comp.Bag, comp.FileSet, opts)
	}

	if !quiet {
		items := 0
		for _, u := range units {
			items += len(u.File.Items)
		}
		fmt.Fprintf(os.Stdout, "parsed %d file(s), %d top-level item(s)\n", len(units), items)
	}

	if comp.Bag.HasErrors() {
		return fmt.Errorf("parse reported %d error(s)", comp.Bag.Len())
	}
	return nil
}
