package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vane/internal/diagfmt"
	"vane/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.src>...",
	Short: "Run every analysis stage short of translation",
	Long:  "check parses, resolves symbols (both passes), and type-checks each file, without emitting IR.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("ptr-size", 8, "target pointer width in bytes")
}

func runCheck(cmd *cobra.Command, args []string) error {
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
	ptrSize, err := cmd.Flags().GetInt("ptr-size")
	if err != nil {
		return fmt.Errorf("failed to get ptr-size flag: %w", err)
	}

	result, err := driver.Check(args, maxDiagnostics, jobs, ptrSize)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if result.Comp.Bag.Len() > 0 {
		opts := diagfmt.PrettyOpts{Color: useColor(colorFlag, os.Stderr), Context: 2}
		diagfmt.Pretty(os.Stderr, result.Comp.Bag, result.Comp.FileSet, opts)
	}

	if !quiet && result.Comp.Bag.Len() == 0 {
		fmt.Fprintf(os.Stdout, "check: %d file(s), no diagnostics\n", len(result.Prog.Units))
	}

	if result.Comp.Bag.HasErrors() {
		return fmt.Errorf("check reported %d error(s)", result.Comp.Bag.Len())
	}
	return nil
}
