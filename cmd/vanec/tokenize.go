package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vane/internal/diagfmt"
	"vane/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.src|directory>",
	Short: "Tokenize a vane source file or directory",
	Long:  "tokenize lexes a single source file, or every *.src file under a directory, into its token stream.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
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

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var result *driver.TokenizeResult
	if st.IsDir() {
		result, err = driver.TokenizeDir(path, maxDiagnostics, jobs)
	} else {
		result, err = driver.Tokenize(path, maxDiagnostics)
	}
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		opts := diagfmt.PrettyOpts{Color: useColor(colorFlag, os.Stderr), Context: 2}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, opts)
	}

	switch format {
	case "pretty":
		for idx, ft := range result.Files {
			if !quiet && len(result.Files) > 1 {
				fmt.Fprintf(os.Stdout, "== %s ==\n", ft.Path)
			}
			if err := diagfmt.FormatTokensPretty(os.Stdout, ft.Tokens, result.Strings, result.FileSet); err != nil {
				return err
			}
			if !quiet && idx < len(result.Files)-1 {
				fmt.Fprintln(os.Stdout)
			}
		}
	case "json":
		output := make(map[string][]diagfmt.TokenOutput, len(result.Files))
		for _, ft := range result.Files {
			output[ft.Path] = diagfmt.TokenOutputsJSON(ft.Tokens, result.Strings)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if result.Bag.HasErrors() {
		return fmt.Errorf("tokenization reported %d error(s)", result.Bag.Len())
	}
	return nil
}
