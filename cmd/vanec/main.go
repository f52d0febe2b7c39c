// Package main implements vanec, the command-line front end for the
// compiler's tokenize/parse/check/build pipeline (internal/driver).
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/cases"

	"vane/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "vanec",
	Short: "vanec compiles vane source into relocatable fragments",
	Long:  "vanec is the compiler for the vane language: tokenize, parse, check, and build.",
}

func main() {
	rootCmd.Version = version.VersionString()

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize diagnostics (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to collect")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel workers for multi-file input (0=auto)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to an interactive terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var colorFold = cases.Fold()

// useColor resolves the --color flag (auto|on|off, case-insensitively)
// against whether out is a terminal.
func useColor(colorFlag string, out *os.File) bool {
	switch colorFold.String(colorFlag) {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(out)
	}
}
