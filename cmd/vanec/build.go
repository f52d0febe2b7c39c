package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"vane/internal/diagfmt"
	"vane/internal/driver"
	"vane/internal/project"
	"vane/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.src]...",
	Short: "Build vane source into per-file fragment vectors",
	Long: "build runs the full pipeline (parse, resolve, check, translate) over the given files, " +
		"or over a vane.toml manifest's entry list when no files are given.",
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().Int("ptr-size", 8, "target pointer width in bytes")
	buildCmd.Flags().StringP("output", "o", "", "directory to write <name>.vir listings into")
	buildCmd.Flags().String("ui", "auto", "progress display (auto|on|off)")
	buildCmd.Flags().Bool("no-cache", false, "bypass the on-disk translation cache")
}

func runBuild(cmd *cobra.Command, args []string) error {
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
	outDir, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	uiMode, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	paths := args
	if len(paths) == 0 {
		manifest, found, err := project.Load(".")
		if err != nil {
			return fmt.Errorf("failed to load vane.toml: %w", err)
		}
		if !found {
			return fmt.Errorf("no input files given and no vane.toml manifest found")
		}
		paths = manifest.EntryFiles()
		if len(paths) == 0 {
			return fmt.Errorf("vane.toml manifest %s declares no [package] entry files", manifest.Root)
		}
	}

	showProgress := uiMode == "on" || (uiMode == "auto" && !quiet && isTerminal(os.Stdout) && len(paths) > 0)

	opts := driver.BuildOptions{PtrSize: ptrSize, MaxDiagnostics: maxDiagnostics, Jobs: jobs, NoCache: noCache}

	var result *driver.BuildResult
	var buildErr error
	if showProgress {
		events := make(chan driver.Event, 8)
		opts.Events = events
		done := make(chan struct{})
		program := tea.NewProgram(ui.NewProgressModel("vanec build", events))
		go func() {
			_, _ = program.Run()
			close(done)
		}()
		result, buildErr = driver.Build(paths, opts)
		close(events)
		<-done
	} else {
		result, buildErr = driver.Build(paths, opts)
	}

	if result != nil && result.Comp.Bag.Len() > 0 {
		prettyOpts := diagfmt.PrettyOpts{Color: useColor(colorFlag, os.Stderr), Context: 2}
		diagfmt.Pretty(os.Stderr, result.Comp.Bag, result.Comp.FileSet, prettyOpts)
	}
	if buildErr != nil {
		return buildErr
	}

	if outDir != "" {
		if err := driver.WriteVIR(outDir, result.Output); err != nil {
			return fmt.Errorf("failed to write .vir output: %w", err)
		}
	}

	if !quiet {
		fmt.Fprintf(os.Stdout, "built %d output(s) from %d file(s)\n", len(result.Output), len(paths))
	}
	return nil
}
