package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vane/internal/check"
	"vane/internal/ir"
	"vane/internal/symbols"
	"vane/internal/translate"
)

// BuildOptions configures one Build run.
type BuildOptions struct {
	PtrSize        int
	MaxDiagnostics int
	Jobs           int
	// Events, if non-nil, receives one working/done/error Event per stage.
	Events chan<- Event
	// NoCache disables the on-disk single-file translation cache.
	NoCache bool
}

// BuildResult is Build's output. Output is filled only when the build
// succeeds; when diagnostics or translation fail, Build still returns Comp
// and Prog alongside the error.
type BuildResult struct {
	Comp   *Compilation
	Prog   *symbols.Program
	Output ir.Output
}

// Build runs the full pipeline — load, parse, resolve, check, translate —
// over paths, emitting progress Events as it goes. A non-nil error means
// either an I/O failure or that comp.Bag holds at least one error-severity
// diagnostic; callers should render comp.Bag either way.
func Build(paths []string, opts BuildOptions) (*BuildResult, error) {
	ptrSize := opts.PtrSize
	if ptrSize <= 0 {
		ptrSize = 8
	}

	emit(opts.Events, StageParse, StatusWorking, nil)
	comp := NewCompilation(opts.MaxDiagnostics)
	units, err := comp.ParseAll(paths, opts.Jobs)
	if err != nil {
		emit(opts.Events, StageParse, StatusError, err)
		return nil, err
	}
	emit(opts.Events, StageParse, StatusDone, nil)

	emit(opts.Events, StageDiagnose, StatusWorking, nil)
	prog := comp.Resolve(units, ptrSize)
	check.Check(prog, check.Options{Reporter: prog.Reporter, PtrSize: ptrSize})
	comp.Bag.Sort()
	if comp.Bag.HasErrors() {
		err := fmt.Errorf("build failed with %d diagnostic(s)", comp.Bag.Len())
		emit(opts.Events, StageDiagnose, StatusError, err)
		return &BuildResult{Comp: comp, Prog: prog}, err
	}
	emit(opts.Events, StageDiagnose, StatusDone, nil)

	emit(opts.Events, StageLower, StatusWorking, nil)
	out, err := comp.translateWithCache(prog, units, ptrSize, opts.NoCache)
	if err != nil {
		emit(opts.Events, StageLower, StatusError, err)
		return &BuildResult{Comp: comp, Prog: prog}, err
	}
	emit(opts.Events, StageLower, StatusDone, nil)

	return &BuildResult{Comp: comp, Prog: prog, Output: out}, nil
}

// translateWithCache runs the translator, short-circuiting through the
// on-disk module cache for the common single-file case: a cache key mixes
// the file's content with ptrSize, so edits or a target change both miss.
func (c *Compilation) translateWithCache(prog *symbols.Program, units []symbols.FileUnit, ptrSize int, noCache bool) (ir.Output, error) {
	if noCache || len(units) != 1 {
		return translate.Translate(prog, translate.Options{PtrSize: ptrSize}), nil
	}

	f := c.FileSet.Get(units[0].SourceFile)
	key := cacheKey(f.Content, ptrSize)
	if entry, ok := loadCache(key); ok {
		return ir.Output{entry.Name: entry.Vector}, nil
	}

	out := translate.Translate(prog, translate.Options{PtrSize: ptrSize})
	for name, vec := range out {
		storeCache(key, cacheEntry{Name: name, Vector: vec})
	}
	return out, nil
}

// OutputPath derives the .vir listing path vanec build -o writes for one
// translated output filename, the way translate.Translate derives "X.s"
// from "X.src": same stem, new extension, inside dir.
func OutputPath(dir, name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, stem+".vir")
}

// WriteVIR writes out as one .vir text file per translated output into dir,
// creating dir if needed, via ir.Print.
func WriteVIR(dir string, out ir.Output) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, vec := range out {
		path := OutputPath(dir, name)
		// #nosec G304 -- path is derived from the build's own output names
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = ir.PrintVector(f, vec)
		closeErr := f.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return closeErr
		}
	}
	return nil
}
