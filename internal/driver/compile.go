// Package driver wires the front end's stages (internal/lexer through
// internal/translate) into the multi-file pipelines cmd/vanec drives:
// tokenize-only, diagnose-only, and full build.
//
// internal/ast's arenas (Items, Stmts, Exprs, TypeSyns, Files) are plain
// unsynchronized append-only slices, unlike internal/source.Interner's
// mutex-guarded string table — so rather than a goroutine-per-file parse
// fan-out, this driver only parallelizes the part that touches no shared
// arena: reading each file's bytes off disk. Every
// os.ReadFile runs concurrently through an errgroup capped at --jobs (or
// GOMAXPROCS); registering the bytes into a source.FileSet and parsing them
// into the shared arenas happens afterward, serially, in argument order, so
// output stays deterministic no matter which read finishes first.
package driver

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/lexer"
	"vane/internal/parser"
	"vane/internal/source"
	"vane/internal/symbols"
	"vane/internal/types"
)

// Compilation bundles the shared arenas and interners one multi-file run
// writes into. internal/symbols.Program.Resolve needs every file unit
// collected up front, so a Compilation's lifetime spans the whole pipeline
// rather than one file at a time.
type Compilation struct {
	Strings  *source.Interner
	Types    *types.Interner
	Files    *ast.Files
	Items    *ast.Items
	Stmts    *ast.Stmts
	Exprs    *ast.Exprs
	TypeSyns *ast.TypeSyns
	FileSet  *source.FileSet
	Bag      *diag.Bag
}

// NewCompilation allocates an empty Compilation with a diagnostic bag
// capped at maxDiagnostics.
func NewCompilation(maxDiagnostics int) *Compilation {
	if maxDiagnostics <= 0 {
		maxDiagnostics = 200
	}
	return &Compilation{
		Strings:  source.NewInterner(),
		Types:    types.NewInterner(),
		Files:    ast.NewFiles(8),
		Items:    ast.NewItems(64),
		Stmts:    ast.NewStmts(256),
		Exprs:    ast.NewExprs(512),
		TypeSyns: ast.NewTypeSyns(64),
		FileSet:  source.NewFileSet(),
		Bag:      diag.NewBag(maxDiagnostics),
	}
}

func jobCount(jobs int) int {
	if jobs > 0 {
		return jobs
	}
	return runtime.GOMAXPROCS(0)
}

// loadSources reads every path concurrently and registers the results into
// FileSet serially, in paths order.
func (c *Compilation) loadSources(paths []string, jobs int) ([]source.FileID, error) {
	contents := make([][]byte, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(jobCount(jobs))
	for i, p := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			contents[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	ids := make([]source.FileID, len(paths))
	for i, p := range paths {
		ids[i] = c.FileSet.Add(p, contents[i])
	}
	return ids, nil
}

// parseFile tokenizes and parses one already-registered file.
func (c *Compilation) parseFile(fid source.FileID, reporter diag.Reporter, isCode bool) (ast.FileID, bool) {
	f := c.FileSet.Get(fid)
	lx := lexer.New(f, lexer.Options{Reporter: reporter, Interner: c.Strings})
	deps := parser.Deps{
		Interner: c.Strings,
		Reporter: reporter,
		Files:    c.Files,
		Items:    c.Items,
		Stmts:    c.Stmts,
		Exprs:    c.Exprs,
		TypeSyns: c.TypeSyns,
	}
	filename := c.Strings.Intern(f.Path)
	return parser.ParseFile(lx, deps, filename, isCode)
}

// ParseAll loads and parses every path, returning one symbols.FileUnit per
// file that produced a syntax tree (parse failures are left out; their
// diagnostics are already in c.Bag).
func (c *Compilation) ParseAll(paths []string, jobs int) ([]symbols.FileUnit, error) {
	fids, err := c.loadSources(paths, jobs)
	if err != nil {
		return nil, err
	}
	reporter := diag.BagReporter{Bag: c.Bag}
	units := make([]symbols.FileUnit, 0, len(paths))
	for _, fid := range fids {
		fileID, ok := c.parseFile(fid, reporter, true)
		if !ok {
			continue
		}
		units = append(units, symbols.FileUnit{File: c.Files.Get(fileID), SourceFile: fid})
	}
	return units, nil
}

// Resolve runs both symbol-resolution passes over units, returning the
// shared Program. Type checking is a separate step (check.Check) that the
// caller runs afterward.
func (c *Compilation) Resolve(units []symbols.FileUnit, ptrSize int) *symbols.Program {
	if ptrSize <= 0 {
		ptrSize = 8
	}
	reporter := diag.BagReporter{Bag: c.Bag}
	prog := symbols.NewProgram(c.Types, c.Items, c.Stmts, c.Exprs, c.TypeSyns, c.Strings, reporter)
	prog.Resolve(units)
	return prog
}
