package driver

import (
	"vane/internal/check"
	"vane/internal/symbols"
)

// CheckResult holds a diagnose-only run's output: the program's resolved
// symbol table plus every diagnostic raised along the way. No translation
// happens, matching vanec check's "parse, resolve, type-check, stop" scope.
type CheckResult struct {
	Comp *Compilation
	Prog *symbols.Program
}

// Check parses, resolves, and type-checks every path, without translating.
func Check(paths []string, maxDiagnostics, jobs, ptrSize int) (*CheckResult, error) {
	comp := NewCompilation(maxDiagnostics)
	units, err := comp.ParseAll(paths, jobs)
	if err != nil {
		return nil, err
	}
	prog := comp.Resolve(units, ptrSize)
	if ptrSize <= 0 {
		ptrSize = 8
	}
	check.Check(prog, check.Options{Reporter: prog.Reporter, PtrSize: ptrSize})
	comp.Bag.Sort()
	return &CheckResult{Comp: comp, Prog: prog}, nil
}
