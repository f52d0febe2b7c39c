// Package translate implements the translator from a resolved and checked
// symbols.Program into per-file fragment vectors of flat three-address IR
// (spec.md §4.4): one BSS/rodata/data fragment per file-scope variable, one
// text fragment per function definition, laid out through the frame.Frame
// and frame.Access collaborators of spec.md §4.5 rather than any fixed
// target stack convention. Translate trusts that internal/check has already
// rejected every ill-typed program; it reports no diagnostics of its own.
package translate

import (
	"strings"

	"vane/internal/ast"
	"vane/internal/backend/stackframe"
	"vane/internal/frame"
	"vane/internal/ir"
	"vane/internal/symbols"
)

// Options configures one translation run.
type Options struct {
	// PtrSize is the target's pointer width in bytes (spec.md §6.1);
	// defaults to 8 when zero.
	PtrSize int
	// NewFrame builds a fresh frame.Frame for one function's translation.
	// Defaults to internal/backend/stackframe's minimal stack-only backend.
	NewFrame func() frame.Frame
}

// translator carries the state every file and function walk shares for the
// whole run: the resolved program, target geometry, and the per-driver
// label counter (spec.md §5: "labels are allocated from a per-driver
// monotonic counter with two flavors").
type translator struct {
	prog     *symbols.Program
	ptrSize  int
	newFrame func() frame.Frame
	labels   ir.LabelCounter
}

// Translate lowers every file unit in prog, keyed by the output filename
// spec.md §6.5 derives from the source name ("X.src" -> "X.s").
func Translate(prog *symbols.Program, opts Options) ir.Output {
	ptrSize := opts.PtrSize
	if ptrSize == 0 {
		ptrSize = 8
	}
	t := &translator{prog: prog, ptrSize: ptrSize, newFrame: opts.NewFrame}

	out := make(ir.Output, len(prog.Units))
	for _, unit := range prog.Units {
		out[outputName(prog, unit)] = t.translateFile(unit)
	}
	return out
}

func outputName(prog *symbols.Program, unit symbols.FileUnit) string {
	name := prog.Strings.MustLookup(unit.File.Filename)
	return strings.TrimSuffix(name, ".src") + ".s"
}

func (t *translator) newFunctionFrame() frame.Frame {
	if t.newFrame != nil {
		return t.newFrame()
	}
	return stackframe.New(t.prog.Types, t.ptrSize)
}

// translateFile walks one file's top-level items in source order (spec.md
// §5: "declarations are visited in source order").
func (t *translator) translateFile(unit symbols.FileUnit) ir.Vector {
	fw := &fileTranslator{
		t:          t,
		moduleName: t.prog.Strings.MustLookup(unit.File.Module.Id.Name),
	}
	for _, itemID := range unit.File.Items {
		fw.translateItem(itemID)
	}
	return fw.vec
}

// fileTranslator accumulates one file's fragment vector; string literals
// and global variables it lowers append directly to vec, in encounter
// order, with no reordering (spec.md §6.5).
type fileTranslator struct {
	t          *translator
	moduleName string
	vec        ir.Vector
}

func (fw *fileTranslator) translateItem(itemID ast.ItemID) {
	item := fw.t.prog.Items.Get(itemID)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemVar:
		data, _ := fw.t.prog.Items.Var(itemID)
		fw.translateGlobalVar(data)
	case ast.ItemFunctionDefn:
		data, _ := fw.t.prog.Items.FunctionDefn(itemID)
		fw.translateFunction(itemID, data)
	}
	// ItemFunctionDecl, ItemOpaque, ItemStruct, ItemUnion, ItemEnum, and
	// ItemTypedef name types and signatures only; they emit no fragment of
	// their own.
}
