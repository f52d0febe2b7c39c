package frame

import "vane/internal/ir"

// globalAccess is the Access variant backing a file-scope variable: its
// location is a mangled label the linker resolves, loaded and stored
// through MEM_LOAD/MEM_STORE against that label (spec.md §4.5's global
// variant).
type globalAccess struct {
	label string
	size  int
}

// Global builds the Access for a mangled global label of the given size.
func Global(label string, size int) Access {
	return &globalAccess{label: label, size: size}
}

func (g *globalAccess) Load(out ir.Operand) []ir.Entry {
	return []ir.Entry{ir.MemLoad(g.size, out, ir.Global(g.label))}
}

func (g *globalAccess) Store(value ir.Operand) []ir.Entry {
	return []ir.Entry{ir.MemStore(g.size, ir.Global(g.label), value)}
}

func (g *globalAccess) Address() ir.Operand { return ir.Global(g.label) }

func (g *globalAccess) GetLabel() (string, bool) { return g.label, true }

func (g *globalAccess) Destroy() {}
