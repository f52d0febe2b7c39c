package ast

import "vane/internal/source"

// SymbolRef is an opaque handle to a resolved symbol-table entry, set by
// name resolution (spec.md §4.2). It intentionally carries no behavior here
// — internal/symbols owns the entry this refers to — so internal/ast never
// needs to import internal/symbols.
type SymbolRef uint32

// NoSymbolRef marks an identifier that hasn't been resolved yet.
const NoSymbolRef SymbolRef = 0

// Identifier is a single raw name, with an optional symbol resolved onto it.
type Identifier struct {
	Span     source.Span
	Name     source.StringID
	Resolved SymbolRef
}

// ScopedId is a sequence of simple identifiers joined by `::` (spec.md
// §3.2, §4.2's two-segment enum-constant special case).
type ScopedId struct {
	Span     source.Span
	Segments []Identifier
}

// Simple reports whether the scoped id is a single, unqualified segment.
func (s ScopedId) Simple() bool { return len(s.Segments) == 1 }

// ScopeRef is an opaque handle to the symbol table a File, FunctionDefn,
// CompoundStmt, ForStmt, or SwitchStmt owns (spec.md §3.2, §3.4). Like
// SymbolRef, it carries no behavior: internal/symbols owns the table this
// refers to and in turn references ast nodes by ID, so a real pointer field
// here would create an import cycle. Name resolution fills this in during
// Pass A/Pass B (spec.md §4.2).
type ScopeRef uint32

// NoScopeRef marks a node whose scope hasn't been built yet.
const NoScopeRef ScopeRef = 0
