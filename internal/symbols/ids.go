// Package symbols implements the symbol table and two-pass name resolver
// (spec.md §3.4, §4.2): a SymbolEntry variant set (Variable, TypeDefinition,
// FunctionGroup) keyed by name within a scope, and the Resolver that walks
// the syntax tree in two passes to populate it.
package symbols

import "vane/internal/ast"

// ScopeID identifies a scope in the resolver's arena.
type ScopeID uint32

// NoScopeID marks the absence of a scope.
const NoScopeID ScopeID = 0

func (id ScopeID) IsValid() bool { return id != NoScopeID }

// SymbolID identifies a symbol table entry.
type SymbolID uint32

// NoSymbolID marks the absence of a symbol.
const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// FromSymbolRef recovers the SymbolID an ast.SymbolRef was built from
// (mirrors FromEntryRef's numeric-identity bridge for the other opaque
// handle internal/ast carries).
func FromSymbolRef(ref ast.SymbolRef) SymbolID { return SymbolID(ref) }
