package symbols

import (
	"vane/internal/ast"
	"vane/internal/source"
)

// ScopeKind enumerates the scope categories spec.md §3.4/§4.2 requires:
// a table per file, per module, per function body, and per nested block
// (compound, for, switch).
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeFile
	ScopeModule
	ScopeFunction
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeFile:
		return "file"
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// ScopeOwnerKind distinguishes which syntax node a scope belongs to.
type ScopeOwnerKind uint8

const (
	ScopeOwnerUnknown ScopeOwnerKind = iota
	ScopeOwnerFile
	ScopeOwnerItem
	ScopeOwnerStmt
)

// ScopeOwner references the syntax node that owns a scope, for diagnostics
// and for re-deriving the owning ast.ScopeRef after resolution.
type ScopeOwner struct {
	Kind       ScopeOwnerKind
	SourceFile source.FileID
	ASTFile    ast.FileID
	Item       ast.ItemID
	Stmt       ast.StmtID
}

// Scope is one lexical scope with a parent-child hierarchy and a name
// index restricted to names declared directly inside it.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     ScopeOwner
	Span      source.Span
	NameIndex map[source.StringID][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
