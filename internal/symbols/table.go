package symbols

import "vane/internal/source"

// Hints give optional capacity suggestions for the table's arenas.
type Hints struct{ Scopes, Symbols uint32 }

// Table aggregates every scope and symbol for one compilation (all files:
// spec.md §4.2 resolves imports across files, so one Table is shared).
type Table struct {
	Scopes   *Scopes
	Symbols  *Symbols
	Strings  *source.Interner
	fileRoot map[source.FileID]ScopeID
}

func NewTable(h Hints, strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Scopes:   NewScopes(h.Scopes),
		Symbols:  NewSymbols(h.Symbols),
		Strings:  strings,
		fileRoot: make(map[source.FileID]ScopeID),
	}
}

// FileRoot returns (creating on first use) the module-level scope for file.
func (t *Table) FileRoot(file source.FileID, span source.Span) ScopeID {
	if scope, ok := t.fileRoot[file]; ok {
		return scope
	}
	scope := t.Scopes.New(ScopeModule, NoScopeID, ScopeOwner{Kind: ScopeOwnerFile, SourceFile: file}, span)
	t.fileRoot[file] = scope
	return scope
}
