package symbols

import (
	"fmt"

	"vane/internal/diag"
	"vane/internal/source"
	"vane/internal/types"
)

// Resolver drives scope management and declare/lookup for one compilation
// (spec.md §4.2). It wraps a shared Table with a scope stack so Pass A and
// Pass B can push/pop scopes as they walk the syntax tree.
type Resolver struct {
	table    *Table
	reporter diag.Reporter
	stack    []ScopeID
}

func NewResolver(table *Table, reporter diag.Reporter) *Resolver {
	return &Resolver{table: table, reporter: reporter, stack: make([]ScopeID, 0, 8)}
}

func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Enter pushes a new child scope of kind under the current scope and
// returns its ID. Pass B calls it for each function body, compound, for,
// and switch (ScopeFunction/ScopeBlock); module scopes come from
// Table.FileRoot and are pushed with EnterExisting instead.
func (r *Resolver) Enter(kind ScopeKind, owner ScopeOwner, span source.Span) ScopeID {
	parent := r.CurrentScope()
	scope := r.table.Scopes.New(kind, parent, owner, span)
	r.stack = append(r.stack, scope)
	return scope
}

// EnterExisting pushes an already-created scope (e.g. a file's module
// scope from Table.FileRoot) without allocating a new one.
func (r *Resolver) EnterExisting(scope ScopeID) {
	r.stack = append(r.stack, scope)
}

func (r *Resolver) Leave() {
	if len(r.stack) == 0 {
		return
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// Declare installs a non-function symbol in the current scope. It fails
// (reporting ResDuplicateDefinition) if a non-function entry with the same
// name already exists there (spec.md §3.4: "two entries with the same name
// must not coexist ... except inside a function group").
func (r *Resolver) Declare(name source.StringID, span source.Span, kind SymbolKind, build func(*Symbol)) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID, false
	}
	if existing := scope.NameIndex[name]; len(existing) > 0 {
		for _, symID := range existing {
			sym := r.table.Symbols.Get(symID)
			if sym == nil {
				continue
			}
			r.reportDuplicate(name, span, sym.Span)
			return NoSymbolID, false
		}
	}
	sym := Symbol{Name: name, Kind: kind, Scope: scopeID, Span: span}
	if build != nil {
		build(&sym)
	}
	id := r.table.Symbols.New(sym)
	scope.Symbols = append(scope.Symbols, id)
	scope.NameIndex[name] = append(scope.NameIndex[name], id)
	return id, true
}

// DeclareOverload installs one function overload, creating the group entry
// on first use and appending to it thereafter (spec.md §3.4). ok is false
// only when overload's argument-type list collides under types.Equal with
// an existing overload in the group (spec.md §3.4's pairwise-distinct
// invariant).
func (r *Resolver) DeclareOverload(typesIn *types.Interner, name source.StringID, span source.Span, overload Overload) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID, false
	}
	for _, symID := range scope.NameIndex[name] {
		sym := r.table.Symbols.Get(symID)
		if sym == nil {
			continue
		}
		if sym.Kind != SymFunctionGroup {
			r.reportDuplicate(name, span, sym.Span)
			return NoSymbolID, false
		}
		for _, existing := range sym.FuncGroup.Overloads {
			if overloadsEqual(typesIn, existing.ArgTypes, overload.ArgTypes) {
				r.reportDuplicate(name, span, sym.Span)
				return NoSymbolID, false
			}
		}
		sym.FuncGroup.Overloads = append(sym.FuncGroup.Overloads, overload)
		return symID, true
	}
	sym := Symbol{
		Name: name, Kind: SymFunctionGroup, Scope: scopeID, Span: span,
		FuncGroup: FunctionGroupData{Overloads: []Overload{overload}},
	}
	id := r.table.Symbols.New(sym)
	scope.Symbols = append(scope.Symbols, id)
	scope.NameIndex[name] = append(scope.NameIndex[name], id)
	return id, true
}

func overloadsEqual(typesIn *types.Interner, a, b []types.TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !typesIn.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// LookupLexical implements the unqualified resolution order of spec.md
// §4.2 step 1: innermost lexical scope outward to the function's top scope,
// then the current file's module table. imports is the set of module
// scopes visible via `import`, consulted only once the lexical chain is
// exhausted (step 2/3); ambiguity across more than one import is reported.
func (r *Resolver) LookupLexical(name source.StringID, imports []ScopeID) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	for scopeID.IsValid() {
		scope := r.table.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		if ids := scope.NameIndex[name]; len(ids) > 0 {
			return ids[len(ids)-1], true
		}
		scopeID = scope.Parent
	}
	return r.lookupImports(name, imports, source.Span{})
}

func (r *Resolver) lookupImports(name source.StringID, imports []ScopeID, site source.Span) (SymbolID, bool) {
	var found SymbolID
	var fromModules []ScopeID
	for _, imp := range imports {
		scope := r.table.Scopes.Get(imp)
		if scope == nil {
			continue
		}
		ids := scope.NameIndex[name]
		if len(ids) == 0 {
			continue
		}
		found = ids[len(ids)-1]
		fromModules = append(fromModules, imp)
	}
	if len(fromModules) > 1 {
		r.reportAmbiguous(name, site, fromModules)
		return NoSymbolID, false
	}
	return found, found.IsValid()
}

// LookupInScope looks up name declared directly within scope (no parent
// walk), used for qualified names `Module::name` and member lookups.
func (r *Resolver) LookupInScope(scope ScopeID, name source.StringID) (SymbolID, bool) {
	s := r.table.Scopes.Get(scope)
	if s == nil {
		return NoSymbolID, false
	}
	ids := s.NameIndex[name]
	if len(ids) == 0 {
		return NoSymbolID, false
	}
	return ids[len(ids)-1], true
}

func (r *Resolver) reportDuplicate(name source.StringID, span, prevSpan source.Span) {
	if r.reporter == nil {
		return
	}
	nameStr := r.table.Strings.MustLookup(name)
	r.reporter.Report(diag.ResDuplicateDefinition, diag.SevError, span,
		fmt.Sprintf("duplicate declaration of '%s'", nameStr),
		[]diag.Note{{Span: prevSpan, Msg: "previous declaration here"}})
}

func (r *Resolver) reportAmbiguous(name source.StringID, span source.Span, modules []ScopeID) {
	if r.reporter == nil {
		return
	}
	nameStr := r.table.Strings.MustLookup(name)
	notes := make([]diag.Note, 0, len(modules))
	for _, m := range modules {
		if scope := r.table.Scopes.Get(m); scope != nil {
			notes = append(notes, diag.Note{Span: scope.Span, Msg: "candidate module here"})
		}
	}
	r.reporter.Report(diag.ResAmbiguousIdent, diag.SevError, span,
		fmt.Sprintf("ambiguous reference to '%s': visible in %d imported modules", nameStr, len(modules)), notes)
}
