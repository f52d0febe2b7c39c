package symbols

import (
	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/source"
	"vane/internal/token"
	"vane/internal/types"
)

func isConstKw(k token.Kind) bool    { return k == token.KwConst }
func isVolatileKw(k token.Kind) bool { return k == token.KwVolatile }

// typeResolver turns syntactic type nodes into semantic types, looking up
// named references through a Resolver's current scope chain.
type typeResolver struct {
	res      *Resolver
	typeSyns *ast.TypeSyns
	exprs    *ast.Exprs
	typesIn  *types.Interner
	reporter diag.Reporter
	imports  []ScopeID
	modules  map[source.StringID]ScopeID // every module's root scope, for qualified names
}

// Resolve converts a TypeSyn into a types.TypeID (spec.md §3.2's syntactic
// shapes to §3.3's semantic shapes). NoTypeID on failure; the caller is
// expected to have already reported a diagnostic for an unresolved name.
func (tr *typeResolver) Resolve(id ast.TypeSynID) types.TypeID {
	if !id.IsValid() {
		return types.NoTypeID
	}
	node := tr.typeSyns.Get(id)
	if node == nil {
		return types.NoTypeID
	}
	switch node.Kind {
	case ast.TypeSynKeyword:
		kw, _ := tr.typeSyns.Keyword(id)
		return tr.typesIn.Keyword(kw.Keyword)
	case ast.TypeSynQualified:
		q, _ := tr.typeSyns.Qualified(id)
		base := tr.Resolve(q.Base)
		return tr.typesIn.Qualified(base, isConstKw(q.Qualifier), isVolatileKw(q.Qualifier))
	case ast.TypeSynPointer:
		p, _ := tr.typeSyns.Pointer(id)
		return tr.typesIn.Pointer(tr.Resolve(p.Base))
	case ast.TypeSynArray:
		a, _ := tr.typeSyns.Array(id)
		elem := tr.Resolve(a.Element)
		length := tr.evalConstLength(a.Length)
		return tr.typesIn.Array(elem, length)
	case ast.TypeSynFuncPointer:
		f, _ := tr.typeSyns.FuncPointer(id)
		ret := tr.Resolve(f.Return)
		args := make([]types.TypeID, len(f.Params))
		for i, p := range f.Params {
			args[i] = tr.Resolve(p)
		}
		return tr.typesIn.FunPtr(ret, args)
	case ast.TypeSynNamed:
		n, _ := tr.typeSyns.Named(id)
		return tr.resolveNamed(node, n)
	default:
		return types.NoTypeID
	}
}

// resolveNamed looks up n.Name and, once found, writes the resolved symbol
// back onto its last segment (mirroring resolveExpr's ExprIdent backlink)
// so a later pass can recover the same types.TypeID from n.Name.Segments
// without repeating the scope-chain lookup, which needs a live Resolver
// this type itself goes away with.
func (tr *typeResolver) resolveNamed(node *ast.TypeSyn, n *ast.TypeSynNamedData) types.TypeID {
	symID, ok := tr.lookupScopedType(n.Name)
	if !ok {
		if tr.reporter != nil {
			tr.reporter.Report(diag.ResUndefinedIdent, diag.SevError, node.Span,
				"reference to undeclared type", nil)
		}
		return types.NoTypeID
	}
	sym := tr.res.table.Symbols.Get(symID)
	if sym == nil || !sym.Kind.IsTypeDefinition() {
		if tr.reporter != nil {
			tr.reporter.Report(diag.ResUndefinedIdent, diag.SevError, node.Span,
				"name does not refer to a type", nil)
		}
		return types.NoTypeID
	}
	last := len(n.Name.Segments) - 1
	n.Name.Segments[last].Resolved = symID.ref()
	return tr.typesIn.Reference(symID.EntryRef(), sym.Name)
}

func (tr *typeResolver) lookupScopedType(name ast.ScopedId) (SymbolID, bool) {
	if name.Simple() {
		return tr.res.LookupLexical(name.Segments[0].Name, tr.imports)
	}
	// A::B::...::name: the leading segments select a module; vane's module
	// namespace is flat, so only the first segment is meaningful here.
	moduleScope, ok := tr.modules[name.Segments[0].Name]
	if !ok {
		return NoSymbolID, false
	}
	last := name.Segments[len(name.Segments)-1]
	return tr.res.LookupInScope(moduleScope, last.Name)
}

// ReResolveTypeSyn recomputes the types.TypeID for a TypeSyn that Pass B
// already walked once (a cast or sizeof target, never stored anywhere since
// neither expression shape owns a types.TypeID field of its own). It reuses
// the Resolved backlink resolveNamed already wrote rather than performing a
// fresh scope-chain lookup, so it needs no live Resolver or module map.
func (p *Program) ReResolveTypeSyn(id ast.TypeSynID) types.TypeID {
	if !id.IsValid() {
		return types.NoTypeID
	}
	node := p.TypeSyns.Get(id)
	if node == nil {
		return types.NoTypeID
	}
	switch node.Kind {
	case ast.TypeSynKeyword:
		kw, _ := p.TypeSyns.Keyword(id)
		return p.Types.Keyword(kw.Keyword)
	case ast.TypeSynQualified:
		q, _ := p.TypeSyns.Qualified(id)
		base := p.ReResolveTypeSyn(q.Base)
		return p.Types.Qualified(base, isConstKw(q.Qualifier), isVolatileKw(q.Qualifier))
	case ast.TypeSynPointer:
		ptr, _ := p.TypeSyns.Pointer(id)
		return p.Types.Pointer(p.ReResolveTypeSyn(ptr.Base))
	case ast.TypeSynArray:
		a, _ := p.TypeSyns.Array(id)
		elem := p.ReResolveTypeSyn(a.Element)
		tr := &typeResolver{exprs: p.Exprs}
		return p.Types.Array(elem, tr.evalConstLength(a.Length))
	case ast.TypeSynFuncPointer:
		f, _ := p.TypeSyns.FuncPointer(id)
		ret := p.ReResolveTypeSyn(f.Return)
		args := make([]types.TypeID, len(f.Params))
		for i, a := range f.Params {
			args[i] = p.ReResolveTypeSyn(a)
		}
		return p.Types.FunPtr(ret, args)
	case ast.TypeSynNamed:
		n, _ := p.TypeSyns.Named(id)
		last := n.Name.Segments[len(n.Name.Segments)-1]
		symID := FromSymbolRef(last.Resolved)
		sym := p.Table.Symbols.Get(symID)
		if sym == nil {
			return types.NoTypeID
		}
		return p.Types.Reference(symID.EntryRef(), sym.Name)
	default:
		return types.NoTypeID
	}
}

func (tr *typeResolver) evalConstLength(id ast.ExprID) uint64 {
	lit, ok := tr.exprs.Literal(id)
	if ok && lit.Kind == ast.LitInt {
		return lit.IntVal
	}
	if unary, ok := tr.exprs.Unary(id); ok && unary.Op == ast.UnNeg {
		// Array lengths are never negative; this only ever occurs in a
		// malformed program the checker will separately flag.
		return 0
	}
	return 0
}
