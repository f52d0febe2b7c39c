package symbols

import (
	"fmt"

	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/source"
)

// ref converts a resolved SymbolID into the opaque handle ast.Identifier
// carries, mirroring SymbolID.EntryRef's numeric-identity bridge.
func (id SymbolID) ref() ast.SymbolRef { return ast.SymbolRef(id) }

func (p *Program) resolveImports(res *Resolver, u FileUnit) {
	for i := range u.File.Imports {
		imp := &u.File.Imports[i]
		scope, ok := p.Modules[imp.Id.Name]
		if !ok {
			if p.Reporter != nil {
				name := p.Strings.MustLookup(imp.Id.Name)
				p.Reporter.Report(diag.ResUnknownModule, diag.SevError, imp.Span,
					fmt.Sprintf("unknown module '%s'", name), nil)
			}
			continue
		}
		imp.Resolved = ast.ScopeRef(scope)
	}
}

// bodyWalker walks one file's function bodies, building nested scopes and
// resolving every identifier and type reference against them (spec.md
// §4.2 Pass B).
type bodyWalker struct {
	p       *Program
	res     *Resolver
	imports []ScopeID
	tr      *typeResolver
}

func (p *Program) walkFunctionBodies(res *Resolver, u FileUnit) {
	imports := make([]ScopeID, 0, len(u.File.Imports))
	for _, imp := range u.File.Imports {
		if imp.Resolved != ast.NoScopeRef {
			imports = append(imports, ScopeID(imp.Resolved))
		}
	}
	w := &bodyWalker{
		p:       p,
		res:     res,
		imports: imports,
		tr: &typeResolver{
			res: res, typeSyns: p.TypeSyns, exprs: p.Exprs, typesIn: p.Types,
			reporter: p.Reporter, imports: imports, modules: p.Modules,
		},
	}

	moduleScope := ScopeID(u.File.Scope)
	res.EnterExisting(moduleScope)
	defer res.Leave()

	for _, itemID := range u.File.Items {
		item := p.Items.Get(itemID)
		if item == nil || item.Kind != ast.ItemFunctionDefn {
			continue
		}
		data, _ := p.Items.FunctionDefn(itemID)
		w.walkFunction(itemID, data)
	}
}

func (w *bodyWalker) walkFunction(itemID ast.ItemID, data *ast.FunctionDefnData) {
	fnScope := w.res.Enter(ScopeFunction, ScopeOwner{Kind: ScopeOwnerItem, Item: itemID}, data.Name.Span)
	defer w.res.Leave()
	data.LocalScope = ast.ScopeRef(fnScope)

	for i, argType := range data.ArgTypes {
		if i >= len(data.ArgNames) {
			break
		}
		name := data.ArgNames[i]
		if name.Name == 0 {
			continue
		}
		resolved := w.tr.Resolve(argType)
		w.res.Declare(name.Name, name.Span, SymVariable, func(s *Symbol) {
			s.Variable = VariableData{Type: resolved}
		})
	}
	for _, def := range data.ArgDefaults {
		if def.IsValid() {
			w.resolveExpr(def)
		}
	}

	if data.Body.IsValid() {
		w.walkStmt(data.Body)
	}
}

// walkStmt resolves the identifiers/types inside one statement and, for
// compound/for/switch statements, enters and records their nested scope.
func (w *bodyWalker) walkStmt(id ast.StmtID) {
	if !id.IsValid() {
		return
	}
	stmt := w.p.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtCompound:
		data, _ := w.p.Stmts.Compound(id)
		scope := w.res.Enter(ScopeBlock, ScopeOwner{Kind: ScopeOwnerStmt, Stmt: id}, stmt.Span)
		data.Scope = ast.ScopeRef(scope)
		for _, child := range data.Stmts {
			w.walkStmt(child)
		}
		w.res.Leave()

	case ast.StmtIf:
		data, _ := w.p.Stmts.If(id)
		w.resolveExpr(data.Cond)
		w.walkStmt(data.Then)
		if data.Else.IsValid() {
			w.walkStmt(data.Else)
		}

	case ast.StmtWhile:
		data, _ := w.p.Stmts.While(id)
		w.resolveExpr(data.Cond)
		w.walkStmt(data.Body)

	case ast.StmtDoWhile:
		data, _ := w.p.Stmts.DoWhile(id)
		w.walkStmt(data.Body)
		w.resolveExpr(data.Cond)

	case ast.StmtFor:
		data, _ := w.p.Stmts.For(id)
		scope := w.res.Enter(ScopeBlock, ScopeOwner{Kind: ScopeOwnerStmt, Stmt: id}, stmt.Span)
		data.Scope = ast.ScopeRef(scope)
		if data.Init.IsValid() {
			w.walkStmt(data.Init)
		}
		if data.Cond.IsValid() {
			w.resolveExpr(data.Cond)
		}
		if data.Update.IsValid() {
			w.resolveExpr(data.Update)
		}
		w.walkStmt(data.Body)
		w.res.Leave()

	case ast.StmtSwitch:
		data, _ := w.p.Stmts.Switch(id)
		scope := w.res.Enter(ScopeBlock, ScopeOwner{Kind: ScopeOwnerStmt, Stmt: id}, stmt.Span)
		data.Scope = ast.ScopeRef(scope)
		w.resolveExpr(data.Scrutinee)
		for _, c := range data.Cases {
			w.walkStmt(c)
		}
		if data.Default.IsValid() {
			w.walkStmt(data.Default)
		}
		w.res.Leave()

	case ast.StmtSwitchCase:
		data, _ := w.p.Stmts.SwitchCase(id)
		for _, v := range data.Values {
			w.resolveExpr(v)
		}
		for _, b := range data.Body {
			w.walkStmt(b)
		}

	case ast.StmtSwitchDefault:
		data, _ := w.p.Stmts.SwitchDefault(id)
		for _, b := range data.Body {
			w.walkStmt(b)
		}

	case ast.StmtReturn:
		data, _ := w.p.Stmts.Return(id)
		if data.Value.IsValid() {
			w.resolveExpr(data.Value)
		}

	case ast.StmtExpr:
		data, _ := w.p.Stmts.Expr(id)
		w.resolveExpr(data.Expr)

	case ast.StmtVarDecl:
		data, _ := w.p.Stmts.VarDecl(id)
		resolved := w.tr.Resolve(data.Type)
		for i := range data.Names {
			name := &data.Names[i]
			if symID, ok := w.res.Declare(name.Name, name.Span, SymVariable, func(s *Symbol) {
				s.Variable = VariableData{Type: resolved}
			}); ok {
				name.Resolved = symID.ref()
			}
			if i < len(data.Initializers) && data.Initializers[i].IsValid() {
				w.resolveExpr(data.Initializers[i])
			}
		}

	case ast.StmtBreak, ast.StmtContinue, ast.StmtNull, ast.StmtAsm:
		// no identifiers to resolve
	}
}

// resolveIdentSymbol resolves a value-position ScopedId (variable or
// function group), unlike typeResolver.lookupScopedType which additionally
// requires the result to be a TypeDefinition.
//
// A two-segment name is ambiguous between "Module::name" and "EnumType::
// constant" (spec.md §4.2: "a two-segment prefix may also name an enum type
// inside a module"); the module interpretation is tried first since module
// names and enum names share no namespace, so nothing is lost by checking
// module membership before falling back to the enum-constant case.
func (w *bodyWalker) resolveIdentSymbol(name ast.ScopedId) (SymbolID, bool) {
	if name.Simple() {
		return w.res.LookupLexical(name.Segments[0].Name, w.imports)
	}
	last := name.Segments[len(name.Segments)-1]
	if moduleScope, ok := w.p.Modules[name.Segments[0].Name]; ok {
		if symID, ok := w.res.LookupInScope(moduleScope, last.Name); ok {
			return symID, true
		}
	}
	if len(name.Segments) == 2 {
		if enumID, ok := w.res.LookupLexical(name.Segments[0].Name, w.imports); ok {
			if sym := w.p.Table.Symbols.Get(enumID); sym != nil && sym.Kind == SymEnum {
				if enumHasConstant(sym, last.Name) {
					return enumID, true
				}
			}
		}
	}
	return NoSymbolID, false
}

// enumHasConstant reports whether name is one of sym's enum constants.
func enumHasConstant(sym *Symbol, name source.StringID) bool {
	for _, c := range sym.Enum.ConstantNames {
		if c == name {
			return true
		}
	}
	return false
}

func (w *bodyWalker) resolveExpr(id ast.ExprID) {
	if !id.IsValid() {
		return
	}
	node := w.p.Exprs.Get(id)
	if node == nil {
		return
	}
	switch node.Kind {
	case ast.ExprIdent:
		data, _ := w.p.Exprs.Ident(id)
		if symID, ok := w.resolveIdentSymbol(data.Name); ok {
			last := len(data.Name.Segments) - 1
			data.Name.Segments[last].Resolved = symID.ref()
		} else if w.p.Reporter != nil {
			last := data.Name.Segments[len(data.Name.Segments)-1]
			name := w.p.Strings.MustLookup(last.Name)
			w.p.Reporter.Report(diag.ResUndefinedIdent, diag.SevError, node.Span,
				fmt.Sprintf("use of undeclared identifier '%s'", name), nil)
		}

	case ast.ExprLiteral:
		// nothing to resolve

	case ast.ExprSequence:
		data, _ := w.p.Exprs.Sequence(id)
		for _, e := range data.Elements {
			w.resolveExpr(e)
		}

	case ast.ExprBinary:
		data, _ := w.p.Exprs.Binary(id)
		w.resolveExpr(data.Left)
		w.resolveExpr(data.Right)

	case ast.ExprUnary:
		data, _ := w.p.Exprs.Unary(id)
		w.resolveExpr(data.Operand)

	case ast.ExprComparison:
		data, _ := w.p.Exprs.Comparison(id)
		w.resolveExpr(data.Left)
		w.resolveExpr(data.Right)

	case ast.ExprLogical:
		data, _ := w.p.Exprs.Logical(id)
		w.resolveExpr(data.Left)
		w.resolveExpr(data.Right)

	case ast.ExprTernary:
		data, _ := w.p.Exprs.Ternary(id)
		w.resolveExpr(data.Cond)
		w.resolveExpr(data.Then)
		w.resolveExpr(data.Else)

	case ast.ExprMember:
		data, _ := w.p.Exprs.Member(id)
		w.resolveExpr(data.Target) // .Field is resolved against the target's struct/union by the checker

	case ast.ExprIndex:
		data, _ := w.p.Exprs.Index(id)
		w.resolveExpr(data.Array)
		w.resolveExpr(data.Index)

	case ast.ExprCall:
		data, _ := w.p.Exprs.Call(id)
		w.resolveExpr(data.Callee)
		for _, a := range data.Args {
			w.resolveExpr(a)
		}

	case ast.ExprAggregateInit:
		data, _ := w.p.Exprs.AggregateInit(id)
		if data.Type.IsValid() {
			w.tr.Resolve(data.Type)
		}
		for _, e := range data.Elements {
			w.resolveExpr(e)
		}

	case ast.ExprCast:
		data, _ := w.p.Exprs.Cast(id)
		w.tr.Resolve(data.Target)
		w.resolveExpr(data.Value)

	case ast.ExprSizeofType:
		data, _ := w.p.Exprs.SizeofType(id)
		w.tr.Resolve(data.Target)

	case ast.ExprSizeofExpr:
		data, _ := w.p.Exprs.SizeofExpr(id)
		w.resolveExpr(data.Operand)
	}
}
