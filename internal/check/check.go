// Package check implements the type checker (spec.md §4.3): it walks every
// function body and every top-level/local variable initializer that name
// resolution (internal/symbols) has already linked to concrete symbols, and
// annotates each expression with its ast.Expr.ResultType. It reports a type
// error wherever an operand, assignment, call, or condition violates the
// implicit-convertibility rules internal/types implements.
package check

import (
	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/symbols"
	"vane/internal/types"
)

// Options configures one run of the checker over a Program.
type Options struct {
	Reporter diag.Reporter
	// PtrSize is the target's pointer width in bytes, needed for sizeof and
	// for struct/array layout queries (spec.md §6.1: "pointer <= long").
	PtrSize int
}

// Checker carries the shared state every per-expression/per-statement
// helper in this package consults.
type Checker struct {
	prog     *symbols.Program
	reporter diag.Reporter
	ptrSize  int

	// currentReturn is the enclosing function's declared return type, used
	// by return-statement checking; types.NoTypeID outside any function.
	currentReturn types.TypeID

	// switchScrutinee is the type case values are checked against while
	// walking a switch's cases; types.NoTypeID outside any switch.
	switchScrutinee types.TypeID
}

func (c *Checker) errorf(id ast.ExprID, code diag.Code, format string, args ...any) {
	diag.Errorf(c.reporter, code, c.prog.Exprs.Get(id).Span, format, args...)
}

func (c *Checker) stmtErrorf(id ast.StmtID, code diag.Code, format string, args ...any) {
	diag.Errorf(c.reporter, code, c.prog.Stmts.Get(id).Span, format, args...)
}

// Check type-checks every function body and variable initializer in prog.
func Check(prog *symbols.Program, opts Options) {
	ptrSize := opts.PtrSize
	if ptrSize == 0 {
		ptrSize = 8
	}
	c := &Checker{prog: prog, reporter: opts.Reporter, ptrSize: ptrSize}
	c.run()
}

func (c *Checker) run() {
	for _, unit := range c.prog.Units {
		for _, itemID := range unit.File.Items {
			c.checkItem(itemID)
		}
	}
}

func (c *Checker) checkItem(itemID ast.ItemID) {
	item := c.prog.Items.Get(itemID)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemVar:
		data, _ := c.prog.Items.Var(itemID)
		c.checkVarInitializers(data.Names, data.Initializers)

	case ast.ItemFunctionDefn:
		data, _ := c.prog.Items.FunctionDefn(itemID)
		c.checkFunctionBody(itemID, data)
	}
}

// checkVarInitializers validates that each present initializer is
// implicitly convertible to its declared name's resolved type (spec.md
// §4.3's variable-declaration rule), shared by top-level ItemVar and
// statement-position StmtVarDecl.
func (c *Checker) checkVarInitializers(names []ast.Identifier, inits []ast.ExprID) {
	for i, name := range names {
		declType := c.declaredType(name)
		if i >= len(inits) || !inits[i].IsValid() {
			continue
		}
		init := inits[i]
		initType := c.checkExpr(init)
		if declType == types.NoTypeID || initType == types.NoTypeID {
			continue
		}
		if !c.convertibleForInit(initType, declType, init) {
			span := c.prog.Exprs.Get(init).Span
			diag.Errorf(c.reporter, diag.TypeNotConvertible, span,
				"cannot initialize variable of this type from an incompatible value")
		}
	}
}

// declaredType recovers the type name resolution already stored for a
// declared variable name, via the Resolved backlink resolve_pass_a.go's
// completeVar and resolve_pass_b.go's StmtVarDecl case write.
func (c *Checker) declaredType(name ast.Identifier) types.TypeID {
	symID := symbols.FromSymbolRef(name.Resolved)
	sym := c.prog.Table.Symbols.Get(symID)
	if sym == nil {
		return types.NoTypeID
	}
	return sym.Variable.Type
}

func (c *Checker) checkFunctionBody(itemID ast.ItemID, data *ast.FunctionDefnData) {
	retType := types.NoTypeID
	if moduleScope, ok := c.enclosingModule(data.LocalScope); ok {
		if ov, ok := c.prog.OverloadFor(moduleScope, data.Name.Name, itemID); ok {
			retType = ov.ReturnType
		}
	}
	prevReturn := c.currentReturn
	c.currentReturn = retType
	defer func() { c.currentReturn = prevReturn }()

	for _, def := range data.ArgDefaults {
		if def.IsValid() {
			c.checkExpr(def)
		}
	}
	if data.Body.IsValid() {
		c.checkStmt(data.Body)
	}
}

// enclosingModule walks a function's local scope up to its owning module
// scope, needed to look up the function's own resolved Overload.
func (c *Checker) enclosingModule(localScope ast.ScopeRef) (symbols.ScopeID, bool) {
	scope := symbols.ScopeID(localScope)
	for scope.IsValid() {
		s := c.prog.Table.Scopes.Get(scope)
		if s == nil {
			return symbols.NoScopeID, false
		}
		if s.Kind == symbols.ScopeModule {
			return scope, true
		}
		scope = s.Parent
	}
	return symbols.NoScopeID, false
}
