package check

import (
	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/token"
	"vane/internal/types"
)

// checkStmt walks a statement tree, type-checking every expression it
// contains and its own structural requirements (a condition must be bool,
// a return value must match the enclosing function's declared type, and so
// on). It never returns a type; statements have none.
func (c *Checker) checkStmt(id ast.StmtID) {
	if !id.IsValid() {
		return
	}
	stmt := c.prog.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtCompound:
		data, _ := c.prog.Stmts.Compound(id)
		for _, child := range data.Stmts {
			c.checkStmt(child)
		}

	case ast.StmtIf:
		data, _ := c.prog.Stmts.If(id)
		c.checkCondition(id, data.Cond)
		c.checkStmt(data.Then)
		if data.Else.IsValid() {
			c.checkStmt(data.Else)
		}

	case ast.StmtWhile:
		data, _ := c.prog.Stmts.While(id)
		c.checkCondition(id, data.Cond)
		c.checkStmt(data.Body)

	case ast.StmtDoWhile:
		data, _ := c.prog.Stmts.DoWhile(id)
		c.checkStmt(data.Body)
		c.checkCondition(id, data.Cond)

	case ast.StmtFor:
		data, _ := c.prog.Stmts.For(id)
		if data.Init.IsValid() {
			c.checkStmt(data.Init)
		}
		if data.Cond.IsValid() {
			c.checkCondition(id, data.Cond)
		}
		if data.Update.IsValid() {
			c.checkExpr(data.Update)
		}
		c.checkStmt(data.Body)

	case ast.StmtSwitch:
		data, _ := c.prog.Stmts.Switch(id)
		scrutType := c.checkExpr(data.Scrutinee)
		prevScrutinee := c.switchScrutinee
		c.switchScrutinee = scrutType
		for _, cs := range data.Cases {
			c.checkStmt(cs)
		}
		if data.Default.IsValid() {
			c.checkStmt(data.Default)
		}
		c.switchScrutinee = prevScrutinee

	case ast.StmtSwitchCase:
		data, _ := c.prog.Stmts.SwitchCase(id)
		for _, v := range data.Values {
			vt := c.checkExpr(v)
			if vt != types.NoTypeID && c.switchScrutinee != types.NoTypeID &&
				!c.prog.Types.ImplicitlyConvertible(vt, c.switchScrutinee) {
				c.errorf(v, diag.TypeNotConvertible, "case value is not convertible to the switch scrutinee's type")
			}
		}
		for _, b := range data.Body {
			c.checkStmt(b)
		}

	case ast.StmtSwitchDefault:
		data, _ := c.prog.Stmts.SwitchDefault(id)
		for _, b := range data.Body {
			c.checkStmt(b)
		}

	case ast.StmtReturn:
		data, _ := c.prog.Stmts.Return(id)
		c.checkReturn(id, data)

	case ast.StmtExpr:
		data, _ := c.prog.Stmts.Expr(id)
		c.checkExpr(data.Expr)

	case ast.StmtVarDecl:
		data, _ := c.prog.Stmts.VarDecl(id)
		c.checkVarInitializers(data.Names, data.Initializers)

	case ast.StmtBreak, ast.StmtContinue, ast.StmtNull, ast.StmtAsm:
		// nothing to type-check
	}
}

func (c *Checker) checkCondition(stmtID ast.StmtID, cond ast.ExprID) {
	condType := c.checkExpr(cond)
	boolT := c.prog.Types.Keyword(token.KwBool)
	if !c.prog.Types.Equal(condType, boolT) {
		c.stmtErrorf(stmtID, diag.TypeNonBoolCondition, "condition must be bool")
	}
}

// checkReturn matches spec.md §4.3's return rule: a value-less return is
// only legal in a void function, and a value-carrying return's value must
// be implicitly convertible to the function's declared return type.
func (c *Checker) checkReturn(id ast.StmtID, data *ast.ReturnStmtData) {
	isVoid := c.currentReturn == types.NoTypeID || c.isVoidType(c.currentReturn)
	if data.Value.IsValid() {
		valType := c.checkExpr(data.Value)
		if isVoid {
			c.stmtErrorf(id, diag.TypeNotConvertible, "cannot return a value from a void function")
			return
		}
		if valType != types.NoTypeID && c.currentReturn != types.NoTypeID &&
			!c.convertibleForInit(valType, c.currentReturn, data.Value) {
			c.stmtErrorf(id, diag.TypeNotConvertible, "returned value is not convertible to the function's return type")
		}
		return
	}
	if !isVoid {
		c.stmtErrorf(id, diag.TypeNotConvertible, "missing return value in a non-void function")
	}
}

func (c *Checker) isVoidType(t types.TypeID) bool {
	kw, ok := c.prog.Types.KeywordOf(c.prog.Types.Unqualified(t))
	return ok && kw.Keyword == token.KwVoid
}
