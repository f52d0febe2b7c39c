package check

import (
	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/symbols"
	"vane/internal/token"
	"vane/internal/types"
)

// compoundBase maps a compound-assignment operator to the arithmetic/
// bitwise/shift operator it performs before assigning back (spec.md §6.3).
var compoundBase = map[ast.BinaryOp]ast.BinaryOp{
	ast.OpAddAssign: ast.OpAdd,
	ast.OpSubAssign: ast.OpSub,
	ast.OpMulAssign: ast.OpMul,
	ast.OpDivAssign: ast.OpDiv,
	ast.OpModAssign: ast.OpMod,
	ast.OpShlAssign: ast.OpShl,
	ast.OpShrAssign: ast.OpShr,
	ast.OpAndAssign: ast.OpBitAnd,
	ast.OpOrAssign:  ast.OpBitOr,
	ast.OpXorAssign: ast.OpBitXor,
}

// checkExpr types id per spec.md §4.3's per-expression rules, recording the
// result on the node itself (the translator reads ResultType back later)
// and returns it so callers (assignment, call, initializer checks) can
// consult it without a second lookup.
func (c *Checker) checkExpr(id ast.ExprID) types.TypeID {
	if !id.IsValid() {
		return types.NoTypeID
	}
	node := c.prog.Exprs.Get(id)
	if node == nil {
		return types.NoTypeID
	}
	var t types.TypeID
	switch node.Kind {
	case ast.ExprIdent:
		t = c.checkIdent(id)
	case ast.ExprLiteral:
		lit, _ := c.prog.Exprs.Literal(id)
		t = c.literalType(id, lit)
	case ast.ExprSequence:
		t = c.checkSequence(id)
	case ast.ExprBinary:
		t = c.checkBinary(id)
	case ast.ExprUnary:
		t = c.checkUnary(id)
	case ast.ExprComparison:
		t = c.checkComparison(id)
	case ast.ExprLogical:
		t = c.checkLogical(id)
	case ast.ExprTernary:
		t = c.checkTernary(id)
	case ast.ExprMember:
		t = c.checkMember(id)
	case ast.ExprIndex:
		t = c.checkIndex(id)
	case ast.ExprCall:
		t = c.checkCall(id)
	case ast.ExprAggregateInit:
		t = c.checkAggregateInit(id)
	case ast.ExprCast:
		t = c.checkCast(id)
	case ast.ExprSizeofType:
		t = c.checkSizeofType()
	case ast.ExprSizeofExpr:
		t = c.checkSizeofExpr(id)
	default:
		t = types.NoTypeID
	}
	c.prog.Exprs.SetResultType(id, t)
	return t
}

// checkIdent types a name reference by reading the SymbolID resolution
// already wrote onto its last path segment (resolve_pass_b.go's
// resolveExpr), never by re-doing a scope lookup.
func (c *Checker) checkIdent(id ast.ExprID) types.TypeID {
	data, _ := c.prog.Exprs.Ident(id)
	last := data.Name.Segments[len(data.Name.Segments)-1]
	symID := symbols.FromSymbolRef(last.Resolved)
	sym := c.prog.Table.Symbols.Get(symID)
	if sym == nil {
		return types.NoTypeID
	}
	switch sym.Kind {
	case symbols.SymVariable:
		return sym.Variable.Type
	case symbols.SymFunctionGroup:
		if len(sym.FuncGroup.Overloads) == 1 {
			ov := sym.FuncGroup.Overloads[0]
			return c.prog.Types.FunPtr(ov.ReturnType, ov.ArgTypes)
		}
		c.errorf(id, diag.TypeAmbiguousOverload, "an overloaded function name has no single type; call it or take a specific overload")
		return types.NoTypeID
	case symbols.SymEnum:
		// Two-segment EnumType::Constant reference (resolve_pass_b.go's
		// enum special case). Enum constants carry no distinct type beyond
		// their stored int64 value, so they type as plain int.
		return c.prog.Types.Keyword(token.KwInt)
	default:
		c.errorf(id, diag.TypeNotConvertible, "a type name cannot be used as a value here")
		return types.NoTypeID
	}
}

func (c *Checker) checkSequence(id ast.ExprID) types.TypeID {
	data, _ := c.prog.Exprs.Sequence(id)
	last := types.NoTypeID
	for _, e := range data.Elements {
		last = c.checkExpr(e)
	}
	return last
}

func (c *Checker) checkBinary(id ast.ExprID) types.TypeID {
	data, _ := c.prog.Exprs.Binary(id)
	switch data.Op {
	case ast.OpAssign:
		return c.checkAssign(id, data)
	default:
		if base, ok := compoundBase[data.Op]; ok {
			return c.checkCompoundAssign(id, data, base)
		}
		l := c.checkExpr(data.Left)
		r := c.checkExpr(data.Right)
		return c.binaryOpResultType(id, data.Op, l, r)
	}
}

func (c *Checker) checkAssign(id ast.ExprID, data *ast.ExprBinaryData) types.TypeID {
	if !c.isAssignable(data.Left) {
		c.errorf(id, diag.TypeNotAssignable, "left side of assignment is not an assignable location")
	}
	leftType := c.checkExpr(data.Left)
	rightType := c.checkExpr(data.Right)
	if leftType != types.NoTypeID && rightType != types.NoTypeID && !c.convertibleForInit(rightType, leftType, data.Right) {
		c.errorf(id, diag.TypeNotConvertible, "right side of assignment is not implicitly convertible to the left side's type")
	}
	return leftType
}

// checkCompoundAssign treats `x op= y` as `x = x op y` assigned back to x's
// own type (spec.md §6.3's compound-assignment operators).
func (c *Checker) checkCompoundAssign(id ast.ExprID, data *ast.ExprBinaryData, baseOp ast.BinaryOp) types.TypeID {
	if !c.isAssignable(data.Left) {
		c.errorf(id, diag.TypeNotAssignable, "left side of compound assignment is not an assignable location")
	}
	leftType := c.checkExpr(data.Left)
	rightType := c.checkExpr(data.Right)
	resultType := c.binaryOpResultType(id, baseOp, leftType, rightType)
	if resultType != types.NoTypeID && leftType != types.NoTypeID && !c.prog.Types.ImplicitlyConvertible(resultType, leftType) {
		c.errorf(id, diag.TypeNotConvertible, "compound assignment result is not convertible back to the left operand's type")
	}
	return leftType
}

// binaryOpResultType types the non-assigning arithmetic/bitwise/shift
// operators (spec.md §4.3: arithmetic requires numeric operands and widens
// to their common type; bitwise requires integer operands of equal width
// after that same promotion; shift's result is the left operand's type).
func (c *Checker) binaryOpResultType(id ast.ExprID, op ast.BinaryOp, l, r types.TypeID) types.TypeID {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		ct, ok := c.commonType(l, r)
		if !ok {
			c.errorf(id, diag.TypeNotConvertible, "arithmetic operator requires numeric operands")
			return types.NoTypeID
		}
		return ct
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
		ct, ok := c.commonType(l, r)
		if !ok || !c.isIntegerType(ct) {
			c.errorf(id, diag.TypeNotConvertible, "bitwise operator requires integer operands")
			return types.NoTypeID
		}
		return ct
	case ast.OpShl, ast.OpShr:
		if !c.isIntegerType(l) || !c.isIntegerType(r) {
			c.errorf(id, diag.TypeNotConvertible, "shift operator requires integer operands")
			return types.NoTypeID
		}
		return l
	default:
		return types.NoTypeID
	}
}

func (c *Checker) checkComparison(id ast.ExprID) types.TypeID {
	data, _ := c.prog.Exprs.Comparison(id)
	l := c.checkExpr(data.Left)
	r := c.checkExpr(data.Right)
	if _, ok := c.commonType(l, r); !ok {
		c.errorf(id, diag.TypeNotConvertible, "comparison operands are not pairwise convertible")
	}
	if data.Op == ast.CmpSpaceship {
		return c.prog.Types.Keyword(token.KwByte)
	}
	return c.prog.Types.Keyword(token.KwBool)
}

// checkLogical implements spec.md's "&&/|| require bool operands" rule,
// including their assigning forms (&&=, ||=), which additionally require an
// assignable bool-typed left side.
func (c *Checker) checkLogical(id ast.ExprID) types.TypeID {
	data, _ := c.prog.Exprs.Logical(id)
	boolT := c.prog.Types.Keyword(token.KwBool)
	l := c.checkExpr(data.Left)
	r := c.checkExpr(data.Right)
	if !c.prog.Types.Equal(l, boolT) || !c.prog.Types.Equal(r, boolT) {
		c.errorf(id, diag.TypeNotConvertible, "logical operator requires bool operands")
	}
	if data.Op == ast.LogAndAssign || data.Op == ast.LogOrAssign {
		if !c.isAssignable(data.Left) {
			c.errorf(id, diag.TypeNotAssignable, "left side of assigning logical operator is not an assignable location")
		}
	}
	return boolT
}

// checkUnary covers the operators the per-expression rule list omits
// (negation, logical/bitwise not, dereference, address-of, increment and
// decrement); the grammar and existing type-algebra helpers clearly
// anticipate all of them, so each is typed by the same convertibility rules
// the listed operators use.
func (c *Checker) checkUnary(id ast.ExprID) types.TypeID {
	data, _ := c.prog.Exprs.Unary(id)
	in := c.prog.Types
	operandType := c.checkExpr(data.Operand)
	switch data.Op {
	case ast.UnNeg:
		if !c.isNumericType(operandType) {
			c.errorf(id, diag.TypeNotConvertible, "unary '-' requires a numeric operand")
		}
		return operandType
	case ast.UnNot:
		boolT := in.Keyword(token.KwBool)
		if !in.Equal(operandType, boolT) {
			c.errorf(id, diag.TypeNotConvertible, "'!' requires a bool operand")
		}
		return boolT
	case ast.UnBitNot:
		if !c.isIntegerType(operandType) {
			c.errorf(id, diag.TypeNotConvertible, "'~' requires an integer operand")
		}
		return operandType
	case ast.UnDeref:
		p, ok := in.PointerOf(in.Unqualified(operandType))
		if !ok {
			c.errorf(id, diag.TypeNotConvertible, "'*' requires a pointer operand")
			return types.NoTypeID
		}
		return p.Base
	case ast.UnAddr:
		if !c.isAssignable(data.Operand) {
			c.errorf(id, diag.TypeNotAssignable, "'&' requires an assignable operand")
		}
		return in.Pointer(operandType)
	case ast.UnPreInc, ast.UnPreDec, ast.UnPostInc, ast.UnPostDec:
		if !c.isAssignable(data.Operand) {
			c.errorf(id, diag.TypeNotAssignable, "increment/decrement requires an assignable operand")
		}
		if _, isPtr := in.PointerOf(in.Unqualified(operandType)); !isPtr && !c.isIntegerType(operandType) {
			c.errorf(id, diag.TypeNotConvertible, "increment/decrement requires an integer or pointer operand")
		}
		return operandType
	default:
		return types.NoTypeID
	}
}

// checkTernary types `cond ? then : else`: the condition must be bool, and
// the branches follow the same pairwise-convertibility rule comparisons
// use, picking whichever branch type the other one converts into.
func (c *Checker) checkTernary(id ast.ExprID) types.TypeID {
	data, _ := c.prog.Exprs.Ternary(id)
	in := c.prog.Types
	boolT := in.Keyword(token.KwBool)
	condType := c.checkExpr(data.Cond)
	if !in.Equal(condType, boolT) {
		c.errorf(id, diag.TypeNonBoolCondition, "ternary condition must be bool")
	}
	thenType := c.checkExpr(data.Then)
	elseType := c.checkExpr(data.Else)
	if in.Equal(thenType, elseType) {
		return thenType
	}
	if in.ImplicitlyConvertible(elseType, thenType) {
		return thenType
	}
	if in.ImplicitlyConvertible(thenType, elseType) {
		return elseType
	}
	if ct, ok := c.commonType(thenType, elseType); ok {
		return ct
	}
	c.errorf(id, diag.TypeNotConvertible, "ternary branches have incompatible types")
	return thenType
}

// checkMember types `.`/`->` field access against the target's struct or
// union symbol, dereferencing through a pointer for the arrow form.
func (c *Checker) checkMember(id ast.ExprID) types.TypeID {
	data, _ := c.prog.Exprs.Member(id)
	in := c.prog.Types
	targetType := c.checkExpr(data.Target)
	base := targetType
	if data.Arrow {
		p, ok := in.PointerOf(in.Unqualified(targetType))
		if !ok {
			c.errorf(id, diag.TypeNotConvertible, "'->' requires a pointer operand")
			return types.NoTypeID
		}
		base = p.Base
	}
	sym := c.structSymbolFor(in.Unqualified(base))
	if sym == nil || (sym.Kind != symbols.SymStruct && sym.Kind != symbols.SymUnion) {
		c.errorf(id, diag.TypeNotConvertible, "member access requires a struct or union operand")
		return types.NoTypeID
	}
	names, fieldTypes := sym.Struct.FieldNames, sym.Struct.FieldTypes
	if sym.Kind == symbols.SymUnion {
		names, fieldTypes = sym.Union.OptionNames, sym.Union.OptionTypes
	}
	for i, n := range names {
		if n == data.Field {
			return fieldTypes[i]
		}
	}
	c.errorf(id, diag.TypeNotConvertible, "no such member")
	return types.NoTypeID
}

// checkIndex types `a[i]` (spec.md line 212's array subscript): the array
// side is an array or pointer, the index is an integer, and the result is
// the element type.
func (c *Checker) checkIndex(id ast.ExprID) types.TypeID {
	data, _ := c.prog.Exprs.Index(id)
	arrType := c.checkExpr(data.Array)
	idxType := c.checkExpr(data.Index)
	if !c.isIntegerType(idxType) {
		c.errorf(id, diag.TypeNotConvertible, "array subscript must be an integer")
	}
	in := c.prog.Types
	unq := in.Unqualified(arrType)
	if arr, ok := in.ArrayOf(unq); ok {
		return arr.Element
	}
	if p, ok := in.PointerOf(unq); ok {
		return p.Base
	}
	c.errorf(id, diag.TypeNotConvertible, "subscript requires an array or pointer operand")
	return types.NoTypeID
}

// checkCall resolves the callee against its function group's overloads
// (spec.md line 173) when the callee names one directly, or else requires
// a function-pointer-typed callee expression.
func (c *Checker) checkCall(id ast.ExprID) types.TypeID {
	data, _ := c.prog.Exprs.Call(id)
	argTypes := make([]types.TypeID, len(data.Args))
	for i, a := range data.Args {
		argTypes[i] = c.checkExpr(a)
	}
	if group, ok := c.calleeGroup(data.Callee); ok {
		ov, status := c.resolveOverload(group, argTypes)
		switch status {
		case overloadFound:
			c.prog.Exprs.SetResultType(data.Callee, c.prog.Types.FunPtr(ov.ReturnType, ov.ArgTypes))
			return ov.ReturnType
		case overloadNone:
			c.errorf(id, diag.TypeNoOverload, "no overload of this function accepts these argument types")
		case overloadAmbiguous:
			c.errorf(id, diag.TypeAmbiguousOverload, "call is ambiguous between multiple overloads")
		}
		return types.NoTypeID
	}

	calleeType := c.checkExpr(data.Callee)
	fp, ok := c.prog.Types.FunPtrOf(c.prog.Types.Unqualified(calleeType))
	if !ok {
		c.errorf(id, diag.TypeNoOverload, "callee is not a function or function pointer")
		return types.NoTypeID
	}
	if len(argTypes) != len(fp.Args) {
		c.errorf(id, diag.TypeNoOverload, "argument count does not match the function pointer's signature")
		return fp.Return
	}
	for i, at := range argTypes {
		if !c.prog.Types.ImplicitlyConvertible(at, fp.Args[i]) {
			c.errorf(id, diag.TypeNotConvertible, "argument is not convertible to the function pointer's parameter type")
		}
	}
	return fp.Return
}

// calleeGroup reports whether callee is a bare name resolving directly to a
// function group, so checkCall can run overload resolution instead of
// requiring callee to carry a single function-pointer type.
func (c *Checker) calleeGroup(callee ast.ExprID) (*symbols.Symbol, bool) {
	identData, ok := c.prog.Exprs.Ident(callee)
	if !ok {
		return nil, false
	}
	last := identData.Name.Segments[len(identData.Name.Segments)-1]
	symID := symbols.FromSymbolRef(last.Resolved)
	sym := c.prog.Table.Symbols.Get(symID)
	if sym == nil || sym.Kind != symbols.SymFunctionGroup {
		return nil, false
	}
	return sym, true
}

// checkAggregateInit types a `{ ... }` literal: a typed form (`T{...}`)
// checks pointwise against T's array elements or struct fields and types
// as T itself; an untyped form types as the generic aggregate-init marker
// for a later convertibleForInit check to match against its target.
func (c *Checker) checkAggregateInit(id ast.ExprID) types.TypeID {
	data, _ := c.prog.Exprs.AggregateInit(id)
	elemTypes := make([]types.TypeID, len(data.Elements))
	for i, e := range data.Elements {
		elemTypes[i] = c.checkExpr(e)
	}
	if !data.Type.IsValid() {
		return c.prog.Types.AggregateInit(elemTypes)
	}
	target := c.prog.ReResolveTypeSyn(data.Type)
	c.checkAggregateElementsAgainst(id, data.Elements, elemTypes, target)
	return target
}

func (c *Checker) checkAggregateElementsAgainst(id ast.ExprID, elems []ast.ExprID, elemTypes []types.TypeID, target types.TypeID) {
	in := c.prog.Types
	unq := in.Unqualified(target)
	if arr, ok := in.ArrayOf(unq); ok {
		if uint64(len(elemTypes)) != arr.Length {
			c.errorf(id, diag.TypeBadInitializerSize, "initializer has the wrong number of elements for this array type")
			return
		}
		for i, et := range elemTypes {
			if !c.convertibleForInit(et, arr.Element, elems[i]) {
				c.errorf(elems[i], diag.TypeNotConvertible, "initializer element is not convertible to the array's element type")
			}
		}
		return
	}
	if sym := c.structSymbolFor(unq); sym != nil && sym.Kind == symbols.SymStruct {
		if len(elemTypes) != len(sym.Struct.FieldTypes) {
			c.errorf(id, diag.TypeBadInitializerSize, "initializer has the wrong number of elements for this struct type")
			return
		}
		for i, et := range elemTypes {
			if !c.convertibleForInit(et, sym.Struct.FieldTypes[i], elems[i]) {
				c.errorf(elems[i], diag.TypeNotConvertible, "initializer element is not convertible to the matching field's type")
			}
		}
		return
	}
	c.errorf(id, diag.TypeNotConvertible, "typed initializer target is not an array or struct type")
}

func (c *Checker) checkCast(id ast.ExprID) types.TypeID {
	data, _ := c.prog.Exprs.Cast(id)
	fromType := c.checkExpr(data.Value)
	target := c.prog.ReResolveTypeSyn(data.Target)
	if fromType != types.NoTypeID && target != types.NoTypeID && !c.explicitlyConvertible(fromType, target) {
		c.errorf(id, diag.TypeNotConvertible, "value is not convertible to the cast's target type")
	}
	return target
}

func (c *Checker) checkSizeofType() types.TypeID {
	return c.prog.Types.Keyword(token.KwUlong)
}

// checkSizeofExpr special-cases a bare identifier naming a type (spec.md's
// sizeof(T) vs sizeof(expr) disambiguation, deferred to this pass since the
// parser cannot tell a type name from a variable name by syntax alone): it
// sizes the named type directly rather than type-checking the identifier as
// a value, which would otherwise report "type name used as a value".
func (c *Checker) checkSizeofExpr(id ast.ExprID) types.TypeID {
	data, _ := c.prog.Exprs.SizeofExpr(id)
	if identData, ok := c.prog.Exprs.Ident(data.Operand); ok {
		last := identData.Name.Segments[len(identData.Name.Segments)-1]
		symID := symbols.FromSymbolRef(last.Resolved)
		if sym := c.prog.Table.Symbols.Get(symID); sym != nil && sym.Kind.IsTypeDefinition() {
			c.prog.Exprs.SetResultType(data.Operand, c.prog.Types.Reference(symID.EntryRef(), sym.Name))
			return c.prog.Types.Keyword(token.KwUlong)
		}
	}
	c.checkExpr(data.Operand)
	return c.prog.Types.Keyword(token.KwUlong)
}

// isAssignable reports whether id denotes a storage location an assignment,
// address-of, or increment/decrement may target (spec.md §4.4's lvalue
// shapes: a name, a dereference, a subscript, or a field access).
func (c *Checker) isAssignable(id ast.ExprID) bool {
	node := c.prog.Exprs.Get(id)
	if node == nil {
		return false
	}
	switch node.Kind {
	case ast.ExprIdent, ast.ExprMember, ast.ExprIndex:
		return true
	case ast.ExprUnary:
		u, _ := c.prog.Exprs.Unary(id)
		return u.Op == ast.UnDeref
	default:
		return false
	}
}
