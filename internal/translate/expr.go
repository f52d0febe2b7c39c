package translate

import (
	"vane/internal/ast"
	"vane/internal/ir"
	"vane/internal/mangle"
	"vane/internal/symbols"
	"vane/internal/token"
	"vane/internal/types"
)

// lowerValue lowers an expression for its value, materializing branches and
// short-circuits into a single operand where spec.md §4.4 calls for a bool
// or ordering byte rather than a jump.
func (ft *funcTranslator) lowerValue(id ast.ExprID) ir.Operand {
	if !id.IsValid() {
		return ir.Operand{}
	}
	node := ft.prog().Exprs.Get(id)
	if node == nil {
		return ir.Operand{}
	}
	switch node.Kind {
	case ast.ExprIdent:
		return ft.lowerIdentValue(id)
	case ast.ExprLiteral:
		return ft.lowerLiteral(id)
	case ast.ExprSequence:
		data, _ := ft.prog().Exprs.Sequence(id)
		var last ir.Operand
		for _, e := range data.Elements {
			last = ft.lowerValue(e)
		}
		return last
	case ast.ExprBinary:
		return ft.lowerBinaryValue(id)
	case ast.ExprUnary:
		return ft.lowerUnaryValue(id)
	case ast.ExprComparison:
		return ft.lowerComparisonValue(id)
	case ast.ExprLogical:
		data, _ := ft.prog().Exprs.Logical(id)
		return ft.lowerLogicalValue(id, data)
	case ast.ExprTernary:
		return ft.lowerTernaryValue(id)
	case ast.ExprMember, ast.ExprIndex:
		lv := ft.lowerLValue(id)
		return lv.load()
	case ast.ExprCall:
		return ft.lowerCall(id)
	case ast.ExprCast:
		data, _ := ft.prog().Exprs.Cast(id)
		v := ft.lowerValue(data.Value)
		return ft.convertValue(v, ft.prog().Exprs.Get(data.Value).ResultType, node.ResultType)
	case ast.ExprSizeofType:
		data, _ := ft.prog().Exprs.SizeofType(id)
		target := ft.prog().ReResolveTypeSyn(data.Target)
		sz := sizeOf(ft.prog(), ft.fw.t.ptrSize, target)
		return ir.IntConst(uint64(sz), types.Width(token.KwUlong))
	case ast.ExprSizeofExpr:
		return ft.lowerSizeofExpr(id)
	case ast.ExprAggregateInit:
		// Only reachable nested under an rvalue position a declared
		// aggregate lvalue didn't already absorb (e.g. passed positionally
		// to a call); this translator only supports aggregate initializers
		// directly against a declared variable or global.
		return ir.Operand{}
	}
	return ir.Operand{}
}

func (ft *funcTranslator) lowerIdentValue(id ast.ExprID) ir.Operand {
	prog := ft.prog()
	data, _ := prog.Exprs.Ident(id)
	segs := data.Name.Segments
	last := segs[len(segs)-1]
	symID := symbols.FromSymbolRef(last.Resolved)
	sym := prog.Table.Symbols.Get(symID)
	if sym == nil {
		return ir.Operand{}
	}
	switch sym.Kind {
	case symbols.SymVariable:
		if sym.Variable.Access == nil {
			return ir.Operand{}
		}
		size := sizeOf(prog, ft.fw.t.ptrSize, sym.Variable.Type)
		align := alignOf(prog, ft.fw.t.ptrSize, sym.Variable.Type)
		tmp := ft.newTemp(size, align, valueClassOf(prog, sym.Variable.Type))
		ft.emitAll(sym.Variable.Access.Load(tmp))
		return tmp
	case symbols.SymFunctionGroup:
		if len(sym.FuncGroup.Overloads) == 0 {
			return ir.Operand{}
		}
		ov := sym.FuncGroup.Overloads[0]
		moduleName := ft.fw.moduleName
		if name, ok := ft.declaringModuleName(sym); ok {
			moduleName = name
		}
		label := mangle.Function(moduleName, prog.Strings.MustLookup(sym.Name), ov.ArgTypes, prog.Types, prog.Strings)
		return ir.Global(label)
	case symbols.SymEnum:
		for i, n := range sym.Enum.ConstantNames {
			if n == last.Name {
				return ir.IntConst(uint64(sym.Enum.ConstantValues[i]), types.Width(token.KwInt))
			}
		}
	}
	return ir.Operand{}
}

func (ft *funcTranslator) lowerLiteral(id ast.ExprID) ir.Operand {
	prog := ft.prog()
	lit, _ := prog.Exprs.Literal(id)
	resultType := prog.Exprs.Get(id).ResultType
	size := sizeOf(prog, ft.fw.t.ptrSize, resultType)
	switch lit.Kind {
	case ast.LitInt, ast.LitChar, ast.LitWideChar:
		return ir.IntConst(lit.IntVal, size)
	case ast.LitTrue:
		return ir.IntConst(1, size)
	case ast.LitFalse, ast.LitNull:
		return ir.IntConst(0, size)
	case ast.LitFloat:
		return floatBits(lit.FloatVal, size)
	case ast.LitString:
		return ir.Global(ft.fw.rodataString(lit.Text, false))
	case ast.LitWideString:
		return ir.Global(ft.fw.rodataString(lit.Text, true))
	}
	return ir.Operand{}
}

// compoundBase maps an assigning BinaryOp to the arithmetic op a compound
// assignment performs before storing back.
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

func (ft *funcTranslator) lowerBinaryValue(id ast.ExprID) ir.Operand {
	prog := ft.prog()
	data, _ := prog.Exprs.Binary(id)
	if data.Op == ast.OpAssign {
		return ft.lowerAssign(data)
	}
	if base, ok := compoundBase[data.Op]; ok {
		return ft.lowerCompoundAssign(data, base)
	}
	l := ft.lowerValue(data.Left)
	r := ft.lowerValue(data.Right)
	resultType := prog.Exprs.Get(id).ResultType
	size := sizeOf(prog, ft.fw.t.ptrSize, resultType)
	op := binaryIROp(data.Op, prog.Types, resultType)
	dest := ft.newTemp(size, alignOf(prog, ft.fw.t.ptrSize, resultType), valueClassOf(prog, resultType))
	ft.emit(ir.Binary(op, size, dest, l, r))
	return dest
}

func binaryIROp(op ast.BinaryOp, in *types.Interner, resultType types.TypeID) ir.Op {
	float := isFloatType(in, resultType)
	unsigned := isUnsignedType(in, resultType)
	switch op {
	case ast.OpAdd:
		if float {
			return ir.OpFPAdd
		}
		return ir.OpAdd
	case ast.OpSub:
		if float {
			return ir.OpFPSub
		}
		return ir.OpSub
	case ast.OpMul:
		if float {
			return ir.OpFPMul
		}
		if unsigned {
			return ir.OpUMul
		}
		return ir.OpSMul
	case ast.OpDiv:
		if float {
			return ir.OpFPDiv
		}
		if unsigned {
			return ir.OpUDiv
		}
		return ir.OpSDiv
	case ast.OpMod:
		if unsigned {
			return ir.OpUMod
		}
		return ir.OpSMod
	case ast.OpBitAnd:
		return ir.OpAnd
	case ast.OpBitOr:
		return ir.OpOr
	case ast.OpBitXor:
		return ir.OpXor
	case ast.OpShl:
		return ir.OpSLL
	case ast.OpShr:
		if unsigned {
			return ir.OpSLR
		}
		return ir.OpSAR
	default:
		return ir.OpInvalid
	}
}

func (ft *funcTranslator) lowerAssign(data *ast.ExprBinaryData) ir.Operand {
	prog := ft.prog()
	lv := ft.lowerLValue(data.Left)
	v := ft.lowerValue(data.Right)
	v = ft.convertValue(v, prog.Exprs.Get(data.Right).ResultType, prog.Exprs.Get(data.Left).ResultType)
	lv.store(v)
	return v
}

func (ft *funcTranslator) lowerCompoundAssign(data *ast.ExprBinaryData, base ast.BinaryOp) ir.Operand {
	prog := ft.prog()
	leftType := prog.Exprs.Get(data.Left).ResultType
	lv := ft.lowerLValue(data.Left)
	old := lv.load()
	r := ft.lowerValue(data.Right)
	size := sizeOf(prog, ft.fw.t.ptrSize, leftType)
	op := binaryIROp(base, prog.Types, leftType)
	dest := ft.newTemp(size, alignOf(prog, ft.fw.t.ptrSize, leftType), valueClassOf(prog, leftType))
	ft.emit(ir.Binary(op, size, dest, old, r))
	lv.store(dest)
	return dest
}

func (ft *funcTranslator) lowerUnaryValue(id ast.ExprID) ir.Operand {
	prog := ft.prog()
	data, _ := prog.Exprs.Unary(id)
	resultType := prog.Exprs.Get(id).ResultType
	switch data.Op {
	case ast.UnNeg:
		v := ft.lowerValue(data.Operand)
		size := sizeOf(prog, ft.fw.t.ptrSize, resultType)
		dest := ft.newTemp(size, alignOf(prog, ft.fw.t.ptrSize, resultType), valueClassOf(prog, resultType))
		op := ir.OpNeg
		if isFloatType(prog.Types, resultType) {
			op = ir.OpFPNeg
		}
		ft.emit(ir.Unary(op, size, dest, v))
		return dest
	case ast.UnBitNot:
		v := ft.lowerValue(data.Operand)
		size := sizeOf(prog, ft.fw.t.ptrSize, resultType)
		dest := ft.newTemp(size, alignOf(prog, ft.fw.t.ptrSize, resultType), valueClassOf(prog, resultType))
		ft.emit(ir.Unary(ir.OpNot, size, dest, v))
		return dest
	case ast.UnNot:
		v := ft.lowerValue(data.Operand)
		dest := ft.newTemp(1, 1, types.ClassGeneralPurpose)
		ft.emit(ir.Entry{Op: ir.OpE, OpSize: 1, Dest: dest, Arg1: v, Arg2: ir.IntConst(0, 1)})
		return dest
	case ast.UnDeref:
		lv := ft.lowerLValue(id)
		return lv.load()
	case ast.UnAddr:
		lv := ft.lowerLValue(data.Operand)
		return lv.addr()
	case ast.UnPreInc, ast.UnPreDec, ast.UnPostInc, ast.UnPostDec:
		return ft.lowerIncDec(data)
	}
	return ir.Operand{}
}

func (ft *funcTranslator) lowerIncDec(data *ast.ExprUnaryData) ir.Operand {
	prog := ft.prog()
	operandType := prog.Exprs.Get(data.Operand).ResultType
	lv := ft.lowerLValue(data.Operand)
	old := lv.load()
	size := sizeOf(prog, ft.fw.t.ptrSize, operandType)
	in := prog.Types
	var step ir.Operand
	if p, ok := in.PointerOf(in.Unqualified(operandType)); ok {
		step = ir.IntConst(uint64(sizeOf(prog, ft.fw.t.ptrSize, p.Base)), size)
	} else {
		step = ir.IntConst(1, size)
	}
	op := ir.OpAdd
	if data.Op == ast.UnPreDec || data.Op == ast.UnPostDec {
		op = ir.OpSub
	}
	newVal := ft.newTemp(size, alignOf(prog, ft.fw.t.ptrSize, operandType), valueClassOf(prog, operandType))
	ft.emit(ir.Binary(op, size, newVal, old, step))
	lv.store(newVal)
	if data.Op == ast.UnPreInc || data.Op == ast.UnPreDec {
		return newVal
	}
	return old
}

func floatCompareOp(op ast.ComparisonOp) ir.Op {
	switch op {
	case ast.CmpEq:
		return ir.OpFPE
	case ast.CmpNotEq:
		return ir.OpFPNE
	case ast.CmpLess:
		return ir.OpFPL
	case ast.CmpGreater:
		return ir.OpFPG
	case ast.CmpLessEq:
		return ir.OpFPLE
	case ast.CmpGreaterEq:
		return ir.OpFPGE
	default:
		return ir.OpFPE
	}
}

func unsignedCompareOp(op ast.ComparisonOp) ir.Op {
	switch op {
	case ast.CmpEq:
		return ir.OpE
	case ast.CmpNotEq:
		return ir.OpNE
	case ast.CmpLess:
		return ir.OpB
	case ast.CmpGreater:
		return ir.OpA
	case ast.CmpLessEq:
		return ir.OpBE
	case ast.CmpGreaterEq:
		return ir.OpAE
	default:
		return ir.OpE
	}
}

func signedCompareOp(op ast.ComparisonOp) ir.Op {
	switch op {
	case ast.CmpEq:
		return ir.OpE
	case ast.CmpNotEq:
		return ir.OpNE
	case ast.CmpLess:
		return ir.OpL
	case ast.CmpGreater:
		return ir.OpG
	case ast.CmpLessEq:
		return ir.OpLE
	case ast.CmpGreaterEq:
		return ir.OpGE
	default:
		return ir.OpE
	}
}

func compareOpFor(op ast.ComparisonOp, in *types.Interner, lt, rt types.TypeID) ir.Op {
	switch {
	case isFloatType(in, lt) || isFloatType(in, rt):
		return floatCompareOp(op)
	case isUnsignedType(in, lt) || isUnsignedType(in, rt):
		return unsignedCompareOp(op)
	default:
		return signedCompareOp(op)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// emitCompare emits the compare entry for already-lowered operands and
// returns the chosen op, so a caller can either materialize dest or thread
// the op into a conditional jump.
func (ft *funcTranslator) emitCompare(op ast.ComparisonOp, l, r ir.Operand, lt, rt types.TypeID, dest ir.Operand) ir.Op {
	prog := ft.prog()
	size := maxInt(sizeOf(prog, ft.fw.t.ptrSize, lt), sizeOf(prog, ft.fw.t.ptrSize, rt))
	cmpOp := compareOpFor(op, prog.Types, lt, rt)
	ft.emit(ir.Entry{Op: cmpOp, OpSize: size, Dest: dest, Arg1: l, Arg2: r})
	return cmpOp
}

func (ft *funcTranslator) lowerComparisonValue(id ast.ExprID) ir.Operand {
	prog := ft.prog()
	data, _ := prog.Exprs.Comparison(id)
	if data.Op == ast.CmpSpaceship {
		return ft.lowerSpaceship(data)
	}
	l := ft.lowerValue(data.Left)
	r := ft.lowerValue(data.Right)
	lt := prog.Exprs.Get(data.Left).ResultType
	rt := prog.Exprs.Get(data.Right).ResultType
	dest := ft.newTemp(1, 1, types.ClassGeneralPurpose)
	ft.emitCompare(data.Op, l, r, lt, rt, dest)
	return dest
}

// lowerSpaceship computes (a>b)-(a<b), the standard byte-wide -1/0/1
// ordering identity, evaluating each operand exactly once.
func (ft *funcTranslator) lowerSpaceship(data *ast.ExprComparisonData) ir.Operand {
	prog := ft.prog()
	l := ft.lowerValue(data.Left)
	r := ft.lowerValue(data.Right)
	lt := prog.Exprs.Get(data.Left).ResultType
	rt := prog.Exprs.Get(data.Right).ResultType
	ltDest := ft.newTemp(1, 1, types.ClassGeneralPurpose)
	ft.emitCompare(ast.CmpLess, l, r, lt, rt, ltDest)
	gtDest := ft.newTemp(1, 1, types.ClassGeneralPurpose)
	ft.emitCompare(ast.CmpGreater, l, r, lt, rt, gtDest)
	result := ft.newTemp(1, 1, types.ClassGeneralPurpose)
	ft.emit(ir.Binary(ir.OpSub, 1, result, gtDest, ltDest))
	return result
}

// lowerLogicalValue materializes && / || into a bool via a join label,
// short-circuiting through the branching evaluator, then stores back for
// the assigning forms.
func (ft *funcTranslator) lowerLogicalValue(id ast.ExprID, data *ast.ExprLogicalData) ir.Operand {
	result := ft.newTemp(1, 1, types.ClassGeneralPurpose)
	trueLabel := ft.fw.t.labels.Code("ltrue")
	falseLabel := ft.fw.t.labels.Code("lfalse")
	joinLabel := ft.fw.t.labels.Code("ljoin")
	switch data.Op {
	case ast.LogAnd, ast.LogAndAssign:
		ft.branchTo(data.Left, false, falseLabel)
		ft.branchTo(data.Right, false, falseLabel)
		ft.emit(ir.Move(1, result, ir.IntConst(1, 1)))
		ft.emit(ir.Jump(joinLabel))
		ft.emit(ir.Label(falseLabel))
		ft.emit(ir.Move(1, result, ir.IntConst(0, 1)))
		ft.emit(ir.Label(joinLabel))
	case ast.LogOr, ast.LogOrAssign:
		ft.branchTo(data.Left, true, trueLabel)
		ft.branchTo(data.Right, true, trueLabel)
		ft.emit(ir.Move(1, result, ir.IntConst(0, 1)))
		ft.emit(ir.Jump(joinLabel))
		ft.emit(ir.Label(trueLabel))
		ft.emit(ir.Move(1, result, ir.IntConst(1, 1)))
		ft.emit(ir.Label(joinLabel))
	}
	if data.Op == ast.LogAndAssign || data.Op == ast.LogOrAssign {
		lv := ft.lowerLValue(data.Left)
		lv.store(result)
	}
	return result
}

// lowerTernaryValue follows spec.md §4.4 literally: branch to the else arm
// on jump-if-not, move the then value, jump to end, label else, move the
// else value, label end.
func (ft *funcTranslator) lowerTernaryValue(id ast.ExprID) ir.Operand {
	prog := ft.prog()
	data, _ := prog.Exprs.Ternary(id)
	resultType := prog.Exprs.Get(id).ResultType
	size := sizeOf(prog, ft.fw.t.ptrSize, resultType)
	result := ft.newTemp(size, alignOf(prog, ft.fw.t.ptrSize, resultType), valueClassOf(prog, resultType))
	elseLabel := ft.fw.t.labels.Code("terelse")
	endLabel := ft.fw.t.labels.Code("terend")
	ft.branchTo(data.Cond, false, elseLabel)
	thenVal := ft.lowerValue(data.Then)
	thenVal = ft.convertValue(thenVal, prog.Exprs.Get(data.Then).ResultType, resultType)
	ft.emit(ir.Move(size, result, thenVal))
	ft.emit(ir.Jump(endLabel))
	ft.emit(ir.Label(elseLabel))
	elseVal := ft.lowerValue(data.Else)
	elseVal = ft.convertValue(elseVal, prog.Exprs.Get(data.Else).ResultType, resultType)
	ft.emit(ir.Move(size, result, elseVal))
	ft.emit(ir.Label(endLabel))
	return result
}

func isTypeNameOperand(prog *symbols.Program, id ast.ExprID) bool {
	identData, ok := prog.Exprs.Ident(id)
	if !ok {
		return false
	}
	segs := identData.Name.Segments
	last := segs[len(segs)-1]
	symID := symbols.FromSymbolRef(last.Resolved)
	sym := prog.Table.Symbols.Get(symID)
	return sym != nil && sym.Kind.IsTypeDefinition()
}

// lowerSizeofExpr evaluates its operand for side effects only (unless it is
// the bare-type-name special case, which has none), and returns the static
// size as a constant (spec.md §4.4).
func (ft *funcTranslator) lowerSizeofExpr(id ast.ExprID) ir.Operand {
	prog := ft.prog()
	data, _ := prog.Exprs.SizeofExpr(id)
	operandType := prog.Exprs.Get(data.Operand).ResultType
	if !isTypeNameOperand(prog, data.Operand) {
		ft.lowerValue(data.Operand)
	}
	sz := sizeOf(prog, ft.fw.t.ptrSize, operandType)
	return ir.IntConst(uint64(sz), types.Width(token.KwUlong))
}

// branchTo is the branching evaluator of spec.md §4.5: it emits code so
// control reaches target exactly when id evaluates to wantTrue, threading
// through comparisons and short-circuit && / || without ever materializing
// an intermediate bool.
func (ft *funcTranslator) branchTo(id ast.ExprID, wantTrue bool, target string) {
	prog := ft.prog()
	node := prog.Exprs.Get(id)
	if node == nil {
		return
	}
	switch node.Kind {
	case ast.ExprComparison:
		data, _ := prog.Exprs.Comparison(id)
		if data.Op == ast.CmpSpaceship {
			ft.branchGeneric(id, wantTrue, target)
			return
		}
		ft.branchCompare(data.Op, data.Left, data.Right, wantTrue, target)
	case ast.ExprUnary:
		data, _ := prog.Exprs.Unary(id)
		if data.Op == ast.UnNot {
			ft.branchTo(data.Operand, !wantTrue, target)
			return
		}
		ft.branchGeneric(id, wantTrue, target)
	case ast.ExprLogical:
		data, _ := prog.Exprs.Logical(id)
		ft.branchLogical(id, data, wantTrue, target)
	default:
		ft.branchGeneric(id, wantTrue, target)
	}
}

func (ft *funcTranslator) branchCompare(op ast.ComparisonOp, left, right ast.ExprID, wantTrue bool, target string) {
	prog := ft.prog()
	l := ft.lowerValue(left)
	r := ft.lowerValue(right)
	lt := prog.Exprs.Get(left).ResultType
	rt := prog.Exprs.Get(right).ResultType
	size := maxInt(sizeOf(prog, ft.fw.t.ptrSize, lt), sizeOf(prog, ft.fw.t.ptrSize, rt))
	cmpOp := compareOpFor(op, prog.Types, lt, rt)
	if _, ok := ir.CondJump(cmpOp); ok {
		test := cmpOp
		if !wantTrue {
			test = test.Negate()
		}
		ft.emit(ir.Entry{Op: cmpOp, OpSize: size, Arg1: l, Arg2: r})
		j, _ := ir.JumpIf(test, target)
		ft.emit(j)
		return
	}
	// No conditional jump models this compare directly (the floating
	// compares have none): materialize the bool, then branch on it being
	// nonzero.
	dest := ft.newTemp(1, 1, types.ClassGeneralPurpose)
	ft.emit(ir.Entry{Op: cmpOp, OpSize: size, Dest: dest, Arg1: l, Arg2: r})
	check := ir.OpE
	if wantTrue {
		check = ir.OpNE
	}
	ft.emit(ir.Entry{Op: check, OpSize: 1, Arg1: dest, Arg2: ir.IntConst(0, 1)})
	j, _ := ir.JumpIf(check, target)
	ft.emit(j)
}

func (ft *funcTranslator) branchLogical(id ast.ExprID, data *ast.ExprLogicalData, wantTrue bool, target string) {
	switch data.Op {
	case ast.LogAnd:
		if wantTrue {
			skip := ft.fw.t.labels.Code("andskip")
			ft.branchTo(data.Left, false, skip)
			ft.branchTo(data.Right, true, target)
			ft.emit(ir.Label(skip))
		} else {
			ft.branchTo(data.Left, false, target)
			ft.branchTo(data.Right, false, target)
		}
	case ast.LogOr:
		if wantTrue {
			ft.branchTo(data.Left, true, target)
			ft.branchTo(data.Right, true, target)
		} else {
			skip := ft.fw.t.labels.Code("orskip")
			ft.branchTo(data.Left, true, skip)
			ft.branchTo(data.Right, false, target)
			ft.emit(ir.Label(skip))
		}
	default:
		// Assigning forms store as a side effect; branch on the result.
		ft.branchGeneric(id, wantTrue, target)
	}
}

func (ft *funcTranslator) branchGeneric(id ast.ExprID, wantTrue bool, target string) {
	val := ft.lowerValue(id)
	resultType := ft.prog().Exprs.Get(id).ResultType
	size := sizeOf(ft.prog(), ft.fw.t.ptrSize, resultType)
	if size == 0 {
		size = 1
	}
	check := ir.OpE
	if wantTrue {
		check = ir.OpNE
	}
	ft.emit(ir.Entry{Op: check, OpSize: size, Arg1: val, Arg2: ir.IntConst(0, size)})
	j, _ := ir.JumpIf(check, target)
	ft.emit(j)
}
