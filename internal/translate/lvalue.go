package translate

import (
	"vane/internal/ast"
	"vane/internal/ir"
	"vane/internal/mangle"
	"vane/internal/symbols"
	"vane/internal/types"
)

// lvalue is a loadable/storable/addressable expression result. Named
// variables route through their symbol's frame.Access; dereference, member,
// and subscript expressions compute a runtime address and load/store
// against it directly, since those addresses are transient and carry no
// storage-lifetime bookkeeping of their own.
type lvalue struct {
	load  func() ir.Operand
	store func(ir.Operand)
	addr  func() ir.Operand
}

func (ft *funcTranslator) lowerLValue(id ast.ExprID) lvalue {
	prog := ft.prog()
	node := prog.Exprs.Get(id)
	if node == nil {
		return lvalue{
			load:  func() ir.Operand { return ir.Operand{} },
			store: func(ir.Operand) {},
			addr:  func() ir.Operand { return ir.Operand{} },
		}
	}
	switch node.Kind {
	case ast.ExprIdent:
		return ft.lowerIdentLValue(id)
	case ast.ExprUnary:
		data, _ := prog.Exprs.Unary(id)
		if data.Op == ast.UnDeref {
			return ft.lowerDerefLValue(id, data)
		}
	case ast.ExprMember:
		return ft.lowerMemberLValue(id)
	case ast.ExprIndex:
		return ft.lowerIndexLValue(id)
	}
	// Not an assignable shape; still allow a read through lowerValue so a
	// generic fallback never panics.
	return lvalue{
		load:  func() ir.Operand { return ft.lowerValue(id) },
		store: func(ir.Operand) {},
		addr:  func() ir.Operand { return ir.Operand{} },
	}
}

func (ft *funcTranslator) lowerIdentLValue(id ast.ExprID) lvalue {
	prog := ft.prog()
	data, _ := prog.Exprs.Ident(id)
	segs := data.Name.Segments
	last := segs[len(segs)-1]
	symID := symbols.FromSymbolRef(last.Resolved)
	sym := prog.Table.Symbols.Get(symID)
	if sym == nil || sym.Variable.Access == nil {
		return lvalue{
			load:  func() ir.Operand { return ir.Operand{} },
			store: func(ir.Operand) {},
			addr:  func() ir.Operand { return ir.Operand{} },
		}
	}
	access := sym.Variable.Access
	size := sizeOf(prog, ft.fw.t.ptrSize, sym.Variable.Type)
	align := alignOf(prog, ft.fw.t.ptrSize, sym.Variable.Type)
	class := valueClassOf(prog, sym.Variable.Type)
	return lvalue{
		load: func() ir.Operand {
			tmp := ft.newTemp(size, align, class)
			ft.emitAll(access.Load(tmp))
			return tmp
		},
		store: func(v ir.Operand) { ft.emitAll(access.Store(v)) },
		addr:  func() ir.Operand { return access.Address() },
	}
}

func (ft *funcTranslator) lowerDerefLValue(id ast.ExprID, data *ast.ExprUnaryData) lvalue {
	prog := ft.prog()
	p := ft.lowerValue(data.Operand)
	resultType := prog.Exprs.Get(id).ResultType
	size := sizeOf(prog, ft.fw.t.ptrSize, resultType)
	align := alignOf(prog, ft.fw.t.ptrSize, resultType)
	class := valueClassOf(prog, resultType)
	return lvalue{
		load: func() ir.Operand {
			tmp := ft.newTemp(size, align, class)
			ft.emit(ir.MemLoad(size, tmp, p))
			return tmp
		},
		store: func(v ir.Operand) { ft.emit(ir.MemStore(size, p, v)) },
		addr:  func() ir.Operand { return p },
	}
}

func (ft *funcTranslator) lowerMemberLValue(id ast.ExprID) lvalue {
	prog := ft.prog()
	data, _ := prog.Exprs.Member(id)
	resultType := prog.Exprs.Get(id).ResultType
	ptrSize := ft.fw.t.ptrSize

	var base ir.Operand
	if data.Arrow {
		base = ft.lowerValue(data.Target)
	} else {
		targetLV := ft.lowerLValue(data.Target)
		base = targetLV.addr()
	}

	targetType := prog.Exprs.Get(data.Target).ResultType
	if data.Arrow {
		if p, ok := prog.Types.PointerOf(prog.Types.Unqualified(targetType)); ok {
			targetType = p.Base
		}
	}
	offset := 0
	if sym, ok := underlyingAggregate(prog, prog.Types.Unqualified(targetType)); ok {
		idx := fieldIndex(sym, data.Field)
		if idx >= 0 {
			offset = fieldOffset(prog, ptrSize, sym, idx)
		}
	}
	size := sizeOf(prog, ptrSize, resultType)
	align := alignOf(prog, ptrSize, resultType)
	class := valueClassOf(prog, resultType)
	offConst := ir.IntConst(uint64(offset), ptrSize)
	return lvalue{
		load: func() ir.Operand {
			tmp := ft.newTemp(size, align, class)
			ft.emit(ir.Entry{Op: ir.OpOffsetLoad, OpSize: size, Dest: tmp, Arg1: base, Arg2: offConst})
			return tmp
		},
		store: func(v ir.Operand) {
			ft.emit(ir.Entry{Op: ir.OpOffsetStore, OpSize: size, Arg1: base, Arg2: offConst, Dest: v})
		},
		addr: func() ir.Operand { return ft.addOffset(base, offset) },
	}
}

func (ft *funcTranslator) lowerIndexLValue(id ast.ExprID) lvalue {
	prog := ft.prog()
	data, _ := prog.Exprs.Index(id)
	resultType := prog.Exprs.Get(id).ResultType
	ptrSize := ft.fw.t.ptrSize
	in := prog.Types

	arrType := prog.Exprs.Get(data.Array).ResultType
	var base ir.Operand
	if _, ok := in.PointerOf(in.Unqualified(arrType)); ok {
		base = ft.lowerValue(data.Array)
	} else {
		arrLV := ft.lowerLValue(data.Array)
		base = arrLV.addr()
	}

	idxVal := ft.lowerValue(data.Index)
	elemSize := sizeOf(prog, ptrSize, resultType)
	mulOp := ir.OpSMul
	if isUnsignedType(in, prog.Exprs.Get(data.Index).ResultType) {
		mulOp = ir.OpUMul
	}
	scaled := ft.newTemp(ptrSize, ptrSize, types.ClassGeneralPurpose)
	ft.emit(ir.Binary(mulOp, ptrSize, scaled, idxVal, ir.IntConst(uint64(elemSize), ptrSize)))
	addr := ft.newTemp(ptrSize, ptrSize, types.ClassGeneralPurpose)
	ft.emit(ir.Binary(ir.OpAdd, ptrSize, addr, base, scaled))

	align := alignOf(prog, ptrSize, resultType)
	class := valueClassOf(prog, resultType)
	return lvalue{
		load: func() ir.Operand {
			tmp := ft.newTemp(elemSize, align, class)
			ft.emit(ir.MemLoad(elemSize, tmp, addr))
			return tmp
		},
		store: func(v ir.Operand) { ft.emit(ir.MemStore(elemSize, addr, v)) },
		addr:  func() ir.Operand { return addr },
	}
}

// addOffset materializes addr + offset as its own address temp, used by
// nested aggregate stores whose own elements add further offsets onto it.
func (ft *funcTranslator) addOffset(addr ir.Operand, offset int) ir.Operand {
	if offset == 0 {
		return addr
	}
	dest := ft.newTemp(ft.fw.t.ptrSize, ft.fw.t.ptrSize, types.ClassGeneralPurpose)
	ft.emit(ir.Binary(ir.OpAdd, ft.fw.t.ptrSize, dest, addr, ir.IntConst(uint64(offset), ft.fw.t.ptrSize)))
	return dest
}

// storeAggregateInto writes a brace initializer's elements directly at addr,
// recursing through nested aggregates (mirrors globals.go's
// lowerConstAggregate, but against a runtime address with runtime values
// instead of a data-section entry stream).
func (ft *funcTranslator) storeAggregateInto(addr ir.Operand, declType types.TypeID, id ast.ExprID) {
	prog := ft.prog()
	agg, _ := prog.Exprs.AggregateInit(id)
	unq := prog.Types.Unqualified(declType)

	if arr, ok := prog.Types.ArrayOf(unq); ok {
		elemSize := sizeOf(prog, ft.fw.t.ptrSize, arr.Element)
		for i, elem := range agg.Elements {
			ft.storeElementAt(addr, i*elemSize, arr.Element, elem)
		}
		return
	}
	if sym, ok := underlyingAggregate(prog, unq); ok && sym.Kind == symbols.SymStruct {
		for i, elem := range agg.Elements {
			if i >= len(sym.Struct.FieldTypes) {
				break
			}
			offset := fieldOffset(prog, ft.fw.t.ptrSize, sym, i)
			ft.storeElementAt(addr, offset, sym.Struct.FieldTypes[i], elem)
		}
	}
}

func (ft *funcTranslator) storeElementAt(addr ir.Operand, offset int, elemType types.TypeID, elem ast.ExprID) {
	prog := ft.prog()
	node := prog.Exprs.Get(elem)
	if node != nil && node.Kind == ast.ExprAggregateInit {
		ft.storeAggregateInto(ft.addOffset(addr, offset), elemType, elem)
		return
	}
	size := sizeOf(prog, ft.fw.t.ptrSize, elemType)
	v := ft.lowerValue(elem)
	v = ft.convertValue(v, node.ResultType, elemType)
	ft.emit(ir.Entry{Op: ir.OpOffsetStore, OpSize: size, Arg1: addr, Arg2: ir.IntConst(uint64(offset), ft.fw.t.ptrSize), Dest: v})
}

// convertValue lowers one of the SX/ZX/TRUNC/F_TO_*/*_TO_F conversion ops
// implied by an implicit or explicit cast between from and to (spec.md
// §6.4). Equal types are a no-op.
func (ft *funcTranslator) convertValue(val ir.Operand, from, to types.TypeID) ir.Operand {
	prog := ft.prog()
	in := prog.Types
	if !from.IsValid() || !to.IsValid() || in.Equal(from, to) {
		return val
	}
	fromSize := sizeOf(prog, ft.fw.t.ptrSize, from)
	toSize := sizeOf(prog, ft.fw.t.ptrSize, to)
	fromFloat := isFloatType(in, from)
	toFloat := isFloatType(in, to)
	fromUnsigned := isUnsignedType(in, from)

	switch {
	case fromFloat && toFloat:
		if toSize == fromSize {
			return val
		}
		op := ir.OpFToFloat
		if toSize == 8 {
			op = ir.OpFToDouble
		}
		return ft.emitConv(op, toSize, val)
	case fromFloat && !toFloat:
		return ft.emitConv(floatToIntOp(toSize), toSize, val)
	case !fromFloat && toFloat:
		op := ir.OpSToFloat
		if fromUnsigned {
			op = ir.OpUToFloat
		}
		if toSize == 8 {
			if fromUnsigned {
				op = ir.OpUToDouble
			} else {
				op = ir.OpSToDouble
			}
		}
		return ft.emitConv(op, toSize, val)
	default:
		if toSize == fromSize {
			return val
		}
		if toSize > fromSize {
			op := signExtendOp(toSize)
			if fromUnsigned {
				op = zeroExtendOp(toSize)
			}
			return ft.emitConv(op, toSize, val)
		}
		return ft.emitConv(truncOp(toSize), toSize, val)
	}
}

func (ft *funcTranslator) emitConv(op ir.Op, size int, val ir.Operand) ir.Operand {
	dest := ft.newTemp(size, size, types.ClassGeneralPurpose)
	ft.emit(ir.Unary(op, size, dest, val))
	return dest
}

func floatToIntOp(size int) ir.Op {
	switch size {
	case 1:
		return ir.OpFToByte
	case 2:
		return ir.OpFToShort
	case 8:
		return ir.OpFToLong
	default:
		return ir.OpFToInt
	}
}

func signExtendOp(size int) ir.Op {
	switch size {
	case 2:
		return ir.OpSXShort
	case 8:
		return ir.OpSXLong
	default:
		return ir.OpSXInt
	}
}

func zeroExtendOp(size int) ir.Op {
	switch size {
	case 2:
		return ir.OpZXShort
	case 8:
		return ir.OpZXLong
	default:
		return ir.OpZXInt
	}
}

func truncOp(size int) ir.Op {
	switch size {
	case 1:
		return ir.OpTruncByte
	case 2:
		return ir.OpTruncShort
	default:
		return ir.OpTruncInt
	}
}

func valueClassOf(prog *symbols.Program, t types.TypeID) types.ValueClass {
	if sym, ok := underlyingAggregate(prog, prog.Types.Unqualified(t)); ok && (sym.Kind == symbols.SymStruct || sym.Kind == symbols.SymUnion) {
		return types.ClassMemory
	}
	return prog.Types.KindOf(t)
}

// lowerCall evaluates a callee and its arguments, picking the matching
// overload by name when the callee is a direct function reference, or
// falling back to a function-pointer value otherwise.
func (ft *funcTranslator) lowerCall(id ast.ExprID) ir.Operand {
	prog := ft.prog()
	data, _ := prog.Exprs.Call(id)
	resultType := prog.Exprs.Get(id).ResultType

	if sym, ov, ok := ft.resolveCallTarget(data); ok {
		return ft.emitNamedCall(sym, ov, data.Args, resultType)
	}

	calleeVal := ft.lowerValue(data.Callee)
	fp, _ := prog.Types.FunPtrOf(prog.Types.Unqualified(prog.Exprs.Get(data.Callee).ResultType))
	argSlots := ft.fw.t.newFunctionFrame()
	for i, argType := range fp.Args {
		access := argSlots.AllocArg(argType, false)
		if i < len(data.Args) {
			v := ft.lowerValue(data.Args[i])
			v = ft.convertValue(v, prog.Exprs.Get(data.Args[i]).ResultType, argType)
			ft.emitAll(access.Store(v))
		}
	}
	return ft.emitCallAndLoadResult(calleeVal, fp.Return, resultType)
}

func (ft *funcTranslator) resolveCallTarget(data *ast.ExprCallData) (*symbols.Symbol, symbols.Overload, bool) {
	prog := ft.prog()
	identData, ok := prog.Exprs.Ident(data.Callee)
	if !ok {
		return nil, symbols.Overload{}, false
	}
	segs := identData.Name.Segments
	last := segs[len(segs)-1]
	symID := symbols.FromSymbolRef(last.Resolved)
	sym := prog.Table.Symbols.Get(symID)
	if sym == nil || sym.Kind != symbols.SymFunctionGroup {
		return nil, symbols.Overload{}, false
	}
	argTypes := make([]types.TypeID, len(data.Args))
	for i, a := range data.Args {
		argTypes[i] = prog.Exprs.Get(a).ResultType
	}
	for _, ov := range sym.FuncGroup.Overloads {
		if overloadAccepts(prog, ov, argTypes) {
			return sym, ov, true
		}
	}
	if len(sym.FuncGroup.Overloads) > 0 {
		return sym, sym.FuncGroup.Overloads[0], true
	}
	return nil, symbols.Overload{}, false
}

func overloadAccepts(prog *symbols.Program, ov symbols.Overload, argTypes []types.TypeID) bool {
	if len(argTypes) > len(ov.ArgTypes) {
		return false
	}
	for i, at := range argTypes {
		if !prog.Types.ImplicitlyConvertible(at, ov.ArgTypes[i]) {
			return false
		}
	}
	return true
}

// emitNamedCall evaluates arguments (defaults filling any omitted trailing
// positions) into a throwaway probe frame replaying the callee's own
// AllocArg sequence, so caller and callee agree on argument storage without
// the translator needing any call-site staging capability of its own.
func (ft *funcTranslator) emitNamedCall(sym *symbols.Symbol, ov symbols.Overload, argExprs []ast.ExprID, resultType types.TypeID) ir.Operand {
	prog := ft.prog()
	moduleName := ft.fw.moduleName
	if declModule, ok := ft.declaringModuleName(sym); ok {
		moduleName = declModule
	}
	label := mangle.Function(moduleName, prog.Strings.MustLookup(sym.Name), ov.ArgTypes, prog.Types, prog.Strings)

	defaults := defaultsFor(prog, ov.Item)
	argSlots := ft.fw.t.newFunctionFrame()
	for i, argType := range ov.ArgTypes {
		access := argSlots.AllocArg(argType, false)
		var v ir.Operand
		switch {
		case i < len(argExprs):
			v = ft.lowerValue(argExprs[i])
			v = ft.convertValue(v, prog.Exprs.Get(argExprs[i]).ResultType, argType)
		case i < len(defaults) && defaults[i].IsValid():
			v = ft.lowerValue(defaults[i])
			v = ft.convertValue(v, prog.Exprs.Get(defaults[i]).ResultType, argType)
		default:
			continue
		}
		ft.emitAll(access.Store(v))
	}
	return ft.emitCallAndLoadResult(ir.Global(label), ov.ReturnType, resultType)
}

func (ft *funcTranslator) emitCallAndLoadResult(callee ir.Operand, retType, resultType types.TypeID) ir.Operand {
	prog := ft.prog()
	if !retType.IsValid() {
		ft.emit(ir.CallEntry(ir.Operand{}, callee))
		return ir.Operand{}
	}
	size := sizeOf(prog, ft.fw.t.ptrSize, retType)
	align := alignOf(prog, ft.fw.t.ptrSize, retType)
	dest := ft.newTemp(size, align, valueClassOf(prog, retType))
	ft.emit(ir.CallEntry(dest, callee))
	if !resultType.IsValid() {
		return ir.Operand{}
	}
	return dest
}

// declaringModuleName finds the name of the module sym was declared in, by
// walking up to its enclosing module scope and reverse-looking that scope up
// in the program's module table.
func (ft *funcTranslator) declaringModuleName(sym *symbols.Symbol) (string, bool) {
	prog := ft.prog()
	scope := sym.Scope
	for scope.IsValid() {
		s := prog.Table.Scopes.Get(scope)
		if s == nil {
			return "", false
		}
		if s.Kind == symbols.ScopeModule {
			for name, sc := range prog.Modules {
				if sc == scope {
					return prog.Strings.MustLookup(name), true
				}
			}
			return "", false
		}
		scope = s.Parent
	}
	return "", false
}
