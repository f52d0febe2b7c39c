package translate

import (
	"vane/internal/ast"
	"vane/internal/frame"
	"vane/internal/ir"
	"vane/internal/mangle"
	"vane/internal/source"
	"vane/internal/symbols"
	"vane/internal/types"
)

// translateGlobalVar lowers one ItemVar's names into BSS, rodata, or data
// fragments per spec.md §4.4's initializer-lowering rule, and records each
// name's Access back onto its symbol so function bodies referencing it
// later resolve through the same frame.Access the checker already linked.
func (fw *fileTranslator) translateGlobalVar(data *ast.VarData) {
	prog := fw.t.prog
	for i, name := range data.Names {
		symID := symbols.FromSymbolRef(name.Resolved)
		sym := prog.Table.Symbols.Get(symID)
		if sym == nil {
			continue
		}
		declType := sym.Variable.Type
		label := mangle.Global(fw.moduleName, prog.Strings.MustLookup(name.Name))
		size := sizeOf(prog, fw.t.ptrSize, declType)
		align := alignOf(prog, fw.t.ptrSize, declType)

		var init ast.ExprID
		if i < len(data.Initializers) {
			init = data.Initializers[i]
		}

		fw.emitGlobal(label, size, align, declType, init)
		sym.Variable.Access = frame.Global(label, size)
	}
}

// emitGlobal appends the one fragment a global variable's declaration
// produces.
func (fw *fileTranslator) emitGlobal(label string, size, align int, declType types.TypeID, init ast.ExprID) {
	prog := fw.t.prog
	if !init.IsValid() || isZeroInitializer(prog, init) {
		fw.vec.Append(ir.BSS(label, size, align))
		return
	}
	var entries []ir.Entry
	fw.lowerConstInto(&entries, declType, init)
	if prog.Types.IsConstQualified(declType) {
		fw.vec.Append(ir.Rodata(label, align, entries))
		return
	}
	fw.vec.Append(ir.Data(label, align, entries))
}

// isZeroInitializer reports whether init is absent in spirit — a literal
// zero (or recursively all-zero aggregate) that should become BSS rather
// than an initialized data fragment (spec.md §4.4).
func isZeroInitializer(prog *symbols.Program, id ast.ExprID) bool {
	if !id.IsValid() {
		return true
	}
	node := prog.Exprs.Get(id)
	if node == nil {
		return true
	}
	switch node.Kind {
	case ast.ExprLiteral:
		lit, _ := prog.Exprs.Literal(id)
		switch lit.Kind {
		case ast.LitInt, ast.LitChar, ast.LitWideChar:
			return lit.IntVal == 0
		case ast.LitFloat:
			return lit.FloatVal == 0
		case ast.LitFalse, ast.LitNull:
			return true
		default:
			return false
		}
	case ast.ExprAggregateInit:
		agg, _ := prog.Exprs.AggregateInit(id)
		for _, e := range agg.Elements {
			if !isZeroInitializer(prog, e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// lowerConstInto recursively serializes a constant initializer expression
// into entries at the declared type's layout (spec.md §4.4: "a constant is
// a constant-expression literal or an aggregate initializer of constants
// recursively ... laid out in field order with padding implied by
// alignOf"). String literals spawn a fresh rodata fragment, appended to the
// file vector in encounter order, and contribute a pointer-sized reference
// to it here.
func (fw *fileTranslator) lowerConstInto(entries *[]ir.Entry, declType types.TypeID, id ast.ExprID) {
	prog := fw.t.prog
	size := sizeOf(prog, fw.t.ptrSize, declType)
	if !id.IsValid() {
		*entries = append(*entries, ir.ConstEntry(size, ir.IntConst(0, size)))
		return
	}
	node := prog.Exprs.Get(id)
	if node == nil {
		*entries = append(*entries, ir.ConstEntry(size, ir.IntConst(0, size)))
		return
	}
	switch node.Kind {
	case ast.ExprLiteral:
		fw.lowerConstLiteral(entries, declType, size, id)
	case ast.ExprAggregateInit:
		fw.lowerConstAggregate(entries, declType, id)
	default:
		// Global initializers are constant-expression literals or
		// aggregates of them by construction; anything else reaching here
		// degrades to a zero fill rather than evaluating side effects at
		// load time.
		*entries = append(*entries, ir.ConstEntry(size, ir.IntConst(0, size)))
	}
}

func (fw *fileTranslator) lowerConstLiteral(entries *[]ir.Entry, declType types.TypeID, size int, id ast.ExprID) {
	prog := fw.t.prog
	lit, _ := prog.Exprs.Literal(id)
	switch lit.Kind {
	case ast.LitInt, ast.LitChar, ast.LitWideChar:
		*entries = append(*entries, ir.ConstEntry(size, ir.IntConst(lit.IntVal, size)))
	case ast.LitTrue:
		*entries = append(*entries, ir.ConstEntry(size, ir.IntConst(1, size)))
	case ast.LitFalse, ast.LitNull:
		*entries = append(*entries, ir.ConstEntry(size, ir.IntConst(0, size)))
	case ast.LitFloat:
		*entries = append(*entries, ir.ConstEntry(size, floatBits(lit.FloatVal, size)))
	case ast.LitString:
		*entries = append(*entries, ir.ConstEntry(size, ir.Global(fw.rodataString(lit.Text, false))))
	case ast.LitWideString:
		*entries = append(*entries, ir.ConstEntry(size, ir.Global(fw.rodataString(lit.Text, true))))
	default:
		*entries = append(*entries, ir.ConstEntry(size, ir.IntConst(0, size)))
	}
}

// lowerConstAggregate lays out a brace initializer's elements against the
// declared array or struct type, inserting padding where alignOf demands
// it between struct fields.
func (fw *fileTranslator) lowerConstAggregate(entries *[]ir.Entry, declType types.TypeID, id ast.ExprID) {
	prog := fw.t.prog
	agg, _ := prog.Exprs.AggregateInit(id)
	unq := prog.Types.Unqualified(declType)

	if arr, ok := prog.Types.ArrayOf(unq); ok {
		for _, elem := range agg.Elements {
			fw.lowerConstInto(entries, arr.Element, elem)
		}
		return
	}
	if sym, ok := underlyingAggregate(prog, unq); ok && sym.Kind == symbols.SymStruct {
		offset := 0
		for i, elem := range agg.Elements {
			if i >= len(sym.Struct.FieldTypes) {
				break
			}
			ft := sym.Struct.FieldTypes[i]
			al := alignOf(prog, fw.t.ptrSize, ft)
			aligned := roundUp(offset, al)
			if pad := aligned - offset; pad > 0 {
				*entries = append(*entries, ir.ConstEntry(pad, ir.IntConst(0, pad)))
			}
			fw.lowerConstInto(entries, ft, elem)
			offset = aligned + sizeOf(prog, fw.t.ptrSize, ft)
		}
		return
	}
	// Untyped brace list with no matching declared aggregate shape: lower
	// each element at its own inferred type in source order.
	for _, elem := range agg.Elements {
		fw.lowerConstInto(entries, prog.Exprs.Get(elem).ResultType, elem)
	}
}

// rodataString appends a fresh read-only data fragment holding text's bytes
// and returns its generated label.
func (fw *fileTranslator) rodataString(text source.StringID, wide bool) string {
	label := fw.t.labels.Data("str")
	raw := fw.t.prog.Strings.MustLookup(text)
	var entry ir.Entry
	if wide {
		entry = ir.ConstEntry(len(raw), ir.WideStringLit(raw))
	} else {
		entry = ir.ConstEntry(len(raw), ir.StringLit(raw))
	}
	fw.vec.Append(ir.Rodata(label, 1, []ir.Entry{entry}))
	return label
}
