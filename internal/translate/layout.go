package translate

import (
	"vane/internal/source"
	"vane/internal/symbols"
	"vane/internal/token"
	"vane/internal/types"
)

// sizeOf extends types.Interner.SizeOf with the KindReference layouts
// internal/types deliberately leaves to "the checker/translator via the
// symbol table" (spec.md §4.4's BSS/data sizing, §4.5's slot allocation):
// struct, union, enum, and typedef.
func sizeOf(prog *symbols.Program, ptrSize int, t types.TypeID) int {
	in := prog.Types
	if sym, ok := referenceSymbol(prog, t); ok {
		switch sym.Kind {
		case symbols.SymStruct:
			return structLayout(prog, ptrSize, sym).size
		case symbols.SymUnion:
			return unionLayout(prog, ptrSize, sym).size
		case symbols.SymEnum:
			return types.Width(token.KwInt)
		case symbols.SymTypedef:
			return sizeOf(prog, ptrSize, sym.Typedef.Target)
		}
		return 0
	}
	return in.SizeOf(t, ptrSize)
}

// alignOf is sizeOf's alignment counterpart.
func alignOf(prog *symbols.Program, ptrSize int, t types.TypeID) int {
	in := prog.Types
	if sym, ok := referenceSymbol(prog, t); ok {
		switch sym.Kind {
		case symbols.SymStruct:
			return structLayout(prog, ptrSize, sym).align
		case symbols.SymUnion:
			return unionLayout(prog, ptrSize, sym).align
		case symbols.SymEnum:
			return types.Width(token.KwInt)
		case symbols.SymTypedef:
			return alignOf(prog, ptrSize, sym.Typedef.Target)
		}
		return 1
	}
	return in.AlignOf(t, ptrSize)
}

// referenceSymbol recovers the TypeDefinition symbol a (possibly
// const-qualified) KindReference type names, typedefs included — resolve_
// types.go wraps a typedef's own type the same way it wraps a struct/union/
// enum, so callers that want the real aggregate shape must unwrap it here
// rather than assuming every reference is itself an aggregate.
func referenceSymbol(prog *symbols.Program, t types.TypeID) (*symbols.Symbol, bool) {
	ref, ok := prog.Types.ReferenceOf(prog.Types.Unqualified(t))
	if !ok {
		return nil, false
	}
	sym := prog.Table.Symbols.Get(symbols.FromEntryRef(ref.Entry))
	if sym == nil {
		return nil, false
	}
	return sym, true
}

// underlyingAggregate follows a chain of typedefs down to the struct/union
// symbol backing a type, for member-access offset lookups (spec.md §4.4's
// `a.f` / `a->f` lowering needs the real field list, not a typedef name).
func underlyingAggregate(prog *symbols.Program, t types.TypeID) (*symbols.Symbol, bool) {
	sym, ok := referenceSymbol(prog, t)
	for ok && sym.Kind == symbols.SymTypedef {
		sym, ok = referenceSymbol(prog, sym.Typedef.Target)
	}
	if !ok || (sym.Kind != symbols.SymStruct && sym.Kind != symbols.SymUnion) {
		return nil, false
	}
	return sym, true
}

type aggLayout struct {
	size  int
	align int
}

// structLayout lays out fields in declaration order, each at the next
// alignOf-rounded offset, with the whole struct's size rounded up to its
// widest field's alignment (spec.md §4.4's "padding implied by alignOf").
func structLayout(prog *symbols.Program, ptrSize int, sym *symbols.Symbol) aggLayout {
	offset, maxAlign := 0, 1
	for _, ft := range sym.Struct.FieldTypes {
		al := alignOf(prog, ptrSize, ft)
		if al > maxAlign {
			maxAlign = al
		}
		offset = roundUp(offset, al) + sizeOf(prog, ptrSize, ft)
	}
	return aggLayout{size: roundUp(offset, maxAlign), align: maxAlign}
}

// unionLayout gives every option offset 0; the union's size and alignment
// are the widest option's.
func unionLayout(prog *symbols.Program, ptrSize int, sym *symbols.Symbol) aggLayout {
	size, align := 0, 1
	for _, ot := range sym.Union.OptionTypes {
		if s := sizeOf(prog, ptrSize, ot); s > size {
			size = s
		}
		if a := alignOf(prog, ptrSize, ot); a > align {
			align = a
		}
	}
	return aggLayout{size: roundUp(size, align), align: align}
}

// fieldOffset returns the byte offset of sym's field/option at index,
// recomputing the same left-to-right walk structLayout does so the two
// never disagree.
func fieldOffset(prog *symbols.Program, ptrSize int, sym *symbols.Symbol, index int) int {
	if sym.Kind == symbols.SymUnion {
		return 0
	}
	offset := 0
	for i, ft := range sym.Struct.FieldTypes {
		al := alignOf(prog, ptrSize, ft)
		offset = roundUp(offset, al)
		if i == index {
			return offset
		}
		offset += sizeOf(prog, ptrSize, ft)
	}
	return offset
}

// fieldIndex finds field/option name's position, or -1 if absent (the
// checker has already rejected this case; the translator trusts it and
// never reports its own diagnostics).
func fieldIndex(sym *symbols.Symbol, name source.StringID) int {
	names := sym.Struct.FieldNames
	if sym.Kind == symbols.SymUnion {
		names = sym.Union.OptionNames
	}
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	if r := n % align; r != 0 {
		return n + (align - r)
	}
	return n
}
