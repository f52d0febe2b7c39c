package ast

import (
	"vane/internal/arena"
	"vane/internal/source"
	"vane/internal/token"
)

// TypeSynKind tags the shape of a syntactic type node (spec.md §3.2).
type TypeSynKind uint8

const (
	TypeSynKeyword TypeSynKind = iota
	TypeSynQualified
	TypeSynPointer
	TypeSynArray
	TypeSynFuncPointer
	TypeSynNamed
)

// TypeSyn is a syntactic type expression as written in source, before name
// resolution turns a TypeSynNamed into a reference to a concrete
// struct/union/enum/typedef.
type TypeSyn struct {
	Kind    TypeSynKind
	Span    source.Span
	Payload PayloadID
}

// TypeSynKeywordData names a builtin scalar keyword type.
type TypeSynKeywordData struct {
	Keyword token.Kind
}

// TypeSynQualifiedData wraps Base with a const/volatile qualifier.
type TypeSynQualifiedData struct {
	Qualifier token.Kind // token.KwConst or token.KwVolatile
	Base      TypeSynID
}

// TypeSynPointerData is `Base*`.
type TypeSynPointerData struct {
	Base TypeSynID
}

// TypeSynArrayData is `Base[Length]`; Length is a constant expression.
type TypeSynArrayData struct {
	Element TypeSynID
	Length  ExprID
}

// TypeSynFuncPointerData is a function-pointer type.
type TypeSynFuncPointerData struct {
	Return  TypeSynID
	Params  []TypeSynID
}

// TypeSynNamedData names a struct/union/enum/typedef by (possibly scoped)
// identifier; resolution fills Name.Segments[...].Resolved.
type TypeSynNamedData struct {
	Name ScopedId
}

// TypeSyns owns every syntactic type node and its per-kind payload.
type TypeSyns struct {
	Arena    *arena.Arena[TypeSyn]
	Keywords *arena.Arena[TypeSynKeywordData]
	Quals    *arena.Arena[TypeSynQualifiedData]
	Pointers *arena.Arena[TypeSynPointerData]
	Arrays   *arena.Arena[TypeSynArrayData]
	FnPtrs   *arena.Arena[TypeSynFuncPointerData]
	Named    *arena.Arena[TypeSynNamedData]
}

func NewTypeSyns(capHint uint32) *TypeSyns {
	return &TypeSyns{
		Arena:    arena.New[TypeSyn](capHint),
		Keywords: arena.New[TypeSynKeywordData](capHint),
		Quals:    arena.New[TypeSynQualifiedData](capHint / 4),
		Pointers: arena.New[TypeSynPointerData](capHint / 4),
		Arrays:   arena.New[TypeSynArrayData](capHint / 8),
		FnPtrs:   arena.New[TypeSynFuncPointerData](capHint / 16),
		Named:    arena.New[TypeSynNamedData](capHint / 2),
	}
}

func (t *TypeSyns) Get(id TypeSynID) *TypeSyn { return t.Arena.Get(arena.ID(id)) }

func (t *TypeSyns) new(kind TypeSynKind, sp source.Span, payload PayloadID) TypeSynID {
	return TypeSynID(t.Arena.Allocate(TypeSyn{Kind: kind, Span: sp, Payload: payload}))
}

func (t *TypeSyns) NewKeyword(sp source.Span, kw token.Kind) TypeSynID {
	p := t.Keywords.Allocate(TypeSynKeywordData{Keyword: kw})
	return t.new(TypeSynKeyword, sp, PayloadID(p))
}

func (t *TypeSyns) Keyword(id TypeSynID) (*TypeSynKeywordData, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynKeyword {
		return nil, false
	}
	return t.Keywords.Get(arena.ID(n.Payload)), true
}

func (t *TypeSyns) NewQualified(sp source.Span, qual token.Kind, base TypeSynID) TypeSynID {
	p := t.Quals.Allocate(TypeSynQualifiedData{Qualifier: qual, Base: base})
	return t.new(TypeSynQualified, sp, PayloadID(p))
}

func (t *TypeSyns) Qualified(id TypeSynID) (*TypeSynQualifiedData, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynQualified {
		return nil, false
	}
	return t.Quals.Get(arena.ID(n.Payload)), true
}

func (t *TypeSyns) NewPointer(sp source.Span, base TypeSynID) TypeSynID {
	p := t.Pointers.Allocate(TypeSynPointerData{Base: base})
	return t.new(TypeSynPointer, sp, PayloadID(p))
}

func (t *TypeSyns) Pointer(id TypeSynID) (*TypeSynPointerData, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynPointer {
		return nil, false
	}
	return t.Pointers.Get(arena.ID(n.Payload)), true
}

func (t *TypeSyns) NewArray(sp source.Span, elem TypeSynID, length ExprID) TypeSynID {
	p := t.Arrays.Allocate(TypeSynArrayData{Element: elem, Length: length})
	return t.new(TypeSynArray, sp, PayloadID(p))
}

func (t *TypeSyns) Array(id TypeSynID) (*TypeSynArrayData, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynArray {
		return nil, false
	}
	return t.Arrays.Get(arena.ID(n.Payload)), true
}

func (t *TypeSyns) NewFuncPointer(sp source.Span, ret TypeSynID, params []TypeSynID) TypeSynID {
	p := t.FnPtrs.Allocate(TypeSynFuncPointerData{Return: ret, Params: append([]TypeSynID(nil), params...)})
	return t.new(TypeSynFuncPointer, sp, PayloadID(p))
}

func (t *TypeSyns) FuncPointer(id TypeSynID) (*TypeSynFuncPointerData, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynFuncPointer {
		return nil, false
	}
	return t.FnPtrs.Get(arena.ID(n.Payload)), true
}

func (t *TypeSyns) NewNamed(sp source.Span, name ScopedId) TypeSynID {
	p := t.Named.Allocate(TypeSynNamedData{Name: name})
	return t.new(TypeSynNamed, sp, PayloadID(p))
}

func (t *TypeSyns) Named(id TypeSynID) (*TypeSynNamedData, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynNamed {
		return nil, false
	}
	return t.Named.Get(arena.ID(n.Payload)), true
}
