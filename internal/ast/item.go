package ast

import (
	"vane/internal/arena"
	"vane/internal/source"
)

// ItemKind tags the shape of a top-level body (spec.md §3.2).
type ItemKind uint8

const (
	ItemFunctionDefn ItemKind = iota
	ItemFunctionDecl
	ItemVar
	ItemOpaque
	ItemStruct
	ItemUnion
	ItemEnum
	ItemTypedef
)

// Item is one top-level declaration or definition.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// FunctionDefnData is a function definition: a declared signature plus a
// body and the symbol table its parameters and locals populate.
type FunctionDefnData struct {
	ReturnType  TypeSynID
	Name        Identifier
	ArgTypes    []TypeSynID
	ArgNames    []Identifier // may be shorter than ArgTypes; unnamed params omitted
	ArgDefaults []ExprID     // NoExprID per parameter without a default
	Body        StmtID       // a CompoundStmt
	LocalScope  ScopeRef
}

// FunctionDeclData is a function declaration with no body (legal in
// declaration files, and as a forward declaration in code files).
type FunctionDeclData struct {
	ReturnType  TypeSynID
	Name        Identifier
	ArgTypes    []TypeSynID
	ArgNames    []Identifier
	ArgDefaults []ExprID
}

// VarData is a variable definition or declaration; one node names one or
// more variables of the same type, each with its own optional initializer.
type VarData struct {
	Type         TypeSynID
	Names        []Identifier
	Initializers []ExprID // NoExprID per name without an initializer
}

// OpaqueData forward-declares an aggregate name without defining its shape.
type OpaqueData struct {
	Name Identifier
}

// StructData / UnionData define an aggregate's field or option list.
type StructData struct {
	Name       Identifier
	FieldTypes []TypeSynID
	FieldNames []Identifier
}

type UnionData struct {
	Name        Identifier
	OptionTypes []TypeSynID
	OptionNames []Identifier
}

// EnumConstData is one enum constant, with an optional literal initializer.
type EnumConstData struct {
	Name Identifier
	Init ExprID // NoExprID if unspecified
}

type EnumData struct {
	Name      Identifier
	Constants []EnumConstData
}

type TypedefData struct {
	Target TypeSynID
	Name   Identifier
}

// Items owns every top-level body and its per-kind payload.
type Items struct {
	Arena     *arena.Arena[Item]
	FnDefns   *arena.Arena[FunctionDefnData]
	FnDecls   *arena.Arena[FunctionDeclData]
	Vars      *arena.Arena[VarData]
	Opaques   *arena.Arena[OpaqueData]
	Structs   *arena.Arena[StructData]
	Unions    *arena.Arena[UnionData]
	Enums     *arena.Arena[EnumData]
	Typedefs  *arena.Arena[TypedefData]
}

func NewItems(capHint uint32) *Items {
	return &Items{
		Arena:    arena.New[Item](capHint),
		FnDefns:  arena.New[FunctionDefnData](capHint / 4),
		FnDecls:  arena.New[FunctionDeclData](capHint / 4),
		Vars:     arena.New[VarData](capHint / 2),
		Opaques:  arena.New[OpaqueData](capHint / 8),
		Structs:  arena.New[StructData](capHint / 8),
		Unions:   arena.New[UnionData](capHint / 8),
		Enums:    arena.New[EnumData](capHint / 8),
		Typedefs: arena.New[TypedefData](capHint / 8),
	}
}

func (it *Items) Get(id ItemID) *Item { return it.Arena.Get(arena.ID(id)) }

func (it *Items) new(kind ItemKind, sp source.Span, payload PayloadID) ItemID {
	return ItemID(it.Arena.Allocate(Item{Kind: kind, Span: sp, Payload: payload}))
}

func (it *Items) NewFunctionDefn(sp source.Span, data FunctionDefnData) ItemID {
	p := it.FnDefns.Allocate(data)
	return it.new(ItemFunctionDefn, sp, PayloadID(p))
}

func (it *Items) FunctionDefn(id ItemID) (*FunctionDefnData, bool) {
	n := it.Get(id)
	if n == nil || n.Kind != ItemFunctionDefn {
		return nil, false
	}
	return it.FnDefns.Get(arena.ID(n.Payload)), true
}

func (it *Items) NewFunctionDecl(sp source.Span, data FunctionDeclData) ItemID {
	p := it.FnDecls.Allocate(data)
	return it.new(ItemFunctionDecl, sp, PayloadID(p))
}

func (it *Items) FunctionDecl(id ItemID) (*FunctionDeclData, bool) {
	n := it.Get(id)
	if n == nil || n.Kind != ItemFunctionDecl {
		return nil, false
	}
	return it.FnDecls.Get(arena.ID(n.Payload)), true
}

func (it *Items) NewVar(sp source.Span, data VarData) ItemID {
	p := it.Vars.Allocate(data)
	return it.new(ItemVar, sp, PayloadID(p))
}

func (it *Items) Var(id ItemID) (*VarData, bool) {
	n := it.Get(id)
	if n == nil || n.Kind != ItemVar {
		return nil, false
	}
	return it.Vars.Get(arena.ID(n.Payload)), true
}

func (it *Items) NewOpaque(sp source.Span, data OpaqueData) ItemID {
	p := it.Opaques.Allocate(data)
	return it.new(ItemOpaque, sp, PayloadID(p))
}

func (it *Items) Opaque(id ItemID) (*OpaqueData, bool) {
	n := it.Get(id)
	if n == nil || n.Kind != ItemOpaque {
		return nil, false
	}
	return it.Opaques.Get(arena.ID(n.Payload)), true
}

func (it *Items) NewStruct(sp source.Span, data StructData) ItemID {
	p := it.Structs.Allocate(data)
	return it.new(ItemStruct, sp, PayloadID(p))
}

func (it *Items) Struct(id ItemID) (*StructData, bool) {
	n := it.Get(id)
	if n == nil || n.Kind != ItemStruct {
		return nil, false
	}
	return it.Structs.Get(arena.ID(n.Payload)), true
}

func (it *Items) NewUnion(sp source.Span, data UnionData) ItemID {
	p := it.Unions.Allocate(data)
	return it.new(ItemUnion, sp, PayloadID(p))
}

func (it *Items) Union(id ItemID) (*UnionData, bool) {
	n := it.Get(id)
	if n == nil || n.Kind != ItemUnion {
		return nil, false
	}
	return it.Unions.Get(arena.ID(n.Payload)), true
}

func (it *Items) NewEnum(sp source.Span, data EnumData) ItemID {
	p := it.Enums.Allocate(data)
	return it.new(ItemEnum, sp, PayloadID(p))
}

func (it *Items) Enum(id ItemID) (*EnumData, bool) {
	n := it.Get(id)
	if n == nil || n.Kind != ItemEnum {
		return nil, false
	}
	return it.Enums.Get(arena.ID(n.Payload)), true
}

func (it *Items) NewTypedef(sp source.Span, data TypedefData) ItemID {
	p := it.Typedefs.Allocate(data)
	return it.new(ItemTypedef, sp, PayloadID(p))
}

func (it *Items) Typedef(id ItemID) (*TypedefData, bool) {
	n := it.Get(id)
	if n == nil || n.Kind != ItemTypedef {
		return nil, false
	}
	return it.Typedefs.Get(arena.ID(n.Payload)), true
}
