// Package types implements the semantic type system the checker and
// translator share (spec.md §3.3): a tagged-variant Type owned by an
// arena.Arena, with the structural operations (equal, implicitlyConvertible,
// sizeOf/alignOf, kindOf) required of it.
package types

import (
	"vane/internal/arena"
	"vane/internal/source"
	"vane/internal/token"
)

// TypeID identifies a semantic type.
type TypeID uint32

// NoTypeID marks the absence of a resolved type.
const NoTypeID TypeID = 0

func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind tags the shape of a Type (spec.md §3.3).
type Kind uint8

const (
	KindKeyword Kind = iota
	KindQualified
	KindPointer
	KindArray
	KindFunPtr
	KindAggregateInit
	KindReference
)

// ValueClass is the allocation-hint category the IR uses to pick a
// register/temp class for a value of this type (spec.md §3.3's kindOf).
type ValueClass uint8

const (
	ClassGeneralPurpose ValueClass = iota
	ClassFloatingPoint
	ClassMemory
)

// EntryRef is an opaque handle to a symbols.SymbolTable entry identity.
// internal/types never imports internal/symbols (symbols already imports
// types for field/return/argument types), so Reference types compare
// entries by this numeric identity rather than a pointer.
type EntryRef uint32

// NoEntryRef marks the absence of a resolved entry.
const NoEntryRef EntryRef = 0

// Type is a semantic type: one shape tag plus a per-kind payload slot.
type Type struct {
	Kind    Kind
	Payload uint32 // index into the matching per-kind arena below
}

type KeywordData struct{ Keyword token.Kind }

type QualifiedData struct {
	Base     TypeID
	Const    bool
	Volatile bool
}

type PointerData struct{ Base TypeID }

type ArrayData struct {
	Element TypeID
	Length  uint64
}

type FunPtrData struct {
	Return TypeID
	Args   []TypeID
}

// AggregateInitData is produced only by the checker for an untyped `{…}`
// literal before it's matched against a declared aggregate type.
type AggregateInitData struct{ Elements []TypeID }

type ReferenceData struct {
	Entry EntryRef
	Name  source.StringID
}

// Interner owns every Type allocated during one compilation, plus the
// per-kind payload arenas and a structural cache so equal shapes share one
// TypeID (needed for equal() to reduce to identity in the common case).
type Interner struct {
	arena *arena.Arena[Type]

	keywords   *arena.Arena[KeywordData]
	qualifieds *arena.Arena[QualifiedData]
	pointers   *arena.Arena[PointerData]
	arrays     *arena.Arena[ArrayData]
	funPtrs    *arena.Arena[FunPtrData]
	aggInits   *arena.Arena[AggregateInitData]
	references *arena.Arena[ReferenceData]

	keywordCache   map[token.Kind]TypeID
	qualifiedCache map[QualifiedData]TypeID
	pointerCache   map[TypeID]TypeID
	arrayCache     map[ArrayData]TypeID
	referenceCache map[EntryRef]TypeID
}

func NewInterner() *Interner {
	return &Interner{
		arena:          arena.New[Type](256),
		keywords:       arena.New[KeywordData](16),
		qualifieds:     arena.New[QualifiedData](32),
		pointers:       arena.New[PointerData](64),
		arrays:         arena.New[ArrayData](32),
		funPtrs:        arena.New[FunPtrData](32),
		aggInits:       arena.New[AggregateInitData](16),
		references:     arena.New[ReferenceData](64),
		keywordCache:   make(map[token.Kind]TypeID, 16),
		qualifiedCache: make(map[QualifiedData]TypeID, 32),
		pointerCache:   make(map[TypeID]TypeID, 64),
		arrayCache:     make(map[ArrayData]TypeID, 32),
		referenceCache: make(map[EntryRef]TypeID, 64),
	}
}

func (in *Interner) Lookup(id TypeID) (Type, bool) {
	t := in.arena.Get(arena.ID(id))
	if t == nil {
		return Type{}, false
	}
	return *t, true
}

func (in *Interner) new(kind Kind, payload uint32) TypeID {
	return TypeID(in.arena.Allocate(Type{Kind: kind, Payload: payload}))
}

// Keyword returns the (cached) Type for a builtin scalar keyword.
func (in *Interner) Keyword(k token.Kind) TypeID {
	if id, ok := in.keywordCache[k]; ok {
		return id
	}
	p := in.keywords.Allocate(KeywordData{Keyword: k})
	id := in.new(KindKeyword, uint32(p))
	in.keywordCache[k] = id
	return id
}

func (in *Interner) KeywordOf(id TypeID) (KeywordData, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindKeyword {
		return KeywordData{}, false
	}
	return *in.keywords.Get(arena.ID(t.Payload)), true
}

// Qualified returns base wrapped in const/volatile, flattening nested
// qualification onto a single base (spec.md §3.3: "qualifiers never nest").
func (in *Interner) Qualified(base TypeID, isConst, isVolatile bool) TypeID {
	if q, ok := in.QualifiedOf(base); ok {
		base = q.Base
		isConst = isConst || q.Const
		isVolatile = isVolatile || q.Volatile
	}
	key := QualifiedData{Base: base, Const: isConst, Volatile: isVolatile}
	if id, ok := in.qualifiedCache[key]; ok {
		return id
	}
	p := in.qualifieds.Allocate(key)
	id := in.new(KindQualified, uint32(p))
	in.qualifiedCache[key] = id
	return id
}

func (in *Interner) QualifiedOf(id TypeID) (QualifiedData, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindQualified {
		return QualifiedData{}, false
	}
	return *in.qualifieds.Get(arena.ID(t.Payload)), true
}

func (in *Interner) Pointer(base TypeID) TypeID {
	if id, ok := in.pointerCache[base]; ok {
		return id
	}
	p := in.pointers.Allocate(PointerData{Base: base})
	id := in.new(KindPointer, uint32(p))
	in.pointerCache[base] = id
	return id
}

func (in *Interner) PointerOf(id TypeID) (PointerData, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindPointer {
		return PointerData{}, false
	}
	return *in.pointers.Get(arena.ID(t.Payload)), true
}

func (in *Interner) Array(elem TypeID, length uint64) TypeID {
	key := ArrayData{Element: elem, Length: length}
	if id, ok := in.arrayCache[key]; ok {
		return id
	}
	p := in.arrays.Allocate(key)
	id := in.new(KindArray, uint32(p))
	in.arrayCache[key] = id
	return id
}

func (in *Interner) ArrayOf(id TypeID) (ArrayData, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindArray {
		return ArrayData{}, false
	}
	return *in.arrays.Get(arena.ID(t.Payload)), true
}

// FunPtr is not cached: argument-list equality is decided structurally by
// equal(), so two distinct allocations with the same shape still compare
// equal without needing identity.
func (in *Interner) FunPtr(ret TypeID, args []TypeID) TypeID {
	p := in.funPtrs.Allocate(FunPtrData{Return: ret, Args: append([]TypeID(nil), args...)})
	return in.new(KindFunPtr, uint32(p))
}

func (in *Interner) FunPtrOf(id TypeID) (FunPtrData, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindFunPtr {
		return FunPtrData{}, false
	}
	return *in.funPtrs.Get(arena.ID(t.Payload)), true
}

func (in *Interner) AggregateInit(elems []TypeID) TypeID {
	p := in.aggInits.Allocate(AggregateInitData{Elements: append([]TypeID(nil), elems...)})
	return in.new(KindAggregateInit, uint32(p))
}

func (in *Interner) AggregateInitOf(id TypeID) (AggregateInitData, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindAggregateInit {
		return AggregateInitData{}, false
	}
	return *in.aggInits.Get(arena.ID(t.Payload)), true
}

func (in *Interner) Reference(entry EntryRef, name source.StringID) TypeID {
	if id, ok := in.referenceCache[entry]; ok {
		return id
	}
	p := in.references.Allocate(ReferenceData{Entry: entry, Name: name})
	id := in.new(KindReference, uint32(p))
	in.referenceCache[entry] = id
	return id
}

func (in *Interner) ReferenceOf(id TypeID) (ReferenceData, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindReference {
		return ReferenceData{}, false
	}
	return *in.references.Get(arena.ID(t.Payload)), true
}
