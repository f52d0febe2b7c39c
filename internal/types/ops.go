package types

import "vane/internal/token"

// Equal implements congruence modulo qualifier equality (spec.md §3.3):
// references compare by entry identity, function-pointer argument lists
// pointwise, and arrays include length.
func (in *Interner) Equal(a, b TypeID) bool {
	if a == b {
		return true
	}
	ta, ok := in.Lookup(a)
	if !ok {
		return false
	}
	tb, ok := in.Lookup(b)
	if !ok || ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case KindKeyword:
		ka, _ := in.KeywordOf(a)
		kb, _ := in.KeywordOf(b)
		return ka.Keyword == kb.Keyword
	case KindQualified:
		qa, _ := in.QualifiedOf(a)
		qb, _ := in.QualifiedOf(b)
		return qa.Const == qb.Const && qa.Volatile == qb.Volatile && in.Equal(qa.Base, qb.Base)
	case KindPointer:
		pa, _ := in.PointerOf(a)
		pb, _ := in.PointerOf(b)
		return in.Equal(pa.Base, pb.Base)
	case KindArray:
		aa, _ := in.ArrayOf(a)
		ab, _ := in.ArrayOf(b)
		return aa.Length == ab.Length && in.Equal(aa.Element, ab.Element)
	case KindFunPtr:
		fa, _ := in.FunPtrOf(a)
		fb, _ := in.FunPtrOf(b)
		if len(fa.Args) != len(fb.Args) || !in.Equal(fa.Return, fb.Return) {
			return false
		}
		for i := range fa.Args {
			if !in.Equal(fa.Args[i], fb.Args[i]) {
				return false
			}
		}
		return true
	case KindReference:
		ra, _ := in.ReferenceOf(a)
		rb, _ := in.ReferenceOf(b)
		return ra.Entry == rb.Entry
	case KindAggregateInit:
		aa, _ := in.AggregateInitOf(a)
		ab, _ := in.AggregateInitOf(b)
		if len(aa.Elements) != len(ab.Elements) {
			return false
		}
		for i := range aa.Elements {
			if !in.Equal(aa.Elements[i], ab.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Unqualified strips any Qualified wrapper, returning the base type.
func (in *Interner) Unqualified(id TypeID) TypeID {
	if q, ok := in.QualifiedOf(id); ok {
		return q.Base
	}
	return id
}

// IsConstQualified reports whether id is (possibly transitively) const.
func (in *Interner) IsConstQualified(id TypeID) bool {
	q, ok := in.QualifiedOf(id)
	return ok && q.Const
}

func (in *Interner) keywordKind(id TypeID) (token.Kind, bool) {
	k, ok := in.KeywordOf(id)
	if !ok {
		return token.Invalid, false
	}
	return k.Keyword, true
}

// ImplicitlyConvertible implements spec.md §4.3's silent-conversion set:
// identity; same-sign integer widening; unsigned→signed of strictly larger
// width; any integer to any float (widening); float widening; any pointer
// to/from the generic null; T to const T; T* to const T*; aggregate-init to
// matching struct/array.
func (in *Interner) ImplicitlyConvertible(from, to TypeID) bool {
	if in.Equal(from, to) {
		return true
	}

	// T to const T (qualifier add-only, never drop volatile/const mismatch
	// the other way).
	if toQ, ok := in.QualifiedOf(to); ok {
		if in.Equal(from, toQ.Base) {
			return true
		}
		if fromQ, ok := in.QualifiedOf(from); ok {
			if in.Equal(fromQ.Base, toQ.Base) && (toQ.Const || !fromQ.Const) && (toQ.Volatile || !fromQ.Volatile) {
				return true
			}
		}
	}

	// T* to const T*; any pointer to/from the generic null pointer (a
	// Pointer type whose Base is NoTypeID — produced by a `null` literal).
	if pf, ok := in.PointerOf(from); ok {
		if pt, ok := in.PointerOf(to); ok {
			if pf.Base == NoTypeID || pt.Base == NoTypeID {
				return true
			}
			return in.ImplicitlyConvertible(pf.Base, pt.Base) && in.isAddOnlyQualify(pf.Base, pt.Base)
		}
	}

	fromKw, fromIsKw := in.keywordKind(from)
	toKw, toIsKw := in.keywordKind(to)
	if fromIsKw && toIsKw {
		switch {
		case IsInteger(fromKw) && IsInteger(toKw):
			fw, tw := Width(fromKw), Width(toKw)
			if IsUnsigned(fromKw) == IsUnsigned(toKw) {
				return tw >= fw // same-sign widening
			}
			// unsigned -> signed of strictly larger width
			return IsUnsigned(fromKw) && !IsUnsigned(toKw) && tw > fw
		case IsInteger(fromKw) && IsFloat(toKw):
			return true
		case IsFloat(fromKw) && IsFloat(toKw):
			return Width(toKw) >= Width(fromKw)
		}
	}

	// Aggregate-init to array: every element must implicitly convert to the
	// array's element type. Aggregate-init to struct needs the struct's
	// field types from the symbol table, so the checker handles that case.
	if agg, ok := in.AggregateInitOf(from); ok {
		if arr, ok := in.ArrayOf(to); ok {
			for _, elem := range agg.Elements {
				if !in.ImplicitlyConvertible(elem, arr.Element) {
					return false
				}
			}
			return true
		}
	}

	return false
}

func (in *Interner) isAddOnlyQualify(fromBase, toBase TypeID) bool {
	if in.Equal(fromBase, toBase) {
		return true
	}
	toQ, ok := in.QualifiedOf(toBase)
	if !ok {
		return false
	}
	fromQ, _ := in.QualifiedOf(fromBase)
	return in.Equal(in.Unqualified(fromBase), toQ.Base) && (toQ.Const || !fromQ.Const) && (toQ.Volatile || !fromQ.Volatile)
}

// SizeOf returns t's size in bytes, driven by the target-size table
// (spec.md §6.1) for keywords and structurally for compounds. ptrSize is
// the target's pointer width (spec.md §6.1: "pointer ≤ long").
func (in *Interner) SizeOf(t TypeID, ptrSize int) int {
	tt, ok := in.Lookup(t)
	if !ok {
		return 0
	}
	switch tt.Kind {
	case KindKeyword:
		kw, _ := in.KeywordOf(t)
		return Width(kw.Keyword)
	case KindQualified:
		q, _ := in.QualifiedOf(t)
		return in.SizeOf(q.Base, ptrSize)
	case KindPointer, KindFunPtr:
		return ptrSize
	case KindArray:
		a, _ := in.ArrayOf(t)
		elemSize := in.SizeOf(a.Element, ptrSize)
		elemAlign := in.AlignOf(a.Element, ptrSize)
		stride := roundUp(elemSize, elemAlign)
		return stride * int(a.Length)
	case KindReference:
		// Resolved by the checker/translator via the symbol table's
		// struct/union/enum layout; internal/types alone only owns the
		// scalar and compound-syntax shapes above.
		return 0
	default:
		return 0
	}
}

// AlignOf returns t's required alignment in bytes.
func (in *Interner) AlignOf(t TypeID, ptrSize int) int {
	tt, ok := in.Lookup(t)
	if !ok {
		return 1
	}
	switch tt.Kind {
	case KindKeyword:
		kw, _ := in.KeywordOf(t)
		w := Width(kw.Keyword)
		if w == 0 {
			return 1
		}
		return w
	case KindQualified:
		q, _ := in.QualifiedOf(t)
		return in.AlignOf(q.Base, ptrSize)
	case KindPointer, KindFunPtr:
		return ptrSize
	case KindArray:
		a, _ := in.ArrayOf(t)
		return in.AlignOf(a.Element, ptrSize)
	default:
		return 1
	}
}

// KindOf reports the allocation-hint category the IR uses to place a value
// of type t (spec.md §3.3).
func (in *Interner) KindOf(t TypeID) ValueClass {
	tt, ok := in.Lookup(t)
	if !ok {
		return ClassGeneralPurpose
	}
	switch tt.Kind {
	case KindKeyword:
		kw, _ := in.KeywordOf(t)
		if IsFloat(kw.Keyword) {
			return ClassFloatingPoint
		}
		return ClassGeneralPurpose
	case KindQualified:
		q, _ := in.QualifiedOf(t)
		return in.KindOf(q.Base)
	case KindArray:
		return ClassMemory
	default:
		return ClassGeneralPurpose
	}
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
