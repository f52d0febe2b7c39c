package check

import (
	"vane/internal/ast"
	"vane/internal/symbols"
	"vane/internal/types"
)

// convertibleForInit extends types.Interner.ImplicitlyConvertible with the
// one structural case it defers to the checker: an untyped aggregate-init
// whose element types are pairwise implicitly convertible to a struct's
// field types (spec.md §4.3: "aggregate-init(T1,...,Tn) ... implicitly
// converts to a matching struct or array type").
func (c *Checker) convertibleForInit(from, to types.TypeID, fromExpr ast.ExprID) bool {
	if c.prog.Types.ImplicitlyConvertible(from, to) {
		return true
	}
	return c.aggregateInitConvertibleToStruct(fromExpr, to)
}

func (c *Checker) aggregateInitConvertibleToStruct(fromExpr ast.ExprID, to types.TypeID) bool {
	agg, ok := c.prog.Exprs.AggregateInit(fromExpr)
	if !ok {
		return false
	}
	structSym := c.structSymbolFor(to)
	if structSym == nil || structSym.Kind != symbols.SymStruct {
		return false
	}
	fieldTypes := structSym.Struct.FieldTypes
	if len(agg.Elements) != len(fieldTypes) {
		return false
	}
	for i, elem := range agg.Elements {
		elemType := c.prog.Exprs.Get(elem).ResultType
		if !c.convertibleForInit(elemType, fieldTypes[i], elem) {
			return false
		}
	}
	return true
}

func (c *Checker) structSymbolFor(t types.TypeID) *symbols.Symbol {
	ref, ok := c.prog.Types.ReferenceOf(t)
	if !ok {
		return nil
	}
	return c.prog.Table.Symbols.Get(symbols.FromEntryRef(ref.Entry))
}

// explicitlyConvertible implements cast(T)'s legality check (spec.md §4.3):
// a superset of implicit convertibility that additionally permits integer
// narrowing (any integer to any integer), float narrowing, integer<->float
// in both directions, and pointer<->integer / pointer<->pointer conversions.
func (c *Checker) explicitlyConvertible(from, to types.TypeID) bool {
	in := c.prog.Types
	if in.ImplicitlyConvertible(from, to) || in.ImplicitlyConvertible(to, from) {
		return true
	}
	fromUnq, toUnq := in.Unqualified(from), in.Unqualified(to)

	if _, fromPtr := in.PointerOf(fromUnq); fromPtr {
		if _, toPtr := in.PointerOf(toUnq); toPtr {
			return true
		}
		if toKw, ok := in.KeywordOf(toUnq); ok && types.IsInteger(toKw.Keyword) {
			return true
		}
	}
	if _, toPtr := in.PointerOf(toUnq); toPtr {
		if fromKw, ok := in.KeywordOf(fromUnq); ok && types.IsInteger(fromKw.Keyword) {
			return true
		}
	}

	fromKw, fromIsKw := in.KeywordOf(fromUnq)
	toKw, toIsKw := in.KeywordOf(toUnq)
	if fromIsKw && toIsKw {
		fromNumeric := types.IsInteger(fromKw.Keyword) || types.IsFloat(fromKw.Keyword)
		toNumeric := types.IsInteger(toKw.Keyword) || types.IsFloat(toKw.Keyword)
		return fromNumeric && toNumeric
	}
	return false
}

// commonType implements spec.md §4.3's numeric promotion rule shared by
// arithmetic, bitwise, and comparison operators: if either side is
// floating, widen to the wider float; otherwise both sides must be integer
// and the result widens to the larger width, preferring the unsigned side
// on a tie.
func (c *Checker) commonType(a, b types.TypeID) (types.TypeID, bool) {
	in := c.prog.Types
	aKw, aOk := in.KeywordOf(in.Unqualified(a))
	bKw, bOk := in.KeywordOf(in.Unqualified(b))
	if !aOk || !bOk {
		return types.NoTypeID, false
	}
	af, bf := types.IsFloat(aKw.Keyword), types.IsFloat(bKw.Keyword)
	if af || bf {
		switch {
		case af && bf:
			if types.Width(aKw.Keyword) >= types.Width(bKw.Keyword) {
				return in.Keyword(aKw.Keyword), true
			}
			return in.Keyword(bKw.Keyword), true
		case af:
			return in.Keyword(aKw.Keyword), true
		default:
			return in.Keyword(bKw.Keyword), true
		}
	}
	if !types.IsInteger(aKw.Keyword) || !types.IsInteger(bKw.Keyword) {
		return types.NoTypeID, false
	}
	aw, bw := types.Width(aKw.Keyword), types.Width(bKw.Keyword)
	switch {
	case aw > bw:
		return in.Keyword(aKw.Keyword), true
	case bw > aw:
		return in.Keyword(bKw.Keyword), true
	case types.IsUnsigned(aKw.Keyword):
		return in.Keyword(aKw.Keyword), true
	default:
		return in.Keyword(bKw.Keyword), true
	}
}

func (c *Checker) isIntegerType(t types.TypeID) bool {
	kw, ok := c.prog.Types.KeywordOf(c.prog.Types.Unqualified(t))
	return ok && types.IsInteger(kw.Keyword)
}

func (c *Checker) isNumericType(t types.TypeID) bool {
	kw, ok := c.prog.Types.KeywordOf(c.prog.Types.Unqualified(t))
	return ok && (types.IsInteger(kw.Keyword) || types.IsFloat(kw.Keyword))
}

// overloadStatus reports the outcome of resolving a call's argument list
// against a function group's overloads (spec.md line 173).
type overloadStatus uint8

const (
	overloadFound overloadStatus = iota
	overloadNone
	overloadAmbiguous
)

// resolveOverload selects the unique overload whose (possibly
// default-filled) argument list is implicitly convertible from argTypes.
func (c *Checker) resolveOverload(group *symbols.Symbol, argTypes []types.TypeID) (symbols.Overload, overloadStatus) {
	var match symbols.Overload
	found := 0
	for _, ov := range group.FuncGroup.Overloads {
		if c.overloadAccepts(ov, argTypes) {
			match = ov
			found++
		}
	}
	switch {
	case found == 1:
		return match, overloadFound
	case found == 0:
		return symbols.Overload{}, overloadNone
	default:
		return symbols.Overload{}, overloadAmbiguous
	}
}

func (c *Checker) overloadAccepts(ov symbols.Overload, argTypes []types.TypeID) bool {
	minArgs := c.minArgsFor(ov)
	if len(argTypes) < minArgs || len(argTypes) > len(ov.ArgTypes) {
		return false
	}
	for i, at := range argTypes {
		if !c.prog.Types.ImplicitlyConvertible(at, ov.ArgTypes[i]) {
			return false
		}
	}
	return true
}

// minArgsFor returns the count of leading parameters with no default value
// (spec.md line 173: "default argument values fill trailing positions").
func (c *Checker) minArgsFor(ov symbols.Overload) int {
	defaults := c.argDefaultsFor(ov.Item)
	if defaults == nil {
		return len(ov.ArgTypes)
	}
	min := len(ov.ArgTypes)
	for i := len(defaults) - 1; i >= 0; i-- {
		if !defaults[i].IsValid() {
			break
		}
		min = i
	}
	return min
}

func (c *Checker) argDefaultsFor(item ast.ItemID) []ast.ExprID {
	it := c.prog.Items.Get(item)
	if it == nil {
		return nil
	}
	switch it.Kind {
	case ast.ItemFunctionDefn:
		data, _ := c.prog.Items.FunctionDefn(item)
		return data.ArgDefaults
	case ast.ItemFunctionDecl:
		data, _ := c.prog.Items.FunctionDecl(item)
		return data.ArgDefaults
	default:
		return nil
	}
}
