package translate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vane/internal/source"
	"vane/internal/symbols"
	"vane/internal/token"
	"vane/internal/types"
)

func TestRoundUp(t *testing.T) {
	require.Equal(t, 0, roundUp(0, 4))
	require.Equal(t, 4, roundUp(1, 4))
	require.Equal(t, 8, roundUp(8, 4))
	require.Equal(t, 3, roundUp(3, 1))
}

// declareStruct builds a SymStruct symbol directly in the table (no AST,
// no reference type indirection needed) and returns the reference type
// pointing at it, so layout math can be tested against sizeOf/alignOf
// without running name resolution.
func declareStruct(t *testing.T, f *fixture, name string, fieldNames []string, fieldTypes []types.TypeID) types.TypeID {
	t.Helper()
	nameID := f.strings.Intern(name)
	names := make([]source.StringID, len(fieldNames))
	for i, n := range fieldNames {
		names[i] = f.strings.Intern(n)
	}
	id, ok := f.res.Declare(nameID, source.Span{}, symbols.SymStruct, func(s *symbols.Symbol) {
		s.Struct = symbols.StructData{FieldNames: names, FieldTypes: fieldTypes}
	})
	require.True(t, ok)
	return f.typesIn.Reference(types.EntryRef(id), nameID)
}

func TestStructLayoutPadsBetweenFields(t *testing.T) {
	f := newFixture(t)
	charT := f.typesIn.Keyword(token.KwChar)
	intT := f.typesIn.Keyword(token.KwInt)

	// struct { char c; int x; } — c at 0, 3 bytes padding, x at 4, size 8.
	structT := declareStruct(t, f, "Pair", []string{"c", "x"}, []types.TypeID{charT, intT})

	require.Equal(t, 8, sizeOf(f.prog, 8, structT))
	require.Equal(t, 4, alignOf(f.prog, 8, structT))

	sym, ok := underlyingAggregate(f.prog, structT)
	require.True(t, ok)
	require.Equal(t, 0, fieldOffset(f.prog, 8, sym, 0))
	require.Equal(t, 4, fieldOffset(f.prog, 8, sym, 1))
	require.Equal(t, 0, fieldIndex(sym, f.strings.Intern("c")))
	require.Equal(t, 1, fieldIndex(sym, f.strings.Intern("x")))
	require.Equal(t, -1, fieldIndex(sym, f.strings.Intern("missing")))
}

func TestUnionLayoutSharesOffsetZero(t *testing.T) {
	f := newFixture(t)
	intT := f.typesIn.Keyword(token.KwInt)
	longT := f.typesIn.Keyword(token.KwLong)

	nameID := f.strings.Intern("Scalar")
	names := []source.StringID{f.strings.Intern("i"), f.strings.Intern("l")}
	id, ok := f.res.Declare(nameID, source.Span{}, symbols.SymUnion, func(s *symbols.Symbol) {
		s.Union = symbols.UnionData{OptionNames: names, OptionTypes: []types.TypeID{intT, longT}}
	})
	require.True(t, ok)
	unionT := f.typesIn.Reference(types.EntryRef(id), nameID)

	require.Equal(t, 8, sizeOf(f.prog, 8, unionT))
	sym, ok := underlyingAggregate(f.prog, unionT)
	require.True(t, ok)
	require.Equal(t, 0, fieldOffset(f.prog, 8, sym, 0))
	require.Equal(t, 0, fieldOffset(f.prog, 8, sym, 1))
}

func TestSizeOfEnumIsIntWidth(t *testing.T) {
	f := newFixture(t)
	nameID := f.strings.Intern("Color")
	id, ok := f.res.Declare(nameID, source.Span{}, symbols.SymEnum, func(s *symbols.Symbol) {
		s.Enum = symbols.EnumData{
			ConstantNames:  []source.StringID{f.strings.Intern("Red")},
			ConstantValues: []int64{0},
		}
	})
	require.True(t, ok)
	enumT := f.typesIn.Reference(types.EntryRef(id), nameID)
	require.Equal(t, types.Width(token.KwInt), sizeOf(f.prog, 8, enumT))
}

func TestUnderlyingAggregateFollowsTypedefChain(t *testing.T) {
	f := newFixture(t)
	intT := f.typesIn.Keyword(token.KwInt)
	structT := declareStruct(t, f, "Pair", []string{"a", "b"}, []types.TypeID{intT, intT})

	aliasName := f.strings.Intern("PairAlias")
	aliasID, ok := f.res.Declare(aliasName, source.Span{}, symbols.SymTypedef, func(s *symbols.Symbol) {
		s.Typedef = symbols.TypedefData{Target: structT}
	})
	require.True(t, ok)
	aliasT := f.typesIn.Reference(types.EntryRef(aliasID), aliasName)

	sym, ok := underlyingAggregate(f.prog, aliasT)
	require.True(t, ok)
	require.Equal(t, symbols.SymStruct, sym.Kind)
	require.Equal(t, sizeOf(f.prog, 8, structT), sizeOf(f.prog, 8, aliasT))
}
