package mangle_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vane/internal/mangle"
	"vane/internal/source"
	"vane/internal/token"
	"vane/internal/types"
)

func TestGlobalEncodesModuleAndName(t *testing.T) {
	require.Equal(t, "__Z3foo7counter", mangle.Global("foo", "counter"))
}

func TestGlobalSplitsDottedModulePath(t *testing.T) {
	require.Equal(t, "__Z3std2io3out", mangle.Global("std.io", "out"))
}

func TestTypeEncodingKeywords(t *testing.T) {
	in := types.NewInterner()
	require.Equal(t, "si", mangle.TypeEncoding(in.Keyword(token.KwInt), in, nil))
	require.Equal(t, "ul", mangle.TypeEncoding(in.Keyword(token.KwUlong), in, nil))
	require.Equal(t, "B", mangle.TypeEncoding(in.Keyword(token.KwBool), in, nil))
}

func TestTypeEncodingPointerAndConst(t *testing.T) {
	in := types.NewInterner()
	charT := in.Keyword(token.KwChar)
	constChar := in.Qualified(charT, true, false)
	ptr := in.Pointer(constChar)
	require.Equal(t, "PCc", mangle.TypeEncoding(ptr, in, nil))
}

func TestTypeEncodingArray(t *testing.T) {
	in := types.NewInterner()
	intT := in.Keyword(token.KwInt)
	arr := in.Array(intT, 10)
	require.Equal(t, "A10si", mangle.TypeEncoding(arr, in, nil))
}

func TestTypeEncodingFunPtr(t *testing.T) {
	in := types.NewInterner()
	intT := in.Keyword(token.KwInt)
	voidT := types.NoTypeID
	fp := in.FunPtr(voidT, []types.TypeID{intT, intT})
	require.Equal(t, "Fvsisi", mangle.TypeEncoding(fp, in, nil))
}

func TestTypeEncodingNamedType(t *testing.T) {
	in := types.NewInterner()
	strs := source.NewInterner()
	name := strs.Intern("Point")
	ref := in.Reference(types.EntryRef(1), name)
	require.Equal(t, "T5Point", mangle.TypeEncoding(ref, in, strs))
}

func TestFunctionAppendsArgEncodings(t *testing.T) {
	in := types.NewInterner()
	intT := in.Keyword(token.KwInt)
	got := mangle.Function("foo", "add", []types.TypeID{intT, intT}, in, nil)
	require.Equal(t, "__Z3foo3addsisi", got)
}
