package translate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vane/internal/ast"
	"vane/internal/ir"
	"vane/internal/source"
	"vane/internal/token"
	"vane/internal/types"
)

func TestBinaryIROpPicksSignedUnsignedFloatVariant(t *testing.T) {
	in := types.NewInterner()
	intT := in.Keyword(token.KwInt)
	uintT := in.Keyword(token.KwUint)
	doubleT := in.Keyword(token.KwDouble)

	require.Equal(t, ir.OpAdd, binaryIROp(ast.OpAdd, in, intT))
	require.Equal(t, ir.OpFPAdd, binaryIROp(ast.OpAdd, in, doubleT))
	require.Equal(t, ir.OpSDiv, binaryIROp(ast.OpDiv, in, intT))
	require.Equal(t, ir.OpUDiv, binaryIROp(ast.OpDiv, in, uintT))
	require.Equal(t, ir.OpFPDiv, binaryIROp(ast.OpDiv, in, doubleT))
	require.Equal(t, ir.OpSAR, binaryIROp(ast.OpShr, in, intT))
	require.Equal(t, ir.OpSLR, binaryIROp(ast.OpShr, in, uintT))
	require.Equal(t, ir.OpAnd, binaryIROp(ast.OpBitAnd, in, intT))
}

func TestCompareOpForPicksVariantByOperandType(t *testing.T) {
	in := types.NewInterner()
	intT := in.Keyword(token.KwInt)
	uintT := in.Keyword(token.KwUint)
	floatT := in.Keyword(token.KwFloat)

	require.Equal(t, ir.OpL, compareOpFor(ast.CmpLess, in, intT, intT))
	require.Equal(t, ir.OpB, compareOpFor(ast.CmpLess, in, uintT, uintT))
	require.Equal(t, ir.OpFPL, compareOpFor(ast.CmpLess, in, floatT, floatT))
	// A mixed float/int compare takes the float path regardless of side.
	require.Equal(t, ir.OpFPG, compareOpFor(ast.CmpGreater, in, intT, floatT))
}

func TestNegateRoundTrips(t *testing.T) {
	require.Equal(t, ir.OpGE, ir.OpL.Negate())
	require.Equal(t, ir.OpL, ir.OpGE.Negate())
	require.Equal(t, ir.OpFPNE, ir.OpFPE.Negate())
}

func TestLowerSpaceshipEvaluatesOperandsOnce(t *testing.T) {
	f := newFixture(t)
	ft := f.newFuncTranslator()
	intT := f.typesIn.Keyword(token.KwInt)

	left := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitInt, IntVal: 1})
	f.exprs.SetResultType(left, intT)
	right := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitInt, IntVal: 2})
	f.exprs.SetResultType(right, intT)

	cmp, _ := f.exprs.Comparison(f.exprs.NewComparison(source.Span{}, ast.CmpSpaceship, left, right))
	result := ft.lowerSpaceship(cmp)
	require.True(t, result.IsSet())

	var compareCount, subCount int
	for _, e := range ft.entries {
		if e.Op == ir.OpL || e.Op == ir.OpG {
			compareCount++
		}
		if e.Op == ir.OpSub {
			subCount++
		}
	}
	require.Equal(t, 2, compareCount, "spaceship compiles to exactly one < and one > compare")
	require.Equal(t, 1, subCount)
}

func TestBranchToCompareEmitsDirectConditionalJump(t *testing.T) {
	f := newFixture(t)
	ft := f.newFuncTranslator()
	intT := f.typesIn.Keyword(token.KwInt)

	left := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitInt, IntVal: 1})
	f.exprs.SetResultType(left, intT)
	right := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitInt, IntVal: 2})
	f.exprs.SetResultType(right, intT)
	cmp := f.exprs.NewComparison(source.Span{}, ast.CmpLess, left, right)

	ft.branchTo(cmp, true, "target")

	require.Len(t, ft.entries, 2)
	require.Equal(t, ir.OpL, ft.entries[0].Op)
	require.False(t, ft.entries[0].Dest.IsSet(), "a direct conditional jump never materializes a bool")
	require.Equal(t, ir.OpJumpL, ft.entries[1].Op)
}

func TestBranchToFloatCompareFallsBackToMaterializeThenCheck(t *testing.T) {
	f := newFixture(t)
	ft := f.newFuncTranslator()
	floatT := f.typesIn.Keyword(token.KwFloat)

	left := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitFloat, FloatVal: 1.5})
	f.exprs.SetResultType(left, floatT)
	right := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitFloat, FloatVal: 2.5})
	f.exprs.SetResultType(right, floatT)
	cmp := f.exprs.NewComparison(source.Span{}, ast.CmpLess, left, right)

	ft.branchTo(cmp, true, "target")

	// No direct jump exists for a float compare op, so the sequence must be
	// compare-into-dest, then an int zero-check that does have a jump.
	require.Len(t, ft.entries, 3)
	require.Equal(t, ir.OpFPL, ft.entries[0].Op)
	require.True(t, ft.entries[0].Dest.IsSet())
	require.Equal(t, ir.OpNE, ft.entries[1].Op)
	require.Equal(t, ir.OpJumpNE, ft.entries[2].Op)
}

func TestBranchLogicalAndShortCircuitsOnFalse(t *testing.T) {
	f := newFixture(t)
	ft := f.newFuncTranslator()
	intT := f.typesIn.Keyword(token.KwInt)

	mkCmp := func(v uint64) ast.ExprID {
		lit := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitInt, IntVal: v})
		f.exprs.SetResultType(lit, intT)
		zero := f.exprs.NewLiteral(source.Span{}, ast.ExprLiteralData{Kind: ast.LitInt, IntVal: 0})
		f.exprs.SetResultType(zero, intT)
		return f.exprs.NewComparison(source.Span{}, ast.CmpNotEq, lit, zero)
	}
	left := mkCmp(1)
	right := mkCmp(2)
	logical := f.exprs.NewLogical(source.Span{}, ast.LogAnd, left, right)
	logData, _ := f.exprs.Logical(logical)

	ft.branchLogical(logical, logData, false, "falsetarget")

	var jumpCount int
	for _, e := range ft.entries {
		if e.Op == ir.OpJumpE {
			jumpCount++
		}
	}
	// wantTrue=false on && branches both operands straight to the same
	// false target without an intermediate skip label.
	require.Equal(t, 2, jumpCount)
}

func TestConvertValueNoopOnEqualTypes(t *testing.T) {
	f := newFixture(t)
	ft := f.newFuncTranslator()
	intT := f.typesIn.Keyword(token.KwInt)
	v := ir.IntConst(5, 4)
	out := ft.convertValue(v, intT, intT)
	require.Equal(t, v, out)
	require.Empty(t, ft.entries)
}

func TestConvertValueWidensWithSignExtend(t *testing.T) {
	f := newFixture(t)
	ft := f.newFuncTranslator()
	intT := f.typesIn.Keyword(token.KwInt)
	longT := f.typesIn.Keyword(token.KwLong)
	v := ir.IntConst(5, 4)
	out := ft.convertValue(v, intT, longT)
	require.True(t, out.IsSet())
	require.Len(t, ft.entries, 1)
	require.Equal(t, ir.OpSXLong, ft.entries[0].Op)
}

func TestConvertValueNarrowsWithTrunc(t *testing.T) {
	f := newFixture(t)
	ft := f.newFuncTranslator()
	intT := f.typesIn.Keyword(token.KwInt)
	byteT := f.typesIn.Keyword(token.KwChar)
	v := ir.IntConst(5, 4)
	ft.convertValue(v, intT, byteT)
	require.Len(t, ft.entries, 1)
	require.Equal(t, ir.OpTruncByte, ft.entries[0].Op)
}

func TestConvertValueIntToFloat(t *testing.T) {
	f := newFixture(t)
	ft := f.newFuncTranslator()
	intT := f.typesIn.Keyword(token.KwInt)
	doubleT := f.typesIn.Keyword(token.KwDouble)
	v := ir.IntConst(5, 4)
	ft.convertValue(v, intT, doubleT)
	require.Len(t, ft.entries, 1)
	require.Equal(t, ir.OpSToDouble, ft.entries[0].Op)
}
