package translate

import (
	"math"

	"vane/internal/ir"
	"vane/internal/token"
	"vane/internal/types"
)

// floatBits encodes a float constant as its raw IEEE-754 bit pattern sized
// to width, the representation a data/rodata fragment's entry stream and a
// FP_* immediate move both expect. spec.md leaves a float literal's
// in-memory representation implicit; bit-pattern storage is the natural
// reading of "emit the constant" for a format with no separate float-const
// IR operand.
func floatBits(v float64, width int) ir.Operand {
	if width == 4 {
		return ir.IntConst(uint64(math.Float32bits(float32(v))), width)
	}
	return ir.IntConst(math.Float64bits(v), width)
}

// keywordOf reports t's underlying keyword kind, looking through any
// const/volatile qualifier.
func keywordOf(in *types.Interner, t types.TypeID) (token.Kind, bool) {
	kw, ok := in.KeywordOf(in.Unqualified(t))
	if !ok {
		return token.Invalid, false
	}
	return kw.Keyword, true
}

func isUnsignedType(in *types.Interner, t types.TypeID) bool {
	kw, ok := keywordOf(in, t)
	return ok && types.IsUnsigned(kw)
}

func isFloatType(in *types.Interner, t types.TypeID) bool {
	kw, ok := keywordOf(in, t)
	return ok && types.IsFloat(kw)
}

func isIntegerType(in *types.Interner, t types.TypeID) bool {
	kw, ok := keywordOf(in, t)
	return ok && types.IsInteger(kw)
}
