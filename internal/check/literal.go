package check

import (
	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/token"
	"vane/internal/types"
)

// literalType implements spec.md §4.3's literal-typing rules. Float, char,
// and string literal kinds aren't named in that list; this picks the
// narrowest reading consistent with the target-size table (spec.md §6.1):
// a float literal defaults to the widest float (double), a char/wide-char
// literal types as the matching char keyword, and a string literal types
// as a pointer to const char (wide string: const wchar).
func (c *Checker) literalType(id ast.ExprID, lit *ast.ExprLiteralData) types.TypeID {
	in := c.prog.Types
	switch lit.Kind {
	case ast.LitInt:
		kw, ok := types.NarrowestFit(lit.IntVal)
		if !ok {
			diag.Errorf(c.reporter, diag.TypeIntOutOfRange, c.prog.Exprs.Get(id).Span,
				"integer literal out of range")
			return in.Keyword(token.KwUlong)
		}
		return in.Keyword(kw)
	case ast.LitFloat:
		return in.Keyword(token.KwDouble)
	case ast.LitChar:
		return in.Keyword(token.KwChar)
	case ast.LitWideChar:
		return in.Keyword(token.KwWchar)
	case ast.LitString:
		return in.Pointer(in.Qualified(in.Keyword(token.KwChar), true, false))
	case ast.LitWideString:
		return in.Pointer(in.Qualified(in.Keyword(token.KwWchar), true, false))
	case ast.LitTrue, ast.LitFalse:
		return in.Keyword(token.KwBool)
	case ast.LitNull:
		return in.Pointer(types.NoTypeID) // generic null pointer; matches any pointer
	default:
		return types.NoTypeID
	}
}
