package token

import "vane/internal/source"

// Token is a single lexical unit produced by the lexer and consumed by the
// parser. Text for identifiers and literals is interned; the raw lexeme is
// recoverable from Span when diagnostics need the exact source text.
type Token struct {
	Kind Kind
	Span source.Span
	// Text is the interned identifier or literal text. Zero (NoStringID)
	// for punctuation and keywords, whose spelling is implied by Kind.
	Text source.StringID
	// IntValue holds the parsed value of an IntLit/CharLit/WideCharLit
	// token. FloatValue holds the parsed value of a FloatLit token.
	IntValue   uint64
	FloatValue float64
}

// IsLiteral reports whether t is any of the literal kinds.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, CharLit, StringLit, WideCharLit, WideStringLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether t's kind spells a reserved word.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwModule, KwImport, KwVoid, KwUbyte, KwByte, KwChar, KwUshort, KwShort,
		KwUint, KwInt, KwWchar, KwUlong, KwLong, KwFloat, KwDouble, KwBool,
		KwConst, KwVolatile, KwOpaque, KwStruct, KwUnion, KwEnum, KwTypedef,
		KwIf, KwElse, KwWhile, KwDo, KwFor, KwSwitch, KwCase, KwDefault,
		KwBreak, KwContinue, KwReturn, KwAsm, KwCast, KwSizeof,
		KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsAssignOp reports whether t's kind is any assignment operator, including
// compound forms, per spec.md §6.3.
func (t Token) IsAssignOp() bool {
	switch t.Kind {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign,
		ShlAssign, ShrAssign, AmpAssign, PipeAssign, CaretAssign, AndAssign, OrAssign:
		return true
	default:
		return false
	}
}
