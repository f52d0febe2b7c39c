// Package token defines the token kinds the lexer collaborator produces
// and the parser consumes, per spec.md §3.1 and §6.2-§6.3.
package token

// Kind categorizes a single source token.
type Kind uint8

const (
	// Invalid marks a malformed token the lexer could not classify.
	Invalid Kind = iota
	// EOF marks the end of input.
	EOF

	// Ident is a plain identifier.
	Ident

	// Module-structural keywords.
	KwModule
	KwImport

	// Type keywords.
	KwVoid
	KwUbyte
	KwByte
	KwChar
	KwUshort
	KwShort
	KwUint
	KwInt
	KwWchar
	KwUlong
	KwLong
	KwFloat
	KwDouble
	KwBool

	// Type qualifiers.
	KwConst
	KwVolatile

	// Aggregate keywords.
	KwOpaque
	KwStruct
	KwUnion
	KwEnum
	KwTypedef

	// Control keywords.
	KwIf
	KwElse
	KwWhile
	KwDo
	KwFor
	KwSwitch
	KwCase
	KwDefault
	KwBreak
	KwContinue
	KwReturn
	KwAsm
	KwCast
	KwSizeof
	KwTrue
	KwFalse
	KwNull

	// Literal kinds named in §6.2; integers of every radix share IntLit.
	IntLit
	FloatLit
	CharLit
	StringLit
	WideCharLit
	WideStringLit

	// Scope resolution.
	ColonColon

	// Punctuation and operators (§6.3).
	Plus
	Minus
	Star
	Slash
	Percent
	Assign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	ShlAssign
	ShrAssign
	AmpAssign
	PipeAssign
	CaretAssign
	AndAssign
	OrAssign
	EqEq
	BangEq
	Lt
	Gt
	LtEq
	GtEq
	Spaceship
	AndAnd
	OrOr
	Bang
	Amp
	Pipe
	Caret
	Tilde
	Shl
	Shr
	PlusPlus
	MinusMinus
	Question
	Colon
	Semicolon
	Comma
	Dot
	Arrow
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
)

var names = map[Kind]string{
	Invalid: "invalid", EOF: "eof", Ident: "identifier",
	KwModule: "module", KwImport: "import",
	KwVoid: "void", KwUbyte: "ubyte", KwByte: "byte", KwChar: "char",
	KwUshort: "ushort", KwShort: "short", KwUint: "uint", KwInt: "int",
	KwWchar: "wchar", KwUlong: "ulong", KwLong: "long", KwFloat: "float",
	KwDouble: "double", KwBool: "bool",
	KwConst: "const", KwVolatile: "volatile",
	KwOpaque: "opaque", KwStruct: "struct", KwUnion: "union", KwEnum: "enum", KwTypedef: "typedef",
	KwIf: "if", KwElse: "else", KwWhile: "while", KwDo: "do", KwFor: "for",
	KwSwitch: "switch", KwCase: "case", KwDefault: "default",
	KwBreak: "break", KwContinue: "continue", KwReturn: "return",
	KwAsm: "asm", KwCast: "cast", KwSizeof: "sizeof",
	KwTrue: "true", KwFalse: "false", KwNull: "null",
	IntLit: "int-literal", FloatLit: "float-literal", CharLit: "char-literal",
	StringLit: "string-literal", WideCharLit: "wide-char-literal", WideStringLit: "wide-string-literal",
	ColonColon: "::",
	Plus:       "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Assign: "=", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=",
	SlashAssign: "/=", PercentAssign: "%=", ShlAssign: "<<=", ShrAssign: ">>=",
	AmpAssign: "&=", PipeAssign: "|=", CaretAssign: "^=", AndAssign: "&&=", OrAssign: "||=",
	EqEq: "==", BangEq: "!=", Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=", Spaceship: "<=>",
	AndAnd: "&&", OrOr: "||", Bang: "!", Amp: "&", Pipe: "|", Caret: "^", Tilde: "~",
	Shl: "<<", Shr: ">>", PlusPlus: "++", MinusMinus: "--",
	Question: "?", Colon: ":", Semicolon: ";", Comma: ",", Dot: ".", Arrow: "->",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// IsTypeKeyword reports whether k starts a builtin scalar type.
func (k Kind) IsTypeKeyword() bool {
	switch k {
	case KwVoid, KwUbyte, KwByte, KwChar, KwUshort, KwShort, KwUint, KwInt,
		KwWchar, KwUlong, KwLong, KwFloat, KwDouble, KwBool:
		return true
	default:
		return false
	}
}

// IsQualifier reports whether k is a type qualifier keyword.
func (k Kind) IsQualifier() bool {
	return k == KwConst || k == KwVolatile
}

// IsTopLevelStarter reports whether k can begin a top-level declaration or
// definition, used by the parser's recovery routine (spec.md §4.1).
func (k Kind) IsTopLevelStarter() bool {
	if k.IsTypeKeyword() || k == Ident {
		return true
	}
	switch k {
	case KwOpaque, KwStruct, KwUnion, KwEnum, KwTypedef, KwModule, KwImport, EOF:
		return true
	default:
		return false
	}
}
