package token

// keywords maps reserved-word spellings to their Kind, used by the lexer
// after scanning a maximal identifier run.
var keywords = map[string]Kind{
	"module": KwModule,
	"import": KwImport,

	"void": KwVoid, "ubyte": KwUbyte, "byte": KwByte, "char": KwChar,
	"ushort": KwUshort, "short": KwShort, "uint": KwUint, "int": KwInt,
	"wchar": KwWchar, "ulong": KwUlong, "long": KwLong,
	"float": KwFloat, "double": KwDouble, "bool": KwBool,

	"const": KwConst, "volatile": KwVolatile,

	"opaque": KwOpaque, "struct": KwStruct, "union": KwUnion,
	"enum": KwEnum, "typedef": KwTypedef,

	"if": KwIf, "else": KwElse, "while": KwWhile, "do": KwDo, "for": KwFor,
	"switch": KwSwitch, "case": KwCase, "default": KwDefault,
	"break": KwBreak, "continue": KwContinue, "return": KwReturn,
	"asm": KwAsm, "cast": KwCast, "sizeof": KwSizeof,
	"true": KwTrue, "false": KwFalse, "null": KwNull,
}

// LookupKeyword returns the Kind for ident if it spells a reserved word.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
