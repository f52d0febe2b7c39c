// Package mangle implements the translator's name-mangling scheme
// (spec.md §4.4): every global's mangled label starts with "__Z" followed
// by the owning module's dot-separated segments and the identifier itself,
// each prefixed by its decimal length so the encoding needs no delimiters.
// Function overloads additionally encode their argument types so two
// overloads of the same name never collide.
package mangle

import (
	"fmt"
	"strconv"
	"strings"

	"vane/internal/source"
	"vane/internal/token"
	"vane/internal/types"
)

// Global returns the mangled label for a non-function global: a variable,
// or a function referenced without regard to overload (the translator
// always mangles functions through Function instead).
func Global(moduleName, identName string) string {
	var b strings.Builder
	b.WriteString("__Z")
	writeSegments(&b, moduleName)
	writeLenPrefixed(&b, identName)
	return b.String()
}

// Function returns the mangled label for one overload of a function:
// Global's label followed by the compact encoding of each argument type.
func Function(moduleName, identName string, argTypes []types.TypeID, typesIn *types.Interner, strs *source.Interner) string {
	var b strings.Builder
	b.WriteString(Global(moduleName, identName))
	for _, t := range argTypes {
		b.WriteString(TypeEncoding(t, typesIn, strs))
	}
	return b.String()
}

func writeSegments(b *strings.Builder, moduleName string) {
	for _, seg := range strings.Split(moduleName, ".") {
		writeLenPrefixed(b, seg)
	}
}

func writeLenPrefixed(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteString(s)
}

// TypeEncoding implements the compact per-type encoding of spec.md §4.4's
// mangling table.
func TypeEncoding(t types.TypeID, typesIn *types.Interner, strs *source.Interner) string {
	if t == types.NoTypeID {
		return "v"
	}
	if q, ok := typesIn.QualifiedOf(t); ok && q.Const {
		return "C" + TypeEncoding(q.Base, typesIn, strs)
	}
	if p, ok := typesIn.PointerOf(t); ok {
		return "P" + TypeEncoding(p.Base, typesIn, strs)
	}
	if a, ok := typesIn.ArrayOf(t); ok {
		return fmt.Sprintf("A%d%s", a.Length, TypeEncoding(a.Element, typesIn, strs))
	}
	if fp, ok := typesIn.FunPtrOf(t); ok {
		var b strings.Builder
		b.WriteString("F")
		b.WriteString(TypeEncoding(fp.Return, typesIn, strs))
		for _, arg := range fp.Args {
			b.WriteString(TypeEncoding(arg, typesIn, strs))
		}
		return b.String()
	}
	if ref, ok := typesIn.ReferenceOf(t); ok {
		name := strs.MustLookup(ref.Name)
		return fmt.Sprintf("T%d%s", len(name), name)
	}
	if kw, ok := typesIn.KeywordOf(t); ok {
		return keywordEncoding(kw.Keyword)
	}
	return "v"
}

func keywordEncoding(k token.Kind) string {
	switch k {
	case token.KwVoid:
		return "v"
	case token.KwUbyte:
		return "ub"
	case token.KwByte:
		return "sb"
	case token.KwChar:
		return "c"
	case token.KwWchar:
		return "w"
	case token.KwUshort:
		return "us"
	case token.KwShort:
		return "ss"
	case token.KwUint:
		return "ui"
	case token.KwInt:
		return "si"
	case token.KwUlong:
		return "ul"
	case token.KwLong:
		return "sl"
	case token.KwFloat:
		return "f"
	case token.KwDouble:
		return "d"
	case token.KwBool:
		return "B"
	default:
		return "v"
	}
}
