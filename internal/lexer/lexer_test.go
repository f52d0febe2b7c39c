package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vane/internal/diag"
	"vane/internal/lexer"
	"vane/internal/source"
	"vane/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("test.vn", []byte(src))
	bag := diag.NewBag(64)
	lx := lexer.New(fs.Get(id), lexer.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Interner: source.NewInterner(),
	})

	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexerKeywordsAndPunct(t *testing.T) {
	toks, bag := lexAll(t, "module a; int x = 1;")
	require.Equal(t, 0, bag.Len())
	require.Equal(t, []token.Kind{
		token.KwModule, token.Ident, token.Semicolon,
		token.KwInt, token.Ident, token.Assign, token.IntLit, token.Semicolon,
		token.EOF,
	}, kinds(toks))
}

func TestLexerSpaceshipNotConfusedWithLtEq(t *testing.T) {
	toks, bag := lexAll(t, "a <=> b; c <= d;")
	require.Equal(t, 0, bag.Len())
	got := kinds(toks)
	require.Contains(t, got, token.Spaceship)
	require.Contains(t, got, token.LtEq)
}

func TestLexerShiftAssignForms(t *testing.T) {
	toks, bag := lexAll(t, "a <<= b; a >>= b; a << b;")
	require.Equal(t, 0, bag.Len())
	got := kinds(toks)
	require.Contains(t, got, token.ShlAssign)
	require.Contains(t, got, token.ShrAssign)
	require.Contains(t, got, token.Shl)
}

func TestLexerIntegerRadices(t *testing.T) {
	toks, bag := lexAll(t, "0b101; 0x1F; 017; 0; 42;")
	require.Equal(t, 0, bag.Len())
	var values []uint64
	for _, tk := range toks {
		if tk.Kind == token.IntLit {
			values = append(values, tk.IntValue)
		}
	}
	require.Equal(t, []uint64{5, 31, 15, 0, 42}, values)
}

func TestLexerFloatLiteral(t *testing.T) {
	toks, bag := lexAll(t, "1.5; .25; 1e-3; 1.0e+10;")
	require.Equal(t, 0, bag.Len())
	var values []float64
	for _, tk := range toks {
		if tk.Kind == token.FloatLit {
			values = append(values, tk.FloatValue)
		}
	}
	require.Equal(t, []float64{1.5, 0.25, 1e-3, 1.0e+10}, values)
}

func TestLexerStringAndCharLiterals(t *testing.T) {
	toks, bag := lexAll(t, `"hi\n"; 'a'; L"wide"; L'w';`)
	require.Equal(t, 0, bag.Len())
	require.Equal(t, []token.Kind{
		token.StringLit, token.Semicolon,
		token.CharLit, token.Semicolon,
		token.WideStringLit, token.Semicolon,
		token.WideCharLit, token.Semicolon,
		token.EOF,
	}, kinds(toks))
}

func TestLexerUnterminatedStringReportsAndRecovers(t *testing.T) {
	toks, bag := lexAll(t, "\"unterminated\nx;")
	require.Greater(t, bag.Len(), 0)
	require.True(t, bag.HasErrors())
	require.Equal(t, diag.LexUnterminatedString, bag.Items()[0].Code)
	require.Contains(t, kinds(toks), token.Ident)
}

func TestLexerSkipsCommentsAndWhitespace(t *testing.T) {
	toks, bag := lexAll(t, "// line comment\n/* block\ncomment */ int x;")
	require.Equal(t, 0, bag.Len())
	require.Equal(t, []token.Kind{token.KwInt, token.Ident, token.Semicolon, token.EOF}, kinds(toks))
}

func TestLexerPushAndPeekOneTokenLookahead(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("t.vn", []byte("a b"))
	lx := lexer.New(fs.Get(id), lexer.Options{Interner: source.NewInterner()})

	peeked := lx.Peek()
	require.Equal(t, token.Ident, peeked.Kind)
	got := lx.Next()
	require.Equal(t, peeked.Span, got.Span)

	next := lx.Next()
	require.Equal(t, token.Ident, next.Kind)
	lx.Push(next)
	again := lx.Next()
	require.Equal(t, next.Span, again.Span)
}
