package lexer

import "vane/internal/token"

// scanIdentOrKeyword scans a maximal identifier run and classifies it
// against the keyword table, falling back to Ident.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	if r < utf8RuneSelf {
		lx.cursor.Bump()
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	} else {
		lx.bumpRune()
		for {
			r2, sz2 := lx.peekRune()
			if sz2 == 0 || !isIdentContinueRune(r2) {
				break
			}
			lx.bumpRune()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	lex := string(lx.file.Content[sp.Start:sp.End])
	if k, ok := token.LookupKeyword(lex); ok {
		return token.Token{Kind: k, Span: sp}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: lx.intern(lex)}
}
