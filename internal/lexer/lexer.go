// Package lexer implements the external token-source collaborator that
// feeds the parser (spec.md §2, point 1): a lazy token stream supporting
// one-token pushback, kept entirely separate from the parser so the two can
// be tested independently and swapped without touching grammar code.
package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"vane/internal/diag"
	"vane/internal/source"
	"vane/internal/token"
)

// maxTokenLength bounds a single token's byte length to avoid pathological
// input (an unterminated string spanning megabytes) dominating a diagnostic
// run.
const maxTokenLength = 64 * 1024

// Lexer converts one source file's content into a stream of tokens.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token
}

// New creates a Lexer over file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), opts: opts}
}

// Next returns the next significant token, skipping whitespace and
// comments. It always returns token.EOF once the input is exhausted.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}

	var tok token.Token
	ch := lx.cursor.Peek()
	switch {
	case ch == 'L' && lx.isWidePrefix():
		tok = lx.scanWideLiteral()
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()
	case ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	case ch == '\'':
		tok = lx.scanChar()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	lx.enforceTokenLength(&tok)
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Push injects tok back into the one-token lookahead buffer (spec.md §4.1:
// "the parser may unread at most one token at a time").
func (lx *Lexer) Push(tok token.Token) { lx.look = &tok }

// EmptySpan returns a zero-length span at the current cursor position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) isWidePrefix() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == 'L' && (b1 == '"' || b1 == '\'')
}

func (lx *Lexer) scanWideLiteral() token.Token {
	lx.cursor.Bump() // 'L'
	if lx.cursor.Peek() == '"' {
		tok := lx.scanString()
		tok.Kind = token.WideStringLit
		return tok
	}
	tok := lx.scanChar()
	tok.Kind = token.WideCharLit
	return tok
}

// skipTrivia consumes whitespace and comments; the syntax tree carries no
// trivia nodes in this design (spec.md §3.2 has none), so they're discarded
// rather than buffered.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			lx.cursor.Bump()
		case b == '/' && lx.startsLineComment():
			lx.cursor.Bump()
			lx.cursor.Bump()
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case b == '/' && lx.startsBlockComment():
			lx.skipBlockComment()
		default:
			return
		}
	}
}

func (lx *Lexer) startsLineComment() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '/' && b1 == '/'
}

func (lx *Lexer) startsBlockComment() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '/' && b1 == '*'
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '*'
	for !lx.cursor.EOF() {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '*' && b1 == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return
		}
		lx.cursor.Bump()
	}
	lx.report(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
}

func (lx *Lexer) enforceTokenLength(tok *token.Token) {
	length := tok.Span.End - tok.Span.Start
	if length <= maxTokenLength {
		return
	}
	lx.report(diag.LexTokenTooLong, tok.Span, fmt.Sprintf("token length %d exceeds limit %d", length, maxTokenLength))
	tok.Kind = token.Invalid
	if off, err := safecast.Conv[uint32](len(lx.file.Content)); err == nil {
		lx.cursor.Off = off
	}
}
