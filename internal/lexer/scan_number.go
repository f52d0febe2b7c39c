package lexer

import (
	"strconv"
	"strings"

	"vane/internal/diag"
	"vane/internal/token"
)

// scanNumber scans an integer or floating-point literal per spec.md §6.2:
// binary 0b…, octal 0…, decimal, hexadecimal 0x…, and a distinct all-zero
// form. Floating-point literals follow [digits].[digits](e[+/-]digits)?.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '.' {
		return lx.scanFloatFromDot(start)
	}

	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		switch lx.cursor.Peek() {
		case 'b', 'B':
			lx.cursor.Bump()
			return lx.finishRadix(start, 2, isBinDigit)
		case 'x', 'X':
			lx.cursor.Bump()
			return lx.finishRadix(start, 16, isHex)
		default:
			if isOct(lx.cursor.Peek()) {
				return lx.finishRadix(start, 8, isOct)
			}
			// lone "0", possibly the start of a float like "0.5" or "0e3".
		}
	}

	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	isFloat := false
	if lx.cursor.Peek() == '.' {
		if b0, b1, ok := lx.cursor.Peek2(); !(ok && b0 == '.' && b1 == '.') {
			lx.cursor.Bump()
			isFloat = true
			for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
		}
	}
	if lx.cursor.Peek() == 'e' || lx.cursor.Peek() == 'E' {
		isFloat = true
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexBadNumber, sp, "expected digit after exponent")
			return token.Token{Kind: token.Invalid, Span: sp}
		}
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	lex := cleanDigits(lx.file.Content[sp.Start:sp.End])
	if isFloat {
		f, err := strconv.ParseFloat(lex, 64)
		if err != nil {
			lx.report(diag.LexBadNumber, sp, "malformed floating-point literal")
			return token.Token{Kind: token.Invalid, Span: sp}
		}
		return token.Token{Kind: token.FloatLit, Span: sp, FloatValue: f}
	}
	v, err := strconv.ParseUint(lex, 10, 64)
	if err != nil {
		lx.report(diag.LexIntOutOfRange, sp, "integer literal exceeds 64 bits")
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	return token.Token{Kind: token.IntLit, Span: sp, IntValue: v}
}

func (lx *Lexer) scanFloatFromDot(start Mark) token.Token {
	lx.cursor.Bump() // '.'
	if !isDec(lx.cursor.Peek()) {
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexBadNumber, sp, "expected digit after '.'")
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == 'e' || lx.cursor.Peek() == 'E' {
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lex := cleanDigits(lx.file.Content[sp.Start:sp.End])
	f, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		lx.report(diag.LexBadNumber, sp, "malformed floating-point literal")
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	return token.Token{Kind: token.FloatLit, Span: sp, FloatValue: f}
}

// finishRadix scans the digit run of a 0b/0x-prefixed or 0-prefixed octal
// integer literal and parses it in the given base.
func (lx *Lexer) finishRadix(start Mark, base int, digit func(byte) bool) token.Token {
	digitsStart := lx.cursor.Mark()
	for digit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	digitsSpan := lx.cursor.SpanFrom(digitsStart)
	if digitsSpan.Len() == 0 {
		lx.report(diag.LexBadNumber, sp, "expected digits after radix prefix")
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	lex := cleanDigits(lx.file.Content[digitsSpan.Start:digitsSpan.End])
	v, err := strconv.ParseUint(lex, base, 64)
	if err != nil {
		lx.report(diag.LexIntOutOfRange, sp, "integer literal exceeds 64 bits")
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	return token.Token{Kind: token.IntLit, Span: sp, IntValue: v}
}

func isBinDigit(b byte) bool { return b == '0' || b == '1' }

func cleanDigits(b []byte) string {
	if !strings.Contains(string(b), "_") {
		return string(b)
	}
	return strings.ReplaceAll(string(b), "_", "")
}
