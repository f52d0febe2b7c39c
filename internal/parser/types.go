package parser

import (
	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/source"
	"vane/internal/token"
)

// parseType parses one syntactic type (spec.md §3.2's "Types (syntactic)"
// shapes). Grammar (this repo's own resolution of the grammar the
// original reference left unspecified — see DESIGN.md):
//
//	Type       := Qualifier* TypeAtom PointerOrArray*
//	TypeAtom   := TypeKeyword | ScopedName
//	Qualifier  := 'const' | 'volatile'
//	PointerOrArray := '*' | '[' ConstExpr ']'
//
// A function-pointer type is written `ReturnType (*)(ParamType, ...)`: a
// TypeAtom immediately followed by `(` can only be this form, since no
// other construct starts with `(` in type position, so no backtracking is
// needed to recognize it.
func (p *Parser) parseType() (ast.TypeSynID, bool) {
	start := p.peek().Span
	var quals []token.Kind
	for p.peek().Kind.IsQualifier() {
		quals = append(quals, p.advance().Kind)
	}

	atom, ok := p.parseTypeAtom()
	if !ok {
		return ast.NoTypeSynID, false
	}

	for _, qual := range quals {
		sp := start.Cover(p.deps.TypeSyns.Get(atom).Span)
		atom = p.deps.TypeSyns.NewQualified(sp, qual, atom)
	}

	if p.at(token.LParen) {
		return p.finishFuncPointer(start, atom)
	}

	for {
		switch {
		case p.at(token.Star):
			tok := p.advance()
			sp := start.Cover(tok.Span)
			atom = p.deps.TypeSyns.NewPointer(sp, atom)
		case p.at(token.LBracket):
			p.advance()
			length, ok := p.parseExpr()
			if !ok {
				return ast.NoTypeSynID, false
			}
			close, ok := p.expect(token.RBracket, diag.SynUnexpectedToken, "expected ']' after array length")
			if !ok {
				return ast.NoTypeSynID, false
			}
			sp := start.Cover(close.Span)
			atom = p.deps.TypeSyns.NewArray(sp, atom, length)
		default:
			return atom, true
		}
	}
}

func (p *Parser) parseTypeAtom() (ast.TypeSynID, bool) {
	tok := p.peek()
	if tok.Kind.IsTypeKeyword() {
		p.advance()
		return p.deps.TypeSyns.NewKeyword(tok.Span, tok.Kind), true
	}
	if tok.Kind == token.Ident {
		name, ok := p.parseScopedId()
		if !ok {
			return ast.NoTypeSynID, false
		}
		return p.deps.TypeSyns.NewNamed(name.Span, name), true
	}
	p.report(diag.SynExpectType, tok.Span, "expected a type")
	return ast.NoTypeSynID, false
}

func (p *Parser) finishFuncPointer(start source.Span, ret ast.TypeSynID) (ast.TypeSynID, bool) {
	p.advance() // '('
	if _, ok := p.expect(token.Star, diag.SynUnexpectedToken, "expected '*' in function-pointer type"); !ok {
		return ast.NoTypeSynID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after function-pointer '*'"); !ok {
		return ast.NoTypeSynID, false
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' to start function-pointer parameters"); !ok {
		return ast.NoTypeSynID, false
	}
	var params []ast.TypeSynID
	if !p.at(token.RParen) {
		for {
			pt, ok := p.parseType()
			if !ok {
				return ast.NoTypeSynID, false
			}
			params = append(params, pt)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	close, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after function-pointer parameters")
	if !ok {
		return ast.NoTypeSynID, false
	}
	return p.deps.TypeSyns.NewFuncPointer(start.Cover(close.Span), ret, params), true
}
