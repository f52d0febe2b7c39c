package parser

import (
	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/source"
	"vane/internal/token"
)

// parseExpr parses one assignment-level expression (spec.md §6.3's full
// operator table, minus the comma operator which only appears in
// for-statement clauses and is parsed separately by parseExprList).
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseAssignment()
}

// parseExprList parses one or more comma-separated assignment expressions,
// wrapping more than one in an ExprSequence (used by for-statement
// init/update clauses).
func (p *Parser) parseExprList() (ast.ExprID, bool) {
	first, ok := p.parseAssignment()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Comma) {
		return first, true
	}
	elems := []ast.ExprID{first}
	start := p.deps.Exprs.Get(first).Span
	for p.at(token.Comma) {
		p.advance()
		next, ok := p.parseAssignment()
		if !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, next)
	}
	last := p.deps.Exprs.Get(elems[len(elems)-1]).Span
	return p.deps.Exprs.NewSequence(start.Cover(last), elems), true
}

// parseAssignment is right-associative, the weakest-binding level besides
// the ternary conditional it recurses through.
func (p *Parser) parseAssignment() (ast.ExprID, bool) {
	left, ok := p.parseTernary()
	if !ok {
		return ast.NoExprID, false
	}
	tok := p.peek()
	switch tok.Kind {
	case token.AndAssign:
		p.advance()
		right, ok := p.parseAssignment()
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.deps.Exprs.Get(left).Span.Cover(p.deps.Exprs.Get(right).Span)
		return p.deps.Exprs.NewLogical(sp, ast.LogAndAssign, left, right), true
	case token.OrAssign:
		p.advance()
		right, ok := p.parseAssignment()
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.deps.Exprs.Get(left).Span.Cover(p.deps.Exprs.Get(right).Span)
		return p.deps.Exprs.NewLogical(sp, ast.LogOrAssign, left, right), true
	default:
		if op, ok := ast.AssignOpFor(tok.Kind); ok {
			p.advance()
			right, ok := p.parseAssignment()
			if !ok {
				return ast.NoExprID, false
			}
			sp := p.deps.Exprs.Get(left).Span.Cover(p.deps.Exprs.Get(right).Span)
			return p.deps.Exprs.NewBinary(sp, op, left, right), true
		}
	}
	return left, true
}

func (p *Parser) parseTernary() (ast.ExprID, bool) {
	cond, ok := p.parseLogicalOr()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Question) {
		return cond, true
	}
	p.advance()
	then, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in ternary expression"); !ok {
		return ast.NoExprID, false
	}
	els, ok := p.parseTernary()
	if !ok {
		return ast.NoExprID, false
	}
	sp := p.deps.Exprs.Get(cond).Span.Cover(p.deps.Exprs.Get(els).Span)
	return p.deps.Exprs.NewTernary(sp, cond, then, els), true
}

func (p *Parser) parseLogicalOr() (ast.ExprID, bool) {
	return p.parseLogicalBin([]token.Kind{token.OrOr}, p.parseLogicalAnd)
}

func (p *Parser) parseLogicalAnd() (ast.ExprID, bool) {
	return p.parseLogicalBin([]token.Kind{token.AndAnd}, p.parseBitOr)
}

func (p *Parser) parseLogicalBin(kinds []token.Kind, next func() (ast.ExprID, bool)) (ast.ExprID, bool) {
	left, ok := next()
	if !ok {
		return ast.NoExprID, false
	}
	for p.atAny(kinds...) {
		tok := p.advance()
		right, ok := next()
		if !ok {
			return ast.NoExprID, false
		}
		op := ast.LogOr
		if tok.Kind == token.AndAnd {
			op = ast.LogAnd
		}
		sp := p.deps.Exprs.Get(left).Span.Cover(p.deps.Exprs.Get(right).Span)
		left = p.deps.Exprs.NewLogical(sp, op, left, right)
	}
	return left, true
}

func (p *Parser) parseBitOr() (ast.ExprID, bool) {
	return p.parseBin(map[token.Kind]ast.BinaryOp{token.Pipe: ast.OpBitOr}, p.parseBitXor)
}

func (p *Parser) parseBitXor() (ast.ExprID, bool) {
	return p.parseBin(map[token.Kind]ast.BinaryOp{token.Caret: ast.OpBitXor}, p.parseBitAnd)
}

func (p *Parser) parseBitAnd() (ast.ExprID, bool) {
	return p.parseBin(map[token.Kind]ast.BinaryOp{token.Amp: ast.OpBitAnd}, p.parseEquality)
}

func (p *Parser) parseEquality() (ast.ExprID, bool) {
	return p.parseCmp(map[token.Kind]ast.ComparisonOp{token.EqEq: ast.CmpEq, token.BangEq: ast.CmpNotEq}, p.parseRelational)
}

func (p *Parser) parseRelational() (ast.ExprID, bool) {
	return p.parseCmp(map[token.Kind]ast.ComparisonOp{
		token.Lt: ast.CmpLess, token.Gt: ast.CmpGreater,
		token.LtEq: ast.CmpLessEq, token.GtEq: ast.CmpGreaterEq,
		token.Spaceship: ast.CmpSpaceship,
	}, p.parseShift)
}

func (p *Parser) parseShift() (ast.ExprID, bool) {
	return p.parseBin(map[token.Kind]ast.BinaryOp{token.Shl: ast.OpShl, token.Shr: ast.OpShr}, p.parseAdditive)
}

func (p *Parser) parseAdditive() (ast.ExprID, bool) {
	return p.parseBin(map[token.Kind]ast.BinaryOp{token.Plus: ast.OpAdd, token.Minus: ast.OpSub}, p.parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (ast.ExprID, bool) {
	return p.parseBin(map[token.Kind]ast.BinaryOp{
		token.Star: ast.OpMul, token.Slash: ast.OpDiv, token.Percent: ast.OpMod,
	}, p.parseUnary)
}

func (p *Parser) parseBin(ops map[token.Kind]ast.BinaryOp, next func() (ast.ExprID, bool)) (ast.ExprID, bool) {
	left, ok := next()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		op, has := ops[p.peek().Kind]
		if !has {
			return left, true
		}
		p.advance()
		right, ok := next()
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.deps.Exprs.Get(left).Span.Cover(p.deps.Exprs.Get(right).Span)
		left = p.deps.Exprs.NewBinary(sp, op, left, right)
	}
}

func (p *Parser) parseCmp(ops map[token.Kind]ast.ComparisonOp, next func() (ast.ExprID, bool)) (ast.ExprID, bool) {
	left, ok := next()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		op, has := ops[p.peek().Kind]
		if !has {
			return left, true
		}
		p.advance()
		right, ok := next()
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.deps.Exprs.Get(left).Span.Cover(p.deps.Exprs.Get(right).Span)
		left = p.deps.Exprs.NewComparison(sp, op, left, right)
	}
}

func (p *Parser) parseUnary() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Minus, token.Bang, token.Tilde, token.Star, token.Amp, token.PlusPlus, token.MinusMinus:
		p.advance()
		operand, ok := p.parseUnary()
		if !ok {
			return ast.NoExprID, false
		}
		op := map[token.Kind]ast.UnaryOp{
			token.Minus: ast.UnNeg, token.Bang: ast.UnNot, token.Tilde: ast.UnBitNot,
			token.Star: ast.UnDeref, token.Amp: ast.UnAddr,
			token.PlusPlus: ast.UnPreInc, token.MinusMinus: ast.UnPreDec,
		}[tok.Kind]
		sp := tok.Span.Cover(p.deps.Exprs.Get(operand).Span)
		return p.deps.Exprs.NewUnary(sp, op, operand), true

	case token.KwCast:
		p.advance()
		if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'cast'"); !ok {
			return ast.NoExprID, false
		}
		target, ok := p.parseType()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after cast type"); !ok {
			return ast.NoExprID, false
		}
		value, ok := p.parseUnary()
		if !ok {
			return ast.NoExprID, false
		}
		sp := tok.Span.Cover(p.deps.Exprs.Get(value).Span)
		return p.deps.Exprs.NewCast(sp, target, value), true

	case token.KwSizeof:
		p.advance()
		return p.parseSizeof(tok)

	default:
		return p.parsePostfix()
	}
}

// parseSizeof resolves spec.md §6.3's sizeof between its type and
// expression forms by peeking one token: a leading type keyword or
// qualifier is unambiguous and always a type. Everything else (including a
// bare named-type identifier, which only a type has no runtime value for)
// parses as an expression; the checker treats an identifier operand that
// resolves to a type definition as sizing that type rather than a value.
func (p *Parser) parseSizeof(kw token.Token) (ast.ExprID, bool) {
	if p.at(token.LParen) {
		inner := p.peek2()
		if inner.Kind.IsTypeKeyword() || inner.Kind.IsQualifier() {
			p.advance() // '('
			target, ok := p.parseType()
			if !ok {
				return ast.NoExprID, false
			}
			close, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after sizeof type")
			if !ok {
				return ast.NoExprID, false
			}
			return p.deps.Exprs.NewSizeofType(kw.Span.Cover(close.Span), target), true
		}
	}
	if p.peek().Kind.IsTypeKeyword() || p.peek().Kind.IsQualifier() {
		target, ok := p.parseType()
		if !ok {
			return ast.NoExprID, false
		}
		sp := kw.Span.Cover(p.deps.TypeSyns.Get(target).Span)
		return p.deps.Exprs.NewSizeofType(sp, target), true
	}
	operand, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	sp := kw.Span.Cover(p.deps.Exprs.Get(operand).Span)
	return p.deps.Exprs.NewSizeofExpr(sp, operand), true
}

func (p *Parser) parsePostfix() (ast.ExprID, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.Dot, token.Arrow:
			p.advance()
			field, ok := p.parseAnyId()
			if !ok {
				return ast.NoExprID, false
			}
			sp := p.deps.Exprs.Get(expr).Span.Cover(field.Span)
			expr = p.deps.Exprs.NewMember(sp, expr, field.Name, tok.Kind == token.Arrow)

		case token.LParen:
			p.advance()
			var args []ast.ExprID
			if !p.at(token.RParen) {
				for {
					arg, ok := p.parseAssignment()
					if !ok {
						return ast.NoExprID, false
					}
					args = append(args, arg)
					if !p.at(token.Comma) {
						break
					}
					p.advance()
				}
			}
			close, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after call arguments")
			if !ok {
				return ast.NoExprID, false
			}
			sp := p.deps.Exprs.Get(expr).Span.Cover(close.Span)
			expr = p.deps.Exprs.NewCall(sp, expr, args)

		case token.PlusPlus, token.MinusMinus:
			p.advance()
			op := ast.UnPostInc
			if tok.Kind == token.MinusMinus {
				op = ast.UnPostDec
			}
			sp := p.deps.Exprs.Get(expr).Span.Cover(tok.Span)
			expr = p.deps.Exprs.NewUnary(sp, op, expr)

		case token.LBracket:
			p.advance()
			index, ok := p.parseAssignment()
			if !ok {
				return ast.NoExprID, false
			}
			close, ok := p.expect(token.RBracket, diag.SynUnexpectedToken, "expected ']' after subscript index")
			if !ok {
				return ast.NoExprID, false
			}
			sp := p.deps.Exprs.Get(expr).Span.Cover(close.Span)
			expr = p.deps.Exprs.NewIndex(sp, expr, index)

		default:
			return expr, true
		}
	}
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.peek()

	if tok.Kind.IsTypeKeyword() || tok.Kind.IsQualifier() {
		// Only a typed aggregate initializer legally starts with a bare
		// type keyword in expression position: `int{1, 2, 3}`.
		typ, ok := p.parseType()
		if !ok {
			return ast.NoExprID, false
		}
		return p.parseAggregateInit(p.deps.TypeSyns.Get(typ).Span, typ)
	}

	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return p.deps.Exprs.NewLiteral(tok.Span, ast.ExprLiteralData{Kind: ast.LitInt, IntVal: tok.IntValue}), true
	case token.FloatLit:
		p.advance()
		return p.deps.Exprs.NewLiteral(tok.Span, ast.ExprLiteralData{Kind: ast.LitFloat, FloatVal: tok.FloatValue}), true
	case token.CharLit:
		p.advance()
		return p.deps.Exprs.NewLiteral(tok.Span, ast.ExprLiteralData{Kind: ast.LitChar, IntVal: tok.IntValue}), true
	case token.WideCharLit:
		p.advance()
		return p.deps.Exprs.NewLiteral(tok.Span, ast.ExprLiteralData{Kind: ast.LitWideChar, IntVal: tok.IntValue}), true
	case token.StringLit:
		p.advance()
		return p.deps.Exprs.NewLiteral(tok.Span, ast.ExprLiteralData{Kind: ast.LitString, Text: tok.Text}), true
	case token.WideStringLit:
		p.advance()
		return p.deps.Exprs.NewLiteral(tok.Span, ast.ExprLiteralData{Kind: ast.LitWideString, Text: tok.Text}), true
	case token.KwTrue:
		p.advance()
		return p.deps.Exprs.NewLiteral(tok.Span, ast.ExprLiteralData{Kind: ast.LitTrue}), true
	case token.KwFalse:
		p.advance()
		return p.deps.Exprs.NewLiteral(tok.Span, ast.ExprLiteralData{Kind: ast.LitFalse}), true
	case token.KwNull:
		p.advance()
		return p.deps.Exprs.NewLiteral(tok.Span, ast.ExprLiteralData{Kind: ast.LitNull}), true

	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		return inner, true

	case token.LBrace:
		return p.parseAggregateInit(tok.Span, ast.NoTypeSynID)

	case token.Ident:
		name, ok := p.parseScopedId()
		if !ok {
			return ast.NoExprID, false
		}
		if p.at(token.LBrace) {
			// A bare named type immediately followed by `{` is a typed
			// aggregate initializer, not an identifier reference.
			typ := p.deps.TypeSyns.NewNamed(name.Span, name)
			return p.parseAggregateInit(name.Span, typ)
		}
		return p.deps.Exprs.NewIdent(name.Span, name), true

	default:
		p.report(diag.SynUnexpectedToken, tok.Span, "expected an expression")
		return ast.NoExprID, false
	}
}

func (p *Parser) parseAggregateInit(start source.Span, typ ast.TypeSynID) (ast.ExprID, bool) {
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'"); !ok {
		return ast.NoExprID, false
	}
	var elems []ast.ExprID
	if !p.at(token.RBrace) {
		for {
			e, ok := p.parseAssignment()
			if !ok {
				return ast.NoExprID, false
			}
			elems = append(elems, e)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
			if p.at(token.RBrace) {
				break // trailing comma allowed
			}
		}
	}
	close, ok := p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' to close initializer")
	if !ok {
		return ast.NoExprID, false
	}
	return p.deps.Exprs.NewAggregateInit(start.Cover(close.Span), typ, elems), true
}

// parseScopedId parses `Id ('::' Id)*`. A trailing `::` with no following
// identifier is non-fatal: the malformed final segment is dropped and the
// partial path already gathered is kept (spec.md §4.1).
func (p *Parser) parseScopedId() (ast.ScopedId, bool) {
	first, ok := p.parseAnyId()
	if !ok {
		return ast.ScopedId{}, false
	}
	segs := []ast.Identifier{first}
	for p.at(token.ColonColon) {
		op := p.advance()
		next := p.peek()
		if next.Kind != token.Ident {
			p.report(diag.SynStrayScopeOperator, op.Span, "expected an identifier after '::'")
			break
		}
		p.advance()
		segs = append(segs, ast.Identifier{Span: next.Span, Name: next.Text})
	}
	sp := segs[0].Span.Cover(segs[len(segs)-1].Span)
	return ast.ScopedId{Span: sp, Segments: segs}, true
}
