package parser

import (
	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/source"
	"vane/internal/token"
)

// parseStmt dispatches on the next token to one of the statement forms
// spec.md §4.1/§4.4 describe. It is context-aware: on failure it triggers
// panicTopLevel-style recovery up to the caller, since mid-body recovery
// only needs to resync to the next statement boundary.
func (p *Parser) parseStmt() (ast.StmtID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseCompound()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwBreak:
		p.advance()
		semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after 'break'")
		if !ok {
			return ast.NoStmtID, false
		}
		return p.deps.Stmts.NewBreak(tok.Span.Cover(semi.Span)), true
	case token.KwContinue:
		p.advance()
		semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after 'continue'")
		if !ok {
			return ast.NoStmtID, false
		}
		return p.deps.Stmts.NewContinue(tok.Span.Cover(semi.Span)), true
	case token.KwReturn:
		return p.parseReturn()
	case token.KwAsm:
		return p.parseAsm()
	case token.Semicolon:
		p.advance()
		return p.deps.Stmts.NewNull(tok.Span), true
	default:
		if tok.Kind.IsTypeKeyword() || tok.Kind.IsQualifier() {
			return p.parseVarDeclStmt()
		}
		if tok.Kind == token.Ident && p.startsVarDecl() {
			return p.parseVarDeclStmt()
		}
		return p.parseExprStmt()
	}
}

// startsVarDecl distinguishes `Name moreName` (a declaration, where Name is
// a type) from an identifier used as an expression, by looking at the
// single token following the leading identifier: another identifier or a
// `*` can only continue a declarator. A scoped name (`Mod::Foo x;`) is
// conservatively treated as a declaration too, since a bare scoped call or
// reference statement is the rarer shape.
func (p *Parser) startsVarDecl() bool {
	next := p.peek2()
	return next.Kind == token.Ident || next.Kind == token.Star || next.Kind == token.ColonColon
}

func (p *Parser) parseCompound() (ast.StmtID, bool) {
	open, _ := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	var stmts []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.peek()
		if s, ok := p.parseStmt(); ok {
			stmts = append(stmts, s)
		} else {
			p.resyncStmt()
		}
		after := p.peek()
		if after.Kind != token.EOF && after.Kind == before.Kind && after.Span == before.Span {
			p.advance()
		}
	}
	close, ok := p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' to close block")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.deps.Stmts.NewCompound(open.Span.Cover(close.Span), ast.CompoundStmtData{Stmts: stmts}), true
}

// resyncStmt is panicTopLevel's statement-level counterpart: consume until
// a semicolon (consumed), a closing brace (unread), or a top-level starter
// (unread, letting the enclosing file-level recovery take over).
func (p *Parser) resyncStmt() {
	for {
		tok := p.peek()
		if tok.Kind == token.Semicolon {
			p.advance()
			return
		}
		if tok.Kind == token.RBrace || tok.Kind == token.EOF || tok.Kind.IsTopLevelStarter() {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseIf() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'if'"); !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after if condition"); !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	elseBranch := ast.NoStmtID
	end := p.deps.Stmts.Get(then).Span
	if p.at(token.KwElse) {
		p.advance()
		elseBranch, ok = p.parseStmt()
		if !ok {
			return ast.NoStmtID, false
		}
		end = p.deps.Stmts.Get(elseBranch).Span
	}
	return p.deps.Stmts.NewIf(kw.Span.Cover(end), ast.IfStmtData{Cond: cond, Then: then, Else: elseBranch}), true
}

func (p *Parser) parseWhile() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'while'"); !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after while condition"); !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	sp := kw.Span.Cover(p.deps.Stmts.Get(body).Span)
	return p.deps.Stmts.NewWhile(sp, ast.WhileStmtData{Cond: cond, Body: body}), true
}

func (p *Parser) parseDoWhile() (ast.StmtID, bool) {
	kw := p.advance()
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after do-block"); !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'while'"); !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after while condition"); !ok {
		return ast.NoStmtID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after do-while")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.deps.Stmts.NewDoWhile(kw.Span.Cover(semi.Span), ast.DoWhileStmtData{Body: body, Cond: cond}), true
}

func (p *Parser) parseFor() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'"); !ok {
		return ast.NoStmtID, false
	}

	init := ast.NoStmtID
	if !p.at(token.Semicolon) {
		tok := p.peek()
		var ok bool
		if tok.Kind.IsTypeKeyword() || tok.Kind.IsQualifier() {
			init, ok = p.parseVarDeclClause()
		} else {
			e, eok := p.parseExprList()
			ok = eok
			if ok {
				init = p.deps.Stmts.NewExpr(p.deps.Exprs.Get(e).Span, ast.ExprStmtData{Expr: e})
			}
		}
		if !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after for-init"); !ok {
		return ast.NoStmtID, false
	}

	cond := ast.NoExprID
	if !p.at(token.Semicolon) {
		var ok bool
		cond, ok = p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after for-condition"); !ok {
		return ast.NoStmtID, false
	}

	update := ast.NoExprID
	if !p.at(token.RParen) {
		var ok bool
		update, ok = p.parseExprList()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after for-clauses"); !ok {
		return ast.NoStmtID, false
	}

	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	sp := kw.Span.Cover(p.deps.Stmts.Get(body).Span)
	return p.deps.Stmts.NewFor(sp, ast.ForStmtData{Init: init, Cond: cond, Update: update, Body: body}), true
}

// parseVarDeclClause parses a variable declaration without its terminating
// ';', for use in a for-statement's init clause.
func (p *Parser) parseVarDeclClause() (ast.StmtID, bool) {
	typ, ok := p.parseType()
	if !ok {
		return ast.NoStmtID, false
	}
	names, inits, ok := p.parseDeclaratorList()
	if !ok {
		return ast.NoStmtID, false
	}
	sp := p.deps.TypeSyns.Get(typ).Span
	if n := len(names); n > 0 {
		sp = sp.Cover(names[n-1].Span)
	}
	return p.deps.Stmts.NewVarDecl(sp, ast.VarDeclStmtData{Type: typ, Names: names, Initializers: inits}), true
}

func (p *Parser) parseVarDeclStmt() (ast.StmtID, bool) {
	start := p.peek().Span
	stmt, ok := p.parseVarDeclClause()
	if !ok {
		return ast.NoStmtID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after variable declaration")
	if !ok {
		return ast.NoStmtID, false
	}
	node := p.deps.Stmts.Get(stmt)
	node.Span = start.Cover(semi.Span)
	return stmt, true
}

// parseDeclaratorList parses `Id (= Expr)? (, Id (= Expr)?)*`, shared by
// top-level variable items and statement-position variable declarations.
func (p *Parser) parseDeclaratorList() ([]ast.Identifier, []ast.ExprID, bool) {
	var names []ast.Identifier
	var inits []ast.ExprID
	for {
		name, ok := p.parseAnyId()
		if !ok {
			return nil, nil, false
		}
		names = append(names, name)
		init := ast.NoExprID
		if p.at(token.Assign) {
			p.advance()
			var eok bool
			init, eok = p.parseAssignment()
			if !eok {
				return nil, nil, false
			}
		}
		inits = append(inits, init)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return names, inits, true
}

func (p *Parser) parseSwitch() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'switch'"); !ok {
		return ast.NoStmtID, false
	}
	scrutinee, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after switch scrutinee"); !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to start switch body"); !ok {
		return ast.NoStmtID, false
	}
	var cases []ast.StmtID
	defaultCase := ast.NoStmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.at(token.KwCase) {
			c, ok := p.parseSwitchCase()
			if !ok {
				p.resyncStmt()
				continue
			}
			cases = append(cases, c)
		} else if p.at(token.KwDefault) {
			d, ok := p.parseSwitchDefault()
			if !ok {
				p.resyncStmt()
				continue
			}
			defaultCase = d
		} else {
			p.report(diag.SynUnexpectedToken, p.peek().Span, "expected 'case' or 'default'")
			p.resyncStmt()
		}
	}
	close, ok := p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' to close switch")
	if !ok {
		return ast.NoStmtID, false
	}
	sp := kw.Span.Cover(close.Span)
	return p.deps.Stmts.NewSwitch(sp, ast.SwitchStmtData{Scrutinee: scrutinee, Cases: cases, Default: defaultCase}), true
}

func (p *Parser) parseSwitchCase() (ast.StmtID, bool) {
	kw := p.advance()
	var values []ast.ExprID
	for {
		v, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		values = append(values, v)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after case value"); !ok {
		return ast.NoStmtID, false
	}
	body, end := p.parseCaseBody()
	return p.deps.Stmts.NewSwitchCase(kw.Span.Cover(end), ast.SwitchCaseStmtData{Values: values, Body: body}), true
}

func (p *Parser) parseSwitchDefault() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after 'default'"); !ok {
		return ast.NoStmtID, false
	}
	body, end := p.parseCaseBody()
	return p.deps.Stmts.NewSwitchDefault(kw.Span.Cover(end), ast.SwitchDefaultStmtData{Body: body}), true
}

func (p *Parser) parseCaseBody() ([]ast.StmtID, source.Span) {
	var body []ast.StmtID
	end := p.peek().Span
	for !p.atAny(token.KwCase, token.KwDefault, token.RBrace, token.EOF) {
		before := p.peek()
		if s, ok := p.parseStmt(); ok {
			body = append(body, s)
			end = p.deps.Stmts.Get(s).Span
		} else {
			p.resyncStmt()
		}
		after := p.peek()
		if after.Kind != token.EOF && after.Kind == before.Kind && after.Span == before.Span {
			p.advance()
		}
	}
	return body, end
}

func (p *Parser) parseReturn() (ast.StmtID, bool) {
	kw := p.advance()
	value := ast.NoExprID
	if !p.at(token.Semicolon) {
		var ok bool
		value, ok = p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.deps.Stmts.NewReturn(kw.Span.Cover(semi.Span), ast.ReturnStmtData{Value: value}), true
}

func (p *Parser) parseAsm() (ast.StmtID, bool) {
	kw := p.advance()
	text, ok := p.expect(token.StringLit, diag.SynUnexpectedToken, "expected a string literal after 'asm'")
	if !ok {
		return ast.NoStmtID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after asm statement")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.deps.Stmts.NewAsm(kw.Span.Cover(semi.Span), ast.AsmStmtData{Text: text.Text}), true
}

func (p *Parser) parseExprStmt() (ast.StmtID, bool) {
	e, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression")
	if !ok {
		return ast.NoStmtID, false
	}
	sp := p.deps.Exprs.Get(e).Span.Cover(semi.Span)
	return p.deps.Stmts.NewExpr(sp, ast.ExprStmtData{Expr: e}), true
}
