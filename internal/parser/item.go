package parser

import (
	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/source"
	"vane/internal/token"
)

// parseItem dispatches one top-level body (spec.md §4.1's `Bodies` rule).
// Declaration files and code files share this grammar; isCode only gates
// whether a function/variable may carry a body/initializer, which the
// individual parseX helpers check.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.KwOpaque:
		return p.parseOpaque()
	case token.KwStruct:
		return p.parseStruct()
	case token.KwUnion:
		return p.parseUnion()
	case token.KwEnum:
		return p.parseEnum()
	case token.KwTypedef:
		return p.parseTypedef()
	default:
		if tok.Kind.IsTypeKeyword() || tok.Kind.IsQualifier() || tok.Kind == token.Ident {
			return p.parseFunctionOrVar()
		}
		p.report(diag.SynExpectTopLevelForm, tok.Span, "expected a top-level declaration")
		return ast.NoItemID, false
	}
}

func (p *Parser) parseOpaque() (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.parseAnyId()
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after opaque declaration")
	if !ok {
		return ast.NoItemID, false
	}
	return p.deps.Items.NewOpaque(kw.Span.Cover(semi.Span), ast.OpaqueData{Name: name}), true
}

func (p *Parser) parseStruct() (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.parseAnyId()
	if !ok {
		return ast.NoItemID, false
	}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to start struct body")
	if !ok {
		return ast.NoItemID, false
	}
	var fieldTypes []ast.TypeSynID
	var fieldNames []ast.Identifier
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		ft, ok := p.parseType()
		if !ok {
			p.panicTopLevel()
			break
		}
		for {
			fn, ok := p.parseAnyId()
			if !ok {
				p.panicTopLevel()
				break
			}
			fieldTypes = append(fieldTypes, ft)
			fieldNames = append(fieldNames, fn)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after field declaration"); !ok {
			p.panicTopLevel()
		}
	}
	if len(fieldNames) == 0 {
		p.report(diag.SynEmptyAggregateBody, open.Span, "struct body must declare at least one field")
	}
	close, ok := p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' to close struct body")
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after struct body")
	if !ok {
		return ast.NoItemID, false
	}
	return p.deps.Items.NewStruct(kw.Span.Cover(semi.Span), ast.StructData{
		Name: name, FieldTypes: fieldTypes, FieldNames: fieldNames,
	}), true
}

func (p *Parser) parseUnion() (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.parseAnyId()
	if !ok {
		return ast.NoItemID, false
	}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to start union body")
	if !ok {
		return ast.NoItemID, false
	}
	var optTypes []ast.TypeSynID
	var optNames []ast.Identifier
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		ft, ok := p.parseType()
		if !ok {
			p.panicTopLevel()
			break
		}
		for {
			fn, ok := p.parseAnyId()
			if !ok {
				p.panicTopLevel()
				break
			}
			optTypes = append(optTypes, ft)
			optNames = append(optNames, fn)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after union option"); !ok {
			p.panicTopLevel()
		}
	}
	if len(optNames) == 0 {
		p.report(diag.SynEmptyAggregateBody, open.Span, "union body must declare at least one option")
	}
	close, ok := p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' to close union body")
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after union body")
	if !ok {
		return ast.NoItemID, false
	}
	return p.deps.Items.NewUnion(kw.Span.Cover(semi.Span), ast.UnionData{
		Name: name, OptionTypes: optTypes, OptionNames: optNames,
	}), true
}

func (p *Parser) parseEnum() (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.parseAnyId()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to start enum body"); !ok {
		return ast.NoItemID, false
	}
	var constants []ast.EnumConstData
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		cname, ok := p.parseAnyId()
		if !ok {
			p.report(diag.SynExpectEnumConstant, p.peek().Span, "expected an enum constant name")
			p.panicTopLevel()
			break
		}
		init := ast.NoExprID
		if p.at(token.Assign) {
			p.advance()
			init, ok = p.parseAssignment()
			if !ok {
				p.panicTopLevel()
				break
			}
		}
		constants = append(constants, ast.EnumConstData{Name: cname, Init: init})
		if !p.at(token.Comma) {
			break
		}
		p.advance() // trailing comma before '}' is allowed; the loop condition handles it
	}
	close, ok := p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' to close enum body")
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after enum body")
	if !ok {
		return ast.NoItemID, false
	}
	return p.deps.Items.NewEnum(kw.Span.Cover(semi.Span), ast.EnumData{Name: name, Constants: constants}), true
}

func (p *Parser) parseTypedef() (ast.ItemID, bool) {
	kw := p.advance()
	target, ok := p.parseType()
	if !ok {
		return ast.NoItemID, false
	}
	name, ok := p.parseAnyId()
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after typedef")
	if !ok {
		return ast.NoItemID, false
	}
	return p.deps.Items.NewTypedef(kw.Span.Cover(semi.Span), ast.TypedefData{Target: target, Name: name}), true
}

// parseFunctionOrVar handles the `Type Name ...` forms, disambiguating
// function from variable on the token immediately after the name (spec.md
// §4.1: `(` starts a function, `;`/`,` a variable, `=` a variable with
// initializer).
func (p *Parser) parseFunctionOrVar() (ast.ItemID, bool) {
	start := p.peek().Span
	typ, ok := p.parseType()
	if !ok {
		return ast.NoItemID, false
	}
	name, ok := p.parseAnyId()
	if !ok {
		return ast.NoItemID, false
	}
	if p.at(token.LParen) {
		return p.parseFunction(start, typ, name)
	}
	return p.parseVarItem(start, typ, name)
}

func (p *Parser) parseFunction(start source.Span, ret ast.TypeSynID, name ast.Identifier) (ast.ItemID, bool) {
	p.advance() // '('
	var argTypes []ast.TypeSynID
	var argNames []ast.Identifier
	var argDefaults []ast.ExprID
	if !p.at(token.RParen) {
		for {
			at, ok := p.parseType()
			if !ok {
				return ast.NoItemID, false
			}
			argTypes = append(argTypes, at)
			argName := ast.Identifier{}
			if p.at(token.Ident) {
				argName, ok = p.parseAnyId()
				if !ok {
					return ast.NoItemID, false
				}
			}
			argNames = append(argNames, argName)
			def := ast.NoExprID
			if p.at(token.Assign) {
				p.advance()
				def, ok = p.parseAssignment()
				if !ok {
					return ast.NoItemID, false
				}
			}
			argDefaults = append(argDefaults, def)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after parameter list"); !ok {
		return ast.NoItemID, false
	}

	if p.at(token.Semicolon) {
		semi := p.advance()
		return p.deps.Items.NewFunctionDecl(start.Cover(semi.Span), ast.FunctionDeclData{
			ReturnType: ret, Name: name, ArgTypes: argTypes, ArgNames: argNames, ArgDefaults: argDefaults,
		}), true
	}
	if !p.isCode {
		p.report(diag.SynExpectSemicolon, p.peek().Span, "function definitions are not permitted in a declaration file")
		p.panicTopLevel()
		return ast.NoItemID, false
	}
	body, ok := p.parseCompound()
	if !ok {
		return ast.NoItemID, false
	}
	sp := start.Cover(p.deps.Stmts.Get(body).Span)
	return p.deps.Items.NewFunctionDefn(sp, ast.FunctionDefnData{
		ReturnType: ret, Name: name, ArgTypes: argTypes, ArgNames: argNames, ArgDefaults: argDefaults, Body: body,
	}), true
}

func (p *Parser) parseVarItem(start source.Span, typ ast.TypeSynID, first ast.Identifier) (ast.ItemID, bool) {
	names := []ast.Identifier{first}
	inits := []ast.ExprID{ast.NoExprID}
	if p.at(token.Assign) {
		if !p.isCode {
			p.report(diag.SynUnexpectedToken, p.peek().Span, "variable initializers are not permitted in a declaration file")
		}
		p.advance()
		init, ok := p.parseAssignment()
		if !ok {
			return ast.NoItemID, false
		}
		inits[0] = init
	}
	for p.at(token.Comma) {
		p.advance()
		name, ok := p.parseAnyId()
		if !ok {
			return ast.NoItemID, false
		}
		names = append(names, name)
		init := ast.NoExprID
		if p.at(token.Assign) {
			if !p.isCode {
				p.report(diag.SynUnexpectedToken, p.peek().Span, "variable initializers are not permitted in a declaration file")
			}
			p.advance()
			var ok bool
			init, ok = p.parseAssignment()
			if !ok {
				return ast.NoItemID, false
			}
		}
		inits = append(inits, init)
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after variable declaration")
	if !ok {
		return ast.NoItemID, false
	}
	return p.deps.Items.NewVar(start.Cover(semi.Span), ast.VarData{Type: typ, Names: names, Initializers: inits}), true
}
