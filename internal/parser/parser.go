// Package parser implements vane's recursive-descent parser (spec.md
// §4.1): one token of lookahead via the lexer collaborator's single-slot
// pushback, context-ignorant subparsers that unread everything on failure,
// and context-aware subparsers that resync to the next top-level boundary.
package parser

import (
	"vane/internal/ast"
	"vane/internal/diag"
	"vane/internal/lexer"
	"vane/internal/source"
	"vane/internal/token"
)

// Deps bundles the shared arenas a Parser writes new nodes into. One set of
// Deps is shared by every file in a compilation, mirroring the shared
// source.Interner the lexer collaborators intern into.
type Deps struct {
	Interner *source.Interner
	Reporter diag.Reporter
	Files    *ast.Files
	Items    *ast.Items
	Stmts    *ast.Stmts
	Exprs    *ast.Exprs
	TypeSyns *ast.TypeSyns
}

// Parser holds per-file state: a token source and a running error flag, per
// spec.md §4.1's "file entry (with name, lexer state, and an `errored`
// flag)" contract. buf holds tokens read from the lexer but not yet
// consumed by the grammar; it lets a handful of two-token lookahead
// decisions (sizeof's type-vs-expr form, a statement's declaration-vs-
// expression form) see past the lexer's own single-slot pushback without
// losing a token.
type Parser struct {
	lx      *lexer.Lexer
	deps    Deps
	isCode  bool
	errored bool
	buf     []token.Token
}

// ParseFile parses one file's tokens into an ast.File. isCode selects
// whether function/variable definitions (not just declarations) are
// permitted in the body (spec.md §4.1's code-file vs declaration-file
// distinction). ok is false only on a fatal parse failure (a malformed
// module line); non-fatal errors are reported through deps.Reporter and
// still return a File.
func ParseFile(lx *lexer.Lexer, deps Deps, filename source.StringID, isCode bool) (ast.FileID, bool) {
	p := &Parser{lx: lx, deps: deps, isCode: isCode}

	mod, ok := p.parseModule()
	if !ok {
		return ast.NoFileID, false
	}

	fileID := p.deps.Files.New(mod.Span, filename, mod)
	imports := p.parseImports()

	var items []ast.ItemID
	for !p.at(token.EOF) {
		before := p.peek()
		if id, ok := p.parseItem(); ok {
			items = append(items, id)
		} else {
			p.panicTopLevel()
		}
		// Guarantee forward progress: if neither the successful parse nor
		// the recovery routine consumed anything, force one token down so
		// malformed input can never stall the top-level loop.
		after := p.peek()
		if after.Kind != token.EOF && after.Kind == before.Kind && after.Span == before.Span {
			p.advance()
		}
	}

	f := p.deps.Files.Get(fileID)
	f.Imports = imports
	f.Items = items
	f.Span = f.Span.Cover(p.peek().Span)
	return fileID, true
}

// peek returns the next token without consuming it.
func (p *Parser) peek() token.Token {
	if len(p.buf) == 0 {
		p.buf = append(p.buf, p.lx.Next())
	}
	return p.buf[0]
}

// peek2 returns the token after the next one, without consuming either.
func (p *Parser) peek2() token.Token {
	for len(p.buf) < 2 {
		p.buf = append(p.buf, p.lx.Next())
	}
	return p.buf[1]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atAny(kinds ...token.Kind) bool {
	cur := p.peek().Kind
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

func (p *Parser) advance() token.Token {
	if len(p.buf) > 0 {
		t := p.buf[0]
		p.buf = p.buf[1:]
		return t
	}
	return p.lx.Next()
}

// expect consumes the next token if it has kind k; otherwise it reports
// code and unreads, leaving the stream positioned at the offending token
// for the caller's own recovery.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	tok := p.peek()
	if tok.Kind != k {
		p.report(code, tok.Span, msg)
		return tok, false
	}
	return p.advance(), true
}

func (p *Parser) report(code diag.Code, span source.Span, msg string) {
	p.errored = true
	if p.deps.Reporter != nil {
		p.deps.Reporter.Report(code, diag.SevError, span, msg, nil)
	}
}

// panicTopLevel implements spec.md §4.1's recovery routine: consume tokens
// until a semicolon (consumed) or a top-level starter (unread) is reached.
// Idempotent on boundaries, so calling it twice in a row is a no-op.
func (p *Parser) panicTopLevel() {
	for {
		tok := p.peek()
		if tok.Kind.IsTopLevelStarter() {
			return
		}
		if tok.Kind == token.Semicolon {
			p.advance()
			return
		}
		p.advance()
	}
}

// parseAnyId accepts any identifier-shaped token for a module/import name
// (spec.md §4.1's *AnyId*); on failure it unreads nothing since Peek never
// consumed anything.
func (p *Parser) parseAnyId() (ast.Identifier, bool) {
	tok := p.peek()
	if tok.Kind != token.Ident {
		p.report(diag.SynExpectIdent, tok.Span, "expected an identifier")
		return ast.Identifier{}, false
	}
	p.advance()
	return ast.Identifier{Span: tok.Span, Name: tok.Text}, true
}

func (p *Parser) parseModule() (ast.Module, bool) {
	kw, ok := p.expect(token.KwModule, diag.SynExpectTopLevelForm, "expected 'module' declaration")
	if !ok {
		p.panicTopLevel()
		return ast.Module{}, false
	}
	id, ok := p.parseAnyId()
	if !ok {
		p.panicTopLevel()
		return ast.Module{}, false
	}
	semi := p.peek()
	if semi.Kind != token.Semicolon {
		p.report(diag.SynExpectSemicolon, semi.Span, "expected ';' after module declaration")
		p.panicTopLevel()
		return ast.Module{Span: kw.Span.Cover(id.Span), Id: id}, true
	}
	p.advance()
	return ast.Module{Span: kw.Span.Cover(semi.Span), Id: id}, true
}

func (p *Parser) parseImports() []ast.Import {
	var imports []ast.Import
	for p.at(token.KwImport) {
		kw := p.advance()
		id, ok := p.parseAnyId()
		if !ok {
			p.panicTopLevel()
			continue
		}
		semi := p.peek()
		if semi.Kind != token.Semicolon {
			p.report(diag.SynExpectSemicolon, semi.Span, "expected ';' after import")
			p.panicTopLevel()
			continue
		}
		p.advance()
		imports = append(imports, ast.Import{Span: kw.Span.Cover(semi.Span), Id: id})
	}
	return imports
}
