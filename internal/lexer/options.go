package lexer

import (
	"vane/internal/diag"
	"vane/internal/source"
)

// Options configures a Lexer's collaborators.
type Options struct {
	Reporter diag.Reporter
	Interner *source.Interner
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

func (lx *Lexer) intern(s string) source.StringID {
	if lx.opts.Interner == nil {
		return source.NoStringID
	}
	return lx.opts.Interner.Intern(s)
}
