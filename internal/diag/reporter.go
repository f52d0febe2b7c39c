package diag

import (
	"fmt"

	"vane/internal/source"
)

// Reporter is the narrow contract every compiler phase reports diagnostics
// through, decoupling phases from how diagnostics are ultimately collected.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter adapts a Bag to the Reporter interface.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(&Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
}

// NopReporter discards every diagnostic. Useful for subparsers probing
// whether a production matches without wanting to surface speculative
// errors (spec.md §4.1's context-ignorant subparsers).
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}

// MultiReporter fans a diagnostic out to every wrapped Reporter.
type MultiReporter []Reporter

func (m MultiReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	for _, r := range m {
		if r != nil {
			r.Report(code, sev, primary, msg, notes)
		}
	}
}

// Errorf reports a SevError diagnostic.
func Errorf(r Reporter, code Code, primary source.Span, format string, args ...any) {
	report(r, SevError, code, primary, format, args...)
}

// Warnf reports a SevWarning diagnostic.
func Warnf(r Reporter, code Code, primary source.Span, format string, args ...any) {
	report(r, SevWarning, code, primary, format, args...)
}

// Infof reports a SevInfo diagnostic.
func Infof(r Reporter, code Code, primary source.Span, format string, args ...any) {
	report(r, SevInfo, code, primary, format, args...)
}

func report(r Reporter, sev Severity, code Code, primary source.Span, format string, args ...any) {
	if r == nil {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	r.Report(code, sev, primary, msg, nil)
}
