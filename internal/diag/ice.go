package diag

import (
	"fmt"
	"runtime"
)

// ICE (internal compiler error) is the panic payload used for translator
// invariant violations that must never occur on a type-checked tree
// (spec.md §7). Nothing recovers it: the Go runtime prints its Error text,
// which carries the file/line of the call site that detected the violation,
// with a stack trace, and the process exits nonzero.
type ICE struct {
	File string
	Line int
	Msg  string
}

func (e *ICE) Error() string {
	return fmt.Sprintf("internal compiler error at %s:%d: %s", e.File, e.Line, e.Msg)
}

// Abort panics with an ICE describing msg, attributing it to its caller.
func Abort(format string, args ...any) {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "unknown", 0
	}
	panic(&ICE{File: file, Line: line, Msg: fmt.Sprintf(format, args...)})
}
