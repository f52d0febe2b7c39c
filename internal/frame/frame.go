// Package frame defines the translator's stack-layout collaborator
// interfaces (spec.md §4.5). The translator in internal/translate never
// touches target-specific stack layout; it only calls through Frame and
// Access, so a concrete backend (internal/backend/stackframe) can be swapped
// without changing any lowering code.
package frame

import (
	"vane/internal/ir"
	"vane/internal/types"
)

// Access is polymorphic over the capabilities a storage location offers the
// translator, regardless of whether it is backed by a global label, a
// register/temp, or a stack slot (spec.md §4.5).
type Access interface {
	// Load returns the entries that read the location's current value into
	// out (a fresh temp the caller has already sized).
	Load(out ir.Operand) []ir.Entry
	// Store returns the entries that write value into the location.
	Store(value ir.Operand) []ir.Entry
	// Address returns the operand naming this location's address directly
	// (a stack offset or a global label), for address-of and for composing
	// a larger address expression (struct field offset, array element).
	Address() ir.Operand
	// GetLabel returns the mangled label backing a global access; it is
	// only meaningful for the global variant.
	GetLabel() (string, bool)
	// Destroy releases any backend-side bookkeeping for the location. It
	// never frees the value itself — the IR's values are not owned by Access.
	Destroy()
}

// Frame hides target-specific stack/register allocation from the
// translator (spec.md §4.5).
type Frame interface {
	// AllocArg reserves the next argument slot in source order, before body
	// translation begins.
	AllocArg(t types.TypeID, escapes bool) Access
	// AllocRetVal reserves the return-value slot, or reports false when the
	// return type is void.
	AllocRetVal(t types.TypeID) (Access, bool)
	// AllocLocal reserves a slot for a local variable during the statement
	// walk.
	AllocLocal(t types.TypeID, escapes bool) Access
	// ScopeStart/ScopeEnd let the frame wrap a compound statement's lowered
	// body with scope-bounded preamble/postamble (e.g. releasing slots in
	// reverse declaration order).
	ScopeStart()
	ScopeEnd(body []ir.Entry) []ir.Entry
	// GenerateEntryExit wraps the fully lowered function body with its
	// prologue and epilogue, called once after every statement is lowered.
	GenerateEntryExit(body []ir.Entry) []ir.Entry
	// Info reports the frame's final layout for the text fragment.
	Info() ir.FrameInfo
}
