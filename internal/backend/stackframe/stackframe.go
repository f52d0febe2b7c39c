// Package stackframe is a minimal concrete frame.Frame: every argument,
// return value, and local gets a stack slot, growing downward from a base
// pointer. It exists so internal/translate has something real to drive in
// tests; a target backend can swap in register allocation by providing a
// different frame.Frame without changing the translator.
package stackframe

import (
	"vane/internal/frame"
	"vane/internal/ir"
	"vane/internal/types"
)

// access is the one frame.Access variant this backend produces: an
// operand backed by a frame offset, loaded/stored via STK_LOAD/STK_STORE.
type access struct {
	offset int
	size   int
}

func (a *access) Load(out ir.Operand) []ir.Entry {
	return []ir.Entry{ir.Entry{Op: ir.OpStkLoad, OpSize: a.size, Dest: out, Arg1: a.Address()}}
}

func (a *access) Store(value ir.Operand) []ir.Entry {
	return []ir.Entry{ir.Entry{Op: ir.OpStkStore, OpSize: a.size, Arg1: a.Address(), Arg2: value}}
}

func (a *access) Address() ir.Operand { return ir.StackOffset(a.offset, a.size) }

func (a *access) GetLabel() (string, bool) { return "", false }

func (a *access) Destroy() {}

// Frame lays out one function's arguments and locals in declaration order.
// Offset 0 is the frame base; arguments occupy negative offsets (above the
// base, following the classic grow-down convention), locals occupy
// positive offsets (below the base).
type Frame struct {
	typesIn  *types.Interner
	ptrSize  int
	argTop   int // next negative-growing argument offset
	localTop int // next positive-growing local offset
	retSlot  *access
	scopes   [][]int // stack of local offsets opened per ScopeStart, for release-in-reverse
}

func New(typesIn *types.Interner, ptrSize int) *Frame {
	return &Frame{typesIn: typesIn, ptrSize: ptrSize}
}

func (f *Frame) AllocArg(t types.TypeID, escapes bool) frame.Access {
	size := f.typesIn.SizeOf(t, f.ptrSize)
	align := f.typesIn.AlignOf(t, f.ptrSize)
	f.argTop = roundUp(f.argTop+size, align)
	return &access{offset: -f.argTop, size: size}
}

// AllocRetVal reports false for types.NoTypeID; the caller (the
// translator) is responsible for passing NoTypeID when the declared return
// type is void.
func (f *Frame) AllocRetVal(t types.TypeID) (frame.Access, bool) {
	if t == types.NoTypeID {
		return nil, false
	}
	size := f.typesIn.SizeOf(t, f.ptrSize)
	align := f.typesIn.AlignOf(t, f.ptrSize)
	f.argTop = roundUp(f.argTop+size, align)
	a := &access{offset: -f.argTop, size: size}
	f.retSlot = a
	return a, true
}

func (f *Frame) AllocLocal(t types.TypeID, escapes bool) frame.Access {
	size := f.typesIn.SizeOf(t, f.ptrSize)
	align := f.typesIn.AlignOf(t, f.ptrSize)
	f.localTop = roundUp(f.localTop+size, align)
	a := &access{offset: f.localTop, size: size}
	if n := len(f.scopes); n > 0 {
		f.scopes[n-1] = append(f.scopes[n-1], a.offset)
	}
	return a
}

func (f *Frame) ScopeStart() {
	f.scopes = append(f.scopes, nil)
}

func (f *Frame) ScopeEnd(body []ir.Entry) []ir.Entry {
	if len(f.scopes) == 0 {
		return body
	}
	f.scopes = f.scopes[:len(f.scopes)-1]
	return body
}

// GenerateEntryExit is a no-op for this backend: a stack-only frame with no
// callee-saved registers needs no explicit prologue/epilogue IR, only the
// frame size Info reports for the assembler to reserve.
func (f *Frame) GenerateEntryExit(body []ir.Entry) []ir.Entry {
	return body
}

func (f *Frame) Info() ir.FrameInfo {
	return ir.FrameInfo{LocalsSize: f.localTop, ArgsSize: f.argTop}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	if r := n % align; r != 0 {
		return n + (align - r)
	}
	return n
}
