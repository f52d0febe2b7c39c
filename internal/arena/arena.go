// Package arena provides a generic typed arena used by every package that
// needs stable, copyable indices into an owned collection instead of naked
// pointers (spec.md §9): syntax-tree nodes, symbol-table entries, semantic
// types, and IR fragments are all allocated from one of these.
package arena

import (
	"fmt"

	"fortio.org/safecast"
)

// ID is a 1-based index into an Arena. The zero value means "absent",
// mirroring a nil pointer without needing one.
type ID uint32

// NoID is the sentinel for "no element".
const NoID ID = 0

// Arena owns a growable collection of T, addressed by stable ID.
type Arena[T any] struct {
	data []*T
}

// New creates an Arena with a capacity hint.
func New[T any](capHint uint32) *Arena[T] {
	return &Arena[T]{data: make([]*T, 0, capHint)}
}

// Allocate appends value and returns its new ID.
func (a *Arena[T]) Allocate(value T) ID {
	elem := new(T)
	*elem = value
	a.data = append(a.data, elem)
	return a.Len()
}

// Get returns a pointer to the element at id, or nil for NoID.
func (a *Arena[T]) Get(id ID) *T {
	if id == NoID {
		return nil
	}
	return a.data[id-1]
}

// Len returns the number of allocated elements.
func (a *Arena[T]) Len() ID {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena: length overflow: %w", err))
	}
	return ID(n)
}

// Slice returns a copy of every allocated element in allocation order.
func (a *Arena[T]) Slice() []T {
	out := make([]T, len(a.data))
	for i, p := range a.data {
		out[i] = *p
	}
	return out
}
