package source

import "sync"

// StringID identifies an interned string. Zero (NoStringID) is the empty
// string, so a zero-valued StringID field never needs a separate "unset"
// sentinel.
type StringID uint32

// NoStringID marks the absence of an interned string.
const NoStringID StringID = 0

// Interner deduplicates identifier and literal text across every file
// parsed in one compilation, so the AST/symbol table can compare names by
// integer identity instead of string equality. Safe for concurrent use, as
// by the per-file lexing goroutines of internal/driver's TokenizeDir.
type Interner struct {
	mu    sync.RWMutex
	byID  []string
	index map[string]StringID
}

// NewInterner returns an Interner with NoStringID pre-bound to "".
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns s's StringID, allocating one if s hasn't been seen.
func (in *Interner) Intern(s string) StringID {
	in.mu.RLock()
	if id, ok := in.index[s]; ok {
		in.mu.RUnlock()
		return id
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[s]; ok {
		return id
	}
	id := StringID(len(in.byID))
	cpy := string([]byte(s)) // own the bytes; s may alias a reused lexer buffer
	in.byID = append(in.byID, cpy)
	in.index[cpy] = id
	return id
}

// Lookup returns the string for id.
func (in *Interner) Lookup(id StringID) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.byID) {
		return "", false
	}
	return in.byID[id], true
}

// MustLookup returns the string for id, panicking if id is invalid.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("source: invalid string id")
	}
	return s
}
