package ast

import (
	"vane/internal/arena"
	"vane/internal/source"
)

// Module is the `module id;` declaration every file opens with.
type Module struct {
	Span source.Span
	Id   Identifier
}

// Import is one `import id;` clause. Resolved is filled by Pass B
// (spec.md §4.2) with the imported file's root scope; it starts out
// NoScopeRef.
type Import struct {
	Span     source.Span
	Id       Identifier
	Resolved ScopeRef
}

// File is the root syntax tree node for one parsed source file.
type File struct {
	Span     source.Span
	Filename source.StringID
	Module   Module
	Imports  []Import
	Items    []ItemID
	Scope    ScopeRef
}

// Files owns every parsed File node.
type Files struct {
	Arena *arena.Arena[File]
}

func NewFiles(capHint uint32) *Files {
	return &Files{Arena: arena.New[File](capHint)}
}

func (f *Files) New(sp source.Span, filename source.StringID, mod Module) FileID {
	return FileID(f.Arena.Allocate(File{
		Span:     sp,
		Filename: filename,
		Module:   mod,
		Imports:  nil,
		Items:    nil,
	}))
}

func (f *Files) Get(id FileID) *File { return f.Arena.Get(arena.ID(id)) }
