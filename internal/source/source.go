// Package source manages source file content, byte-offset spans, and
// interned strings shared across the compiler's arenas.
package source

import "fmt"

// FileID identifies a loaded source file within a FileSet.
type FileID uint32

// NoFileID marks the absence of a file.
const NoFileID FileID = ^FileID(0)

// Span is a contiguous half-open byte range within a single file.
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

// Empty reports whether the span has zero length.
func (s Span) Empty() bool { return s.Start == s.End }

// Len returns the span's length in bytes.
func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span covering both s and other.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// LineCol is a 1-based line/column position resolved from a byte offset.
type LineCol struct {
	Line, Column uint32
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }
