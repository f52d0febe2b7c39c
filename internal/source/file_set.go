package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// File is a single loaded (or virtual) source file plus its precomputed
// line index, used to resolve byte offsets to line/column pairs.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx[i] is the byte offset of the i-th newline (0-based), used by
	// toLineCol to binary-search a line number for an offset.
	LineIdx []uint32
}

// FileSet owns every loaded source file for one compilation.
type FileSet struct {
	files   []File
	index   map[string]FileID
	baseDir string
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// NewFileSetWithBase creates an empty FileSet rooted at baseDir, used to
// shorten diagnostic paths.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir returns the FileSet's configured base directory.
func (fs *FileSet) BaseDir() string { return fs.baseDir }

// Add registers file content under path and returns its new FileID. Each
// call allocates a fresh FileID even if path repeats.
func (fs *FileSet) Add(path string, content []byte) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: file set overflow: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
	})
	fs.index[path] = id
	return id
}

// Load reads path from disk and adds it to the FileSet.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is supplied by the driver's own file discovery
	content, err := os.ReadFile(path)
	if err != nil {
		return NoFileID, err
	}
	return fs.Add(path, content), nil
}

// AddVirtual registers in-memory content (tests, stdin) under name.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content)
}

// Get returns the file for id. Panics on an out-of-range id, mirroring
// slice indexing semantics: callers only ever hold ids this FileSet issued.
func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// GetByPath returns the most recently added file registered under path.
func (fs *FileSet) GetByPath(path string) (*File, bool) {
	id, ok := fs.index[path]
	if !ok {
		return nil, false
	}
	return &fs.files[id], true
}

// Resolve converts a span's start and end offsets into line/column pairs.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := &fs.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// DisplayPath formats a file's path relative to the FileSet's base
// directory when possible, falling back to the stored path.
func (fs *FileSet) DisplayPath(id FileID) string {
	f := fs.Get(id)
	if fs.baseDir == "" {
		return f.Path
	}
	rel, err := filepath.Rel(fs.baseDir, f.Path)
	if err != nil {
		return f.Path
	}
	return rel
}

func buildLineIndex(content []byte) []uint32 {
	var idx []uint32
	for i, b := range content {
		if b == '\n' {
			n, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("source: line index overflow: %w", err))
			}
			idx = append(idx, n)
		}
	}
	return idx
}

// toLineCol converts a byte offset into a 1-based line/column pair using a
// binary search over the newline index.
func toLineCol(lineIdx []uint32, offset uint32) LineCol {
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) / 2
		if lineIdx[mid] < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line := uint32(lo) + 1
	var lineStart uint32
	if lo > 0 {
		lineStart = lineIdx[lo-1] + 1
	}
	return LineCol{Line: line, Column: offset - lineStart + 1}
}
