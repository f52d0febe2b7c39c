package ir

// FragmentKind tags which of the four linkable sections a Fragment belongs
// to (spec.md §3.5).
type FragmentKind uint8

const (
	FragmentBSS FragmentKind = iota
	FragmentRodata
	FragmentData
	FragmentText
)

// Fragment is one linkable unit of translator output. Label is always the
// mangled name (internal/mangle). Entries is unused for BSS.
type Fragment struct {
	Kind      FragmentKind
	Label     string
	Size      int // BSS only
	Alignment int
	Entries   []Entry
	Frame     FrameInfo // Text only
}

// FrameInfo is the subset of frame layout the text fragment carries for the
// backend to emit prologue/epilogue from, without the translator itself
// knowing target-specific stack details (spec.md §4.5).
type FrameInfo struct {
	LocalsSize int
	ArgsSize   int
}

func BSS(label string, size, alignment int) Fragment {
	return Fragment{Kind: FragmentBSS, Label: label, Size: size, Alignment: alignment}
}

func Rodata(label string, alignment int, entries []Entry) Fragment {
	return Fragment{Kind: FragmentRodata, Label: label, Alignment: alignment, Entries: entries}
}

func Data(label string, alignment int, entries []Entry) Fragment {
	return Fragment{Kind: FragmentData, Label: label, Alignment: alignment, Entries: entries}
}

func Text(label string, frame FrameInfo, entries []Entry) Fragment {
	return Fragment{Kind: FragmentText, Label: label, Frame: frame, Entries: entries}
}

// Vector is a file's ordered translation output (spec.md §3.5: "a file's
// translation output is a fragment vector ... no reordering").
type Vector []Fragment

// Append adds a fragment at the end, preserving encounter order.
func (v *Vector) Append(f Fragment) { *v = append(*v, f) }

// Output is the compiler's end product: output filename to fragment vector
// (spec.md §6.5: "X.src" -> "X.s").
type Output map[string]Vector
