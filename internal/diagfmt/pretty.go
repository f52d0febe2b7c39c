package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"vane/internal/diag"
	"vane/internal/source"
)

// Pretty renders bag's diagnostics to w, one block per diagnostic:
//
//	path:line:col: SEVERITY code: message
//	 NN | source line
//	    |    ^~~~
//
// Callers should call bag.Sort() first so output order is deterministic
// regardless of which phase reported first, since phases may run
// concurrently.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	errorColor := color.New(color.FgRed, color.Bold)
	warningColor := color.New(color.FgYellow, color.Bold)
	infoColor := color.New(color.FgCyan, color.Bold)
	pathColor := color.New(color.FgWhite, color.Bold)
	codeColor := color.New(color.FgMagenta)
	lineNumColor := color.New(color.FgBlue)
	underlineColor := color.New(color.FgRed, color.Bold)

	prevNoColor := color.NoColor
	defer func() { color.NoColor = prevNoColor }()
	color.NoColor = !opts.Color

	context := opts.Context
	if context <= 0 {
		context = 1
	}

	for idx, d := range bag.Items() {
		if idx > 0 {
			fmt.Fprintln(w)
		}

		start, end := fs.Resolve(d.Primary)
		f := fs.Get(d.Primary.File)
		displayPath := fs.DisplayPath(d.Primary.File)

		var sevColored string
		switch d.Severity {
		case diag.SevError:
			sevColored = errorColor.Sprint(d.Severity.String())
		case diag.SevWarning:
			sevColored = warningColor.Sprint(d.Severity.String())
		default:
			sevColored = infoColor.Sprint(d.Severity.String())
		}

		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			pathColor.Sprint(displayPath), start.Line, start.Column,
			sevColored, codeColor.Sprint(d.Code.String()), d.Message)

		totalLines := uint32(len(f.LineIdx)) + 1
		startLine := start.Line
		if startLine > uint32(context) {
			startLine -= uint32(context)
		} else {
			startLine = 1
		}
		endLine := start.Line + uint32(context)
		if endLine > totalLines {
			endLine = totalLines
		}

		lineNumWidth := len(fmt.Sprintf("%d", endLine))
		if lineNumWidth < 3 {
			lineNumWidth = 3
		}

		for line := startLine; line <= endLine; line++ {
			text := lineText(f, line)
			fmt.Fprintf(w, "%s | %s\n", lineNumColor.Sprint(fmt.Sprintf("%*d", lineNumWidth, line)), text)

			if line != start.Line {
				continue
			}
			endCol := end.Column
			if end.Line > start.Line {
				endCol = uint32(len(text)) + 1
			}
			var underline strings.Builder
			for range lineNumWidth + 3 {
				underline.WriteByte(' ')
			}
			// Pad by display width, not byte count, so a line containing
			// wide (e.g. CJK) characters before the span still lines the
			// caret up under the right column.
			prefixEnd := clampOffset(text, start.Column-1)
			spanEnd := clampOffset(text, endCol-1)
			if spanEnd < prefixEnd {
				spanEnd = prefixEnd
			}
			prefixWidth := runewidth.StringWidth(text[:prefixEnd])
			spanWidth := runewidth.StringWidth(text[prefixEnd:spanEnd])
			for i := 0; i < prefixWidth; i++ {
				underline.WriteByte(' ')
			}
			if spanWidth <= 0 {
				underline.WriteByte('^')
			} else {
				for i := 0; i < spanWidth; i++ {
					if i == spanWidth-1 {
						underline.WriteByte('^')
					} else {
						underline.WriteByte('~')
					}
				}
			}
			fmt.Fprintln(w, underlineColor.Sprint(underline.String()))
		}

		for _, note := range d.Notes {
			if note.Span.File == f.ID {
				ns, _ := fs.Resolve(note.Span)
				fmt.Fprintf(w, "  note: %s:%d:%d: %s\n", displayPath, ns.Line, ns.Column, note.Msg)
			} else {
				fmt.Fprintf(w, "  note: %s\n", note.Msg)
			}
		}
	}
}

// clampOffset clamps a 0-based byte offset into [0, len(s)].
func clampOffset(s string, offset uint32) int {
	n := int(offset)
	if n < 0 {
		return 0
	}
	if n > len(s) {
		return len(s)
	}
	return n
}

// lineText returns the 1-based line's text, without its trailing newline.
func lineText(f *source.File, line uint32) string {
	totalLines := uint32(len(f.LineIdx)) + 1
	if line < 1 || line > totalLines {
		return ""
	}
	var start uint32
	if line > 1 {
		start = f.LineIdx[line-2] + 1
	}
	end := uint32(len(f.Content))
	if line <= uint32(len(f.LineIdx)) {
		end = f.LineIdx[line-1]
	}
	if start > end || int(end) > len(f.Content) {
		return ""
	}
	return string(f.Content[start:end])
}
