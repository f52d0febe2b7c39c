package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"vane/internal/source"
	"vane/internal/token"
)

// TokenOutput is one token's JSON representation.
type TokenOutput struct {
	Kind string      `json:"kind"`
	Text string      `json:"text,omitempty"`
	Span source.Span `json:"span"`
}

// FormatTokensPretty writes one line per token: its kind, interned text
// (when it carries any), and its resolved source position.
func FormatTokensPretty(w io.Writer, tokens []token.Token, interner *source.Interner, fs *source.FileSet) error {
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		if _, err := fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != source.NoStringID {
			text, _ := interner.Lookup(tok.Text)
			if _, err := fmt.Fprintf(w, " %q", text); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, " at %d:%d-%d:%d\n", start.Line, start.Column, end.Line, end.Column); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// TokenOutputsJSON converts tokens to their JSON-ready form, resolving
// interned text through interner.
func TokenOutputsJSON(tokens []token.Token, interner *source.Interner) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		o := TokenOutput{Kind: tok.Kind.String(), Span: tok.Span}
		if tok.Text != source.NoStringID {
			o.Text, _ = interner.Lookup(tok.Text)
		}
		out = append(out, o)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

// FormatTokensJSON writes tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token, interner *source.Interner) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(TokenOutputsJSON(tokens, interner))
}
