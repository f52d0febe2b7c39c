package diagfmt

// PrettyOpts configures Pretty's rendering of a diagnostic bag.
type PrettyOpts struct {
	// Color enables ANSI coloring via github.com/fatih/color.
	Color bool
	// Context is the number of source lines shown above and below the
	// primary span's line.
	Context int
}
