package ir

import "fmt"

// TempCounter allocates temp numbers within one function; it resets for
// each function translated (spec.md §5).
type TempCounter struct{ next uint32 }

func (c *TempCounter) Next() uint32 {
	id := c.next
	c.next++
	return id
}

// LabelKind distinguishes the two label-name flavors spec.md §5 requires:
// code labels (control flow targets) and data labels (fragment names for
// synthesized globals such as string literals).
type LabelKind uint8

const (
	LabelCode LabelKind = iota
	LabelData
)

// LabelCounter allocates globally unique label names for one driver run.
// Held once per compilation, not per function, so labels never collide
// across functions or files (spec.md §5: "per-driver monotonic counter").
type LabelCounter struct {
	codeNext uint32
	dataNext uint32
}

func (c *LabelCounter) Code(hint string) string {
	id := c.codeNext
	c.codeNext++
	return fmt.Sprintf(".L%s%d", hint, id)
}

func (c *LabelCounter) Data(hint string) string {
	id := c.dataNext
	c.dataNext++
	return fmt.Sprintf(".D%s%d", hint, id)
}
