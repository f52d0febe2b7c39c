package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag holds a capacity-bounded collection of diagnostics accumulated across
// one compilation. The cap guards against pathological inputs that would
// otherwise produce an unbounded diagnostic stream.
type Bag struct {
	items   []*Diagnostic
	maximum uint16
}

// NewBag creates a Bag that holds at most maximum diagnostics.
func NewBag(maximum int) *Bag {
	cap16, err := safecast.Conv[uint16](maximum)
	if err != nil {
		panic(fmt.Errorf("diag: bag capacity overflow: %w", err))
	}
	return &Bag{items: make([]*Diagnostic, 0, cap16), maximum: cap16}
}

// Add appends d, reporting whether it was kept (false once Cap is reached).
func (b *Bag) Add(d *Diagnostic) bool {
	if d == nil || len(b.items) >= int(b.maximum) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Cap returns the bag's capacity.
func (b *Bag) Cap() uint16 { return b.maximum }

// Len returns the number of diagnostics currently held.
func (b *Bag) Len() int { return len(b.items) }

// Items returns the bag's diagnostics. The returned slice aliases the bag's
// backing array and must not be mutated by the caller.
func (b *Bag) Items() []*Diagnostic { return b.items }

// HasErrors reports whether any diagnostic has SevError or higher.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic has SevWarning or higher.
func (b *Bag) HasWarnings() bool {
	for _, d := range b.items {
		if d.Severity >= SevWarning {
			return true
		}
	}
	return false
}

// Merge appends other's diagnostics, growing capacity if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	total, err := safecast.Conv[uint16](len(b.items) + len(other.items))
	if err != nil {
		panic(fmt.Errorf("diag: bag merge overflow: %w", err))
	}
	if total > b.maximum {
		b.maximum = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, start, end, severity (descending), then
// code, giving deterministic output regardless of emission order — needed
// since phases may run concurrently (spec.md §5).
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup removes diagnostics that repeat an earlier (Code, Primary) pair.
func (b *Bag) Dedup() {
	seen := make(map[string]struct{}, len(b.items))
	kept := b.items[:0:0]
	for _, d := range b.items {
		key := fmt.Sprintf("%d:%s", d.Code, d.Primary.String())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, d)
	}
	b.items = kept
}

// Filter keeps only diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(*Diagnostic) bool) {
	kept := b.items[:0:0]
	for _, d := range b.items {
		if keep(d) {
			kept = append(kept, d)
		}
	}
	b.items = kept
}

// Transform replaces every diagnostic with the result of applying fn.
func (b *Bag) Transform(fn func(*Diagnostic) *Diagnostic) {
	for i, d := range b.items {
		next := fn(d)
		if next == nil {
			panic("diag: transform returned nil")
		}
		b.items[i] = next
	}
}
