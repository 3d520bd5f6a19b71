package ast

import "fmt"

// Position is a zero-based location in a document. Character counts UTF-16
// code units, matching the convention editors use for diagnostics.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// String returns "line:character" using one-based numbers for display.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Character+1)
}

// Range is a half-open span [Start, End) in a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// IsEmpty returns true if the range covers no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}
