package domain

import "fmt"

// Span is a half-open byte range [Start, End) into the current text
type Span struct {
	Start int
	End   int
}

// Contains reports whether pos falls inside the span
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// Empty reports whether the span covers no bytes
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Point is a zero-based row/column location, columns counted in bytes
type Point struct {
	Row    int
	Column int
}

// Edit describes one text replacement, in the shape incremental parsers expect
type Edit struct {
	StartByte   int
	OldEndByte  int
	NewEndByte  int
	StartPoint  Point
	OldEndPoint Point
	NewEndPoint Point
}

// Relation is one of the navigational edges a marker can move along
type Relation int

const (
	PreviousSibling Relation = iota
	NextSibling
	Parent
	ChildAtPosition
)

func (r Relation) String() string {
	switch r {
	case PreviousSibling:
		return "previous sibling"
	case NextSibling:
		return "next sibling"
	case Parent:
		return "parent"
	case ChildAtPosition:
		return "child"
	default:
		return fmt.Sprintf("relation(%d)", int(r))
	}
}
