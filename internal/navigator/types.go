package navigator

import (
	"fmt"

	"nodewalk/internal/domain"
	"nodewalk/internal/marker"
)

// Cursor is the part of a buffer the navigator moves
type Cursor interface {
	Text() []byte
	SetCursor(pos int) error
	SetSelection(anchor, cursor int) error
}

// Outcome says what a navigation call did
type Outcome int

const (
	// Moved means the cursor (and for relations, the marker) moved
	Moved Outcome = iota
	// NoTarget means the relation had no node; nothing changed
	NoTarget
	// Evaporated means the target node was empty and the marker was dropped.
	// A marker that could not be rebound at all is reported as an error.
	Evaporated
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case NoTarget:
		return "no-target"
	case Evaporated:
		return "evaporated"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result describes the state after a navigation call
type Result struct {
	Outcome Outcome
	// Marker is the marker the call worked on. It is nil after Evaporated.
	Marker *marker.Marker
	Cursor int
}

// Span returns the marker span, or an empty span when there is no marker
func (r Result) Span() domain.Span {
	if r.Marker == nil {
		return domain.Span{Start: r.Cursor, End: r.Cursor}
	}
	return r.Marker.Span()
}
