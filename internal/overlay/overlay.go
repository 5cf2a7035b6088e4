// Package overlay keeps the highlighted ranges drawn over a buffer.
package overlay

import (
	"fmt"
	"sort"
	"strings"

	"nodewalk/internal/domain"
)

// Hint tells the renderer how to draw an overlay
type Hint string

const (
	HintHighlight Hint = "highlight"
	HintUnderline Hint = "underline"
	HintNone      Hint = "none"
)

// ParseHint accepts the names used in config files
func ParseHint(s string) (Hint, error) {
	switch h := Hint(strings.ToLower(strings.TrimSpace(s))); h {
	case HintHighlight, HintUnderline, HintNone:
		return h, nil
	case "":
		return HintHighlight, nil
	}
	return "", fmt.Errorf("unknown hint %q", s)
}

// Overlay is a range of the buffer drawn with a hint. An overlay whose range
// becomes empty is disposed by its layer.
type Overlay struct {
	id       int
	span     domain.Span
	hint     Hint
	disposed bool
}

func (o *Overlay) ID() int           { return o.id }
func (o *Overlay) Span() domain.Span { return o.span }
func (o *Overlay) Hint() Hint        { return o.hint }
func (o *Overlay) Disposed() bool    { return o.disposed }

// Layer owns the overlays of one buffer
type Layer struct {
	overlays map[int]*Overlay
	nextID   int
}

func NewLayer() *Layer {
	return &Layer{overlays: make(map[int]*Overlay)}
}

// Create adds an overlay. An empty span yields an overlay that is already
// disposed.
func (l *Layer) Create(span domain.Span, hint Hint) *Overlay {
	l.nextID++
	o := &Overlay{id: l.nextID, span: span, hint: hint}
	if span.Empty() {
		o.disposed = true
		return o
	}
	l.overlays[o.id] = o
	return o
}

// Move relocates o. Moving to an empty span disposes it and returns false.
func (l *Layer) Move(o *Overlay, span domain.Span) bool {
	if o == nil || o.disposed {
		return false
	}
	if span.Empty() {
		l.Dispose(o)
		return false
	}
	o.span = span
	return true
}

// SetHint changes how o is drawn
func (l *Layer) SetHint(o *Overlay, hint Hint) {
	if o != nil && !o.disposed {
		o.hint = hint
	}
}

// Dispose removes o. Disposing twice is harmless.
func (l *Layer) Dispose(o *Overlay) {
	if o == nil || o.disposed {
		return
	}
	o.disposed = true
	delete(l.overlays, o.id)
}

// At returns the overlays containing pos, innermost first
func (l *Layer) At(pos int) []*Overlay {
	var out []*Overlay
	for _, o := range l.overlays {
		if o.span.Contains(pos) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].span.Len() != out[j].span.Len() {
			return out[i].span.Len() < out[j].span.Len()
		}
		return out[i].id < out[j].id
	})
	return out
}

// All returns the live overlays ordered by position
func (l *Layer) All() []*Overlay {
	out := make([]*Overlay, 0, len(l.overlays))
	for _, o := range l.overlays {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].span.Start != out[j].span.Start {
			return out[i].span.Start < out[j].span.Start
		}
		return out[i].id < out[j].id
	})
	return out
}

func (l *Layer) Len() int { return len(l.overlays) }
