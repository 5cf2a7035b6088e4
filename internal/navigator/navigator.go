// Package navigator moves node markers along syntax tree edges.
package navigator

import (
	"fmt"
	"unicode/utf8"

	"github.com/tliron/commonlog"

	"nodewalk/internal/domain"
	"nodewalk/internal/eventbus"
	"nodewalk/internal/marker"
	"nodewalk/internal/syntax"
)

var log = commonlog.GetLogger("nodewalk.navigator")

// Navigator holds no state of its own; everything it changes lives in the
// registry and the cursor.
type Navigator struct {
	bufferID string
	registry *marker.Registry
	cursor   Cursor
	bus      eventbus.EventBus
}

// New creates a navigator. bus may be nil.
func New(bufferID string, registry *marker.Registry, cursor Cursor, bus eventbus.EventBus) *Navigator {
	return &Navigator{
		bufferID: bufferID,
		registry: registry,
		cursor:   cursor,
		bus:      bus,
	}
}

// Move resolves the marker at pos and rebinds it to the node related to its
// current node by rel. When there is no such node the marker and cursor are
// left alone and the outcome is NoTarget.
func (n *Navigator) Move(pos int, rel domain.Relation) (Result, error) {
	m, err := n.registry.GetOrCreateAt(pos)
	if err != nil {
		return Result{Cursor: pos}, err
	}
	tree := n.registry.Tree()
	if tree == nil {
		return Result{Marker: m, Cursor: pos}, fmt.Errorf("%s: %w", m, domain.ErrNoTree)
	}
	from := m.Span()

	candidate, ok, err := resolveRelation(tree, m.Node(), rel, pos)
	if err != nil {
		return Result{Marker: m, Cursor: pos}, err
	}
	if !ok {
		log.Debugf("%s: no %s", m, rel)
		n.publish(eventbus.BoundaryReachedEvent{BufferID: n.bufferID, Relation: rel, Span: from})
		return Result{Outcome: NoTarget, Marker: m, Cursor: pos}, nil
	}

	// Checked first so a cursor that cannot follow leaves the marker alone
	to := tree.Span(candidate)
	if err := n.inText(to); err != nil {
		return Result{Marker: m, Cursor: pos}, fmt.Errorf("%s %s: %w", m, rel, err)
	}
	moved, err := n.registry.Rebind(m, candidate)
	if err != nil {
		return Result{Marker: m, Cursor: pos}, err
	}
	if !moved {
		return Result{Outcome: Evaporated, Cursor: pos}, nil
	}
	if err := n.cursor.SetCursor(to.Start); err != nil {
		return Result{Marker: m, Cursor: pos}, fmt.Errorf("moving cursor to %s: %w", to, err)
	}

	log.Debugf("%s: %s %s -> %s", m, rel, from, to)
	n.publish(eventbus.MarkerMovedEvent{BufferID: n.bufferID, MarkerID: m.ID(), Relation: rel, From: from, To: to})
	return Result{Outcome: Moved, Marker: m, Cursor: to.Start}, nil
}

// resolveRelation asks the tree for the node related to node by rel
func resolveRelation(tree syntax.Tree, node syntax.Node, rel domain.Relation, pos int) (syntax.Node, bool, error) {
	switch rel {
	case domain.PreviousSibling:
		c, ok := tree.PreviousSibling(node)
		return c, ok, nil
	case domain.NextSibling:
		c, ok := tree.NextSibling(node)
		return c, ok, nil
	case domain.Parent:
		c, ok := tree.Parent(node)
		return c, ok, nil
	case domain.ChildAtPosition:
		c, ok := tree.ChildAt(node, pos)
		return c, ok, nil
	}
	return nil, false, fmt.Errorf("unknown relation %s", rel)
}

func (n *Navigator) PreviousSibling(pos int) (Result, error) {
	return n.Move(pos, domain.PreviousSibling)
}

func (n *Navigator) NextSibling(pos int) (Result, error) {
	return n.Move(pos, domain.NextSibling)
}

func (n *Navigator) Parent(pos int) (Result, error) {
	return n.Move(pos, domain.Parent)
}

// Child moves to the child of the marker's node that contains pos
func (n *Navigator) Child(pos int) (Result, error) {
	return n.Move(pos, domain.ChildAtPosition)
}

// Start puts the cursor on the first byte of the marker at pos
func (n *Navigator) Start(pos int) (Result, error) {
	m, err := n.registry.GetOrCreateAt(pos)
	if err != nil {
		return Result{Cursor: pos}, err
	}
	return n.place(m, m.Span().Start)
}

// End puts the cursor on the last character of the marker at pos
func (n *Navigator) End(pos int) (Result, error) {
	m, err := n.registry.GetOrCreateAt(pos)
	if err != nil {
		return Result{Cursor: pos}, err
	}
	span := m.Span()
	if err := n.inText(span); err != nil {
		return Result{Marker: m, Cursor: pos}, err
	}
	_, size := utf8.DecodeLastRune(n.cursor.Text()[span.Start:span.End])
	return n.place(m, span.End-size)
}

func (n *Navigator) inText(span domain.Span) error {
	if size := len(n.cursor.Text()); span.Start < 0 || span.End > size {
		return fmt.Errorf("%s in buffer of %d bytes: %w", span, size, domain.ErrInvalidPosition)
	}
	return nil
}

func (n *Navigator) place(m *marker.Marker, to int) (Result, error) {
	if err := n.cursor.SetCursor(to); err != nil {
		return Result{Marker: m}, fmt.Errorf("moving cursor to %d: %w", to, err)
	}
	return Result{Outcome: Moved, Marker: m, Cursor: to}, nil
}

// Mark selects the marker at pos with the anchor at its end and the cursor
// at its start
func (n *Navigator) Mark(pos int) (Result, error) {
	m, err := n.registry.GetOrCreateAt(pos)
	if err != nil {
		return Result{Cursor: pos}, err
	}
	span := m.Span()
	if err := n.cursor.SetSelection(span.End, span.Start); err != nil {
		return Result{Marker: m, Cursor: pos}, fmt.Errorf("selecting %s: %w", span, err)
	}
	return Result{Outcome: Moved, Marker: m, Cursor: span.Start}, nil
}

// DeleteMarker drops the marker at pos, if any
func (n *Navigator) DeleteMarker(pos int) bool {
	return n.registry.DeleteAt(pos)
}

// ClearAll drops every marker
func (n *Navigator) ClearAll() int {
	return n.registry.ClearAll()
}

func (n *Navigator) Registry() *marker.Registry { return n.registry }

func (n *Navigator) publish(e eventbus.DomainEvent) {
	if n.bus != nil {
		n.bus.Publish(e)
	}
}
