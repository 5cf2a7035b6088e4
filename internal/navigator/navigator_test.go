package navigator

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodewalk/internal/buffer"
	"nodewalk/internal/domain"
	"nodewalk/internal/eventbus"
	"nodewalk/internal/marker"
	"nodewalk/internal/overlay"
	"nodewalk/internal/syntax"
	"nodewalk/internal/syntax/sexp"
)

type harness struct {
	nav        *Navigator
	buf        *buffer.Buffer
	reg        *marker.Registry
	layer      *overlay.Layer
	boundaries []eventbus.BoundaryReachedEvent
	moves      []eventbus.MarkerMovedEvent
}

func newHarness(t *testing.T, text string) *harness {
	t.Helper()
	return newHarnessWith(t, text, sexp.Options{ListsOnly: true})
}

func newHarnessWith(t *testing.T, text string, opts sexp.Options) *harness {
	t.Helper()
	bus := eventbus.New()
	h := &harness{
		buf:   buffer.New("buf", []byte(text), bus),
		layer: overlay.NewLayer(),
	}
	parser := sexp.NewParser(opts)
	require.NoError(t, parser.Parse(context.Background(), h.buf.Text()))

	h.reg = marker.NewRegistry(marker.Options{
		BufferID:  "buf",
		Source:    parser,
		Presenter: h.layer,
		Versions:  h.buf,
		Bus:       bus,
	})
	h.nav = New("buf", h.reg, h.buf, bus)

	bus.Subscribe(eventbus.EventBoundaryReached, func(e eventbus.DomainEvent) {
		h.boundaries = append(h.boundaries, e.(eventbus.BoundaryReachedEvent))
	})
	bus.Subscribe(eventbus.EventMarkerMoved, func(e eventbus.DomainEvent) {
		h.moves = append(h.moves, e.(eventbus.MarkerMovedEvent))
	})
	return h
}

func span(s, e int) domain.Span { return domain.Span{Start: s, End: e} }

func TestParentFromInnerList(t *testing.T) {
	h := newHarness(t, "(a (b c))")

	m, err := h.reg.GetOrCreateAt(4)
	require.NoError(t, err)
	assert.Equal(t, span(3, 8), m.Span())

	res, err := h.nav.Parent(4)
	require.NoError(t, err)
	assert.Equal(t, Moved, res.Outcome)
	assert.Same(t, m, res.Marker)
	assert.Equal(t, span(0, 9), m.Span())
	assert.Equal(t, 0, res.Cursor)
	assert.Equal(t, 0, h.buf.Cursor())

	require.Len(t, h.moves, 1)
	assert.Equal(t, domain.Parent, h.moves[0].Relation)
	assert.Equal(t, span(3, 8), h.moves[0].From)
	assert.Equal(t, span(0, 9), h.moves[0].To)
}

func TestPreviousSiblingAtRootIsNoop(t *testing.T) {
	h := newHarness(t, "(a (b c))")
	_, err := h.nav.Parent(4)
	require.NoError(t, err)
	m, _ := h.reg.FindAt(0)
	node := m.Node()

	res, err := h.nav.PreviousSibling(0)
	require.NoError(t, err)
	assert.Equal(t, NoTarget, res.Outcome)
	assert.Same(t, m, res.Marker)
	assert.Equal(t, span(0, 9), m.Span())
	assert.Equal(t, node, m.Node())
	assert.Equal(t, 0, h.buf.Cursor())

	require.Len(t, h.boundaries, 1)
	assert.Equal(t, eventbus.BoundaryReachedEvent{BufferID: "buf", Relation: domain.PreviousSibling, Span: span(0, 9)}, h.boundaries[0])
}

func TestFirstChildHasNoPreviousSibling(t *testing.T) {
	h := newHarness(t, "((a) (b))")
	require.NoError(t, h.buf.SetCursor(2))

	res, err := h.nav.PreviousSibling(2)
	require.NoError(t, err)
	assert.Equal(t, NoTarget, res.Outcome)
	assert.Equal(t, span(1, 4), res.Span())
	assert.Equal(t, 2, h.buf.Cursor(), "cursor is untouched")
}

func TestSiblings(t *testing.T) {
	h := newHarness(t, "((a) (b) (c))")

	res, err := h.nav.NextSibling(2)
	require.NoError(t, err)
	assert.Equal(t, span(5, 8), res.Span())
	assert.Equal(t, 5, h.buf.Cursor())

	res, err = h.nav.NextSibling(5)
	require.NoError(t, err)
	assert.Equal(t, span(9, 12), res.Span())

	res, err = h.nav.NextSibling(9)
	require.NoError(t, err)
	assert.Equal(t, NoTarget, res.Outcome)

	res, err = h.nav.PreviousSibling(9)
	require.NoError(t, err)
	assert.Equal(t, span(5, 8), res.Span())
	assert.Equal(t, 1, h.reg.Len(), "the same marker moved the whole way")
}

func TestChildAtPosition(t *testing.T) {
	h := newHarness(t, "(a (b c) (d))")

	_, err := h.nav.Parent(4)
	require.NoError(t, err)

	res, err := h.nav.Child(10)
	require.NoError(t, err)
	assert.Equal(t, Moved, res.Outcome)
	assert.Equal(t, span(9, 12), res.Span(), "the child containing the position, not the first child")

	res, err = h.nav.Child(10)
	require.NoError(t, err)
	assert.Equal(t, NoTarget, res.Outcome, "(d) has no list children")
}

func TestChildInGapIsNoop(t *testing.T) {
	h := newHarness(t, "(a (b c) (d))")
	_, err := h.nav.Parent(4)
	require.NoError(t, err)

	res, err := h.nav.Child(1)
	require.NoError(t, err)
	assert.Equal(t, NoTarget, res.Outcome)
	assert.Equal(t, span(0, 13), res.Span())
}

func TestNoDriftAfterMoves(t *testing.T) {
	h := newHarness(t, "((a (b)) (c) ((d)))")
	pos := 5
	for _, rel := range []domain.Relation{domain.Parent, domain.NextSibling, domain.NextSibling, domain.ChildAtPosition, domain.Parent, domain.PreviousSibling} {
		res, err := h.nav.Move(pos, rel)
		require.NoError(t, err)
		if res.Marker != nil {
			assert.Equal(t, h.reg.Tree().Span(res.Marker.Node()), res.Marker.Span(), rel.String())
		}
		if rel == domain.NextSibling {
			pos = res.Span().Start
		} else {
			pos = res.Span().Start + 1
		}
	}
}

func TestStartAndEndKeepBinding(t *testing.T) {
	h := newHarness(t, "(a (b c))")
	m, err := h.reg.GetOrCreateAt(4)
	require.NoError(t, err)
	node := m.Node()

	for i := 0; i < 3; i++ {
		res, err := h.nav.End(4)
		require.NoError(t, err)
		assert.Equal(t, 7, res.Cursor)
		assert.Equal(t, 7, h.buf.Cursor())

		res, err = h.nav.Start(7)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Cursor)
		assert.Equal(t, 3, h.buf.Cursor())
	}
	assert.Equal(t, node, m.Node())
	assert.Equal(t, span(3, 8), m.Span())
	assert.Equal(t, 1, h.reg.Len())
	assert.Empty(t, h.moves)
}

func TestEndLandsOnLastCharacter(t *testing.T) {
	h := newHarnessWith(t, "(café x)", sexp.Options{})

	res, err := h.nav.End(2)
	require.NoError(t, err)
	assert.Equal(t, span(1, 6), res.Span())
	assert.Equal(t, 4, res.Cursor, "é is two bytes")
	assert.True(t, utf8.RuneStart(h.buf.Text()[h.buf.Cursor()]))

	require.NoError(t, h.buf.Insert(h.buf.Cursor(), "!"))
	assert.Equal(t, "(caf!é x)", h.buf.String())
	assert.True(t, utf8.Valid(h.buf.Text()))
}

func TestMarkSelectsNode(t *testing.T) {
	h := newHarness(t, "(a (b c))")

	res, err := h.nav.Mark(4)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Cursor)

	anchor, cursor, ok := h.buf.Selection()
	require.True(t, ok)
	assert.Equal(t, 8, anchor)
	assert.Equal(t, 3, cursor)
	assert.Equal(t, span(3, 8), res.Marker.Span())
}

func TestDeleteMarkerWithoutMarker(t *testing.T) {
	h := newHarness(t, "(a (b c))")
	_, err := h.reg.GetOrCreateAt(4)
	require.NoError(t, err)

	assert.False(t, h.nav.DeleteMarker(1))
	assert.Equal(t, 1, h.reg.Len())

	assert.True(t, h.nav.DeleteMarker(4))
	assert.Equal(t, 0, h.reg.Len())
}

func TestClearAll(t *testing.T) {
	h := newHarness(t, "(a) (b)")
	_, err := h.nav.Start(1)
	require.NoError(t, err)
	_, err = h.nav.Start(5)
	require.NoError(t, err)

	assert.Equal(t, 2, h.nav.ClearAll())
	assert.Equal(t, 0, h.layer.Len())
	assert.Equal(t, 0, h.nav.ClearAll())
}

func TestNoNodeAtPosition(t *testing.T) {
	h := newHarness(t, "(a (b c))")
	require.NoError(t, h.buf.SetCursor(2))

	for _, call := range []func(int) (Result, error){h.nav.Parent, h.nav.Start, h.nav.End, h.nav.Mark} {
		_, err := call(9)
		assert.ErrorIs(t, err, domain.ErrNoNodeAtPosition)
	}
	assert.Equal(t, 0, h.reg.Len())
	assert.Equal(t, 2, h.buf.Cursor())
	_, _, ok := h.buf.Selection()
	assert.False(t, ok)
}

func TestUnknownRelation(t *testing.T) {
	h := newHarness(t, "(a)")
	_, err := h.nav.Move(1, domain.Relation(42))
	assert.Error(t, err)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "moved", Moved.String())
	assert.Equal(t, "no-target", NoTarget.String())
	assert.Equal(t, "evaporated", Evaporated.String())
	assert.Equal(t, "outcome(9)", Outcome(9).String())
}

// wideTree has one leaf whose parent reaches past the end of any short text
type wideTree struct{}

type wideNode struct{ span domain.Span }

var (
	wideLeaf   = &wideNode{span: domain.Span{Start: 0, End: 3}}
	wideParent = &wideNode{span: domain.Span{Start: 0, End: 20}}
)

func (wideTree) NodeAt(pos int) (syntax.Node, bool) {
	return wideLeaf, wideLeaf.span.Contains(pos)
}
func (wideTree) Span(n syntax.Node) domain.Span { return n.(*wideNode).span }
func (wideTree) Parent(n syntax.Node) (syntax.Node, bool) {
	return wideParent, n == wideLeaf
}
func (wideTree) PreviousSibling(syntax.Node) (syntax.Node, bool) { return nil, false }
func (wideTree) NextSibling(syntax.Node) (syntax.Node, bool)     { return nil, false }
func (wideTree) ChildAt(syntax.Node, int) (syntax.Node, bool)    { return nil, false }

type swapSource struct{ tree syntax.Tree }

func (s *swapSource) Tree() syntax.Tree { return s.tree }

func newWideHarness(t *testing.T) (*harness, *swapSource) {
	t.Helper()
	src := &swapSource{tree: wideTree{}}
	h := &harness{buf: buffer.New("buf", []byte("(a)"), nil), layer: overlay.NewLayer()}
	h.reg = marker.NewRegistry(marker.Options{BufferID: "buf", Source: src, Presenter: h.layer, Versions: h.buf})
	h.nav = New("buf", h.reg, h.buf, nil)
	require.NoError(t, h.buf.SetCursor(1))
	return h, src
}

func TestTargetOutsideTextLeavesMarkerAlone(t *testing.T) {
	h, _ := newWideHarness(t)
	m, err := h.reg.GetOrCreateAt(1)
	require.NoError(t, err)

	res, err := h.nav.Parent(1)
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)
	assert.Same(t, m, res.Marker)
	assert.Equal(t, span(0, 3), m.Span())
	assert.Equal(t, wideLeaf, m.Node())
	assert.Equal(t, span(0, 3), h.layer.All()[0].Span())
	assert.Equal(t, 1, h.buf.Cursor())
}

func TestMissingTreeIsAnErrorNotEvaporation(t *testing.T) {
	h, src := newWideHarness(t)
	m, err := h.reg.GetOrCreateAt(1)
	require.NoError(t, err)

	src.tree = nil
	res, err := h.nav.Parent(1)
	assert.ErrorIs(t, err, domain.ErrNoTree)
	assert.Same(t, m, res.Marker)
	assert.Equal(t, 1, h.reg.Len(), "the marker is still live")
	assert.Equal(t, 1, h.buf.Cursor())
}
