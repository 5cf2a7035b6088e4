package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodewalk/internal/buffer"
	"nodewalk/internal/domain"
	"nodewalk/internal/eventbus"
	"nodewalk/internal/navigator"
	"nodewalk/internal/overlay"
	"nodewalk/internal/syntax/sexp"
	"nodewalk/internal/syntax/treesitter"
)

func openSexp(t *testing.T, text string) *Session {
	t.Helper()
	buf := buffer.New("buf", []byte(text), nil)
	s, err := Open(context.Background(), buf, sexp.NewParser(sexp.Options{ListsOnly: true}), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEditClearsMarkersAndNextCallRebinds(t *testing.T) {
	s := openSexp(t, "(a (b c))")
	nav, err := s.Navigator()
	require.NoError(t, err)

	m, err := s.Registry().GetOrCreateAt(4)
	require.NoError(t, err)
	require.Equal(t, domain.Span{Start: 3, End: 8}, m.Span())

	require.NoError(t, s.Buffer().Insert(0, "x"))
	assert.Equal(t, 0, s.Registry().Len())
	assert.Equal(t, 0, s.Layer().Len())

	res, err := nav.Start(5)
	require.NoError(t, err)
	assert.NotSame(t, m, res.Marker)
	assert.Equal(t, domain.Span{Start: 4, End: 9}, res.Marker.Span(), "bound against the reparsed tree")
}

func TestMarkersAreGoneBeforeTheEditLands(t *testing.T) {
	s := openSexp(t, "(a (b c)) (d)")
	_, err := s.Registry().GetOrCreateAt(4)
	require.NoError(t, err)
	_, err = s.Registry().GetOrCreateAt(11)
	require.NoError(t, err)

	var markersSeen int
	var textSeen string
	s.Buffer().OnBeforeEdit(func() {
		markersSeen = s.Registry().Len()
		textSeen = s.Buffer().String()
	})

	// far from both markers
	require.NoError(t, s.Buffer().Insert(s.Buffer().Len(), " "))
	assert.Equal(t, 0, markersSeen)
	assert.Equal(t, "(a (b c)) (d)", textSeen)
}

func TestEveryMutationPathInvalidates(t *testing.T) {
	s := openSexp(t, "(a (b c))")
	edits := []func(b *buffer.Buffer) error{
		func(b *buffer.Buffer) error { return b.Insert(0, " ") },
		func(b *buffer.Buffer) error { return b.Delete(0, 1) },
		func(b *buffer.Buffer) error { return b.Replace(4, 5, "bb") },
		func(b *buffer.Buffer) error { return b.SetText([]byte("(a (b c))")) },
	}
	for i, edit := range edits {
		_, err := s.Registry().GetOrCreateAt(4)
		require.NoError(t, err, "edit %d", i)
		require.Equal(t, 1, s.Registry().Len())

		require.NoError(t, edit(s.Buffer()), "edit %d", i)
		assert.Equal(t, 0, s.Registry().Len(), "edit %d", i)
	}
}

func TestNavigateAfterEdits(t *testing.T) {
	s := openSexp(t, "(a (b c))")
	nav, err := s.Navigator()
	require.NoError(t, err)

	require.NoError(t, s.Buffer().Replace(3, 8, "(b) (c)"))
	require.Equal(t, "(a (b) (c))", s.Buffer().String())

	res, err := nav.NextSibling(4)
	require.NoError(t, err)
	assert.Equal(t, navigator.Moved, res.Outcome)
	assert.Equal(t, domain.Span{Start: 7, End: 10}, res.Marker.Span())
	assert.Equal(t, 7, s.Buffer().Cursor())
}

func TestCloseDeactivates(t *testing.T) {
	s := openSexp(t, "(a (b c))")
	_, err := s.Registry().GetOrCreateAt(4)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.Equal(t, 0, s.Registry().Len())
	assert.Nil(t, s.Tree())

	_, err = s.Navigator()
	assert.ErrorIs(t, err, domain.ErrSessionClosed)

	require.NoError(t, s.Buffer().Insert(0, "x"), "the buffer outlives the session")
	require.NoError(t, s.Close())
}

func TestHintIsApplied(t *testing.T) {
	buf := buffer.New("buf", []byte("(a)"), nil)
	s, err := Open(context.Background(), buf, sexp.NewParser(sexp.Options{}), Options{Hint: overlay.HintUnderline})
	require.NoError(t, err)
	defer s.Close()

	m, err := s.Registry().GetOrCreateAt(1)
	require.NoError(t, err)
	assert.Equal(t, overlay.HintUnderline, m.Hint())
	require.Len(t, s.Layer().All(), 1)
	assert.Equal(t, overlay.HintUnderline, s.Layer().All()[0].Hint())
}

func TestKindPath(t *testing.T) {
	s := openSexp(t, "(a [b c])")
	assert.Equal(t, []string{"document", "list", "vector"}, s.KindPath(4))
	assert.Nil(t, s.KindPath(100))
}

func TestKindPathTreeSitter(t *testing.T) {
	p, err := treesitter.NewParser("go")
	require.NoError(t, err)
	buf := buffer.New("main.go", []byte("package main\n\nfunc a() {}\n"), nil)
	s, err := Open(context.Background(), buf, p, Options{})
	require.NoError(t, err)
	defer s.Close()

	nav, err := s.Navigator()
	require.NoError(t, err)
	_, err = nav.Start(19)
	require.NoError(t, err)
	assert.Equal(t, []string{"source_file", "function_declaration", "identifier"}, s.KindPath(19))

	_, err = nav.Parent(19)
	require.NoError(t, err)
	assert.Equal(t, []string{"source_file", "function_declaration"}, s.KindPath(14))

	// incremental reparse keeps navigation working
	require.NoError(t, buf.Insert(20, "b"))
	res, err := nav.Start(19)
	require.NoError(t, err)
	assert.Equal(t, domain.Span{Start: 19, End: 21}, res.Marker.Span())
}

type failingParser struct {
	*sexp.Parser
}

func (failingParser) Reparse(context.Context, []byte, domain.Edit) error {
	return errors.New("boom")
}

func TestReparseFailureIsPublished(t *testing.T) {
	buf := buffer.New("buf", []byte("(a)"), nil)
	s, err := Open(context.Background(), buf, failingParser{sexp.NewParser(sexp.Options{})}, Options{})
	require.NoError(t, err)
	defer s.Close()

	var got []eventbus.ErrorEvent
	buf.Bus().Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		got = append(got, e.(eventbus.ErrorEvent))
	})

	require.NoError(t, buf.Insert(0, " "))
	require.Len(t, got, 1)
	assert.EqualError(t, got[0].Err, "boom")
}

func TestOpenFailsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Open(ctx, buffer.New("buf", nil, nil), sexp.NewParser(sexp.Options{}), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
