package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodewalk/internal/domain"
)

func span(s, e int) domain.Span { return domain.Span{Start: s, End: e} }

func TestCreateAndMove(t *testing.T) {
	l := NewLayer()
	o := l.Create(span(3, 8), HintHighlight)
	require.False(t, o.Disposed())
	assert.Equal(t, 1, l.Len())

	assert.True(t, l.Move(o, span(0, 9)))
	assert.Equal(t, span(0, 9), o.Span())
	assert.Equal(t, HintHighlight, o.Hint())
}

func TestMoveToEmptyEvaporates(t *testing.T) {
	l := NewLayer()
	o := l.Create(span(3, 8), HintHighlight)

	assert.False(t, l.Move(o, span(4, 4)))
	assert.True(t, o.Disposed())
	assert.Equal(t, 0, l.Len())

	assert.False(t, l.Move(o, span(0, 2)), "a disposed overlay stays disposed")
}

func TestCreateEmptyIsDisposed(t *testing.T) {
	l := NewLayer()
	o := l.Create(span(2, 2), HintUnderline)
	assert.True(t, o.Disposed())
	assert.Equal(t, 0, l.Len())
}

func TestDisposeTwice(t *testing.T) {
	l := NewLayer()
	o := l.Create(span(0, 1), HintNone)
	l.Dispose(o)
	l.Dispose(o)
	l.Dispose(nil)
	assert.Equal(t, 0, l.Len())
}

func TestAtInnermostFirst(t *testing.T) {
	l := NewLayer()
	outer := l.Create(span(0, 9), HintHighlight)
	inner := l.Create(span(3, 8), HintHighlight)
	l.Create(span(10, 12), HintHighlight)

	got := l.At(4)
	require.Len(t, got, 2)
	assert.Same(t, inner, got[0])
	assert.Same(t, outer, got[1])

	assert.Empty(t, l.At(9))
}

func TestAllSortedByStart(t *testing.T) {
	l := NewLayer()
	b := l.Create(span(5, 6), HintHighlight)
	a := l.Create(span(1, 2), HintHighlight)
	assert.Equal(t, []*Overlay{a, b}, l.All())
}

func TestSetHint(t *testing.T) {
	l := NewLayer()
	o := l.Create(span(0, 1), HintHighlight)
	l.SetHint(o, HintUnderline)
	assert.Equal(t, HintUnderline, o.Hint())
}

func TestParseHint(t *testing.T) {
	h, err := ParseHint(" Underline ")
	require.NoError(t, err)
	assert.Equal(t, HintUnderline, h)

	h, err = ParseHint("")
	require.NoError(t, err)
	assert.Equal(t, HintHighlight, h)

	_, err = ParseHint("blink")
	assert.Error(t, err)
}
