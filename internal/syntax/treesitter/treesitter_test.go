package treesitter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodewalk/internal/domain"
)

const goSource = "package main\n\nfunc a() {}\n\nfunc b() {}\n"

func parseGo(t *testing.T, src string) *Parser {
	t.Helper()
	p, err := NewParser("go")
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	require.NoError(t, p.Parse(context.Background(), []byte(src)))
	return p
}

func TestNodeAtSkipsAnonymousTokens(t *testing.T) {
	tree := parseGo(t, goSource).Tree()

	n, ok := tree.NodeAt(14) // on the "func" keyword
	require.True(t, ok)
	assert.Equal(t, "function_declaration", tree.(*Tree).Kind(n))
	assert.Equal(t, domain.Span{Start: 14, End: 25}, tree.Span(n))

	id, ok := tree.NodeAt(19)
	require.True(t, ok)
	assert.Equal(t, "identifier", tree.(*Tree).Kind(id))
	assert.Equal(t, domain.Span{Start: 19, End: 20}, tree.Span(id))
}

func TestSiblingsAndParent(t *testing.T) {
	tree := parseGo(t, goSource).Tree()
	fnA, ok := tree.NodeAt(14)
	require.True(t, ok)

	next, ok := tree.NextSibling(fnA)
	require.True(t, ok)
	assert.Equal(t, domain.Span{Start: 27, End: 38}, tree.Span(next))

	_, ok = tree.NextSibling(next)
	assert.False(t, ok)

	prev, ok := tree.PreviousSibling(fnA)
	require.True(t, ok)
	assert.Equal(t, domain.Span{Start: 0, End: 12}, tree.Span(prev))

	_, ok = tree.PreviousSibling(prev)
	assert.False(t, ok)

	root, ok := tree.Parent(fnA)
	require.True(t, ok)
	assert.Equal(t, "source_file", tree.(*Tree).Kind(root))
	assert.Equal(t, 0, tree.Span(root).Start)

	_, ok = tree.Parent(root)
	assert.False(t, ok)
}

func TestChildAt(t *testing.T) {
	tree := parseGo(t, goSource).Tree()
	fnA, ok := tree.NodeAt(14)
	require.True(t, ok)

	body, ok := tree.ChildAt(fnA, 23)
	require.True(t, ok)
	assert.Equal(t, "block", tree.(*Tree).Kind(body))

	_, ok = tree.ChildAt(fnA, 22)
	assert.False(t, ok, "the space before the body belongs to no named child")
}

func TestReparseIsIncremental(t *testing.T) {
	p := parseGo(t, goSource)

	updated := "package main\n\nfunc ab() {}\n\nfunc b() {}\n"
	err := p.Reparse(context.Background(), []byte(updated), domain.Edit{
		StartByte:   20,
		OldEndByte:  20,
		NewEndByte:  21,
		StartPoint:  domain.Point{Row: 2, Column: 6},
		OldEndPoint: domain.Point{Row: 2, Column: 6},
		NewEndPoint: domain.Point{Row: 2, Column: 7},
	})
	require.NoError(t, err)

	tree := p.Tree()
	id, ok := tree.NodeAt(19)
	require.True(t, ok)
	assert.Equal(t, domain.Span{Start: 19, End: 21}, tree.Span(id))

	fnB, ok := tree.NodeAt(28)
	require.True(t, ok)
	assert.Equal(t, domain.Span{Start: 28, End: 39}, tree.Span(fnB))
}

func TestNodeAtOutsideRoot(t *testing.T) {
	tree := parseGo(t, goSource).Tree()
	_, ok := tree.NodeAt(1000)
	assert.False(t, ok)
}

func TestUnknownLanguage(t *testing.T) {
	_, err := NewParser("cobol")
	assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage)
}

func TestLanguagesSorted(t *testing.T) {
	langs := Languages()
	assert.Contains(t, langs, "go")
	assert.Contains(t, langs, "python")
	assert.IsIncreasing(t, langs)
}

func TestTreeNilBeforeParse(t *testing.T) {
	p, err := NewParser("python")
	require.NoError(t, err)
	defer p.Close()
	assert.Nil(t, p.Tree())
}
