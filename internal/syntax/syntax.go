// Package syntax defines the boundary between the navigation core and
// whatever produces syntax trees over a buffer.
package syntax

import (
	"context"

	"nodewalk/internal/domain"
)

// Node is an opaque handle to a node of one particular Tree. Handles are only
// meaningful to the Tree that produced them and only until the next reparse.
type Node interface{}

// Tree answers structural questions about the current parse of a buffer.
// Every relation returns false when there is no such node.
type Tree interface {
	// NodeAt returns the smallest node whose span contains pos.
	NodeAt(pos int) (Node, bool)
	Span(n Node) domain.Span
	PreviousSibling(n Node) (Node, bool)
	NextSibling(n Node) (Node, bool)
	Parent(n Node) (Node, bool)
	// ChildAt returns the child of n whose span contains pos.
	ChildAt(n Node, pos int) (Node, bool)
}

// Kinder is implemented by trees that can name the grammar type of a node.
type Kinder interface {
	Kind(n Node) string
}

// Source hands out the tree for the current buffer text. Tree returns nil
// when nothing has been parsed yet.
type Source interface {
	Tree() Tree
}

// Parser keeps a Source up to date with a buffer.
type Parser interface {
	Source
	// Parse replaces the tree with a fresh parse of text.
	Parse(ctx context.Context, text []byte) error
	// Reparse brings the tree up to date after edit has been applied to
	// produce text. Parsers without incremental support parse from scratch.
	Reparse(ctx context.Context, text []byte, edit domain.Edit) error
	Close() error
}

// KindOf returns the grammar type of n, or "" when the tree cannot tell.
func KindOf(t Tree, n Node) string {
	if k, ok := t.(Kinder); ok {
		return k.Kind(n)
	}
	return ""
}

// Path returns the chain of nodes from the root down to n, inclusive.
func Path(t Tree, n Node) []Node {
	var chain []Node
	for cur, ok := n, true; ok; cur, ok = t.Parent(cur) {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
