// Package sexp parses s-expressions into a syntax.Tree.
//
// Lists may use (), [] or {}. Atoms are runs of non-delimiter bytes and
// strings are double quoted with backslash escapes. Comments run from ';'
// to the end of the line and produce no node. Unbalanced input never fails:
// an unclosed list extends to the end of the text and a stray closer is
// ignored.
package sexp

import (
	"nodewalk/internal/domain"
	"nodewalk/internal/syntax"
)

// Node kinds
const (
	KindDocument = "document"
	KindList     = "list"
	KindVector   = "vector"
	KindMap      = "map"
	KindAtom     = "atom"
	KindString   = "string"
)

// Options controls which constructs become nodes
type Options struct {
	// ListsOnly drops atoms and strings from the tree, leaving only the
	// document and its (nested) lists.
	ListsOnly bool
}

// Node is one element of a parsed s-expression tree
type Node struct {
	kind     string
	span     domain.Span
	parent   *Node
	children []*Node
	index    int // position among parent's children
}

// Kind returns the node kind, one of the Kind constants
func (n *Node) Kind() string { return n.kind }

// Span returns the byte range covered by the node
func (n *Node) Span() domain.Span { return n.span }

// Children returns the node's children in source order
func (n *Node) Children() []*Node { return n.children }

// Tree is an immutable parse of one text
type Tree struct {
	root *Node
}

var _ syntax.Tree = (*Tree)(nil)
var _ syntax.Kinder = (*Tree)(nil)

// Root returns the document node
func (t *Tree) Root() *Node { return t.root }

func (t *Tree) node(n syntax.Node) (*Node, bool) {
	sn, ok := n.(*Node)
	return sn, ok && sn != nil
}

// NodeAt returns the smallest node whose span contains pos
func (t *Tree) NodeAt(pos int) (syntax.Node, bool) {
	if !t.root.span.Contains(pos) {
		return nil, false
	}
	cur := t.root
	for {
		next := childContaining(cur, pos)
		if next == nil {
			return cur, true
		}
		cur = next
	}
}

func (t *Tree) Span(n syntax.Node) domain.Span {
	if sn, ok := t.node(n); ok {
		return sn.span
	}
	return domain.Span{}
}

func (t *Tree) Kind(n syntax.Node) string {
	if sn, ok := t.node(n); ok {
		return sn.kind
	}
	return ""
}

func (t *Tree) PreviousSibling(n syntax.Node) (syntax.Node, bool) {
	sn, ok := t.node(n)
	if !ok || sn.parent == nil || sn.index == 0 {
		return nil, false
	}
	return sn.parent.children[sn.index-1], true
}

func (t *Tree) NextSibling(n syntax.Node) (syntax.Node, bool) {
	sn, ok := t.node(n)
	if !ok || sn.parent == nil || sn.index+1 >= len(sn.parent.children) {
		return nil, false
	}
	return sn.parent.children[sn.index+1], true
}

func (t *Tree) Parent(n syntax.Node) (syntax.Node, bool) {
	sn, ok := t.node(n)
	if !ok || sn.parent == nil {
		return nil, false
	}
	return sn.parent, true
}

func (t *Tree) ChildAt(n syntax.Node, pos int) (syntax.Node, bool) {
	sn, ok := t.node(n)
	if !ok {
		return nil, false
	}
	if c := childContaining(sn, pos); c != nil {
		return c, true
	}
	return nil, false
}

func childContaining(n *Node, pos int) *Node {
	for _, c := range n.children {
		if c.span.Contains(pos) {
			return c
		}
		if c.span.Start > pos {
			break
		}
	}
	return nil
}

// Parse builds a tree for src. It never fails.
func Parse(src []byte, opts Options) *Tree {
	root := &Node{kind: KindDocument, span: domain.Span{Start: 0, End: len(src)}}
	stack := []*Node{root}
	top := func() *Node { return stack[len(stack)-1] }

	add := func(n *Node) {
		p := top()
		n.parent = p
		n.index = len(p.children)
		p.children = append(p.children, n)
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case isSpace(c):
			i++

		case c == ';':
			for i < len(src) && src[i] != '\n' {
				i++
			}

		case c == '(' || c == '[' || c == '{':
			n := &Node{kind: listKind(c), span: domain.Span{Start: i}}
			add(n)
			stack = append(stack, n)
			i++

		case c == ')' || c == ']' || c == '}':
			if len(stack) > 1 {
				top().span.End = i + 1
				stack = stack[:len(stack)-1]
			}
			i++

		case c == '"':
			start := i
			i++
			for i < len(src) && src[i] != '"' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			if i < len(src) {
				i++ // closing quote
			}
			if i > len(src) {
				i = len(src)
			}
			if !opts.ListsOnly {
				add(&Node{kind: KindString, span: domain.Span{Start: start, End: i}})
			}

		default:
			start := i
			for i < len(src) && !isDelimiter(src[i]) {
				i++
			}
			if !opts.ListsOnly {
				add(&Node{kind: KindAtom, span: domain.Span{Start: start, End: i}})
			}
		}
	}

	// Unclosed lists run to the end of the text
	for _, n := range stack[1:] {
		n.span.End = len(src)
	}

	return &Tree{root: root}
}

func listKind(open byte) string {
	switch open {
	case '[':
		return KindVector
	case '{':
		return KindMap
	default:
		return KindList
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '[', ']', '{', '}', '"', ';':
		return true
	}
	return isSpace(c)
}
