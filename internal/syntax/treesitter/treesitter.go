// Package treesitter adapts smacker/go-tree-sitter parse trees to syntax.Tree.
//
// Navigation only visits named nodes: punctuation and keywords are anonymous
// in tree-sitter grammars and are skipped by every relation.
package treesitter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/tliron/commonlog"

	"nodewalk/internal/domain"
	"nodewalk/internal/syntax"
)

var log = commonlog.GetLogger("nodewalk.treesitter")

// Tree wraps one tree-sitter parse
type Tree struct {
	tree *sitter.Tree
}

var _ syntax.Tree = (*Tree)(nil)
var _ syntax.Kinder = (*Tree)(nil)

func (t *Tree) node(n syntax.Node) (*sitter.Node, bool) {
	sn, ok := n.(*sitter.Node)
	return sn, ok && sn != nil
}

func contains(n *sitter.Node, pos int) bool {
	return pos >= int(n.StartByte()) && pos < int(n.EndByte())
}

func namedChildContaining(n *sitter.Node, pos int) *sitter.Node {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == nil {
			continue
		}
		if contains(c, pos) {
			return c
		}
		if int(c.StartByte()) > pos {
			break
		}
	}
	return nil
}

// NodeAt returns the smallest named node whose span contains pos
func (t *Tree) NodeAt(pos int) (syntax.Node, bool) {
	root := t.tree.RootNode()
	if root == nil || !contains(root, pos) {
		return nil, false
	}
	cur := root
	for {
		next := namedChildContaining(cur, pos)
		if next == nil {
			return cur, true
		}
		cur = next
	}
}

func (t *Tree) Span(n syntax.Node) domain.Span {
	sn, ok := t.node(n)
	if !ok {
		return domain.Span{}
	}
	return domain.Span{Start: int(sn.StartByte()), End: int(sn.EndByte())}
}

func (t *Tree) Kind(n syntax.Node) string {
	if sn, ok := t.node(n); ok {
		return sn.Type()
	}
	return ""
}

func (t *Tree) PreviousSibling(n syntax.Node) (syntax.Node, bool) {
	sn, ok := t.node(n)
	if !ok {
		return nil, false
	}
	return wrap(sn.PrevNamedSibling())
}

func (t *Tree) NextSibling(n syntax.Node) (syntax.Node, bool) {
	sn, ok := t.node(n)
	if !ok {
		return nil, false
	}
	return wrap(sn.NextNamedSibling())
}

func (t *Tree) Parent(n syntax.Node) (syntax.Node, bool) {
	sn, ok := t.node(n)
	if !ok {
		return nil, false
	}
	return wrap(sn.Parent())
}

func (t *Tree) ChildAt(n syntax.Node, pos int) (syntax.Node, bool) {
	sn, ok := t.node(n)
	if !ok {
		return nil, false
	}
	return wrap(namedChildContaining(sn, pos))
}

// wrap keeps a nil *sitter.Node from turning into a non-nil syntax.Node
func wrap(n *sitter.Node) (syntax.Node, bool) {
	if n == nil {
		return nil, false
	}
	return n, true
}

// Parser wraps a tree-sitter parser instance along with the current syntax tree.
type Parser struct {
	name   string
	parser *sitter.Parser
	tree   *sitter.Tree
	view   *Tree
}

var _ syntax.Parser = (*Parser)(nil)

// NewParser creates a Parser for one of the languages known to Lookup.
func NewParser(name string) (*Parser, error) {
	lang, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("tree-sitter %q: %w", name, domain.ErrUnsupportedLanguage)
	}
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return &Parser{name: name, parser: p}, nil
}

func (p *Parser) Tree() syntax.Tree {
	if p.view == nil {
		return nil
	}
	return p.view
}

// Parse replaces the current tree with a fresh parse of text
func (p *Parser) Parse(ctx context.Context, text []byte) error {
	tree, err := p.parser.ParseCtx(ctx, nil, text)
	if err != nil {
		return fmt.Errorf("failed to parse %s text: %w", p.name, err)
	}
	p.swap(tree)
	return nil
}

// Reparse tells the old tree about edit and lets tree-sitter reuse the
// unchanged parts of it
func (p *Parser) Reparse(ctx context.Context, text []byte, edit domain.Edit) error {
	if p.tree == nil {
		return p.Parse(ctx, text)
	}
	p.tree.Edit(editInput(edit))
	tree, err := p.parser.ParseCtx(ctx, p.tree, text)
	if err != nil {
		return fmt.Errorf("failed to reparse %s text: %w", p.name, err)
	}
	p.swap(tree)
	log.Debugf("reparsed %s after edit at %d", p.name, edit.StartByte)
	return nil
}

func (p *Parser) swap(tree *sitter.Tree) {
	old := p.tree
	p.tree = tree
	p.view = &Tree{tree: tree}
	if old != nil && old != tree {
		old.Close()
	}
}

// Close frees any resources held by the Parser.
func (p *Parser) Close() error {
	if p.tree != nil {
		p.tree.Close()
		p.tree = nil
		p.view = nil
	}
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
	return nil
}

func editInput(e domain.Edit) sitter.EditInput {
	return sitter.EditInput{
		StartIndex:  uint32(e.StartByte),
		OldEndIndex: uint32(e.OldEndByte),
		NewEndIndex: uint32(e.NewEndByte),
		StartPoint:  point(e.StartPoint),
		OldEndPoint: point(e.OldEndPoint),
		NewEndPoint: point(e.NewEndPoint),
	}
}

func point(p domain.Point) sitter.Point {
	return sitter.Point{Row: uint32(p.Row), Column: uint32(p.Column)}
}
