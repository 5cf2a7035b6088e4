package sexp

import (
	"context"

	"nodewalk/internal/domain"
	"nodewalk/internal/syntax"
)

// Parser keeps an s-expression tree for one buffer. It has no incremental
// mode: every Reparse parses the whole text again.
type Parser struct {
	opts Options
	tree *Tree
}

var _ syntax.Parser = (*Parser)(nil)

// NewParser creates a parser with the given options
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

func (p *Parser) Tree() syntax.Tree {
	if p.tree == nil {
		return nil
	}
	return p.tree
}

func (p *Parser) Parse(ctx context.Context, text []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.tree = Parse(text, p.opts)
	return nil
}

func (p *Parser) Reparse(ctx context.Context, text []byte, _ domain.Edit) error {
	return p.Parse(ctx, text)
}

func (p *Parser) Close() error {
	p.tree = nil
	return nil
}
