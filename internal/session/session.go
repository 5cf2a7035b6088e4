// Package session activates node navigation on one buffer.
//
// A Session owns the marker registry, overlay layer, navigator and parser
// of a buffer and installs the invalidation policy: every marker is
// dropped before any edit reaches the buffer.
package session

import (
	"context"
	"fmt"

	"github.com/tliron/commonlog"

	"nodewalk/internal/buffer"
	"nodewalk/internal/domain"
	"nodewalk/internal/eventbus"
	"nodewalk/internal/marker"
	"nodewalk/internal/navigator"
	"nodewalk/internal/overlay"
	"nodewalk/internal/syntax"
)

var log = commonlog.GetLogger("nodewalk.session")

// Options configures a session
type Options struct {
	Hint overlay.Hint
}

type Session struct {
	buf      *buffer.Buffer
	parser   syntax.Parser
	layer    *overlay.Layer
	registry *marker.Registry
	nav      *navigator.Navigator

	unsubscribe []func()
	closed      bool
}

// Open parses buf and activates navigation on it. The session takes
// ownership of parser.
func Open(ctx context.Context, buf *buffer.Buffer, parser syntax.Parser, opts Options) (*Session, error) {
	if err := parser.Parse(ctx, buf.Text()); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", buf.ID(), err)
	}

	s := &Session{
		buf:    buf,
		parser: parser,
		layer:  overlay.NewLayer(),
	}
	s.registry = marker.NewRegistry(marker.Options{
		BufferID:  buf.ID(),
		Source:    parser,
		Presenter: s.layer,
		Versions:  buf,
		Hint:      opts.Hint,
		Bus:       buf.Bus(),
	})
	s.nav = navigator.New(buf.ID(), s.registry, buf, buf.Bus())

	s.unsubscribe = append(s.unsubscribe,
		buf.OnBeforeEdit(s.invalidate),
		buf.OnAfterEdit(s.reparse),
	)

	log.Infof("opened session for %s", buf.ID())
	return s, nil
}

// invalidate runs before every edit. Nodes are only valid against the text
// they were parsed from, so no marker may survive any edit anywhere.
func (s *Session) invalidate() {
	if n := s.registry.ClearAll(); n > 0 {
		log.Debugf("edit to %s dropped %d marker(s)", s.buf.ID(), n)
	}
}

func (s *Session) reparse(e domain.Edit) {
	if err := s.parser.Reparse(context.Background(), s.buf.Text(), e); err != nil {
		log.Warningf("reparse of %s failed: %s", s.buf.ID(), err)
		s.buf.Bus().Publish(eventbus.ErrorEvent{Message: "reparse failed", Err: err})
	}
}

func (s *Session) Buffer() *buffer.Buffer     { return s.buf }
func (s *Session) Registry() *marker.Registry { return s.registry }
func (s *Session) Layer() *overlay.Layer      { return s.layer }

// Navigator returns the session's navigator, or ErrSessionClosed
func (s *Session) Navigator() (*navigator.Navigator, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	return s.nav, nil
}

// Tree returns the current parse, or nil once closed
func (s *Session) Tree() syntax.Tree {
	if s.closed {
		return nil
	}
	return s.parser.Tree()
}

// KindPath names the nodes from the root down to the node under pos. The
// node of a live marker wins over the smallest node at pos.
func (s *Session) KindPath(pos int) []string {
	tree := s.Tree()
	if tree == nil {
		return nil
	}
	var node syntax.Node
	if m, ok := s.registry.FindAt(pos); ok {
		node = m.Node()
	} else if n, ok := tree.NodeAt(pos); ok {
		node = n
	} else {
		return nil
	}

	var kinds []string
	for _, n := range syntax.Path(tree, node) {
		if k := syntax.KindOf(tree, n); k != "" {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Close deactivates navigation: markers are dropped, hooks removed and the
// parser released. Closing twice is harmless.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.registry.ClearAll()
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	s.unsubscribe = nil
	log.Infof("closed session for %s", s.buf.ID())
	return s.parser.Close()
}
