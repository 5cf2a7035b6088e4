// Package marker binds positions in a buffer to syntax nodes.
//
// A Registry holds the live markers of one buffer. Every marker covers
// exactly the span of the node it is bound to, and no two markers are
// created for the same position. Markers are only valid against the text
// they were bound on; the owner of a Registry must call ClearAll before
// the buffer changes.
package marker

import (
	"fmt"

	"github.com/tliron/commonlog"

	"nodewalk/internal/domain"
	"nodewalk/internal/eventbus"
	"nodewalk/internal/overlay"
	"nodewalk/internal/syntax"
)

var log = commonlog.GetLogger("nodewalk.marker")

// Presenter draws the range of each marker
type Presenter interface {
	Create(span domain.Span, hint overlay.Hint) *overlay.Overlay
	Move(o *overlay.Overlay, span domain.Span) bool
	Dispose(o *overlay.Overlay)
}

// Versioner reports the edit version of the buffer markers are bound on
type Versioner interface {
	Version() uint64
}

// Marker is a tracked range bound to one syntax node
type Marker struct {
	id      int
	span    domain.Span
	node    syntax.Node
	hint    overlay.Hint
	overlay *overlay.Overlay
	version uint64
}

func (m *Marker) ID() int            { return m.id }
func (m *Marker) Span() domain.Span  { return m.span }
func (m *Marker) Node() syntax.Node  { return m.node }
func (m *Marker) Hint() overlay.Hint { return m.hint }

// Version is the buffer version the marker was last bound against
func (m *Marker) Version() uint64 { return m.version }

func (m *Marker) String() string {
	return fmt.Sprintf("marker#%d%s", m.id, m.span)
}

// Registry is the set of live markers for one buffer, kept in creation order
type Registry struct {
	bufferID  string
	source    syntax.Source
	presenter Presenter
	versions  Versioner
	hint      overlay.Hint
	bus       eventbus.EventBus

	markers []*Marker
	nextID  int
}

// Options configures a Registry. Only Source is required.
type Options struct {
	BufferID  string
	Source    syntax.Source
	Presenter Presenter
	Versions  Versioner
	Hint      overlay.Hint
	Bus       eventbus.EventBus
}

// NewRegistry creates an empty registry
func NewRegistry(opts Options) *Registry {
	hint := opts.Hint
	if hint == "" {
		hint = overlay.HintHighlight
	}
	return &Registry{
		bufferID:  opts.BufferID,
		source:    opts.Source,
		presenter: opts.Presenter,
		versions:  opts.Versions,
		hint:      hint,
		bus:       opts.Bus,
	}
}

// Tree returns the tree markers are currently bound against
func (r *Registry) Tree() syntax.Tree {
	if r.source == nil {
		return nil
	}
	return r.source.Tree()
}

// FindAt returns the first live marker whose span contains pos
func (r *Registry) FindAt(pos int) (*Marker, bool) {
	for _, m := range r.markers {
		if m.span.Contains(pos) {
			return m, true
		}
	}
	return nil, false
}

// GetOrCreateAt returns the marker at pos, binding a new one to the
// smallest node containing pos when there is none.
func (r *Registry) GetOrCreateAt(pos int) (*Marker, error) {
	if m, ok := r.FindAt(pos); ok {
		if err := r.Check(m); err != nil {
			return nil, err
		}
		return m, nil
	}

	tree := r.Tree()
	if tree == nil {
		return nil, fmt.Errorf("position %d: %w", pos, domain.ErrNoNodeAtPosition)
	}
	node, ok := tree.NodeAt(pos)
	if !ok {
		return nil, fmt.Errorf("position %d: %w", pos, domain.ErrNoNodeAtPosition)
	}
	span := tree.Span(node)
	if span.Empty() {
		return nil, fmt.Errorf("position %d: node %s is empty: %w", pos, span, domain.ErrNoNodeAtPosition)
	}

	r.nextID++
	m := &Marker{
		id:      r.nextID,
		span:    span,
		node:    node,
		hint:    r.hint,
		version: r.version(),
	}
	if r.presenter != nil {
		m.overlay = r.presenter.Create(span, m.hint)
	}
	r.markers = append(r.markers, m)

	log.Debugf("created %s at %d", m, pos)
	r.publish(eventbus.MarkerCreatedEvent{BufferID: r.bufferID, MarkerID: m.id, Span: span})
	return m, nil
}

// Check reports whether m is still bound against the current text. A stale
// marker means edits reached the buffer without the registry being cleared;
// every marker is dropped since none of them can be trusted.
func (r *Registry) Check(m *Marker) error {
	current := r.version()
	if m.version == current {
		return nil
	}
	log.Criticalf("%s bound at version %d used at version %d: markers were not cleared before an edit", m, m.version, current)
	r.ClearAll()
	return fmt.Errorf("%s: %w", m, domain.ErrStaleMarker)
}

// Rebind binds m to node and moves its range to the node's span. A node
// with an empty span cannot be shown, so m is destroyed and false returned.
// An error means nothing changed: m is not live or there is no tree.
func (r *Registry) Rebind(m *Marker, node syntax.Node) (bool, error) {
	if r.indexOf(m) < 0 {
		return false, fmt.Errorf("rebinding %s: %w", m, domain.ErrMarkerNotLive)
	}
	tree := r.Tree()
	if tree == nil {
		return false, fmt.Errorf("rebinding %s: %w", m, domain.ErrNoTree)
	}
	span := tree.Span(node)
	if span.Empty() {
		log.Debugf("%s evaporated", m)
		r.remove(m)
		return false, nil
	}

	m.node = node
	m.span = span
	m.version = r.version()
	if r.presenter != nil && m.overlay != nil {
		if !r.presenter.Move(m.overlay, span) {
			r.remove(m)
			return false, nil
		}
	}
	return true, nil
}

// DeleteAt destroys the marker at pos. It reports whether there was one.
func (r *Registry) DeleteAt(pos int) bool {
	m, ok := r.FindAt(pos)
	if !ok {
		return false
	}
	r.remove(m)
	return true
}

// ClearAll destroys every marker and returns how many there were
func (r *Registry) ClearAll() int {
	n := len(r.markers)
	if n == 0 {
		return 0
	}
	for _, m := range r.markers {
		r.dispose(m)
	}
	r.markers = nil
	log.Debugf("cleared %d marker(s) of %s", n, r.bufferID)
	r.publish(eventbus.MarkersClearedEvent{BufferID: r.bufferID, Count: n})
	return n
}

func (r *Registry) Len() int { return len(r.markers) }

// Markers returns a snapshot of the live markers in creation order
func (r *Registry) Markers() []*Marker {
	out := make([]*Marker, len(r.markers))
	copy(out, r.markers)
	return out
}

func (r *Registry) remove(m *Marker) {
	i := r.indexOf(m)
	if i < 0 {
		return
	}
	r.markers = append(r.markers[:i:i], r.markers[i+1:]...)
	r.dispose(m)
	r.publish(eventbus.MarkerDeletedEvent{BufferID: r.bufferID, MarkerID: m.id})
}

func (r *Registry) dispose(m *Marker) {
	if r.presenter != nil && m.overlay != nil {
		r.presenter.Dispose(m.overlay)
	}
	m.overlay = nil
}

func (r *Registry) indexOf(m *Marker) int {
	for i, cur := range r.markers {
		if cur == m {
			return i
		}
	}
	return -1
}

func (r *Registry) version() uint64 {
	if r.versions == nil {
		return 0
	}
	return r.versions.Version()
}

func (r *Registry) publish(e eventbus.DomainEvent) {
	if r.bus != nil {
		r.bus.Publish(e)
	}
}
