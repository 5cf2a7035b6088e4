// Package buffer provides the editable text that syntax trees and markers
// are laid over.
package buffer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"nodewalk/internal/domain"
	"nodewalk/internal/eventbus"
)

var log = commonlog.GetLogger("nodewalk.buffer")

// Buffer is byte-addressed text with a cursor and an optional selection
// anchor. All offsets are byte offsets; the cursor ranges over [0, Len()].
type Buffer struct {
	id   string
	path string
	text []byte

	cursor    int
	anchor    int
	hasAnchor bool

	version  uint64
	modified bool
	readOnly bool

	bus eventbus.EventBus
}

// New creates a buffer holding a copy of text. A nil bus gets a private one.
func New(id string, text []byte, bus eventbus.EventBus) *Buffer {
	if bus == nil {
		bus = eventbus.New()
	}
	return &Buffer{
		id:   id,
		text: append([]byte(nil), text...),
		bus:  bus,
	}
}

// Open reads path into a new buffer whose id is the path itself
func Open(path string, bus eventbus.EventBus) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	b := New(path, data, bus)
	b.path = path
	return b, nil
}

func (b *Buffer) ID() string             { return b.id }
func (b *Buffer) Path() string           { return b.path }
func (b *Buffer) SetPath(path string)    { b.path = path }
func (b *Buffer) Bus() eventbus.EventBus { return b.bus }

// Text returns the current contents. The slice must not be modified and is
// only valid until the next edit.
func (b *Buffer) Text() []byte   { return b.text }
func (b *Buffer) String() string { return string(b.text) }
func (b *Buffer) Len() int       { return len(b.text) }

// Version increases by one on every applied mutation
func (b *Buffer) Version() uint64 { return b.version }

func (b *Buffer) Modified() bool            { return b.modified }
func (b *Buffer) ReadOnly() bool            { return b.readOnly }
func (b *Buffer) SetReadOnly(readOnly bool) { b.readOnly = readOnly }

// Save writes the buffer to its path
func (b *Buffer) Save() error {
	if b.path == "" {
		return fmt.Errorf("buffer %s has no file", b.id)
	}
	if err := os.WriteFile(b.path, b.text, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", b.path, err)
	}
	b.modified = false
	log.Infof("saved %s (%d bytes)", b.path, len(b.text))
	return nil
}

// Cursor operations

func (b *Buffer) Cursor() int { return b.cursor }

// SetCursor moves the cursor without touching the selection anchor
func (b *Buffer) SetCursor(pos int) error {
	if pos < 0 || pos > len(b.text) {
		return fmt.Errorf("cursor %d in buffer of %d bytes: %w", pos, len(b.text), domain.ErrInvalidPosition)
	}
	b.cursor = pos
	return nil
}

// Selection returns the anchor and cursor of the active selection
func (b *Buffer) Selection() (anchor, cursor int, ok bool) {
	return b.anchor, b.cursor, b.hasAnchor
}

// SetSelection sets the anchor and the cursor together
func (b *Buffer) SetSelection(anchor, cursor int) error {
	if anchor < 0 || anchor > len(b.text) {
		return fmt.Errorf("anchor %d in buffer of %d bytes: %w", anchor, len(b.text), domain.ErrInvalidPosition)
	}
	if err := b.SetCursor(cursor); err != nil {
		return err
	}
	b.anchor = anchor
	b.hasAnchor = true
	return nil
}

func (b *Buffer) ClearSelection() {
	b.hasAnchor = false
}

// SelectedSpan returns the selection as an ordered span
func (b *Buffer) SelectedSpan() (domain.Span, bool) {
	if !b.hasAnchor {
		return domain.Span{}, false
	}
	if b.anchor < b.cursor {
		return domain.Span{Start: b.anchor, End: b.cursor}, true
	}
	return domain.Span{Start: b.cursor, End: b.anchor}, true
}

// Hooks

// OnBeforeEdit registers fn to run before every mutation of this buffer is
// applied. fn has returned by the time the text changes. The returned
// function removes the hook.
func (b *Buffer) OnBeforeEdit(fn func()) func() {
	return b.bus.Subscribe(eventbus.EventBeforeEdit, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.BeforeEditEvent); ok && ev.BufferID == b.id {
			fn()
		}
	})
}

// OnAfterEdit registers fn to run after every applied mutation
func (b *Buffer) OnAfterEdit(fn func(domain.Edit)) func() {
	return b.bus.Subscribe(eventbus.EventAfterEdit, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.AfterEditEvent); ok && ev.BufferID == b.id {
			fn(ev.Edit)
		}
	})
}

// Mutations

// Replace substitutes text for the bytes in [start, end). It is the only
// path that changes the buffer: BeforeEditEvent is published and handled
// before anything is modified, AfterEditEvent once the change is in place.
// A replacement that changes nothing is not an edit and publishes nothing.
func (b *Buffer) Replace(start, end int, text string) error {
	if b.readOnly {
		return domain.ErrReadOnly
	}
	if start < 0 || end < start || end > len(b.text) {
		return fmt.Errorf("replace [%d,%d) in buffer of %d bytes: %w", start, end, len(b.text), domain.ErrInvalidPosition)
	}
	if start == end && text == "" {
		return nil
	}

	b.bus.Publish(eventbus.BeforeEditEvent{BufferID: b.id})

	edit := domain.Edit{
		StartByte:   start,
		OldEndByte:  end,
		NewEndByte:  start + len(text),
		StartPoint:  b.PointAt(start),
		OldEndPoint: b.PointAt(end),
	}

	next := make([]byte, 0, len(b.text)-(end-start)+len(text))
	next = append(next, b.text[:start]...)
	next = append(next, text...)
	next = append(next, b.text[end:]...)
	b.text = next

	edit.NewEndPoint = b.PointAt(edit.NewEndByte)
	b.cursor = adjust(b.cursor, edit)
	b.anchor = adjust(b.anchor, edit)
	b.version++
	b.modified = true

	b.bus.Publish(eventbus.AfterEditEvent{BufferID: b.id, Edit: edit, Version: b.version})
	return nil
}

// adjust maps an offset in the old text to the new one: offsets after the
// replaced range shift, offsets inside it collapse to the end of the
// inserted text.
func adjust(pos int, e domain.Edit) int {
	switch {
	case pos >= e.OldEndByte:
		return pos + e.NewEndByte - e.OldEndByte
	case pos > e.StartByte:
		return e.NewEndByte
	default:
		return pos
	}
}

func (b *Buffer) Insert(pos int, text string) error {
	return b.Replace(pos, pos, text)
}

func (b *Buffer) Delete(start, end int) error {
	return b.Replace(start, end, "")
}

// SetText replaces the whole contents, keeping the cursor where it can
func (b *Buffer) SetText(text []byte) error {
	if bytes.Equal(text, b.text) {
		return nil
	}
	cursor := b.cursor
	if err := b.Replace(0, len(b.text), string(text)); err != nil {
		return err
	}
	if cursor > len(b.text) {
		cursor = len(b.text)
	}
	b.cursor = cursor
	b.hasAnchor = false
	return nil
}

// Reload replaces the contents with text read back from disk. It goes
// through Replace like any other edit; afterwards the buffer counts as
// unmodified and FileReloadedEvent is published.
func (b *Buffer) Reload(text []byte) error {
	if bytes.Equal(text, b.text) {
		return nil
	}
	if err := b.SetText(text); err != nil {
		return err
	}
	b.modified = false
	b.bus.Publish(eventbus.FileReloadedEvent{BufferID: b.id, Path: b.path})
	return nil
}

// Position mapping

// PointAt converts an offset into a row/column point. Offsets past the end
// clamp to the end of the text.
func (b *Buffer) PointAt(pos int) domain.Point {
	if pos > len(b.text) {
		pos = len(b.text)
	}
	if pos < 0 {
		pos = 0
	}
	row := bytes.Count(b.text[:pos], []byte{'\n'})
	lineStart := bytes.LastIndexByte(b.text[:pos], '\n') + 1
	return domain.Point{Row: row, Column: pos - lineStart}
}

// OffsetAt converts a point into an offset, clamping the column to the line
func (b *Buffer) OffsetAt(p domain.Point) int {
	start, end, ok := b.Line(p.Row)
	if !ok {
		if p.Row < 0 {
			return 0
		}
		return len(b.text)
	}
	if p.Column < 0 {
		return start
	}
	if start+p.Column > end {
		return end
	}
	return start + p.Column
}

// LineCount returns the number of lines; an empty buffer has one
func (b *Buffer) LineCount() int {
	return bytes.Count(b.text, []byte{'\n'}) + 1
}

// Line returns the span of line row, excluding its newline
func (b *Buffer) Line(row int) (start, end int, ok bool) {
	if row < 0 {
		return 0, 0, false
	}
	start = 0
	for i := 0; i < row; i++ {
		nl := bytes.IndexByte(b.text[start:], '\n')
		if nl < 0 {
			return 0, 0, false
		}
		start += nl + 1
	}
	end = len(b.text)
	if nl := bytes.IndexByte(b.text[start:], '\n'); nl >= 0 {
		end = start + nl
	}
	return start, end, true
}
