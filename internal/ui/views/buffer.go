package views

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"nodewalk/internal/domain"
	"nodewalk/internal/overlay"
)

// OverlaySpan is one live overlay as the renderer sees it
type OverlaySpan struct {
	Span domain.Span
	Hint overlay.Hint
}

// BufferView is the part of the buffer on screen
type BufferView struct {
	Text         []byte
	Cursor       int
	Selection    domain.Span
	HasSelection bool
	Overlays     []OverlaySpan
	Offset       int // first visible row
	Height       int
	Width        int
	TabWidth     int
	LineNumbers  bool
}

// BufferRenderer draws buffer text with the cursor, selection and overlays
type BufferRenderer struct {
	styles *Styles
}

func NewBufferRenderer(styles *Styles) *BufferRenderer {
	return &BufferRenderer{styles: styles}
}

type cellKind int

const (
	cellPlain cellKind = iota
	cellCursor
	cellSelection
	cellHint
)

// cellStyle identifies how one cell is drawn. Cells with equal styles are
// rendered as one run.
type cellStyle struct {
	kind cellKind
	hint overlay.Hint
}

// LineStarts returns the byte offset of every line in text
func LineStarts(text []byte) []int {
	starts := []int{0}
	for i, c := range text {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Render returns exactly v.Height lines
func (r *BufferRenderer) Render(v BufferView) string {
	starts := LineStarts(v.Text)
	gutter := len(fmt.Sprint(len(starts)))

	lines := make([]string, 0, v.Height)
	for row := v.Offset; row < v.Offset+v.Height; row++ {
		if row >= len(starts) {
			lines = append(lines, r.styles.Dim.Render("~"))
			continue
		}
		start := starts[row]
		end := len(v.Text)
		if row+1 < len(starts) {
			end = starts[row+1] - 1
		}

		var line strings.Builder
		if v.LineNumbers {
			line.WriteString(r.styles.Gutter.Render(fmt.Sprintf("%*d ", gutter, row+1)))
		}
		line.WriteString(r.renderLine(v, start, end))

		rendered := line.String()
		if v.Width > 0 {
			rendered = lipgloss.NewStyle().MaxWidth(v.Width).Render(rendered)
		}
		lines = append(lines, rendered)
	}
	return strings.Join(lines, "\n")
}

func (r *BufferRenderer) renderLine(v BufferView, start, end int) string {
	tabWidth := v.TabWidth
	if tabWidth < 1 {
		tabWidth = 4
	}

	var out strings.Builder
	var run strings.Builder
	current := cellStyle{}
	flush := func() {
		if run.Len() > 0 {
			out.WriteString(r.style(current).Render(run.String()))
			run.Reset()
		}
	}

	col := 0
	for i := start; i < end; {
		ch, size := utf8.DecodeRune(v.Text[i:])
		cell := string(ch)
		if ch == '\t' {
			n := tabWidth - col%tabWidth
			cell = strings.Repeat(" ", n)
			col += n
		} else {
			col++
		}

		st := r.cellAt(v, i)
		if st != current {
			flush()
			current = st
		}
		run.WriteString(cell)
		i += size
	}

	// The cursor may sit on the newline or past the last byte
	if v.Cursor == end {
		if current != (cellStyle{kind: cellCursor}) {
			flush()
			current = cellStyle{kind: cellCursor}
		}
		run.WriteString(" ")
	}
	flush()
	return out.String()
}

func (r *BufferRenderer) cellAt(v BufferView, pos int) cellStyle {
	if pos == v.Cursor {
		return cellStyle{kind: cellCursor}
	}
	if v.HasSelection && v.Selection.Contains(pos) {
		return cellStyle{kind: cellSelection}
	}
	if hint, ok := innermost(v.Overlays, pos); ok && hint != overlay.HintNone {
		return cellStyle{kind: cellHint, hint: hint}
	}
	return cellStyle{}
}

func innermost(overlays []OverlaySpan, pos int) (overlay.Hint, bool) {
	found := false
	var best OverlaySpan
	for _, o := range overlays {
		if !o.Span.Contains(pos) {
			continue
		}
		if !found || o.Span.Len() < best.Span.Len() {
			best, found = o, true
		}
	}
	return best.Hint, found
}

func (r *BufferRenderer) style(c cellStyle) lipgloss.Style {
	switch c.kind {
	case cellCursor:
		return r.styles.Cursor
	case cellSelection:
		return r.styles.SelectionBg
	case cellHint:
		if st, ok := r.styles.Hints[c.hint]; ok {
			return st
		}
	}
	return r.styles.Main
}
