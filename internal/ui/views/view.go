package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nodewalk/internal/ui/state"
)

// ReadyMarker is printed in the title line when running under the e2e driver
const ReadyMarker = "__READY__"

// chromeLines is the number of lines around the buffer: title, status,
// message and help
const chromeLines = 4

// BufferHeight returns how many text rows fit in a terminal of height rows
func BufferHeight(height int) int {
	if h := height - chromeLines; h > 0 {
		return h
	}
	return 1
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	FileName string
	Language string
	Modified bool
	ReadOnly bool

	Buffer BufferView

	Row, Column int // one based
	Markers     int
	KindPath    []string

	Message     string
	MessageKind state.MessageKind

	// Prompt is set while a text mode is active; PromptInput is the
	// rendered text input
	Prompt      string
	PromptInput string

	ConfirmQuit bool
	HelpLine    string
	Ready       bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	bufRender   *BufferRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(styles *Styles) *Renderer {
	return &Renderer{
		styles:      styles,
		bufRender:   NewBufferRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles returns the styles the renderer draws with
func (r *Renderer) Styles() *Styles { return r.styles }

// Render produces the complete view
func (r *Renderer) Render(vs ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(vs))
	content.WriteString("\n")

	vs.Buffer.Height = BufferHeight(vs.Height)
	vs.Buffer.Width = vs.Width
	content.WriteString(r.bufRender.Render(vs.Buffer))
	content.WriteString("\n")

	content.WriteString(r.renderStatus(vs))
	content.WriteString("\n")

	switch {
	case vs.Prompt != "":
		content.WriteString(r.styles.Prompt.Render(vs.Prompt))
		content.WriteString(vs.PromptInput)
	case vs.Message != "":
		content.WriteString(r.messageStyle(vs.MessageKind).Render(vs.Message))
	}
	content.WriteString("\n")
	content.WriteString(r.styles.Help.Render(vs.HelpLine))

	mainStyle := r.styles.Main.MaxHeight(vs.Height)
	finalContent := mainStyle.Render(content.String())

	if vs.ConfirmQuit {
		question := r.styles.Confirm.Render("Buffer modified. Quit anyway?") + "\n\n" +
			"y quit   s save and quit   n cancel"
		return r.popupRender.RenderPopupOverlay(finalContent, question, vs.Height, vs.Width, r.styles.InfoBox)
	}
	return finalContent
}

func (r *Renderer) renderTitle(vs ViewState) string {
	logo := r.styles.Title.Render("nodewalk")
	if vs.Ready {
		logo += " " + ReadyMarker
	}

	name := vs.FileName
	if name == "" {
		name = "[scratch]"
	}
	right := r.styles.StatusFile.Render(name)
	if vs.Modified {
		right += r.styles.Modified.Render(" [+]")
	}
	if vs.ReadOnly {
		right += r.styles.Dim.Render(" [ro]")
	}
	if vs.Language != "" {
		right += r.styles.Dim.Render(fmt.Sprintf(" (%s)", vs.Language))
	}

	padding := vs.Width - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderStatus(vs ViewState) string {
	parts := []string{
		fmt.Sprintf("%d:%d", vs.Row, vs.Column),
		fmt.Sprintf("markers=%d", vs.Markers),
	}
	if len(vs.KindPath) > 0 {
		parts = append(parts, strings.Join(vs.KindPath, " > "))
	}
	return r.styles.Status.Render(strings.Join(parts, "  "))
}

func (r *Renderer) messageStyle(kind state.MessageKind) lipgloss.Style {
	switch kind {
	case state.MessageBoundary:
		return r.styles.Boundary
	case state.MessageError:
		return r.styles.StatusError
	}
	return r.styles.Message
}
