package ui

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tliron/commonlog"

	"nodewalk/internal/buffer"
	"nodewalk/internal/commands"
	"nodewalk/internal/config"
	"nodewalk/internal/domain"
	"nodewalk/internal/navigator"
	"nodewalk/internal/session"
	"nodewalk/internal/ui/handlers"
	"nodewalk/internal/ui/input"
	inputtypes "nodewalk/internal/ui/input/types"
	"nodewalk/internal/ui/state"
	"nodewalk/internal/ui/views"
)

var log = commonlog.GetLogger("nodewalk.ui")

// Options configures the UI model
type Options struct {
	// Language is shown in the title line
	Language string
	// Ready prints the e2e readiness marker in the title line
	Ready bool
}

// Model represents the UI state
type Model struct {
	config  *config.Config
	state   *state.AppState
	session *session.Session
	buf     *buffer.Buffer
	opts    Options

	help help.Model
	keys KeyMap

	renderer     *views.Renderer
	eventHandler *handlers.EventHandler
	cmdExecutor  *commands.Executor
	inputHandler *input.Handler
	helpRenderer *HelpRenderer
	helpOps      *HelpOps

	unsubscribe func()

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model over an open session
func NewModel(s *session.Session, cfg *config.Config, opts Options) *Model {
	appState := state.NewAppState()
	keys := NewKeyMap(cfg.Keys)

	m := &Model{
		config:       cfg,
		state:        appState,
		session:      s,
		buf:          s.Buffer(),
		opts:         opts,
		help:         help.New(),
		keys:         keys,
		renderer:     views.NewRenderer(views.NewStyles(cfg.UI.Styles)),
		eventHandler: handlers.NewEventHandler(appState, cfg.UI.BoundaryFeedback),
		cmdExecutor:  commands.NewExecutor(s),
		inputHandler: input.New(keys.Lookup(), commands.Names()),
		helpRenderer: NewHelpRenderer(keys),
		helpOps:      NewHelpOps(nil),
	}
	m.unsubscribe = m.eventHandler.Subscribe(m.buf.Bus())
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps.SetProgram(p)
}

// Close removes the model's event subscriptions
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// State exposes the UI state for inspection
func (m *Model) State() *state.AppState { return m.state }

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.state.ViewportHeight = views.BufferHeight(msg.Height)
		m.help.Width = msg.Width
		m.ensureCursorVisible()
		return m, nil

	case tea.KeyMsg:
		if m.state.InPagerMode {
			return m, nil
		}
		m.state.ClearMessage()

		ctx := &input.ModelContext{Buffer: m.buf}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		m.ensureCursorVisible()
		return m, tea.Batch(cmds...)

	default:
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			return m, cmd
		}
		return m.handleNonKeyboardMsg(msg)
	}
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		m.eventHandler.HandleEvent(msg.Event)

	case FileChangedMsg:
		m.reload(msg.Data)

	case helpPagerMsg:
		if msg.err != nil {
			log.Errorf("help pager: %s", msg.err)
			m.state.SetMessage(state.MessageError, fmt.Sprintf("Error: help pager: %v", msg.err))
		}

	case pauseRenderingMsg:
		m.state.InPagerMode = true

	case resumeRenderingMsg:
		m.state.InPagerMode = false
	}
	return m, nil
}

// reload replaces the buffer with what is on disk, unless that would throw
// away unsaved edits
func (m *Model) reload(data []byte) {
	if string(data) == m.buf.String() {
		return
	}
	if m.buf.Modified() {
		log.Noticef("%s changed on disk while modified; not reloading", m.buf.Path())
		m.state.SetMessage(state.MessageError, "file changed on disk; not reloaded because of unsaved changes")
		return
	}
	if err := m.buf.Reload(data); err != nil {
		m.state.SetMessage(state.MessageError, fmt.Sprintf("Error: reload: %v", err))
		return
	}
	m.ensureCursorVisible()
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	log.Debugf("action %s", action.Type())

	if _, moving := action.(inputtypes.MoveCursorAction); !moving {
		m.state.GoalColumn = -1
	}

	switch a := action.(type) {
	case inputtypes.MoveCursorAction:
		m.moveCursor(a.Direction)

	case inputtypes.InsertTextAction:
		m.insert(a.Text)

	case inputtypes.DeleteCharAction:
		m.deleteChar(a.Forward)

	case inputtypes.SaveAction:
		if err := m.buf.Save(); err != nil {
			m.state.SetMessage(state.MessageError, fmt.Sprintf("Error: %v", err))
		} else {
			m.state.SetMessage(state.MessageInfo, fmt.Sprintf("saved %s", m.buf.Path()))
		}

	case inputtypes.ClearSelectionAction:
		m.buf.ClearSelection()

	case inputtypes.RunCommandAction:
		m.runCommand(a.Name)

	case inputtypes.SubmitTextAction:
		if a.Mode == inputtypes.ModePrompt && a.Text != "" {
			m.runCommand(a.Text)
		}

	case inputtypes.ShowHelpAction:
		if m.program == nil {
			m.help.ShowAll = !m.help.ShowAll
			return nil
		}
		return m.fetchHelpPager(m.helpRenderer.RenderHelpContent())

	case inputtypes.QuitAction:
		if !a.Force && m.buf.Modified() {
			m.inputHandler.ChangeMode(inputtypes.ModeConfirmQuit, "")
			return nil
		}
		m.state.Quitting = true
		return tea.Quit
	}
	return nil
}

// runCommand runs a navigation command at the cursor and reports it.
// Boundary feedback for moves comes from BoundaryReachedEvent.
func (m *Model) runCommand(name string) {
	report, err := m.cmdExecutor.RunAtCursor(name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownCommand):
			m.state.SetMessage(state.MessageError, fmt.Sprintf("unknown command: %s", name))
		case errors.Is(err, domain.ErrNoNodeAtPosition):
			m.state.SetMessage(state.MessageBoundary, fmt.Sprintf("%s: no node here", name))
		default:
			m.state.SetMessage(state.MessageError, fmt.Sprintf("Error: %s: %v", name, err))
		}
		return
	}

	if report.Outcome == navigator.NoTarget && isMove(name) {
		return
	}
	m.state.SetMessage(state.MessageInfo, report.Message)
}

func isMove(name string) bool {
	switch name {
	case commands.Prev, commands.Next, commands.Parent, commands.Child:
		return true
	}
	return false
}

// insert types text at the cursor, replacing the selection if there is one
func (m *Model) insert(text string) {
	start, end := m.buf.Cursor(), m.buf.Cursor()
	if span, ok := m.buf.SelectedSpan(); ok && !span.Empty() {
		start, end = span.Start, span.End
	}
	m.replace(start, end, text)
}

// deleteChar removes the selection, or one character before or after the
// cursor
func (m *Model) deleteChar(forward bool) {
	if span, ok := m.buf.SelectedSpan(); ok && !span.Empty() {
		m.replace(span.Start, span.End, "")
		return
	}
	start, end := m.buf.Cursor(), m.buf.Cursor()
	if forward {
		end = nextRune(m.buf.Text(), end)
	} else {
		start = prevRune(m.buf.Text(), start)
	}
	if start == end {
		return
	}
	m.replace(start, end, "")
}

func (m *Model) replace(start, end int, text string) {
	if err := m.buf.Replace(start, end, text); err != nil {
		m.state.SetMessage(state.MessageError, fmt.Sprintf("Error: %v", err))
		return
	}
	m.buf.ClearSelection()
	_ = m.buf.SetCursor(start + len(text))
}

func prevRune(text []byte, pos int) int {
	if pos <= 0 {
		return 0
	}
	_, size := utf8.DecodeLastRune(text[:pos])
	return pos - size
}

func nextRune(text []byte, pos int) int {
	if pos >= len(text) {
		return len(text)
	}
	_, size := utf8.DecodeRune(text[pos:])
	return pos + size
}

// moveCursor moves the cursor without editing. Vertical moves keep the
// column they started from across short lines.
func (m *Model) moveCursor(direction string) {
	text := m.buf.Text()
	pos := m.buf.Cursor()
	point := m.buf.PointAt(pos)

	vertical := func(rows int) int {
		if m.state.GoalColumn < 0 {
			m.state.GoalColumn = point.Column
		}
		row := point.Row + rows
		if row < 0 {
			return 0
		}
		if row >= m.buf.LineCount() {
			return len(text)
		}
		return m.buf.OffsetAt(domain.Point{Row: row, Column: m.state.GoalColumn})
	}

	switch direction {
	case "left":
		pos = prevRune(text, pos)
	case "right":
		pos = nextRune(text, pos)
	case "up":
		pos = vertical(-1)
	case "down":
		pos = vertical(1)
	case "pageup":
		pos = vertical(-m.state.ViewportHeight)
	case "pagedown":
		pos = vertical(m.state.ViewportHeight)
	case "home":
		if start, _, ok := m.buf.Line(point.Row); ok {
			pos = start
		}
	case "end":
		if _, end, ok := m.buf.Line(point.Row); ok {
			pos = end
		}
	}

	switch direction {
	case "up", "down", "pageup", "pagedown":
	default:
		m.state.GoalColumn = -1
	}
	_ = m.buf.SetCursor(pos)
}

func (m *Model) ensureCursorVisible() {
	m.state.EnsureVisible(m.buf.PointAt(m.buf.Cursor()).Row)
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.helpOps.ShowHelpInPager(helpContent)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return helpPagerMsg{
			err: err,
		}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.state.Width == 0 {
		return "Loading..."
	}
	if m.state.Quitting {
		return ""
	}
	return m.renderer.Render(m.viewState())
}

func (m *Model) viewState() views.ViewState {
	cursor := m.buf.Cursor()
	point := m.buf.PointAt(cursor)

	var overlays []views.OverlaySpan
	for _, o := range m.session.Layer().All() {
		if !o.Disposed() {
			overlays = append(overlays, views.OverlaySpan{Span: o.Span(), Hint: o.Hint()})
		}
	}

	vs := views.ViewState{
		Width:    m.state.Width,
		Height:   m.state.Height,
		FileName: m.buf.Path(),
		Language: m.opts.Language,
		Modified: m.buf.Modified(),
		ReadOnly: m.buf.ReadOnly(),
		Buffer: views.BufferView{
			Text:        m.buf.Text(),
			Cursor:      cursor,
			Overlays:    overlays,
			Offset:      m.state.ViewportOffset,
			TabWidth:    m.config.UI.TabWidth,
			LineNumbers: true,
		},
		Row:         point.Row + 1,
		Column:      point.Column + 1,
		Markers:     m.session.Registry().Len(),
		KindPath:    m.session.KindPath(cursor),
		Message:     m.state.StatusMessage,
		MessageKind: m.state.MessageKind,
		ConfirmQuit: m.inputHandler.CurrentMode() == inputtypes.ModeConfirmQuit,
		HelpLine:    m.help.View(m.keys),
		Ready:       m.opts.Ready,
	}
	if span, ok := m.buf.SelectedSpan(); ok {
		vs.Buffer.Selection = span
		vs.Buffer.HasSelection = true
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		vs.Prompt = m.inputHandler.Prompt()
		vs.PromptInput = ti.View()
	}
	return vs
}
