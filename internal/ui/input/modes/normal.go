package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"nodewalk/internal/ui/input/types"
)

// Names the normal mode resolves to UI actions rather than commands
const (
	BindingPrompt = "prompt"
	BindingHelp   = "help"
)

// NormalMode edits the buffer and dispatches bound navigation keys
type NormalMode struct {
	bindings map[string]string // key -> command or binding name
}

// NewNormalMode creates the normal mode with a key to name table
func NewNormalMode(bindings map[string]string) *NormalMode {
	if bindings == nil {
		bindings = make(map[string]string)
	}
	return &NormalMode{bindings: bindings}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

// Bound returns the name bound to key, if any
func (m *NormalMode) Bound(key string) (string, bool) {
	name, ok := m.bindings[key]
	return name, ok
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true
	case tea.KeyCtrlQ:
		if ctx.Modified() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeConfirmQuit}}, true
		}
		return []types.Action{types.QuitAction{}}, true
	case tea.KeyCtrlS:
		return []types.Action{types.SaveAction{}}, true
	}

	// Configured bindings win over the editing keys below
	if name, ok := m.bindings[msg.String()]; ok {
		switch name {
		case BindingPrompt:
			return []types.Action{types.ChangeModeAction{Mode: types.ModePrompt}}, true
		case BindingHelp:
			return []types.Action{types.ShowHelpAction{}}, true
		default:
			return []types.Action{types.RunCommandAction{Name: name}}, true
		}
	}

	switch msg.Type {
	case tea.KeyEsc:
		if ctx.HasSelection() {
			return []types.Action{types.ClearSelectionAction{}}, true
		}
		return nil, false

	case tea.KeyUp:
		return []types.Action{types.MoveCursorAction{Direction: "up"}}, true
	case tea.KeyDown:
		return []types.Action{types.MoveCursorAction{Direction: "down"}}, true
	case tea.KeyLeft:
		return []types.Action{types.MoveCursorAction{Direction: "left"}}, true
	case tea.KeyRight:
		return []types.Action{types.MoveCursorAction{Direction: "right"}}, true
	case tea.KeyHome, tea.KeyCtrlA:
		return []types.Action{types.MoveCursorAction{Direction: "home"}}, true
	case tea.KeyEnd, tea.KeyCtrlE:
		return []types.Action{types.MoveCursorAction{Direction: "end"}}, true
	case tea.KeyPgUp:
		return []types.Action{types.MoveCursorAction{Direction: "pageup"}}, true
	case tea.KeyPgDown:
		return []types.Action{types.MoveCursorAction{Direction: "pagedown"}}, true

	case tea.KeyEnter:
		return []types.Action{types.InsertTextAction{Text: "\n"}}, true
	case tea.KeyTab:
		return []types.Action{types.InsertTextAction{Text: "\t"}}, true
	case tea.KeyBackspace:
		return []types.Action{types.DeleteCharAction{}}, true
	case tea.KeyDelete:
		return []types.Action{types.DeleteCharAction{Forward: true}}, true

	case tea.KeySpace, tea.KeyRunes:
		// Unbound alt chords are not text
		if msg.Alt || len(msg.Runes) == 0 {
			return nil, false
		}
		return []types.Action{types.InsertTextAction{Text: string(msg.Runes)}}, true
	}

	return nil, false
}
