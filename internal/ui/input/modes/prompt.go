package modes

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"nodewalk/internal/ui/input/types"
)

// PromptMode reads a command name and runs it at the cursor. Keys it does
// not claim are fed to the shared text input by the handler.
type PromptMode struct {
	input *textinput.Model
	names []string
}

func NewPromptMode(input *textinput.Model, names []string) *PromptMode {
	return &PromptMode{input: input, names: names}
}

func (m *PromptMode) Name() string   { return "command" }
func (m *PromptMode) Prompt() string { return "command: " }

func (m *PromptMode) Enter(ctx types.Context) []types.Action {
	m.input.Reset()
	m.input.Prompt = "" // drawn by the view
	m.input.Focus()
	return nil
}

func (m *PromptMode) Exit(ctx types.Context) []types.Action {
	m.input.Blur()
	m.input.Reset()
	return nil
}

func (m *PromptMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		return []types.Action{
			types.CancelTextAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case tea.KeyTab:
		name, ok := m.complete(m.input.Value())
		if !ok {
			return nil, true
		}
		m.input.SetValue(name)
		m.input.CursorEnd()
		return []types.Action{types.UpdateTextAction{Text: name}}, true

	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		if full, ok := m.complete(name); ok {
			name = full
		}
		return []types.Action{
			types.SubmitTextAction{Text: name, Mode: types.ModePrompt},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}
	return nil, false
}

// complete returns the only command name starting with prefix
func (m *PromptMode) complete(prefix string) (string, bool) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", false
	}
	match := ""
	for _, name := range m.names {
		if name == prefix {
			return name, true
		}
		if strings.HasPrefix(name, prefix) {
			if match != "" {
				return "", false
			}
			match = name
		}
	}
	return match, match != ""
}
