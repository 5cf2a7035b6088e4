package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"nodewalk/internal/ui/input/types"
)

// ConfirmMode asks before quitting with unsaved changes
type ConfirmMode struct{}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "confirm-quit"
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c", "y", "Y":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "s", "S":
		return []types.Action{
			types.SaveAction{},
			types.QuitAction{},
		}, true
	case "esc", "n", "N":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	}
	// Swallow everything else so no edit happens behind the question
	return nil, true
}
