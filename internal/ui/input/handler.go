package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"nodewalk/internal/ui/input/modes"
	"nodewalk/internal/ui/input/types"
)

// prompter is implemented by modes that read a line of text
type prompter interface {
	Prompt() string
}

// Handler routes keys to the active mode and keeps the text input shared
// by prompt modes
type Handler struct {
	current types.Mode
	modes   map[types.Mode]types.ModeHandler
	input   *textinput.Model
}

// New creates a handler. bindings maps key strings to command names or
// to one of the modes.Binding names; names are the commands the prompt
// completes.
func New(bindings map[string]string, names []string) *Handler {
	ti := textinput.New()
	return &Handler{
		current: types.ModeNormal,
		input:   &ti,
		modes: map[types.Mode]types.ModeHandler{
			types.ModeNormal:      modes.NewNormalMode(bindings),
			types.ModePrompt:      modes.NewPromptMode(&ti, names),
			types.ModeConfirmQuit: modes.NewConfirmMode(),
		},
	}
}

// HandleKey lets the current mode turn msg into actions. Mode changes are
// applied here and not passed on; a key a prompt mode leaves alone edits
// the text input.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	mode := h.modes[h.current]
	if mode == nil {
		return nil, nil
	}

	actions, consumed := mode.HandleKey(msg, ctx)
	if !consumed {
		if !h.isPrompt(h.current) {
			return nil, nil
		}
		var cmd tea.Cmd
		*h.input, cmd = h.input.Update(msg)
		return []types.Action{types.UpdateTextAction{Text: h.input.Value()}}, cmd
	}

	var out []types.Action
	var cmd tea.Cmd
	for _, action := range actions {
		change, ok := action.(types.ChangeModeAction)
		if !ok {
			out = append(out, action)
			continue
		}
		out = append(out, h.switchMode(change.Mode, ctx)...)
		if h.isPrompt(h.current) {
			cmd = textinput.Blink
		}
	}
	return out, cmd
}

func (h *Handler) switchMode(mode types.Mode, ctx types.Context) []types.Action {
	var actions []types.Action
	if cur := h.modes[h.current]; cur != nil {
		actions = append(actions, cur.Exit(ctx)...)
	}
	h.current = mode
	if next := h.modes[mode]; next != nil {
		actions = append(actions, next.Enter(ctx)...)
	}
	return actions
}

func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeNormal
	}
	return h.current
}

// ModeName names the current mode
func (h *Handler) ModeName() string {
	if mode := h.modes[h.current]; mode != nil {
		return mode.Name()
	}
	return ""
}

// Prompt returns the label of the current prompt mode
func (h *Handler) Prompt() string {
	if p, ok := h.modes[h.current].(prompter); ok {
		return p.Prompt()
	}
	return ""
}

// TextInput is the input being edited, or nil outside prompt modes
func (h *Handler) TextInput() *textinput.Model {
	if h.isPrompt(h.current) {
		return h.input
	}
	return nil
}

func (h *Handler) isPrompt(mode types.Mode) bool {
	_, ok := h.modes[mode].(prompter)
	return ok
}

// Update feeds non-key messages, such as cursor blinks, to the text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if !h.isPrompt(h.current) {
		return nil
	}
	var cmd tea.Cmd
	*h.input, cmd = h.input.Update(msg)
	return cmd
}

// ChangeMode switches mode from outside a key press. data seeds the text
// of a prompt mode.
func (h *Handler) ChangeMode(mode types.Mode, data string) {
	h.switchMode(mode, nil)
	if h.isPrompt(mode) {
		h.input.SetValue(data)
		h.input.CursorEnd()
	}
}
