package types

// Cursor movement
type MoveCursorAction struct {
	Direction string // "left", "right", "up", "down", "home", "end", "pageup", "pagedown"
}

func (a MoveCursorAction) Type() string { return "move_cursor" }

// Editing actions
type InsertTextAction struct {
	Text string
}

func (a InsertTextAction) Type() string { return "insert_text" }

type DeleteCharAction struct {
	Forward bool // true for Delete, false for Backspace
}

func (a DeleteCharAction) Type() string { return "delete_char" }

type SaveAction struct{}

func (a SaveAction) Type() string { return "save" }

type ClearSelectionAction struct{}

func (a ClearSelectionAction) Type() string { return "clear_selection" }

// RunCommandAction runs a navigation command at the cursor
type RunCommandAction struct {
	Name string
}

func (a RunCommandAction) Type() string { return "run_command" }

type ShowHelpAction struct{}

func (a ShowHelpAction) Type() string { return "show_help" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

type QuitAction struct {
	Force bool // true skips the unsaved changes check
}

func (a QuitAction) Type() string { return "quit" }
