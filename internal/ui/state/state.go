package state

// MessageKind says how the status message is drawn
type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageBoundary
	MessageError
)

// AppState contains the UI state that is not owned by the buffer or session
type AppState struct {
	// Viewport
	ViewportOffset int // first visible row
	ViewportHeight int // rows available for text
	Width          int
	Height         int

	// Status line
	StatusMessage string
	MessageKind   MessageKind

	// Preferred column for vertical cursor moves, -1 when unset
	GoalColumn int

	InPagerMode bool
	Quitting    bool
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		ViewportHeight: 20, // Updated on the first WindowSizeMsg
		GoalColumn:     -1,
	}
}

// SetMessage replaces the status message
func (s *AppState) SetMessage(kind MessageKind, msg string) {
	s.StatusMessage = msg
	s.MessageKind = kind
}

// ClearMessage removes the status message
func (s *AppState) ClearMessage() {
	s.StatusMessage = ""
	s.MessageKind = MessageInfo
}

// EnsureVisible scrolls so row is inside the viewport
func (s *AppState) EnsureVisible(row int) {
	if s.ViewportHeight < 1 {
		s.ViewportHeight = 1
	}
	if row < s.ViewportOffset {
		s.ViewportOffset = row
	}
	if row >= s.ViewportOffset+s.ViewportHeight {
		s.ViewportOffset = row - s.ViewportHeight + 1
	}
	if s.ViewportOffset < 0 {
		s.ViewportOffset = 0
	}
}
