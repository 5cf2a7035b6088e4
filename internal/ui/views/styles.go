package views

import (
	"github.com/charmbracelet/lipgloss"

	"nodewalk/internal/config"
	"nodewalk/internal/overlay"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Confirm     lipgloss.Style
	Dim         lipgloss.Style
	Status      lipgloss.Style
	StatusFile  lipgloss.Style
	Modified    lipgloss.Style
	Message     lipgloss.Style
	Boundary    lipgloss.Style
	StatusError lipgloss.Style
	Prompt      lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
	Gutter      lipgloss.Style
	Cursor      lipgloss.Style
	SelectionBg lipgloss.Style
	InfoBox     lipgloss.Style

	// Hints holds the style each overlay hint is drawn with
	Hints map[overlay.Hint]lipgloss.Style
}

// NewStyles creates a new Styles instance with the configured hint styles
func NewStyles(hints map[string]config.Style) *Styles {
	s := &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Confirm:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Dim:         lipgloss.NewStyle().Faint(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusFile:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		Modified:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Message:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Boundary:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Prompt:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Main:        lipgloss.NewStyle(),
		Gutter:      lipgloss.NewStyle().Foreground(lipgloss.Color("239")),
		Cursor:      lipgloss.NewStyle().Reverse(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("241")),
		Hints: make(map[overlay.Hint]lipgloss.Style),
	}

	for name, style := range hints {
		hint, err := overlay.ParseHint(name)
		if err != nil {
			continue
		}
		s.Hints[hint] = hintStyle(style)
	}
	return s
}

func hintStyle(c config.Style) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c.Foreground != "" {
		st = st.Foreground(lipgloss.Color(c.Foreground))
	}
	if c.Background != "" {
		st = st.Background(lipgloss.Color(c.Background))
	}
	if c.Bold {
		st = st.Bold(true)
	}
	if c.Underline {
		st = st.Underline(true)
	}
	return st
}
