package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay draws popupContent centred over a greyed out copy of
// mainContent
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)
	popupLines := strings.Split(styledPopup, "\n")

	modalW := lipgloss.Width(styledPopup)
	modalH := len(popupLines)
	x := (width - modalW) / 2
	y := (height - modalH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	base := strings.Split(ansiRE.ReplaceAllString(mainContent, ""), "\n")
	for len(base) < y+modalH {
		base = append(base, "")
	}

	out := make([]string, len(base))
	for i, line := range base {
		if i < y || i >= y+modalH {
			out[i] = pr.grey(line)
			continue
		}
		cells := []rune(line)
		for len(cells) < x+modalW {
			cells = append(cells, ' ')
		}
		left := string(cells[:x])
		right := string(cells[x+modalW:])
		out[i] = pr.grey(left) + popupLines[i-y] + pr.grey(right)
	}
	return strings.Join(out, "\n")
}

func (pr *PopupRenderer) grey(s string) string {
	if s == "" {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(s)
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)
