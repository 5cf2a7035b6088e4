package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"nodewalk/internal/commands"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	keys KeyMap
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(keys KeyMap) *HelpRenderer {
	return &HelpRenderer{keys: keys}
}

// RenderHelpContent generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	row := func(keys, desc string) string {
		return fmt.Sprintf("  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-20s", keys)), descStyle.Render(desc))
	}

	var help strings.Builder

	help.WriteString(titleStyle.Render("nodewalk Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Node Navigation"))
	help.WriteString("\n")
	for _, info := range commands.List() {
		keys := "(unbound)"
		if b, ok := r.keys.Binding(info.Name); ok && b.Enabled() {
			keys = b.Help().Key
		}
		help.WriteString(row(keys, fmt.Sprintf("%-14s %s", info.Name, info.Description)))
	}
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Editing"))
	help.WriteString("\n")
	help.WriteString(row("arrows, Home/End", "Move the cursor"))
	help.WriteString(row("PgUp/PgDn", "Move the cursor a page"))
	help.WriteString(row("Enter, Tab", "Insert a newline or tab"))
	help.WriteString(row("Backspace/Delete", "Delete a character"))
	help.WriteString(row(r.keys.Clear.Help().Key, "Clear the selection"))
	help.WriteString(row(r.keys.Save.Help().Key, "Save the file"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	if r.keys.Prompt.Enabled() {
		help.WriteString(row(r.keys.Prompt.Help().Key, "Run a command by name (Tab completes)"))
	}
	if r.keys.Help.Enabled() {
		help.WriteString(row(r.keys.Help.Help().Key, "Show this help"))
	}
	help.WriteString(row("ctrl+q, ctrl+c", "Quit"))
	help.WriteString("\n")

	// Any edit forgets every marker
	noteStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	help.WriteString(noteStyle.Render("  Markers are forgotten as soon as the text changes."))
	help.WriteString("\n")

	return help.String()
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// SetProgram sets the program whose terminal the pager borrows
func (h *HelpOps) SetProgram(p *tea.Program) {
	h.program = p
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Leave the screen to bubbletea on exit
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
