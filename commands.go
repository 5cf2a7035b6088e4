package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"nodewalk/internal/commands"
	"nodewalk/internal/config"
)

func newCommandsCmd(opts *rootOptions) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the navigation commands and their keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := opts.cfg.Keys
			if defaults {
				keys = config.DefaultConfig().Keys
			}
			fmt.Fprintln(cmd.OutOrStdout(), commandTable(keys))
			return nil
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "show the default keys instead of the configured ones")
	return cmd
}

// commandTable lays out every command with its keys and description
func commandTable(keys map[string][]string) string {
	rows := make([][]string, 0, len(commands.List()))
	for _, info := range commands.List() {
		bound := strings.Join(keys[info.Name], ", ")
		if bound == "" {
			bound = "-"
		}
		rows = append(rows, []string{info.Name, bound, info.Description})
	}

	header := lipgloss.NewStyle().Bold(true)
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("COMMAND", "KEYS", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
