package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"nodewalk/internal/commands"
	"nodewalk/internal/domain"
)

func newWalkCmd(opts *rootOptions) *cobra.Command {
	var at int

	cmd := &cobra.Command{
		Use:   "walk FILE COMMAND...",
		Short: "Run navigation commands on a file and print where each one lands",
		Long: `Run navigation commands on a file without opening the editor.

The cursor starts at --at and each command runs where the previous one left
it. One line is printed per command:

  <command> <outcome> cursor=<n> marker=[start,end) markers=<k>`,
		Example: "  nodewalk walk init.el --at 12 parent parent mark",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, names := args[0], args[1:]
			for _, name := range names {
				if !commands.Known(name) {
					return fmt.Errorf("%w: %s", domain.ErrUnknownCommand, name)
				}
			}

			s, _, err := openSession(cmd.Context(), opts, path)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Buffer().SetCursor(at); err != nil {
				return fmt.Errorf("--at %d: %w", at, err)
			}

			exec := commands.NewExecutor(s)
			out := cmd.OutOrStdout()
			var failed []error
			for _, name := range names {
				report, err := exec.RunAtCursor(name)
				if err != nil {
					fmt.Fprintf(out, "%s error %s\n", name, err)
					failed = append(failed, fmt.Errorf("%s: %w", name, err))
					continue
				}
				fmt.Fprintln(out, report)
			}
			return errors.Join(failed...)
		},
	}

	cmd.Flags().IntVar(&at, "at", 0, "byte offset the cursor starts at")
	return cmd
}
