package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newDashCmd(app *App) *cobra.Command {
	var narrate bool

	cmd := &cobra.Command{
		Use:   "dash [FILE]",
		Short: "Explore a timesheet in an interactive terminal dashboard",
		Long: `Explore a timesheet in the terminal: tabs for people, projects, who worked
on what, days and the written summary; press f to drill down. Without FILE
the dashboard asks for one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return errors.New("dash needs an interactive terminal; use `tally report` instead")
			}

			opts := dashOptions{narrate: narrate && app.NarrativeEnabled, mdStyle: "light"}
			if len(args) == 1 {
				opts.path = args[0]
			}
			if lipgloss.HasDarkBackground() {
				opts.mdStyle = "dark"
			}

			m := newDashModel(cmd.Context(), app, opts)
			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			if errors.Is(err, tea.ErrProgramKilled) && cmd.Context().Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&narrate, "narrate", false, "Ask the language model for a written summary on load")

	return cmd
}
