package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive Scrum dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, app)
		},
	}
}

// runDashboard starts the TUI. The session is checked first so an expired
// login fails on the command line rather than inside the alt screen.
func runDashboard(cmd *cobra.Command, app *App) error {
	if _, err := app.Backend(); err != nil {
		return err
	}
	m, err := newAppModel(cmd.Context(), app)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err = p.Run()
	return err
}
