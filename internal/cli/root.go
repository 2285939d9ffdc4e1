package cli

import (
	"github.com/alexanderramin/sprintboard/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "sprintboard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Scrum board client: projects, backlog, sprints and tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Setup(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runDashboard(cmd, app)
			}
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.ConfigDir, "config-dir", "", "Config directory (default $XDG_CONFIG_HOME/sprintboard)")
	flags.String("api-url", "", "API base URL, e.g. http://localhost:5000/api")
	flags.Bool("debug", false, "Fail hard when the local cache drifts from the server")
	flags.String("log-file", "", "Write logs to this file instead of stderr")

	root.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newProjectCmd(app),
		newBacklogCmd(app),
		newSprintCmd(app),
		newTaskCmd(app),
		newDashboardCmd(app),
		newServeCmd(app),
	)

	return root
}
