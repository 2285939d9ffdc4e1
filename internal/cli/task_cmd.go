package cli

import (
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := newEntityCmd(app, taskKind, "task", "Manage a project's tasks")
	cmd.AddCommand(
		newTaskStatusCmd(app),
		newTaskMineCmd(app),
	)
	return cmd
}

func newTaskStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change only the status of a task",
		Long:  "Change only the status of a task. STATUS is Pending, Planned, InProgress or Completed.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}
			b, err := app.Backend()
			if err != nil {
				return err
			}
			t, err := b.Tasks.UpdateStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("%s is now", t.Title))+" "+formatter.StatusPill(t.Status))
			return nil
		},
	}
}

func newTaskMineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List tasks assigned to you across projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.Backend()
			if err != nil {
				return err
			}
			tasks, err := b.Tasks.ListByUser(cmd.Context(), app.User().ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList("My Tasks", tasks))
			return nil
		},
	}
}
