package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/form"
	"github.com/alexanderramin/sprintboard/internal/screen"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newProjectCmd(app *App) *cobra.Command {
	return newEntityCmd(app, projectKind, "project", "Manage projects")
}

func newBacklogCmd(app *App) *cobra.Command {
	return newEntityCmd(app, backlogKind, "backlog", "Manage a project's product backlog")
}

func newSprintCmd(app *App) *cobra.Command {
	return newEntityCmd(app, sprintKind, "sprint", "Manage a project's sprints")
}

// newEntityCmd builds the list, add, edit and rm subcommands of one kind.
// Child kinds take the project from --project.
func newEntityCmd[T domain.Record[T]](app *App, k kind[T], use, short string) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}
	if k.scoped {
		cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project ID")
	}

	cmd.AddCommand(
		newEntityListCmd(app, k, &project),
		newEntityAddCmd(app, k, &project),
		newEntityEditCmd(app, k, &project),
		newEntityRemoveCmd(app, k, &project),
	)
	return cmd
}

// openScreen builds the kind's screen and loads its items.
func openScreen[T domain.Record[T]](ctx context.Context, app *App, k kind[T], project string) (*screen.Screen[T], error) {
	b, err := app.Backend()
	if err != nil {
		return nil, err
	}
	s := k.newScreen(b, app)
	if !k.scoped {
		return s, s.Load(ctx)
	}
	if project == "" {
		return nil, domain.ErrNoParentSelected
	}
	return s, s.Selection().SelectAndWait(ctx, project)
}

func newEntityListCmd[T domain.Record[T]](app *App, k kind[T], project *string) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List " + k.plural,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openScreen(cmd.Context(), app, k, *project)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), k.list(s.Items.Snapshot(), app.Now()))
			return nil
		},
	}
}

func newEntityAddCmd[T domain.Record[T]](app *App, k kind[T], project *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a " + k.name,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openScreen(cmd.Context(), app, k, *project)
			if err != nil {
				return err
			}
			draft := k.defaults(s.Parent(), s.Items.Len(), app.User(), app.Now())
			if err := s.OpenForAdd(draft); err != nil {
				return err
			}
			if err := fillDraft(cmd, app, k, s.Form); err != nil {
				return err
			}
			saved, err := s.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Created %s %s", k.name, k.label(saved)))+" "+formatter.Dim(saved.EntityID()))
			return nil
		},
	}
	addFieldFlags(cmd, k, true)
	return cmd
}

func newEntityEditCmd[T domain.Record[T]](app *App, k kind[T], project *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a " + k.name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openScreen(cmd.Context(), app, k, *project)
			if err != nil {
				return err
			}
			if err := s.OpenForEdit(args[0]); err != nil {
				return fmt.Errorf("%s %q: %w", k.name, args[0], err)
			}
			if err := fillDraft(cmd, app, k, s.Form); err != nil {
				return err
			}
			saved, err := s.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Updated %s %s", k.name, k.label(saved))))
			return nil
		},
	}
	addFieldFlags(cmd, k, false)
	return cmd
}

func newEntityRemoveCmd[T domain.Record[T]](app *App, k kind[T], project *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a " + k.name,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openScreen(cmd.Context(), app, k, *project)
			if err != nil {
				return err
			}
			e, ok := s.Items.Get(args[0])
			if !ok {
				return fmt.Errorf("%s %q: %w", k.name, args[0], domain.ErrNotFound)
			}
			if !yes && app.interactive() {
				confirmed := false
				err := huh.NewForm(huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Delete %s %s?", k.name, k.label(e))).
						Value(&confirmed),
				)).WithTheme(sprintboardHuhTheme()).Run()
				if err != nil {
					return err
				}
				if !confirmed {
					return errCancelled
				}
			}
			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Deleted %s %s", k.name, k.label(e))))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func addFieldFlags[T domain.Record[T]](cmd *cobra.Command, k kind[T], adding bool) {
	for _, f := range k.fields {
		if f.addOnly && !adding {
			continue
		}
		cmd.Flags().String(f.flag, "", f.title)
	}
}

// fillDraft copies the flags the user set into the draft. When none were
// set and a terminal is attached, it asks with a form instead.
func fillDraft[T domain.Record[T]](cmd *cobra.Command, app *App, k kind[T], sess *form.Session[T]) error {
	set := 0
	var err error
	cmd.Flags().Visit(func(fl *pflag.Flag) {
		spec, ok := k.fieldByFlag(fl.Name)
		if !ok || err != nil {
			return
		}
		set++
		err = sess.SetField(spec.field, fl.Value.String())
	})
	if err != nil || set > 0 {
		return err
	}
	if !app.interactive() {
		if sess.Mode() == form.Editing {
			return errors.New("nothing to change: pass at least one field flag")
		}
		return nil
	}
	draft, _ := sess.Draft()
	f, vals := entityForm(k, draft, sess.Mode() == form.Adding)
	if err := f.Run(); err != nil {
		return err
	}
	return applyFormValues(vals, sess)
}

func (k kind[T]) fieldByFlag(name string) (fieldSpec, bool) {
	for _, f := range k.fields {
		if f.flag == name {
			return f, true
		}
	}
	return fieldSpec{}, false
}
