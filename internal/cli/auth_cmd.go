package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintboard/internal/auth"
	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var cred domain.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptCredentials(app, &cred, false); err != nil {
				return err
			}
			res, err := app.Anonymous().Login(cmd.Context(), cred.Email, cred.Password)
			if err != nil {
				return err
			}
			return saveSession(cmd, app, res)
		},
	}

	cmd.Flags().StringVar(&cred.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&cred.Password, "password", "", "Account password")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var cred domain.Credentials

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptCredentials(app, &cred, true); err != nil {
				return err
			}
			res, err := app.Anonymous().Register(cmd.Context(), cred)
			if err != nil {
				return err
			}
			return saveSession(cmd, app, res)
		},
	}

	cmd.Flags().StringVar(&cred.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&cred.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&cred.Password, "password", "", "Account password")
	return cmd
}

// promptCredentials asks for whatever the flags left out. Without a
// terminal missing values are an error.
func promptCredentials(app *App, cred *domain.Credentials, withName bool) error {
	if cred.Email != "" && cred.Password != "" {
		return nil
	}
	if !app.interactive() {
		return errors.New("--email and --password are required")
	}
	var fields []huh.Field
	if withName {
		fields = append(fields, huh.NewInput().Title("Name").Value(&cred.Name))
	}
	fields = append(fields,
		huh.NewInput().Title("Email").Value(&cred.Email).Validate(required("email")),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&cred.Password).Validate(required("password")),
	)
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(sprintboardHuhTheme()).Run()
}

func saveSession(cmd *cobra.Command, app *App, res domain.AuthResult) error {
	err := app.Sessions.Save(auth.Session{
		APIURL:  app.Config.APIURL,
		Token:   res.Token,
		User:    res.User,
		SavedAt: app.Now().UTC(),
	})
	if err != nil {
		return err
	}
	app.forget()
	app.Logger.Info().Str("user", res.User.ID).Msg("session_saved")
	fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Logged in as %s <%s>", res.User.Name, res.User.Email)))
	return nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Clear(); err != nil {
				return err
			}
			app.forget()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Sessions.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			claims, err := auth.ParseClaims(sess.Token)
			if err != nil {
				app.Logger.Debug().Err(err).Msg("unreadable token claims")
				fmt.Fprintln(out, formatter.FormatUser(sess.User, sess.APIURL, nil))
				return nil
			}
			var expires *time.Time
			if claims.ExpiresAt != nil {
				expires = &claims.ExpiresAt.Time
			}
			fmt.Fprintln(out, formatter.FormatUser(sess.User, sess.APIURL, expires))
			if claims.Expired(app.Now()) {
				fmt.Fprintln(out, formatter.Error(ErrSessionExpired.Error()))
			}
			return nil
		},
	}
}
