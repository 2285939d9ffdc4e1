package cli

import (
	"crypto/rand"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr, dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development API server over SQLite",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config.Server
			if addr == "" {
				addr = cfg.Addr
			}
			if dbPath == "" {
				dbPath = cfg.DB
			}

			secret := []byte(cfg.Secret)
			if len(secret) == 0 {
				secret = make([]byte, 32)
				if _, err := rand.Read(secret); err != nil {
					return fmt.Errorf("generate token secret: %w", err)
				}
				app.Logger.Warn().Msg("server.secret not set; tokens will not survive a restart")
			}

			database, err := db.OpenDB(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer database.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.NewServices(database, secret, cfg.TokenTTL, app.Logger), app.Logger)
			return srv.Run(ctx, addr, func(bound string) {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Listening on http://"+bound+"/api")+" "+formatter.Dim("("+dbPath+")"))
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default from server.db)")
	return cmd
}
