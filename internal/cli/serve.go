package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoquest/internal/activity"
	"github.com/rshade/ecoquest/internal/httpapi"
	"github.com/rshade/ecoquest/internal/logging"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serves the EcoQuest JSON API over HTTP until interrupted.

Requests identify their user with the X-EcoQuest-User header; admin
endpoints additionally require X-EcoQuest-Role: admin.`,
		Example: `  ecoquest serve
  ecoquest serve --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, closeStore, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			return a.serve(ctx, cmd, svc, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *app) serve(ctx context.Context, cmd *cobra.Command, svc *activity.Service, addr string) error {
	logger := logging.FromContext(ctx)
	srv := httpapi.NewServer(svc, httpapi.Options{
		Logger: *logger,
		Audit:  logging.AuditLoggerFromContext(ctx),
	})

	cmd.PrintErrf("Serving EcoQuest API on http://%s (Ctrl+C to stop)\n", addr)
	return srv.ListenAndServe(ctx, addr, a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout)
}
