package commands

import (
	"github.com/spf13/cobra"

	"github.com/BrianJCal99/project-bunnings/internal/server"
)

// serve: expose stored runs over HTTP until interrupted.
func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored runs and aggregates over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Addr = addr
			}
			client, err := connectMongo(cmd.Context())
			if err != nil {
				return err
			}
			if !cfg.AuthEnabled() {
				cfg.ServerLog.Printf("warning: AUTH_JWT_SECRET is not set; the API is unauthenticated")
			}
			return server.New(cfg, client).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default HTTP_ADDR)")
	return cmd
}
