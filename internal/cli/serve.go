package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cornerstone/pkg/engine"
	"github.com/matzehuels/cornerstone/pkg/server"
)

// serveCommand runs the HTTP API for the active catalog.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the placement API over HTTP",
		Long: `Serve the active catalog over HTTP until interrupted.

Endpoints:
  GET  /healthz
  GET  /v1/catalog
  GET  /v1/positions
  POST /v1/place     {"suites": ["a", "d"]}
  POST /v1/layout    {"suites": ["a", "d"]}
  GET  /v1/verify    ?min=2&max=3&refresh=true`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			srv := server.New(server.Options{
				Runner:          runner,
				Catalog:         cat,
				Logger:          c.Logger,
				Verify:          engine.VerifyOptions{MinSize: cfg.Verify.MinSize, MaxSize: cfg.Verify.MaxSize},
				ReadTimeout:     cfg.Server.ReadTimeout.Duration,
				WriteTimeout:    cfg.Server.WriteTimeout.Duration,
				ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration,
			})
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
