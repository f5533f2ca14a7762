package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/ghostleg/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		maxPar int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve rounds over HTTP until interrupted.

Rounds played through the API are stored in the configured backend, so the
CLI and the server can share one redis or mongo store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.Options{
				Ladder:          cfg.Ladder,
				Render:          c.renderOptions(),
				Seed:            cfg.Seed,
				MaxParticipants: maxPar,
			})
			printInfo("Serving on %s (store: %s)", StyleHighlight.Render(addr), cfg.Store.Backend)
			return srv.ListenAndServe(cmd.Context(), addr, cfg.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVar(&maxPar, "max-participants", server.DefaultMaxParticipants, "largest roster accepted per round")
	return cmd
}
