package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crackfree/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		maxWidth  int
		maxHeight int
		timeout   time.Duration
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve wall counts over HTTP",
		Long: `Serve wall counts over HTTP until interrupted.

Routes:
  GET /healthz
  GET /v1/walls?width=W&height=H[&exact=true]
  GET /v1/layers?width=W[&limit=N]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			f := cmd.Flags()
			if f.Changed("addr") {
				cfg.Addr = addr
			}
			if f.Changed("max-width") {
				cfg.MaxWidth = maxWidth
			}
			if f.Changed("max-height") {
				cfg.MaxHeight = maxHeight
			}
			if f.Changed("timeout") {
				cfg.RequestTimeout = timeout
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			printInfo("Serving on %s", StyleValue.Render(cfg.Addr))
			printDetail("Limits: width ≤ %d, height ≤ %d", cfg.MaxWidth, cfg.MaxHeight)

			srv := server.New(runner, server.Options{
				Addr:           cfg.Addr,
				MaxWidth:       cfg.MaxWidth,
				MaxHeight:      cfg.MaxHeight,
				RequestTimeout: cfg.RequestTimeout,
				Workers:        c.Config.Workers,
			}, loggerFromContext(ctx))
			if err := srv.ListenAndServe(ctx); err != nil {
				return err
			}
			printSuccess("Server stopped")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	f.IntVar(&maxWidth, "max-width", 0, "largest width served (0 = no server limit)")
	f.IntVar(&maxHeight, "max-height", 0, "largest height served (0 = no server limit)")
	f.DurationVar(&timeout, "timeout", 0, "per-request deadline (0 = none)")
	f.BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
