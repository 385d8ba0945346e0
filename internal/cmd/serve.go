package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravitrone/gerby-reader/internal/render"
	"github.com/gravitrone/gerby-reader/internal/server"
)

// ServeCmd returns the `gerby serve` command.
func ServeCmd(g *Globals) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered pages over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if listen != "" {
				cfg.Listen = listen
			}
			renderer, err := render.New(cfg.RendererOptions()...)
			if err != nil {
				return err
			}
			srv := server.New(g.Client(cfg), renderer,
				server.WithLogger(logger),
				server.WithMathJaxURL(cfg.MathJaxURL),
			)

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Debug("upstream", zap.String("api", cfg.APIURL))
			if err := srv.ListenAndServe(ctx, cfg.Listen); err != nil {
				return err
			}
			logger.Info("stopped")
			return nil
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config)")
	return cmd
}
