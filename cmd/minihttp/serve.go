package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/logging"
	"github.com/spf13/cobra"
)

func newServeCmd(getConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the server and run until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := newLogger(cfg, false)
			sink := logging.NewSink(logging.WithComponent(logger, "server"))
			app, m := newApp(cfg, sink, logger)

			if err := serveMetrics(ctx, cfg, m, logger, cmd.ErrOrStderr()); err != nil {
				return err
			}

			if err := app.Start(); err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				app.Stop()
			case <-app.Done():
				// the accept loop failed on its own, the reason is logged already
			}

			return nil
		},
	}
}
