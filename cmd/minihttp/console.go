package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/internal/console"
	"github.com/indigo-web/minihttp/logging"
	"github.com/indigo-web/minihttp/static"
	"github.com/spf13/cobra"
)

func newConsoleCmd(getConfig func() *config.Config) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Control the server interactively: start, stop, status, records, quit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// the console is the log window, so the structured log stays out of it
			logger := newLogger(cfg, true)
			sink := logging.Multi(
				console.NewSink(cmd.OutOrStdout(), cfg.Logging.Debug),
				logging.NewSink(logging.WithComponent(logger, "server")),
			)
			app, m := newApp(cfg, sink, logger)

			if err := serveMetrics(ctx, cfg, m, logger, cmd.OutOrStdout()); err != nil {
				return err
			}

			if watch {
				go func() {
					if err := static.Watch(ctx, sink, app.Resources()...); err != nil {
						logger.Error().Err(err).Msg("resource watcher")
					}
				}()
			}

			return console.New(app, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "report changes of the served resources")

	return cmd
}
