package main

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/indigo-web/minihttp"
	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/internal/metrics"
	"github.com/indigo-web/minihttp/logging"
	"github.com/indigo-web/minihttp/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type options struct {
	configPath string
	host       string
	port       uint16
	debug      bool
	crlf       bool
	metrics    string
}

// NewRootCmd builds the command tree. Every subcommand shares the configuration flags.
func NewRootCmd() *cobra.Command {
	var opts options
	var cfg *config.Config

	root := &cobra.Command{
		Use:           version.AppName,
		Short:         version.Description,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err = opts.load(cmd)
			return err
		},
	}

	opts.register(root.PersistentFlags())

	getConfig := func() *config.Config {
		return cfg
	}

	root.AddCommand(
		newServeCmd(getConfig),
		newConsoleCmd(getConfig),
		newVersionCmd(),
	)

	return root
}

func (o *options) register(flags *pflag.FlagSet) {
	flags.StringVarP(&o.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&o.host, "host", "", "address to listen on (overrides net.host)")
	flags.Uint16VarP(&o.port, "port", "p", 0, "port to listen on (overrides net.port)")
	flags.BoolVarP(&o.debug, "debug", "d", false, "enable debug logging")
	flags.BoolVar(&o.crlf, "crlf", false, "terminate response lines with CRLF")
	flags.StringVar(&o.metrics, "metrics", "", "address to expose Prometheus metrics on")
}

// load reads the config file, if any, and applies the flags that were set explicitly.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("host") {
		cfg.NET.Host = o.host
	}
	if changed("port") {
		cfg.NET.Port = o.port
	}
	if changed("debug") {
		cfg.Logging.Debug = o.debug
	}
	if changed("crlf") {
		cfg.HTTP.CRLF = o.crlf
	}
	if changed("metrics") {
		cfg.Metrics.Addr = o.metrics
	}

	return cfg, cfg.Validate()
}

// newLogger returns the structured logger. It writes to stderr unless quiet, in which case
// only the log file, if any, receives it.
func newLogger(cfg *config.Config, quiet bool) zerolog.Logger {
	return logging.NewLogger(cfg.Logging.Debug, logging.NewWriter(cfg.Logging, quiet))
}

func newApp(cfg *config.Config, sink logging.Sink, logger zerolog.Logger) (*minihttp.App, *metrics.Metrics) {
	m := metrics.New()
	return minihttp.New(cfg, sink, logger, m), m
}

// serveMetrics exposes the metrics in the background if an address is configured.
func serveMetrics(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger, out io.Writer) error {
	if cfg.Metrics.Addr == "" {
		return nil
	}

	l, err := net.Listen("tcp", cfg.Metrics.Addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	fmt.Fprintf(out, "Metrics are available at http://%s/metrics\n", l.Addr())

	go func() {
		if err := m.Serve(ctx, l); err != nil {
			logger.Error().Err(err).Msg("metrics server")
		}
	}()

	return nil
}
