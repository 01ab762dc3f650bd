package logging

import (
	"io"
	"os"

	"github.com/indigo-web/minihttp/config"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
)

// NewLogger creates a new zerolog logger with the specified debug level
func NewLogger(debug bool, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stderr
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewWriter picks the structured log destination. With a log file configured, logs go to a
// rotating file (and additionally to stderr in debug mode). Otherwise they go to stderr,
// unless quiet is set, in which case only debug mode keeps them.
func NewWriter(cfg config.Logging, quiet bool) io.Writer {
	if len(cfg.File) > 0 {
		fileLogger := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}

		if cfg.Debug {
			return io.MultiWriter(fileLogger, os.Stderr)
		}

		return fileLogger
	}

	if quiet && !cfg.Debug {
		return io.Discard
	}

	return os.Stderr
}

// WithComponent returns a logger with the component field set
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
