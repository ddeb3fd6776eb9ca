// Package logging configures the zerolog loggers shared by the photomap
// engine, the CLI and the photo service.
//
// Until the CLI calls SetDefault the process logger is built from
// PHOTOMAP_LOG_LEVEL and PHOTOMAP_LOG_FORMAT:
//
//	log := logging.Default()
//	log.Info().Str("resource", "markers").Msg("Refreshing")
//
//	ctx := logging.WithLogger(context.Background(), log)
//	ctx = logging.WithMarker(ctx, "m1")
//	logging.FromContext(ctx).Debug().Msg("Committing title")
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = NewLoggerFromConfig(envConfig())

// envConfig reads the environment the same way the CLI reads its config
// keys, so library users get matching output without the CLI.
func envConfig() *Config {
	cfg := DefaultConfig()
	if level := os.Getenv("PHOTOMAP_LOG_LEVEL"); level != "" {
		cfg.Level = level
	} else if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if format := os.Getenv("PHOTOMAP_LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	return cfg
}

// Default returns the process logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process logger, including zerolog's global one.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Debug starts a debug event on the process logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts an info event on the process logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warning event on the process logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
