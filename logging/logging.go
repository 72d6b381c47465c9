// Package logging configures the process-wide zerolog logger:
// human-readable console output in development, JSON everywhere else.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger for the given environment and level name.
// Unknown level names fall back to info.
func New(env, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(lvl).With().Timestamp().Logger()
}
