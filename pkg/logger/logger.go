// Package logger builds the structured console logger shared by the
// experiment binaries.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a console logger at the given level. An empty or unknown level
// name falls back to info. The experiments are interactive CLI runs, so
// output is always human-readable console format on stdout.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}

	return zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
