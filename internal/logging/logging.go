// Package logging holds the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
)

var level = new(slog.LevelVar)

// logs go to stderr so they never interleave with command output.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

func Logger() *slog.Logger {
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// SetVerbose lowers the log level to debug.
func SetVerbose(on bool) {
	if on {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}
