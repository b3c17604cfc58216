// Package logging builds the process-wide slog logger shared by the
// ndra-api and ndra-worker binaries.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger emits single-line JSON records tagged with the service
// name, so api and worker logs can be told apart in a merged stream.
func NewJSONLogger(service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler).With("service", service)
}

// parseLevel accepts the LOG_LEVEL env values; anything unrecognized
// falls back to info rather than failing startup.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
