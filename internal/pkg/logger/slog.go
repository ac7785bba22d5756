// internal/pkg/logger/slog.go
package logger

import (
	"log/slog"
	"os"
)

// NewSlog builds a plain *slog.Logger without the context-enrichment
// pipeline. Used by short-lived commands (seeder, one-off tools) that do
// not carry request context.
func NewSlog(level string, format string) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
