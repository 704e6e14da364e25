// Package vaultlog wires a single structured logger for the rest of the
// module, writing to stderr the same way the teacher's cmd package routes
// its own log.Printf/log.Fatalf calls to stderr so stdout stays clean for
// the MCP server's JSON-RPC stream.
package vaultlog

import (
	"log/slog"
	"os"
	"sync"
)

var (
	once    sync.Once
	current *slog.Logger
)

// Default returns the process-wide logger, building it on first use from
// the VAULTDEX_LOG_LEVEL environment variable ("debug", "warn", "error";
// anything else, including unset, is "info").
func Default() *slog.Logger {
	once.Do(func() {
		current = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: levelFromEnv(),
		}))
	})
	return current
}

// SetDefault overrides the process-wide logger, for tests or callers that
// want a different handler (e.g. json output for log aggregation).
func SetDefault(l *slog.Logger) {
	once.Do(func() {})
	current = l
}

func levelFromEnv() slog.Level {
	switch os.Getenv("VAULTDEX_LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
