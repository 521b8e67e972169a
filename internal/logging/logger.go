package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Level reads the minimum log level from LOG_LEVEL. Unknown or empty
// values fall back to info.
func Level() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: Level(),
	})
	slog.SetDefault(slog.New(handler))
}
