package observability

import (
	"io"
	"log/slog"
	"os"
)

// The TUI owns stdout, so logs go to a file. Until Setup runs, everything
// is discarded.
var logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// Setup points the global logger at the given file. Best-effort: on open
// failure the discard logger stays in place and the error is returned for
// the caller to ignore or report.
func Setup(path string, debug bool) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return nil
}

func Logger() *slog.Logger {
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}
