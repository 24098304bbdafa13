package cli

import (
	"io"
	"log/slog"
)

// newLogger writes structured logs to w. Only warnings show by default so
// that a plain run prints nothing but records.
func newLogger(w io.Writer, verbose bool, runID string) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("run_id", runID)
}
