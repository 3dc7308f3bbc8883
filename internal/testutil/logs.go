package testutil

import (
	"io"
	"log/slog"
	"testing"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SilenceLogs replaces the default slog logger for the duration of a test.
// Tests that call it must not run in parallel with tests that log.
func SilenceLogs(t testing.TB) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(DiscardLogger())
	t.Cleanup(func() { slog.SetDefault(prev) })
}
