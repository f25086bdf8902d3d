// Package logging configures orca's structured logger. The teacher and the
// original source both print plain diagnostic lines to stdout/stderr
// ("PARENT: Forking...", "INIT: Inside parent stage..."); here the
// orchestrator reports non-fatal problems through slog.Warn instead, kept
// human-readable since orca runs interactively in a terminal rather than
// shipping logs to a collector.
package logging

import (
	"log/slog"
	"os"
)

// New returns a logger that writes human-readable lines to stderr, leaving
// stdout free for the container's own pseudoterminal output. verbose lowers
// the minimum level to Debug; otherwise only Info and above are emitted.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
