package logging

import (
	"log/slog"
	"testing"
)

func TestNewReturnsUsableLogger(t *testing.T) {
	l := New(false)
	if l == nil {
		t.Fatalf("expected non-nil logger")
	}
	if !l.Enabled(nil, slog.LevelInfo) {
		t.Fatalf("expected info level enabled by default")
	}
	if l.Enabled(nil, slog.LevelDebug) {
		t.Fatalf("expected debug level disabled by default")
	}
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	l := New(true)
	if !l.Enabled(nil, slog.LevelDebug) {
		t.Fatalf("expected debug level enabled in verbose mode")
	}
}
