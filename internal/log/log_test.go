package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", in, got, want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", true)

	l.Info("hidden")
	l.Warn("route failed", "component", "action.executor")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d: %s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}
	if rec["msg"] != "route failed" || rec["component"] != "action.executor" {
		t.Errorf("Unexpected record: %v", rec)
	}
}

func TestInitSetsDefault(t *testing.T) {
	l := Init("debug")
	if L() != l {
		t.Error("Expected L to return the installed logger")
	}
	if slog.Default() != l {
		t.Error("Expected slog default to be replaced")
	}
	if !Component("chain").Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Expected debug enabled")
	}
}
