package plan

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLoggerTracesParse(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	if _, err := Parse("Action Chain: get_current_location\nNext Action: get_current_location()\nParameter to Save: coordinates"); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "component=plan.parser") || !strings.Contains(out, "function=get_current_location") {
		t.Errorf("Expected parser trace, got %q", out)
	}
}
