package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

// newTestLogger returns a Logger that writes JSON into buf.
func newTestLogger(buf *bytes.Buffer, level slog.Level) *Logger {
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level})
	return NewWithHandler(h)
}

func TestLoggerModule(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, slog.LevelDebug)
	child := l.Module("chain")

	child.Info("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v (raw: %s)", err, buf.String())
	}
	if entry["module"] != "chain" {
		t.Fatalf("module = %v, want %q", entry["module"], "chain")
	}
	if entry["msg"] != "hello" {
		t.Fatalf("msg = %v, want %q", entry["msg"], "hello")
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, slog.LevelDebug)
	child := l.With("height", 42)

	child.Warn("reorg detected")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v (raw: %s)", err, buf.String())
	}
	if entry["height"] != float64(42) {
		t.Fatalf("height = %v, want 42", entry["height"])
	}
	if entry["level"] != "WARN" {
		t.Fatalf("level = %v, want WARN", entry["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, slog.LevelWarn)
	l.Debug("should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("debug message should have been filtered out, got: %s", buf.String())
	}
	l.Error("should be kept")
	if buf.Len() == 0 {
		t.Fatal("error message should have been logged")
	}
}

func TestSetDefaultAndPackageLevelFuncs(t *testing.T) {
	var buf bytes.Buffer
	original := Default()
	defer SetDefault(original)

	SetDefault(newTestLogger(&buf, slog.LevelDebug))
	Info("package level message")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v (raw: %s)", err, buf.String())
	}
	if entry["msg"] != "package level message" {
		t.Fatalf("msg = %v, want %q", entry["msg"], "package level message")
	}
}
