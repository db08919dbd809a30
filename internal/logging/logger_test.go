package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriterLogger_JSONWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "debug").WithComponent("evaluator").With("filter_id", "f1")

	l.Warn("relationship not legal", "relationship", "is")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "relationship not legal" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["component"] != "evaluator" || entry["filter_id"] != "f1" || entry["relationship"] != "is" {
		t.Errorf("missing attributes: %v", entry)
	}
}

func TestWriterLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "warn")

	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below WARN, got %q", buf.String())
	}

	l.Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected ERROR entry, got %q", buf.String())
	}
}

func TestNewLogger_File(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := NewLogger(dir, "info")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	l.Info("hello", "rows", 3)
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// closing twice is fine
	if err := l.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"rows":3`) {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	l.Error("discarded")
	if err := l.Close(); err != nil {
		t.Errorf("Close on nop logger: %v", err)
	}
}
