package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_EmptyPathIsNop(t *testing.T) {
	logger, err := New("", "info", false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Error("no-op logger should not enable any level")
	}
}

func TestNew_WritesJSONRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.log")

	logger, err := New(path, "info", false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	logger.Debug("hidden at info level")
	logger.Info("step finished")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d:\n%s", len(lines), data)
	}

	var rec map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["msg"] != "step finished" {
		t.Errorf("msg = %v", rec["msg"])
	}
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.log")

	logger, err := New(path, "error", true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	logger.Debug("visible")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "visible") {
		t.Errorf("debug record missing with verbose set:\n%s", data)
	}
}

func TestNew_BadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.log")
	if _, err := New(path, "loud", false); err == nil {
		t.Error("expected error for unknown level")
	}
}
