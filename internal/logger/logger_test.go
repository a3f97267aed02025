package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pinet.log")
	log, err := New(Options{Level: "info", Format: "json", File: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	log.Debug("hidden", "k", 1)
	log.Error("load pins failed", "error", "boom")
	if err := log.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "load pins failed") || !strings.Contains(out, `"error":"boom"`) {
		t.Fatalf("expected error entry in log, got %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry should be filtered at info level, got %s", out)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got.String() != "info" {
		t.Fatalf("expected info, got %s", got)
	}
	if got := parseLevel("warn"); got.String() != "warn" {
		t.Fatalf("expected warn, got %s", got)
	}
}
