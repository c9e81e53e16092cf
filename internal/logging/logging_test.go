package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", "step", "location")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level:\n%s", out)
	}
	for _, want := range []string{"msg=shown", "step=location"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestOpenFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	logger, closer, err := OpenFile(path, "info")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	logger.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "msg=hello") {
		t.Errorf("log file missing record:\n%s", data)
	}
}

func TestDefaultPathUsesXDGState(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	p, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if want := filepath.Join(dir, "immowert", "immowert.log"); p != want {
		t.Errorf("DefaultPath() = %q, want %q", p, want)
	}
}
