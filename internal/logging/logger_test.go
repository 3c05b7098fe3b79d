package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	l, err := NewLogger(path, "warn", 1, false)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	l.Debug("debug line")
	l.Info("info line")
	l.Warn("warn line %d", 1)
	l.Error("error line")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "debug line") || strings.Contains(content, "info line") {
		t.Errorf("below-threshold lines written:\n%s", content)
	}
	if !strings.Contains(content, "warn line 1") || !strings.Contains(content, "error line") {
		t.Errorf("expected lines missing:\n%s", content)
	}
	if !strings.Contains(content, "WARN") || !strings.Contains(content, "ERROR") {
		t.Errorf("level tag missing:\n%s", content)
	}
}

func TestLoggerRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotate.log")
	l, err := NewLogger(path, "info", 1, false)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.maxBytes = 256

	for i := 0; i < 32; i++ {
		l.Info("filler line %02d to push the file past the rotation threshold", i)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	backups, err := filepath.Glob(path + ".*")
	if err != nil {
		t.Fatalf("glob backups: %v", err)
	}
	if len(backups) == 0 {
		t.Fatal("no rotated backups created")
	}
	if len(backups) > keepBackups {
		t.Fatalf("%d backups kept, want at most %d", len(backups), keepBackups)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("current log missing after rotation: %v", err)
	}
	if info.Size() >= 256+128 {
		t.Fatalf("current log grew past the threshold: %d bytes", info.Size())
	}
}

func TestManagerCallLoggersAndTranscript(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir, "info", 1, false)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	a, err := m.CallLogger("session-a")
	if err != nil {
		t.Fatalf("CallLogger: %v", err)
	}
	b, err := m.CallLogger("session-a")
	if err != nil {
		t.Fatalf("CallLogger again: %v", err)
	}
	if a != b {
		t.Error("same session produced two loggers")
	}
	a.Info("call started")

	if err := m.WriteTranscript("session-a", []string{"system: Connected", "You: hello"}); err != nil {
		t.Fatalf("WriteTranscript: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "logs", "calls", "call-session-a.transcript.txt"))
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if string(data) != "system: Connected\nYou: hello\n" {
		t.Errorf("transcript content = %q", string(data))
	}

	if err := m.WriteTranscript("..", nil); err == nil {
		t.Error("path traversal session id accepted")
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
