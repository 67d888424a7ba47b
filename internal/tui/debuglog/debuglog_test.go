// ABOUTME: Tests for the file-backed debug log
// ABOUTME: Verifies the line format and the disabled no-op mode

package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLines(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Log("starting up, width=%d", 100)
	Error("fetch profile", os.ErrDeadlineExceeded)
	Error("fetch profile", nil)
	Session(true)
	Session(false)
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (nil error skipped), got %d:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], "INFO") || !strings.Contains(lines[0], "width=100") {
		t.Errorf("unexpected info line %q", lines[0])
	}
	if !strings.Contains(lines[1], "ERROR") || !strings.Contains(lines[1], "fetch profile") {
		t.Errorf("unexpected error line %q", lines[1])
	}
	if !strings.Contains(lines[2], "signed in") || !strings.Contains(lines[3], "signed out") {
		t.Errorf("unexpected session lines %q %q", lines[2], lines[3])
	}
}

func TestDisabledWithoutConfigDir(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init with empty dir failed: %v", err)
	}
	defer Close()

	// Writes must not panic while disabled
	Log("ignored")
	Session(true)
}

func TestWritesAfterCloseAreNoOps(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Log("before close")
	Close()
	Log("after close")

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if strings.Contains(string(data), "after close") {
		t.Error("expected no writes after Close")
	}
}
