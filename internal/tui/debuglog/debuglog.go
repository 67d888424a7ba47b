// ABOUTME: File-backed debug log for the TUI
// ABOUTME: Session transitions and transport failures land here instead of the screen

package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// sink serializes writes to the log file. A nil file means the log is
// disabled and every write is a no-op.
type sink struct {
	mu   sync.Mutex
	file *os.File
}

var std sink

// Init opens debug.log inside configDir. An empty configDir leaves the
// log disabled.
func Init(configDir string) error {
	std.mu.Lock()
	defer std.mu.Unlock()

	if configDir == "" {
		return nil
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	std.file = f
	return nil
}

// Close closes the log file and disables further writes
func Close() {
	std.mu.Lock()
	defer std.mu.Unlock()

	if std.file != nil {
		std.file.Close()
		std.file = nil
	}
}

func (s *sink) write(level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return
	}
	fmt.Fprintf(s.file, "%s %-5s %s\n", time.Now().Format("2006-01-02 15:04:05"), level, msg)
}

// Log writes a formatted informational line
func Log(format string, args ...any) {
	std.write("INFO", fmt.Sprintf(format, args...))
}

// Error records a failure with the operation that produced it
func Error(op string, err error) {
	if err == nil {
		return
	}
	std.write("ERROR", fmt.Sprintf("%s: %v", op, err))
}

// Session records a session state transition
func Session(authenticated bool) {
	state := "signed out"
	if authenticated {
		state = "signed in"
	}
	std.write("INFO", "session changed: "+state)
}
