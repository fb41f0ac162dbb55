// Package logger records viewer events (loads, exports, applied actions,
// failures) to memory and disk. The in-memory lines feed the on-screen HUD;
// the file survives the session.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogFilePath is the event log location, relative to the working directory.
const LogFilePath = "logs/carmod.txt"

// Logger keeps recent lines in memory and appends each to the log file.
type Logger struct {
	mu    sync.Mutex
	lines []string
}

// New returns a Logger and ensures the logs directory exists.
func New() *Logger {
	_ = os.MkdirAll(filepath.Dir(LogFilePath), 0755)
	return &Logger{}
}

// Log records a formatted line, prefixed with a wall-clock timestamp.
func (l *Logger) Log(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	stamped := "[" + time.Now().Format("2006-01-02 15:04:05") + "] " + line

	l.mu.Lock()
	l.lines = append(l.lines, stamped)
	l.mu.Unlock()

	f, err := os.OpenFile(LogFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

// Last returns the most recent line, or "" when nothing was logged yet.
// The HUD shows this as its status message.
func (l *Logger) Last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lines) == 0 {
		return ""
	}
	return l.lines[len(l.lines)-1]
}

// Lines returns a copy of all recorded lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
