package vm

import (
	"log"
	"os"
)

// Logger is the nil-safe, stdlib-log-based diagnostic sink the Engine writes
// fault and syscall-failure lines to. The core never requires one: an Engine
// with a nil Logger runs silently, and FAULT is still reported through
// Engine.LastError/State regardless of whether anything was logged.
type Logger struct {
	out *log.Logger
}

// NewLogger wraps the standard library's log.Logger with the prefix/flag
// conventions used throughout this module's command-line front end.
func NewLogger(prefix string) *Logger {
	return &Logger{out: log.New(os.Stderr, prefix, log.LstdFlags)}
}

// Faultf records a FAULT-transition or syscall-failure diagnostic line.
func (l *Logger) Faultf(format string, args ...interface{}) {
	if l == nil || l.out == nil {
		return
	}
	l.out.Printf(format, args...)
}
