package main

import (
	"fmt"
	"io"
	"os"
)

// Logger prints verbose diagnostics to stderr when enabled.
type Logger struct {
	enabled bool
	out     io.Writer
}

// NewLogger returns a logger writing to stderr, silent unless enabled.
func NewLogger(enabled bool) *Logger {
	return &Logger{
		enabled: enabled,
		out:     os.Stderr,
	}
}

// SetOutput redirects the logger, e.g. to the writer run was given.
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
}

// Log prints a formatted message if verbose mode is enabled.
func (l *Logger) Log(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.out, "[regx] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	if l.enabled {
		fmt.Fprintf(l.out, "[regx] === %s ===\n", name)
	}
}
