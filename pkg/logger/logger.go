// Package logger builds the application's structured loggers.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a [log.Logger] writing to w with timestamps enabled. The writer defaults to [os.Stderr].
//
// level is parsed with [log.ParseLevel]; an unknown level falls back to info.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{ReportTimestamp: true, Prefix: "foodhelper"})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// With creates a child logger with the key-value pairs added to every entry.
func With(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
