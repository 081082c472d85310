package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// LevelTrace sits between Info and Warn and is used for per-instruction
// output of the code generator.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs msg at LevelTrace on l.
func Trace(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelTrace, msg, args...)
}

// Discard returns a logger that drops every record. Libraries use it when
// no logger is supplied.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Logger provides printf-style logging for CLI tools on top of slog.
type Logger struct {
	Verbose   bool
	DebugMode bool

	slog *slog.Logger
}

// NewLogger creates a logger writing text records to w. Verbose enables
// info and trace records, debug additionally enables debug records.
// Warnings and errors are always written.
func NewLogger(w io.Writer, verbose, debug bool) *Logger {
	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	})
	return &Logger{Verbose: verbose, DebugMode: debug, slog: slog.New(h)}
}

// Slog returns the underlying structured logger.
func (l *Logger) Slog() *slog.Logger { return l.slog }

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.slog.Info(fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.slog.Debug(fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.slog.Warn(fmt.Sprintf(format, args...))
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.slog.Error(fmt.Sprintf(format, args...))
}
