// Package logging provides the leveled, colourised logger that the CLI
// constructs once and hands to every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Level controls which messages a Logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns a string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel converts a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger writes leveled messages to an io.Writer.
// A nil *Logger is valid and discards everything.
type Logger struct {
	out    io.Writer
	level  Level
	prefix string

	debug *color.Color
	warn  *color.Color
	err   *color.Color
}

// New creates a logger writing to out. A nil out means os.Stderr.
func New(out io.Writer, level Level) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		out:   out,
		level: level,
		debug: color.New(color.Faint),
		warn:  color.New(color.FgYellow),
		err:   color.New(color.FgRed),
	}
}

// Discard returns a logger that drops every message.
func Discard() *Logger {
	return New(io.Discard, LevelError+1)
}

// With returns a copy of the logger whose messages carry the given prefix,
// e.g. "[git]".
func (l *Logger) With(prefix string) *Logger {
	if l == nil {
		return nil
	}
	child := *l
	if child.prefix != "" {
		child.prefix = child.prefix + " " + prefix
	} else {
		child.prefix = prefix
	}
	return &child
}

// Level returns the minimum level that is emitted.
func (l *Logger) Level() Level {
	if l == nil {
		return LevelError + 1
	}
	return l.level
}

// Enabled reports whether messages at level are emitted.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && level >= l.level
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logf(LevelDebug, l.colorFor(LevelDebug), format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.logf(LevelInfo, nil, format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logf(LevelWarn, l.colorFor(LevelWarn), format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logf(LevelError, l.colorFor(LevelError), format, args...)
}

func (l *Logger) colorFor(level Level) *color.Color {
	if l == nil {
		return nil
	}
	switch level {
	case LevelDebug:
		return l.debug
	case LevelWarn:
		return l.warn
	case LevelError:
		return l.err
	}
	return nil
}

func (l *Logger) logf(level Level, c *color.Color, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = l.prefix + " " + msg
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}

	if c == nil {
		fmt.Fprint(l.out, msg)
		return
	}
	c.Fprint(l.out, msg)
}
