// Package logger provides the leveled logging sink used by dirwatcher.
//
// Messages are written one per line in the form
//
//	16-Oct-26 18:48:00 - dirwatcher - INFO - a.txt added to the watchlist
//
// Level names are colourised when the destination is a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// timeLayout mirrors the "%d-%b-%y %H:%M:%S" layout operators already grep for.
const timeLayout = "02-Jan-06 15:04:05"

// Logger is the sink the watcher core writes to.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// ConsoleLogger writes leveled messages to a writer. It is safe for
// concurrent use; the signal handler goroutine and the poll loop share it.
type ConsoleLogger struct {
	writer      io.Writer
	name        string
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	now         func() time.Time
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: debug, info, warn, error (case-insensitive). Anything else
// falls back to "info".
func NewConsoleLogger(writer io.Writer, name, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		name:        name,
		logLevel:    NormalizeLevel(logLevel),
		colorOutput: isTerminal(writer),
		now:         time.Now,
	}
}

// isTerminal reports whether w is a TTY that should receive colour codes.
// NO_COLOR is honoured through color.NoColor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NormalizeLevel lowercases level and maps unknown values to "info".
// "warning" is accepted as an alias for "warn".
func NormalizeLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "debug", "info", "warn", "error":
		return normalized
	case "warning":
		return "warn"
	}
	return "info"
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func logLevelToInt(level string) int {
	switch level {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// Debugf logs at debug level.
func (cl *ConsoleLogger) Debugf(format string, args ...interface{}) {
	cl.logf("debug", format, args...)
}

// Infof logs at info level.
func (cl *ConsoleLogger) Infof(format string, args ...interface{}) {
	cl.logf("info", format, args...)
}

// Warnf logs at warning level.
func (cl *ConsoleLogger) Warnf(format string, args ...interface{}) {
	cl.logf("warn", format, args...)
}

// Errorf logs at error level.
func (cl *ConsoleLogger) Errorf(format string, args ...interface{}) {
	cl.logf("error", format, args...)
}

func (cl *ConsoleLogger) logf(level, format string, args ...interface{}) {
	if cl.writer == nil || !cl.shouldLog(level) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(cl.writer, "%s - %s - %s - %s\n",
		cl.now().Format(timeLayout), cl.name, cl.levelLabel(level), msg)
}

// levelLabel returns the upper-case level name, coloured when writing to a TTY.
func (cl *ConsoleLogger) levelLabel(level string) string {
	label := strings.ToUpper(level)
	if level == "warn" {
		label = "WARNING"
	}
	if !cl.colorOutput {
		return label
	}
	switch level {
	case "debug":
		return color.New(color.FgHiBlack).Sprint(label)
	case "warn":
		return color.New(color.FgYellow).Sprint(label)
	case "error":
		return color.New(color.FgRed, color.Bold).Sprint(label)
	default:
		return color.New(color.FgCyan).Sprint(label)
	}
}

// Nop discards every message.
type Nop struct{}

func (Nop) Debugf(string, ...interface{}) {}
func (Nop) Infof(string, ...interface{})  {}
func (Nop) Warnf(string, ...interface{})  {}
func (Nop) Errorf(string, ...interface{}) {}
