// Package log wraps a single logrus logger for the whole application. The
// TUI owns the terminal, so output goes to a file (or nowhere) and the most
// recent messages are mirrored into a buffer the message pane reads.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// SetFile directs output to the given file, creating parent directories as
// needed.
func SetFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	logger.SetOutput(f)
	return nil
}

// SetDebug lowers the level to debug.
func SetDebug(debug bool) {
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// AddHook registers a logrus hook, used to mirror messages into the UI.
func AddHook(hook logrus.Hook) {
	logger.AddHook(hook)
}

func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// Buffer is a logrus hook that retains the most recent messages for the
// in-app message pane.
type Buffer struct {
	mu    sync.Mutex
	max   int
	lines []Line
}

// Line is one captured log message.
type Line struct {
	Level   logrus.Level
	Message string
}

// NewBuffer creates a buffer keeping at most max lines.
func NewBuffer(max int) *Buffer {
	return &Buffer{max: max}
}

// Levels implements logrus.Hook.
func (b *Buffer) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
	}
}

// Fire implements logrus.Hook.
func (b *Buffer) Fire(entry *logrus.Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, Line{Level: entry.Level, Message: entry.Message})
	if len(b.lines) > b.max {
		b.lines = b.lines[len(b.lines)-b.max:]
	}
	return nil
}

// Lines returns the captured messages, oldest first.
func (b *Buffer) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Line(nil), b.lines...)
}

// Last returns the newest captured message.
func (b *Buffer) Last() (Line, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.lines) == 0 {
		return Line{}, false
	}
	return b.lines[len(b.lines)-1], true
}
