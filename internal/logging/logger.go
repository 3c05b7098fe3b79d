package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// level orders severities for filtering.
type level uint8

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// parseLevel maps a config string to a level. Unknown names mean info.
func parseLevel(s string) level {
	switch strings.ToLower(s) {
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

// Logger writes level-filtered, timestamped lines to a single file, rotating
// it aside once it grows past the configured size. Safe for concurrent use:
// the TUI event loop, web handlers and session goroutines share one.
type Logger struct {
	mu       sync.Mutex
	path     string
	file     *os.File
	written  int64 // bytes in the current file
	min      level
	maxBytes int64
	mirror   bool // echo every line to stderr
}

// NewLogger opens or creates the log file at path. levelName is one of
// debug, info, warn, error; rotationMB caps the file size before rotation
// (0 disables it). With mirror set every line is also echoed to stderr.
func NewLogger(path, levelName string, rotationMB int, mirror bool) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", path, err)
	}

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	return &Logger{
		path:     path,
		file:     f,
		written:  size,
		min:      parseLevel(levelName),
		maxBytes: int64(rotationMB) << 20,
		mirror:   mirror,
	}, nil
}

// Debug logs a message at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) { l.write(levelDebug, msg, args...) }

// Info logs a message at INFO level.
func (l *Logger) Info(msg string, args ...any) { l.write(levelInfo, msg, args...) }

// Warn logs a message at WARN level.
func (l *Logger) Warn(msg string, args ...any) { l.write(levelWarn, msg, args...) }

// Error logs a message at ERROR level.
func (l *Logger) Error(msg string, args ...any) { l.write(levelError, msg, args...) }

// write is the shared implementation behind Debug/Info/Warn/Error.
func (l *Logger) write(lv level, msg string, args ...any) {
	if lv < l.min {
		return
	}

	text := msg
	if len(args) > 0 {
		text = fmt.Sprintf(msg, args...)
	}
	line := fmt.Sprintf("%s %-5s %s\n",
		time.Now().Format("2006-01-02 15:04:05.000"), lv, text)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}
	if l.maxBytes > 0 && l.written >= l.maxBytes {
		l.rotate()
	}
	if n, err := l.file.WriteString(line); err == nil {
		l.written += int64(n)
	}
	if l.mirror {
		os.Stderr.WriteString(line)
	}
}

// Close closes the underlying log file. Writes after Close are dropped.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
