package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Manager is the central owner of every log category used by agentdesk.
// It creates the directory structure under dataDir and hands out the shared
// system logger plus per-call-session loggers and transcript artifacts.
type Manager struct {
	mu sync.Mutex

	// System is the rolling log for startup, config, db and web events.
	System *Logger

	// calls tracks loggers opened via CallLogger so they can all be
	// closed from Close().
	calls map[string]*Logger

	logDir     string
	callsDir   string
	level      string
	rotationMB int
	toConsole  bool
}

// NewManager initialises the logging directory tree under dataDir and opens
// the System logger. The expected layout:
//
//	<dataDir>/logs/system.log
//	<dataDir>/logs/calls/          (created now, populated per session)
func NewManager(dataDir string, level string, rotationMB int, toConsole bool) (*Manager, error) {
	logDir := filepath.Join(dataDir, "logs")
	callsDir := filepath.Join(logDir, "calls")

	for _, dir := range []string{logDir, callsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("logging: mkdir %s: %w", dir, err)
		}
	}

	sysLog, err := NewLogger(filepath.Join(logDir, "system.log"), level, rotationMB, toConsole)
	if err != nil {
		return nil, fmt.Errorf("logging: system logger: %w", err)
	}

	return &Manager{
		System:     sysLog,
		calls:      make(map[string]*Logger),
		logDir:     logDir,
		callsDir:   callsDir,
		level:      level,
		rotationMB: rotationMB,
		toConsole:  toConsole,
	}, nil
}

// CallLogger returns a logger for the given call session ID. If a logger
// for that session has already been opened it is returned directly;
// otherwise a new one is created at logs/calls/call-{sessionID}.log.
func (m *Manager) CallLogger(sessionID string) (*Logger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.calls[sessionID]; ok {
		return l, nil
	}

	name := "call-" + filepath.Base(sessionID) + ".log"
	path := filepath.Join(m.callsDir, name)

	l, err := NewLogger(path, m.level, m.rotationMB, m.toConsole)
	if err != nil {
		return nil, fmt.Errorf("logging: call logger %s: %w", sessionID, err)
	}

	m.calls[sessionID] = l
	return l, nil
}

// WriteTranscript stores a completed session's transcript next to its call
// log as an immutable artifact. The session ID is sanitized to prevent path
// traversal.
func (m *Manager) WriteTranscript(sessionID string, lines []string) error {
	name := filepath.Base(sessionID)
	if name == "." || name == ".." || name == "" {
		return fmt.Errorf("logging: invalid session id")
	}
	path := filepath.Join(m.callsDir, "call-"+name+".transcript.txt")

	var buf []byte
	for _, line := range lines {
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("logging: write transcript %s: %w", sessionID, err)
	}
	return nil
}

// Close shuts down the system logger and every per-call logger.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	if m.System != nil {
		if err := m.System.Close(); err != nil {
			errs = append(errs, fmt.Errorf("logging: close system: %w", err))
		}
	}
	for id, l := range m.calls {
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("logging: close call %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
