package logging

import (
	"os"
	"path/filepath"
	"sort"
	"time"
)

// keepBackups is how many rotated files survive pruning.
const keepBackups = 5

// rotate moves the full log aside under a timestamp suffix, opens a fresh
// file at the original path and prunes the oldest backups. Must be called
// with l.mu held; on any failure the logger keeps writing to the old file
// so no lines are dropped.
func (l *Logger) rotate() {
	backup := l.path + "." + time.Now().Format("20060102-150405.000")
	if err := os.Rename(l.path, backup); err != nil {
		return
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		// The rename already happened; the old handle still points at the
		// renamed file, which is better than losing lines.
		return
	}

	old := l.file
	l.file = f
	l.written = 0
	old.Close()

	l.pruneBackups()
}

// pruneBackups deletes all but the newest keepBackups rotated files. The
// timestamp suffix makes lexical order chronological.
func (l *Logger) pruneBackups() {
	backups, err := filepath.Glob(l.path + ".*")
	if err != nil || len(backups) <= keepBackups {
		return
	}
	sort.Strings(backups)
	for _, stale := range backups[:len(backups)-keepBackups] {
		os.Remove(stale)
	}
}
