// Package audit appends one JSON line per scan event so a run can be
// reconstructed after the fact.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Logger struct {
	path  string
	runID string
	mu    sync.Mutex
}

type Event struct {
	Timestamp string            `json:"timestamp"`
	RunID     string            `json:"runId"`
	Archive   string            `json:"archive,omitempty"`
	Stage     string            `json:"stage"`
	Status    string            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// New creates a logger appending to path. An empty path disables logging;
// all methods on the resulting logger are no-ops.
func New(path string) *Logger {
	return &Logger{path: path, runID: uuid.NewString()}
}

// RunID identifies this scan run across all of its events.
func (l *Logger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

func (l *Logger) Log(ev Event) error {
	if l == nil || l.path == "" {
		return nil
	}
	ev.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	ev.RunID = l.runID
	blob, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(blob, '\n'))
	return err
}
