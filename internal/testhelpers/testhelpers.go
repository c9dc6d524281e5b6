// Package testhelpers contains logging plumbing shared by tests.
package testhelpers

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/myrjola/liftcalc/internal/logging"
)

// NewLogger returns a debug level logger writing to logSink, usually a [NewWriter].
func NewLogger(logSink io.Writer) *slog.Logger {
	return logging.NewTextLogger(logSink, slog.LevelDebug, nil)
}

// Writer forwards writes to t.Log so that logs only show up for failing tests.
type Writer struct {
	t    *testing.T
	mu   sync.Mutex
	done bool
}

// NewWriter creates a Writer bound to t.
func NewWriter(t *testing.T) *Writer {
	w := &Writer{t: t, mu: sync.Mutex{}, done: false}
	t.Cleanup(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.done = true
	})
	return w
}

// Write implements io.Writer.
//
// Writes after the test has finished are dropped since t.Log panics then. Background goroutines such as the
// database optimizer may still log while the test shuts down.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return len(p), nil
	}
	if line := strings.TrimSuffix(string(p), "\n"); line != "" {
		w.t.Log(line)
	}
	return len(p), nil
}
