// Package testutil provides shared fixtures for upack tests.
package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// WriteProject materializes files under a fresh temp root. Keys are
// slash-separated relative paths; parent directories are created as
// needed. Returns the absolute root path.
func WriteProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

// Meta returns a minimal metadata sidecar body declaring guid.
func Meta(guid string) string {
	return "fileFormatVersion: 2\nguid: " + guid + "\n"
}

// RefLine returns one serialized reference line pointing at guid.
func RefLine(fileID int64, guid string) string {
	return fmt.Sprintf("  m_Target: {fileID: %d, guid: %s, type: 2}\n", fileID, guid)
}

// LogRecorder is a slog.Handler that captures records so tests can
// assert on emitted warnings.
type LogRecorder struct {
	mu       sync.Mutex
	messages []string
}

// NewLogRecorder returns an empty recorder.
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{}
}

// Logger returns a logger that records every message.
func (r *LogRecorder) Logger() *slog.Logger {
	return slog.New(r)
}

// Messages returns a copy of the recorded messages in order.
func (r *LogRecorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Has reports whether any recorded message contains substr.
func (r *LogRecorder) Has(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.messages {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func (r *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *LogRecorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, rec.Message)
	return nil
}

func (r *LogRecorder) WithAttrs([]slog.Attr) slog.Handler { return r }

func (r *LogRecorder) WithGroup(string) slog.Handler { return r }
