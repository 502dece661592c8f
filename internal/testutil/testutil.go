// Package testutil provides test helpers shared across packages.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/opmodel/packtask/internal/output"
)

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// Chdir switches the working directory for the duration of the test.
func Chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Logf("warning: failed to restore working directory: %v", err)
		}
	})
}

// LogBuffer is a logger writing into a buffer.
type LogBuffer struct {
	*output.Logger
	buf *safeBuffer
}

// NewLogBuffer returns a logger with the given prefix whose output is kept
// for inspection.
func NewLogBuffer(prefix string) *LogBuffer {
	buf := &safeBuffer{}
	return &LogBuffer{Logger: output.NewLogger(buf, prefix), buf: buf}
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	return b.buf.String()
}

// Lines returns the logged lines without the trailing empty line.
func (b *LogBuffer) Lines() []string {
	s := strings.TrimRight(b.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Count returns how many logged lines contain substr.
func (b *LogBuffer) Count(substr string) int {
	n := 0
	for _, line := range b.Lines() {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// Reset discards the logged output.
func (b *LogBuffer) Reset() {
	b.buf.Reset()
}

// safeBuffer is a bytes.Buffer usable from callback goroutines.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func (s *safeBuffer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Reset()
}
