// Package logsinktest provides an in-memory logsink.Recorder for tests.
package logsinktest

import (
	"strings"
	"sync"

	"github.com/JakeFAU/linkscout/internal/logsink"
)

// Entry is one captured record.
type Entry struct {
	Level   logsink.Level
	Message string
}

// Recorder captures records in memory. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Record implements logsink.Recorder.
func (r *Recorder) Record(level logsink.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: message})
}

// Entries returns a copy of every captured record.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Messages returns the messages recorded at level, in arrival order.
func (r *Recorder) Messages(level logsink.Level) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Contains reports whether any record at level contains substr.
func (r *Recorder) Contains(level logsink.Level, substr string) bool {
	for _, msg := range r.Messages(level) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
