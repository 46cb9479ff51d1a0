package logger

import (
	"fmt"
	"strings"
	"sync"
)

// Entry is a single message captured by a Recorder.
type Entry struct {
	Level   string
	Message string
}

// Recorder is a Logger that keeps every message in memory. Tests use it to
// assert on what the watcher reported.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) record(level, format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (r *Recorder) Debugf(format string, args ...interface{}) { r.record("debug", format, args...) }
func (r *Recorder) Infof(format string, args ...interface{})  { r.record("info", format, args...) }
func (r *Recorder) Warnf(format string, args ...interface{})  { r.record("warn", format, args...) }
func (r *Recorder) Errorf(format string, args ...interface{}) { r.record("error", format, args...) }

// Entries returns a copy of the captured messages.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns how many messages at level contain substr.
// An empty level matches every level.
func (r *Recorder) Count(level, substr string) int {
	n := 0
	for _, e := range r.Entries() {
		if (level == "" || e.Level == level) && strings.Contains(e.Message, substr) {
			n++
		}
	}
	return n
}

// Reset drops every captured message.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}
