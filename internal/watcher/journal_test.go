package watcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/dirwatcher/internal/store"
)

// newTestStore creates an in-memory SQLite store for tests and registers
// cleanup with t.Cleanup so callers don't need explicit defer.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: open: %v", err)
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		t.Fatalf("newTestStore: schema: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestAttachJournal_RecordsFindingsAndEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	writeFile(t, path, "x\nFOO\n")

	st := newTestStore(t)
	p, _, _ := newTestPoller(t, dir)
	p.AttachJournal(st)

	p.RunCycle()
	appendFile(t, path, "FOO\n")
	p.RunCycle()
	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	p.RunCycle()

	findings, err := st.ListFindings(store.FindingFilter{Path: path})
	if err != nil {
		t.Fatalf("ListFindings() error: %v", err)
	}
	if len(findings) != 2 || findings[0].Line != 2 || findings[1].Line != 3 {
		t.Errorf("journal findings = %v, want lines 2 and 3", findings)
	}

	events, err := st.ListWatchEvents("a.txt")
	if err != nil {
		t.Fatalf("ListWatchEvents() error: %v", err)
	}
	if len(events) != 2 || events[0].EventType != store.EventAdded || events[1].EventType != store.EventRemoved {
		t.Fatalf("journal events = %v, want added then removed", events)
	}
	if events[0].Directory != dir {
		t.Errorf("event directory = %q, want %q", events[0].Directory, dir)
	}
}

func TestAttachJournal_WriteFailureIsLogged(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "FOO\n")

	// No schema: every insert fails.
	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	p, rec, _ := newTestPoller(t, dir)
	p.AttachJournal(st)

	stats := p.RunCycle()
	if stats.Err != nil {
		t.Fatalf("journal failure must not fail the cycle: %v", stats.Err)
	}
	if stats.Findings != 1 {
		t.Errorf("Findings = %d, want 1", stats.Findings)
	}
	if rec.Count("error", "journal:") != 2 {
		t.Errorf("want 2 journal errors (event + finding), got %v", rec.Entries())
	}
}
