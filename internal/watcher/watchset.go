package watcher

import (
	"sort"
	"strings"
)

// TrackedFile is a file currently being scanned and the index of its first
// unread line.
type TrackedFile struct {
	Name   string
	Offset int
}

// WatchSet maps tracked file names to their scan offsets. It is owned by a
// single Poller and is not safe for concurrent use.
type WatchSet struct {
	offsets map[string]int
}

// NewWatchSet creates an empty WatchSet.
func NewWatchSet() *WatchSet {
	return &WatchSet{offsets: make(map[string]int)}
}

// Reconcile brings the set in line with a directory listing. Names ending in
// extension that are not yet tracked are added at offset 0; tracked names
// missing from listing are dropped. The returned slices are sorted and only
// describe what changed.
func (ws *WatchSet) Reconcile(listing []string, extension string) (added, removed []string) {
	present := make(map[string]struct{}, len(listing))
	for _, name := range listing {
		present[name] = struct{}{}
		if !strings.HasSuffix(name, extension) {
			continue
		}
		if _, ok := ws.offsets[name]; ok {
			continue
		}
		ws.offsets[name] = 0
		added = append(added, name)
	}

	for name := range ws.offsets {
		if _, ok := present[name]; !ok {
			delete(ws.offsets, name)
			removed = append(removed, name)
		}
	}

	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

// Offset returns the stored offset for name.
func (ws *WatchSet) Offset(name string) (int, bool) {
	off, ok := ws.offsets[name]
	return off, ok
}

// SetOffset records the next unread line for a tracked name. Untracked names
// are ignored so a late scan result cannot resurrect a removed file.
func (ws *WatchSet) SetOffset(name string, offset int) {
	if _, ok := ws.offsets[name]; !ok {
		return
	}
	if offset < 0 {
		offset = 0
	}
	ws.offsets[name] = offset
}

// Names returns a sorted snapshot of the tracked names.
func (ws *WatchSet) Names() []string {
	names := make([]string, 0, len(ws.offsets))
	for name := range ws.offsets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Files returns a sorted snapshot of every tracked file.
func (ws *WatchSet) Files() []TrackedFile {
	names := ws.Names()
	files := make([]TrackedFile, 0, len(names))
	for _, name := range names {
		files = append(files, TrackedFile{Name: name, Offset: ws.offsets[name]})
	}
	return files
}

// Len returns the number of tracked files.
func (ws *WatchSet) Len() int { return len(ws.offsets) }
