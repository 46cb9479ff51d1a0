package store

import "time"

// Finding is a recorded occurrence of the magic text.
type Finding struct {
	ID        int64
	Path      string
	Line      int
	MagicText string
	FoundAt   time.Time
}

// WatchEvent records a file entering or leaving the watch list.
type WatchEvent struct {
	ID        int64
	Directory string
	FileName  string
	EventType string // "added" or "removed"
	Timestamp time.Time
}

// Watch event types
const (
	EventAdded   = "added"
	EventRemoved = "removed"
)
