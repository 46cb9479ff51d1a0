package watcher

import (
	"time"

	"github.com/blackwell-systems/dirwatcher/internal/store"
)

// AttachJournal records every finding and watch list change in st. Journal
// write failures are logged and never interrupt scanning.
func (p *Poller) AttachJournal(st *store.Store) {
	p.OnFinding = func(f Finding) {
		rec := &store.Finding{
			Path:      f.Path,
			Line:      f.Line,
			MagicText: f.MagicText,
			FoundAt:   f.FoundAt,
		}
		if err := st.InsertFinding(rec); err != nil {
			p.log.Errorf("journal: %v", err)
		}
	}

	p.OnReconcile = func(added, removed []string) {
		now := time.Now()
		record := func(name, eventType string) {
			e := &store.WatchEvent{
				Directory: p.cfg.Directory,
				FileName:  name,
				EventType: eventType,
				Timestamp: now,
			}
			if err := st.InsertWatchEvent(e); err != nil {
				p.log.Errorf("journal: %v", err)
			}
		}
		for _, name := range added {
			record(name, store.EventAdded)
		}
		for _, name := range removed {
			record(name, store.EventRemoved)
		}
	}
}
