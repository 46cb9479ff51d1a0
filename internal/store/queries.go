package store

import (
	"fmt"
	"strings"
	"time"
)

// timeFormat is fixed-width so stored timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Finding operations

// InsertFinding appends a finding to the journal and sets f.ID.
func (s *Store) InsertFinding(f *Finding) error {
	query := `
		INSERT INTO findings (path, line, magic_text, found_at)
		VALUES (?, ?, ?, ?)
	`

	res, err := s.db.Exec(query,
		f.Path,
		f.Line,
		f.MagicText,
		f.FoundAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert finding for %s: %w", f.Path, wrapMissingTable(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get finding id: %w", err)
	}
	f.ID = id
	return nil
}

// FindingFilter narrows ListFindings. Zero values mean "no restriction".
type FindingFilter struct {
	Path  string
	Since time.Time
	Limit int
}

// ListFindings returns findings ordered oldest first.
func (s *Store) ListFindings(filter FindingFilter) ([]*Finding, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Path != "" {
		where = append(where, "path = ?")
		args = append(args, filter.Path)
	}
	if !filter.Since.IsZero() {
		where = append(where, "found_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeFormat))
	}

	cols := `SELECT id, path, line, magic_text, found_at FROM findings`
	if len(where) > 0 {
		cols += " WHERE " + strings.Join(where, " AND ")
	}

	query := cols + " ORDER BY found_at, id"
	if filter.Limit > 0 {
		// Keep the newest rows but still return them oldest first.
		query = `SELECT * FROM (` + cols + ` ORDER BY found_at DESC, id DESC LIMIT ?) ORDER BY found_at, id`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list findings: %w", wrapMissingTable(err))
	}
	defer rows.Close()

	var findings []*Finding
	for rows.Next() {
		var f Finding
		var foundAt string
		if err := rows.Scan(&f.ID, &f.Path, &f.Line, &f.MagicText, &foundAt); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		f.FoundAt, err = time.Parse(time.RFC3339Nano, foundAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse found_at for finding %d: %w", f.ID, err)
		}
		findings = append(findings, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate findings: %w", err)
	}

	return findings, nil
}

// CountFindings returns the number of findings in the journal.
func (s *Store) CountFindings() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM findings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count findings: %w", wrapMissingTable(err))
	}
	return n, nil
}

// Watch event operations

// InsertWatchEvent records a watch list change.
func (s *Store) InsertWatchEvent(e *WatchEvent) error {
	query := `
		INSERT INTO watch_events (directory, file_name, event_type, timestamp)
		VALUES (?, ?, ?, ?)
	`

	res, err := s.db.Exec(query,
		e.Directory,
		e.FileName,
		e.EventType,
		e.Timestamp.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert watch event for %s: %w", e.FileName, wrapMissingTable(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get watch event id: %w", err)
	}
	e.ID = id
	return nil
}

// ListWatchEvents returns watch list changes for fileName, oldest first.
// An empty fileName returns every event.
func (s *Store) ListWatchEvents(fileName string) ([]*WatchEvent, error) {
	query := `SELECT id, directory, file_name, event_type, timestamp FROM watch_events`
	var args []interface{}
	if fileName != "" {
		query += ` WHERE file_name = ?`
		args = append(args, fileName)
	}
	query += ` ORDER BY timestamp, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch events: %w", wrapMissingTable(err))
	}
	defer rows.Close()

	var events []*WatchEvent
	for rows.Next() {
		var e WatchEvent
		var ts string
		if err := rows.Scan(&e.ID, &e.Directory, &e.FileName, &e.EventType, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan watch event: %w", err)
		}
		e.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp for watch event %d: %w", e.ID, err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watch events: %w", err)
	}

	return events, nil
}
