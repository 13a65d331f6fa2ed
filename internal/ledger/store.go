package ledger

import (
	"database/sql"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/events"
)

// New creates a Ledger on an initialized database.
func New(db *sql.DB) Ledger {
	return &store{
		db: db,
	}
}

// IsNotified reports whether an event with this fingerprint was already dispatched.
func (s *store) IsNotified(fingerprint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM notifications WHERE fingerprint = ?", fingerprint).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkNotified records that ev was dispatched during runID. Marking the same
// event twice keeps the first record.
func (s *store) MarkNotified(runID string, ev events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO notifications (fingerprint, kind, fixture, run_id, notified_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`, ev.Fingerprint(), string(ev.Kind), ev.Key.String(), runID, time.Now().Unix())
	return err
}

// Notified lists the events dispatched during runID, or during any run when
// runID is empty, oldest first.
func (s *store) Notified(runID string) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT fingerprint, kind, fixture, run_id, notified_at FROM notifications"
	var args []any
	if runID != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY notified_at, rowid"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var at int64
		if err := rows.Scan(&n.Fingerprint, &n.Kind, &n.Fixture, &n.RunID, &at); err != nil {
			log.Error("Failed to scan notification row", "error", err)
			continue
		}
		n.NotifiedAt = time.Unix(at, 0)
		out = append(out, n)
	}
	return out, rows.Err()
}

// RecordRun stores a finished run.
func (s *store) RecordRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO runs (id, started_at, finished_at, submissions, confirmed, games, events, notified, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.Unix(), run.FinishedAt.Unix(), run.Submissions, run.Confirmed, run.Games, run.Events, run.Notified, run.Digest)
	return err
}

// LastRun returns the most recent run, or nil when none was recorded.
func (s *store) LastRun() (*Run, error) {
	runs, err := s.Runs(1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

// Runs returns up to limit runs, newest first. A limit of zero or less returns all.
func (s *store) Runs(limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, started_at, finished_at, submissions, confirmed, games, events, notified, digest
		FROM runs
		ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			log.Error("Failed to scan run row", "error", err)
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRun(scanner interface{ Scan(...any) error }) (Run, error) {
	var r Run
	var started, finished int64
	err := scanner.Scan(&r.ID, &started, &finished, &r.Submissions, &r.Confirmed, &r.Games, &r.Events, &r.Notified, &r.Digest)
	if err != nil {
		return Run{}, err
	}
	r.StartedAt = time.Unix(started, 0)
	r.FinishedAt = time.Unix(finished, 0)
	return r, nil
}
