package ledger

import "github.com/mauv0809/croquet-league/internal/events"

// Ledger remembers which events have been dispatched and which runs happened,
// so repeated runs over the same input only notify once.
type Ledger interface {
	IsNotified(fingerprint string) (bool, error)
	MarkNotified(runID string, ev events.Event) error
	Notified(runID string) ([]Notification, error)
	RecordRun(run Run) error
	LastRun() (*Run, error)
	Runs(limit int) ([]Run, error)
}
