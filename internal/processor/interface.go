package processor

import (
	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/ledger"
	"github.com/mauv0809/croquet-league/internal/notifier"
)

// Store defines the ledger operations required by the processor.
type Store interface {
	IsNotified(fingerprint string) (bool, error)
	MarkNotified(runID string, ev events.Event) error
	RecordRun(run ledger.Run) error
	LastRun() (*ledger.Run, error)
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}
