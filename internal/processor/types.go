package processor

import (
	"time"

	"github.com/mauv0809/croquet-league/internal/engine"
	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/ledger"
	"github.com/mauv0809/croquet-league/internal/metrics"
	"github.com/mauv0809/croquet-league/internal/pubsub"
)

// Processor runs the engine and handles everything around it: metrics,
// dispatch of new events and the run ledger.
type Processor struct {
	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	contacts events.Contacts
	topic    string
	now      func() time.Time
}

// Run is the outcome of one processed run.
type Run struct {
	ID     string
	Result engine.Result
	Digest string
	// Previous is the last recorded run before this one, nil on the first.
	Previous *ledger.Run
	// Dispatch counts; all zero when notifications are off.
	Sent            int
	AlreadyNotified int
	Failed          int
	Standings       int
}

// Changed reports whether the standings differ from the previous run.
func (r Run) Changed() bool {
	return r.Previous == nil || r.Previous.Digest != r.Digest
}
