package pubsub

import (
	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/croquet-league/internal/events"
)

// Channel is the metrics label for Pub/Sub deliveries.
const Channel = "pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of message sent via pubsub.
type EventType string

const (
	EventLeagueNotice EventType = "league-notice"
	EventStandings    EventType = "standings"
)

// EventMessage is the payload published for one classified event. Consumers
// deliver Summary to Recipients.
type EventMessage struct {
	Type        EventType `msgpack:"type"`
	RunID       string    `msgpack:"run_id"`
	Fingerprint string    `msgpack:"fingerprint"`
	Kind        string    `msgpack:"kind"`
	League      string    `msgpack:"league"`
	Date        string    `msgpack:"date"`
	Venue       string    `msgpack:"venue"`
	HomeTeam    string    `msgpack:"home_team"`
	AwayTeam    string    `msgpack:"away_team"`
	Timestamp   string    `msgpack:"timestamp,omitempty"`
	Summary     string    `msgpack:"summary"`
	Recipients  []string  `msgpack:"recipients"`
}

// NewEventMessage builds the payload for ev addressed to recipients.
func NewEventMessage(runID string, ev events.Event, recipients []string) EventMessage {
	return EventMessage{
		Type:        EventLeagueNotice,
		RunID:       runID,
		Fingerprint: ev.Fingerprint(),
		Kind:        string(ev.Kind),
		League:      ev.Key.League,
		Date:        ev.Key.Date,
		Venue:       ev.Key.Venue,
		HomeTeam:    ev.Key.HomeTeam,
		AwayTeam:    ev.Key.AwayTeam,
		Timestamp:   ev.Timestamp,
		Summary:     ev.Summary(),
		Recipients:  recipients,
	}
}
