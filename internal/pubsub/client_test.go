package pubsub

import (
	"testing"

	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/submission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestNewEventMessage(t *testing.T) {
	ev := events.Event{
		Kind:        events.KindMissingReport,
		Key:         submission.FixtureKey{League: "A Level", Date: "2024-05-01", Venue: "Lawn 1", HomeTeam: "Alpha", AwayTeam: "Beta"},
		Timestamp:   "t1",
		Reporter:    "alpha@x",
		Counterpart: "beta@x",
	}
	msg := NewEventMessage("run-1", ev, []string{"beta@x"})

	assert.Equal(t, EventLeagueNotice, msg.Type)
	assert.Equal(t, ev.Fingerprint(), msg.Fingerprint)
	assert.Equal(t, "missing-report", msg.Kind)
	assert.Equal(t, ev.Summary(), msg.Summary)
	assert.Equal(t, []string{"beta@x"}, msg.Recipients)
}

func TestProcessMessage_DecodesPublishedPayload(t *testing.T) {
	sent := EventMessage{Type: EventLeagueNotice, RunID: "run-1", Kind: "data-conflict", League: "A Level", Recipients: []string{"a@x", "b@x"}}
	data, err := msgpack.Marshal(sent)
	require.NoError(t, err)

	c := &client{}
	var got EventMessage
	require.NoError(t, c.ProcessMessage(data, &got))
	assert.Equal(t, sent, got)

	assert.Error(t, c.ProcessMessage([]byte{0xc1}, &got), "0xc1 is never valid msgpack")
}
