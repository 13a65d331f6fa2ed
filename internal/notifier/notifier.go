package notifier

import (
	"github.com/mauv0809/croquet-league/internal/engine"
	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/standings"
)

// Notifier defines a high-level interface for announcing run results.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendEvent announces an anomaly to the resolved recipient addresses.
	SendEvent(ev events.Event, recipients []string, dryRun bool) error
	// SendStandings posts a league table.
	SendStandings(t standings.Table, dryRun bool) error
	// SendRunSummary posts the counts of a finished run.
	SendRunSummary(runID string, s engine.Summary, dryRun bool) error
}
