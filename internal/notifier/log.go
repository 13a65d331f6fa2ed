package notifier

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/engine"
	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/standings"
)

var _ Notifier = (*Logger)(nil)

// Logger is a Notifier that writes every notification to the log. It is used
// when no chat channel is configured.
type Logger struct {
	logger *log.Logger
}

// NewLogger creates a Logger writing through l, or the default logger when l is nil.
func NewLogger(l *log.Logger) *Logger {
	if l == nil {
		l = log.Default()
	}
	return &Logger{logger: l}
}

func (n *Logger) SendEvent(ev events.Event, recipients []string, dryRun bool) error {
	n.logger.Info("League notice", "kind", ev.Kind, "to", strings.Join(recipients, ", "), "summary", ev.Summary(), "dryRun", dryRun)
	return nil
}

func (n *Logger) SendStandings(t standings.Table, dryRun bool) error {
	for i, r := range t.Ranking() {
		n.logger.Info("Standings", "league", t.League, "rank", i+1, "team", r.Team, "points", r.Points, "net", r.NetGames, "dryRun", dryRun)
	}
	return nil
}

func (n *Logger) SendRunSummary(runID string, s engine.Summary, dryRun bool) error {
	n.logger.Info("Run summary", "run", runID, "submissions", s.Submissions, "fixtures", s.Fixtures, "games", s.Games, "events", s.Events, "dryRun", dryRun)
	return nil
}
