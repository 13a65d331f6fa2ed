package notifier

import (
	"sync"

	"github.com/mauv0809/croquet-league/internal/engine"
	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/standings"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendEventFunc      func(ev events.Event, recipients []string, dryRun bool) error
	SendStandingsFunc  func(t standings.Table, dryRun bool) error
	SendRunSummaryFunc func(runID string, s engine.Summary, dryRun bool) error

	// Call records
	SendEventCalls []struct {
		Event      events.Event
		Recipients []string
		DryRun     bool
	}
	SendStandingsCalls  []standings.Table
	SendRunSummaryCalls []engine.Summary
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendEventCalls = nil
	m.SendStandingsCalls = nil
	m.SendRunSummaryCalls = nil
}

func (m *Mock) SendEvent(ev events.Event, recipients []string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendEventCalls = append(m.SendEventCalls, struct {
		Event      events.Event
		Recipients []string
		DryRun     bool
	}{ev, recipients, dryRun})
	if m.SendEventFunc != nil {
		return m.SendEventFunc(ev, recipients, dryRun)
	}
	return nil
}

func (m *Mock) SendStandings(t standings.Table, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendStandingsCalls = append(m.SendStandingsCalls, t)
	if m.SendStandingsFunc != nil {
		return m.SendStandingsFunc(t, dryRun)
	}
	return nil
}

func (m *Mock) SendRunSummary(runID string, s engine.Summary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRunSummaryCalls = append(m.SendRunSummaryCalls, s)
	if m.SendRunSummaryFunc != nil {
		return m.SendRunSummaryFunc(runID, s, dryRun)
	}
	return nil
}
