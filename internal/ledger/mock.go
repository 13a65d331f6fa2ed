package ledger

import (
	"sync"

	"github.com/mauv0809/croquet-league/internal/events"
)

// MockLedger is an in-memory Ledger for tests. It is safe for concurrent use.
type MockLedger struct {
	mu sync.Mutex

	IsNotifiedFunc   func(fingerprint string) (bool, error)
	MarkNotifiedFunc func(runID string, ev events.Event) error
	RecordRunFunc    func(run Run) error
	LastRunFunc      func() (*Run, error)

	// Call records
	MarkNotifiedCalls []struct {
		RunID string
		Event events.Event
	}
	RecordRunCalls []Run

	notified map[string]Notification
	runs     []Run
}

// NewMock creates a new mock instance.
func NewMock() *MockLedger {
	return &MockLedger{notified: make(map[string]Notification)}
}

func (m *MockLedger) IsNotified(fingerprint string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsNotifiedFunc != nil {
		return m.IsNotifiedFunc(fingerprint)
	}
	_, ok := m.notified[fingerprint]
	return ok, nil
}

func (m *MockLedger) MarkNotified(runID string, ev events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkNotifiedCalls = append(m.MarkNotifiedCalls, struct {
		RunID string
		Event events.Event
	}{runID, ev})
	if m.MarkNotifiedFunc != nil {
		return m.MarkNotifiedFunc(runID, ev)
	}
	fp := ev.Fingerprint()
	if _, ok := m.notified[fp]; !ok {
		m.notified[fp] = Notification{Fingerprint: fp, Kind: string(ev.Kind), Fixture: ev.Key.String(), RunID: runID}
	}
	return nil
}

func (m *MockLedger) Notified(runID string) ([]Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Notification
	for _, n := range m.notified {
		if runID == "" || n.RunID == runID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *MockLedger) RecordRun(run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordRunCalls = append(m.RecordRunCalls, run)
	if m.RecordRunFunc != nil {
		return m.RecordRunFunc(run)
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *MockLedger) LastRun() (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LastRunFunc != nil {
		return m.LastRunFunc()
	}
	if len(m.runs) == 0 {
		return nil, nil
	}
	r := m.runs[len(m.runs)-1]
	return &r, nil
}

func (m *MockLedger) Runs(limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Run
	for i := len(m.runs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, m.runs[i])
	}
	return out, nil
}
