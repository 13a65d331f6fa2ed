package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu           sync.Mutex
	submissions  int
	corrections  map[string]int
	outcomes     map[string]int
	events       map[string]int
	games        int
	notifSent    map[string]int
	notifFailed  map[string]int
	runDurations []float64
	lastRun      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		corrections: make(map[string]int),
		outcomes:    make(map[string]int),
		events:      make(map[string]int),
		notifSent:   make(map[string]int),
		notifFailed: make(map[string]int),
	}
}

func (m *Mock) AddSubmissions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions += n
}

func (m *Mock) AddCorrections(result string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corrections[result] += n
}

func (m *Mock) AddOutcomes(status string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[status] += n
}

func (m *Mock) IncEvent(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[kind]++
}

func (m *Mock) AddGames(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games += n
}

func (m *Mock) IncNotifSent(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent[channel]++
}

func (m *Mock) IncNotifFailed(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed[channel]++
}

func (m *Mock) ObserveRunDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runDurations = append(m.runDurations, seconds)
}

func (m *Mock) SetLastRun(unix float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastRun = unix
}

// Submissions returns the total passed to AddSubmissions.
func (m *Mock) Submissions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submissions
}

// Outcomes returns the total passed to AddOutcomes for status.
func (m *Mock) Outcomes(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[status]
}

// Corrections returns the total passed to AddCorrections for result.
func (m *Mock) Corrections(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.corrections[result]
}

// Events returns how often IncEvent was called with kind.
func (m *Mock) Events(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[kind]
}

// Games returns the total passed to AddGames.
func (m *Mock) Games() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.games
}

// NotifSent returns how often IncNotifSent was called with channel.
func (m *Mock) NotifSent(channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent[channel]
}

// NotifFailed returns how often IncNotifFailed was called with channel.
func (m *Mock) NotifFailed(channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed[channel]
}

// RunDurations returns every duration passed to ObserveRunDuration.
func (m *Mock) RunDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64{}, m.runDurations...)
}
