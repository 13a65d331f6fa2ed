package reconcile

import "github.com/mauv0809/croquet-league/internal/submission"

// Status is the reconciliation state of a fixture.
type Status string

const (
	StatusUnconfirmed     Status = "unconfirmed"
	StatusConfirmed       Status = "confirmed"
	StatusCaptainMismatch Status = "captain-mismatch"
	StatusDataConflict    Status = "data-conflict"
	StatusOverReported    Status = "over-reported"
)

// Admitted reports whether a fixture in this state may count towards standings.
func (s Status) Admitted() bool {
	return s == StatusConfirmed
}

// Conflict names the first per-game field on which two reports disagree.
type Conflict struct {
	Game   int                  `json:"game"`
	Field  submission.GameField `json:"-"`
	Label  string               `json:"field"`
	First  string               `json:"first"`
	Second string               `json:"second"`
}

// CaptainMismatch holds the emails of two reports that do not name each other.
type CaptainMismatch struct {
	FirstReporter     string `json:"first_reporter"`
	FirstCounterpart  string `json:"first_counterpart"`
	SecondReporter    string `json:"second_reporter"`
	SecondCounterpart string `json:"second_counterpart"`
}

// Outcome is one reconciliation verdict about a fixture. Exactly one of
// Conflict and Mismatch is set for data-conflict and captain-mismatch outcomes.
type Outcome struct {
	Key      submission.FixtureKey `json:"fixture"`
	Status   Status                `json:"status"`
	Count    int                   `json:"count"`
	First    submission.Submission `json:"first"`
	Trigger  submission.Submission `json:"trigger"`
	Conflict *Conflict             `json:"conflict,omitempty"`
	Mismatch *CaptainMismatch      `json:"mismatch,omitempty"`
}

type fixture struct {
	first  submission.Submission
	count  int
	status Status
}

// Result is the final state of a reconciliation pass.
type Result struct {
	// Outcomes in emission order; unconfirmed fixtures follow in first-seen order.
	Outcomes []Outcome
	// Confirmed holds the canonical submission of every admitted fixture in
	// confirmation order.
	Confirmed []submission.Submission
	// Counts is the number of submissions seen per fixture.
	Counts map[submission.FixtureKey]int
	// Statuses is the final state per fixture.
	Statuses map[submission.FixtureKey]Status
}
