package events

import "github.com/mauv0809/croquet-league/internal/submission"

// Kind is the closed set of event categories handed to external dispatch.
type Kind string

const (
	KindMissingReport       Kind = "missing-report"
	KindCaptainMismatch     Kind = "captain-mismatch"
	KindDataConflict        Kind = "data-conflict"
	KindUnexpectedFixture   Kind = "unexpected-fixture"
	KindDuplicateSubmission Kind = "duplicate-submission"
	KindDrawnGame           Kind = "drawn-game-rejected"
	KindInvalidScore        Kind = "invalid-score"
)

// Role is a recipient the caller resolves to an address.
type Role string

const (
	RoleReporter    Role = "reporter"
	RoleCounterpart Role = "counterpart"
	RoleRankings    Role = "rankings"
	RoleObserver    Role = "observer"
)

// Event is one classified anomaly with the context a notifier needs.
type Event struct {
	Kind        Kind                  `json:"kind"`
	Key         submission.FixtureKey `json:"fixture"`
	Timestamp   string                `json:"timestamp,omitempty"`
	Game        int                   `json:"game,omitempty"`
	Field       string                `json:"field,omitempty"`
	Values      []string              `json:"values,omitempty"`
	Count       int                   `json:"count,omitempty"`
	Reason      string                `json:"reason,omitempty"`
	Reporter    string                `json:"reporter,omitempty"`
	Counterpart string                `json:"counterpart,omitempty"`
	Emails      []string              `json:"emails,omitempty"`
	Recipients  []Role                `json:"recipients"`
}

// RecipientMode decides which captains hear about a notice whose addressing
// is a matter of league policy.
type RecipientMode string

const (
	BothCaptains    RecipientMode = "both-captains"
	CounterpartOnly RecipientMode = "counterpart-only"
	ReporterOnly    RecipientMode = "reporter-only"
)

// Policy configures recipient resolution for missing-report and drawn-game notices.
type Policy struct {
	MissingReport RecipientMode `json:"missing_report" yaml:"missing_report"`
	DrawnGame     RecipientMode `json:"drawn_game" yaml:"drawn_game"`
}

// DefaultPolicy tells both captains about both kinds of notice.
func DefaultPolicy() Policy {
	return Policy{MissingReport: BothCaptains, DrawnGame: BothCaptains}
}

// Contacts are the league-wide addresses behind the rankings and observer roles.
type Contacts struct {
	Rankings string `json:"rankings" yaml:"rankings"`
	Observer string `json:"observer" yaml:"observer"`
}
