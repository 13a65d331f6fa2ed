package events

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/mauv0809/croquet-league/internal/league"
	"github.com/mauv0809/croquet-league/internal/reconcile"
	"github.com/mauv0809/croquet-league/internal/standings"
	"github.com/mauv0809/croquet-league/internal/submission"
)

// Classifier maps reconciliation outcomes, registry violations and rejected
// games to events. It has no side effects.
type Classifier struct {
	policy Policy
}

// NewClassifier creates a Classifier. Unset or unknown modes fall back to
// BothCaptains.
func NewClassifier(p Policy) *Classifier {
	if !p.MissingReport.Valid() {
		p.MissingReport = BothCaptains
	}
	if !p.DrawnGame.Valid() {
		p.DrawnGame = BothCaptains
	}
	return &Classifier{policy: p}
}

// Valid reports whether m is a known mode.
func (m RecipientMode) Valid() bool {
	switch m {
	case BothCaptains, CounterpartOnly, ReporterOnly:
		return true
	}
	return false
}

func (m RecipientMode) roles() []Role {
	switch m {
	case CounterpartOnly:
		return []Role{RoleCounterpart}
	case ReporterOnly:
		return []Role{RoleReporter}
	}
	return []Role{RoleReporter, RoleCounterpart}
}

// Outcome classifies a reconciliation outcome. Confirmed fixtures produce no event.
func (c *Classifier) Outcome(o reconcile.Outcome) (Event, bool) {
	e := Event{Key: o.Key, Timestamp: o.Trigger.Timestamp}
	switch o.Status {
	case reconcile.StatusUnconfirmed:
		e.Kind = KindMissingReport
		e.Reporter, e.Counterpart = o.First.Reporter, o.First.Counterpart
		e.Emails = uniqueEmails(o.First.Reporter, o.First.Counterpart)
		e.Recipients = append(c.policy.MissingReport.roles(), RoleRankings)
	case reconcile.StatusCaptainMismatch:
		e.Kind = KindCaptainMismatch
		e.Reporter, e.Counterpart = o.First.Reporter, o.Trigger.Reporter
		if m := o.Mismatch; m != nil {
			e.Emails = uniqueEmails(m.FirstReporter, m.FirstCounterpart, m.SecondReporter, m.SecondCounterpart)
		}
		e.Recipients = []Role{RoleReporter, RoleCounterpart, RoleRankings}
	case reconcile.StatusDataConflict:
		e.Kind = KindDataConflict
		e.Reporter, e.Counterpart = o.First.Reporter, o.Trigger.Reporter
		e.Emails = uniqueEmails(o.First.Reporter, o.Trigger.Reporter)
		if cf := o.Conflict; cf != nil {
			e.Game, e.Field = cf.Game, cf.Label
			e.Values = []string{cf.First, cf.Second}
		}
		e.Recipients = []Role{RoleReporter, RoleCounterpart, RoleRankings}
	case reconcile.StatusOverReported:
		e.Kind = KindDuplicateSubmission
		e.Count = o.Count
		e.Reporter, e.Counterpart = o.Trigger.Reporter, o.Trigger.Counterpart
		e.Emails = uniqueEmails(o.First.Reporter, o.First.Counterpart, o.Trigger.Reporter)
		e.Recipients = []Role{RoleRankings, RoleObserver}
	default:
		return Event{}, false
	}
	return e, true
}

// Violation classifies a confirmed fixture the registry does not expect.
func (c *Classifier) Violation(s submission.Submission, v league.Violation) Event {
	return Event{
		Kind:        KindUnexpectedFixture,
		Key:         s.Key(),
		Timestamp:   s.Timestamp,
		Reason:      v.Detail,
		Reporter:    s.Reporter,
		Counterpart: s.Counterpart,
		Emails:      uniqueEmails(s.Reporter, s.Counterpart),
		Recipients:  []Role{RoleReporter, RoleCounterpart, RoleRankings, RoleObserver},
	}
}

// Rejection classifies a game that was not recorded in the standings.
func (c *Classifier) Rejection(r standings.Rejection) Event {
	e := Event{
		Key:         r.Key,
		Game:        r.Game,
		Values:      []string{r.HomeHoops, r.AwayHoops},
		Reporter:    r.Reporter,
		Counterpart: r.Counterpart,
		Emails:      uniqueEmails(r.Reporter, r.Counterpart),
	}
	switch r.Reason {
	case standings.RejectDrawn:
		e.Kind = KindDrawnGame
		e.Recipients = append(c.policy.DrawnGame.roles(), RoleRankings)
	default:
		e.Kind = KindInvalidScore
		e.Reason = string(r.Reason)
		e.Recipients = []Role{RoleReporter, RoleCounterpart, RoleRankings}
	}
	return e
}

// Fingerprint identifies an event across runs. Two runs over the same input
// produce the same fingerprints.
func (e Event) Fingerprint() string {
	parts := []string{
		string(e.Kind),
		e.Key.League, e.Key.Date, e.Key.Venue, e.Key.HomeTeam, e.Key.AwayTeam,
		e.Timestamp,
		strconv.Itoa(e.Game),
		e.Field,
		strings.Join(e.Values, "\x1f"),
		strconv.Itoa(e.Count),
		e.Reason,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1e")))
	return hex.EncodeToString(sum[:])
}

// Summary is a one-line human description of the event.
func (e Event) Summary() string {
	switch e.Kind {
	case KindMissingReport:
		return fmt.Sprintf("Only one report received for %s (from %s); waiting on %s", e.Key, e.Reporter, e.Counterpart)
	case KindCaptainMismatch:
		return fmt.Sprintf("Inconsistent captains for %s: %s", e.Key, strings.Join(e.Emails, ", "))
	case KindDataConflict:
		return fmt.Sprintf("Inconsistent data for %s: game %d %s reported as %s", e.Key, e.Game, e.Field, strings.Join(e.Values, " and "))
	case KindUnexpectedFixture:
		return fmt.Sprintf("Unexpected fixture %s: %s", e.Key, e.Reason)
	case KindDuplicateSubmission:
		return fmt.Sprintf("Too many reports for %s: %d received", e.Key, e.Count)
	case KindDrawnGame:
		return fmt.Sprintf("Drawn game rejected for %s: game %d scored %s", e.Key, e.Game, strings.Join(e.Values, "-"))
	case KindInvalidScore:
		return fmt.Sprintf("Unreadable score for %s: game %d scored %s", e.Key, e.Game, strings.Join(e.Values, "-"))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Key)
}

// Addresses resolves the event's recipient roles to unique addresses, in role
// order. Roles without an address are skipped.
func (e Event) Addresses(c Contacts) []string {
	var out []string
	for _, r := range e.Recipients {
		switch r {
		case RoleReporter:
			out = append(out, e.Reporter)
		case RoleCounterpart:
			out = append(out, e.Counterpart)
		case RoleRankings:
			out = append(out, c.Rankings)
		case RoleObserver:
			out = append(out, c.Observer)
		}
	}
	return uniqueEmails(out...)
}

func uniqueEmails(emails ...string) []string {
	seen := make(map[string]bool, len(emails))
	var out []string
	for _, e := range emails {
		norm := strings.ToLower(strings.TrimSpace(e))
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	return out
}
