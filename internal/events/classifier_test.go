package events

import (
	"testing"

	"github.com/mauv0809/croquet-league/internal/league"
	"github.com/mauv0809/croquet-league/internal/reconcile"
	"github.com/mauv0809/croquet-league/internal/standings"
	"github.com/mauv0809/croquet-league/internal/submission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var key = submission.FixtureKey{League: "A Level", Date: "2024-05-01", Venue: "Venue1", HomeTeam: "Alpha", AwayTeam: "Beta"}

func sub(ts, reporter, counterpart string) submission.Submission {
	return submission.Submission{
		Timestamp: ts, League: key.League, Date: key.Date, Venue: key.Venue,
		HomeTeam: key.HomeTeam, AwayTeam: key.AwayTeam,
		Reporter: reporter, Counterpart: counterpart,
	}
}

func TestClassifier_Outcome(t *testing.T) {
	c := NewClassifier(DefaultPolicy())
	first := sub("t1", "alpha@x", "beta@x")

	t.Run("confirmed is silent", func(t *testing.T) {
		_, ok := c.Outcome(reconcile.Outcome{Key: key, Status: reconcile.StatusConfirmed, First: first, Trigger: first})
		assert.False(t, ok)
	})

	tests := []struct {
		name       string
		outcome    reconcile.Outcome
		kind       Kind
		recipients []Role
	}{
		{
			name:       "unconfirmed",
			outcome:    reconcile.Outcome{Key: key, Status: reconcile.StatusUnconfirmed, Count: 1, First: first, Trigger: first},
			kind:       KindMissingReport,
			recipients: []Role{RoleReporter, RoleCounterpart, RoleRankings},
		},
		{
			name: "captain mismatch",
			outcome: reconcile.Outcome{Key: key, Status: reconcile.StatusCaptainMismatch, Count: 2, First: first, Trigger: sub("t2", "gamma@x", "alpha@x"),
				Mismatch: &reconcile.CaptainMismatch{FirstReporter: "alpha@x", FirstCounterpart: "beta@x", SecondReporter: "gamma@x", SecondCounterpart: "alpha@x"}},
			kind:       KindCaptainMismatch,
			recipients: []Role{RoleReporter, RoleCounterpart, RoleRankings},
		},
		{
			name: "data conflict",
			outcome: reconcile.Outcome{Key: key, Status: reconcile.StatusDataConflict, Count: 2, First: first, Trigger: sub("t2", "beta@x", "alpha@x"),
				Conflict: &reconcile.Conflict{Game: 1, Field: submission.HomeHoops, Label: "Home player hoops scored", First: "26", Second: "24"}},
			kind:       KindDataConflict,
			recipients: []Role{RoleReporter, RoleCounterpart, RoleRankings},
		},
		{
			name:       "over reported",
			outcome:    reconcile.Outcome{Key: key, Status: reconcile.StatusOverReported, Count: 3, First: first, Trigger: sub("t3", "beta@x", "alpha@x")},
			kind:       KindDuplicateSubmission,
			recipients: []Role{RoleRankings, RoleObserver},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := c.Outcome(tt.outcome)
			require.True(t, ok)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, key, e.Key)
			assert.Equal(t, tt.recipients, e.Recipients)
			assert.NotEmpty(t, e.Summary())
		})
	}

	t.Run("data conflict carries the field", func(t *testing.T) {
		e, _ := c.Outcome(tests[2].outcome)
		assert.Equal(t, "Home player hoops scored", e.Field)
		assert.Equal(t, 1, e.Game)
		assert.Equal(t, []string{"26", "24"}, e.Values)
		assert.Equal(t, []string{"alpha@x", "beta@x"}, e.Emails)
	})

	t.Run("mismatch lists every involved email once", func(t *testing.T) {
		e, _ := c.Outcome(tests[1].outcome)
		assert.Equal(t, []string{"alpha@x", "beta@x", "gamma@x"}, e.Emails)
	})
}

func TestClassifier_Policy(t *testing.T) {
	c := NewClassifier(Policy{MissingReport: CounterpartOnly, DrawnGame: ReporterOnly})
	first := sub("t1", "alpha@x", "beta@x")

	e, ok := c.Outcome(reconcile.Outcome{Key: key, Status: reconcile.StatusUnconfirmed, First: first, Trigger: first})
	require.True(t, ok)
	assert.Equal(t, []Role{RoleCounterpart, RoleRankings}, e.Recipients)
	assert.Equal(t, []string{"beta@x", "rank@league"}, e.Addresses(Contacts{Rankings: "rank@league"}))

	e = c.Rejection(standings.Rejection{Reason: standings.RejectDrawn, Key: key, Game: 2, HomeHoops: "17", AwayHoops: "17", Reporter: "alpha@x", Counterpart: "beta@x"})
	assert.Equal(t, KindDrawnGame, e.Kind)
	assert.Equal(t, []Role{RoleReporter, RoleRankings}, e.Recipients)

	c = NewClassifier(Policy{MissingReport: "whoever"})
	e, _ = c.Outcome(reconcile.Outcome{Key: key, Status: reconcile.StatusUnconfirmed, First: first, Trigger: first})
	assert.Equal(t, []Role{RoleReporter, RoleCounterpart, RoleRankings}, e.Recipients, "unknown mode falls back to both captains")
}

func TestClassifier_ViolationAndInvalidScore(t *testing.T) {
	c := NewClassifier(DefaultPolicy())
	s := sub("t1", "alpha@x", "beta@x")

	e := c.Violation(s, league.Violation{Kind: league.ViolationUnknownTeam, Detail: `team "Betta" is not in A Level`})
	assert.Equal(t, KindUnexpectedFixture, e.Kind)
	assert.Contains(t, e.Summary(), "Betta")
	assert.Equal(t, []string{"alpha@x", "beta@x", "rank@x", "obs@x"}, e.Addresses(Contacts{Rankings: "rank@x", Observer: "obs@x"}))

	e = c.Rejection(standings.Rejection{Reason: standings.RejectInvalidScore, Key: key, Game: 1, HomeHoops: "x", AwayHoops: "3"})
	assert.Equal(t, KindInvalidScore, e.Kind)
}

func TestFingerprint(t *testing.T) {
	c := NewClassifier(DefaultPolicy())
	first := sub("t1", "alpha@x", "beta@x")
	o := reconcile.Outcome{Key: key, Status: reconcile.StatusUnconfirmed, First: first, Trigger: first}

	a, _ := c.Outcome(o)
	b, _ := c.Outcome(o)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)

	o.Trigger.Timestamp = "t9"
	d, _ := c.Outcome(o)
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())

	// Recipients do not change identity: a policy change must not re-send.
	p := NewClassifier(Policy{MissingReport: CounterpartOnly})
	e, _ := p.Outcome(reconcile.Outcome{Key: key, Status: reconcile.StatusUnconfirmed, First: first, Trigger: first})
	assert.Equal(t, a.Fingerprint(), e.Fingerprint())
}
