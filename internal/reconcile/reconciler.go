package reconcile

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/submission"
)

// Reconciler pairs independent reports of the same fixture. Submissions must be
// added in arrival order: the first report of a fixture becomes canonical.
type Reconciler struct {
	fixtures  map[submission.FixtureKey]*fixture
	seen      []submission.FixtureKey
	confirmed []submission.FixtureKey
	outcomes  []Outcome
}

// New creates an empty Reconciler.
func New() *Reconciler {
	return &Reconciler{fixtures: make(map[submission.FixtureKey]*fixture)}
}

// Reconcile runs a whole stream through a fresh Reconciler.
func Reconcile(stream []submission.Submission) Result {
	r := New()
	for _, s := range stream {
		r.Add(s)
	}
	return r.Result()
}

// Add records one submission and returns the outcome it triggers, if any.
// The first report of a fixture triggers nothing until the stream ends.
func (r *Reconciler) Add(s submission.Submission) *Outcome {
	key := s.Key()
	f, ok := r.fixtures[key]
	if !ok {
		r.fixtures[key] = &fixture{first: s, count: 1, status: StatusUnconfirmed}
		r.seen = append(r.seen, key)
		log.Debug("First report of fixture", "fixture", key, "ts", s.Timestamp)
		return nil
	}

	f.count++
	o := Outcome{Key: key, Count: f.count, First: f.first, Trigger: s}
	switch {
	case f.count == 2:
		o.Status, o.Mismatch, o.Conflict = compare(f.first, s)
		if o.Status == StatusConfirmed {
			r.confirmed = append(r.confirmed, key)
			log.Info("Fixture confirmed", "fixture", key)
		} else {
			log.Warn("Fixture reports disagree", "fixture", key, "status", o.Status)
		}
	default:
		o.Status = StatusOverReported
		log.Warn("Fixture reported too many times", "fixture", key, "count", f.count)
	}
	f.status = o.Status
	r.outcomes = append(r.outcomes, o)
	return &o
}

// Result returns the reconciliation state. It may be called more than once;
// each call reflects every submission added so far.
func (r *Reconciler) Result() Result {
	res := Result{
		Outcomes: append([]Outcome{}, r.outcomes...),
		Counts:   make(map[submission.FixtureKey]int, len(r.fixtures)),
		Statuses: make(map[submission.FixtureKey]Status, len(r.fixtures)),
	}
	for _, key := range r.seen {
		f := r.fixtures[key]
		res.Counts[key] = f.count
		res.Statuses[key] = f.status
		if f.count == 1 {
			res.Outcomes = append(res.Outcomes, Outcome{
				Key:     key,
				Status:  StatusUnconfirmed,
				Count:   1,
				First:   f.first,
				Trigger: f.first,
			})
		}
	}
	for _, key := range r.confirmed {
		if f := r.fixtures[key]; f.status.Admitted() {
			res.Confirmed = append(res.Confirmed, f.first)
		}
	}
	return res
}

// compare decides the outcome of a fixture's second report.
func compare(first, second submission.Submission) (Status, *CaptainMismatch, *Conflict) {
	if !sameEmail(first.Reporter, second.Counterpart) || !sameEmail(first.Counterpart, second.Reporter) {
		return StatusCaptainMismatch, &CaptainMismatch{
			FirstReporter:     first.Reporter,
			FirstCounterpart:  first.Counterpart,
			SecondReporter:    second.Reporter,
			SecondCounterpart: second.Counterpart,
		}, nil
	}
	if c := diffGames(first, second); c != nil {
		return StatusDataConflict, nil, c
	}
	return StatusConfirmed, nil, nil
}

// diffGames walks the game slots of both reports in order and returns the first
// differing field. Slots after the first one empty in both reports are ignored.
func diffGames(a, b submission.Submission) *Conflict {
	for i := 0; i < submission.MaxGames; i++ {
		ga, gb := a.Games[i], b.Games[i]
		if ga.Empty() && gb.Empty() {
			return nil
		}
		for _, f := range submission.GameFields() {
			va, vb := strings.TrimSpace(ga.Value(f)), strings.TrimSpace(gb.Value(f))
			if va != vb {
				return &Conflict{Game: i + 1, Field: f, Label: f.String(), First: va, Second: vb}
			}
		}
	}
	return nil
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
