// Package engine runs the whole reconciliation pipeline over an in-memory
// snapshot: corrections, pairing of captain reports, registry validation,
// standings and event classification. It performs no I/O.
package engine

import (
	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/league"
	"github.com/mauv0809/croquet-league/internal/reconcile"
	"github.com/mauv0809/croquet-league/internal/standings"
	"github.com/mauv0809/croquet-league/internal/submission"
)

// Input is the snapshot a run works on. Submissions must be in arrival order.
type Input struct {
	Submissions []submission.Submission
	Corrections *submission.CorrectionSet

	// CorrectionIssues found while reading the corrections are carried into
	// the result unchanged.
	CorrectionIssues []submission.CorrectionIssue
	Registry         *league.Registry
}

// Options configure a run.
type Options struct {
	Policy events.Policy
}

// Summary counts what a run saw.
type Summary struct {
	Submissions  int                          `json:"submissions"`
	Updated      int                          `json:"updated"`
	Deleted      int                          `json:"deleted"`
	Fixtures     int                          `json:"fixtures"`
	Outcomes     map[reconcile.Status]int     `json:"outcomes"`
	Admitted     int                          `json:"admitted"`
	Unexpected   int                          `json:"unexpected"`
	Games        int                          `json:"games"`
	Rejected     int                          `json:"rejected"`
	Events       int                          `json:"events"`
	Unapplied    int                          `json:"unapplied"`
	Corrections  int                          `json:"corrections"`
	IssuesByKind map[submission.IssueKind]int `json:"issues_by_kind"`
}

// Result is everything a run produces.
type Result struct {
	Summary          Summary
	CorrectionIssues []submission.CorrectionIssue
	Outcomes         []reconcile.Outcome
	Admitted         []submission.Submission
	Tables           []standings.Table
	GameLog          []standings.GameResult
	Events           []events.Event
}

// Run executes the pipeline. Identical input always yields an identical result.
func Run(in Input, opts Options) Result {
	classifier := events.NewClassifier(opts.Policy)

	corrected := submission.Correct(in.Submissions, in.Corrections)
	issues := append(append([]submission.CorrectionIssue{}, in.CorrectionIssues...), corrected.Issues...)

	rec := reconcile.Reconcile(corrected.Submissions)

	res := Result{
		CorrectionIssues: issues,
		Outcomes:         rec.Outcomes,
	}
	for _, o := range rec.Outcomes {
		if e, ok := classifier.Outcome(o); ok {
			res.Events = append(res.Events, e)
		}
	}

	acc := standings.NewAccumulator(in.Registry)
	unexpected := 0
	for _, s := range rec.Confirmed {
		rejected, v := acc.Add(s)
		if v != nil {
			unexpected++
			res.Events = append(res.Events, classifier.Violation(s, *v))
			continue
		}
		res.Admitted = append(res.Admitted, s)
		for _, r := range rejected {
			res.Events = append(res.Events, classifier.Rejection(r))
		}
	}
	res.Tables = acc.Tables()
	res.GameLog = acc.GameLog()

	res.Summary = Summary{
		Submissions:  len(in.Submissions),
		Updated:      corrected.Updated,
		Deleted:      corrected.Deleted,
		Fixtures:     len(rec.Counts),
		Outcomes:     make(map[reconcile.Status]int),
		Admitted:     len(res.Admitted),
		Unexpected:   unexpected,
		Games:        len(res.GameLog),
		Rejected:     len(acc.Rejections()),
		Events:       len(res.Events),
		Corrections:  in.Corrections.Len(),
		IssuesByKind: make(map[submission.IssueKind]int),
	}
	for _, st := range rec.Statuses {
		res.Summary.Outcomes[st]++
	}
	for _, i := range issues {
		res.Summary.IssuesByKind[i.Kind]++
		if i.Kind == submission.IssueUnapplied {
			res.Summary.Unapplied++
		}
	}

	log.Info("Reconciliation finished",
		"submissions", res.Summary.Submissions,
		"fixtures", res.Summary.Fixtures,
		"admitted", res.Summary.Admitted,
		"games", res.Summary.Games,
		"events", res.Summary.Events,
	)
	return res
}
