package submission

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
)

// Op is the operation a correction performs.
type Op string

const (
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Valid reports whether the op is one a correction can carry.
func (o Op) Valid() bool {
	return o == OpUpdate || o == OpDelete
}

// Correction is an admin-issued edit or retraction of one submission,
// keyed by the submission's timestamp.
type Correction struct {
	Timestamp string            `json:"ts"`
	Op        Op                `json:"op"`
	Fields    map[string]string `json:"fields,omitempty"`
	Line      int               `json:"line,omitempty"`
}

// IssueKind classifies a problem found with a correction.
type IssueKind string

const (
	IssueMalformed    IssueKind = "malformed"
	IssueUnknownOp    IssueKind = "unknown-op"
	IssueUnknownField IssueKind = "unknown-field"
	IssueDuplicate    IssueKind = "duplicate-timestamp"
	IssueUnapplied    IssueKind = "unapplied"
)

// CorrectionIssue reports a correction that was discarded or never used.
type CorrectionIssue struct {
	Kind      IssueKind `json:"kind"`
	Timestamp string    `json:"ts,omitempty"`
	Line      int       `json:"line,omitempty"`
	Detail    string    `json:"detail"`
}

func (i CorrectionIssue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("correction %s (line %d): %s", i.Kind, i.Line, i.Detail)
	}
	return fmt.Sprintf("correction %s: %s", i.Kind, i.Detail)
}

// CorrectionSet holds corrections keyed by the timestamp of the submission
// they target. At most one correction per timestamp is kept.
type CorrectionSet struct {
	byTimestamp map[string]Correction
	order       []string
}

// NewCorrectionSet creates an empty set.
func NewCorrectionSet() *CorrectionSet {
	return &CorrectionSet{byTimestamp: make(map[string]Correction)}
}

// Add validates c and stores it. A correction with an unknown op, naming a
// field the submission record does not carry, or repeating a timestamp
// already held, is discarded and the problem returned. An empty op is an
// update.
func (cs *CorrectionSet) Add(c Correction) *CorrectionIssue {
	if c.Timestamp == "" {
		return &CorrectionIssue{Kind: IssueMalformed, Line: c.Line, Detail: "missing timestamp"}
	}
	if c.Op == "" {
		c.Op = OpUpdate
	}
	if !c.Op.Valid() {
		return &CorrectionIssue{
			Kind:      IssueUnknownOp,
			Timestamp: c.Timestamp,
			Line:      c.Line,
			Detail:    fmt.Sprintf("unknown op %q", c.Op),
		}
	}
	if _, dup := cs.byTimestamp[c.Timestamp]; dup {
		return &CorrectionIssue{
			Kind:      IssueDuplicate,
			Timestamp: c.Timestamp,
			Line:      c.Line,
			Detail:    fmt.Sprintf("timestamp %s already has a correction", c.Timestamp),
		}
	}
	for _, name := range sortedFieldNames(c.Fields) {
		if !IsCorrectable(name) {
			return &CorrectionIssue{
				Kind:      IssueUnknownField,
				Timestamp: c.Timestamp,
				Line:      c.Line,
				Detail:    fmt.Sprintf("field %q cannot be corrected", name),
			}
		}
	}
	cs.byTimestamp[c.Timestamp] = c
	cs.order = append(cs.order, c.Timestamp)
	return nil
}

// Len returns the number of corrections held.
func (cs *CorrectionSet) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.byTimestamp)
}

// Get returns the correction for a timestamp.
func (cs *CorrectionSet) Get(ts string) (Correction, bool) {
	if cs == nil {
		return Correction{}, false
	}
	c, ok := cs.byTimestamp[ts]
	return c, ok
}

// All returns the corrections in the order they were added.
func (cs *CorrectionSet) All() []Correction {
	if cs == nil {
		return nil
	}
	out := make([]Correction, 0, len(cs.order))
	for _, ts := range cs.order {
		out = append(out, cs.byTimestamp[ts])
	}
	return out
}

// CorrectionResult is the output of applying a CorrectionSet to a stream.
type CorrectionResult struct {
	Submissions []Submission      `json:"-"`
	Updated     int               `json:"updated"`
	Deleted     int               `json:"deleted"`
	Issues      []CorrectionIssue `json:"issues,omitempty"`
}

// Correct applies the set to the stream in order. Every correction is consumed
// at most once; the set itself is not modified, so the same set can be applied
// to the same stream again with the same result. Corrections never matched by a
// submission are reported as unapplied.
func Correct(stream []Submission, cs *CorrectionSet) CorrectionResult {
	pending := make(map[string]Correction, cs.Len())
	if cs != nil {
		for ts, c := range cs.byTimestamp {
			pending[ts] = c
		}
	}

	res := CorrectionResult{Submissions: make([]Submission, 0, len(stream))}
	for _, s := range stream {
		c, ok := pending[s.Timestamp]
		if !ok {
			res.Submissions = append(res.Submissions, s)
			continue
		}
		delete(pending, s.Timestamp)

		switch c.Op {
		case OpUpdate:
			corrected, err := apply(s, c)
			if err != nil {
				log.Warn("Discarding correction", "ts", c.Timestamp, "error", err)
				res.Issues = append(res.Issues, CorrectionIssue{Kind: IssueUnknownField, Timestamp: c.Timestamp, Line: c.Line, Detail: err.Error()})
				res.Submissions = append(res.Submissions, s)
				continue
			}
			log.Debug("Applied correction", "ts", c.Timestamp, "fields", len(c.Fields))
			res.Updated++
			res.Submissions = append(res.Submissions, corrected)
		case OpDelete:
			log.Debug("Deleted submission by correction", "ts", c.Timestamp, "fixture", s.Key())
			res.Deleted++
		}
	}

	if cs != nil {
		for _, ts := range cs.order {
			c, left := pending[ts]
			if !left {
				continue
			}
			log.Warn("Correction not applied", "ts", ts)
			res.Issues = append(res.Issues, CorrectionIssue{
				Kind:      IssueUnapplied,
				Timestamp: ts,
				Line:      c.Line,
				Detail:    fmt.Sprintf("no submission with timestamp %s", ts),
			})
		}
	}
	return res
}

func apply(s Submission, c Correction) (Submission, error) {
	out := s
	for _, name := range sortedFieldNames(c.Fields) {
		var err error
		out, err = out.With(name, c.Fields[name])
		if err != nil {
			return s, err
		}
	}
	return out, nil
}

func sortedFieldNames(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
