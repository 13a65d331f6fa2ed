package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stream() []Submission {
	a := FromRecord(sampleRecord())
	b := FromRecord(sampleRecord())
	b.Timestamp = "2024/05/01 11:00:00"
	b.Reporter, b.Counterpart = "beta@x", "alpha@x"
	return []Submission{a, b}
}

func TestCorrectionSet_Add(t *testing.T) {
	t.Run("duplicate timestamp keeps the first", func(t *testing.T) {
		cs := NewCorrectionSet()
		require.Nil(t, cs.Add(Correction{Timestamp: "t1", Op: OpDelete, Line: 1}))
		issue := cs.Add(Correction{Timestamp: "t1", Op: OpUpdate, Line: 2})
		require.NotNil(t, issue)
		assert.Equal(t, IssueDuplicate, issue.Kind)
		assert.Equal(t, 2, issue.Line)

		c, ok := cs.Get("t1")
		require.True(t, ok)
		assert.Equal(t, OpDelete, c.Op)
		assert.Equal(t, 1, cs.Len())
	})

	t.Run("unknown field discards the correction", func(t *testing.T) {
		cs := NewCorrectionSet()
		issue := cs.Add(Correction{Timestamp: "t1", Op: OpUpdate, Fields: map[string]string{"Colour": "blue"}})
		require.NotNil(t, issue)
		assert.Equal(t, IssueUnknownField, issue.Kind)
		assert.Equal(t, 0, cs.Len())
	})

	t.Run("unknown op is reported even when no submission matches", func(t *testing.T) {
		cs := NewCorrectionSet()
		issue := cs.Add(Correction{Timestamp: "never", Op: "frobnicate", Line: 3})
		require.NotNil(t, issue)
		assert.Equal(t, IssueUnknownOp, issue.Kind)
		assert.Equal(t, "never", issue.Timestamp)
		assert.Equal(t, 3, issue.Line)
		assert.Equal(t, 0, cs.Len())

		// Discarded, so it is not reported again as unapplied.
		assert.Empty(t, Correct(nil, cs).Issues)
	})

	t.Run("empty op is an update", func(t *testing.T) {
		cs := NewCorrectionSet()
		require.Nil(t, cs.Add(Correction{Timestamp: "t1", Fields: map[string]string{ColVenue: "Lawn 2"}}))
		c, ok := cs.Get("t1")
		require.True(t, ok)
		assert.Equal(t, OpUpdate, c.Op)
	})

	t.Run("missing timestamp", func(t *testing.T) {
		cs := NewCorrectionSet()
		issue := cs.Add(Correction{Op: OpDelete})
		require.NotNil(t, issue)
		assert.Equal(t, IssueMalformed, issue.Kind)
	})
}

func TestCorrect(t *testing.T) {
	t.Run("update overwrites named fields", func(t *testing.T) {
		in := stream()
		cs := NewCorrectionSet()
		require.Nil(t, cs.Add(Correction{Timestamp: in[1].Timestamp, Op: OpUpdate, Fields: map[string]string{
			GameColumn(HomeHoops, 1): "25",
			ColVenue:                 "Venue2",
		}}))

		res := Correct(in, cs)
		require.Len(t, res.Submissions, 2)
		assert.Equal(t, 1, res.Updated)
		assert.Empty(t, res.Issues)
		assert.Equal(t, "25", res.Submissions[1].Games[0].HomeHoops)
		assert.Equal(t, "Venue2", res.Submissions[1].Venue)
		assert.Equal(t, "26", in[1].Games[0].HomeHoops, "input stream is not mutated")
	})

	t.Run("delete drops the submission", func(t *testing.T) {
		in := stream()
		cs := NewCorrectionSet()
		require.Nil(t, cs.Add(Correction{Timestamp: in[0].Timestamp, Op: OpDelete}))

		res := Correct(in, cs)
		require.Len(t, res.Submissions, 1)
		assert.Equal(t, in[1].Timestamp, res.Submissions[0].Timestamp)
		assert.Equal(t, 1, res.Deleted)
	})

	t.Run("unknown op leaves the submission alone", func(t *testing.T) {
		in := stream()
		cs := NewCorrectionSet()
		issue := cs.Add(Correction{Timestamp: in[0].Timestamp, Op: "rename", Fields: map[string]string{ColVenue: "Elsewhere"}})
		require.NotNil(t, issue)
		assert.Equal(t, IssueUnknownOp, issue.Kind)

		res := Correct(in, cs)
		require.Len(t, res.Submissions, 2)
		assert.Equal(t, "Venue1", res.Submissions[0].Venue)
		assert.Empty(t, res.Issues)
	})

	t.Run("unmatched corrections are reported in file order", func(t *testing.T) {
		in := stream()
		cs := NewCorrectionSet()
		require.Nil(t, cs.Add(Correction{Timestamp: "never-b", Op: OpDelete, Line: 1}))
		require.Nil(t, cs.Add(Correction{Timestamp: "never-a", Op: OpDelete, Line: 2}))

		res := Correct(in, cs)
		require.Len(t, res.Issues, 2)
		assert.Equal(t, IssueUnapplied, res.Issues[0].Kind)
		assert.Equal(t, "never-b", res.Issues[0].Timestamp)
		assert.Equal(t, "never-a", res.Issues[1].Timestamp)
	})

	t.Run("a correction is consumed once", func(t *testing.T) {
		in := stream()
		in[1].Timestamp = in[0].Timestamp
		cs := NewCorrectionSet()
		require.Nil(t, cs.Add(Correction{Timestamp: in[0].Timestamp, Op: OpDelete}))

		res := Correct(in, cs)
		assert.Len(t, res.Submissions, 1)
		assert.Equal(t, 1, res.Deleted)
	})

	t.Run("the set can be reused", func(t *testing.T) {
		in := stream()
		cs := NewCorrectionSet()
		require.Nil(t, cs.Add(Correction{Timestamp: in[0].Timestamp, Op: OpDelete}))

		first := Correct(in, cs)
		second := Correct(in, cs)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, cs.Len())
	})

	t.Run("nil set", func(t *testing.T) {
		res := Correct(stream(), nil)
		assert.Len(t, res.Submissions, 2)
		assert.Empty(t, res.Issues)
	})
}
