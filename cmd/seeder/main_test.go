package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/mauv0809/croquet-league/internal/config"
	"github.com/mauv0809/croquet-league/internal/engine"
	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/ingest"
	"github.com/mauv0809/croquet-league/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedSeasonRuns(t *testing.T) {
	s := generate(rand.New(rand.NewSource(1)), 6)
	require.Len(t, s.teams, 6)
	require.NotEmpty(t, s.submissions)
	assert.LessOrEqual(t, len(s.corrections), 1)

	dir := t.TempDir()
	require.NoError(t, s.write(dir))

	lc, err := config.LoadLeague(filepath.Join(dir, "league.yaml"))
	require.NoError(t, err)
	assert.Equal(t, s.leagues, lc.Leagues)

	open := func(path string) *os.File {
		f, err := os.Open(path)
		require.NoError(t, err)
		t.Cleanup(func() { f.Close() })
		return f
	}
	subs, err := ingest.ReadSubmissions(open(lc.Files.Results))
	require.NoError(t, err)
	assert.Equal(t, s.submissions, subs)

	teams, err := ingest.ReadRoster(open(lc.Files.Teams), lc.Leagues)
	require.NoError(t, err)
	reg, err := league.NewRegistry(lc.Leagues, teams)
	require.NoError(t, err)

	set, issues, err := ingest.ReadCorrections(open(lc.Files.Corrections))
	require.NoError(t, err)
	assert.Empty(t, issues)

	res := engine.Run(engine.Input{Submissions: subs, Corrections: set, Registry: reg}, engine.Options{Policy: lc.Recipients})
	assert.NotEmpty(t, res.Admitted)
	assert.NotEmpty(t, res.GameLog)
	assert.Equal(t, len(s.corrections), res.Summary.Updated)
	assert.Empty(t, res.CorrectionIssues)
	for _, e := range res.Events {
		assert.Equal(t, events.KindMissingReport, e.Kind, e.Summary())
	}
}
