package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.AddSubmissions(4)
	s.AddOutcomes("confirmed", 2)
	s.AddOutcomes("unconfirmed", 1)
	s.AddCorrections("updated", 3)
	s.IncEvent("missing-report")
	s.IncNotifSent("slack")
	s.IncNotifFailed("pubsub")
	s.AddGames(3)
	s.ObserveRunDuration(0.2)

	assert.Equal(t, 4.0, testutil.ToFloat64(s.Submissions))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.Outcomes.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Outcomes.WithLabelValues("unconfirmed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(s.Corrections.WithLabelValues("updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.NotifSent.WithLabelValues("slack")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.NotifFailed.WithLabelValues("pubsub")))
	assert.Equal(t, 3.0, testutil.ToFloat64(s.Games))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.AddSubmissions(2)
	s.SetLastRun(1714557600)

	path := filepath.Join(t.TempDir(), "league.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "league_submissions_total 2")
	assert.Contains(t, string(data), "league_last_run_timestamp_seconds")
}
