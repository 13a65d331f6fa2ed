package http

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mauv0809/croquet-league/internal/engine"
	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/league"
	"github.com/mauv0809/croquet-league/internal/ledger"
	"github.com/mauv0809/croquet-league/internal/metrics"
	"github.com/mauv0809/croquet-league/internal/notifier"
	"github.com/mauv0809/croquet-league/internal/processor"
	"github.com/mauv0809/croquet-league/internal/report"
	"github.com/mauv0809/croquet-league/internal/submission"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader(t *testing.T) Loader {
	t.Helper()
	reg, err := league.NewRegistry([]string{"A Level"}, []league.Team{
		{Name: "Alpha", Email: "alpha@x", Levels: map[string]int{"A Level": 2}},
		{Name: "Beta", Email: "beta@x", Levels: map[string]int{"A Level": 2}},
		{Name: "Gamma", Email: "gamma@x", Levels: map[string]int{"A Level": 2}},
	})
	require.NoError(t, err)

	mk := func(ts, reporter, counterpart, home, away string) submission.Submission {
		s := submission.Submission{
			Timestamp: ts, League: "A Level", Date: "2024-05-01", Venue: "Lawn 1",
			HomeTeam: home, AwayTeam: away, Reporter: reporter, Counterpart: counterpart,
		}
		s.Games[0] = submission.Game{HomeHoops: "26", AwayHoops: "10"}
		s.Games[1] = submission.Game{HomeHoops: "26", AwayHoops: "12"}
		return s
	}
	in := engine.Input{
		Submissions: []submission.Submission{
			mk("t1", "alpha@x", "beta@x", "Alpha", "Beta"),
			mk("t2", "beta@x", "alpha@x", "Alpha", "Beta"),
			mk("t3", "gamma@x", "alpha@x", "Gamma", "Alpha"),
		},
		Registry: reg,
	}
	return func() (engine.Input, engine.Options, error) {
		return in, engine.Options{Policy: events.DefaultPolicy()}, nil
	}
}

// setupTestServer wires a server to an in-memory ledger and mock notifier.
func setupTestServer(t *testing.T, load Loader, output string) (*Server, *ledger.MockLedger, *notifier.Mock) {
	t.Helper()
	store := ledger.NewMock()
	notif := notifier.NewMock()
	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	proc := processor.New(store, notif, metricsSvc, nil, events.Contacts{Rankings: "rankings@league"}, "")
	return NewServer(store, proc, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), load, output), store, notif
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheckHandler(t *testing.T) {
	s, _, _ := setupTestServer(t, testLoader(t), "")
	rr := do(t, s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestStandingsHandlers(t *testing.T) {
	s, _, notif := setupTestServer(t, testLoader(t), "")

	t.Run("all tables", func(t *testing.T) {
		rr := do(t, s, http.MethodGet, "/standings")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var tables []tableResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tables))
		require.Len(t, tables, 1)
		assert.Equal(t, "A Level", tables[0].League)
		assert.Equal(t, "1 completed, 0 started, 2 not started", tables[0].Status)
		assert.Equal(t, "Team", tables[0].Grid[0][0])
	})

	t.Run("one league as csv", func(t *testing.T) {
		rr := do(t, s, http.MethodGet, "/standings/A%20Level?format=csv")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
		rows, err := csv.NewReader(rr.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, "Team", rows[0][0])
	})

	t.Run("unknown league", func(t *testing.T) {
		rr := do(t, s, http.MethodGet, "/standings/Z%20Level")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("events", func(t *testing.T) {
		rr := do(t, s, http.MethodGet, "/events")
		require.Equal(t, http.StatusOK, rr.Code)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, string(events.KindMissingReport), got[0]["kind"])
	})

	// Reading never dispatches.
	assert.Empty(t, notif.SendEventCalls)
}

func TestProcessHandler(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	s, store, notif := setupTestServer(t, testLoader(t), out)

	t.Run("dry run writes and records nothing", func(t *testing.T) {
		rr := do(t, s, http.MethodPost, "/process?notify=true&dry_run=true")
		require.Equal(t, http.StatusOK, rr.Code)

		var got runResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.True(t, got.DryRun)
		assert.Equal(t, 1, got.Sent)
		assert.Empty(t, store.RecordRunCalls)
		assert.Empty(t, store.MarkNotifiedCalls)
		_, err := os.Stat(out)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("notify dispatches once", func(t *testing.T) {
		notif.Reset()
		rr := do(t, s, http.MethodPost, "/process?notify=true")
		require.Equal(t, http.StatusOK, rr.Code)
		var first runResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &first))
		assert.Equal(t, 1, first.Sent)
		assert.Equal(t, 3, first.Summary.Submissions)
		assert.Len(t, first.Digest, 64)
		_, err := os.Stat(filepath.Join(out, report.GameLogFile))
		assert.NoError(t, err)

		rr = do(t, s, http.MethodPost, "/process?notify=true")
		require.Equal(t, http.StatusOK, rr.Code)
		var second runResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &second))
		assert.Zero(t, second.Sent)
		assert.Equal(t, 1, second.AlreadyNotified)
		assert.Equal(t, first.Digest, second.Digest)
		assert.Len(t, notif.SendEventCalls, 1)
	})

	t.Run("runs and notices are listed", func(t *testing.T) {
		rr := do(t, s, http.MethodGet, "/runs?limit=1")
		require.Equal(t, http.StatusOK, rr.Code)
		var runs []ledger.Run
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &runs))
		assert.Len(t, runs, 1)

		rr = do(t, s, http.MethodGet, "/runs?limit=many")
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = do(t, s, http.MethodGet, "/notified")
		require.Equal(t, http.StatusOK, rr.Code)
		var notes []ledger.Notification
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &notes))
		require.Len(t, notes, 1)
		assert.Equal(t, string(events.KindMissingReport), notes[0].Kind)
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		rr := do(t, s, http.MethodGet, "/metrics")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "league_submissions_total 9")
	})

	t.Run("process only accepts POST", func(t *testing.T) {
		rr := do(t, s, http.MethodGet, "/process")
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}

func TestLoadFailure(t *testing.T) {
	failing := func() (engine.Input, engine.Options, error) {
		return engine.Input{}, engine.Options{}, errors.New("results.csv: no such file")
	}
	s, store, _ := setupTestServer(t, failing, "")

	assert.Equal(t, http.StatusInternalServerError, do(t, s, http.MethodGet, "/standings").Code)
	assert.Equal(t, http.StatusInternalServerError, do(t, s, http.MethodPost, "/process").Code)
	assert.Empty(t, store.RecordRunCalls)
}
