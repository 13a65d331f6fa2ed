package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Metrics = (*Service)(nil)

// NewService creates and registers the run metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_submissions_total",
			Help: "The total number of captain submissions read.",
		}),
		Corrections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_corrections_total",
			Help: "Corrections by result: updated, deleted, or the issue that kept them from applying.",
		}, []string{"result"}),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_fixture_outcomes_total",
			Help: "Fixtures by reconciliation status.",
		}, []string{"status"}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_events_total",
			Help: "Classified events by kind.",
		}, []string{"kind"}),
		Games: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_games_recorded_total",
			Help: "The total number of individual games recorded in the standings.",
		}),
		NotifSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_notifications_sent_total",
			Help: "Notifications successfully dispatched, by channel.",
		}, []string{"channel"}),
		NotifFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_notifications_failed_total",
			Help: "Notifications that failed to dispatch, by channel.",
		}, []string{"channel"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "league_run_duration_seconds",
			Help:    "The duration of a full reconciliation run.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		LastRunSecond: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "league_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}

	reg.MustRegister(
		s.Submissions,
		s.Corrections,
		s.Outcomes,
		s.Events,
		s.Games,
		s.NotifSent,
		s.NotifFailed,
		s.RunDuration,
		s.LastRunSecond,
	)

	return s
}

// WriteTextfile writes the gathered metrics in the text exposition format,
// for pickup by the node exporter textfile collector.
// If no gatherer is provided, it uses the default one.
func WriteTextfile(path string, gatherer ...prometheus.Gatherer) error {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	if err := prometheus.WriteToTextfile(path, gath); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func (s *Service) AddSubmissions(n int) {
	s.Submissions.Add(float64(n))
}

func (s *Service) AddCorrections(result string, n int) {
	s.Corrections.WithLabelValues(result).Add(float64(n))
}

func (s *Service) AddOutcomes(status string, n int) {
	s.Outcomes.WithLabelValues(status).Add(float64(n))
}

func (s *Service) IncEvent(kind string) {
	s.Events.WithLabelValues(kind).Inc()
}

func (s *Service) AddGames(n int) {
	s.Games.Add(float64(n))
}

func (s *Service) IncNotifSent(channel string) {
	s.NotifSent.WithLabelValues(channel).Inc()
}

func (s *Service) IncNotifFailed(channel string) {
	s.NotifFailed.WithLabelValues(channel).Inc()
}

func (s *Service) ObserveRunDuration(seconds float64) {
	s.RunDuration.Observe(seconds)
}

func (s *Service) SetLastRun(unix float64) {
	s.LastRunSecond.Set(unix)
}
