package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for a run.
type Service struct {
	Submissions   prometheus.Counter
	Corrections   *prometheus.CounterVec
	Outcomes      *prometheus.CounterVec
	Events        *prometheus.CounterVec
	Games         prometheus.Counter
	NotifSent     *prometheus.CounterVec
	NotifFailed   *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	LastRunSecond prometheus.Gauge
}
