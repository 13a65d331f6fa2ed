package metrics

// Metrics defines the interface for collecting run metrics.
// This decouples the pipeline from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	AddSubmissions(n int)
	AddCorrections(result string, n int)
	AddOutcomes(status string, n int)
	IncEvent(kind string)
	AddGames(n int)
	IncNotifSent(channel string)
	IncNotifFailed(channel string)
	ObserveRunDuration(seconds float64)
	SetLastRun(unix float64)
}
