package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesReported()
	IncMatchesConfirmed()
	IncMatchesRejected()
	IncMatchesDisputed()
	IncRatingApplications()
	IncStoreErrors()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	ObserveOperationDuration(operation string, seconds float64)
	SetStartupTime(duration float64)
}
