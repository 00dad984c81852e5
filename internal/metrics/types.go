package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service is the Prometheus-backed implementation of the Metrics interface.
type Service struct {
	MatchesReported    prometheus.Counter
	MatchesConfirmed   prometheus.Counter
	MatchesRejected    prometheus.Counter
	MatchesDisputed    prometheus.Counter
	RatingApplications prometheus.Counter
	StoreErrors        prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	OperationDuration  *prometheus.HistogramVec
	StartupTimeSeconds prometheus.Gauge
}
