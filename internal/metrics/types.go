package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	MatchesRated       prometheus.Counter
	MatchesSkipped     *prometheus.CounterVec
	RatingDelta        prometheus.Histogram
	DivisionChanges    *prometheus.CounterVec
	ProcessingDuration prometheus.Histogram
	NotificationsSent  prometheus.Counter
	NotificationsFail  prometheus.Counter
	ImportRuns         prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
