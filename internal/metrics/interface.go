package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesRated()
	IncMatchesSkipped(reason string)
	ObserveRatingDelta(points float64)
	IncDivisionChange(promotion bool)
	ObserveProcessingDuration(seconds float64)
	IncNotificationSent()
	IncNotificationFailed()
	IncImportRuns()
	SetStartupTime(duration float64)
}
