package metrics

import (
	"math"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesRated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_matches_rated_total",
			Help: "The total number of matches whose result was applied to player ratings.",
		}),
		MatchesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padel_matches_skipped_total",
			Help: "The total number of matches that were not rated, by reason.",
		}, []string{"reason"}),
		RatingDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "padel_rating_delta_points",
			Help:    "Absolute rating points moved per team and match.",
			Buckets: []float64{5, 10, 25, 50, 100, 150, 250, 400, 600, 1000, 1500},
		}),
		DivisionChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padel_division_changes_total",
			Help: "The total number of division changes, by direction.",
		}, []string{"direction"}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "padel_match_processing_duration_seconds",
			Help:    "The duration of rating a single match, persistence included.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotificationsFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		ImportRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_import_runs_total",
			Help: "The total number of times played matches were imported from Playtomic.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "padel_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesRated,
		s.MatchesSkipped,
		s.RatingDelta,
		s.DivisionChanges,
		s.ProcessingDuration,
		s.NotificationsSent,
		s.NotificationsFail,
		s.ImportRuns,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesRated() {
	s.MatchesRated.Inc()
}

func (s *Service) IncMatchesSkipped(reason string) {
	s.MatchesSkipped.WithLabelValues(reason).Inc()
}

func (s *Service) ObserveRatingDelta(points float64) {
	s.RatingDelta.Observe(math.Abs(points))
}

func (s *Service) IncDivisionChange(promotion bool) {
	direction := "relegation"
	if promotion {
		direction = "promotion"
	}
	s.DivisionChanges.WithLabelValues(direction).Inc()
}

func (s *Service) ObserveProcessingDuration(seconds float64) {
	s.ProcessingDuration.Observe(seconds)
}

func (s *Service) IncNotificationSent() {
	s.NotificationsSent.Inc()
}

func (s *Service) IncNotificationFailed() {
	s.NotificationsFail.Inc()
}

func (s *Service) IncImportRuns() {
	s.ImportRuns.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
