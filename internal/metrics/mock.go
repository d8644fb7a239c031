package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	matchesRated        int
	matchesSkipped      map[string]int
	ratingDeltas        []float64
	promotions          int
	relegations         int
	processingDurations []float64
	notificationsSent   int
	notificationsFailed int
	importRuns          int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		matchesSkipped:      make(map[string]int),
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesRated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRated++
}

func (m *Mock) IncMatchesSkipped(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesSkipped[reason]++
}

func (m *Mock) ObserveRatingDelta(points float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratingDeltas = append(m.ratingDeltas, points)
}

func (m *Mock) IncDivisionChange(promotion bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if promotion {
		m.promotions++
	} else {
		m.relegations++
	}
}

func (m *Mock) ObserveProcessingDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, seconds)
}

func (m *Mock) IncNotificationSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsSent++
}

func (m *Mock) IncNotificationFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsFailed++
}

func (m *Mock) IncImportRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.importRuns++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesRated returns the number of times IncMatchesRated was called.
func (m *Mock) MatchesRated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRated
}

// MatchesSkipped returns how often a match was skipped for reason.
func (m *Mock) MatchesSkipped(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesSkipped[reason]
}

// RatingDeltas returns every observed rating delta.
func (m *Mock) RatingDeltas() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.ratingDeltas))
	copy(out, m.ratingDeltas)
	return out
}

// DivisionChanges returns the promotion and relegation counts.
func (m *Mock) DivisionChanges() (promotions, relegations int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.promotions, m.relegations
}

// ProcessingDurations returns every observed processing duration.
func (m *Mock) ProcessingDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.processingDurations))
	copy(out, m.processingDurations)
	return out
}

// NotificationsSent returns the number of times IncNotificationSent was called.
func (m *Mock) NotificationsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsSent
}

// NotificationsFailed returns the number of times IncNotificationFailed was called.
func (m *Mock) NotificationsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsFailed
}

// ImportRuns returns the number of times IncImportRuns was called.
func (m *Mock) ImportRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.importRuns
}
