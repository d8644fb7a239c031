package notifier

import (
	"context"
	"sync"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendDivisionChangeFunc func(ctx context.Context, n Notification, dryRun bool) error
	SendMatchSummaryFunc   func(ctx context.Context, s MatchSummary, dryRun bool) error

	// Call records
	SendDivisionChangeCalls []Notification
	SendMatchSummaryCalls   []MatchSummary
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendDivisionChangeCalls = nil
	m.SendMatchSummaryCalls = nil
}

func (m *Mock) SendDivisionChange(ctx context.Context, n Notification, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendDivisionChangeCalls = append(m.SendDivisionChangeCalls, n)
	if m.SendDivisionChangeFunc != nil {
		return m.SendDivisionChangeFunc(ctx, n, dryRun)
	}
	return nil
}

func (m *Mock) SendMatchSummary(ctx context.Context, s MatchSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchSummaryCalls = append(m.SendMatchSummaryCalls, s)
	if m.SendMatchSummaryFunc != nil {
		return m.SendMatchSummaryFunc(ctx, s, dryRun)
	}
	return nil
}
