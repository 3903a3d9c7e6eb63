package metrics

import (
	"context"
	"sync"
	"time"
)

// MockMetricsService records calls for assertions in tests.
type MockMetricsService struct {
	mu         sync.RWMutex
	outcomes   []Outcome
	modelCalls []modelCallRecord
}

type modelCallRecord struct {
	Model   string
	Latency time.Duration
	Success bool
}

// NewMockMetricsService creates a new MockMetricsService.
func NewMockMetricsService() *MockMetricsService {
	return &MockMetricsService{}
}

// RecordTask records an orchestrator outcome.
func (m *MockMetricsService) RecordTask(_ context.Context, o Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, o)
}

// RecordModelCall records a vendor call.
func (m *MockMetricsService) RecordModelCall(_ context.Context, model string, latency time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modelCalls = append(m.modelCalls, modelCallRecord{Model: model, Latency: latency, Success: success})
}

// GetStats replays the recorded calls through a fresh aggregator. The time
// range is ignored.
func (m *MockMetricsService) GetStats(_ context.Context, _ TimeRange) (*TaskMetrics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	agg := NewAggregator()
	for _, o := range m.outcomes {
		agg.RecordTask(o)
	}
	for _, c := range m.modelCalls {
		agg.RecordModelCall(c.Model, c.Latency, c.Success)
	}
	return agg.GetCurrentStats(), nil
}

// Outcomes returns the recorded outcomes in order.
func (m *MockMetricsService) Outcomes() []Outcome {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Outcome, len(m.outcomes))
	copy(out, m.outcomes)
	return out
}

// ModelCalls returns the number of recorded vendor calls.
func (m *MockMetricsService) ModelCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.modelCalls)
}

// Clear removes all recorded metrics.
func (m *MockMetricsService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = nil
	m.modelCalls = nil
}

// Ensure MockMetricsService implements MetricsService
var _ MetricsService = (*MockMetricsService)(nil)
