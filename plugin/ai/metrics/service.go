package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures the metrics service.
type Config struct {
	// Registerer receives the Prometheus collectors; nil disables export.
	Registerer prometheus.Registerer
	Retention  RetentionConfig
}

// Service implements the MetricsService interface.
type Service struct {
	aggregator *Aggregator
	retention  *Retention
	collectors *Collectors
}

// NewService creates a new metrics service and starts its retention loop.
func NewService(cfg Config) (*Service, error) {
	aggregator := NewAggregator()

	svc := &Service{
		aggregator: aggregator,
		retention:  NewRetention(aggregator, cfg.Retention),
	}

	if cfg.Registerer != nil {
		collectors, err := NewCollectors(cfg.Registerer)
		if err != nil {
			return nil, err
		}
		svc.collectors = collectors
	}

	svc.retention.Start()
	return svc, nil
}

// Close stops the retention loop.
func (s *Service) Close() {
	s.retention.Close()
}

// RecordTask records an orchestrator outcome.
func (s *Service) RecordTask(_ context.Context, o Outcome) {
	s.aggregator.RecordTask(o)
	if s.collectors != nil {
		s.collectors.observeTask(o)
	}
}

// RecordModelCall records a vendor call.
func (s *Service) RecordModelCall(_ context.Context, model string, latency time.Duration, success bool) {
	s.aggregator.RecordModelCall(model, latency, success)
	if s.collectors != nil {
		s.collectors.observeModelCall(model, success)
	}
}

// GetStats retrieves aggregated statistics for the given time range.
func (s *Service) GetStats(_ context.Context, timeRange TimeRange) (*TaskMetrics, error) {
	return s.aggregator.GetStats(timeRange.Start, timeRange.End), nil
}

var _ MetricsService = (*Service)(nil)
