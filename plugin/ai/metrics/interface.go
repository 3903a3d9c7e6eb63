// Package metrics records the outcome of every task orchestration.
//
// Outcomes are aggregated in memory into hour buckets for the stats API and,
// when a Prometheus registerer is supplied, exported as collectors.
package metrics

import (
	"context"
	"time"
)

// Outcome is one finished orchestrator invocation.
type Outcome struct {
	Task string
	// Method is "fallback" or "model:<id>".
	Method string
	// Model is the registry id that produced the result, empty for fallback.
	Model          string
	Latency        time.Duration
	Success        bool
	FallbackReason string
}

// MetricsService defines the task metrics service interface.
type MetricsService interface {
	// RecordTask records one orchestrator outcome.
	RecordTask(ctx context.Context, outcome Outcome)

	// RecordModelCall records one vendor call, successful or not.
	RecordModelCall(ctx context.Context, model string, latency time.Duration, success bool)

	// GetStats retrieves statistics for buckets inside timeRange.
	GetStats(ctx context.Context, timeRange TimeRange) (*TaskMetrics, error)
}

// TimeRange represents a time range for querying metrics.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TaskMetrics represents aggregated task metrics.
type TaskMetrics struct {
	RequestCount  int64                 `json:"request_count"`
	SuccessCount  int64                 `json:"success_count"`
	FallbackCount int64                 `json:"fallback_count"`
	LatencyP50    time.Duration         `json:"latency_p50"`
	LatencyP95    time.Duration         `json:"latency_p95"`
	TaskStats     map[string]*TaskStat  `json:"task_stats"`
	ModelStats    map[string]*ModelStat `json:"model_stats"`
	// FallbacksByReason counts degraded results by fallback reason.
	FallbacksByReason map[string]int64 `json:"fallbacks_by_reason"`
}

// TaskStat represents statistics for a single task type.
type TaskStat struct {
	Count        int64         `json:"count"`
	SuccessRate  float32       `json:"success_rate"`
	FallbackRate float32       `json:"fallback_rate"`
	AvgLatency   time.Duration `json:"avg_latency"`
}

// ModelStat represents statistics for a single model.
type ModelStat struct {
	Calls       int64         `json:"calls"`
	SuccessRate float32       `json:"success_rate"`
	AvgLatency  time.Duration `json:"avg_latency"`
}
