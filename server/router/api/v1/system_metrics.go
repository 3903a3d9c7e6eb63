package v1

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/mailmind/plugin/ai/metrics"
)

// MetricsOverviewResponse represents the overview response of task metrics
type MetricsOverviewResponse struct {
	TotalRequests     int64                    `json:"total_requests"`
	SuccessRate       float64                  `json:"success_rate"`
	FallbackRate      float64                  `json:"fallback_rate"`
	P50LatencyMs      int64                    `json:"p50_latency_ms"`
	P95LatencyMs      int64                    `json:"p95_latency_ms"`
	Tasks             map[string]TaskOverview  `json:"tasks"`
	Models            map[string]ModelOverview `json:"models"`
	FallbacksByReason map[string]int64         `json:"fallbacks_by_reason"`
	TimeRange         string                   `json:"time_range"`
}

// TaskOverview summarizes one task type.
type TaskOverview struct {
	Count        int64   `json:"count"`
	SuccessRate  float32 `json:"success_rate"`
	FallbackRate float32 `json:"fallback_rate"`
	AvgLatencyMs int64   `json:"avg_latency_ms"`
}

// ModelOverview summarizes one model.
type ModelOverview struct {
	Calls        int64   `json:"calls"`
	SuccessRate  float32 `json:"success_rate"`
	AvgLatencyMs int64   `json:"avg_latency_ms"`
}

// GetMetricsOverview returns the task metrics overview
// GET /api/v1/stats?range=1h|24h
func (s *APIV1Service) GetMetricsOverview(c echo.Context) error {
	// Parse time range parameter
	timeRange := c.QueryParam("range")
	if timeRange == "" {
		timeRange = "24h"
	}
	start, err := parseTimeRange(timeRange, time.Now())
	if err != nil {
		slog.Warn("Invalid time range parameter in metrics request", "range", timeRange, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid time range"})
	}

	stats, err := s.Metrics.GetStats(c.Request().Context(), metrics.TimeRange{Start: start})
	if err != nil {
		slog.Error("failed to read task metrics", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "metrics unavailable"})
	}
	return c.JSON(http.StatusOK, overview(stats, timeRange))
}

func overview(stats *metrics.TaskMetrics, timeRange string) MetricsOverviewResponse {
	resp := MetricsOverviewResponse{
		TotalRequests:     stats.RequestCount,
		P50LatencyMs:      stats.LatencyP50.Milliseconds(),
		P95LatencyMs:      stats.LatencyP95.Milliseconds(),
		Tasks:             make(map[string]TaskOverview, len(stats.TaskStats)),
		Models:            make(map[string]ModelOverview, len(stats.ModelStats)),
		FallbacksByReason: stats.FallbacksByReason,
		TimeRange:         timeRange,
	}
	if stats.RequestCount > 0 {
		resp.SuccessRate = float64(stats.SuccessCount) / float64(stats.RequestCount)
		resp.FallbackRate = float64(stats.FallbackCount) / float64(stats.RequestCount)
	}
	for task, st := range stats.TaskStats {
		resp.Tasks[task] = TaskOverview{
			Count:        st.Count,
			SuccessRate:  st.SuccessRate,
			FallbackRate: st.FallbackRate,
			AvgLatencyMs: st.AvgLatency.Milliseconds(),
		}
	}
	for model, st := range stats.ModelStats {
		resp.Models[model] = ModelOverview{
			Calls:        st.Calls,
			SuccessRate:  st.SuccessRate,
			AvgLatencyMs: st.AvgLatency.Milliseconds(),
		}
	}
	return resp
}

// parseTimeRange parses time range string and returns the start time.
// Metrics are kept in memory for a day, so longer ranges are rejected.
func parseTimeRange(timeRange string, now time.Time) (time.Time, error) {
	switch timeRange {
	case "1h":
		return now.Add(-1 * time.Hour), nil
	case "6h":
		return now.Add(-6 * time.Hour), nil
	case "24h":
		return now.Add(-24 * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("invalid time range: %s (valid: 1h, 6h, 24h)", timeRange)
	}
}
