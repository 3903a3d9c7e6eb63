package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mailmind"

// Collectors exports outcomes as Prometheus metrics.
type Collectors struct {
	tasks      *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	fallbacks  *prometheus.CounterVec
	modelCalls *prometheus.CounterVec
}

// NewCollectors creates the collectors and registers them with reg.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_requests_total",
			Help:      "Task orchestrations by task, producing path and outcome.",
		}, []string{"task", "path", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Task orchestration latency measured from entry.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 90},
		}, []string{"task"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_fallbacks_total",
			Help:      "Degraded results by task and fallback reason.",
		}, []string{"task", "reason"}),
		modelCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_calls_total",
			Help:      "Vendor calls by model and outcome.",
		}, []string{"model", "outcome"}),
	}

	for _, col := range []prometheus.Collector{c.tasks, c.latency, c.fallbacks, c.modelCalls} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collectors) observeTask(o Outcome) {
	path := "model"
	if !strings.HasPrefix(o.Method, "model:") {
		path = "fallback"
	}
	c.tasks.WithLabelValues(o.Task, path, outcomeLabel(o.Success)).Inc()
	c.latency.WithLabelValues(o.Task).Observe(o.Latency.Seconds())
	if o.FallbackReason != "" {
		c.fallbacks.WithLabelValues(o.Task, o.FallbackReason).Inc()
	}
}

func (c *Collectors) observeModelCall(model string, success bool) {
	c.modelCalls.WithLabelValues(model, outcomeLabel(success)).Inc()
}

func outcomeLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
