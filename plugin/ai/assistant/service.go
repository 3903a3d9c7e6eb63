// Package assistant composes model selection, prompting, invocation, parsing
// and the fallback engine into the five user-facing email tasks.
//
// Every orchestrator ends in a usable result. The only error returned to the
// caller is a validation error for blank required input; configuration,
// provider and parse failures are converted into fallback results.
package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hrygo/mailmind/internal/aierr"
	"github.com/hrygo/mailmind/plugin/ai"
	"github.com/hrygo/mailmind/plugin/ai/fallback"
	"github.com/hrygo/mailmind/plugin/ai/metrics"
	"github.com/hrygo/mailmind/plugin/ai/parser"
	"github.com/hrygo/mailmind/plugin/ai/prompt"
	"github.com/hrygo/mailmind/plugin/ai/registry"
	"github.com/hrygo/mailmind/plugin/ai/router"
	"github.com/hrygo/mailmind/plugin/ai/timeout"
)

// Confidence reported on replies written by a model.
const ConfidenceModel = 0.85

const defaultBulkConcurrency = 4

// Invoker sends a prompt to a model.
type Invoker interface {
	Invoke(ctx context.Context, model registry.ModelDescriptor, payload ai.PromptPayload) (*ai.InvocationResult, error)
}

// Service runs the task orchestrators. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	selector        router.Selector
	builder         *prompt.Builder
	invoker         Invoker
	bulkInvoker     Invoker
	fallback        *fallback.Engine
	metrics         metrics.MetricsService
	bulkConcurrency int

	now func() time.Time
}

// Config contains the collaborators of the service.
type Config struct {
	Selector router.Selector
	Invoker  Invoker
	// BulkInvoker serves bulk runs; nil uses Invoker.
	BulkInvoker Invoker
	// Builder, Fallback and Metrics default when nil.
	Builder         *prompt.Builder
	Fallback        *fallback.Engine
	Metrics         metrics.MetricsService
	BulkConcurrency int
}

// NewService creates a new assistant service.
func NewService(cfg Config) *Service {
	s := &Service{
		selector:        cfg.Selector,
		builder:         cfg.Builder,
		invoker:         cfg.Invoker,
		bulkInvoker:     cfg.BulkInvoker,
		fallback:        cfg.Fallback,
		metrics:         cfg.Metrics,
		bulkConcurrency: cfg.BulkConcurrency,
		now:             time.Now,
	}
	if s.builder == nil {
		s.builder = prompt.NewBuilder()
	}
	if s.fallback == nil {
		s.fallback = fallback.New()
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.bulkInvoker == nil {
		s.bulkInvoker = s.invoker
	}
	if s.bulkConcurrency <= 0 {
		s.bulkConcurrency = defaultBulkConcurrency
	}
	return s
}

// attempt runs the model path: select, build, invoke and parse. It returns
// the invocation alongside a parse error so the tokens it spent are reported.
func (s *Service) attempt(ctx context.Context, inv Invoker, req *ai.TaskRequest) (*parser.Parsed, *ai.InvocationResult, error) {
	if s.selector == nil || inv == nil {
		return nil, nil, aierr.Configuration(aierr.ReasonNoModelAvailable, "model path not configured")
	}

	model, err := s.selector.Select(req.Task, req.ModelPreference, router.HintsFromRequest(req))
	if err != nil {
		slog.Debug("no model selected, using fallback", "task", req.Task, "error", err)
		return nil, nil, err
	}

	payload := s.builder.Build(req)
	start := s.now()
	res, err := inv.Invoke(ctx, model, payload)
	s.metrics.RecordModelCall(ctx, model.ID, s.now().Sub(start), err == nil)
	if err != nil {
		return nil, nil, err
	}

	parsed, err := parser.Parse(req.Task, res.Text, req.Content)
	if err != nil {
		slog.Warn("model output could not be parsed, using fallback",
			"task", req.Task,
			"model", model.ID,
			"raw", truncate(res.Text, timeout.MaxTruncateLength),
			"error", err)
		return nil, res, err
	}
	return parsed, res, nil
}

// fallbackMeta describes a result produced by the fallback engine after err.
// A missing model is the normal fallback branch and carries no reason. Tokens
// spent on output that failed to parse are still reported through inv.
func fallbackMeta(err error, inv *ai.InvocationResult) ai.Meta {
	meta := ai.FallbackMeta("")
	if reason := aierr.ReasonOf(err); reason != "" && !aierr.IsKind(err, aierr.KindConfiguration) {
		meta = ai.FallbackMeta(string(reason))
	}
	if inv != nil {
		meta.Usage = inv.Usage
	}
	return meta
}

func (s *Service) finish(ctx context.Context, task ai.TaskType, start time.Time, meta *ai.Meta) {
	elapsed := s.now().Sub(start)
	meta.ElapsedMs = elapsed.Milliseconds()

	s.metrics.RecordTask(ctx, metrics.Outcome{
		Task:           string(task),
		Method:         string(meta.Method),
		Model:          meta.Method.ModelID(),
		Latency:        elapsed,
		Success:        meta.Success,
		FallbackReason: meta.FallbackReason,
	})

	slog.Info("task completed",
		"task", task,
		"method", meta.Method,
		"latency_ms", meta.ElapsedMs,
		"fallback_reason", meta.FallbackReason)
}

func (s *Service) reject(ctx context.Context, task ai.TaskType, start time.Time, err error) error {
	s.metrics.RecordTask(ctx, metrics.Outcome{
		Task:    string(task),
		Latency: s.now().Sub(start),
		Success: false,
	})
	slog.Debug("task rejected", "task", task, "error", err)
	return err
}

// prepare copies req with task set, so callers may reuse their request.
func prepare(task ai.TaskType, req *ai.TaskRequest) *ai.TaskRequest {
	r := ai.TaskRequest{}
	if req != nil {
		r = *req
	}
	r.Task = task
	return &r
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}

type noopMetrics struct{}

func (noopMetrics) RecordTask(context.Context, metrics.Outcome) {}

func (noopMetrics) RecordModelCall(context.Context, string, time.Duration, bool) {}

func (noopMetrics) GetStats(context.Context, metrics.TimeRange) (*metrics.TaskMetrics, error) {
	return &metrics.TaskMetrics{}, nil
}
