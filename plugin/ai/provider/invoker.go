package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrygo/mailmind/internal/aierr"
	"github.com/hrygo/mailmind/plugin/ai"
	"github.com/hrygo/mailmind/plugin/ai/registry"
	"github.com/hrygo/mailmind/plugin/ai/timeout"
)

// Invoker executes prompts against the vendor that hosts a model. It holds
// no per-request state and is safe for concurrent use.
type Invoker struct {
	clients map[string]Client
	timeout time.Duration
}

// NewInvoker creates an invoker over clients keyed by provider name. A
// non-positive timeout uses timeout.RequestTimeout.
func NewInvoker(clients map[string]Client, d time.Duration) *Invoker {
	if d <= 0 {
		d = timeout.RequestTimeout
	}
	cs := make(map[string]Client, len(clients))
	for name, c := range clients {
		cs[name] = c
	}
	return &Invoker{clients: cs, timeout: d}
}

// NewInvokerFromConfig builds an SDK client for every configured provider.
func NewInvokerFromConfig(ctx context.Context, cfg *ai.Config) (*Invoker, error) {
	clients := make(map[string]Client)
	for name, pc := range cfg.Providers {
		if pc.APIKey == "" {
			continue
		}
		switch name {
		case ai.ProviderOpenRouter, ai.ProviderOpenAI:
			clients[name] = NewOpenAIClient(pc)
		case ai.ProviderAnthropic:
			clients[name] = NewAnthropicClient(pc)
		case ai.ProviderGemini:
			c, err := NewGeminiClient(ctx, pc)
			if err != nil {
				return nil, err
			}
			clients[name] = c
		default:
			return nil, fmt.Errorf("unsupported LLM provider: %s", name)
		}
	}
	return NewInvoker(clients, cfg.RequestTimeout), nil
}

// WithTimeout returns an invoker sharing the same clients with another per-call timeout.
func (i *Invoker) WithTimeout(d time.Duration) *Invoker {
	if d <= 0 {
		return i
	}
	return &Invoker{clients: i.clients, timeout: d}
}

// Timeout returns the per-call timeout.
func (i *Invoker) Timeout() time.Duration {
	return i.timeout
}

// Invoke sends payload to model. Every failure, including timeout and
// cancellation, is returned as an *aierr.Error.
func (i *Invoker) Invoke(ctx context.Context, model registry.ModelDescriptor, payload ai.PromptPayload) (*ai.InvocationResult, error) {
	client, ok := i.clients[model.Provider]
	if !ok {
		return nil, aierr.Configuration(aierr.ReasonNoModelAvailable,
			fmt.Sprintf("no client for provider %q of model %q", model.Provider, model.ID))
	}

	maxTokens := payload.MaxTokens
	if maxTokens <= 0 || (model.MaxOutputTokens > 0 && maxTokens > model.MaxOutputTokens) {
		maxTokens = model.MaxOutputTokens
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.Debug("invoking model",
			"task", payload.Task,
			"model", model.ID,
			"prompt_version", payload.Version,
			"prompt", ai.FormatMessages(payload.Messages()))
	}

	start := time.Now()
	comp, err := client.Complete(ctx, Request{
		Model:     model.ModelID,
		System:    payload.System,
		User:      payload.User,
		MaxTokens: maxTokens,
	})
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		classified := Classify(err).WithContext("model", model.ID)
		slog.Warn("model invocation failed",
			"task", payload.Task,
			"model", model.ID,
			"provider", model.Provider,
			"latency_ms", elapsed,
			"reason", classified.Reason,
			"error", err)
		return nil, classified
	}

	slog.Debug("model invocation completed",
		"task", payload.Task,
		"model", model.ID,
		"latency_ms", elapsed,
		"total_tokens", comp.Usage.TotalTokens)

	return &ai.InvocationResult{
		ModelID:   model.ID,
		Provider:  model.Provider,
		Text:      comp.Text,
		ElapsedMs: elapsed,
		Usage:     comp.Usage,
	}, nil
}
