package assistant

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hrygo/mailmind/plugin/ai"
	"github.com/hrygo/mailmind/plugin/ai/metrics"
	"github.com/hrygo/mailmind/plugin/ai/provider"
	"github.com/hrygo/mailmind/plugin/ai/registry"
	"github.com/hrygo/mailmind/plugin/ai/router"
)

// Stack is a fully wired assistant with the collaborators the HTTP and CLI
// layers also read from.
type Stack struct {
	Registry *registry.Registry
	Router   *router.Service
	Service  *Service
}

// NewStack builds the registry, selector, invoker and service from cfg.
// A config without credentials still yields a working stack that answers
// every task through the fallback engine.
func NewStack(ctx context.Context, cfg *ai.Config, m metrics.MetricsService) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid AI config")
	}

	reg := registry.FromConfig(cfg)
	sel := router.NewService(router.Config{Registry: reg, Priority: cfg.Priority})

	inv, err := provider.NewInvokerFromConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create provider clients")
	}

	svc := NewService(Config{
		Selector:        sel,
		Invoker:         inv,
		BulkInvoker:     inv.WithTimeout(cfg.BulkTimeout),
		Metrics:         m,
		BulkConcurrency: cfg.BulkConcurrency,
	})
	return &Stack{Registry: reg, Router: sel, Service: svc}, nil
}
