// Package router provides the model selection service.
package router

import (
	"fmt"
	"log/slog"

	"github.com/hrygo/mailmind/internal/aierr"
	"github.com/hrygo/mailmind/plugin/ai"
	"github.com/hrygo/mailmind/plugin/ai/registry"
)

// ErrNoModelAvailable is wrapped by Select when no model can serve a task.
var ErrNoModelAvailable = aierr.ErrNoModelAvailable

// Service implements the three-step Selector.
// Step 1: explicit preference, if it names an available model
// Step 2: static affinity table for task and hints
// Step 3: fixed priority order
type Service struct {
	registry    *registry.Registry
	ruleMatcher *RuleMatcher
	priority    []string
}

// Config contains the configuration for the router service.
type Config struct {
	Registry *registry.Registry
	// Rules overrides the affinity table; nil uses DefaultAffinityRules.
	Rules []AffinityRule
	// Priority overrides the fixed order; empty uses the registry catalog order.
	Priority []string
}

// NewService creates a new router service.
func NewService(cfg Config) *Service {
	priority := cfg.Priority
	if len(priority) == 0 {
		priority = cfg.Registry.IDs()
	} else {
		// Catalog models missing from an override keep their catalog order at the tail.
		priority = append([]string(nil), priority...)
		for _, id := range cfg.Registry.IDs() {
			if !contains(priority, id) {
				priority = append(priority, id)
			}
		}
	}
	return &Service{
		registry:    cfg.Registry,
		ruleMatcher: NewRuleMatcher(cfg.Rules),
		priority:    priority,
	}
}

// Select returns the model to invoke for task.
func (s *Service) Select(task ai.TaskType, preference string, hints Hints) (registry.ModelDescriptor, error) {
	// Step 1: explicit preference
	if preference != "" && preference != PreferenceAuto {
		if s.registry.IsAvailable(preference) {
			m, _ := s.registry.Get(preference)
			slog.Debug("model selected by preference", "task", task, "model", m.ID)
			return m, nil
		}
		slog.Warn("preferred model unavailable, selecting automatically",
			"task", task,
			"preference", preference)
	}

	// Step 2: affinity
	if rule, ok := s.ruleMatcher.Match(task, hints); ok {
		if m, found := s.firstAvailable(rule.Models); found {
			slog.Debug("model selected by affinity",
				"task", task,
				"rule", rule.Name,
				"model", m.ID)
			return m, nil
		}
	}

	// Step 3: fixed priority
	if m, found := s.firstAvailable(s.priority); found {
		slog.Debug("model selected by priority", "task", task, "model", m.ID)
		return m, nil
	}

	return registry.ModelDescriptor{}, aierr.Configuration(aierr.ReasonNoModelAvailable,
		fmt.Sprintf("no model available for %s", task))
}

// Priority returns the fixed selection order.
func (s *Service) Priority() []string {
	return append([]string(nil), s.priority...)
}

func (s *Service) firstAvailable(ids []string) (registry.ModelDescriptor, bool) {
	for _, id := range ids {
		if s.registry.IsAvailable(id) {
			m, err := s.registry.Get(id)
			if err == nil {
				return m, true
			}
		}
	}
	return registry.ModelDescriptor{}, false
}

// Ensure Service implements Selector
var _ Selector = (*Service)(nil)
