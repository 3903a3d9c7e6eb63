package router

import (
	"github.com/hrygo/mailmind/internal/aierr"
	"github.com/hrygo/mailmind/plugin/ai"
	"github.com/hrygo/mailmind/plugin/ai/registry"
)

// MockSelector is a mock implementation of Selector for testing.
type MockSelector struct {
	// ModelOverrides allows tests to override selection per task
	ModelOverrides map[ai.TaskType]registry.ModelDescriptor
	// Default is returned for tasks without an override; a zero ID means none available.
	Default registry.ModelDescriptor
	// Calls records the tasks Select was called with.
	Calls []ai.TaskType
}

// NewMockSelector creates a new MockSelector that returns def for every task.
func NewMockSelector(def registry.ModelDescriptor) *MockSelector {
	return &MockSelector{
		ModelOverrides: make(map[ai.TaskType]registry.ModelDescriptor),
		Default:        def,
	}
}

// Select returns the override for task, or the default.
func (m *MockSelector) Select(task ai.TaskType, _ string, _ Hints) (registry.ModelDescriptor, error) {
	m.Calls = append(m.Calls, task)
	if d, ok := m.ModelOverrides[task]; ok {
		return d, nil
	}
	if m.Default.ID == "" {
		return registry.ModelDescriptor{}, aierr.Configuration(aierr.ReasonNoModelAvailable, "no model available")
	}
	return m.Default, nil
}

// Ensure MockSelector implements Selector
var _ Selector = (*MockSelector)(nil)
