// Package router selects the model that serves each AI task.
// Selection is rule-based and deterministic: explicit preference first, then
// task affinity, then the fixed priority order.
package router

import (
	"github.com/hrygo/mailmind/plugin/ai"
	"github.com/hrygo/mailmind/plugin/ai/registry"
)

// Selector picks a model for a task.
// Consumers: assistant orchestrators, HTTP models endpoint
type Selector interface {
	// Select returns the model to invoke for task.
	// Returns: model descriptor, or an aierr configuration error wrapping
	// ErrNoModelAvailable when nothing is available (callers route to fallback).
	Select(task ai.TaskType, preference string, hints Hints) (registry.ModelDescriptor, error)
}

// Hints are the free-text request fields that influence affinity.
type Hints struct {
	Style    string `json:"style,omitempty"` // template type, e.g. creative, technical
	Industry string `json:"industry,omitempty"`
	Tone     string `json:"tone,omitempty"`
}

// HintsFromRequest extracts the affinity hints of req.
func HintsFromRequest(req *ai.TaskRequest) Hints {
	return Hints{
		Style:    req.TemplateType,
		Industry: req.Industry,
		Tone:     req.Tone,
	}
}

// PreferenceAuto requests automatic selection.
const PreferenceAuto = "auto"
