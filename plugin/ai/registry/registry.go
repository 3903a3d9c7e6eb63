// Package registry provides the immutable catalog of LLM models the core can route to.
package registry

import (
	"slices"

	"github.com/hrygo/mailmind/internal/aierr"
	"github.com/hrygo/mailmind/plugin/ai"
)

// ErrModelNotFound is returned by Get for an id outside the catalog.
var ErrModelNotFound = aierr.Configuration(aierr.ReasonUnknownModel, "model not found")

// Capability tags.
const (
	CapProfessional = "professional"
	CapTechnical    = "technical"
	CapDetailed     = "detailed"
	CapCreative     = "creative"
	CapAnalytical   = "analytical"
	CapComplex      = "complex"
	CapConcise      = "concise"
	CapUrgent       = "urgent"
	CapSimple       = "simple"
	CapFast         = "fast"
)

// Model ids of the built-in catalog.
const (
	ModelQwenTurbo    = "qwen-4-turbo"
	ModelClaudeSonnet = "claude-4-sonnet"
	ModelGPT4o        = "gpt-4o"
	ModelGeminiFlash  = "gemini-flash"
)

// ModelDescriptor describes one routable model. It is a value type and is never
// mutated after the registry is built.
type ModelDescriptor struct {
	ID              string   `json:"id"`
	Provider        string   `json:"provider"`
	ModelID         string   `json:"model_id"`
	Capabilities    []string `json:"capabilities"`
	MaxOutputTokens int      `json:"max_output_tokens"`
	CostPerToken    float64  `json:"cost_per_token"`
	Available       bool     `json:"available"`
}

// HasCapability reports whether the model is tagged with capability.
func (m ModelDescriptor) HasCapability(capability string) bool {
	return slices.Contains(m.Capabilities, capability)
}

// DefaultCatalog returns the built-in models in default priority order.
func DefaultCatalog() []ModelDescriptor {
	return []ModelDescriptor{
		{
			ID:              ModelQwenTurbo,
			Provider:        ai.ProviderOpenRouter,
			ModelID:         "qwen/qwen3-30b-a3b-instruct-2507",
			Capabilities:    []string{CapProfessional, CapTechnical, CapDetailed},
			MaxOutputTokens: 2048,
			CostPerToken:    0.0001,
		},
		{
			ID:              ModelClaudeSonnet,
			Provider:        ai.ProviderAnthropic,
			ModelID:         "claude-sonnet-4-20250514",
			Capabilities:    []string{CapCreative, CapAnalytical, CapComplex},
			MaxOutputTokens: 4096,
			CostPerToken:    0.0003,
		},
		{
			ID:              ModelGPT4o,
			Provider:        ai.ProviderOpenAI,
			ModelID:         "gpt-4o",
			Capabilities:    []string{CapConcise, CapUrgent, CapSimple},
			MaxOutputTokens: 1024,
			CostPerToken:    0.0002,
		},
		{
			ID:              ModelGeminiFlash,
			Provider:        ai.ProviderGemini,
			ModelID:         "gemini-2.5-flash",
			Capabilities:    []string{CapConcise, CapSimple, CapFast},
			MaxOutputTokens: 2048,
			CostPerToken:    0.00005,
		},
	}
}

// Registry is a read-only model catalog. Availability is decided once in New,
// so a Registry is safe for concurrent use without locking.
type Registry struct {
	models []ModelDescriptor
	byID   map[string]int
}

// New builds a registry from catalog. configured reports whether a provider
// has a credential; a nil func marks every model unavailable.
func New(catalog []ModelDescriptor, configured func(provider string) bool) *Registry {
	r := &Registry{
		models: make([]ModelDescriptor, 0, len(catalog)),
		byID:   make(map[string]int, len(catalog)),
	}
	for _, m := range catalog {
		if _, dup := r.byID[m.ID]; dup {
			continue
		}
		m.Capabilities = slices.Clone(m.Capabilities)
		m.Available = configured != nil && configured(m.Provider)
		r.byID[m.ID] = len(r.models)
		r.models = append(r.models, m)
	}
	return r
}

// FromConfig builds the default catalog with availability taken from cfg.
func FromConfig(cfg *ai.Config) *Registry {
	return New(DefaultCatalog(), cfg.Configured)
}

// List returns every model, available or not, in catalog order.
func (r *Registry) List() []ModelDescriptor {
	return cloneAll(r.models)
}

// ListAvailable returns the models whose provider is configured, in catalog order.
func (r *Registry) ListAvailable() []ModelDescriptor {
	out := make([]ModelDescriptor, 0, len(r.models))
	for _, m := range r.models {
		if m.Available {
			out = append(out, clone(m))
		}
	}
	return out
}

// Get returns the model with id, whether or not it is available.
func (r *Registry) Get(id string) (ModelDescriptor, error) {
	i, ok := r.byID[id]
	if !ok {
		return ModelDescriptor{}, ErrModelNotFound
	}
	return clone(r.models[i]), nil
}

// IsAvailable reports whether id names an available model.
func (r *Registry) IsAvailable(id string) bool {
	i, ok := r.byID[id]
	return ok && r.models[i].Available
}

// IDs returns all model ids in catalog order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.models))
	for i, m := range r.models {
		ids[i] = m.ID
	}
	return ids
}

func clone(m ModelDescriptor) ModelDescriptor {
	m.Capabilities = slices.Clone(m.Capabilities)
	return m
}

func cloneAll(models []ModelDescriptor) []ModelDescriptor {
	out := make([]ModelDescriptor, len(models))
	for i, m := range models {
		out[i] = clone(m)
	}
	return out
}
