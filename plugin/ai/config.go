package ai

import (
	"errors"
	"fmt"
	"time"

	"github.com/hrygo/mailmind/internal/profile"
)

// Provider names.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
)

// KnownProviders lists every provider the invoker has a client for.
var KnownProviders = []string{ProviderOpenRouter, ProviderOpenAI, ProviderAnthropic, ProviderGemini}

// Config represents AI configuration.
type Config struct {
	Providers map[string]ProviderConfig

	// Priority is the fixed model selection order; empty uses the registry default.
	Priority []string

	RequestTimeout  time.Duration
	BulkTimeout     time.Duration
	BulkConcurrency int
}

// ProviderConfig represents the connection settings of one LLM vendor.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	// Headers are extra request headers, used for OpenRouter attribution.
	Headers map[string]string
}

// NewConfigFromProfile creates AI config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		Providers:       make(map[string]ProviderConfig),
		Priority:        p.ModelPriority,
		RequestTimeout:  p.RequestTimeout,
		BulkTimeout:     p.BulkTimeout,
		BulkConcurrency: p.BulkConcurrency,
	}

	if p.OpenRouterAPIKey != "" {
		cfg.Providers[ProviderOpenRouter] = ProviderConfig{
			APIKey:  p.OpenRouterAPIKey,
			BaseURL: p.OpenRouterBaseURL,
			Headers: map[string]string{
				"HTTP-Referer": p.AppURL,
				"X-Title":      p.AppName,
			},
		}
	}
	if p.OpenAIAPIKey != "" {
		cfg.Providers[ProviderOpenAI] = ProviderConfig{
			APIKey:  p.OpenAIAPIKey,
			BaseURL: p.OpenAIBaseURL,
		}
	}
	if p.AnthropicAPIKey != "" {
		cfg.Providers[ProviderAnthropic] = ProviderConfig{
			APIKey:  p.AnthropicAPIKey,
			BaseURL: p.AnthropicBaseURL,
		}
	}
	if p.GeminiAPIKey != "" {
		cfg.Providers[ProviderGemini] = ProviderConfig{
			APIKey: p.GeminiAPIKey,
		}
	}

	return cfg
}

// Configured reports whether provider has a credential.
func (c *Config) Configured(provider string) bool {
	if c == nil {
		return false
	}
	pc, ok := c.Providers[provider]
	return ok && pc.APIKey != ""
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for name := range c.Providers {
		if !isKnownProvider(name) {
			return fmt.Errorf("unsupported LLM provider: %s", name)
		}
	}

	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}

	if c.BulkTimeout < c.RequestTimeout {
		return errors.New("bulk timeout must not be shorter than request timeout")
	}

	if c.BulkConcurrency <= 0 {
		return errors.New("bulk concurrency must be positive")
	}

	return nil
}

func isKnownProvider(name string) bool {
	for _, p := range KnownProviders {
		if p == name {
			return true
		}
	}
	return false
}
