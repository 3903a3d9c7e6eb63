package profile

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/hrygo/mailmind/plugin/ai/timeout"
)

// Profile is the configuration to start the mailmind server or CLI.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Version is the current version of server
	Version string

	// Provider credentials. A non-empty key makes that provider's models available.
	OpenRouterAPIKey  string // MAILMIND_OPENROUTER_API_KEY (legacy: OPENROUTER_API_KEY)
	OpenRouterBaseURL string // MAILMIND_OPENROUTER_BASE_URL (default: https://openrouter.ai/api/v1)
	OpenAIAPIKey      string // MAILMIND_OPENAI_API_KEY (legacy: OPENAI_API_KEY)
	OpenAIBaseURL     string // MAILMIND_OPENAI_BASE_URL (default: https://api.openai.com/v1)
	AnthropicAPIKey   string // MAILMIND_ANTHROPIC_API_KEY (legacy: ANTHROPIC_API_KEY)
	AnthropicBaseURL  string // MAILMIND_ANTHROPIC_BASE_URL (default: SDK default)
	GeminiAPIKey      string // MAILMIND_GEMINI_API_KEY (legacy: GEMINI_API_KEY, GOOGLE_API_KEY)

	// AppURL and AppName are sent to OpenRouter as attribution headers.
	AppURL  string
	AppName string

	// ModelPriority overrides the default selection order of model ids.
	ModelPriority []string

	RequestTimeout  time.Duration // MAILMIND_REQUEST_TIMEOUT (default: 30s)
	BulkTimeout     time.Duration // MAILMIND_BULK_TIMEOUT (default: 90s)
	BulkConcurrency int           // MAILMIND_BULK_CONCURRENCY (default: 4)

	RateLimit float64 // requests per second per client
	RateBurst int
}

// Defaults applied before env and config file are read.
const (
	DefaultPort              = 8081
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultOpenAIBaseURL     = "https://api.openai.com/v1"
	DefaultRequestTimeout    = timeout.RequestTimeout
	DefaultBulkTimeout       = timeout.BulkRequestTimeout
	DefaultBulkConcurrency   = 4
	maxBulkConcurrency       = 32
)

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// HasAnyProvider returns true if at least one provider credential is configured.
func (p *Profile) HasAnyProvider() bool {
	return p.OpenRouterAPIKey != "" || p.OpenAIAPIKey != "" || p.AnthropicAPIKey != "" || p.GeminiAPIKey != ""
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mode", "dev")
	v.SetDefault("addr", "")
	v.SetDefault("port", DefaultPort)
	v.SetDefault("openrouter-base-url", DefaultOpenRouterBaseURL)
	v.SetDefault("openai-base-url", DefaultOpenAIBaseURL)
	v.SetDefault("app-url", "https://github.com/hrygo/mailmind")
	v.SetDefault("app-name", "mailmind")
	v.SetDefault("request-timeout", DefaultRequestTimeout)
	v.SetDefault("bulk-timeout", DefaultBulkTimeout)
	v.SetDefault("bulk-concurrency", DefaultBulkConcurrency)
	v.SetDefault("rate-limit", 10.0)
	v.SetDefault("rate-burst", 20)
}

// Load builds a Profile from v. Keys resolve in viper order: flags bound by the
// caller, MAILMIND_* env vars, the optional config file, then defaults. Legacy
// bare env names are consulted last for credentials.
func Load(v *viper.Viper, configFile string) (*Profile, error) {
	SetDefaults(v)
	v.SetEnvPrefix("mailmind")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", configFile)
		}
	}

	p := &Profile{
		Mode:              v.GetString("mode"),
		Addr:              v.GetString("addr"),
		Port:              v.GetInt("port"),
		Version:           v.GetString("version"),
		OpenRouterAPIKey:  v.GetString("openrouter-api-key"),
		OpenRouterBaseURL: v.GetString("openrouter-base-url"),
		OpenAIAPIKey:      v.GetString("openai-api-key"),
		OpenAIBaseURL:     v.GetString("openai-base-url"),
		AnthropicAPIKey:   v.GetString("anthropic-api-key"),
		AnthropicBaseURL:  v.GetString("anthropic-base-url"),
		GeminiAPIKey:      v.GetString("gemini-api-key"),
		AppURL:            v.GetString("app-url"),
		AppName:           v.GetString("app-name"),
		ModelPriority:     splitList(v.GetStringSlice("model-priority")),
		RequestTimeout:    v.GetDuration("request-timeout"),
		BulkTimeout:       v.GetDuration("bulk-timeout"),
		BulkConcurrency:   v.GetInt("bulk-concurrency"),
		RateLimit:         v.GetFloat64("rate-limit"),
		RateBurst:         v.GetInt("rate-burst"),
	}
	p.FromLegacyEnv()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// FromLegacyEnv fills empty credentials from the bare vendor env names.
func (p *Profile) FromLegacyEnv() {
	getEnvWithFallback := func(current string, legacyKeys ...string) string {
		if current != "" {
			return current
		}
		for _, key := range legacyKeys {
			if val := os.Getenv(key); val != "" {
				return val
			}
		}
		return ""
	}

	p.OpenRouterAPIKey = getEnvWithFallback(p.OpenRouterAPIKey, "OPENROUTER_API_KEY")
	p.OpenAIAPIKey = getEnvWithFallback(p.OpenAIAPIKey, "OPENAI_API_KEY")
	p.AnthropicAPIKey = getEnvWithFallback(p.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	p.GeminiAPIKey = getEnvWithFallback(p.GeminiAPIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}

	if p.RequestTimeout <= 0 {
		p.RequestTimeout = DefaultRequestTimeout
	}
	if p.BulkTimeout <= 0 {
		p.BulkTimeout = DefaultBulkTimeout
	}
	if p.BulkTimeout < p.RequestTimeout {
		slog.Warn("bulk timeout shorter than request timeout, raising it",
			slog.Duration("bulk_timeout", p.BulkTimeout),
			slog.Duration("request_timeout", p.RequestTimeout))
		p.BulkTimeout = p.RequestTimeout
	}

	if p.BulkConcurrency <= 0 {
		p.BulkConcurrency = DefaultBulkConcurrency
	}
	if p.BulkConcurrency > maxBulkConcurrency {
		p.BulkConcurrency = maxBulkConcurrency
	}

	if p.RateLimit < 0 {
		return errors.Errorf("invalid rate limit %v", p.RateLimit)
	}
	if p.RateBurst <= 0 {
		p.RateBurst = 1
	}

	return nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (p *Profile) ListenAddr() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}
