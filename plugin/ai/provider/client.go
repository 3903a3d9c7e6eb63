// Package provider invokes LLM vendors on behalf of the orchestrators.
//
// Each vendor SDK sits behind the Client interface. The Invoker adds the
// per-call timeout, timing and error classification on top, so callers only
// ever see an *ai.InvocationResult or an *aierr.Error.
package provider

import (
	"context"

	"github.com/hrygo/mailmind/plugin/ai"
)

// Request is one single-turn completion request in vendor-neutral form.
type Request struct {
	// Model is the vendor's model identifier, not the registry id.
	Model     string
	System    string
	User      string
	MaxTokens int
}

// Completion is the raw output of one vendor call.
type Completion struct {
	Text  string
	Usage ai.Usage
}

// Client is a connection to one LLM vendor.
type Client interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}
