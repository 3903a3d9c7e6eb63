package provider

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hrygo/mailmind/plugin/ai"
)

// defaultAnthropicMaxTokens is used when the request sets no limit; the
// Messages API requires one.
const defaultAnthropicMaxTokens = 1024

// AnthropicClient serves Claude models through the Messages API.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates a client for pc.
func NewAnthropicClient(pc ai.ProviderConfig) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(pc.APIKey),
	}
	if pc.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(pc.BaseURL))
	}
	for k, v := range pc.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}

	return &AnthropicClient{client: anthropic.NewClient(opts...)}
}

// Complete sends one user message with the system prompt.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &Completion{
		Text:  text.String(),
		Usage: ai.NewUsage(int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens), 0),
	}, nil
}
