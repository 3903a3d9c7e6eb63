package provider

import (
	"context"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/hrygo/mailmind/plugin/ai"
)

// OpenAIClient serves OpenAI and any OpenAI compatible endpoint such as
// OpenRouter.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a client for pc. Extra headers in pc are sent with
// every request.
func NewOpenAIClient(pc ai.ProviderConfig) *OpenAIClient {
	clientConfig := openai.DefaultConfig(pc.APIKey)
	if pc.BaseURL != "" {
		clientConfig.BaseURL = pc.BaseURL
	}
	if len(pc.Headers) > 0 {
		clientConfig.HTTPClient = &http.Client{
			Transport: &headerTransport{headers: pc.Headers, base: http.DefaultTransport},
		}
	}

	return &OpenAIClient{client: openai.NewClientWithConfig(clientConfig)}
}

// Complete performs a chat completion.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty chat response")
	}

	return &Completion{
		Text:  resp.Choices[0].Message.Content,
		Usage: ai.NewUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens),
	}, nil
}

// headerTransport adds fixed headers to every request.
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	for k, v := range t.headers {
		if v != "" {
			r.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(r)
}
