package provider

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/hrygo/mailmind/plugin/ai"
)

// GeminiClient serves Gemini models through the Gemini API backend.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a client for pc.
func NewGeminiClient(ctx context.Context, pc ai.ProviderConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  pc.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if pc.BaseURL != "" {
		cc.HTTPOptions.BaseURL = pc.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Complete generates content for the user prompt under the system instruction.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.User), cfg)
	if err != nil {
		return nil, err
	}

	var usage ai.Usage
	if md := resp.UsageMetadata; md != nil {
		usage = ai.NewUsage(int(md.PromptTokenCount), int(md.CandidatesTokenCount), int(md.TotalTokenCount))
	}
	return &Completion{Text: resp.Text(), Usage: usage}, nil
}
