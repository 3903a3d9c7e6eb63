package provider

import (
	"context"
	"sync"

	"github.com/hrygo/mailmind/plugin/ai"
)

// MockClient is a scripted Client for tests.
type MockClient struct {
	mu sync.Mutex

	// Responses maps a vendor model id to the text returned for it.
	Responses map[string]string
	// Text is returned for models without an entry in Responses.
	Text  string
	Usage ai.Usage
	// Err, when set, is returned instead of a completion.
	Err error
	// Block makes Complete wait for the context to end.
	Block bool

	calls []Request
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.Err != nil {
		return nil, m.Err
	}

	text, ok := m.Responses[req.Model]
	if !ok {
		text = m.Text
	}
	return &Completion{Text: text, Usage: m.Usage}, nil
}

// Calls returns the requests received so far.
func (m *MockClient) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}
