package ai

import (
	"fmt"
	"strings"
)

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// SystemPrompt creates a system message.
func SystemPrompt(content string) Message {
	return Message{Role: "system", Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// PromptPayload is a provider-agnostic prompt: one system instruction and one
// user message, plus the variables that were substituted into them.
type PromptPayload struct {
	Task      TaskType
	Version   string
	System    string
	User      string
	Variables map[string]string
	// MaxTokens caps the completion; 0 lets the invoker use the model limit.
	MaxTokens int
}

// Messages returns the payload as a chat transcript.
func (p PromptPayload) Messages() []Message {
	return []Message{SystemPrompt(p.System), UserMessage(p.User)}
}

// Usage holds token counts. Counts are zero when the provider does not report them.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewUsage builds a Usage, deriving the total when the provider omits it.
func NewUsage(prompt, completion, total int) Usage {
	if total == 0 {
		total = prompt + completion
	}
	return Usage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: total}
}

// InvocationResult is the outcome of one successful model call.
type InvocationResult struct {
	ModelID   string
	Provider  string
	Text      string
	ElapsedMs int64
	Usage     Usage
}

// FormatMessages formats messages for logging.
func FormatMessages(messages []Message) string {
	var sb strings.Builder
	for _, msg := range messages {
		sb.WriteString(fmt.Sprintf("[%s]: %s\n", msg.Role, msg.Content))
	}
	return sb.String()
}
