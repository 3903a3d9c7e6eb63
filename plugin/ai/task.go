package ai

import (
	"strings"
	"unicode/utf8"
)

// TaskType represents one of the five user-facing AI capabilities.
type TaskType string

const (
	TaskAnalyze          TaskType = "analyze"
	TaskGenerateReply    TaskType = "generate_reply"
	TaskSummarize        TaskType = "summarize"
	TaskSuggest          TaskType = "suggest"
	TaskGenerateTemplate TaskType = "generate_template"
)

// AllTaskTypes lists every task type in a stable order.
var AllTaskTypes = []TaskType{
	TaskAnalyze,
	TaskGenerateReply,
	TaskSummarize,
	TaskSuggest,
	TaskGenerateTemplate,
}

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TaskAnalyze, TaskGenerateReply, TaskSummarize, TaskSuggest, TaskGenerateTemplate:
		return true
	default:
		return false
	}
}

// ExpectsJSON reports whether the model output for t is a JSON object.
// GenerateReply and Summarize are free text.
func (t TaskType) ExpectsJSON() bool {
	switch t {
	case TaskAnalyze, TaskSuggest, TaskGenerateTemplate:
		return true
	default:
		return false
	}
}

// TaskRequest carries the raw caller inputs of one orchestrator invocation.
// It is created per call and never shared across calls.
type TaskRequest struct {
	Task TaskType `json:"task"`

	// Content is the email being analyzed, summarized or improved, or the
	// original email being replied to.
	Content            string `json:"content"`
	Context            string `json:"context,omitempty"`
	Tone               string `json:"tone,omitempty"`
	CustomInstructions string `json:"custom_instructions,omitempty"`

	// Template fields.
	TemplateType string `json:"template_type,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
	Industry     string `json:"industry,omitempty"`

	// ModelPreference is a registry model id, "auto" or empty.
	ModelPreference string `json:"model_preference,omitempty"`
}

// Method identifies which path produced a result.
type Method string

// MethodFallback marks results produced by the deterministic engine.
const MethodFallback Method = "fallback"

// ModelMethod returns the method tag of a result produced by model id.
func ModelMethod(id string) Method {
	return Method("model:" + id)
}

// IsFallback reports whether m is the fallback method.
func (m Method) IsFallback() bool {
	return m == MethodFallback
}

// ModelID returns the model id encoded in m, or "" for the fallback method.
func (m Method) ModelID() string {
	id, ok := strings.CutPrefix(string(m), "model:")
	if !ok {
		return ""
	}
	return id
}

// MaxSubjectRunes bounds a subject derived from the original email.
const MaxSubjectRunes = 78

// DefaultReplySubject is used when the original email yields no subject.
const DefaultReplySubject = "Re: Email Reply"

// ReplySubject returns "Re: " plus the first line of original, truncated to
// MaxSubjectRunes.
func ReplySubject(original string) string {
	first, _, _ := strings.Cut(original, "\n")
	first = strings.TrimSpace(first)
	if first == "" {
		return DefaultReplySubject
	}
	if utf8.RuneCountInString(first) > MaxSubjectRunes {
		first = strings.TrimSpace(string([]rune(first)[:MaxSubjectRunes])) + "..."
	}
	return "Re: " + first
}
