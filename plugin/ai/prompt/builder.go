// Package prompt builds provider-agnostic prompts for each AI task.
package prompt

import (
	"strings"

	"github.com/hrygo/mailmind/plugin/ai"
)

// Defaults substituted for blank template inputs.
const (
	defaultIndustry     = "general business"
	defaultInstructions = "Follow standard best practices"
)

// Builder builds prompts for one prompt version. It performs no validation of
// the request; the parser validates what comes back.
type Builder struct {
	version PromptVersion
}

// NewBuilder creates a builder for the baseline prompt version.
func NewBuilder() *Builder {
	return &Builder{version: PromptV1}
}

// NewBuilderWithVersion creates a builder for version, falling back to v1 when
// version is unknown.
func NewBuilderWithVersion(version PromptVersion) *Builder {
	if _, ok := prompts[version]; !ok {
		version = PromptV1
	}
	return &Builder{version: version}
}

// Version returns the prompt version in use.
func (b *Builder) Version() PromptVersion {
	return b.version
}

// Build returns the prompt payload for req.
func (b *Builder) Build(req *ai.TaskRequest) ai.PromptPayload {
	tp, ok := prompts[b.version][req.Task]
	if !ok {
		tp = prompts[PromptV1][req.Task]
	}

	vars := Variables(req)
	return ai.PromptPayload{
		Task:      req.Task,
		Version:   string(b.version),
		System:    tp.System,
		User:      interpolate(tp.User, vars),
		Variables: vars,
	}
}

// Variables returns the named inputs substituted into the user message of req.
func Variables(req *ai.TaskRequest) map[string]string {
	switch req.Task {
	case ai.TaskGenerateReply:
		return map[string]string{
			"original_email": req.Content,
			"context":        req.Context,
			"tone":           req.Tone,
			"instructions":   req.CustomInstructions,
		}
	case ai.TaskGenerateTemplate:
		return map[string]string{
			"purpose":             req.Purpose,
			"template_type":       req.TemplateType,
			"tone":                req.Tone,
			"industry":            orDefault(req.Industry, defaultIndustry),
			"custom_instructions": orDefault(req.CustomInstructions, defaultInstructions),
		}
	default:
		return map[string]string{
			"email_content": req.Content,
		}
	}
}

// interpolate replaces {name} references in a single pass, so braces inside
// substituted values are kept verbatim.
func interpolate(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
