package router

import (
	"strings"

	"github.com/hrygo/mailmind/plugin/ai"
	"github.com/hrygo/mailmind/plugin/ai/registry"
)

// AffinityRule ranks models for a task when any of its hint sets matches.
// A rule with no hint sets is the task default and always matches.
type AffinityRule struct {
	Name       string
	Task       ai.TaskType
	Styles     []string
	Industries []string
	Tones      []string
	// Models is the ranked preference list, best first.
	Models []string
}

// RuleMatcher holds the static affinity table.
type RuleMatcher struct {
	rules map[ai.TaskType][]AffinityRule
}

// DefaultAffinityRules returns the built-in affinity table. Order matters:
// within a task the first matching rule wins.
func DefaultAffinityRules() []AffinityRule {
	return []AffinityRule{
		{
			Name:       "template_creative",
			Task:       ai.TaskGenerateTemplate,
			Styles:     []string{"creative", "marketing", "narrative"},
			Industries: []string{"marketing", "advertising", "media"},
			Models:     []string{registry.ModelClaudeSonnet, registry.ModelQwenTurbo},
		},
		{
			Name:       "template_technical",
			Task:       ai.TaskGenerateTemplate,
			Styles:     []string{"technical", "professional", "complex"},
			Industries: []string{"technology", "engineering", "finance"},
			Models:     []string{registry.ModelQwenTurbo, registry.ModelClaudeSonnet},
		},
		{
			Name:   "template_simple",
			Task:   ai.TaskGenerateTemplate,
			Styles: []string{"simple", "quick", "basic"},
			Models: []string{registry.ModelGPT4o, registry.ModelGeminiFlash},
		},
		{
			Name:   "reply_concise",
			Task:   ai.TaskGenerateReply,
			Tones:  []string{"urgent", "concise"},
			Models: []string{registry.ModelGPT4o, registry.ModelGeminiFlash},
		},
		{
			Name:   "reply_creative",
			Task:   ai.TaskGenerateReply,
			Tones:  []string{"creative", "persuasive", "friendly"},
			Models: []string{registry.ModelClaudeSonnet},
		},
		{
			Name:   "suggest_default",
			Task:   ai.TaskSuggest,
			Models: []string{registry.ModelQwenTurbo, registry.ModelClaudeSonnet},
		},
	}
}

// NewRuleMatcher creates a rule matcher. A nil rules slice uses the defaults.
func NewRuleMatcher(rules []AffinityRule) *RuleMatcher {
	if rules == nil {
		rules = DefaultAffinityRules()
	}
	m := &RuleMatcher{rules: make(map[ai.TaskType][]AffinityRule)}
	for _, r := range rules {
		m.rules[r.Task] = append(m.rules[r.Task], r)
	}
	return m
}

// Match returns the first rule of task that matches hints.
// Returns: rule, matched
func (m *RuleMatcher) Match(task ai.TaskType, hints Hints) (AffinityRule, bool) {
	style := normalize(hints.Style)
	industry := normalize(hints.Industry)
	tone := normalize(hints.Tone)

	for _, r := range m.rules[task] {
		if r.isDefault() {
			return r, true
		}
		if contains(r.Styles, style) || contains(r.Industries, industry) || contains(r.Tones, tone) {
			return r, true
		}
	}
	return AffinityRule{}, false
}

func (r AffinityRule) isDefault() bool {
	return len(r.Styles) == 0 && len(r.Industries) == 0 && len(r.Tones) == 0
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains(set []string, v string) bool {
	if v == "" {
		return false
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
