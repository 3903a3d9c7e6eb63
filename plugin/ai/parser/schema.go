package parser

import "github.com/hrygo/mailmind/plugin/ai"

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindList
	kindBool
)

// field is one required key of a task schema. Nested keys use a dotted path.
type field struct {
	Key     string
	Kind    fieldKind
	Default any
}

// Canonical defaults. Every numeric score defaults to the same midpoint.
const (
	DefaultSentiment = "neutral"
	DefaultUrgency   = "medium"
	DefaultTone      = "professional"
	DefaultEmotion   = 0.5
	DefaultScore     = 7.0

	DefaultTemplateName    = "Email Template"
	DefaultDescription     = "Professional email template"
	DefaultSubjectTemplate = "Re: {{topic}} - {{your_name}}"
	DefaultCategory        = "business"

	// DefaultReplySubject is used when neither the model nor the original email yields one.
	DefaultReplySubject = ai.DefaultReplySubject
)

var (
	DefaultKeyTopics   = []string{"communication"}
	DefaultActionItems = []string{"review message"}
	DefaultSuggestions = []string{"💡 CLARITY: Review the email for clarity and completeness before sending"}

	DefaultPlaceholders      = []string{"{{recipient_name}}", "{{your_name}}", "{{topic}}"}
	DefaultUseCases          = []string{"professional correspondence"}
	DefaultCustomizationTips = []string{"Replace every placeholder with specific details before sending"}
)

var schemas = map[ai.TaskType][]field{
	ai.TaskAnalyze: {
		{Key: "sentiment", Kind: kindString, Default: DefaultSentiment},
		{Key: "urgency", Kind: kindString, Default: DefaultUrgency},
		{Key: "tone", Kind: kindString, Default: DefaultTone},
		{Key: "emotion_score", Kind: kindNumber, Default: DefaultEmotion},
		{Key: "key_topics", Kind: kindList, Default: DefaultKeyTopics},
		{Key: "action_items", Kind: kindList, Default: DefaultActionItems},
		{Key: "clarity_score", Kind: kindNumber, Default: DefaultScore},
		{Key: "tone_appropriateness", Kind: kindNumber, Default: DefaultScore},
	},
	ai.TaskSuggest: {
		{Key: "suggestions", Kind: kindList, Default: DefaultSuggestions},
		{Key: "improved_email", Kind: kindString, Default: ""},
		{Key: "analysis_metrics.word_count", Kind: kindNumber, Default: 0.0},
		{Key: "analysis_metrics.sentence_count", Kind: kindNumber, Default: 0.0},
		{Key: "analysis_metrics.professionalism_score", Kind: kindNumber, Default: DefaultScore},
		{Key: "analysis_metrics.clarity_score", Kind: kindNumber, Default: DefaultScore},
		{Key: "analysis_metrics.engagement_score", Kind: kindNumber, Default: DefaultScore},
	},
	ai.TaskGenerateTemplate: {
		{Key: "template_name", Kind: kindString, Default: DefaultTemplateName},
		{Key: "description", Kind: kindString, Default: DefaultDescription},
		{Key: "subject_template", Kind: kindString, Default: DefaultSubjectTemplate},
		{Key: "body_template", Kind: kindString, Default: ""},
		{Key: "placeholders", Kind: kindList, Default: DefaultPlaceholders},
		{Key: "category", Kind: kindString, Default: DefaultCategory},
		{Key: "tone", Kind: kindString, Default: DefaultTone},
		{Key: "industry_specific", Kind: kindBool, Default: false},
		{Key: "use_cases", Kind: kindList, Default: DefaultUseCases},
		{Key: "complexity_level", Kind: kindString, Default: ai.ComplexitySimple},
		{Key: "customization_tips", Kind: kindList, Default: DefaultCustomizationTips},
	},
}

// RequiredKeys returns the schema keys of a JSON task, in schema order.
func RequiredKeys(task ai.TaskType) []string {
	fields := schemas[task]
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}
