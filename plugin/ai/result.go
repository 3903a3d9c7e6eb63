package ai

// Meta is carried by every task result.
type Meta struct {
	Success   bool   `json:"success"`
	Method    Method `json:"method"`
	ModelUsed string `json:"model_used"`
	// ElapsedMs is measured from orchestrator entry.
	ElapsedMs      int64  `json:"elapsed_ms"`
	Usage          Usage  `json:"usage"`
	FallbackUsed   bool   `json:"fallback_used,omitempty"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// FallbackMeta returns the meta of a result produced by the fallback engine.
func FallbackMeta(reason string) Meta {
	return Meta{
		Success:        true,
		Method:         MethodFallback,
		ModelUsed:      string(MethodFallback),
		FallbackUsed:   reason != "",
		FallbackReason: reason,
	}
}

// ModelMeta returns the meta of a result produced by a model.
func ModelMeta(inv *InvocationResult) Meta {
	return Meta{
		Success:   true,
		Method:    ModelMethod(inv.ModelID),
		ModelUsed: inv.ModelID,
		Usage:     inv.Usage,
	}
}

// Analysis is the result of TaskAnalyze.
type Analysis struct {
	Meta
	Sentiment           string   `json:"sentiment"`
	Urgency             string   `json:"urgency"`
	Tone                string   `json:"tone"`
	EmotionScore        float64  `json:"emotion_score"`
	KeyTopics           []string `json:"key_topics"`
	ActionItems         []string `json:"action_items"`
	ClarityScore        float64  `json:"clarity_score"`
	ToneAppropriateness float64  `json:"tone_appropriateness"`
}

// Reply is the result of TaskGenerateReply.
type Reply struct {
	Meta
	Subject    string  `json:"subject"`
	Body       string  `json:"body"`
	Tone       string  `json:"tone"`
	Confidence float64 `json:"confidence"`
}

// Summary is the result of TaskSummarize.
type Summary struct {
	Meta
	Content        string `json:"content"`
	OriginalLength int    `json:"original_length"`
	SummaryLength  int    `json:"summary_length"`
}

// EmailMetrics scores a draft for the Suggest task.
type EmailMetrics struct {
	WordCount            int     `json:"word_count"`
	SentenceCount        int     `json:"sentence_count"`
	AvgSentenceLength    float64 `json:"avg_sentence_length"`
	ProfessionalismScore float64 `json:"professionalism_score"`
	ClarityScore         float64 `json:"clarity_score"`
	EngagementScore      float64 `json:"engagement_score"`
}

// Suggestions is the result of TaskSuggest.
type Suggestions struct {
	Meta
	Suggestions   []string     `json:"suggestions"`
	ImprovedEmail string       `json:"improved_email,omitempty"`
	Metrics       EmailMetrics `json:"metrics"`
}

// Template is the result of TaskGenerateTemplate.
type Template struct {
	Meta
	TemplateName      string   `json:"template_name"`
	Description       string   `json:"description"`
	SubjectTemplate   string   `json:"subject_template"`
	BodyTemplate      string   `json:"body_template"`
	Placeholders      []string `json:"placeholders"`
	Category          string   `json:"category"`
	Tone              string   `json:"tone"`
	IndustrySpecific  bool     `json:"industry_specific"`
	UseCases          []string `json:"use_cases"`
	ComplexityLevel   string   `json:"complexity_level"`
	CustomizationTips []string `json:"customization_tips"`
}

// Complexity levels of a template.
const (
	ComplexitySimple       = "simple"
	ComplexityIntermediate = "intermediate"
	ComplexityAdvanced     = "advanced"
)
