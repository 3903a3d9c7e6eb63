package parser

import (
	"unicode/utf8"

	"github.com/hrygo/mailmind/plugin/ai"
)

// Analysis converts a parsed TaskAnalyze response.
func (p *Parsed) Analysis() ai.Analysis {
	return ai.Analysis{
		Sentiment:           p.String("sentiment"),
		Urgency:             p.String("urgency"),
		Tone:                p.String("tone"),
		EmotionScore:        p.Number("emotion_score"),
		KeyTopics:           p.List("key_topics"),
		ActionItems:         p.List("action_items"),
		ClarityScore:        p.Number("clarity_score"),
		ToneAppropriateness: p.Number("tone_appropriateness"),
	}
}

// Suggestions converts a parsed TaskSuggest response.
func (p *Parsed) Suggestions() ai.Suggestions {
	return ai.Suggestions{
		Suggestions:   p.List("suggestions"),
		ImprovedEmail: p.String("improved_email"),
		Metrics: ai.EmailMetrics{
			WordCount:            int(p.Number("analysis_metrics.word_count")),
			SentenceCount:        int(p.Number("analysis_metrics.sentence_count")),
			ProfessionalismScore: p.Number("analysis_metrics.professionalism_score"),
			ClarityScore:         p.Number("analysis_metrics.clarity_score"),
			EngagementScore:      p.Number("analysis_metrics.engagement_score"),
		},
	}
}

// Template converts a parsed TaskGenerateTemplate response.
func (p *Parsed) Template() ai.Template {
	return ai.Template{
		TemplateName:      p.String("template_name"),
		Description:       p.String("description"),
		SubjectTemplate:   p.String("subject_template"),
		BodyTemplate:      p.String("body_template"),
		Placeholders:      p.List("placeholders"),
		Category:          p.String("category"),
		Tone:              p.String("tone"),
		IndustrySpecific:  p.Bool("industry_specific"),
		UseCases:          p.List("use_cases"),
		ComplexityLevel:   p.String("complexity_level"),
		CustomizationTips: p.List("customization_tips"),
	}
}

// Reply converts a parsed TaskGenerateReply response.
func (p *Parsed) Reply(tone string) ai.Reply {
	return ai.Reply{
		Subject: p.Subject,
		Body:    p.Body,
		Tone:    tone,
	}
}

// Summary converts a parsed TaskSummarize response. A subject line, if the
// model added one, is not part of the summary.
func (p *Parsed) Summary(original string) ai.Summary {
	return ai.Summary{
		Content:        p.Body,
		OriginalLength: utf8.RuneCountInString(original),
		SummaryLength:  utf8.RuneCountInString(p.Body),
	}
}
