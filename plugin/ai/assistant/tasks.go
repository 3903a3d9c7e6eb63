package assistant

import (
	"context"
	"strings"

	"github.com/hrygo/mailmind/internal/aierr"
	"github.com/hrygo/mailmind/plugin/ai"
	"github.com/hrygo/mailmind/plugin/ai/fallback"
	"github.com/hrygo/mailmind/plugin/ai/parser"
	"github.com/hrygo/mailmind/plugin/ai/provider"
)

// Analyze classifies sentiment, urgency and tone of an email and extracts its
// topics and action items.
func (s *Service) Analyze(ctx context.Context, req *ai.TaskRequest) (*ai.Analysis, error) {
	start := s.now()
	r := prepare(ai.TaskAnalyze, req)
	if blank(r.Content) {
		return nil, s.reject(ctx, r.Task, start, aierr.Validation("email content is required"))
	}

	var out ai.Analysis
	parsed, inv, err := s.attempt(ctx, s.invoker, r)
	if err != nil {
		out = s.fallback.Analyze(r.Content)
		out.Meta = fallbackMeta(err, inv)
	} else {
		out = parsed.Analysis()
		out.Meta = ai.ModelMeta(inv)
	}

	s.finish(ctx, r.Task, start, &out.Meta)
	return &out, nil
}

// GenerateReply drafts a reply to the original email in req.Content.
func (s *Service) GenerateReply(ctx context.Context, req *ai.TaskRequest) (*ai.Reply, error) {
	return s.generateReply(ctx, s.invoker, req)
}

func (s *Service) generateReply(ctx context.Context, invoker Invoker, req *ai.TaskRequest) (*ai.Reply, error) {
	start := s.now()
	r := prepare(ai.TaskGenerateReply, req)
	if blank(r.Content) {
		return nil, s.reject(ctx, r.Task, start, aierr.Validation("original email is required"))
	}
	tone := strings.TrimSpace(r.Tone)
	if tone == "" {
		tone = parser.DefaultTone
	}

	var out ai.Reply
	parsed, inv, err := s.attempt(ctx, invoker, r)
	switch {
	case aierr.IsKind(err, aierr.KindProvider) && provider.IsCreditExhausted(err):
		out = s.fallback.CreditsExhaustedReply(tone)
	case err != nil:
		out = s.fallback.Reply(r)
		out.Meta = fallbackMeta(err, inv)
	default:
		out = parsed.Reply(tone)
		out.Confidence = ConfidenceModel
		out.Meta = ai.ModelMeta(inv)
	}

	s.finish(ctx, r.Task, start, &out.Meta)
	return &out, nil
}

// Summarize condenses an email into a short summary.
func (s *Service) Summarize(ctx context.Context, req *ai.TaskRequest) (*ai.Summary, error) {
	start := s.now()
	r := prepare(ai.TaskSummarize, req)
	if blank(r.Content) {
		return nil, s.reject(ctx, r.Task, start, aierr.Validation("email content is required"))
	}

	var out ai.Summary
	parsed, inv, err := s.attempt(ctx, s.invoker, r)
	if err == nil && blank(parsed.Body) {
		err = aierr.Parse("empty summary", nil)
	}
	if err != nil {
		out = s.fallback.Summarize(r.Content)
		out.Meta = fallbackMeta(err, inv)
	} else {
		out = parsed.Summary(r.Content)
		out.Meta = ai.ModelMeta(inv)
	}

	s.finish(ctx, r.Task, start, &out.Meta)
	return &out, nil
}

// SuggestImprovements reviews a draft and proposes concrete edits.
func (s *Service) SuggestImprovements(ctx context.Context, req *ai.TaskRequest) (*ai.Suggestions, error) {
	start := s.now()
	r := prepare(ai.TaskSuggest, req)
	if blank(r.Content) {
		return nil, s.reject(ctx, r.Task, start, aierr.Validation("email draft is required"))
	}

	var out ai.Suggestions
	parsed, inv, err := s.attempt(ctx, s.invoker, r)
	if err != nil {
		out = s.fallback.Suggest(r.Content)
		out.Meta = fallbackMeta(err, inv)
	} else {
		out = refineSuggestions(s.fallback, parsed, r.Content)
		out.Meta = ai.ModelMeta(inv)
	}

	s.finish(ctx, r.Task, start, &out.Meta)
	return &out, nil
}

// refineSuggestions fills what the model left out with locally computed
// values. Average sentence length is always measured locally.
func refineSuggestions(fb *fallback.Engine, parsed *parser.Parsed, content string) ai.Suggestions {
	out := parsed.Suggestions()
	local := fb.Metrics(content)

	if !parsed.Has("suggestions") || len(out.Suggestions) == 0 {
		out.Suggestions = fb.Suggest(content).Suggestions
	}
	if !parsed.Has("analysis_metrics.word_count") || out.Metrics.WordCount <= 0 {
		out.Metrics.WordCount = local.WordCount
	}
	if !parsed.Has("analysis_metrics.sentence_count") || out.Metrics.SentenceCount <= 0 {
		out.Metrics.SentenceCount = local.SentenceCount
	}
	out.Metrics.AvgSentenceLength = local.AvgSentenceLength
	return out
}

// GenerateTemplate builds a reusable template with placeholders for the
// purpose in req.
func (s *Service) GenerateTemplate(ctx context.Context, req *ai.TaskRequest) (*ai.Template, error) {
	start := s.now()
	r := prepare(ai.TaskGenerateTemplate, req)
	if blank(r.Purpose) {
		return nil, s.reject(ctx, r.Task, start, aierr.Validation("template purpose is required"))
	}

	var out ai.Template
	parsed, inv, err := s.attempt(ctx, s.invoker, r)
	if err == nil && (!parsed.Has("body_template") || blank(parsed.String("body_template")) ||
		!parsed.Has("template_name")) {
		err = aierr.Parse("template is missing its name or body", nil)
	}
	if err != nil {
		out = s.fallback.Template(r)
		out.Meta = fallbackMeta(err, inv)
	} else {
		out = refineTemplate(s.fallback, parsed, r)
		out.Meta = ai.ModelMeta(inv)
	}

	s.finish(ctx, r.Task, start, &out.Meta)
	return &out, nil
}

// refineTemplate replaces the schema defaults of a model template with
// values derived from the request.
func refineTemplate(fb *fallback.Engine, parsed *parser.Parsed, req *ai.TaskRequest) ai.Template {
	out := parsed.Template()

	if !parsed.Has("category") {
		out.Category = fb.Category(req.Purpose, req.TemplateType)
	}
	if !parsed.Has("complexity_level") {
		out.ComplexityLevel = fb.AssessComplexity(out.BodyTemplate)
	}
	if !parsed.Has("tone") && !blank(req.Tone) {
		out.Tone = strings.TrimSpace(req.Tone)
	}
	if !parsed.Has("industry_specific") {
		out.IndustrySpecific = !blank(req.Industry)
	}
	if !parsed.Has("customization_tips") {
		out.CustomizationTips = fb.CustomizationTips(req.Purpose, out.Tone)
	}
	if !parsed.Has("use_cases") {
		out.UseCases = fb.Template(req).UseCases
	}
	return out
}
