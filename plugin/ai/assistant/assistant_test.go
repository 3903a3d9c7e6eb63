package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/mailmind/internal/aierr"
	"github.com/hrygo/mailmind/plugin/ai"
	"github.com/hrygo/mailmind/plugin/ai/fallback"
	"github.com/hrygo/mailmind/plugin/ai/metrics"
	"github.com/hrygo/mailmind/plugin/ai/provider"
	"github.com/hrygo/mailmind/plugin/ai/registry"
	"github.com/hrygo/mailmind/plugin/ai/router"
)

const sampleEmail = `Project kickoff next week
Hi team, please review the attached proposal before Friday. We need to schedule a meeting to discuss the budget and the timeline. Let me know your availability.`

// newOffline returns a service with no provider configured.
func newOffline(m metrics.MetricsService) *Service {
	reg := registry.New(registry.DefaultCatalog(), nil)
	return NewService(Config{
		Selector: router.NewService(router.Config{Registry: reg}),
		Invoker:  provider.NewInvoker(nil, time.Second),
		Metrics:  m,
	})
}

// newOnline returns a service whose only available model is gpt-4o, served by client.
func newOnline(client provider.Client, m metrics.MetricsService) *Service {
	reg := registry.New(registry.DefaultCatalog(), func(p string) bool { return p == ai.ProviderOpenAI })
	return NewService(Config{
		Selector: router.NewService(router.Config{Registry: reg}),
		Invoker:  provider.NewInvoker(map[string]provider.Client{ai.ProviderOpenAI: client}, time.Second),
		Metrics:  m,
	})
}

func TestService_Totality(t *testing.T) {
	ctx := context.Background()
	inputs := []string{"x", "???", "  a  ", "日本語のメール。よろしく。", sampleEmail, "\x00\xff"}

	for name, svc := range map[string]*Service{
		"offline": newOffline(nil),
		"garbage": newOnline(&provider.MockClient{Text: "{{{"}, nil),
		"failing": newOnline(&provider.MockClient{Err: errors.New("boom")}, nil),
		"zero":    NewService(Config{}),
	} {
		t.Run(name, func(t *testing.T) {
			for _, in := range inputs {
				req := &ai.TaskRequest{Content: in, Purpose: in}

				a, err := svc.Analyze(ctx, req)
				require.NoError(t, err)
				assert.True(t, a.Success)

				r, err := svc.GenerateReply(ctx, req)
				require.NoError(t, err)
				assert.NotEmpty(t, r.Body)

				s, err := svc.Summarize(ctx, req)
				require.NoError(t, err)
				assert.NotEmpty(t, s.Content)

				sg, err := svc.SuggestImprovements(ctx, req)
				require.NoError(t, err)
				assert.NotEmpty(t, sg.Suggestions)

				tp, err := svc.GenerateTemplate(ctx, req)
				require.NoError(t, err)
				assert.NotEmpty(t, tp.BodyTemplate)
			}
		})
	}
}

func TestService_FallbackEquivalence(t *testing.T) {
	ctx := context.Background()
	svc := newOffline(nil)
	fb := fallback.New()
	req := &ai.TaskRequest{Content: sampleEmail, Tone: "formal", Purpose: "follow up", Industry: "finance"}

	a, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	a.ElapsedMs = 0
	assert.Equal(t, fb.Analyze(sampleEmail), *a)

	r, err := svc.GenerateReply(ctx, req)
	require.NoError(t, err)
	r.ElapsedMs = 0
	want := fb.Reply(req)
	assert.Equal(t, want, *r)

	s, err := svc.Summarize(ctx, req)
	require.NoError(t, err)
	s.ElapsedMs = 0
	assert.Equal(t, fb.Summarize(sampleEmail), *s)

	sg, err := svc.SuggestImprovements(ctx, req)
	require.NoError(t, err)
	sg.ElapsedMs = 0
	assert.Equal(t, fb.Suggest(sampleEmail), *sg)

	tp, err := svc.GenerateTemplate(ctx, req)
	require.NoError(t, err)
	tp.ElapsedMs = 0
	tmplReq := *req
	tmplReq.Task = ai.TaskGenerateTemplate
	assert.Equal(t, fb.Template(&tmplReq), *tp)
}

func TestService_Validation(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewMockMetricsService()
	svc := newOffline(m)

	s, err := svc.Summarize(ctx, &ai.TaskRequest{Content: ""})
	assert.Nil(t, s)
	assert.ErrorIs(t, err, aierr.ErrValidation)

	_, err = svc.Analyze(ctx, &ai.TaskRequest{Content: "   \n\t"})
	assert.ErrorIs(t, err, aierr.ErrValidation)

	_, err = svc.GenerateReply(ctx, nil)
	assert.ErrorIs(t, err, aierr.ErrValidation)

	_, err = svc.SuggestImprovements(ctx, &ai.TaskRequest{})
	assert.ErrorIs(t, err, aierr.ErrValidation)

	// Template only needs a purpose.
	_, err = svc.GenerateTemplate(ctx, &ai.TaskRequest{Content: "ignored"})
	assert.ErrorIs(t, err, aierr.ErrValidation)
	tp, err := svc.GenerateTemplate(ctx, &ai.TaskRequest{Purpose: "meeting"})
	require.NoError(t, err)
	assert.NotEmpty(t, tp.BodyTemplate)

	outcomes := m.Outcomes()
	require.Len(t, outcomes, 6)
	for _, o := range outcomes[:5] {
		assert.False(t, o.Success)
	}
}

func TestService_Scenarios(t *testing.T) {
	ctx := context.Background()
	svc := newOffline(nil)

	a, err := svc.Analyze(ctx, &ai.TaskRequest{Content: "Thank you so much, this is wonderful news!"})
	require.NoError(t, err)
	assert.Equal(t, "positive", a.Sentiment)
	assert.Equal(t, 0.8, a.EmotionScore)
	assert.Equal(t, ai.MethodFallback, a.Method)
	assert.False(t, a.FallbackUsed)

	a, err = svc.Analyze(ctx, &ai.TaskRequest{Content: "Please send the report ASAP."})
	require.NoError(t, err)
	assert.Equal(t, "high", a.Urgency)
}

func TestService_ModelPath(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewMockMetricsService()
	client := &provider.MockClient{
		Text: `{"sentiment": "positive", "urgency": "low", "tone": "friendly", "emotion_score": 0.9,
			"key_topics": ["launch"], "action_items": ["reply"], "clarity_score": 9, "tone_appropriateness": 8}`,
		Usage: ai.NewUsage(100, 20, 0),
	}
	svc := newOnline(client, m)

	a, err := svc.Analyze(ctx, &ai.TaskRequest{Content: sampleEmail})
	require.NoError(t, err)
	assert.Equal(t, ai.ModelMethod(registry.ModelGPT4o), a.Method)
	assert.Equal(t, registry.ModelGPT4o, a.ModelUsed)
	assert.Equal(t, "positive", a.Sentiment)
	assert.Equal(t, []string{"launch"}, a.KeyTopics)
	assert.Equal(t, 120, a.Usage.TotalTokens)
	assert.False(t, a.FallbackUsed)

	require.Len(t, client.Calls(), 1)
	assert.Equal(t, "gpt-4o", client.Calls()[0].Model)
	assert.Contains(t, client.Calls()[0].User, "Project kickoff")

	assert.Equal(t, 1, m.ModelCalls())
	require.Len(t, m.Outcomes(), 1)
	assert.Equal(t, registry.ModelGPT4o, m.Outcomes()[0].Model)
}

func TestService_ReplyModelPath(t *testing.T) {
	svc := newOnline(&provider.MockClient{Text: "Subject: Re: Kickoff\nHi,\n\nThanks, Friday works.\n\nBest"}, nil)

	r, err := svc.GenerateReply(context.Background(), &ai.TaskRequest{Content: sampleEmail})
	require.NoError(t, err)
	assert.Equal(t, "Re: Kickoff", r.Subject)
	assert.Equal(t, "Hi,\nThanks, Friday works.\nBest", r.Body)
	assert.Equal(t, "professional", r.Tone)
	assert.Equal(t, ConfidenceModel, r.Confidence)

	// Without a subject line the subject comes from the original email.
	svc = newOnline(&provider.MockClient{Text: "Sounds good."}, nil)
	r, err = svc.GenerateReply(context.Background(), &ai.TaskRequest{Content: sampleEmail, Tone: "friendly"})
	require.NoError(t, err)
	assert.Equal(t, "Re: Project kickoff next week", r.Subject)
	assert.Equal(t, "friendly", r.Tone)
}

// invokerFunc adapts a function to the Invoker interface.
type invokerFunc func(context.Context, registry.ModelDescriptor, ai.PromptPayload) (*ai.InvocationResult, error)

func (f invokerFunc) Invoke(ctx context.Context, m registry.ModelDescriptor, p ai.PromptPayload) (*ai.InvocationResult, error) {
	return f(ctx, m, p)
}

func TestService_ParseErrorFallsBack(t *testing.T) {
	m := metrics.NewMockMetricsService()
	svc := newOnline(&provider.MockClient{Text: "I think this email is positive.", Usage: ai.NewUsage(50, 10, 0)}, m)

	a, err := svc.Analyze(context.Background(), &ai.TaskRequest{Content: sampleEmail})
	require.NoError(t, err)
	assert.Equal(t, ai.MethodFallback, a.Method)
	assert.True(t, a.FallbackUsed)
	assert.Equal(t, string(aierr.ReasonMalformedJSON), a.FallbackReason)
	// Tokens spent on the unusable output are still reported.
	assert.Equal(t, 60, a.Usage.TotalTokens)

	outcomes := m.Outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, "malformed_json", outcomes[0].FallbackReason)
}

func TestService_SubjectOnlyReplyFallsBack(t *testing.T) {
	svc := newOnline(&provider.MockClient{Text: "Subject: Re: Budget\n\n", Usage: ai.NewUsage(30, 5, 0)}, nil)
	req := &ai.TaskRequest{Content: "Budget?\nCan you confirm the numbers?"}

	r, err := svc.GenerateReply(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, ai.MethodFallback, r.Method)
	assert.Equal(t, string(aierr.ReasonMalformedJSON), r.FallbackReason)
	assert.NotContains(t, r.Body, "Subject:")
	assert.Equal(t, fallback.New().Reply(prepare(ai.TaskGenerateReply, req)).Body, r.Body)
	assert.Equal(t, 35, r.Usage.TotalTokens)

	s, err := svc.Summarize(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, ai.MethodFallback, s.Method)
	assert.Equal(t, fallback.New().Summarize(req.Content).Content, s.Content)
}

func TestService_ProviderErrorFallsBack(t *testing.T) {
	svc := newOnline(&provider.MockClient{Err: &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}}, nil)

	s, err := svc.Summarize(context.Background(), &ai.TaskRequest{Content: sampleEmail})
	require.NoError(t, err)
	assert.Equal(t, ai.MethodFallback, s.Method)
	assert.Equal(t, string(aierr.ReasonRateLimited), s.FallbackReason)
	assert.Equal(t, fallback.New().Summarize(sampleEmail).Content, s.Content)
}

func TestService_TimeoutFallsBack(t *testing.T) {
	reg := registry.New(registry.DefaultCatalog(), func(p string) bool { return p == ai.ProviderOpenAI })
	svc := NewService(Config{
		Selector: router.NewService(router.Config{Registry: reg}),
		Invoker:  provider.NewInvoker(map[string]provider.Client{ai.ProviderOpenAI: &provider.MockClient{Block: true}}, 20*time.Millisecond),
	})

	r, err := svc.GenerateReply(context.Background(), &ai.TaskRequest{Content: sampleEmail})
	require.NoError(t, err)
	assert.Equal(t, string(aierr.ReasonTransportFailure), r.FallbackReason)
	assert.Equal(t, fallback.ConfidenceRuleBased, r.Confidence)
}

func TestService_CreditsExhausted(t *testing.T) {
	svc := newOnline(&provider.MockClient{Err: &openai.APIError{HTTPStatusCode: 402, Message: "Insufficient credits"}}, nil)

	r, err := svc.GenerateReply(context.Background(), &ai.TaskRequest{Content: sampleEmail, Tone: "formal"})
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.Equal(t, fallback.CreditsExhaustedReason, r.FallbackReason)
	assert.Equal(t, fallback.ConfidenceCanned, r.Confidence)
	assert.Equal(t, "Re: Your Email", r.Subject)
	assert.Equal(t, "formal", r.Tone)

	// Other tasks fall back normally on 402.
	a, err := svc.Analyze(context.Background(), &ai.TaskRequest{Content: sampleEmail})
	require.NoError(t, err)
	assert.Equal(t, string(aierr.ReasonQuotaExhausted), a.FallbackReason)
}

func TestService_CreditWordingOutsideProviderErrors(t *testing.T) {
	reg := registry.New(registry.DefaultCatalog(), func(p string) bool { return p == ai.ProviderOpenAI })
	svc := NewService(Config{
		Selector: router.NewService(router.Config{Registry: reg}),
		Invoker: invokerFunc(func(context.Context, registry.ModelDescriptor, ai.PromptPayload) (*ai.InvocationResult, error) {
			return nil, aierr.Configuration(aierr.ReasonNoModelAvailable, "payment credit client missing")
		}),
	})

	r, err := svc.GenerateReply(context.Background(), &ai.TaskRequest{Content: sampleEmail})
	require.NoError(t, err)
	assert.Equal(t, fallback.ConfidenceRuleBased, r.Confidence)
	assert.NotEqual(t, fallback.CreditsExhaustedReason, r.FallbackReason)
	assert.Empty(t, r.FallbackReason)
}

func TestService_SuggestRefinement(t *testing.T) {
	svc := newOnline(&provider.MockClient{
		Text: "```json\n{\"suggestions\": [\"Shorten the opening\"], \"improved_email\": \"Hi team\"}\n```",
	}, nil)

	sg, err := svc.SuggestImprovements(context.Background(), &ai.TaskRequest{Content: sampleEmail})
	require.NoError(t, err)
	local := fallback.New().Metrics(sampleEmail)

	assert.Equal(t, []string{"Shorten the opening"}, sg.Suggestions)
	assert.Equal(t, "Hi team", sg.ImprovedEmail)
	assert.Equal(t, local.WordCount, sg.Metrics.WordCount)
	assert.Equal(t, local.SentenceCount, sg.Metrics.SentenceCount)
	assert.Equal(t, local.AvgSentenceLength, sg.Metrics.AvgSentenceLength)
	assert.Equal(t, 7.0, sg.Metrics.ClarityScore)
}

func TestService_TemplateRefinement(t *testing.T) {
	body := "Dear {{recipient_name}},\n\nI would like to follow up on {{topic}}.\n\nBest,\n{{your_name}}"
	svc := newOnline(&provider.MockClient{
		Text: fmt.Sprintf(`{"template_name": "Follow-up", "body_template": %q}`, body),
	}, nil)
	fb := fallback.New()

	req := &ai.TaskRequest{Purpose: "follow up after demo", Tone: "friendly", Industry: "saas"}
	tp, err := svc.GenerateTemplate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, ai.ModelMethod(registry.ModelGPT4o), tp.Method)
	assert.Equal(t, "Follow-up", tp.TemplateName)
	assert.Equal(t, body, tp.BodyTemplate)
	assert.Equal(t, fb.Category(req.Purpose, ""), tp.Category)
	assert.Equal(t, fb.AssessComplexity(body), tp.ComplexityLevel)
	assert.Equal(t, "friendly", tp.Tone)
	assert.True(t, tp.IndustrySpecific)
	assert.Equal(t, fb.CustomizationTips(req.Purpose, "friendly"), tp.CustomizationTips)
	assert.NotEmpty(t, tp.UseCases)
}

func TestService_TemplateWithoutBodyFallsBack(t *testing.T) {
	svc := newOnline(&provider.MockClient{Text: `{"template_name": "Empty"}`}, nil)

	tp, err := svc.GenerateTemplate(context.Background(), &ai.TaskRequest{Purpose: "meeting request"})
	require.NoError(t, err)
	assert.Equal(t, ai.MethodFallback, tp.Method)
	assert.Equal(t, string(aierr.ReasonMalformedJSON), tp.FallbackReason)
	assert.NotEmpty(t, tp.BodyTemplate)
}

func TestService_GenerateReplies(t *testing.T) {
	reqs := []*ai.TaskRequest{
		{Content: "First email\nbody"},
		{Content: ""},
		{Content: "Third email\nbody"},
		{Content: "Fourth email\nbody"},
		{Content: "Fifth email\nbody"},
	}

	for _, parallel := range []bool{true, false} {
		t.Run(fmt.Sprintf("parallel=%v", parallel), func(t *testing.T) {
			svc := newOffline(metrics.NewMockMetricsService())
			items := svc.GenerateReplies(context.Background(), reqs, BulkOptions{Parallel: parallel})
			require.Len(t, items, len(reqs))

			mode := ModeSequential
			if parallel {
				mode = ModeParallel
			}
			seen := map[string]bool{}
			for i, item := range items {
				assert.Equal(t, i, item.Index)
				assert.Equal(t, mode, item.Mode)
				assert.NotEmpty(t, item.RequestID)
				assert.False(t, seen[item.RequestID])
				seen[item.RequestID] = true
			}

			assert.Nil(t, items[1].Reply)
			assert.NotEmpty(t, items[1].Error)
			assert.Equal(t, "Re: First email", items[0].Reply.Subject)
			assert.Equal(t, "Re: Third email", items[2].Reply.Subject)
			assert.Equal(t, "Re: Fifth email", items[4].Reply.Subject)
		})
	}
}

func TestService_BulkUsesBulkInvoker(t *testing.T) {
	reg := registry.New(registry.DefaultCatalog(), func(p string) bool { return p == ai.ProviderOpenAI })
	single := &provider.MockClient{Text: "single"}
	bulk := &provider.MockClient{Text: "bulk"}
	svc := NewService(Config{
		Selector:        router.NewService(router.Config{Registry: reg}),
		Invoker:         provider.NewInvoker(map[string]provider.Client{ai.ProviderOpenAI: single}, time.Second),
		BulkInvoker:     provider.NewInvoker(map[string]provider.Client{ai.ProviderOpenAI: bulk}, time.Second),
		BulkConcurrency: 2,
	})

	items := svc.GenerateReplies(context.Background(), []*ai.TaskRequest{{Content: "a"}, {Content: "b"}}, BulkOptions{Parallel: true})
	require.Len(t, items, 2)
	assert.Equal(t, "bulk", items[0].Reply.Body)
	assert.Len(t, bulk.Calls(), 2)
	assert.Empty(t, single.Calls())
}

func TestNewStack(t *testing.T) {
	cfg := &ai.Config{
		Providers:       map[string]ai.ProviderConfig{ai.ProviderOpenAI: {APIKey: "sk-test"}},
		RequestTimeout:  time.Second,
		BulkTimeout:     3 * time.Second,
		BulkConcurrency: 2,
	}
	stack, err := NewStack(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.True(t, stack.Registry.IsAvailable(registry.ModelGPT4o))
	assert.False(t, stack.Registry.IsAvailable(registry.ModelClaudeSonnet))

	_, err = NewStack(context.Background(), &ai.Config{}, nil)
	assert.Error(t, err)
}
