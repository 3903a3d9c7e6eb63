package fallback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/mailmind/plugin/ai"
)

func TestAnalyze_Sentiment(t *testing.T) {
	e := New()

	tests := []struct {
		name      string
		content   string
		sentiment string
		emotion   float64
	}{
		{"positive", "Thank you so much, this is wonderful news!", "positive", 0.8},
		{"negative", "Sorry, there was an error.", "negative", 0.3},
		{"neutral", "The report is attached.", "neutral", 0.5},
		{"empty", "", "neutral", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := e.Analyze(tt.content)
			assert.Equal(t, tt.sentiment, a.Sentiment)
			assert.InDelta(t, tt.emotion, a.EmotionScore, 1e-9)
		})
	}

	assert.Greater(t, e.Analyze("Thank you so much, this is wonderful news!").EmotionScore, 0.5)
}

func TestAnalyze_Urgency(t *testing.T) {
	e := New()
	assert.Equal(t, "high", e.Analyze("Please send the report ASAP.").Urgency)
	assert.Equal(t, "high", e.Analyze("Lovely weather. Reply ASAP, no rush otherwise this week").Urgency)
	assert.Equal(t, "medium", e.Analyze("Can you reply this week?").Urgency)
	assert.Equal(t, "low", e.Analyze("The report is attached.").Urgency)
}

func TestAnalyze_Tone(t *testing.T) {
	e := New()
	assert.Equal(t, "urgent", e.Analyze("Dear team, this is critical").Tone)
	assert.Equal(t, "formal", e.Analyze("Dear Anna, kind regards").Tone)
	assert.Equal(t, "friendly", e.Analyze("Hey, cheers").Tone)
	assert.Equal(t, "professional", e.Analyze("Report attached.").Tone)
}

func TestAnalyze_TopicsAndActions(t *testing.T) {
	e := New()

	a := e.Analyze("Budget budget review. Budget forecast forecast and planning.")
	assert.Equal(t, []string{"budget", "forecast", "review", "planning"}, a.KeyTopics)

	a = e.Analyze("Can we meet to review the draft and send it by the deadline? Let me know.")
	assert.Equal(t, []string{actionMeeting, actionReview, actionSend, actionUpdate}, a.ActionItems)

	a = e.Analyze("")
	assert.Equal(t, []string{defaultTopic}, a.KeyTopics)
	assert.Equal(t, []string{defaultAction}, a.ActionItems)
	assert.Equal(t, ai.MethodFallback, a.Method)
	assert.True(t, a.Success)
	assert.Equal(t, 7.0, a.ClarityScore)
	assert.Equal(t, 8.0, a.ToneAppropriateness)
}

func TestSummarize(t *testing.T) {
	e := New()

	s := e.Summarize("Short one. This is the first real sentence. Here is the second long sentence! And a third one that is long? Fourth sentence is also long.")
	assert.Equal(t, "This is the first real sentence. Here is the second long sentence. And a third one that is long.", s.Content)
	assert.Equal(t, len([]rune(s.Content)), s.SummaryLength)

	for _, in := range []string{"", "Hi.", "Ok! Sure?"} {
		s = e.Summarize(in)
		assert.Equal(t, noSummary, s.Content, in)
		assert.Equal(t, len([]rune(in)), s.OriginalLength)
	}
}

func TestSuggest_Checks(t *testing.T) {
	s := New().Suggest("hey, send stuff")

	require.Len(t, s.Suggestions, 5)
	assert.True(t, strings.HasPrefix(s.Suggestions[0], "🏗️ STRUCTURE: Add a professional greeting"))
	assert.True(t, strings.HasPrefix(s.Suggestions[1], "🏗️ STRUCTURE: Add a professional closing"))
	assert.True(t, strings.HasPrefix(s.Suggestions[2], "⚡ IMPACT: Include specific action items"))
	assert.True(t, strings.HasPrefix(s.Suggestions[3], "🎯 TONE: Replace casual expressions"))
	assert.True(t, strings.HasPrefix(s.Suggestions[4], "📝 CONTENT:"))

	assert.Equal(t, ai.EmailMetrics{
		WordCount:            3,
		SentenceCount:        1,
		AvgSentenceLength:    3,
		ProfessionalismScore: 4,
		ClarityScore:         9,
		EngagementScore:      5,
	}, s.Metrics)
}

func TestSuggest_PadsFromPool(t *testing.T) {
	s := New().Suggest("Dear Anna,\nCould you please review the attached plan by Friday.\nBest regards,\nTom")

	require.Len(t, s.Suggestions, maxSuggestions)
	assert.True(t, strings.HasPrefix(s.Suggestions[0], "📝 CONTENT:"))
	assert.Equal(t, suggestionPool[:5], s.Suggestions[1:])

	assert.Equal(t, 14, s.Metrics.WordCount)
	assert.Equal(t, 2, s.Metrics.SentenceCount)
	assert.Equal(t, 6.0, s.Metrics.ProfessionalismScore)
	assert.Equal(t, 10.0, s.Metrics.ClarityScore)
	assert.Equal(t, 9.0, s.Metrics.EngagementScore)
}

func TestSuggest_Repetition(t *testing.T) {
	content := "Dear team, please note the project. The project, the project and the project again. Thanks"
	s := New().Suggest(content)
	assert.Contains(t, s.Suggestions, "💡 CLARITY: Reduce repetition of words like 'project' by using synonyms or restructuring")
}

func TestSuggest_Capped(t *testing.T) {
	long := strings.Repeat("hey maybe the stuff was done and it was late and we were slow and it was bad ", 10)
	s := New().Suggest(long)
	assert.Len(t, s.Suggestions, maxSuggestions)
}

func TestTemplate_Catalogue(t *testing.T) {
	e := New()
	tmpl := e.Template(&ai.TaskRequest{Purpose: "meeting request", Tone: "formal", Industry: "finance"})

	assert.Equal(t, "Finance Meeting Request Template", tmpl.TemplateName)
	assert.Equal(t, "Meeting Request: {{topic}} - {{your_name}}", tmpl.SubjectTemplate)
	assert.True(t, strings.HasPrefix(tmpl.BodyTemplate, "Dear {{recipient_name}},\n\nI hope this email finds you well. I would like to schedule a meeting"))
	assert.Len(t, tmpl.Placeholders, 12)
	assert.Equal(t, "meeting", tmpl.Category)
	assert.Equal(t, ai.ComplexityAdvanced, tmpl.ComplexityLevel)
	assert.True(t, tmpl.IndustrySpecific)
	assert.Equal(t, "Professional meeting request template suitable for formal communication in finance industry", tmpl.Description)
	assert.Equal(t, []string{"meeting request", "formal communication", "professional correspondence"}, tmpl.UseCases)
	require.Len(t, tmpl.CustomizationTips, maxTips)
	assert.Equal(t, "Add calendar links or scheduling tools for convenience", tmpl.CustomizationTips[5])
}

func TestTemplate_Generic(t *testing.T) {
	tmpl := New().Template(&ai.TaskRequest{Purpose: "welcome_new_client"})

	assert.Equal(t, "Welcome New Client Template", tmpl.TemplateName)
	assert.Equal(t, "Re: {{topic}} - {{your_name}}", tmpl.SubjectTemplate)
	assert.Equal(t, genericBody, tmpl.BodyTemplate)
	assert.Equal(t, genericPlaceholders, tmpl.Placeholders)
	assert.Equal(t, "business", tmpl.Category)
	assert.Equal(t, "professional", tmpl.Tone)
	assert.Equal(t, ai.ComplexityIntermediate, tmpl.ComplexityLevel)
	assert.Len(t, tmpl.CustomizationTips, 4)
	assert.False(t, tmpl.IndustrySpecific)
}

func TestTemplate_FollowUpSpelling(t *testing.T) {
	e := New()
	for _, purpose := range []string{"follow_up", "follow-up", "Follow up"} {
		tmpl := e.Template(&ai.TaskRequest{Purpose: purpose})
		assert.Contains(t, tmpl.BodyTemplate, "I wanted to follow up", purpose)
		assert.Equal(t, "Follow-up: {{topic}} - Next Steps", tmpl.SubjectTemplate)
	}
}

func TestCategory(t *testing.T) {
	e := New()
	tests := []struct {
		purpose, templateType, want string
	}{
		{"sales pitch", "", "sales"},
		{"", "support", "support"},
		{"weekly status", "", "follow-up"},
		{"launch", "", "marketing"},
		{"x", "technical", "technical"},
		{"hello", "", "business"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.Category(tt.purpose, tt.templateType), tt.purpose)
	}
}

func TestAssessComplexity(t *testing.T) {
	e := New()
	assert.Equal(t, ai.ComplexitySimple, e.AssessComplexity(""))
	assert.Equal(t, ai.ComplexitySimple, e.AssessComplexity("Hi {{a}}."))
	assert.Equal(t, ai.ComplexityIntermediate, e.AssessComplexity(genericBody))
}

func TestReply(t *testing.T) {
	r := New().Reply(&ai.TaskRequest{Content: "Can we meet ASAP?", Tone: "formal"})

	assert.Equal(t, "Re: Can we meet ASAP?", r.Subject)
	assert.Equal(t, "Dear Sender,\n\nThank you for your email. I understand this is time-sensitive and I am giving it priority. I would be glad to find a time to talk.\n\nSincerely", r.Body)
	assert.Equal(t, "formal", r.Tone)
	assert.Equal(t, ConfidenceRuleBased, r.Confidence)
	assert.Equal(t, ai.MethodFallback, r.Method)

	r = New().Reply(&ai.TaskRequest{Content: "The report is attached."})
	assert.Equal(t, "professional", r.Tone)
	assert.Equal(t, "Hello,\n\nThank you for your email. I have received your message and will get back to you shortly.\n\nBest regards", r.Body)
}

func TestCreditsExhaustedReply(t *testing.T) {
	r := New().CreditsExhaustedReply("friendly")

	assert.True(t, r.Success)
	assert.True(t, r.FallbackUsed)
	assert.Equal(t, CreditsExhaustedReason, r.FallbackReason)
	assert.Equal(t, "Re: Your Email", r.Subject)
	assert.Equal(t, 0.7, r.Confidence)
	assert.Equal(t, "friendly", r.Tone)
}

func TestEngine_Total(t *testing.T) {
	e := New()
	inputs := []string{"", " ", "\n\n\n", "....!!!???", "{{}}", "日本語のメールです。", strings.Repeat("word ", 2000)}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			a := e.Analyze(in)
			assert.NotEmpty(t, a.KeyTopics)
			assert.NotEmpty(t, a.ActionItems)

			s := e.Suggest(in)
			assert.GreaterOrEqual(t, len(s.Suggestions), minSuggestions)
			assert.LessOrEqual(t, len(s.Suggestions), maxSuggestions)

			assert.NotEmpty(t, e.Summarize(in).Content)
			assert.NotEmpty(t, e.Reply(&ai.TaskRequest{Content: in}).Body)

			tmpl := e.Template(&ai.TaskRequest{Purpose: in})
			assert.NotEmpty(t, tmpl.BodyTemplate)
			assert.NotEmpty(t, tmpl.Placeholders)
		})
	}
}
