package parser

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/mailmind/internal/aierr"
	"github.com/hrygo/mailmind/plugin/ai"
)

const fullAnalysis = `{
  "sentiment": "positive",
  "urgency": "low",
  "tone": "friendly",
  "emotion_score": 0.9,
  "key_topics": ["launch", "team"],
  "action_items": ["send deck"],
  "clarity_score": 9,
  "tone_appropriateness": 8
}`

func TestStripFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"no tag", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```JSON\n{\"a\":1}\n```\n ", `{"a":1}`},
		{"single line with tag", "```json{\"a\":1}```", `{"a":1}`},
		{"single line without tag", "```{\"a\":1}```", `{"a":1}`},
		{"single line with tag and space", "```json {\"a\":1}```", `{"a":1}`},
		{"only opening fence", "```json\n{\"a\":1}", "```json\n{\"a\":1}"},
		{"only closing fence", "{\"a\":1}\n```", "{\"a\":1}\n```"},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"bare fences", "``````", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripFence(tt.input))
		})
	}
}

func TestParseJSON_FenceRoundTrip(t *testing.T) {
	for _, task := range []ai.TaskType{ai.TaskAnalyze, ai.TaskSuggest, ai.TaskGenerateTemplate} {
		t.Run(string(task), func(t *testing.T) {
			plain, err := Parse(task, fullAnalysis, "")
			require.NoError(t, err)
			fenced, err := Parse(task, "```json\n"+fullAnalysis+"\n```", "")
			require.NoError(t, err)
			assert.Equal(t, plain, fenced)
		})
	}
}

func TestParseJSON_Complete(t *testing.T) {
	p, err := ParseJSON(ai.TaskAnalyze, fullAnalysis)
	require.NoError(t, err)
	assert.Empty(t, p.Missing)

	a := p.Analysis()
	assert.Equal(t, "positive", a.Sentiment)
	assert.Equal(t, "low", a.Urgency)
	assert.Equal(t, "friendly", a.Tone)
	assert.InDelta(t, 0.9, a.EmotionScore, 1e-9)
	assert.Equal(t, []string{"launch", "team"}, a.KeyTopics)
	assert.Equal(t, []string{"send deck"}, a.ActionItems)
	assert.Equal(t, 9.0, a.ClarityScore)
	assert.Equal(t, 8.0, a.ToneAppropriateness)
}

func TestParseJSON_DefaultsForMissing(t *testing.T) {
	p, err := ParseJSON(ai.TaskAnalyze, `{"urgency": "high"}`)
	require.NoError(t, err)

	a := p.Analysis()
	assert.Equal(t, "high", a.Urgency)
	assert.Equal(t, DefaultSentiment, a.Sentiment)
	assert.Equal(t, DefaultTone, a.Tone)
	assert.Equal(t, DefaultEmotion, a.EmotionScore)
	assert.Equal(t, DefaultKeyTopics, a.KeyTopics)
	assert.Equal(t, DefaultActionItems, a.ActionItems)
	assert.Equal(t, DefaultScore, a.ClarityScore)
	assert.Equal(t, DefaultScore, a.ToneAppropriateness)

	assert.True(t, p.Has("urgency"))
	assert.False(t, p.Has("sentiment"))
	assert.Len(t, p.Missing, 7)
}

// Defaulting fills an absent key and never overrides a present one.
func TestParseJSON_DefaultingIdempotence(t *testing.T) {
	for _, task := range []ai.TaskType{ai.TaskAnalyze, ai.TaskSuggest, ai.TaskGenerateTemplate} {
		empty, err := ParseJSON(task, `{}`)
		require.NoError(t, err)
		assert.Equal(t, RequiredKeys(task), empty.Missing, task)
	}

	tests := []struct {
		name  string
		json  string
		check func(t *testing.T, p *Parsed)
	}{
		{
			name: "sentiment present",
			json: `{"sentiment": "negative"}`,
			check: func(t *testing.T, p *Parsed) {
				assert.Equal(t, "negative", p.String("sentiment"))
			},
		},
		{
			name: "score present below default",
			json: `{"clarity_score": 2}`,
			check: func(t *testing.T, p *Parsed) {
				assert.Equal(t, 2.0, p.Number("clarity_score"))
			},
		},
		{
			name: "zero score is present",
			json: `{"emotion_score": 0}`,
			check: func(t *testing.T, p *Parsed) {
				assert.Equal(t, 0.0, p.Number("emotion_score"))
				assert.True(t, p.Has("emotion_score"))
			},
		},
		{
			name: "numeric string coerced",
			json: `{"tone_appropriateness": "6"}`,
			check: func(t *testing.T, p *Parsed) {
				assert.Equal(t, 6.0, p.Number("tone_appropriateness"))
			},
		},
		{
			name: "single string topic",
			json: `{"key_topics": "budget"}`,
			check: func(t *testing.T, p *Parsed) {
				assert.Equal(t, []string{"budget"}, p.List("key_topics"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseJSON(ai.TaskAnalyze, tt.json)
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestParseJSON_WrongTypesDefaulted(t *testing.T) {
	p, err := ParseJSON(ai.TaskAnalyze, `{"sentiment": 5, "key_topics": [], "clarity_score": "high", "tone": null, "urgency": "  "}`)
	require.NoError(t, err)

	assert.Equal(t, DefaultSentiment, p.String("sentiment"))
	assert.Equal(t, DefaultKeyTopics, p.List("key_topics"))
	assert.Equal(t, DefaultScore, p.Number("clarity_score"))
	assert.Equal(t, DefaultTone, p.String("tone"))
	assert.Equal(t, DefaultUrgency, p.String("urgency"))
}

func TestParseJSON_NonFiniteScoresDefaulted(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"nan string", `{"clarity_score": "NaN", "emotion_score": "NaN"}`},
		{"inf string", `{"clarity_score": "Inf", "emotion_score": "-Inf"}`},
		{"infinity string", `{"clarity_score": "infinity", "emotion_score": "+Infinity"}`},
		{"overflowing number", `{"clarity_score": 1e999, "emotion_score": -1e999}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseJSON(ai.TaskAnalyze, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, DefaultScore, p.Number("clarity_score"))
			assert.Equal(t, DefaultEmotion, p.Number("emotion_score"))
			assert.Contains(t, p.Missing, "clarity_score")
			assert.Contains(t, p.Missing, "emotion_score")

			_, err = json.Marshal(p.Analysis())
			assert.NoError(t, err)
		})
	}
}

func TestParseJSON_DefaultsNotShared(t *testing.T) {
	p1, err := ParseJSON(ai.TaskAnalyze, `{}`)
	require.NoError(t, err)
	topics := p1.List("key_topics")
	topics[0] = "mutated"

	p2, err := ParseJSON(ai.TaskAnalyze, `{}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"communication"}, p2.List("key_topics"))
	assert.Equal(t, []string{"communication"}, DefaultKeyTopics)
}

func TestParseJSON_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose", "Here is my analysis: the email is positive."},
		{"truncated", `{"sentiment": "positive", "urgency":`},
		{"array", `["positive"]`},
		{"string", `"positive"`},
		{"trailing data", `{"sentiment": "positive"} {"urgency": "low"}`},
		{"unterminated fence", "```json\n{\"sentiment\": \"positive\"}"},
		{"empty", "   "},
		{"empty fence", "```json\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseJSON(ai.TaskAnalyze, tt.raw)
			assert.Nil(t, p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, aierr.ErrMalformedJSON))
		})
	}
}

func TestParseJSON_SuggestNestedMetrics(t *testing.T) {
	raw := `{
  "suggestions": ["🎯 TONE: Soften the opening", "⚡ IMPACT: Add a deadline"],
  "improved_email": "Hi team,\nPlease review by Friday.\nThanks",
  "analysis_metrics": {"word_count": 42, "sentence_count": 3, "professionalism_score": 8}
}`
	p, err := ParseJSON(ai.TaskSuggest, raw)
	require.NoError(t, err)

	s := p.Suggestions()
	assert.Len(t, s.Suggestions, 2)
	assert.Equal(t, "Hi team,\nPlease review by Friday.\nThanks", s.ImprovedEmail)
	assert.Equal(t, 42, s.Metrics.WordCount)
	assert.Equal(t, 3, s.Metrics.SentenceCount)
	assert.Equal(t, 8.0, s.Metrics.ProfessionalismScore)
	assert.Equal(t, DefaultScore, s.Metrics.ClarityScore)
	assert.Equal(t, DefaultScore, s.Metrics.EngagementScore)
	assert.Equal(t, []string{"analysis_metrics.clarity_score", "analysis_metrics.engagement_score"}, p.Missing)
}

func TestParseJSON_Template(t *testing.T) {
	raw := `{"template_name": "Kickoff", "body_template": "Hi {{recipient_name}},", "industry_specific": "true"}`
	p, err := ParseJSON(ai.TaskGenerateTemplate, raw)
	require.NoError(t, err)

	tmpl := p.Template()
	assert.Equal(t, "Kickoff", tmpl.TemplateName)
	assert.Equal(t, "Hi {{recipient_name}},", tmpl.BodyTemplate)
	assert.True(t, tmpl.IndustrySpecific)
	assert.Equal(t, DefaultSubjectTemplate, tmpl.SubjectTemplate)
	assert.Equal(t, DefaultPlaceholders, tmpl.Placeholders)
	assert.Equal(t, DefaultCategory, tmpl.Category)
	assert.Equal(t, ai.ComplexitySimple, tmpl.ComplexityLevel)
	assert.True(t, p.Has("body_template"))
	assert.False(t, p.Has("category"))
}

func TestParseText_SubjectExtraction(t *testing.T) {
	p, err := Parse(ai.TaskGenerateReply, "Subject: Re: Budget\n\nHi Sam,\nThanks.", "Budget question")
	require.NoError(t, err)
	assert.Equal(t, "Re: Budget", p.Subject)
	assert.Equal(t, "Hi Sam,\nThanks.", p.Body)
	assert.False(t, p.SubjectSynthesized)
}

func TestParseText_NoSubjectLine(t *testing.T) {
	p, err := Parse(ai.TaskGenerateReply, "Just body text.", "Meeting tomorrow?\nLet me know.")
	require.NoError(t, err)
	assert.Equal(t, "Re: Meeting tomorrow?", p.Subject)
	assert.Equal(t, "Just body text.", p.Body)
	assert.True(t, p.SubjectSynthesized)
}

func TestParseText_Rules(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		original        string
		expectedSubject string
		expectedBody    string
	}{
		{
			name:            "first subject wins and later ones are dropped",
			raw:             "Subject: First\nBody line\nSubject: Second\nMore",
			expectedSubject: "First",
			expectedBody:    "Body line\nMore",
		},
		{
			name:            "subject prefix is case-sensitive",
			raw:             "subject: lower\nBody",
			original:        "Quarterly numbers",
			expectedSubject: "Re: Quarterly numbers",
			expectedBody:    "subject: lower\nBody",
		},
		{
			name:            "indented subject is body",
			raw:             "Body first\n  Subject: indented",
			original:        "Hi",
			expectedSubject: "Re: Hi",
			expectedBody:    "Body first\n  Subject: indented",
		},
		{
			name:            "crlf and blank lines",
			raw:             "Subject: Hello\r\n\r\nLine one\r\n   \r\nLine two\r\n",
			expectedSubject: "Hello",
			expectedBody:    "Line one\nLine two",
		},
		{
			name:            "empty subject synthesized",
			raw:             "Subject:   \nBody",
			original:        "Status?",
			expectedSubject: "Re: Status?",
			expectedBody:    "Body",
		},
		{
			name:            "blank original",
			raw:             "Body",
			original:        "",
			expectedSubject: DefaultReplySubject,
			expectedBody:    "Body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseText(ai.TaskGenerateReply, tt.raw, tt.original)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSubject, p.Subject)
			assert.Equal(t, tt.expectedBody, p.Body)
		})
	}
}

func TestParseText_Empty(t *testing.T) {
	_, err := ParseText(ai.TaskSummarize, " \n ", "x")
	assert.ErrorIs(t, err, aierr.ErrParse)
}

func TestParseText_SubjectOnly(t *testing.T) {
	for _, raw := range []string{"Subject: Thanks", "Subject: Re: Budget\n\n", "```\nSubject: Re: Budget\n```"} {
		p, err := ParseText(ai.TaskGenerateReply, raw, "Budget?")
		assert.Nil(t, p)
		assert.ErrorIs(t, err, aierr.ErrParse)
	}
}

func TestParseText_Summary(t *testing.T) {
	p, err := Parse(ai.TaskSummarize, "The sender asks for the Q3 report by Friday.", "long email")
	require.NoError(t, err)

	s := p.Summary("long email")
	assert.Equal(t, "The sender asks for the Q3 report by Friday.", s.Content)
	assert.Equal(t, len("long email"), s.OriginalLength)
	assert.Equal(t, len(s.Content), s.SummaryLength)
}

func TestSynthesizeSubject_Truncates(t *testing.T) {
	long := strings.Repeat("a", 100)
	subject := SynthesizeSubject(long)
	assert.True(t, strings.HasPrefix(subject, "Re: "))
	assert.Equal(t, "Re: "+strings.Repeat("a", maxSubjectRunes)+"...", subject)

	assert.Equal(t, "Re: héllo", SynthesizeSubject("  héllo  \nrest"))
}
