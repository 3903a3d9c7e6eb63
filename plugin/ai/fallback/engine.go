// Package fallback implements every task with fixed keyword and heuristic
// rules. It is used when no model is available, a provider call fails or the
// model output cannot be parsed, and it depends on no model component.
//
// All methods are deterministic and total: any string input, including the
// empty string, yields a fully populated result.
package fallback

import (
	"strings"
	"unicode/utf8"

	"github.com/hrygo/mailmind/plugin/ai"
)

// Confidence reported on replies that did not come from a model.
const (
	ConfidenceCanned    = 0.7
	ConfidenceRuleBased = 0.6
)

// CreditsExhaustedReason tags the canned reply returned when the provider
// rejects a reply for lack of credits.
const CreditsExhaustedReason = "API credits exhausted - using template response"

const (
	creditsSubject = "Re: Your Email"
	creditsBody    = "Thank you for your email. I appreciate you reaching out and will get back to you soon.\n\nBest regards"

	noSummary = "This email contains brief communication that doesn't require summarization."

	// minSummarySentence is the rune length a sentence must exceed to be summarized.
	minSummarySentence  = 10
	maxSummarySentences = 3
)

// Engine is the rule-based implementation of every task. The zero value is
// ready to use and safe for concurrent use.
type Engine struct{}

// New returns an Engine.
func New() *Engine {
	return &Engine{}
}

// Summarize keeps the first three sentences longer than ten runes.
func (e *Engine) Summarize(content string) ai.Summary {
	var kept []string
	for _, s := range splitSentences(content) {
		if utf8.RuneCountInString(s) > minSummarySentence {
			kept = append(kept, s)
		}
	}

	summary := noSummary
	if len(kept) > 0 {
		if len(kept) > maxSummarySentences {
			kept = kept[:maxSummarySentences]
		}
		summary = strings.Join(kept, ". ") + "."
	}

	return ai.Summary{
		Meta:           ai.FallbackMeta(""),
		Content:        summary,
		OriginalLength: utf8.RuneCountInString(content),
		SummaryLength:  utf8.RuneCountInString(summary),
	}
}

// splitSentences splits on sentence-terminating punctuation and drops blank
// pieces.
func splitSentences(s string) []string {
	pieces := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	out := pieces[:0]
	for _, p := range pieces {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CreditsExhaustedReply is the canned apology returned instead of a model
// reply when the provider reports exhausted credits.
func (e *Engine) CreditsExhaustedReply(tone string) ai.Reply {
	return ai.Reply{
		Meta:       ai.FallbackMeta(CreditsExhaustedReason),
		Subject:    creditsSubject,
		Body:       creditsBody,
		Tone:       tone,
		Confidence: ConfidenceCanned,
	}
}

var replyGreetings = map[string]string{
	"formal":   "Dear Sender,",
	"friendly": "Hi there,",
	"casual":   "Hi there,",
	"urgent":   "Hello,",
}

var replyClosings = map[string]string{
	"formal":   "Sincerely",
	"friendly": "Cheers",
	"casual":   "Cheers",
}

// Reply drafts an acknowledgment shaped by the requested tone and by what the
// original email asks for.
func (e *Engine) Reply(req *ai.TaskRequest) ai.Reply {
	tone := strings.ToLower(strings.TrimSpace(req.Tone))
	if tone == "" {
		tone = "professional"
	}

	greeting, ok := replyGreetings[tone]
	if !ok {
		greeting = "Hello,"
	}
	closing, ok := replyClosings[tone]
	if !ok {
		closing = "Best regards"
	}

	lines := []string{"Thank you for your email."}
	analysis := e.Analyze(req.Content)
	if analysis.Urgency == "high" {
		lines = append(lines, "I understand this is time-sensitive and I am giving it priority.")
	}
	for _, item := range analysis.ActionItems {
		if line, ok := replyCommitments[item]; ok {
			lines = append(lines, line)
		}
	}
	if len(lines) == 1 {
		lines = append(lines, "I have received your message and will get back to you shortly.")
	}

	body := greeting + "\n\n" + strings.Join(lines, " ") + "\n\n" + closing
	return ai.Reply{
		Meta:       ai.FallbackMeta(""),
		Subject:    ai.ReplySubject(req.Content),
		Body:       body,
		Tone:       tone,
		Confidence: ConfidenceRuleBased,
	}
}

var replyCommitments = map[string]string{
	actionMeeting:  "I would be glad to find a time to talk.",
	actionReview:   "I will review the details and follow up.",
	actionSend:     "I will send over what you asked for.",
	actionUpdate:   "I will keep you posted on progress.",
	actionDeadline: "I will make sure we meet the deadline.",
}
