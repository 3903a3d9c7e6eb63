package fallback

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/hrygo/mailmind/plugin/ai"
)

const (
	minSuggestions = 4
	maxSuggestions = 6
)

var (
	greetings         = []string{"dear", "hello", "hi", "good morning", "good afternoon", "greetings"}
	closings          = []string{"regards", "sincerely", "best", "thank you", "thanks", "cordially"}
	actionIndicators  = []string{"please", "could you", "would you", "can you", "let me know", "need you to", "request"}
	vagueTerms        = []string{"soon", "later", "sometime", "whenever", "maybe", "probably", "might", "could possibly"}
	casualTerms       = []string{"hey", "gonna", "wanna", "yeah", "ok", "stuff", "things", "kinda", "sorta"}
	passivePatterns   = []string{"was done", "were completed", "has been", "will be handled", "is being", "are being"}
	professionalTerms = []string{"please", "thank you", "regards", "sincerely", "appreciate", "consider", "kindly", "respectfully"}
)

// suggestionPool pads the suggestion list when few checks fire.
var suggestionPool = []string{
	"💡 CLARITY: Use bullet points to organize multiple items or complex information",
	"⚡ IMPACT: Lead with the most important information in your opening paragraph",
	"🎯 TONE: Ensure your tone matches the relationship and formality level with the recipient",
	"🏗️ STRUCTURE: Create descriptive subject lines that summarize your main purpose",
	"📝 CONTENT: Provide sufficient context for recipients who may not have background information",
	"⚡ IMPACT: End with clear next steps or timeline expectations",
}

// draftStats holds the measurements shared by the checks and the metrics.
type draftStats struct {
	lower       string
	words       []string
	sentences   []string
	avgSentence float64

	hasGreeting bool
	hasClosing  bool
	hasAction   bool
	vague       int
	casual      int
}

func measure(content string) draftStats {
	st := draftStats{
		lower:     strings.ToLower(content),
		words:     strings.Fields(content),
		sentences: splitSentences(content),
	}
	if len(st.sentences) > 0 {
		total := 0
		for _, s := range st.sentences {
			total += len(strings.Fields(s))
		}
		st.avgSentence = float64(total) / float64(len(st.sentences))
	}
	st.hasGreeting = containsAny(st.lower, greetings)
	st.hasClosing = containsAny(st.lower, closings)
	st.hasAction = containsAny(st.lower, actionIndicators)
	st.vague = countAll(st.lower, vagueTerms)
	st.casual = countAll(st.lower, casualTerms)
	return st
}

// Suggest runs a fixed battery of structure, clarity, tone and impact checks.
func (e *Engine) Suggest(content string) ai.Suggestions {
	st := measure(content)

	var out []string
	switch {
	case !st.hasGreeting:
		out = append(out, "🏗️ STRUCTURE: Add a professional greeting like 'Dear [Name]' or 'Hello [Name]' to establish rapport")
	case strings.HasPrefix(st.lower, "hi ") || strings.HasPrefix(st.lower, "hey "):
		out = append(out, "🏗️ STRUCTURE: Consider 'Dear [Name]' or 'Hello [Name]' for more formal business communication")
	}
	if !st.hasClosing {
		out = append(out, "🏗️ STRUCTURE: Add a professional closing such as 'Best regards' or 'Sincerely' followed by your name")
	}

	if st.avgSentence > 20 {
		out = append(out, fmt.Sprintf("💡 CLARITY: Break long sentences (avg: %.1f words) into shorter, more digestible segments", st.avgSentence))
	}
	if utf8.RuneCountInString(content) > 400 && strings.Count(content, "\n") < 3 {
		out = append(out, "💡 CLARITY: Organize content into shorter paragraphs - each focusing on one main idea")
	}

	if !st.hasAction {
		out = append(out, "⚡ IMPACT: Include specific action items or requests to guide the recipient's response")
	}
	if st.vague > 0 {
		out = append(out, "⚡ IMPACT: Replace vague timeframes with specific dates, deadlines, or timeframes")
	}
	if st.casual > 0 {
		out = append(out, "🎯 TONE: Replace casual expressions with professional language appropriate for business communication")
	}
	if countAll(st.lower, passivePatterns) > 0 || strings.Count(st.lower, " was ")+strings.Count(st.lower, " were ") > 2 {
		out = append(out, "⚡ IMPACT: Use active voice ('I will complete' vs 'it will be completed') for stronger communication")
	}

	if len(st.words) < 20 {
		out = append(out, "📝 CONTENT: Consider adding more context or details to make your message more comprehensive")
	}
	if repeated := repeatedWords(st.words); len(repeated) > 0 {
		if len(repeated) > 2 {
			repeated = repeated[:2]
		}
		out = append(out, fmt.Sprintf("💡 CLARITY: Reduce repetition of words like '%s' by using synonyms or restructuring", strings.Join(repeated, "', '")))
	}

	if len(out) < minSuggestions {
		for _, s := range suggestionPool {
			if len(out) >= maxSuggestions {
				break
			}
			if !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}

	return ai.Suggestions{
		Meta:        ai.FallbackMeta(""),
		Suggestions: out,
		Metrics:     st.metrics(),
	}
}

// repeatedWords returns words longer than three runes used more than three
// times, in first occurrence order.
func repeatedWords(words []string) []string {
	freq := make(map[string]int)
	var order []string
	for _, w := range words {
		w = strings.Trim(strings.ToLower(w), ".,!?;:")
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}

	var out []string
	for _, w := range order {
		if freq[w] > 3 {
			out = append(out, w)
		}
	}
	return out
}

// Metrics scores a draft without producing suggestions.
func (e *Engine) Metrics(content string) ai.EmailMetrics {
	return measure(content).metrics()
}

func (st draftStats) metrics() ai.EmailMetrics {
	professionalism := 4
	for _, term := range professionalTerms {
		if strings.Contains(st.lower, term) {
			professionalism++
		}
	}

	clarity := 10
	if st.avgSentence > 25 {
		clarity -= 2
	}
	if len(st.sentences) == 0 {
		clarity -= 3
	}
	if st.casual > 0 {
		clarity--
	}
	if st.vague > 1 {
		clarity--
	}

	engagement := 5
	if st.hasAction {
		engagement += 2
	}
	if st.hasGreeting && st.hasClosing {
		engagement += 2
	}
	if n := len(st.words); n > 15 && n < 150 {
		engagement++
	}

	return ai.EmailMetrics{
		WordCount:            len(st.words),
		SentenceCount:        len(st.sentences),
		AvgSentenceLength:    math.Round(st.avgSentence*10) / 10,
		ProfessionalismScore: float64(min(10, professionalism)),
		ClarityScore:         float64(max(1, clarity)),
		EngagementScore:      float64(min(10, engagement)),
	}
}
