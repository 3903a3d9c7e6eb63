package fallback

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/hrygo/mailmind/plugin/ai"
)

type lexicon struct {
	words   []string
	phrases []string
}

// score counts word hits once and phrase hits twice.
func (l lexicon) score(s string) int {
	n := 0
	for _, w := range l.words {
		n += strings.Count(s, w)
	}
	for _, p := range l.phrases {
		n += 2 * strings.Count(s, p)
	}
	return n
}

var (
	positiveLexicon = lexicon{
		words:   []string{"thank", "great", "excellent", "wonderful", "amazing", "appreciate", "pleased", "happy", "perfect", "fantastic"},
		phrases: []string{"thank you", "well done", "good job", "looking forward", "excited about"},
	}
	negativeLexicon = lexicon{
		words:   []string{"sorry", "problem", "issue", "concern", "disappointed", "frustrated", "urgent", "emergency", "mistake", "error", "failed", "wrong"},
		phrases: []string{"not working", "need help", "went wrong", "big problem", "very concerned"},
	}

	highUrgency   = []string{"urgent", "asap", "immediately", "emergency", "critical", "deadline today", "right now"}
	mediumUrgency = []string{"soon", "quick", "fast", "deadline", "by end of day", "this week"}

	urgentTone   = []string{"urgent", "asap", "immediately", "critical"}
	formalTone   = []string{"dear", "sincerely", "regards", "respectfully", "cordially", "yours truly"}
	friendlyTone = []string{"hi", "hey", "thanks", "cheers", "talk soon", "catch up"}
)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`that with have this will from they been were said each which their
		time about would there could other more very what know just first into over think also your
		work life only need should make like even back take come good much well want through where
		most after please email message`) {
		stopWords[w] = struct{}{}
	}
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}\p{M}_]+`)

const (
	minTopicRunes = 4
	maxTopics     = 4
	maxActions    = 4

	defaultTopic  = "general communication"
	defaultAction = "Acknowledge receipt and respond appropriately"
)

// Action item phrases, one per category.
const (
	actionMeeting  = "Schedule meeting or call"
	actionReview   = "Review documents or information"
	actionSend     = "Send requested materials"
	actionUpdate   = "Provide status update"
	actionDeadline = "Complete task by deadline"
)

// actionPatterns are checked in this order.
var actionPatterns = []struct {
	pattern *regexp.Regexp
	item    string
}{
	{regexp.MustCompile(`\b(meet|meeting|schedule|call|discuss)\b`), actionMeeting},
	{regexp.MustCompile(`\b(review|check|look at|examine)\b`), actionReview},
	{regexp.MustCompile(`\b(send|provide|share|forward)\b`), actionSend},
	{regexp.MustCompile(`\b(update|inform|notify|let.*know)\b`), actionUpdate},
	{regexp.MustCompile(`\b(deadline|due|complete|finish)\b`), actionDeadline},
}

// Analyze scores sentiment, urgency and tone from keyword lists and extracts
// frequent words as topics.
func (e *Engine) Analyze(content string) ai.Analysis {
	lower := strings.ToLower(content)

	sentiment, emotion := classifySentiment(lower)
	tone := classifyTone(lower)

	appropriateness := 6.0
	if tone == "formal" || tone == "professional" {
		appropriateness = 8.0
	}

	return ai.Analysis{
		Meta:                ai.FallbackMeta(""),
		Sentiment:           sentiment,
		Urgency:             classifyUrgency(lower),
		Tone:                tone,
		EmotionScore:        emotion,
		KeyTopics:           keyTopics(lower),
		ActionItems:         actionItems(lower),
		ClarityScore:        7,
		ToneAppropriateness: appropriateness,
	}
}

func classifySentiment(lower string) (string, float64) {
	pos := positiveLexicon.score(lower)
	neg := negativeLexicon.score(lower)
	switch {
	case pos > neg && pos > 0:
		return "positive", min(0.8, 0.5+0.1*float64(pos))
	case neg > pos && neg > 0:
		return "negative", max(0.2, 0.5-0.1*float64(neg))
	default:
		return "neutral", 0.5
	}
}

func classifyUrgency(lower string) string {
	switch {
	case containsAny(lower, highUrgency):
		return "high"
	case containsAny(lower, mediumUrgency):
		return "medium"
	default:
		return "low"
	}
}

func classifyTone(lower string) string {
	switch {
	case containsAny(lower, urgentTone):
		return "urgent"
	case containsAny(lower, formalTone):
		return "formal"
	case containsAny(lower, friendlyTone):
		return "friendly"
	default:
		return "professional"
	}
}

// keyTopics ranks words of at least four runes by frequency. Ties keep first
// occurrence order.
func keyTopics(lower string) []string {
	freq := make(map[string]int)
	var order []string
	for _, w := range wordPattern.FindAllString(lower, -1) {
		if utf8.RuneCountInString(w) < minTopicRunes {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}
	if len(order) == 0 {
		return []string{defaultTopic}
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return freq[b] - freq[a]
	})
	if len(order) > maxTopics {
		order = order[:maxTopics]
	}
	return order
}

func actionItems(lower string) []string {
	var items []string
	for _, ap := range actionPatterns {
		if ap.pattern.MatchString(lower) {
			items = append(items, ap.item)
		}
	}
	if len(items) == 0 {
		return []string{defaultAction}
	}
	if len(items) > maxActions {
		items = items[:maxActions]
	}
	return items
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func countAll(s string, subs []string) int {
	n := 0
	for _, sub := range subs {
		n += strings.Count(s, sub)
	}
	return n
}
