package fallback

import (
	"strings"
	"unicode"

	"github.com/hrygo/mailmind/plugin/ai"
)

const maxTips = 6

// categoryKeywords are checked in order against the purpose and the template type.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"sales", []string{"sell", "proposal", "quote", "offer", "pitch", "demo"}},
	{"support", []string{"help", "support", "issue", "problem", "question", "assistance"}},
	{"follow-up", []string{"follow", "check", "update", "progress", "status"}},
	{"meeting", []string{"meet", "call", "schedule", "appointment", "discussion"}},
	{"project", []string{"project", "task", "deliverable", "milestone", "deadline"}},
	{"marketing", []string{"market", "campaign", "promotion", "announcement", "launch"}},
	{"technical", []string{"technical", "development", "code", "system", "integration"}},
}

type cannedBody struct {
	key          string
	body         string
	placeholders []string
}

var commonPlaceholders = []string{"{{recipient_name}}", "{{your_name}}", "{{topic}}", "{{your_title}}", "{{your_contact}}"}

// cannedBodies are matched by substring against the normalized purpose, in order.
var cannedBodies = []cannedBody{
	{
		key: "meeting",
		body: `Dear {{recipient_name}},

I hope this email finds you well. I would like to schedule a meeting to discuss {{topic}}.

Meeting Details:
- Purpose: {{meeting_purpose}}
- Suggested Duration: {{duration}}
- Proposed Date/Time: {{datetime}}
- Location/Platform: {{location}}

Agenda items I'd like to cover:
- {{agenda_item1}}
- {{agenda_item2}}
- {{agenda_item3}}

Please let me know if this time works for you, or suggest alternative times that might be more convenient.

Best regards,
{{your_name}}
{{your_title}}
{{your_contact}}`,
		placeholders: []string{"{{meeting_purpose}}", "{{duration}}", "{{datetime}}", "{{location}}",
			"{{agenda_item1}}", "{{agenda_item2}}", "{{agenda_item3}}"},
	},
	{
		key: "follow_up",
		body: `Dear {{recipient_name}},

I wanted to follow up on our previous conversation about {{topic}}.

As discussed, I'm reaching out to {{purpose}} and ensure we're aligned on next steps.

Current Status:
- {{status_item1}}
- {{status_item2}}

Next Steps:
- {{next_step1}} (Target: {{date1}})
- {{next_step2}} (Target: {{date2}})

Please let me know if you have any questions or if there's anything I can help clarify.

Best regards,
{{your_name}}`,
		placeholders: []string{"{{purpose}}", "{{status_item1}}", "{{status_item2}}",
			"{{next_step1}}", "{{date1}}", "{{next_step2}}", "{{date2}}"},
	},
	{
		key: "proposal",
		body: `Dear {{recipient_name}},

Thank you for your interest in {{service}}. I'm pleased to present this proposal for {{project_name}}.

Project Overview:
{{project_description}}

Scope of Work:
- {{deliverable1}}
- {{deliverable2}}
- {{deliverable3}}

Timeline: {{timeline}}
Investment: {{cost}}

I believe this solution will {{benefit}} and I'm excited about the opportunity to work with {{company}}.

I'd be happy to discuss this proposal in detail. Please let me know when you're available for a call.

Best regards,
{{your_name}}
{{your_title}}
{{your_contact}}`,
		placeholders: []string{"{{service}}", "{{project_name}}", "{{project_description}}",
			"{{deliverable1}}", "{{deliverable2}}", "{{deliverable3}}",
			"{{timeline}}", "{{cost}}", "{{benefit}}", "{{company}}"},
	},
	{
		key: "support",
		body: `Dear {{recipient_name}},

Thank you for reaching out regarding {{issue}}.

I understand that {{problem_description}} and I'm here to help resolve this promptly.

To assist you effectively, I've {{initial_action}} and would like to {{next_action}}.

Resolution Steps:
1. {{step1}}
2. {{step2}}
3. {{step3}}

Timeline: {{resolution_timeline}}

If you have any questions or need immediate assistance, please don't hesitate to contact me at {{contact_method}}.

Best regards,
{{your_name}}
{{your_title}}`,
		placeholders: []string{"{{issue}}", "{{problem_description}}", "{{initial_action}}",
			"{{next_action}}", "{{step1}}", "{{step2}}", "{{step3}}",
			"{{resolution_timeline}}", "{{contact_method}}"},
	},
}

const genericBody = `Dear {{recipient_name}},

I hope this email finds you well. I'm writing to {{purpose}}.

{{main_content}}

{{call_to_action}}

Please let me know if you have any questions or need any additional information.

Best regards,
{{your_name}}
{{your_title}}`

var genericPlaceholders = []string{"{{recipient_name}}", "{{purpose}}", "{{main_content}}",
	"{{call_to_action}}", "{{your_name}}", "{{your_title}}"}

// Template builds a template from the canned catalogue, or a generic skeleton
// when the purpose matches no catalogue entry.
func (e *Engine) Template(req *ai.TaskRequest) ai.Template {
	purpose := strings.TrimSpace(req.Purpose)
	industry := strings.TrimSpace(req.Industry)
	tone := strings.TrimSpace(req.Tone)
	if tone == "" {
		tone = "professional"
	}
	lower := strings.ToLower(purpose)

	name := titleCase(strings.ReplaceAll(purpose, "_", " ")) + " Template"
	if industry != "" {
		name = titleCase(industry) + " " + name
	}

	description := "Professional " + purpose + " template suitable for " + tone + " communication"
	if industry != "" {
		description += " in " + industry + " industry"
	}

	body, placeholders := genericBody, genericPlaceholders
	key := strings.NewReplacer(" ", "_", "-", "_").Replace(lower)
	for _, c := range cannedBodies {
		if strings.Contains(key, c.key) {
			body = c.body
			placeholders = append(append([]string{}, commonPlaceholders...), c.placeholders...)
			break
		}
	}

	return ai.Template{
		Meta:              ai.FallbackMeta(""),
		TemplateName:      name,
		Description:       description,
		SubjectTemplate:   subjectTemplate(lower),
		BodyTemplate:      body,
		Placeholders:      append([]string{}, placeholders...),
		Category:          e.Category(purpose, req.TemplateType),
		Tone:              tone,
		IndustrySpecific:  industry != "",
		UseCases:          []string{purpose, tone + " communication", "professional correspondence"},
		ComplexityLevel:   e.AssessComplexity(body),
		CustomizationTips: e.CustomizationTips(purpose, tone),
	}
}

func subjectTemplate(lowerPurpose string) string {
	switch {
	case strings.Contains(lowerPurpose, "meeting"):
		return "Meeting Request: {{topic}} - {{your_name}}"
	case strings.Contains(lowerPurpose, "follow"):
		return "Follow-up: {{topic}} - Next Steps"
	case strings.Contains(lowerPurpose, "proposal"):
		return "Proposal: {{service}} for {{company}}"
	default:
		return "Re: {{topic}} - {{your_name}}"
	}
}

// Category classifies a template by keywords in its purpose or type.
func (e *Engine) Category(purpose, templateType string) string {
	p, t := strings.ToLower(purpose), strings.ToLower(templateType)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(p, kw) || strings.Contains(t, kw) {
				return c.category
			}
		}
	}
	return "business"
}

// AssessComplexity scores a body by placeholder, sentence and paragraph counts.
func (e *Engine) AssessComplexity(body string) string {
	if body == "" {
		return ai.ComplexitySimple
	}

	score := 0
	switch placeholders := strings.Count(body, "{{"); {
	case placeholders > 8:
		score += 2
	case placeholders > 4:
		score++
	}
	switch sentences := countNonBlank(strings.Split(body, ".")); {
	case sentences > 15:
		score += 2
	case sentences > 8:
		score++
	}
	switch paragraphs := countNonBlank(strings.Split(body, "\n\n")); {
	case paragraphs > 4:
		score += 2
	case paragraphs > 2:
		score++
	}

	switch {
	case score >= 4:
		return ai.ComplexityAdvanced
	case score >= 2:
		return ai.ComplexityIntermediate
	default:
		return ai.ComplexitySimple
	}
}

// CustomizationTips returns general tips plus purpose specific ones, at most six.
func (e *Engine) CustomizationTips(purpose, tone string) []string {
	tips := []string{
		"Adjust the {{recipient_name}} placeholder to match your relationship level",
		"Modify the tone to be more " + tone + " or formal based on your audience",
		"Add specific details relevant to your industry or situation",
		"Include relevant attachments or links in the body when needed",
	}

	lower := strings.ToLower(purpose)
	switch {
	case strings.Contains(lower, "meeting"):
		tips = append(tips,
			"Include specific agenda items relevant to your meeting",
			"Add calendar links or scheduling tools for convenience",
			"Specify time zone and duration expectations")
	case strings.Contains(lower, "follow"):
		tips = append(tips,
			"Reference specific previous conversations or commitments",
			"Include concrete next steps and timelines",
			"Mention any changed circumstances since last contact")
	case strings.Contains(lower, "proposal") || strings.Contains(lower, "sales"):
		tips = append(tips,
			"Customize value propositions to the recipient's specific needs",
			"Include relevant case studies or testimonials",
			"Add clear pricing and timeline information")
	}

	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}
	return tips
}

func countNonBlank(pieces []string) int {
	n := 0
	for _, p := range pieces {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// titleCase upper-cases the first letter of every word and lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
