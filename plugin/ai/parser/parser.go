// Package parser extracts structured fields from raw model output.
//
// JSON tasks go through bounded preprocessing (trim, strip one fence) and a
// strict decode. Anything that fails to decode is a parse error; there is no
// repair of broken JSON. A decoded object is always completed to its schema.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/hrygo/mailmind/internal/aierr"
	"github.com/hrygo/mailmind/plugin/ai"
)

const maxSubjectRunes = ai.MaxSubjectRunes

const fence = "```"

// Parsed holds the schema-complete output of one model response.
type Parsed struct {
	Task ai.TaskType
	// Missing lists schema keys that were absent, null or of the wrong type
	// and received their default.
	Missing []string

	values map[string]any

	// Free-text tasks.
	Subject            string
	Body               string
	SubjectSynthesized bool
}

// Has reports whether key came from the model rather than from a default.
func (p *Parsed) Has(key string) bool {
	return !slices.Contains(p.Missing, key)
}

// String returns a string field.
func (p *Parsed) String(key string) string {
	s, _ := p.values[key].(string)
	return s
}

// Number returns a numeric field.
func (p *Parsed) Number(key string) float64 {
	f, _ := p.values[key].(float64)
	return f
}

// List returns a list field.
func (p *Parsed) List(key string) []string {
	l, _ := p.values[key].([]string)
	return slices.Clone(l)
}

// Bool returns a boolean field.
func (p *Parsed) Bool(key string) bool {
	b, _ := p.values[key].(bool)
	return b
}

// Parse parses raw model output for task. original is the caller's input and
// is only used to synthesize a subject for free-text tasks.
func Parse(task ai.TaskType, raw, original string) (*Parsed, error) {
	if task.ExpectsJSON() {
		return ParseJSON(task, raw)
	}
	return ParseText(task, raw, original)
}

// StripFence removes one surrounding markdown code fence, with or without a
// language tag, when both the opening and the closing marker are present.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2*len(fence) || !strings.HasPrefix(s, fence) || !strings.HasSuffix(s, fence) {
		return s
	}

	inner := s[len(fence) : len(s)-len(fence)]
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 && isLanguageTag(inner[:nl]) {
		inner = inner[nl+1:]
	} else if tag := leadingTag(inner); tag != "" {
		if rest := strings.TrimLeft(strings.TrimPrefix(inner, tag), " "); strings.HasPrefix(rest, "{") {
			inner = rest
		}
	}
	return strings.TrimSpace(inner)
}

func isLanguageTag(s string) bool {
	s = strings.TrimSpace(s)
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

func leadingTag(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if end <= 0 {
		return ""
	}
	return s[:end]
}

// ParseJSON decodes a JSON object and completes it to the schema of task.
func ParseJSON(task ai.TaskType, raw string) (*Parsed, error) {
	cleaned := StripFence(raw)
	if cleaned == "" {
		return nil, aierr.Parse("empty model response", nil)
	}

	obj, err := decodeObject(cleaned)
	if err != nil {
		return nil, aierr.Parse(fmt.Sprintf("invalid %s response", task), err)
	}

	p := &Parsed{Task: task, values: make(map[string]any)}
	for _, f := range schemas[task] {
		v, ok := coerce(lookup(obj, f.Key), f.Kind)
		if !ok {
			v = cloneDefault(f.Default)
			p.Missing = append(p.Missing, f.Key)
		}
		p.values[f.Key] = v
	}
	return p, nil
}

func decodeObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %T", v)
	}
	return obj, nil
}

func lookup(obj map[string]any, path string) any {
	var cur any = obj
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
	}
	return cur
}

// coerce converts a decoded value to kind. Blank strings and empty lists count
// as missing.
func coerce(v any, kind fieldKind) (any, bool) {
	switch kind {
	case kindString:
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, false
		}
		return s, true

	case kindNumber:
		switch n := v.(type) {
		case json.Number:
			f, err := n.Float64()
			return f, err == nil && isFinite(f)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			return f, err == nil && isFinite(f)
		}
		return nil, false

	case kindList:
		var out []string
		switch l := v.(type) {
		case []any:
			for _, item := range l {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, s)
				}
			}
		case string:
			if strings.TrimSpace(l) != "" {
				out = []string{l}
			}
		}
		return out, len(out) > 0

	case kindBool:
		switch b := v.(type) {
		case bool:
			return b, true
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(b))
			return parsed, err == nil
		}
		return nil, false
	}
	return nil, false
}

// isFinite rejects NaN and infinities, which cannot be encoded as JSON.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func cloneDefault(v any) any {
	if l, ok := v.([]string); ok {
		return slices.Clone(l)
	}
	return v
}

// ParseText extracts a subject line and body from free-text output. The first
// line starting with "Subject:" is the subject; every other non-blank line is
// body, in order. Without a subject line one is synthesized from original.
// Output with no body lines is a parse error.
func ParseText(task ai.TaskType, raw, original string) (*Parsed, error) {
	cleaned := StripFence(raw)
	if cleaned == "" {
		return nil, aierr.Parse("empty model response", nil)
	}

	p := &Parsed{Task: task}
	found := false
	var body []string
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "Subject:") {
			if !found {
				p.Subject = strings.TrimSpace(strings.TrimPrefix(line, "Subject:"))
				found = true
			}
			continue
		}
		if strings.TrimSpace(line) != "" {
			body = append(body, line)
		}
	}

	p.Body = strings.TrimSpace(strings.Join(body, "\n"))
	if p.Body == "" {
		return nil, aierr.Parse("empty model response body", nil)
	}

	if !found || p.Subject == "" {
		p.Subject = SynthesizeSubject(original)
		p.SubjectSynthesized = true
	}
	return p, nil
}

// SynthesizeSubject returns "Re: " plus the truncated first line of original.
func SynthesizeSubject(original string) string {
	return ai.ReplySubject(original)
}
