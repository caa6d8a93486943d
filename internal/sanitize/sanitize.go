// Package sanitize cleans raw user text before it is embedded in a
// generation prompt. This is the input-side call path; it shares only the
// pattern registry with the response filter. Every change is recorded as a
// kind plus description, never the removed substring, so the pipeline stays
// auditable without user content reaching a log sink.
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/caresafe-ai/caresafe/internal/patterns"
)

// RedactionMarker replaces detected prompt-injection phrases.
const RedactionMarker = "[filtered]"

// DefaultMaxLength is the rune budget when no limit is configured.
const DefaultMaxLength = 2000

// Modification kinds, stable for audit sinks.
const (
	ModInvisibleStripped = "invisible_stripped"
	ModControlStripped   = "control_stripped"
	ModInjectionFiltered = "injection_filtered"
	ModTruncated         = "truncated"
)

// Modification records one sanitization step that changed the text.
type Modification struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// SanitizedInput is the cleaned text plus its audit trail.
type SanitizedInput struct {
	Text          string         `json:"text"`
	Modified      bool           `json:"modified"`
	Modifications []Modification `json:"modifications,omitempty"`
}

// Sanitizer applies the fixed four-step cleaning pass.
type Sanitizer struct {
	injection []patterns.Pattern
	maxLength int
}

func New(reg *patterns.Registry, maxLength int) *Sanitizer {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Sanitizer{injection: reg.Injection, maxLength: maxLength}
}

// Sanitize runs the steps in fixed order: invisible code points, control
// characters, injection phrases, truncation. Identical input always yields
// identical output.
func (s *Sanitizer) Sanitize(raw string) SanitizedInput {
	out := SanitizedInput{Text: raw}

	if cleaned := stripInvisible(out.Text); cleaned != out.Text {
		out.Text = cleaned
		out.record(ModInvisibleStripped, "removed invisible, zero-width, or bidi-control code points")
	}
	if cleaned := stripControl(out.Text); cleaned != out.Text {
		out.Text = cleaned
		out.record(ModControlStripped, "removed control characters other than newline and tab")
	}
	for i := range s.injection {
		p := &s.injection[i]
		if cleaned, changed := p.Redact(out.Text, RedactionMarker); changed {
			out.Text = cleaned
			out.record(ModInjectionFiltered, "redacted prompt-injection phrasing: "+p.Name)
		}
	}
	if truncated := truncateAtWord(out.Text, s.maxLength); truncated != out.Text {
		out.Text = truncated
		out.record(ModTruncated, "truncated to the configured maximum length at a word boundary")
	}
	return out
}

func (in *SanitizedInput) record(kind, description string) {
	in.Modified = true
	in.Modifications = append(in.Modifications, Modification{Kind: kind, Description: description})
}

// stripInvisible removes every format-class (Cf) code point. The class
// covers all the invisible characters an injection can hide behind,
// including:
//
//	U+00AD soft hyphen
//	U+061C arabic letter mark
//	U+200B..U+200F zero-width space, non-joiner, joiner, LRM, RLM
//	U+202A..U+202E bidi embedding and override controls
//	U+2060 word joiner
//	U+2066..U+2069 bidi isolate controls
//	U+FEFF zero-width no-break space (BOM)
func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// truncateAtWord cuts s to at most max runes, backing up to the last
// whitespace so a word is never split. A single over-long token is hard cut.
func truncateAtWord(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	byteLimit := 0
	for n := 0; byteLimit < len(s) && n < max; n++ {
		_, size := utf8.DecodeRuneInString(s[byteLimit:])
		byteLimit += size
	}
	cut := strings.LastIndexFunc(s[:byteLimit], unicode.IsSpace)
	if cut <= 0 {
		cut = byteLimit
	}
	return strings.TrimRightFunc(s[:cut], unicode.IsSpace)
}
