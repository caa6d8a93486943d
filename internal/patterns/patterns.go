package patterns

import (
	"fmt"
	"regexp"

	"github.com/caresafe-ai/caresafe/internal/safety"
)

// Def is an uncompiled pattern definition. Patterns are matched
// case-insensitively; word anchoring is part of the expression itself.
type Def struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category,omitempty"`
	Description string `yaml:"description"`
	Pattern     string `yaml:"pattern"`
}

// Pattern is a compiled matcher plus its metadata. Built once at registry
// construction and never mutated afterwards.
type Pattern struct {
	Name        string
	Category    safety.Category
	Description string
	re          *regexp.Regexp
}

// Match reports whether the pattern occurs anywhere in text.
func (p *Pattern) Match(text string) bool {
	return p.re.MatchString(text)
}

// Redact replaces every occurrence of the pattern with marker and reports
// whether anything changed.
func (p *Pattern) Redact(text, marker string) (string, bool) {
	if !p.re.MatchString(text) {
		return text, false
	}
	return p.re.ReplaceAllString(text, marker), true
}

// FindAll returns every occurrence of the pattern in text as byte spans.
func (p *Pattern) FindAll(text string) []safety.Span {
	idx := p.re.FindAllStringIndex(text, -1)
	if len(idx) == 0 {
		return nil
	}
	out := make([]safety.Span, 0, len(idx))
	for _, pair := range idx {
		out = append(out, safety.Span{
			Text:   text[pair[0]:pair[1]],
			Start:  pair[0],
			Length: pair[1] - pair[0],
		})
	}
	return out
}

func compile(group string, category safety.Category, defs []Def) ([]Pattern, error) {
	out := make([]Pattern, 0, len(defs))
	for _, d := range defs {
		re, err := regexp.Compile("(?i)" + d.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern group %s, rule %q: %w", group, d.Name, err)
		}
		out = append(out, Pattern{
			Name:        d.Name,
			Category:    category,
			Description: d.Description,
			re:          re,
		})
	}
	return out, nil
}
