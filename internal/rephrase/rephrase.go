// Package rephrase applies deterministic pattern-to-template rewrites to
// violating spans. The pass is all-or-nothing: if any violation has no
// applicable rule the original text is returned untouched, because a
// partially fixed response is not an acceptable outcome.
package rephrase

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/caresafe-ai/caresafe/internal/safety"
)

type rule struct {
	name     string
	re       *regexp.Regexp
	template string
}

// Engine holds the compiled rewrite rules, keyed by violation category.
type Engine struct {
	rules map[safety.Category][]rule
}

// Categories every engine must carry rules for. A missing set is a
// construction-time error, not a silent no-op at rewrite time.
var rephrasable = []safety.Category{
	safety.CategoryDiagnostic,
	safety.CategoryPrescriptive,
	safety.CategoryAlarm,
	safety.CategoryUngroundedClaim,
}

// New compiles the rewrite rule set.
func New() (*Engine, error) {
	defs := ruleDefs()
	e := &Engine{rules: make(map[safety.Category][]rule, len(defs))}
	for cat, list := range defs {
		compiled := make([]rule, 0, len(list))
		for _, d := range list {
			re, err := regexp.Compile("(?i)" + d.Pattern)
			if err != nil {
				return nil, fmt.Errorf("rewrite rule %s/%s: %w", cat, d.Name, err)
			}
			compiled = append(compiled, rule{name: d.Name, re: re, template: d.Template})
		}
		e.rules[cat] = compiled
	}
	for _, cat := range rephrasable {
		if len(e.rules[cat]) == 0 {
			return nil, fmt.Errorf("no rewrite rules for category %s", cat)
		}
	}
	return e, nil
}

// Rewrite attempts one rewrite pass over the violating spans. Violations are
// processed in descending offset order so earlier replacements cannot shift
// later spans. When two violations cover overlapping text (the keyword and
// grounding layers can both flag the same phrase), the first rewrite covers
// both. Returns ok=false when any violation has no applicable rule or a span
// does not fit the text.
func (e *Engine) Rewrite(text string, violations []safety.Violation) (string, bool) {
	if len(violations) == 0 {
		return text, false
	}

	ordered := make([]safety.Violation, len(violations))
	copy(ordered, violations)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Span.Start > ordered[j].Span.Start
	})

	out := text
	var done []safety.Span
	for _, v := range ordered {
		if v.Span.Start < 0 || v.Span.End() > len(text) || v.Span.Length == 0 {
			return text, false
		}
		if overlapsAny(v.Span, done) {
			continue
		}
		segment := out[v.Span.Start:v.Span.End()]
		r, ok := e.match(v.Category, segment)
		if !ok {
			return text, false
		}
		out = out[:v.Span.Start] + r.re.ReplaceAllString(segment, r.template) + out[v.Span.End():]
		done = append(done, v.Span)
	}
	return out, true
}

func (e *Engine) match(cat safety.Category, segment string) (rule, bool) {
	for _, r := range e.rules[cat] {
		if r.re.MatchString(segment) {
			return r, true
		}
	}
	return rule{}, false
}

func overlapsAny(s safety.Span, spans []safety.Span) bool {
	for _, o := range spans {
		if s.Start < o.End() && o.Start < s.End() {
			return true
		}
	}
	return false
}
