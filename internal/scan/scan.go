// Package scan implements the second filter layer: a flat regex sweep for
// diagnostic, prescriptive, and alarm language. It has no notion of sentence
// structure; overlapping matches are collapsed so one phrase yields one
// violation.
package scan

import (
	"sort"

	"github.com/caresafe-ai/caresafe/internal/patterns"
	"github.com/caresafe-ai/caresafe/internal/safety"
)

// Scanner scans candidate text against the keyword pattern groups.
type Scanner struct {
	reg *patterns.Registry
}

func New(reg *patterns.Registry) *Scanner {
	return &Scanner{reg: reg}
}

type match struct {
	span safety.Span
	pat  *patterns.Pattern
}

// Scan collects all matches across the diagnostic, prescriptive, and alarm
// groups, then deduplicates by interval containment: matches are sorted by
// (start ascending, length descending) and any span fully contained in an
// already kept span is dropped. The longest, most specific match wins.
func (s *Scanner) Scan(text string) []safety.Violation {
	var found []match
	for _, group := range s.reg.Keyword() {
		for i := range group {
			p := &group[i]
			for _, sp := range p.FindAll(text) {
				found = append(found, match{span: sp, pat: p})
			}
		}
	}
	if len(found) == 0 {
		return nil
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].span.Start != found[j].span.Start {
			return found[i].span.Start < found[j].span.Start
		}
		return found[i].span.Length > found[j].span.Length
	})

	var kept []match
	for _, m := range found {
		contained := false
		for _, k := range kept {
			if k.span.Contains(m.span) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, m)
		}
	}

	out := make([]safety.Violation, 0, len(kept))
	for _, m := range kept {
		out = append(out, safety.Violation{
			Layer:    safety.LayerKeyword,
			Category: m.pat.Category,
			Rule:     m.pat.Name,
			Span:     m.span,
			Reason:   m.pat.Description,
		})
	}
	return out
}
