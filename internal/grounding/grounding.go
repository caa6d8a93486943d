// Package grounding implements the third filter layer. A claim about the
// user's health is safe only when the same sentence attributes it to a
// source: the user's documents, a named professional, a citation marker, or
// a dated record. "Your records show you have hypertension" passes; the same
// words stated as direct fact do not.
package grounding

import (
	"sort"

	"github.com/caresafe-ai/caresafe/internal/patterns"
	"github.com/caresafe-ai/caresafe/internal/safety"
)

// Checker runs the sentence-scoped co-occurrence check.
type Checker struct {
	reg *patterns.Registry
}

func New(reg *patterns.Registry) *Checker {
	return &Checker{reg: reg}
}

// Check splits text into sentences and emits a violation for every
// ungrounded-claim match in a sentence that contains no grounding
// attribution. Overlapping matches within a sentence collapse to the
// longest span.
func (c *Checker) Check(text string) []safety.Violation {
	var out []safety.Violation
	for _, sent := range Split(text) {
		matches := c.ungroundedMatches(sent.Text)
		if len(matches) == 0 {
			continue
		}
		if c.grounded(sent.Text) {
			continue
		}
		for _, m := range matches {
			sp := m.span
			sp.Start += sent.Start
			out = append(out, safety.Violation{
				Layer:    safety.LayerGrounding,
				Category: safety.CategoryUngroundedClaim,
				Rule:     m.pat.Name,
				Span:     sp,
				Reason:   m.pat.Description + " without attribution in the same sentence",
			})
		}
	}
	return out
}

type sentenceMatch struct {
	span safety.Span
	pat  *patterns.Pattern
}

func (c *Checker) ungroundedMatches(sentence string) []sentenceMatch {
	var found []sentenceMatch
	for i := range c.reg.Ungrounded {
		p := &c.reg.Ungrounded[i]
		for _, sp := range p.FindAll(sentence) {
			found = append(found, sentenceMatch{span: sp, pat: p})
		}
	}
	if len(found) < 2 {
		return found
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].span.Start != found[j].span.Start {
			return found[i].span.Start < found[j].span.Start
		}
		return found[i].span.Length > found[j].span.Length
	})
	var kept []sentenceMatch
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
	return kept
}

func (c *Checker) grounded(sentence string) bool {
	for i := range c.reg.Grounded {
		if c.reg.Grounded[i].Match(sentence) {
			return true
		}
	}
	return false
}
