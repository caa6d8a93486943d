// Package boundary implements the first filter layer: validation of the
// generator's self-reported scope tag. An out-of-bounds tag means the
// generator itself judged its output unsafe, so there is nothing to rewrite;
// the only remediation is regeneration upstream.
package boundary

import "github.com/caresafe-ai/caresafe/internal/safety"

// Validate returns nil for an in-bounds tag and a single boundary violation
// otherwise. The violation carries no span: the text is irrelevant once the
// generator has disclaimed it.
func Validate(resp safety.CandidateResponse) []safety.Violation {
	if resp.Tag.InBounds() {
		return nil
	}
	return []safety.Violation{{
		Layer:    safety.LayerBoundary,
		Category: safety.CategoryBoundary,
		Rule:     "scope_tag",
		Reason:   "generator classified its own output as outside the allowed scope",
	}}
}
