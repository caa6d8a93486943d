// Package pipeline sequences the three detection layers and the
// rewrite-then-reverify loop. The whole pass is a pure function of the
// candidate text and the immutable pattern registry; a single Orchestrator
// is safe for arbitrarily many concurrent callers.
package pipeline

import (
	"github.com/rs/zerolog/log"

	"github.com/caresafe-ai/caresafe/internal/boundary"
	"github.com/caresafe-ai/caresafe/internal/grounding"
	"github.com/caresafe-ai/caresafe/internal/patterns"
	"github.com/caresafe-ai/caresafe/internal/rephrase"
	"github.com/caresafe-ai/caresafe/internal/safety"
	"github.com/caresafe-ai/caresafe/internal/scan"
)

// Orchestrator owns the layer instances and fallback messages.
type Orchestrator struct {
	scanner   *scan.Scanner
	checker   *grounding.Checker
	rephraser *rephrase.Engine
	fallbacks Fallbacks
}

// Option adjusts orchestrator construction.
type Option func(*Orchestrator)

// WithFallbacks overrides individual fallback messages; empty fields keep
// the defaults.
func WithFallbacks(f Fallbacks) Option {
	return func(o *Orchestrator) { o.fallbacks = o.fallbacks.merge(f) }
}

// New wires the layers around a shared registry.
func New(reg *patterns.Registry, opts ...Option) (*Orchestrator, error) {
	eng, err := rephrase.New()
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{
		scanner:   scan.New(reg),
		checker:   grounding.New(reg),
		rephraser: eng,
		fallbacks: DefaultFallbacks(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// GenericFallback returns the message used when a response must be blocked
// for reasons other than a specific violation category (generator errors,
// exhausted regeneration attempts).
func (o *Orchestrator) GenericFallback() string {
	return o.fallbacks.Generic
}

// Filter runs the full pass and never lets an internal failure through as
// Passed: a panic anywhere below resolves to Blocked with the generic
// fallback.
func (o *Orchestrator) Filter(resp safety.CandidateResponse) (out safety.FilterOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("filter pass failed, blocking response")
			out = safety.Blocked(o.fallbacks.Generic, nil)
		}
	}()

	// Layer 1: an out-of-bounds self-classification cannot be rewritten.
	if vs := boundary.Validate(resp); len(vs) > 0 {
		return safety.Blocked(o.fallbacks.Generic, vs)
	}

	violations := o.detect(resp.Text)
	if len(violations) == 0 {
		return safety.Passed(resp)
	}

	rewritten, ok := o.rephraser.Rewrite(resp.Text, violations)
	if ok {
		// Trust nothing: the rewrite counts only if a full re-scan of the
		// new text is clean.
		if remaining := o.detect(rewritten); len(remaining) == 0 {
			return safety.Rephrased(resp, rewritten, violations)
		}
	}
	return safety.Blocked(o.fallbacks.Select(violations), violations)
}

// detect merges the keyword and grounding layers. The two are independent
// and order does not matter.
func (o *Orchestrator) detect(text string) []safety.Violation {
	violations := o.scanner.Scan(text)
	return append(violations, o.checker.Check(text)...)
}
