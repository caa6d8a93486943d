package pipeline

import (
	"strings"
	"testing"

	"github.com/caresafe-ai/caresafe/internal/grounding"
	"github.com/caresafe-ai/caresafe/internal/patterns"
	"github.com/caresafe-ai/caresafe/internal/safety"
	"github.com/caresafe-ai/caresafe/internal/scan"
)

func newOrchestrator(t *testing.T, opts ...Option) (*Orchestrator, *patterns.Registry) {
	t.Helper()
	reg, err := patterns.New()
	if err != nil {
		t.Fatalf("patterns.New: %v", err)
	}
	o, err := New(reg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o, reg
}

func candidate(text string) safety.CandidateResponse {
	return safety.CandidateResponse{Text: text, Tag: safety.TagGeneralInformation}
}

func TestFilterPassesCleanText(t *testing.T) {
	o, _ := newOrchestrator(t)
	cases := []string{
		"Your documents list two appointments next month.",
		"Your records show your cholesterol was measured last spring.",
		"According to your visit summary, Dr. Chen reviewed the results on 2024-01-15.",
	}
	for _, text := range cases {
		out := o.Filter(candidate(text))
		if out.Decision != safety.DecisionPassed {
			t.Errorf("Filter(%q) = %s, want passed (violations: %+v)", text, out.Decision, out.Violations)
			continue
		}
		if out.Text != text {
			t.Errorf("passed text must be unchanged, got %q", out.Text)
		}
	}
}

func TestFilterIsIdempotentOnCleanText(t *testing.T) {
	o, _ := newOrchestrator(t)
	text := "Your records show your cholesterol was measured last spring."
	first := o.Filter(candidate(text))
	second := o.Filter(candidate(first.Text))
	if second.Decision != safety.DecisionPassed || second.Text != first.Text {
		t.Fatalf("second pass changed the text: %+v", second)
	}
}

func TestFilterBoundaryGateWinsOverCleanText(t *testing.T) {
	o, _ := newOrchestrator(t)
	cases := []safety.Tag{safety.TagOutOfBounds, safety.Tag("made_up"), ""}
	for _, tag := range cases {
		out := o.Filter(safety.CandidateResponse{
			Text: "Your documents list two appointments next month.",
			Tag:  tag,
		})
		if out.Decision != safety.DecisionBlocked {
			t.Errorf("tag %q: decision = %s, want blocked", tag, out.Decision)
			continue
		}
		if len(out.Violations) != 1 || out.Violations[0].Category != safety.CategoryBoundary {
			t.Errorf("tag %q: unexpected violations %+v", tag, out.Violations)
		}
		if out.Text != DefaultFallbacks().Generic {
			t.Errorf("tag %q: boundary block must use the generic fallback", tag)
		}
	}
}

func TestFilterRephrasesUngroundedClaim(t *testing.T) {
	o, reg := newOrchestrator(t)
	out := o.Filter(candidate("You have diabetes."))
	if out.Decision != safety.DecisionRephrased {
		t.Fatalf("decision = %s, want rephrased (violations: %+v)", out.Decision, out.Violations)
	}
	if !strings.Contains(out.Text, "documents") || !strings.Contains(out.Text, "mention") {
		t.Fatalf("rewritten text %q should attribute the claim to the documents", out.Text)
	}

	// The accepted text must itself scan clean on both layers.
	if vs := scan.New(reg).Scan(out.Text); len(vs) != 0 {
		t.Fatalf("rephrased text still trips the keyword layer: %+v", vs)
	}
	if vs := grounding.New(reg).Check(out.Text); len(vs) != 0 {
		t.Fatalf("rephrased text still trips the grounding layer: %+v", vs)
	}
}

func TestFilterRephrasedTextIsStable(t *testing.T) {
	o, _ := newOrchestrator(t)
	first := o.Filter(candidate("That reading is dangerous."))
	if first.Decision != safety.DecisionRephrased {
		t.Fatalf("decision = %s, want rephrased", first.Decision)
	}
	second := o.Filter(candidate(first.Text))
	if second.Decision != safety.DecisionPassed || second.Text != first.Text {
		t.Fatalf("accepted text must pass untouched on a second run: %+v", second)
	}
}

func TestFilterBlocksWhenRewriteReintroducesViolation(t *testing.T) {
	o, _ := newOrchestrator(t)

	// The instruction rewrite keeps the dosage phrase, so reverification
	// fails and the response blocks with the prescriptive fallback.
	out := o.Filter(candidate("You should take 20 mg of lisinopril."))
	if out.Decision != safety.DecisionBlocked {
		t.Fatalf("decision = %s, want blocked", out.Decision)
	}
	if out.Text != DefaultFallbacks().Prescriptive {
		t.Fatalf("blocked text %q, want the prescriptive fallback", out.Text)
	}
	if strings.Contains(out.Text, "lisinopril") || strings.Contains(out.Text, "20 mg") {
		t.Fatalf("fallback must not repeat blocked content: %q", out.Text)
	}
}

func TestFilterBlocksUnrewritableAlarm(t *testing.T) {
	reg, err := patterns.NewWithOverlay(patterns.Overlay{
		Alarm: []patterns.Def{{Name: "code_blue", Pattern: `\bcode blue\b`, Description: "site phrase"}},
	})
	if err != nil {
		t.Fatalf("NewWithOverlay: %v", err)
	}
	o, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out := o.Filter(candidate("This is a code blue."))
	if out.Decision != safety.DecisionBlocked {
		t.Fatalf("decision = %s, want blocked", out.Decision)
	}
	if out.Text != DefaultFallbacks().Alarm {
		t.Fatalf("blocked text %q, want the alarm fallback", out.Text)
	}
}

func TestFallbacksAreCalm(t *testing.T) {
	f := DefaultFallbacks()
	for name, msg := range map[string]string{
		"alarm":        f.Alarm,
		"prescriptive": f.Prescriptive,
		"diagnostic":   f.Diagnostic,
		"generic":      f.Generic,
	} {
		low := strings.ToLower(msg)
		for _, banned := range []string{"dangerous", "immediately", "emergency", "urgent"} {
			if strings.Contains(low, banned) {
				t.Errorf("%s fallback contains alarming word %q", name, banned)
			}
		}
		if !strings.Contains(low, "healthcare provider") && !strings.Contains(low, "documents") {
			t.Errorf("%s fallback should point at the provider or the documents: %q", name, msg)
		}
	}
}

func TestFallbackSelectPriority(t *testing.T) {
	f := DefaultFallbacks()
	alarm := safety.Violation{Category: safety.CategoryAlarm}
	prescriptive := safety.Violation{Category: safety.CategoryPrescriptive}
	diagnostic := safety.Violation{Category: safety.CategoryDiagnostic}
	ungrounded := safety.Violation{Category: safety.CategoryUngroundedClaim}

	cases := []struct {
		name string
		in   []safety.Violation
		want string
	}{
		{"alarm beats all", []safety.Violation{diagnostic, prescriptive, alarm}, f.Alarm},
		{"prescriptive beats diagnostic", []safety.Violation{diagnostic, prescriptive}, f.Prescriptive},
		{"diagnostic alone", []safety.Violation{diagnostic}, f.Diagnostic},
		{"ungrounded falls back to generic", []safety.Violation{ungrounded}, f.Generic},
		{"empty", nil, f.Generic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Select(tc.in); got != tc.want {
				t.Fatalf("Select = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWithFallbacksOverride(t *testing.T) {
	o, _ := newOrchestrator(t, WithFallbacks(Fallbacks{Generic: "custom message"}))
	if o.GenericFallback() != "custom message" {
		t.Fatalf("generic fallback not overridden: %q", o.GenericFallback())
	}
	out := o.Filter(safety.CandidateResponse{Text: "anything", Tag: safety.TagOutOfBounds})
	if out.Text != "custom message" {
		t.Fatalf("boundary block should use the override, got %q", out.Text)
	}
}

func TestFilterPassesThroughCitations(t *testing.T) {
	o, _ := newOrchestrator(t)
	resp := safety.CandidateResponse{
		Text:       "Your records show your cholesterol was measured last spring.",
		Tag:        safety.TagDocumentSummary,
		Citations:  []safety.Citation{{DocumentID: "doc-7", Title: "Cholesterol panel"}},
		Confidence: 0.93,
	}
	out := o.Filter(resp)
	if out.Decision != safety.DecisionPassed {
		t.Fatalf("decision = %s, want passed", out.Decision)
	}
	if len(out.Citations) != 1 || out.Citations[0].DocumentID != "doc-7" {
		t.Fatalf("citations not passed through: %+v", out.Citations)
	}
	if out.Confidence != 0.93 {
		t.Fatalf("confidence not passed through: %v", out.Confidence)
	}
}
