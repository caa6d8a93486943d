package grounding

import (
	"testing"

	"github.com/caresafe-ai/caresafe/internal/patterns"
	"github.com/caresafe-ai/caresafe/internal/safety"
)

func newChecker(t *testing.T) *Checker {
	t.Helper()
	reg, err := patterns.New()
	if err != nil {
		t.Fatalf("patterns.New: %v", err)
	}
	return New(reg)
}

func TestCheckUngroundedClaim(t *testing.T) {
	c := newChecker(t)
	got := c.Check("You have hypertension.")
	if len(got) == 0 {
		t.Fatal("bare health assertion must produce a violation")
	}
	v := got[0]
	if v.Layer != safety.LayerGrounding || v.Category != safety.CategoryUngroundedClaim {
		t.Fatalf("unexpected violation: %+v", v)
	}
}

func TestCheckGroundedClaimPasses(t *testing.T) {
	c := newChecker(t)
	cases := []string{
		"Your documents show that Dr. Chen diagnosed hypertension on 2024-01-15.",
		"Your records show you have hypertension.",
		"According to your visit summary, your cholesterol was elevated.",
		"Your potassium level was low [2].",
	}
	for _, text := range cases {
		if got := c.Check(text); len(got) != 0 {
			t.Errorf("Check(%q) = %d violations, want 0", text, len(got))
		}
	}
}

func TestCheckAttributionIsSentenceScoped(t *testing.T) {
	c := newChecker(t)

	// The attribution lives in the second sentence; it does not cover the
	// claim in the first.
	got := c.Check("You have hypertension. Your records show the reading.")
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %d: %+v", len(got), got)
	}
	if got[0].Span.Start != 0 {
		t.Fatalf("violation should point at the first sentence, got start %d", got[0].Span.Start)
	}
}

func TestCheckSpanOffsetsAgainstFullText(t *testing.T) {
	c := newChecker(t)
	text := "The clinic called back. You have hypertension and should rest."
	got := c.Check(text)
	if len(got) == 0 {
		t.Fatal("expected a violation in the second sentence")
	}
	for _, v := range got {
		if text[v.Span.Start:v.Span.End()] != v.Span.Text {
			t.Fatalf("span %+v does not locate its text in the full input", v.Span)
		}
	}
}

func TestCheckContainmentDedupWithinSentence(t *testing.T) {
	c := newChecker(t)

	// you_diagnosed and you_have both fire on this phrasing; the contained
	// span is dropped.
	got := c.Check("You have been diagnosed with atrial fibrillation.")
	if len(got) != 1 {
		t.Fatalf("want 1 violation after dedup, got %d: %+v", len(got), got)
	}
}

func TestCheckMetricLevel(t *testing.T) {
	c := newChecker(t)
	cases := []struct {
		text string
		want int
	}{
		{"Your cholesterol is high.", 1},
		{"Your iron levels are too low.", 1},
		{"Your records show your cholesterol is high.", 0},
		{"Your next appointment is on Monday.", 0},
	}
	for _, tc := range cases {
		if got := c.Check(tc.text); len(got) != tc.want {
			t.Errorf("Check(%q) = %d violations, want %d", tc.text, len(got), tc.want)
		}
	}
}
