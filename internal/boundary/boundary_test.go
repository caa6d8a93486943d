package boundary

import (
	"testing"

	"github.com/caresafe-ai/caresafe/internal/safety"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		tag  safety.Tag
		want int
	}{
		{"general information", safety.TagGeneralInformation, 0},
		{"document summary", safety.TagDocumentSummary, 0},
		{"appointment support", safety.TagAppointmentSupport, 0},
		{"clarification", safety.TagClarification, 0},
		{"out of bounds", safety.TagOutOfBounds, 1},
		{"unknown tag", safety.Tag("diagnosis"), 1},
		{"empty tag", safety.Tag(""), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Validate(safety.CandidateResponse{Text: "anything", Tag: tc.tag})
			if len(got) != tc.want {
				t.Fatalf("Validate = %d violations, want %d", len(got), tc.want)
			}
			if tc.want == 1 {
				v := got[0]
				if v.Layer != safety.LayerBoundary || v.Category != safety.CategoryBoundary {
					t.Fatalf("unexpected violation: %+v", v)
				}
				if v.Span.Length != 0 {
					t.Fatal("boundary violations must not carry a span")
				}
			}
		})
	}
}
