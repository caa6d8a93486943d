package safety

// Decision is the final disposition of a filtered response.
type Decision string

const (
	DecisionPassed    Decision = "passed"
	DecisionRephrased Decision = "rephrased"
	DecisionBlocked   Decision = "blocked"
)

// FilterOutcome is the unit returned to the caller. Exactly one of the
// three decisions applies:
//
//   - Passed: Text is the candidate text, byte-for-byte unchanged.
//   - Rephrased: Text is the rewritten text; Violations lists what was fixed.
//   - Blocked: Text is a calm fallback message; Violations lists what remained.
//
// Citations and Confidence are passed through untouched from the candidate.
type FilterOutcome struct {
	Decision   Decision    `json:"decision"`
	Text       string      `json:"text"`
	Violations []Violation `json:"violations,omitempty"`
	Citations  []Citation  `json:"citations,omitempty"`
	Confidence float32     `json:"confidence,omitempty"`
}

// Passed builds the unchanged-text outcome.
func Passed(resp CandidateResponse) FilterOutcome {
	return FilterOutcome{
		Decision:   DecisionPassed,
		Text:       resp.Text,
		Citations:  resp.Citations,
		Confidence: resp.Confidence,
	}
}

// Rephrased builds the rewritten-text outcome carrying the fixed violations.
func Rephrased(resp CandidateResponse, text string, fixed []Violation) FilterOutcome {
	return FilterOutcome{
		Decision:   DecisionRephrased,
		Text:       text,
		Violations: fixed,
		Citations:  resp.Citations,
		Confidence: resp.Confidence,
	}
}

// Blocked builds the fallback outcome carrying the remaining violations.
func Blocked(fallback string, remaining []Violation) FilterOutcome {
	return FilterOutcome{
		Decision:   DecisionBlocked,
		Text:       fallback,
		Violations: remaining,
	}
}

// Categories returns the distinct violation categories in the outcome,
// in first-seen order. Safe to log.
func (o FilterOutcome) Categories() []Category {
	var out []Category
	seen := make(map[Category]struct{}, len(o.Violations))
	for _, v := range o.Violations {
		if _, ok := seen[v.Category]; ok {
			continue
		}
		seen[v.Category] = struct{}{}
		out = append(out, v.Category)
	}
	return out
}

// Layers returns the distinct layers that contributed violations,
// in first-seen order. Safe to log.
func (o FilterOutcome) Layers() []Layer {
	var out []Layer
	seen := make(map[Layer]struct{}, len(o.Violations))
	for _, v := range o.Violations {
		if _, ok := seen[v.Layer]; ok {
			continue
		}
		seen[v.Layer] = struct{}{}
		out = append(out, v.Layer)
	}
	return out
}
