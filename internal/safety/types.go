package safety

// Category classifies the kind of unsafe language a detection layer found.
type Category string

const (
	CategoryDiagnostic      Category = "diagnostic"
	CategoryPrescriptive    Category = "prescriptive"
	CategoryAlarm           Category = "alarm"
	CategoryUngroundedClaim Category = "ungrounded_claim"
	CategoryBoundary        Category = "boundary_violation"
)

// Layer identifies which detection layer emitted a violation.
type Layer string

const (
	LayerBoundary  Layer = "boundary"
	LayerKeyword   Layer = "keyword"
	LayerGrounding Layer = "grounding"
)

// Span is a matched region of the candidate text, in byte offsets.
type Span struct {
	Text   string `json:"-"`
	Start  int    `json:"start"`
	Length int    `json:"length"`
}

// End returns the byte offset one past the last byte of the span.
func (s Span) End() int { return s.Start + s.Length }

// Contains reports whether s fully covers other.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && s.End() >= other.End()
}

// Violation is a single detection emitted by one of the filter layers.
// Reason is a fixed human-readable description of the rule that fired;
// it never quotes the matched text. The span text is kept in memory for
// the rephrase pass but is excluded from JSON so it cannot reach a sink.
type Violation struct {
	Layer    Layer    `json:"layer"`
	Category Category `json:"category"`
	Rule     string   `json:"rule"`
	Span     Span     `json:"span"`
	Reason   string   `json:"reason"`
}

// Citation is pass-through source metadata attached by the generator.
type Citation struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title,omitempty"`
	RecordDate string `json:"record_date,omitempty"`
}

// CandidateResponse is what the upstream generator hands the filter.
// It is treated as immutable once received.
type CandidateResponse struct {
	Text        string     `json:"text"`
	Tag         Tag        `json:"tag"`
	Citations   []Citation `json:"citations,omitempty"`
	Confidence  float32    `json:"confidence,omitempty"`
	QueryIntent string     `json:"query_intent,omitempty"`
}
