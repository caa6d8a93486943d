package safety

// Tag is the generator's self-reported classification of its own output.
// Anything outside the allowed set is treated as TagOutOfBounds.
type Tag string

const (
	TagGeneralInformation Tag = "general_information"
	TagDocumentSummary    Tag = "document_summary"
	TagAppointmentSupport Tag = "appointment_support"
	TagClarification      Tag = "clarification"
	TagOutOfBounds        Tag = "out_of_bounds"
)

var allowedTags = map[Tag]struct{}{
	TagGeneralInformation: {},
	TagDocumentSummary:    {},
	TagAppointmentSupport: {},
	TagClarification:      {},
}

// InBounds reports whether the tag is one of the allowed safe-scope values.
// An unknown tag is out of bounds, not an error.
func (t Tag) InBounds() bool {
	_, ok := allowedTags[t]
	return ok
}
