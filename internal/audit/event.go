// Package audit emits per-request decision events to configurable sinks.
// Events carry categories, layers, decisions, and timings only; the event
// type has no field that could hold candidate text, matched spans, or user
// input.
package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/caresafe-ai/caresafe/internal/safety"
)

// Path distinguishes the two call paths that produce events.
const (
	PathFilter   = "filter"
	PathSanitize = "sanitize"
)

// Event is the canonical audit payload.
type Event struct {
	Version    string    `json:"version"`
	Timestamp  time.Time `json:"timestamp"`
	EventID    string    `json:"event_id"`
	RequestID  string    `json:"request_id,omitempty"`
	Path       string    `json:"path"`
	Decision   string    `json:"decision,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Layers     []string  `json:"layers,omitempty"`
	Violations int       `json:"violations,omitempty"`
	ModKinds   []string  `json:"modification_kinds,omitempty"`
	Attempts   int       `json:"attempts,omitempty"`
	LatencyMs  float64   `json:"latency_ms"`
}

// wellFormed reports whether the event has the fields every record in a
// sink must carry. Events built by hand that miss them are refused at the
// emitter rather than written as partial records.
func (ev *Event) wellFormed() bool {
	if ev.Version == "" || ev.EventID == "" || ev.Timestamp.IsZero() {
		return false
	}
	return ev.Path == PathFilter || ev.Path == PathSanitize
}

// BuildFilterEvent assembles an audit event from a filter outcome.
func BuildFilterEvent(requestID string, out safety.FilterOutcome, attempts int, elapsed time.Duration) *Event {
	ev := &Event{
		Version:    "1",
		Timestamp:  time.Now().UTC(),
		EventID:    uuid.NewString(),
		RequestID:  requestID,
		Path:       PathFilter,
		Decision:   string(out.Decision),
		Violations: len(out.Violations),
		Attempts:   attempts,
		LatencyMs:  float64(elapsed) / float64(time.Millisecond),
	}
	for _, c := range out.Categories() {
		ev.Categories = append(ev.Categories, string(c))
	}
	for _, l := range out.Layers() {
		ev.Layers = append(ev.Layers, string(l))
	}
	return ev
}

// BuildSanitizeEvent assembles an audit event from sanitizer modification
// kinds. The kinds are fixed identifiers, never content.
func BuildSanitizeEvent(requestID string, kinds []string, elapsed time.Duration) *Event {
	return &Event{
		Version:   "1",
		Timestamp: time.Now().UTC(),
		EventID:   uuid.NewString(),
		RequestID: requestID,
		Path:      PathSanitize,
		ModKinds:  kinds,
		LatencyMs: float64(elapsed) / float64(time.Millisecond),
	}
}
