package server

import (
	"sync"
	"time"

	"github.com/caresafe-ai/caresafe/internal/safety"
)

// outcomeStore keeps a bounded ring of recent decision summaries for the
// status endpoint. Summaries hold decisions and categories only; no text.
type outcomeStore struct {
	mu      sync.Mutex
	ring    []outcomeSummary
	next    int
	filled  bool
	decided map[safety.Decision]uint64
}

type outcomeSummary struct {
	Decision   safety.Decision   `json:"decision"`
	Categories []safety.Category `json:"categories,omitempty"`
	At         time.Time         `json:"at"`
}

func newOutcomeStore(size int) *outcomeStore {
	if size <= 0 {
		size = 256
	}
	return &outcomeStore{
		ring:    make([]outcomeSummary, size),
		decided: make(map[safety.Decision]uint64, 3),
	}
}

func (s *outcomeStore) Record(out safety.FilterOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring[s.next] = outcomeSummary{
		Decision:   out.Decision,
		Categories: out.Categories(),
		At:         time.Now().UTC(),
	}
	s.next = (s.next + 1) % len(s.ring)
	if s.next == 0 {
		s.filled = true
	}
	s.decided[out.Decision]++
}

// Counts returns total outcomes per decision since startup.
func (s *outcomeStore) Counts() map[safety.Decision]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[safety.Decision]uint64, len(s.decided))
	for k, v := range s.decided {
		out[k] = v
	}
	return out
}

// Recent returns up to n most recent summaries, newest first.
func (s *outcomeStore) Recent(n int) []outcomeSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := s.next
	if s.filled {
		total = len(s.ring)
	}
	if n > total {
		n = total
	}
	out := make([]outcomeSummary, 0, n)
	for i := 0; i < n; i++ {
		idx := (s.next - 1 - i + len(s.ring)) % len(s.ring)
		out = append(out, s.ring[idx])
	}
	return out
}
