package generate

import (
	"context"
	"sync"

	"github.com/caresafe-ai/caresafe/internal/safety"
)

// Fake is a scripted Generator for tests. Each call returns the next queued
// response; the last one repeats once the script runs out.
type Fake struct {
	Responses []safety.CandidateResponse
	Err       error

	mu    sync.Mutex
	calls int
}

func NewFake(responses ...safety.CandidateResponse) *Fake {
	return &Fake{Responses: responses}
}

func (f *Fake) Generate(ctx context.Context, prompt string) (safety.CandidateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.Err != nil {
		return safety.CandidateResponse{}, f.Err
	}
	if len(f.Responses) == 0 {
		return safety.CandidateResponse{Tag: safety.TagGeneralInformation}, nil
	}
	idx := f.calls - 1
	if idx >= len(f.Responses) {
		idx = len(f.Responses) - 1
	}
	return f.Responses[idx], nil
}

// Calls reports how many times Generate ran.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
