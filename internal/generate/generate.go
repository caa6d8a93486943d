// Package generate defines the boundary to the upstream generation
// pipeline. The filter never computes candidate metadata itself; it receives
// a CandidateResponse that the generator already classified and cited.
package generate

import (
	"context"

	"github.com/caresafe-ai/caresafe/internal/safety"
)

// Generator produces one candidate response for a wrapped prompt.
// Implementations own retrieval, prompting, and the model call; the filter
// only ever sees the finished candidate.
type Generator interface {
	Generate(ctx context.Context, prompt string) (safety.CandidateResponse, error)
}
