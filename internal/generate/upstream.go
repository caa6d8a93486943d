package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/caresafe-ai/caresafe/internal/safety"
)

// upstream implements Generator against the generation service's HTTP API.
type upstream struct {
	baseURL          string
	apiKey           string
	client           *http.Client
	maxResponseBytes int64
}

// NewUpstream creates a Generator that POSTs to baseURL + /v1/generate.
func NewUpstream(baseURL, apiKey string, timeout time.Duration, maxResponseBytes int64) Generator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if maxResponseBytes <= 0 {
		maxResponseBytes = 4 * 1024 * 1024
	}
	return &upstream{
		baseURL:          baseURL,
		apiKey:           apiKey,
		maxResponseBytes: maxResponseBytes,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text        string            `json:"text"`
	Tag         string            `json:"tag"`
	Citations   []safety.Citation `json:"citations,omitempty"`
	Confidence  float32           `json:"confidence,omitempty"`
	QueryIntent string            `json:"query_intent,omitempty"`
}

type upstreamError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (u *upstream) Generate(ctx context.Context, prompt string) (safety.CandidateResponse, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return safety.CandidateResponse{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return safety.CandidateResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return safety.CandidateResponse{}, fmt.Errorf("call generator: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, u.maxResponseBytes))
	if err != nil {
		return safety.CandidateResponse{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ue upstreamError
		if err := json.Unmarshal(data, &ue); err == nil && ue.Error.Message != "" {
			return safety.CandidateResponse{}, fmt.Errorf("generator status %d: %s", resp.StatusCode, ue.Error.Type)
		}
		return safety.CandidateResponse{}, fmt.Errorf("generator status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return safety.CandidateResponse{}, fmt.Errorf("decode response: %w", err)
	}

	return safety.CandidateResponse{
		Text:        gr.Text,
		Tag:         safety.Tag(gr.Tag),
		Citations:   gr.Citations,
		Confidence:  gr.Confidence,
		QueryIntent: gr.QueryIntent,
	}, nil
}
