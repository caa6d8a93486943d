package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/caresafe-ai/caresafe/internal/audit"
	"github.com/caresafe-ai/caresafe/internal/safety"
	"github.com/caresafe-ai/caresafe/internal/sanitize"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func writeError(w http.ResponseWriter, status int, message, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Message: message, Type: kind}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "ok")
}

type filterRequest struct {
	RequestID string                   `json:"request_id,omitempty"`
	Candidate safety.CandidateResponse `json:"candidate"`
}

type filterResponse struct {
	RequestID string               `json:"request_id"`
	Outcome   safety.FilterOutcome `json:"outcome"`
}

// handleFilter runs the candidate a generation collaborator already
// produced through the full filter pass.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request")
		return
	}
	if !s.authorize(r) {
		writeError(w, http.StatusUnauthorized, "invalid or missing API key", "authentication_error")
		return
	}

	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request")
		return
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	start := time.Now()
	out := s.orch.Filter(req.Candidate)
	elapsed := time.Since(start)

	s.recordOutcome(r, requestID, out, 1, elapsed)
	writeJSON(w, http.StatusOK, filterResponse{RequestID: requestID, Outcome: out})
}

type sanitizeRequest struct {
	RequestID string `json:"request_id,omitempty"`
	Text      string `json:"text"`
}

type sanitizeResponse struct {
	RequestID string                  `json:"request_id"`
	Input     sanitize.SanitizedInput `json:"input"`
	Wrapped   string                  `json:"wrapped"`
}

// handleSanitize cleans raw user text for the prompt-construction
// collaborator and returns the fixed-tag wrapped form.
func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request")
		return
	}
	if !s.authorize(r) {
		writeError(w, http.StatusUnauthorized, "invalid or missing API key", "authentication_error")
		return
	}

	var req sanitizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request")
		return
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	start := time.Now()
	cleaned := s.sanitizer.Sanitize(req.Text)
	elapsed := time.Since(start)

	kinds := modificationKinds(cleaned)
	s.tel.RecordSanitization(r.Context(), kinds)
	if s.auditEnabled() {
		s.emitter.Emit(r.Context(), audit.BuildSanitizeEvent(requestID, kinds, elapsed))
	}

	writeJSON(w, http.StatusOK, sanitizeResponse{
		RequestID: requestID,
		Input:     cleaned,
		Wrapped:   sanitize.WrapForPrompt(cleaned),
	})
}

type chatRequest struct {
	RequestID string `json:"request_id,omitempty"`
	Query     string `json:"query"`
}

type chatResponse struct {
	RequestID string               `json:"request_id"`
	Outcome   safety.FilterOutcome `json:"outcome"`
	Attempts  int                  `json:"attempts"`
}

// handleChat runs the full path: sanitize the query, generate upstream,
// filter the candidate. A boundary failure triggers bounded regeneration;
// when the attempts run out the generic fallback sticks.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request")
		return
	}
	if !s.authorize(r) {
		writeError(w, http.StatusUnauthorized, "invalid or missing API key", "authentication_error")
		return
	}
	if s.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "no generator configured", "configuration_error")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request")
		return
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctx := r.Context()
	start := time.Now()

	cleaned := s.sanitizer.Sanitize(req.Query)
	s.tel.RecordSanitization(ctx, modificationKinds(cleaned))
	prompt := sanitize.WrapForPrompt(cleaned)

	maxAttempts := 1 + s.cfg.Filter.RegenerationAttempts
	var out safety.FilterOutcome
	attempts := 0
	for attempts < maxAttempts {
		attempts++
		cand, err := s.generator.Generate(ctx, prompt)
		if err != nil {
			// Fail closed: a generator error is a Blocked outcome, never a 500
			// with raw details.
			log.Warn().Err(err).Msg("generator call failed")
			out = safety.Blocked(s.orch.GenericFallback(), nil)
			break
		}
		out = s.orch.Filter(cand)
		if out.Decision == safety.DecisionBlocked && hasBoundary(out.Violations) && attempts < maxAttempts {
			s.tel.RecordRegeneration(ctx)
			continue
		}
		break
	}
	elapsed := time.Since(start)

	s.recordOutcome(r, requestID, out, attempts, elapsed)
	writeJSON(w, http.StatusOK, chatResponse{RequestID: requestID, Outcome: out, Attempts: attempts})
}

type statusResponse struct {
	Counts map[safety.Decision]uint64 `json:"counts"`
	Recent []outcomeSummary           `json:"recent"`
}

// handleStatus reports outcome counts and recent decision summaries.
// Nothing here ever contains candidate or user text.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request")
		return
	}
	if !s.authorize(r) {
		writeError(w, http.StatusUnauthorized, "invalid or missing API key", "authentication_error")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Counts: s.outcomes.Counts(),
		Recent: s.outcomes.Recent(20),
	})
}

func (s *Server) recordOutcome(r *http.Request, requestID string, out safety.FilterOutcome, attempts int, elapsed time.Duration) {
	s.outcomes.Record(out)
	s.tel.RecordOutcome(r.Context(), out, elapsed)
	if s.auditEnabled() {
		s.emitter.Emit(r.Context(), audit.BuildFilterEvent(requestID, out, attempts, elapsed))
	}
}

func (s *Server) auditEnabled() bool {
	return s.emitter != nil && s.cfg.Audit.Level != "off"
}

func hasBoundary(violations []safety.Violation) bool {
	for _, v := range violations {
		if v.Category == safety.CategoryBoundary {
			return true
		}
	}
	return false
}

func modificationKinds(in sanitize.SanitizedInput) []string {
	if len(in.Modifications) == 0 {
		return nil
	}
	kinds := make([]string, 0, len(in.Modifications))
	for _, m := range in.Modifications {
		kinds = append(kinds, m.Kind)
	}
	return kinds
}
