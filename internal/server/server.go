// Package server exposes the filter over HTTP for the generation and
// display collaborators. Handlers return outcome payloads that carry only
// safe text, decisions, and violation metadata; the route layer cannot see
// into the pattern internals.
package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/caresafe-ai/caresafe/internal/audit"
	"github.com/caresafe-ai/caresafe/internal/config"
	"github.com/caresafe-ai/caresafe/internal/generate"
	"github.com/caresafe-ai/caresafe/internal/pipeline"
	"github.com/caresafe-ai/caresafe/internal/sanitize"
	"github.com/caresafe-ai/caresafe/internal/telemetry"
)

// Server wraps the HTTP components.
type Server struct {
	mux       *http.ServeMux
	cfg       *config.Config
	keys      map[string]struct{}
	orch      *pipeline.Orchestrator
	sanitizer *sanitize.Sanitizer
	generator generate.Generator
	emitter   *audit.Emitter
	tel       *telemetry.Provider
	outcomes  *outcomeStore
}

// New assembles the server. The generator may be nil, in which case the
// /v1/chat route responds 503 and the filter/sanitize routes still work.
func New(cfg *config.Config, orch *pipeline.Orchestrator, sanitizer *sanitize.Sanitizer, gen generate.Generator, emitter *audit.Emitter, tel *telemetry.Provider) *Server {
	keys := make(map[string]struct{}, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		keys[k] = struct{}{}
	}

	s := &Server{
		mux:       http.NewServeMux(),
		cfg:       cfg,
		keys:      keys,
		orch:      orch,
		sanitizer: sanitizer,
		generator: gen,
		emitter:   emitter,
		tel:       tel,
		outcomes:  newOutcomeStore(256),
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/filter", s.handleFilter)
	s.mux.HandleFunc("/v1/sanitize", s.handleSanitize)
	s.mux.HandleFunc("/v1/chat", s.handleChat)
	s.mux.HandleFunc("/v1/status", s.handleStatus)

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.mux }

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("caresafe listening")
	return srv.ListenAndServe()
}
