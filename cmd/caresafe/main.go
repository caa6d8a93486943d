package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/caresafe-ai/caresafe/internal/audit"
	"github.com/caresafe-ai/caresafe/internal/config"
	"github.com/caresafe-ai/caresafe/internal/generate"
	"github.com/caresafe-ai/caresafe/internal/patterns"
	"github.com/caresafe-ai/caresafe/internal/pipeline"
	"github.com/caresafe-ai/caresafe/internal/sanitize"
	"github.com/caresafe-ai/caresafe/internal/server"
	"github.com/caresafe-ai/caresafe/internal/telemetry"
)

const version = "0.3.0"

func main() {
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides config)")
	configPath := flag.String("config", "caresafe.yaml", "Path to CareSafe config file")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	// A registry that fails to build must stop the process.
	overlay, err := patterns.LoadOverlay(cfg.Filter.PatternOverlay)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load pattern overlay")
	}
	reg, err := patterns.NewWithOverlay(overlay)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build pattern registry")
	}

	orch, err := pipeline.New(reg, pipeline.WithFallbacks(pipeline.Fallbacks{
		Alarm:        cfg.Filter.Fallbacks.Alarm,
		Prescriptive: cfg.Filter.Fallbacks.Prescriptive,
		Diagnostic:   cfg.Filter.Fallbacks.Diagnostic,
		Generic:      cfg.Filter.Fallbacks.Generic,
	}))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build filter pipeline")
	}
	sanitizer := sanitize.New(reg, cfg.Filter.MaxInputLength)

	ctx := context.Background()
	tel, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
		Protocol: cfg.Telemetry.Protocol,
		Service:  "caresafe",
		Version:  version,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up telemetry")
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown error")
		}
	}()

	var sinks []audit.Sink
	if cfg.Audit.Level != "off" {
		if cfg.Audit.File != "" {
			fs, err := audit.NewFileSink(cfg.Audit.File)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to open audit file sink")
			}
			sinks = append(sinks, fs)
		}
		if cfg.Audit.WebhookURL != "" {
			ws, err := audit.NewWebhookSink(cfg.Audit.WebhookURL, nil, time.Duration(cfg.Audit.WebhookTimeoutMS)*time.Millisecond)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to set up audit webhook sink")
			}
			sinks = append(sinks, ws)
		}
	}
	emitter := audit.NewEmitter(audit.EmitterConfig{}, sinks)
	defer emitter.Close(context.Background())

	var gen generate.Generator
	if base := strings.TrimSpace(os.Getenv("CARESAFE_GENERATOR_URL")); base != "" {
		gen = generate.NewUpstream(base, os.Getenv("CARESAFE_GENERATOR_KEY"), 60*time.Second, 0)
	} else {
		log.Warn().Msg("CARESAFE_GENERATOR_URL not set; /v1/chat disabled")
	}

	addr := cfg.Server.Addr
	if *addrFlag != "" {
		addr = *addrFlag
	}

	srv := server.New(cfg, orch, sanitizer, gen, emitter, tel)
	if err := srv.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
