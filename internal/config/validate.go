package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the loaded config for required fields and safe values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return errors.New("server.addr must be set")
	}

	if cfg.Filter.MaxInputLength < 1 {
		return errors.New("filter.max_input_length must be positive")
	}
	if cfg.Filter.RegenerationAttempts < 0 || cfg.Filter.RegenerationAttempts > 5 {
		return errors.New("filter.regeneration_attempts must be between 0 and 5")
	}

	switch cfg.Audit.Level {
	case "off", "decision":
	default:
		return fmt.Errorf("audit.level %q is not one of off, decision", cfg.Audit.Level)
	}
	if cfg.Audit.WebhookURL != "" {
		u, err := url.Parse(cfg.Audit.WebhookURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("audit.webhook_url %q is not a valid URL", cfg.Audit.WebhookURL)
		}
	}

	switch strings.ToLower(cfg.Telemetry.Protocol) {
	case "grpc", "http":
	default:
		return fmt.Errorf("telemetry.protocol %q is not one of grpc, http", cfg.Telemetry.Protocol)
	}
	if cfg.Telemetry.Enabled && strings.TrimSpace(cfg.Telemetry.Endpoint) == "" {
		return errors.New("telemetry.endpoint must be set when telemetry is enabled")
	}

	for _, key := range cfg.Auth.APIKeys {
		if strings.TrimSpace(key) == "" {
			return errors.New("auth.api_keys must not contain empty keys")
		}
	}

	return nil
}
