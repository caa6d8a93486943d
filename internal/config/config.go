package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds CareSafe configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Filter    FilterConfig    `yaml:"filter"`
	Auth      AuthConfig      `yaml:"auth"`
	Audit     AuditConfig     `yaml:"audit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"` // HTTP listen address, e.g. ":8080"
}

type FilterConfig struct {
	MaxInputLength       int             `yaml:"max_input_length"`      // rune budget for sanitized queries
	RegenerationAttempts int             `yaml:"regeneration_attempts"` // retries on boundary failures before the fallback sticks
	PatternOverlay       string          `yaml:"pattern_overlay"`       // optional YAML file with site-local patterns
	Fallbacks            FallbacksConfig `yaml:"fallbacks"`
}

// FallbacksConfig overrides the stock fallback messages per category.
// Empty fields keep the defaults.
type FallbacksConfig struct {
	Alarm        string `yaml:"alarm"`
	Prescriptive string `yaml:"prescriptive"`
	Diagnostic   string `yaml:"diagnostic"`
	Generic      string `yaml:"generic"`
}

type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

type AuditConfig struct {
	Level            string `yaml:"level"` // off | decision
	File             string `yaml:"file"`
	WebhookURL       string `yaml:"webhook_url"`
	WebhookTimeoutMS int    `yaml:"webhook_timeout_ms"`
}

type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Protocol string `yaml:"protocol"` // grpc | http
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns a default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Filter.MaxInputLength == 0 {
		cfg.Filter.MaxInputLength = 2000
	}
	if cfg.Filter.RegenerationAttempts == 0 {
		cfg.Filter.RegenerationAttempts = 2
	}
	if cfg.Audit.Level == "" {
		cfg.Audit.Level = "decision"
	}
	if cfg.Audit.WebhookTimeoutMS == 0 {
		cfg.Audit.WebhookTimeoutMS = 2000
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
