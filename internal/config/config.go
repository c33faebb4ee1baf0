package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultBatchSize     = 25
	DefaultFlushInterval = 2 * time.Second
	DefaultMaxRetries    = 3
	DefaultHTTPPort      = 8080
	DefaultWSInterval    = 5 * time.Second
)

// DefaultLogDNAURL is the provider ingestion endpoint used when
// shipper.url is not set and the provider is "logdna".
const DefaultLogDNAURL = "https://logs.logdna.com/logs/ingest"

// Config is the top-level configuration. Fields map 1:1 to
// config.example.yaml.
type Config struct {
	Shipper ShipperConfig `yaml:"shipper"`
	Server  ServerConfig  `yaml:"server"`

	// Sources is the list of log files to follow and enqueue.
	Sources []Source `yaml:"sources"`
}

// ShipperConfig holds the remote shipping settings. These are resolved once
// at startup and are immutable for the lifetime of the process; a config
// reload does not touch a running shipper.
type ShipperConfig struct {
	// Provider selects the outbound payload shape: "generic" | "logdna".
	// Empty disables remote shipping entirely (enqueue becomes a no-op)
	// unless URL is set, in which case "generic" is assumed.
	Provider string `yaml:"provider"`

	// URL is the ingestion endpoint. Required for the generic provider;
	// optional for logdna (falls back to the provider default).
	URL string `yaml:"url"`

	// KeyEnv is the name of the environment variable holding the API key.
	KeyEnv string `yaml:"key_env"`

	// App is the static application tag attached to every line sent to
	// the line-oriented provider.
	App string `yaml:"app"`

	// BatchSize is how many buffered entries trigger an immediate flush.
	BatchSize int `yaml:"batch_size"`

	// FlushInterval is how long a non-empty buffer may sit idle before a
	// timer-driven flush.
	FlushInterval time.Duration `yaml:"flush_interval"`

	// MaxRetries is the per-entry redelivery ceiling. An entry whose
	// attempt count exceeds it is dropped with a warning.
	MaxRetries int `yaml:"max_retries"`
}

// Key returns the API key resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (c ShipperConfig) Key() string {
	if c.KeyEnv == "" {
		return ""
	}
	return os.Getenv(c.KeyEnv)
}

// EffectiveProvider returns the provider after defaulting: an explicit URL
// with no provider means generic.
func (c ShipperConfig) EffectiveProvider() string {
	if c.Provider == "" && c.URL != "" {
		return "generic"
	}
	return c.Provider
}

// Endpoint returns the resolved ingestion URL, applying the logdna default.
func (c ShipperConfig) Endpoint() string {
	if c.URL == "" && c.EffectiveProvider() == "logdna" {
		return DefaultLogDNAURL
	}
	return c.URL
}

// Enabled reports whether remote shipping is configured at all.
func (c ShipperConfig) Enabled() bool {
	return c.EffectiveProvider() != ""
}

// Source describes one log file to follow.
type Source struct {
	// ID is a unique, human-readable identifier for this source.
	ID string `yaml:"id"`

	// Path is the file to tail.
	Path string `yaml:"path"`

	// Meta is merged into the meta of every entry read from this source.
	Meta map[string]string `yaml:"meta"`
}

// ServerConfig holds the local observability HTTP server settings.
type ServerConfig struct {
	// HTTPPort is the port the metrics API and WebSocket stream listen on.
	HTTPPort int `yaml:"http_port"`

	// WSInterval is how often the WebSocket hub broadcasts a snapshot.
	WSInterval time.Duration `yaml:"ws_interval"`

	// Auth configures the optional bearer-token guard on the metrics API.
	Auth ServerAuthConfig `yaml:"auth"`
}

// ServerAuthConfig configures metrics API authentication.
type ServerAuthConfig struct {
	// Mode is one of: bearer | none.
	Mode string `yaml:"mode"`

	// TokenEnv is the name of the environment variable holding the
	// expected bearer token.
	TokenEnv string `yaml:"token_env"`
}

// Token returns the bearer token resolved from the environment.
func (a ServerAuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Shipper: ShipperConfig{
			BatchSize:     DefaultBatchSize,
			FlushInterval: DefaultFlushInterval,
			MaxRetries:    DefaultMaxRetries,
		},
		Server: ServerConfig{
			HTTPPort:   DefaultHTTPPort,
			WSInterval: DefaultWSInterval,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	switch cfg.Shipper.Provider {
	case "", "generic", "logdna":
	default:
		return fmt.Errorf("shipper.provider: unknown provider %q", cfg.Shipper.Provider)
	}
	if cfg.Shipper.Provider == "generic" && cfg.Shipper.URL == "" {
		return fmt.Errorf("shipper.url is required for the generic provider")
	}
	if cfg.Shipper.BatchSize <= 0 {
		return fmt.Errorf("shipper.batch_size must be positive")
	}
	if cfg.Shipper.FlushInterval <= 0 {
		return fmt.Errorf("shipper.flush_interval must be positive")
	}
	if cfg.Shipper.MaxRetries < 0 {
		return fmt.Errorf("shipper.max_retries must not be negative")
	}
	switch cfg.Server.Auth.Mode {
	case "", "none", "bearer":
	default:
		return fmt.Errorf("server.auth.mode: unknown mode %q", cfg.Server.Auth.Mode)
	}
	for i, src := range cfg.Sources {
		if src.ID == "" {
			return fmt.Errorf("sources[%d]: id is required", i)
		}
		if src.Path == "" {
			return fmt.Errorf("sources[%d] %q: path is required", i, src.ID)
		}
	}
	return nil
}
