package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// loadFromString writes yaml to a temp file and loads it.
func loadFromString(t *testing.T, yaml string) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func loadErr(t *testing.T, yaml string) error {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	_, err := Load(path)
	return err
}

func TestLoad_Valid(t *testing.T) {
	yaml := `
shipper:
  provider: logdna
  key_env: LOGRELAY_TEST_KEY
  app: payments
  batch_size: 50
  flush_interval: 3s
  max_retries: 5
server:
  http_port: 9090
sources:
  - id: app-log
    path: /var/log/app.log
    meta:
      env: prod
`
	cfg := loadFromString(t, yaml)

	if cfg.Shipper.Provider != "logdna" {
		t.Errorf("provider: got %q", cfg.Shipper.Provider)
	}
	if cfg.Shipper.BatchSize != 50 {
		t.Errorf("batch_size: got %d", cfg.Shipper.BatchSize)
	}
	if cfg.Shipper.FlushInterval != 3*time.Second {
		t.Errorf("flush_interval: got %v", cfg.Shipper.FlushInterval)
	}
	if cfg.Server.HTTPPort != 9090 {
		t.Errorf("http_port: got %d", cfg.Server.HTTPPort)
	}
	if len(cfg.Sources) != 1 {
		t.Fatalf("sources: got %d, want 1", len(cfg.Sources))
	}
	if cfg.Sources[0].Meta["env"] != "prod" {
		t.Errorf("source meta: got %v", cfg.Sources[0].Meta)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, `
shipper:
  provider: logdna
`)

	if cfg.Shipper.BatchSize != DefaultBatchSize {
		t.Errorf("default batch_size: got %d, want %d", cfg.Shipper.BatchSize, DefaultBatchSize)
	}
	if cfg.Shipper.FlushInterval != DefaultFlushInterval {
		t.Errorf("default flush_interval: got %v, want %v", cfg.Shipper.FlushInterval, DefaultFlushInterval)
	}
	if cfg.Shipper.MaxRetries != DefaultMaxRetries {
		t.Errorf("default max_retries: got %d, want %d", cfg.Shipper.MaxRetries, DefaultMaxRetries)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("default http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
}

func TestLoad_GenericRequiresURL(t *testing.T) {
	err := loadErr(t, `
shipper:
  provider: generic
`)
	if err == nil {
		t.Fatal("expected error for generic provider without url")
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	err := loadErr(t, `
shipper:
  provider: syslog
`)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoad_SourceMissingPath(t *testing.T) {
	err := loadErr(t, `
sources:
  - id: broken
`)
	if err == nil {
		t.Fatal("expected error for source without path")
	}
}

func TestShipperConfig_EffectiveProvider(t *testing.T) {
	c := ShipperConfig{URL: "https://logs.example.com/ingest"}
	if got := c.EffectiveProvider(); got != "generic" {
		t.Errorf("EffectiveProvider with bare url: got %q, want generic", got)
	}

	c = ShipperConfig{}
	if c.Enabled() {
		t.Error("empty shipper config should be disabled")
	}
}

func TestShipperConfig_Endpoint(t *testing.T) {
	c := ShipperConfig{Provider: "logdna"}
	if got := c.Endpoint(); got != DefaultLogDNAURL {
		t.Errorf("logdna default endpoint: got %q", got)
	}

	c = ShipperConfig{Provider: "logdna", URL: "https://ingest.internal/logs"}
	if got := c.Endpoint(); got != "https://ingest.internal/logs" {
		t.Errorf("endpoint override: got %q", got)
	}
}

func TestShipperConfig_KeyFromEnv(t *testing.T) {
	t.Setenv("LOGRELAY_TEST_KEY", "abc")
	c := ShipperConfig{KeyEnv: "LOGRELAY_TEST_KEY"}
	if got := c.Key(); got != "abc" {
		t.Errorf("Key: got %q, want abc", got)
	}

	if got := (ShipperConfig{}).Key(); got != "" {
		t.Errorf("Key with no env: got %q, want empty", got)
	}
}
