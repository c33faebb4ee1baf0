package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/logrelay/logrelay/internal/config"
	"github.com/logrelay/logrelay/internal/entry"
)

// sendTimeout bounds a single delivery call. The pipeline retries on its
// own schedule, so a hung request must not stall the worker indefinitely.
const sendTimeout = 10 * time.Second

// Backend translates a batch of entries into one provider-specific HTTP
// request. A nil error means the provider accepted the whole batch.
type Backend interface {
	// Name is the stable provider identifier exposed on the metrics surface.
	Name() string

	// Send delivers the batch. Batches succeed or fail wholesale; partial
	// acceptance is not modelled.
	Send(ctx context.Context, entries []entry.Entry) error
}

// New selects the backend once from configuration. It returns (nil, nil)
// when shipping is not configured; the caller runs with delivery disabled.
func New(cfg config.ShipperConfig) (Backend, error) {
	switch cfg.EffectiveProvider() {
	case "":
		return nil, nil
	case "generic":
		if cfg.Endpoint() == "" {
			return nil, fmt.Errorf("backend: generic provider requires an explicit url")
		}
		return &generic{
			url:    cfg.Endpoint(),
			key:    cfg.Key(),
			client: newClient(),
		}, nil
	case "logdna":
		return newLogDNA(cfg), nil
	default:
		return nil, fmt.Errorf("backend: unknown provider %q", cfg.Provider)
	}
}

func newClient() *http.Client {
	return &http.Client{Timeout: sendTimeout}
}

// post issues one JSON POST and classifies the response. Any status outside
// 2xx is a delivery failure.
func post(ctx context.Context, client *http.Client, url string, body []byte, auth string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("ingestion returned status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
