package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/logrelay/logrelay/internal/config"
	"github.com/logrelay/logrelay/internal/entry"
)

// logDNA ships to a line-oriented ingestion API: one JSON object per log
// line wrapped in a "lines" array, Basic auth with the API key as username
// and an empty password, hostname carried as a query parameter.
type logDNA struct {
	url    string
	auth   string // precomputed "Basic ..." header value, empty when no key
	app    string
	client *http.Client
}

// line is the per-entry wire object.
type line struct {
	Line  string         `json:"line"`
	App   string         `json:"app"`
	Level entry.Level    `json:"level"`
	Meta  map[string]any `json:"meta,omitempty"`
	TS    int64          `json:"timestamp"`
}

type linesPayload struct {
	Lines []line `json:"lines"`
}

func newLogDNA(cfg config.ShipperConfig) *logDNA {
	endpoint := cfg.Endpoint()
	if host, err := os.Hostname(); err == nil {
		endpoint += "?hostname=" + url.QueryEscape(host)
	}

	auth := ""
	if key := cfg.Key(); key != "" {
		auth = "Basic " + base64.StdEncoding.EncodeToString([]byte(key+":"))
	}

	app := cfg.App
	if app == "" {
		app = "logrelay"
	}

	return &logDNA{
		url:    endpoint,
		auth:   auth,
		app:    app,
		client: newClient(),
	}
}

func (l *logDNA) Name() string { return "logdna" }

func (l *logDNA) Send(ctx context.Context, entries []entry.Entry) error {
	payload := linesPayload{Lines: make([]line, 0, len(entries))}
	for _, e := range entries {
		payload.Lines = append(payload.Lines, line{
			Line:  e.Msg,
			App:   l.app,
			Level: e.Level,
			Meta:  e.Meta,
			TS:    e.Time.UnixMilli(),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("logdna: marshal batch: %w", err)
	}
	if err := post(ctx, l.client, l.url, body, l.auth); err != nil {
		return fmt.Errorf("logdna: %w", err)
	}
	return nil
}
