package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/logrelay/logrelay/internal/entry"
)

// generic posts the raw entry array as JSON to a caller-supplied endpoint,
// authenticating with a bearer token when a key is configured.
type generic struct {
	url    string
	key    string
	client *http.Client
}

func (g *generic) Name() string { return "generic" }

func (g *generic) Send(ctx context.Context, entries []entry.Entry) error {
	body, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("generic: marshal batch: %w", err)
	}

	auth := ""
	if g.key != "" {
		auth = "Bearer " + g.key
	}
	if err := post(ctx, g.client, g.url, body, auth); err != nil {
		return fmt.Errorf("generic: %w", err)
	}
	return nil
}
