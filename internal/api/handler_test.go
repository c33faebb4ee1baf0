package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logrelay/logrelay/internal/backend"
	"github.com/logrelay/logrelay/internal/config"
	"github.com/logrelay/logrelay/internal/ship"
)

func newTestShipper(t *testing.T) *ship.Shipper {
	t.Helper()
	be, err := backend.New(config.ShipperConfig{
		Provider: "generic",
		URL:      "https://logs.example.com/ingest",
	})
	require.NoError(t, err)
	return ship.New(ship.Config{
		BatchSize:     25,
		FlushInterval: 2 * time.Second,
		MaxRetries:    3,
		URLConfigured: true,
	}, be, nil)
}

func get(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := New(newTestShipper(t), "")
	rec := get(t, h, "/api/v1/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.BufferDepth)
}

func TestMetrics_Snapshot(t *testing.T) {
	s := newTestShipper(t)
	h := New(s, "")

	rec := get(t, h, "/api/v1/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MetricsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Provider)
	assert.Equal(t, "generic", *resp.Provider)
	assert.True(t, resp.URLConfigured)
	assert.Equal(t, 25, resp.BatchSize)
	assert.Equal(t, int64(2000), resp.FlushIntervalMS)
	assert.Equal(t, 3, resp.MaxRetries)
	assert.Nil(t, resp.LastFlush, "no flush has happened yet")
	assert.Equal(t, uint64(0), resp.BatchesShipped)
}

func TestMetrics_DisabledShipperHasNullProvider(t *testing.T) {
	h := New(ship.New(ship.Config{}, nil, nil), "")

	rec := get(t, h, "/api/v1/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"provider":null`)
}

func TestMetrics_BearerGuard(t *testing.T) {
	h := New(newTestShipper(t), "topsecret")

	rec := get(t, h, "/api/v1/metrics", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(t, h, "/api/v1/metrics", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(t, h, "/api/v1/metrics", "topsecret")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health stays open for liveness probes.
	rec = get(t, h, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPrometheusExposition(t *testing.T) {
	s := newTestShipper(t)
	s.Metrics().RecordShipped(time.Now())
	s.Metrics().RecordFailed()

	h := New(s, "")
	rec := get(t, h, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "logrelay_batches_shipped_total 1")
	assert.Contains(t, body, "logrelay_batches_failed_total 1")
	assert.Contains(t, body, "logrelay_buffer_depth 0")
	assert.Contains(t, body, "logrelay_last_flush_timestamp_seconds")
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
}

func TestMethodNotAllowed(t *testing.T) {
	h := New(newTestShipper(t), "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
