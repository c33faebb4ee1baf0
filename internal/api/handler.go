package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/logrelay/logrelay/internal/ship"
)

// Handler serves the read-only observability endpoints. It holds a
// reference to the shipper and never mutates pipeline state.
type Handler struct {
	ship  *ship.Shipper
	token string // expected bearer token, empty disables the guard
	mux   *http.ServeMux
}

// New creates a Handler wired to the given shipper and registers all
// routes. A non-empty token requires "Authorization: Bearer <token>" on the
// /api/v1 endpoints.
func New(s *ship.Shipper, token string) http.Handler {
	h := &Handler{ship: s, token: token, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/metrics", h.authorized(h.metrics))
	h.mux.HandleFunc("/metrics", h.authorized(h.prometheus))

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// authorized wraps next with the optional bearer-token check. This guards
// operational visibility, not a cryptographic boundary, so a plain string
// comparison is fine.
func (h *Handler) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.token != "" && r.Header.Get("Authorization") != "Bearer "+h.token {
			jsonErr(w, http.StatusUnauthorized, "invalid or missing bearer token")
			return
		}
		next(w, r)
	}
}

// health returns GET /api/v1/health: process liveness and queue depth.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap := h.ship.Snapshot()
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		BufferDepth: snap.BufferDepth,
	})
}

// metrics returns GET /api/v1/metrics: the pipeline snapshot as JSON.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, ToMetricsResponse(h.ship.Snapshot()))
}

// prometheus returns GET /metrics: the same counters in text exposition
// format.
func (h *Handler) prometheus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writePrometheus(w, h.ship.Snapshot())
}

// ToMetricsResponse maps a pipeline snapshot to its JSON representation.
// Shared with the WebSocket hub so both surfaces emit the same shape.
func ToMetricsResponse(snap ship.Snapshot) MetricsResponse {
	resp := MetricsResponse{
		URLConfigured:   snap.URLConfigured,
		BufferDepth:     snap.BufferDepth,
		BatchSize:       snap.BatchSize,
		FlushIntervalMS: snap.FlushInterval.Milliseconds(),
		MaxRetries:      snap.MaxRetries,
		BatchesShipped:  snap.BatchesShipped,
		BatchesFailed:   snap.BatchesFailed,
	}
	if snap.Provider != "" {
		resp.Provider = &snap.Provider
	}
	if snap.LastFlush != nil {
		s := snap.LastFlush.UTC().Format(time.RFC3339)
		resp.LastFlush = &s
	}
	return resp
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
