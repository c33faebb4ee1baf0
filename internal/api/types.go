package api

// MetricsResponse is the payload for GET /api/v1/metrics and the WebSocket
// metrics stream.
type MetricsResponse struct {
	// Provider is the configured backend name, null when shipping is
	// disabled.
	Provider *string `json:"provider"`

	URLConfigured bool `json:"url_configured"`
	BufferDepth   int  `json:"buffer_depth"`

	BatchSize       int   `json:"batch_size"`
	FlushIntervalMS int64 `json:"flush_interval_ms"`
	MaxRetries      int   `json:"max_retries"`

	// LastFlush is the RFC 3339 time of the last successful delivery,
	// null when nothing has shipped yet.
	LastFlush *string `json:"last_flush"`

	BatchesShipped uint64 `json:"batches_shipped"`
	BatchesFailed  uint64 `json:"batches_failed"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status      string `json:"status"`
	BufferDepth int    `json:"buffer_depth"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
