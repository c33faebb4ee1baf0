// Package api is the read-only HTTP surface over the shipping pipeline.
//
// Endpoints:
//
//	GET /api/v1/health   liveness and current queue depth
//	GET /api/v1/metrics  pipeline snapshot as JSON
//	GET /metrics         the same counters in Prometheus text exposition
//
// When a bearer token is configured, /api/v1/metrics and /metrics require
// an "Authorization: Bearer <token>" header.
package api
