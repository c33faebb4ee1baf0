// Package ws streams the pipeline metrics snapshot to WebSocket clients.
//
// The Hub broadcasts the same JSON shape as GET /api/v1/metrics to every
// connected client on a fixed interval, wrapped in {"event": "metrics",
// "data": {...}}. Clients that stop draining their send buffer are
// disconnected rather than slowing the broadcast.
package ws
