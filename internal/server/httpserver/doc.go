// Package httpserver provides the operational HTTP endpoint for EmberKV.
//
// It serves:
//
//   - GET /metrics: Prometheus exposition
//   - GET /healthz: liveness, always 200 while the process runs
//   - GET /readyz: readiness, 200 once the RESP listener accepts connections
//
// Handlers are wrapped with request ID, access log and panic recovery
// middleware.
package httpserver
