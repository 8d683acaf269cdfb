// Package metric provides Prometheus metrics for EmberKV.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry, metric helpers and HTTP handler
//   - collector.go: Collector reporting keyspace size from the store
//
// Metrics include:
//
//   - Commands processed by name and result
//   - Command latency histograms
//   - Active and total client connections
//   - Keys expired by the lazy and active paths
//   - Protocol errors and rate-limited commands
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
