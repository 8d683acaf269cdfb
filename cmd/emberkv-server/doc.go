// Package main provides the entry point for emberkv-server.
//
// The server runs:
//
//   - a RESP listener answering PING, ECHO, SET and GET
//   - a background sweeper removing expired keys
//   - an optional HTTP endpoint serving /metrics, /healthz and /readyz
//
// Usage:
//
//	emberkv-server [flags]
//	emberkv-server --config /path/to/config.yaml
//
// Configuration is layered: built-in defaults, then the YAML file, then
// EMBERKV_* environment variables, then command-line flags. When a config
// file is given, edits to log.level are applied without a restart.
package main
