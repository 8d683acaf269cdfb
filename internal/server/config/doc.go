// Package config provides server configuration for EmberKV.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (addresses, timeouts, shard layout, log settings)
//   - summary.go: Flattened view of the effective configuration for logging
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and flags.
package config
