// Package config provides CLI configuration for emberkv-cli.
//
// The configuration lives in ~/.emberkv/cli.yaml and holds the default
// server address, output format, timeouts and REPL history settings.
// Command-line flags override it per invocation; `emberkv-cli config set`
// edits it.
package config
