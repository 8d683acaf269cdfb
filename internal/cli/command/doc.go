// Package command provides CLI command definitions for emberkv-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: application, global flags and shared helpers
//   - kv.go: ping, echo, get and set
//   - repl.go: interactive mode
//   - bench.go: load generator reporting throughput and latency
//   - config.go: CLI configuration file management
//
// Commands parse flags, call the connection manager and print the result
// through the output formatter selected with --output.
package command
