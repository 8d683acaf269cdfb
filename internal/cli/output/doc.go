// Package output provides output formatting for emberkv-cli.
//
// This package handles all CLI output formatting:
//
//   - formatter.go: Formatter interface, Reply, and the raw formatter
//   - table.go: aligned tables for multi-row results such as bench
//   - json.go, yaml.go: machine-readable output for scripting
//   - progress.go: progress bar for long-running operations
//
// Raw output follows redis-cli conventions: status and bulk replies are
// printed as-is, a missing key prints (nil) and server errors are
// prefixed with (error).
package output
