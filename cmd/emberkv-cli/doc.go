// Package main provides the entry point for emberkv-cli.
//
// emberkv-cli is the command-line client for EmberKV, supporting
// single commands, an interactive REPL and a small load generator.
//
// Usage:
//
//	emberkv-cli [--addr host:port] ping
//	emberkv-cli set --px 5000 session:42 alice
//	emberkv-cli -o json get session:42
//	emberkv-cli repl
//	emberkv-cli bench -n 100000 -c 50
package main
