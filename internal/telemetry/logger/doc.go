// Package logger provides structured logging for EmberKV.
//
// This package wraps log/slog:
//
//   - logger.go: Logger interface, level handling, global default
//   - context.go: Context-aware logging with connection IDs
//   - redact.go: Redaction of stored payloads and secrets
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering, adjustable at runtime
//   - Stored values are never written to logs verbatim
//   - Context propagation for per-connection correlation
package logger
