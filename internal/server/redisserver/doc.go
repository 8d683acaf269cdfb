// Package redisserver serves the EmberKV store over the Redis
// serialization protocol (RESP).
//
// The package is split into three layers:
//
//   - resp.go: frame decoding, resumable across partial reads, and reply encoding
//   - command.go: typed commands parsed from decoded frames
//   - server.go, conn.go: listener, per-connection loop, deadlines and rate limiting
//
// Supported commands:
//   - PING
//   - ECHO message
//   - SET key value [PX milliseconds]
//   - GET key
//
// Requests must be RESP arrays of bulk strings. Inline commands are
// rejected as protocol errors.
//
// Setting Config.TLS serves the same protocol over TLS.
package redisserver
