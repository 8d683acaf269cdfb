// Package tlsroots provides TLS certificate management for EmberKV.
//
//   - roots.go: trusted roots for clients, system pool plus custom CAs
//   - watcher.go: server certificate with hot reload via fsnotify
//
// The server serves whatever key pair the Watcher last loaded, so a
// renewed certificate takes effect for new connections without a restart.
package tlsroots
