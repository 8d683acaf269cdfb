// Package buildinfo provides build information for EmberKV.
//
// This package exposes build-time information injected via ldflags:
//
//   - Version: Semantic version (e.g., "v1.0.0")
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// When Commit is not injected it is taken from the VCS stamp the Go
// toolchain embeds in the binary, if any.
//
// Usage:
//
//	go build -ldflags "-X github.com/yndnr/emberkv/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
