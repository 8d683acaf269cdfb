// Package connection manages the emberkv-cli connection to a server.
//
// A Manager wraps a go-redis client, created lazily on first use, and
// exposes the commands the server understands. Server-side errors are
// returned as *ServerError so callers can print them without treating
// them as transport failures.
package connection
