package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// payloadKeys name attributes that carry user data held in the store.
// Their contents are replaced by their length.
var payloadKeys = map[string]bool{
	"value":   true,
	"payload": true,
	"args":    true,
}

// secretKeyPatterns are substrings of attribute names that are fully redacted.
var secretKeyPatterns = []string{
	"password",
	"secret",
	"credential",
}

const redactedValue = "***REDACTED***"

// redactSensitive rewrites attributes that must not reach the log verbatim.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	key := strings.ToLower(a.Key)
	if payloadKeys[key] {
		return slog.String(a.Key, payloadSummary(a.Value))
	}
	if IsSecretKey(key) && a.Value.Kind() == slog.KindString && a.Value.String() != "" {
		return slog.String(a.Key, redactedValue)
	}
	return a
}

// payloadSummary describes a payload by size only.
func payloadSummary(v slog.Value) string {
	switch x := v.Any().(type) {
	case []byte:
		return fmt.Sprintf("<%d bytes>", len(x))
	case string:
		return fmt.Sprintf("<%d bytes>", len(x))
	case [][]byte:
		return fmt.Sprintf("<%d items>", len(x))
	default:
		return redactedValue
	}
}

// IsSecretKey reports whether an attribute name suggests secret content.
func IsSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, p := range secretKeyPatterns {
		if strings.Contains(key, p) {
			return true
		}
	}
	return false
}
