package logger

import (
	"log/slog"
	"strings"
	"testing"
)

func TestRedactSensitive(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		want string
	}{
		{"value bytes", slog.Any("value", []byte("hello")), "<5 bytes>"},
		{"payload string", slog.String("payload", "abc"), "<3 bytes>"},
		{"args", slog.Any("args", [][]byte{[]byte("SET"), []byte("k")}), "<2 items>"},
		{"password", slog.String("password", "hunter2"), redactedValue},
		{"client secret", slog.String("client_secret", "s"), redactedValue},
		{"empty password", slog.String("password", ""), ""},
		{"key is kept", slog.String("key", "user:1"), "user:1"},
		{"plain", slog.String("addr", ":6379"), ":6379"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactSensitive(tt.attr)
			if got.Value.String() != tt.want {
				t.Errorf("redactSensitive(%s) = %q, want %q", tt.attr.Key, got.Value.String(), tt.want)
			}
		})
	}
}

func TestRedactSensitive_Group(t *testing.T) {
	a := slog.Group("cmd", slog.String("name", "SET"), slog.Any("value", []byte("secret!")))
	got := redactSensitive(a)
	for _, attr := range got.Value.Group() {
		if attr.Key == "value" && attr.Value.String() != "<7 bytes>" {
			t.Errorf("nested value = %q", attr.Value.String())
		}
	}
}

func TestLogger_RedactsPayloads(t *testing.T) {
	l, buf := newBufferLogger(t, "info")
	l.Info("set", "key", "k", "value", []byte("topsecret"))
	if strings.Contains(buf.String(), "topsecret") {
		t.Errorf("payload leaked: %q", buf.String())
	}
}

func TestIsSecretKey(t *testing.T) {
	if !IsSecretKey("DB_PASSWORD") {
		t.Error("IsSecretKey(DB_PASSWORD) = false")
	}
	if IsSecretKey("key") {
		t.Error("IsSecretKey(key) = true")
	}
}
