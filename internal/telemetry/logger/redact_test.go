package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice@example.com", "a***@example.com"},
		{"b@x.io", "b***@x.io"},
		{"not-an-email", "not-an-email"},
		{"@example.com", "@example.com"},
		{"user@localhost", "user@localhost"},
		{"a@b@c.com", "a@b@c.com"},
		{"has space@x.io", "has space@x.io"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := MaskEmail(tt.in); got != tt.want {
				t.Errorf("MaskEmail(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"password", true},
		{"client_secret", true},
		{"API_KEY", true},
		{"api_key_id", false},
		{"Authorization", true},
		{"encryption_key", true},
		{"token", false},
		{"requester", false},
	}

	for _, tt := range tests {
		if got := IsSensitiveKey(tt.key); got != tt.want {
			t.Errorf("IsSensitiveKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestRedactSensitive(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		want string
	}{
		{"email masked", slog.String("token", "alice@example.com"), "a***@example.com"},
		{"secret redacted", slog.String("secret", "s3cr3t"), redactedValue},
		{"secret key wins over email", slog.String("password", "alice@example.com"), redactedValue},
		{"empty secret kept", slog.String("secret", ""), ""},
		{"plain value kept", slog.String("backend", "file"), "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactSensitive(tt.attr)
			if got.Value.String() != tt.want {
				t.Errorf("redactSensitive() = %q, want %q", got.Value.String(), tt.want)
			}
		})
	}
}

func TestRedactSensitive_Group(t *testing.T) {
	attr := slog.Group("req", slog.String("token", "bob@example.com"), slog.Int("n", 1))
	got := redactSensitive(attr)

	attrs := got.Value.Group()
	if attrs[0].Value.String() != "b***@example.com" {
		t.Errorf("nested email = %q, want masked", attrs[0].Value.String())
	}
	if attrs[1].Value.Int64() != 1 {
		t.Errorf("non-string attr changed: %v", attrs[1].Value)
	}
}

func TestLogger_RedactsOutput(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})

	l.Info("claim", "token", "carol@example.com", "api_key", "tcak_secret")

	out := buf.String()
	if strings.Contains(out, "carol@example.com") {
		t.Errorf("log output leaked the full token: %s", out)
	}
	if strings.Contains(out, "tcak_secret") {
		t.Errorf("log output leaked the api key: %s", out)
	}
}
