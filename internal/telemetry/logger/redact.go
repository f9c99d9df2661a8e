package logger

import (
	"log/slog"
	"strings"
	"unicode"
)

// Key patterns whose values are always fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"api_key",
	"credential",
	"authorization",
	"bearer",
	"encryption_key",
}

const redactedValue = "***REDACTED***"

// redactSensitive masks email-shaped values and redacts values under
// sensitive keys. Groups are walked recursively.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		strVal := a.Value.String()
		if strVal == "" {
			return a
		}
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if looksLikeEmail(strVal) {
			return slog.String(a.Key, MaskEmail(strVal))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}
	return a
}

// MaskEmail keeps the first character of the local part and the domain:
// "alice@example.com" becomes "a***@example.com". Values that are not
// email-shaped are returned unchanged.
func MaskEmail(value string) string {
	if !looksLikeEmail(value) {
		return value
	}
	at := strings.IndexByte(value, '@')
	first := []rune(value[:at])[0]
	return string(first) + "***" + value[at:]
}

// IsSensitiveKey reports whether a key name suggests secret content.
// Identifier keys ending in "_id" are never sensitive.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	if strings.HasSuffix(keyLower, "_id") {
		return false
	}
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

func looksLikeEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at != strings.LastIndexByte(s, '@') || at == len(s)-1 {
		return false
	}
	if !strings.Contains(s[at+1:], ".") {
		return false
	}
	return strings.IndexFunc(s, unicode.IsSpace) < 0
}
