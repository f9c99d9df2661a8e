package config

import "strings"

// Sanitize returns a copy of the config with sensitive fields masked,
// for logging the effective configuration.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	if sanitized.Storage.Badger.EncryptionKey != "" {
		sanitized.Storage.Badger.EncryptionKey = maskSecret(sanitized.Storage.Badger.EncryptionKey)
	}

	if len(cfg.Security.APIKeys) > 0 {
		keys := make([]APIKeyConfig, len(cfg.Security.APIKeys))
		copy(keys, cfg.Security.APIKeys)
		for i := range keys {
			keys[i].SecretHash = maskSecret(keys[i].SecretHash)
		}
		sanitized.Security.APIKeys = keys
	}

	return &sanitized
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
