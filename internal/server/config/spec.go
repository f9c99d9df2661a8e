package config

import "time"

// ServerConfig is the root configuration for tokclaim-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Storage  StorageSection  `koanf:"storage"`
	Security SecuritySection `koanf:"security"`
	Audit    AuditSection    `koanf:"audit"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`

	// ShutdownTimeout bounds the whole graceful shutdown sequence.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr         string        `koanf:"addr"`
	TLSCertFile  string        `koanf:"tls_cert_file"`
	TLSKeyFile   string        `koanf:"tls_key_file"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// MetricsAuth requires an API key for GET /metrics.
	MetricsAuth bool `koanf:"metrics_auth"`
}

// StorageSection configures the claim store backend.
type StorageSection struct {
	// Backend is "file" or "badger".
	Backend       string        `koanf:"backend"`
	DataDir       string        `koanf:"data_dir"`
	AllowListFile string        `koanf:"allowlist_file"`
	ClaimedFile   string        `koanf:"claimed_file"`
	Badger        BadgerSection `koanf:"badger"`
}

// BadgerSection tunes the badger backend.
type BadgerSection struct {
	GCInterval  time.Duration `koanf:"gc_interval"`
	GCThreshold float64       `koanf:"gc_threshold"`
	CacheSizeMB int64         `koanf:"cache_size_mb"`

	// EncryptionKey is a hex encoded AES key (32, 48 or 64 hex chars).
	EncryptionKey string `koanf:"encryption_key"`
}

// SecuritySection configures authentication and limits.
type SecuritySection struct {
	APIKeys        []APIKeyConfig  `koanf:"api_keys"`
	IPAllowlist    []string        `koanf:"ip_allowlist"`
	AuthCacheTTL   time.Duration   `koanf:"auth_cache_ttl"`
	ClaimRateLimit RateLimitConfig `koanf:"claim_rate_limit"`
}

// APIKeyConfig declares one API key. SecretHash is a bcrypt hash as
// printed by `tokclaim-cli hash-secret`.
type APIKeyConfig struct {
	KeyID      string   `koanf:"key_id"`
	Role       string   `koanf:"role"`
	SecretHash string   `koanf:"secret_hash"`
	Allowlist  []string `koanf:"allowlist"`
}

// RateLimitConfig limits claims per requester. PerSecond 0 disables it.
type RateLimitConfig struct {
	PerSecond float64 `koanf:"per_second"`
	Burst     int     `koanf:"burst"`
}

// AuditSection configures the audit trail.
type AuditSection struct {
	// Path is the audit log file; "stdout" writes to standard output.
	Path string `koanf:"path"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
