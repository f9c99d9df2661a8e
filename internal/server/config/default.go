package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:5080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultBackend       = "file"
	DefaultDataDir       = "/var/lib/tokclaim/data"
	DefaultAllowListFile = "allowlist.txt"
	DefaultClaimedFile   = "claimed.txt"

	DefaultBadgerGCInterval  = 10 * time.Minute
	DefaultBadgerGCThreshold = 0.5
	DefaultBadgerCacheSizeMB = 64

	DefaultAuthCacheTTL   = time.Minute
	DefaultClaimPerSecond = 1.0
	DefaultClaimBurst     = 5

	DefaultAuditPath = "/var/lib/tokclaim/audit.log"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:         DefaultHTTPAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
			},
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Storage: StorageSection{
			Backend:       DefaultBackend,
			DataDir:       DefaultDataDir,
			AllowListFile: DefaultAllowListFile,
			ClaimedFile:   DefaultClaimedFile,
			Badger: BadgerSection{
				GCInterval:  DefaultBadgerGCInterval,
				GCThreshold: DefaultBadgerGCThreshold,
				CacheSizeMB: DefaultBadgerCacheSizeMB,
			},
		},
		Security: SecuritySection{
			AuthCacheTTL: DefaultAuthCacheTTL,
			ClaimRateLimit: RateLimitConfig{
				PerSecond: DefaultClaimPerSecond,
				Burst:     DefaultClaimBurst,
			},
		},
		Audit: AuditSection{
			Path: DefaultAuditPath,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
