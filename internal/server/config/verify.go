package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/tokclaim-go/internal/telemetry/logger"
)

// Verify validates the configuration and reports every problem found.
func Verify(cfg *ServerConfig) error {
	var errs []error
	errs = append(errs, verifyServer(&cfg.Server)...)
	errs = append(errs, verifyStorage(&cfg.Storage)...)
	errs = append(errs, verifySecurity(&cfg.Security)...)
	errs = append(errs, verifyLog(&cfg.Log)...)
	return errors.Join(errs...)
}

func verifyServer(cfg *ServerSection) []error {
	var errs []error

	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.http.addr %q: %w", cfg.HTTP.Addr, err))
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		errs = append(errs, errors.New("server.http.tls_cert_file and tls_key_file must be set together"))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}

	return errs
}

func verifyStorage(cfg *StorageSection) []error {
	var errs []error

	switch cfg.Backend {
	case "file", "badger":
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q: must be file or badger", cfg.Backend))
	}
	if cfg.DataDir == "" {
		errs = append(errs, errors.New("storage.data_dir is required"))
	}
	if cfg.Backend == "file" && cfg.AllowListFile != "" && cfg.AllowListFile == cfg.ClaimedFile {
		errs = append(errs, errors.New("storage.allowlist_file and claimed_file must differ"))
	}
	if t := cfg.Badger.GCThreshold; t < 0 || t >= 1 {
		errs = append(errs, fmt.Errorf("storage.badger.gc_threshold %v: must be in [0, 1)", t))
	}
	if cfg.Badger.EncryptionKey != "" {
		if cfg.Backend != "badger" {
			errs = append(errs, errors.New("storage.badger.encryption_key requires backend badger"))
		}
		if _, err := cfg.Badger.EncryptionKeyBytes(); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

func verifySecurity(cfg *SecuritySection) []error {
	var errs []error

	seen := make(map[string]bool)
	for i, k := range cfg.APIKeys {
		if k.KeyID == "" {
			errs = append(errs, fmt.Errorf("security.api_keys[%d].key_id is required", i))
			continue
		}
		if seen[k.KeyID] {
			errs = append(errs, fmt.Errorf("security.api_keys: duplicate key_id %q", k.KeyID))
		}
		seen[k.KeyID] = true

		if k.Role != "admin" && k.Role != "verifier" {
			errs = append(errs, fmt.Errorf("security.api_keys[%s].role %q: must be admin or verifier", k.KeyID, k.Role))
		}
		if !strings.HasPrefix(k.SecretHash, "$2") {
			errs = append(errs, fmt.Errorf("security.api_keys[%s].secret_hash must be a bcrypt hash", k.KeyID))
		}
	}

	if cfg.ClaimRateLimit.PerSecond < 0 {
		errs = append(errs, errors.New("security.claim_rate_limit.per_second must not be negative"))
	}
	if cfg.ClaimRateLimit.PerSecond > 0 && cfg.ClaimRateLimit.Burst < 1 {
		errs = append(errs, errors.New("security.claim_rate_limit.burst must be at least 1"))
	}

	return errs
}

func verifyLog(cfg *LogSection) []error {
	var errs []error
	if !logger.ValidLevel(cfg.Level) {
		errs = append(errs, fmt.Errorf("log.level %q: must be debug, info, warn or error", cfg.Level))
	}
	switch cfg.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: must be json or text", cfg.Format))
	}
	return errs
}

// EncryptionKeyBytes decodes the hex encryption key. An empty key
// returns nil.
func (b BadgerSection) EncryptionKeyBytes() ([]byte, error) {
	if b.EncryptionKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(b.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("storage.badger.encryption_key: not hex: %w", err)
	}
	switch len(key) {
	case 16, 24, 32:
		return key, nil
	default:
		return nil, fmt.Errorf("storage.badger.encryption_key: %d bytes, want 16, 24 or 32", len(key))
	}
}
