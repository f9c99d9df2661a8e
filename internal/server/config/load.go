package config

import (
	"fmt"
	"path/filepath"

	"github.com/yndnr/tokclaim-go/internal/core/service"
	"github.com/yndnr/tokclaim-go/internal/infra/confloader"
	"github.com/yndnr/tokclaim-go/internal/storage"
)

// Load builds the configuration from defaults, the optional file at path
// and TOKCLAIM_ environment variables, then verifies it.
func Load(path string) (*ServerConfig, error) {
	cfg := Default()

	loader := confloader.NewLoader(confloader.WithConfigFile(path))
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// StorageConfig converts the storage section for storage.NewBackend.
func (s StorageSection) StorageConfig() (storage.Config, error) {
	key, err := s.Badger.EncryptionKeyBytes()
	if err != nil {
		return storage.Config{}, err
	}

	cfg := storage.DefaultConfig(s.DataDir)
	cfg.Backend = s.Backend
	cfg.AllowListFile = s.AllowListFile
	cfg.ClaimedFile = s.ClaimedFile
	cfg.Badger.Dir = filepath.Join(s.DataDir, "badger")
	cfg.Badger.EncryptionKey = key
	if s.Badger.GCInterval > 0 {
		cfg.Badger.GCInterval = s.Badger.GCInterval
	}
	if s.Badger.GCThreshold > 0 {
		cfg.Badger.GCThreshold = s.Badger.GCThreshold
	}
	if s.Badger.CacheSizeMB > 0 {
		cfg.Badger.CacheSize = s.Badger.CacheSizeMB << 20
	}
	return cfg, nil
}

// ServiceKeys converts the configured keys for service.NewAuthService.
func (s SecuritySection) ServiceKeys() []service.APIKey {
	keys := make([]service.APIKey, 0, len(s.APIKeys))
	for _, k := range s.APIKeys {
		keys = append(keys, service.APIKey{
			KeyID:      k.KeyID,
			Role:       service.Role(k.Role),
			SecretHash: k.SecretHash,
			Allowlist:  k.Allowlist,
		})
	}
	return keys
}
