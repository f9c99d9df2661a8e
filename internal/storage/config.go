package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Config selects and configures a backend.
type Config struct {
	// Backend is "file" (default) or "badger".
	Backend string

	// DataDir is the base directory for all storage files.
	DataDir string

	// File names for the file backend, relative to DataDir.
	AllowListFile string
	ClaimedFile   string

	// Badger tuning. Badger.Dir defaults to DataDir/badger.
	Badger BadgerConfig
}

// DefaultConfig returns the default storage configuration.
func DefaultConfig(dataDir string) Config {
	return Config{
		Backend:       BackendFile,
		DataDir:       dataDir,
		AllowListFile: DefaultAllowListFile,
		ClaimedFile:   DefaultClaimedFile,
		Badger:        DefaultBadgerConfig(filepath.Join(dataDir, "badger")),
	}
}

// NewBackend creates the backend named by cfg.Backend.
func NewBackend(cfg Config, logger *slog.Logger) (Backend, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("storage: data_dir is required")
	}

	switch cfg.Backend {
	case "", BackendFile:
		return NewFileBackend(FileConfig{
			Dir:           cfg.DataDir,
			AllowListFile: cfg.AllowListFile,
			ClaimedFile:   cfg.ClaimedFile,
		}, logger)
	case BackendBadger:
		bc := cfg.Badger
		if bc.Dir == "" {
			bc.Dir = filepath.Join(cfg.DataDir, "badger")
		}
		return NewBadgerBackend(bc, logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}
