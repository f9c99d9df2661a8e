package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yndnr/tokclaim-go/internal/infra/confloader"
)

// EnvPrefix is the environment prefix of CLI settings. It differs from
// the server's so the two never read each other's variables.
const EnvPrefix = "TOKCLAIM_CLI_"

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".tokclaim", "cli.yaml")
}

// Load builds the CLI configuration from defaults, the profile file and
// TOKCLAIM_CLI_ environment variables. An empty path selects
// DefaultConfigPath, which may be absent; an explicit path must exist.
func Load(path string) (*CLIConfig, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				path = ""
			} else {
				return nil, fmt.Errorf("cli config: %w", err)
			}
		}
	}

	cfg := Default()
	loader := confloader.NewLoader(
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithConfigFile(path),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, fmt.Errorf("cli config: %w", err)
	}
	return cfg, nil
}
