package config

// CLIConfig is the configuration for tokclaim-cli.
type CLIConfig struct {
	Server   string `koanf:"server"`
	APIKeyID string `koanf:"api_key_id"`
	APIKey   string `koanf:"api_key"` // plaintext; keep the file mode 0600
	Output   string `koanf:"output"`  // table, json, yaml

	// CAFile is a PEM bundle trusted in addition to the system roots.
	CAFile string `koanf:"ca_file"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server: "localhost:5080",
		Output: "table",
	}
}
