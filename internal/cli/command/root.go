package command

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tokclaim-go/internal/cli/config"
	"github.com/yndnr/tokclaim-go/internal/cli/connection"
	"github.com/yndnr/tokclaim-go/internal/cli/output"
	"github.com/yndnr/tokclaim-go/internal/infra/buildinfo"
	"github.com/yndnr/tokclaim-go/internal/infra/tlsroots"
)

// defaultRequestTimeout bounds one command's server round trips.
const defaultRequestTimeout = 30 * time.Second

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "tokclaim-cli",
		Usage:   "tokclaim command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ClaimCommand(),
			AllowCommand(),
			ClaimsCommand(),
			TokenCommand(),
			SystemCommand(),
			HashSecretCommand(),
			KeygenCommand(),
		},
		Before: loadConfig,
	}
}

// configKey is the App.Metadata key of the loaded CLI profile.
const configKey = "config"

// loadConfig loads the CLI profile and validates the effective output format.
func loadConfig(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[configKey] = cfg

	name := cfg.Output
	if c.IsSet("output") {
		name = c.String("output")
	}
	_, err = output.ParseFormat(name)
	return err
}

// globalFlags returns the global CLI flags. Unset flags fall back to the
// CLI profile, whose defaults are shown in the help text.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "CLI profile file",
			EnvVars:     []string{"TOKCLAIM_CLI_CONFIG"},
			DefaultText: "~/.tokclaim/cli.yaml",
		},
		&cli.StringFlag{
			Name:        "server",
			Aliases:     []string{"s"},
			Usage:       "tokclaim server address (e.g., localhost:5080)",
			EnvVars:     []string{"TOKCLAIM_CLI_SERVER"},
			DefaultText: "localhost:5080",
		},
		&cli.StringFlag{
			Name:    "api-key-id",
			Aliases: []string{"k"},
			Usage:   "API key ID for authentication",
			EnvVars: []string{"TOKCLAIM_CLI_API_KEY_ID"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Aliases: []string{"K"},
			Usage:   "API key secret for authentication",
			EnvVars: []string{"TOKCLAIM_CLI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "ca-file",
			Usage:   "PEM file of CA certificates to trust for https servers",
			EnvVars: []string{"TOKCLAIM_CLI_CA_FILE"},
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output format: table, json, yaml",
			EnvVars:     []string{"TOKCLAIM_CLI_OUTPUT"},
			DefaultText: "table",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server   string
	APIKeyID string
	APIKey   string
	CAFile   string
	Output   output.Format
}

// ParseGlobalFlags extracts global flags from context. Flags that were
// not given take their value from the loaded CLI profile.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	cfg, _ := c.App.Metadata[configKey].(*config.CLIConfig)
	if cfg == nil {
		cfg = config.Default()
	}

	pick := func(flag, fallback string) string {
		if c.IsSet(flag) {
			return c.String(flag)
		}
		return fallback
	}

	format, _ := output.ParseFormat(pick("output", cfg.Output))
	return &GlobalFlags{
		Server:   pick("server", cfg.Server),
		APIKeyID: pick("api-key-id", cfg.APIKeyID),
		APIKey:   pick("api-key", cfg.APIKey),
		CAFile:   pick("ca-file", cfg.CAFile),
		Output:   format,
	}
}

// newClient builds the HTTP client from the global flags.
func newClient(c *cli.Context) (*connection.HTTPClient, error) {
	flags := ParseGlobalFlags(c)

	var opts []connection.Option
	if flags.CAFile != "" {
		tlsCfg, err := tlsroots.ClientConfig(flags.CAFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, connection.WithTLSConfig(tlsCfg))
	}
	return connection.NewHTTPClient(flags.Server, flags.APIKeyID, flags.APIKey, opts...), nil
}

// requestContext derives the context for a command's requests.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, defaultRequestTimeout)
}

// render writes data in the selected format. For table output, table
// builds a purpose-made table; when nil the generic table formatter is used.
func render(c *cli.Context, data any, table func() *output.Table) error {
	format := ParseGlobalFlags(c).Output
	if format == output.FormatTable && table != nil {
		return table().Render(c.App.Writer)
	}
	return output.NewFormatter(format).Format(c.App.Writer, data)
}
