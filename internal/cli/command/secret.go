package command

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/tokclaim-go/internal/cli/output"
	"github.com/yndnr/tokclaim-go/internal/core/service"
	"github.com/yndnr/tokclaim-go/pkg/secret"
)

// HashSecretCommand returns the hash-secret command.
func HashSecretCommand() *cli.Command {
	return &cli.Command{
		Name:  "hash-secret",
		Usage: "Print the bcrypt hash of an API key secret for the server configuration",
		Description: "The secret is taken from --secret, generated with --generate, " +
			"or read as the first line of stdin.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "secret",
				Usage: "Secret to hash",
			},
			&cli.BoolFlag{
				Name:  "generate",
				Usage: "Generate a random secret and print it with its hash",
			},
			&cli.IntFlag{
				Name:  "cost",
				Usage: "bcrypt cost",
				Value: bcrypt.DefaultCost,
			},
		},
		Action: hashSecret,
	}
}

type hashedSecret struct {
	Secret     string `json:"secret,omitempty"`
	SecretHash string `json:"secret_hash"`
}

func hashSecret(c *cli.Context) error {
	var out hashedSecret
	plain := c.String("secret")

	switch {
	case c.Bool("generate"):
		if plain != "" {
			return fmt.Errorf("--secret and --generate are mutually exclusive")
		}
		generated, err := secret.Generate()
		if err != nil {
			return fmt.Errorf("generate secret: %w", err)
		}
		plain, out.Secret = generated, generated
	case plain == "":
		line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
		plain = strings.TrimRight(line, "\r\n")
		if plain == "" {
			if err != nil {
				return fmt.Errorf("read secret from stdin: %w", err)
			}
			return fmt.Errorf("secret is empty")
		}
	}

	hash, err := service.HashSecret(plain, c.Int("cost"))
	if err != nil {
		return err
	}
	out.SecretHash = hash

	return render(c, out, func() *output.Table {
		t := output.NewTable("FIELD", "VALUE")
		if out.Secret != "" {
			t.AddRow("secret", out.Secret)
		}
		t.AddRow("secret_hash", out.SecretHash)
		return t
	})
}

// KeygenCommand returns the keygen command.
func KeygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "Generate a hex encryption key for storage.badger.encryption_key",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "bytes",
				Usage: "Key size in bytes: 16, 24 or 32",
				Value: 32,
			},
		},
		Action: func(c *cli.Context) error {
			key, err := secret.GenerateHexKey(c.Int("bytes"))
			if err != nil {
				return err
			}
			return render(c, map[string]string{"encryption_key": key}, func() *output.Table {
				t := output.NewTable("ENCRYPTION_KEY")
				t.AddRow(key)
				return t
			})
		},
	}
}
