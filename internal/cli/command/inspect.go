package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tokclaim-go/internal/cli/connection"
	"github.com/yndnr/tokclaim-go/internal/cli/output"
)

// ClaimsCommand returns the claims subcommand group.
func ClaimsCommand() *cli.Command {
	return &cli.Command{
		Name:  "claims",
		Usage: "Claimed token commands",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List claimed tokens",
				Action: func(c *cli.Context) error {
					return listTokens(c, "/admin/v1/claims")
				},
			},
		},
	}
}

// TokenCommand returns the token subcommand group.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Token commands",
		Subcommands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "Show whether a token is allowed and whether it was claimed",
				ArgsUsage: "TOKEN",
				Action:    inspectToken,
			},
		},
	}
}

func inspectToken(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("inspect requires exactly one TOKEN argument")
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	var status tokenStatus
	path := "/admin/v1/tokens/" + connection.PathEscape(c.Args().First())
	if err := client.GetJSON(ctx, path, &status); err != nil {
		return err
	}

	return render(c, status, func() *output.Table {
		t := output.NewTable("TOKEN", "ALLOWED", "CLAIMED")
		t.AddRow(status.Token, strconv.FormatBool(status.Allowed), strconv.FormatBool(status.Claimed))
		return t
	})
}
