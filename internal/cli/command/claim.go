package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tokclaim-go/internal/cli/output"
)

// ClaimCommand returns the claim command.
func ClaimCommand() *cli.Command {
	return &cli.Command{
		Name:      "claim",
		Usage:     "Claim a token (single use)",
		ArgsUsage: "TOKEN",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "requester",
				Aliases: []string{"r"},
				Usage:   "Requester identity recorded in the audit trail (default: the API key)",
			},
		},
		Action: claimToken,
	}
}

func claimToken(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("claim requires exactly one TOKEN argument")
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	var result claimResponse
	body := map[string]string{
		"token":     c.Args().First(),
		"requester": c.String("requester"),
	}
	if err := client.PostJSON(ctx, "/v1/claims", body, &result); err != nil {
		return err
	}

	return render(c, result, func() *output.Table {
		t := output.NewTable("TOKEN", "RESULT", "MESSAGE")
		t.AddRow(result.Token, result.Result, result.Message)
		return t
	})
}
