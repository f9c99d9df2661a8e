package command

import (
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tokclaim-go/internal/cli/output"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "System commands",
		Subcommands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show system status summary",
				Action: systemStatus,
			},
			{
				Name:   "health",
				Usage:  "Check server health",
				Action: systemHealth,
			},
		},
	}
}

func systemStatus(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	var summary statusSummary
	if err := client.GetJSON(ctx, "/admin/v1/status/summary", &summary); err != nil {
		return err
	}

	return render(c, summary, func() *output.Table {
		t := output.NewTable("FIELD", "VALUE")
		t.AddRow("Version", summary.Build.Version)
		t.AddRow("Commit", summary.Build.Commit)
		t.AddRow("Backend", summary.Backend)
		t.AddRow("Allowed", strconv.Itoa(summary.Allowed))
		t.AddRow("Claimed", strconv.Itoa(summary.Claimed))
		t.AddRow("Uptime", (time.Duration(summary.UptimeSeconds) * time.Second).String())
		return t
	})
}

func systemHealth(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	var health healthResponse
	if err := client.GetJSON(ctx, "/health", &health); err != nil {
		return fmt.Errorf("server unhealthy: %w", err)
	}

	return render(c, health, func() *output.Table {
		t := output.NewTable("TARGET", "STATUS")
		t.AddRow(client.BaseURL(), health.Status)
		return t
	})
}
