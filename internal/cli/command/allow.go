package command

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tokclaim-go/internal/cli/output"
	"github.com/yndnr/tokclaim-go/internal/core/domain"
)

// AllowCommand returns the allow-list subcommand group.
func AllowCommand() *cli.Command {
	return &cli.Command{
		Name:    "allow",
		Aliases: []string{"allowlist"},
		Usage:   "Allow-list management commands",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add tokens to the allow-list",
				ArgsUsage: "TOKEN...",
				Action: func(c *cli.Context) error {
					return mutateAllowList(c, "/admin/v1/allowlist")
				},
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove tokens from the allow-list (claims are kept)",
				ArgsUsage: "TOKEN...",
				Action: func(c *cli.Context) error {
					return mutateAllowList(c, "/admin/v1/allowlist/remove")
				},
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List allowed tokens",
				Action: func(c *cli.Context) error {
					return listTokens(c, "/admin/v1/allowlist")
				},
			},
			{
				Name:      "import",
				Usage:     "Add every token of a file, one per line (- reads stdin)",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Validate the file without changing the allow-list",
					},
				},
				Action: importAllowList,
			},
		},
	}
}

func mutateAllowList(c *cli.Context, path string) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one TOKEN argument is required")
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	results := make([]mutationResponse, 0, c.NArg())
	for _, raw := range c.Args().Slice() {
		var res mutationResponse
		if err := client.PostJSON(ctx, path, map[string]string{"token": raw}, &res); err != nil {
			return fmt.Errorf("%s: %w", raw, err)
		}
		results = append(results, res)
	}

	return render(c, results, func() *output.Table {
		t := output.NewTable("TOKEN", "RESULT", "MESSAGE")
		for _, r := range results {
			t.AddRow(r.Token, r.Result, r.Message)
		}
		return t
	})
}

func listTokens(c *cli.Context, path string) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	var list tokenList
	if err := client.GetJSON(ctx, path, &list); err != nil {
		return err
	}

	return render(c, list, func() *output.Table {
		t := output.NewTable("TOKEN")
		for _, tok := range list.Tokens {
			t.AddRow(tok)
		}
		return t
	})
}

// importSummary reports the outcome of a bulk import.
type importSummary struct {
	File           string   `json:"file"`
	DryRun         bool     `json:"dry_run"`
	Tokens         int      `json:"tokens"`
	Added          int      `json:"added"`
	AlreadyPresent int      `json:"already_present"`
	Invalid        int      `json:"invalid"`
	InvalidValues  []string `json:"invalid_values,omitempty"`
}

func importAllowList(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("import requires exactly one FILE argument")
	}
	file := c.Args().First()

	lines, err := readLines(c, file)
	if err != nil {
		return err
	}
	tokens, invalid := domain.NormalizeAll(lines)

	summary := importSummary{
		File:          file,
		DryRun:        c.Bool("dry-run"),
		Tokens:        len(tokens),
		Invalid:       len(invalid),
		InvalidValues: invalid,
	}

	if !summary.DryRun && len(tokens) > 0 {
		err = addAll(c, tokens, &summary)
	}

	if rerr := render(c, summary, func() *output.Table {
		t := output.NewTable("FILE", "TOKENS", "ADDED", "ALREADY_PRESENT", "INVALID")
		t.AddRow(summary.File, strconv.Itoa(summary.Tokens), strconv.Itoa(summary.Added),
			strconv.Itoa(summary.AlreadyPresent), strconv.Itoa(summary.Invalid))
		return t
	}); rerr != nil {
		return rerr
	}
	return err
}

// addAll adds tokens one by one, stopping at the first failure.
func addAll(c *cli.Context, tokens []domain.Token, summary *importSummary) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	var bar *output.ProgressBar
	if ParseGlobalFlags(c).Output == output.FormatTable && len(tokens) > 1 {
		bar = output.NewProgressBar(c.App.ErrWriter, "Importing", len(tokens))
	}

	for _, tok := range tokens {
		var res mutationResponse
		if err := client.PostJSON(ctx, "/admin/v1/allowlist", map[string]string{"token": tok.String()}, &res); err != nil {
			if bar != nil {
				fmt.Fprintln(c.App.ErrWriter)
			}
			return fmt.Errorf("import stopped at %s: %w", tok, err)
		}
		switch res.Result {
		case "added":
			summary.Added++
		case "already_present":
			summary.AlreadyPresent++
		}
		if bar != nil {
			bar.Increment(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}
	return nil
}

// readLines returns the non-comment lines of path, or of stdin for "-".
func readLines(c *cli.Context, path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = c.App.Reader
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
