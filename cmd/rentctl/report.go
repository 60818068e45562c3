package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/josh-kwaku/rentbook/internal/money"
	"github.com/josh-kwaku/rentbook/internal/service/rent"
)

type reportCmd struct {
	period string
	raw    bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print the rent collection table for a period" }
func (*reportCmd) Usage() string {
	return `rentctl report [-period YYYY-MM] [-raw]

  Prints due, paid and outstanding rent per occupied property.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "billing period (defaults to the current UTC month)")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e, ctx, err := openEnv(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	col, err := e.rent().Collection(ctx, c.period)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	md := collectionMarkdown(col)
	if c.raw {
		fmt.Fprint(os.Stdout, md)
		return subcommands.ExitSuccess
	}
	if err := printMarkdown(md); err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printMarkdown(md string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("printMarkdown: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("printMarkdown: %w", err)
	}
	fmt.Fprint(os.Stdout, out)
	return nil
}

func collectionMarkdown(c *rent.Collection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Rent collection %s\n\n", c.Period)

	if len(c.Rows) == 0 {
		b.WriteString("No occupied properties.\n")
	} else {
		b.WriteString("| Property | Tenant | Due | Paid | Outstanding |\n")
		b.WriteString("|---|---|--:|--:|--:|\n")
		for _, row := range c.Rows {
			tenant := ""
			if l := row.Property.CurrentLease; l != nil && l.Tenant != nil {
				tenant = l.Tenant.FullName
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				cell(row.Property.Address), cell(tenant),
				money.Format(row.DueCents), money.Format(row.PaidCents), money.Format(row.OutstandingCents))
		}
		fmt.Fprintf(&b, "| **Total** | | **%s** | **%s** | **%s** |\n",
			money.Format(c.Totals.DueCents), money.Format(c.Totals.PaidCents), money.Format(c.Totals.OutstandingCents))
	}

	if len(c.Vacant) > 0 {
		b.WriteString("\n## Vacant\n\n")
		for _, p := range c.Vacant {
			fmt.Fprintf(&b, "- %s\n", p.Address)
		}
	}
	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
