package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/josh-kwaku/rentbook/internal/money"
	"github.com/josh-kwaku/rentbook/internal/period"
	"github.com/josh-kwaku/rentbook/internal/service/rent"
)

type generateChargesCmd struct {
	period string
}

func (*generateChargesCmd) Name() string     { return "generate-charges" }
func (*generateChargesCmd) Synopsis() string { return "post rent charges for a period" }
func (*generateChargesCmd) Usage() string {
	return `rentctl generate-charges [-period YYYY-MM]

  Posts one rent charge per occupied property. Properties already charged
  for the period are skipped.
`
}

func (c *generateChargesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "billing period (defaults to the current UTC month)")
}

func (c *generateChargesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return runGeneration(ctx, c.period, (*rent.Service).GenerateCharges)
}

type generateLateFeesCmd struct {
	period string
}

func (*generateLateFeesCmd) Name() string     { return "generate-late-fees" }
func (*generateLateFeesCmd) Synopsis() string { return "assess late fees for a period" }
func (*generateLateFeesCmd) Usage() string {
	return `rentctl generate-late-fees [-period YYYY-MM]

  Assesses at most one late fee per property on rent still outstanding
  after the due date and grace period.
`
}

func (c *generateLateFeesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "billing period (defaults to the current UTC month)")
}

func (c *generateLateFeesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return runGeneration(ctx, c.period, (*rent.Service).GenerateLateFees)
}

type generator func(*rent.Service, context.Context, string) (*rent.GenerationResult, error)

func runGeneration(ctx context.Context, p string, generate generator) subcommands.ExitStatus {
	e, ctx, err := openEnv(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	if p == "" {
		p = period.FromDate(time.Now())
	}
	res, err := generate(e.rent(), ctx, p)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	printGeneration(os.Stdout, res)
	if len(res.Failed) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printGeneration(w io.Writer, res *rent.GenerationResult) {
	fmt.Fprintf(w, "period %s: %d created, %d skipped, %d failed\n",
		res.Period, res.CreatedCount(), len(res.Skipped), len(res.Failed))
	for _, e := range res.Created {
		fmt.Fprintf(w, "  + %s %s %s\n", e.PropertyID, e.Title(), money.Format(e.AmountCents))
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "  - %s %s\n", s.PropertyID, s.Reason)
	}
	for _, f := range res.Failed {
		fmt.Fprintf(w, "  ! %s %v\n", f.PropertyID, f.Err)
	}
}
