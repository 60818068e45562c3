package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/service"
)

type demoProperty struct {
	address string
	lease   *domain.Lease
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func demoProperties() []demoProperty {
	return []demoProperty{
		{
			address: "1001 Dodge St #3B, Omaha, NE 68102",
			lease: &domain.Lease{
				StartDate:    date("2025-10-01"),
				EndDate:      date("2026-09-30"),
				DueDay:       1,
				RentCents:    135000,
				DepositCents: 135000,
				Tenant:       &domain.Tenant{FullName: "John Smith", Phone: "(402) 555-0188", Email: "john.smith@email.com"},
			},
		},
		{
			address: "2507 Farnam St #12, Omaha, NE 68131",
		},
		{
			address: "8612 Maple St #2A, Omaha, NE 68134",
			lease: &domain.Lease{
				StartDate:    date("2025-06-01"),
				EndDate:      date("2026-05-31"),
				DueDay:       5,
				RentCents:    98000,
				DepositCents: 98000,
				Tenant:       &domain.Tenant{FullName: "Emily Chen", Phone: "(402) 555-0123", Email: "emily.chen@email.com"},
			},
		},
	}
}

type seedCmd struct{}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "insert the demo properties" }
func (*seedCmd) Usage() string {
	return `rentctl seed

  Inserts three demo properties, two of them leased. Addresses that already
  exist are left untouched.
`
}

func (*seedCmd) SetFlags(*flag.FlagSet) {}

func (*seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	e, ctx, err := openEnv(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	created, err := seed(ctx, service.NewPropertyService(e.store.Properties, nil))
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stdout, "seeded %d of %d demo properties\n", created, len(demoProperties()))
	return subcommands.ExitSuccess
}

func seed(ctx context.Context, props *service.PropertyService) (int, error) {
	created := 0
	for _, d := range demoProperties() {
		_, err := props.CreateProperty(ctx, d.address, d.lease)
		if errors.Is(err, domain.ErrDuplicateAddress) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", d.address, err)
		}
		created++
	}
	return created, nil
}
