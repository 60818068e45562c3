package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/josh-kwaku/rentbook/internal/service"
)

type createOperatorCmd struct {
	email    string
	name     string
	password string
}

func (*createOperatorCmd) Name() string     { return "create-operator" }
func (*createOperatorCmd) Synopsis() string { return "create an operator account for API login" }
func (*createOperatorCmd) Usage() string {
	return `rentctl create-operator -email <email> -name <name> -password <password>

  Creates an operator who can sign in through POST /api/v1/auth/login.
`
}

func (c *createOperatorCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "operator email (stored lowercased)")
	f.StringVar(&c.name, "name", "", "display name")
	f.StringVar(&c.password, "password", "", "password, at least 8 characters")
}

func (c *createOperatorCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.email == "" || c.password == "" {
		fail("-email and -password are required")
		return subcommands.ExitUsageError
	}

	e, ctx, err := openEnv(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	name := c.name
	if name == "" {
		name = c.email
	}
	op, err := service.NewOperatorService(e.store.Operators, nil).CreateOperator(ctx, c.email, name, c.password)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stdout, "created operator %s (%s)\n", op.Email, op.ID)
	return subcommands.ExitSuccess
}
