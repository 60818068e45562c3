package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/josh-kwaku/rentbook/internal/config"
	"github.com/josh-kwaku/rentbook/internal/repository"
)

type migrateCmd struct {
	dir string
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending SQL migrations to the Postgres store" }
func (*migrateCmd) Usage() string {
	return `rentctl migrate [-dir <path>]

  Applies every migrations/*.up.sql file not yet recorded in schema_migrations.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "migrations directory (defaults to the nearest ./migrations)")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	if cfg.StoreDriver != config.StoreDriverPostgres {
		fail("migrate needs STORE_DRIVER=%s", config.StoreDriverPostgres)
		return subcommands.ExitUsageError
	}

	dir := c.dir
	if dir == "" {
		dir = repository.FindMigrationsDir()
	}

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	applied, err := repository.Migrate(ctx, db, dir)
	for _, name := range applied {
		fmt.Fprintf(os.Stdout, "applied %s\n", name)
	}
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	if len(applied) == 0 {
		fmt.Fprintln(os.Stdout, "schema is up to date")
	}
	return subcommands.ExitSuccess
}
