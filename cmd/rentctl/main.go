// Command rentctl runs ledger operations against the configured store
// from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&migrateCmd{}, "setup")
	commander.Register(&seedCmd{}, "setup")
	commander.Register(&createOperatorCmd{}, "setup")
	commander.Register(&generateChargesCmd{}, "ledger")
	commander.Register(&generateLateFeesCmd{}, "ledger")
	commander.Register(&reportCmd{}, "ledger")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
