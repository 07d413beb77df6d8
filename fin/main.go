// Command fin manages a personal ledger kept by a remote service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/ledger/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	cmd.Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	if err := cmd.Setup(flag.CommandLine); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}

	// Unknown subcommands are delegated to ledger-<subcommand> extensions.
	if sub := flag.Arg(0); sub != "" && !registered(commander, sub) {
		if found, code := cmd.RunExtension(sub, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		found = found || sc.Name() == name
	})
	return found
}
