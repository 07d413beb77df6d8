package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	output string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "export the ledger as a markdown report" }
func (*reportCmd) Usage() string {
	return `report [-o <file>]

  Exports every transaction with the totals and the balance.
  The report is printed unless -o is given.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Write the report to that file")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := OpenTransactions(ctx)
	if err != nil {
		return fail(err)
	}
	cred, _ := sessions().Credential()
	md := renderer.Report(ledger.NewReport(store.Snapshot(), ledger.Today(), cred.Username), *currency)

	if c.output == "" {
		printMarkdown(md)
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(c.output, []byte(md), 0644); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Report written to %s.\n", c.output)
	return subcommands.ExitSuccess
}
