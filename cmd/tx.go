package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	date string
	kind string
	n    int
	all  bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions" }
func (*txCmd) Usage() string {
	return `tx [-d <date>] [-k income|expense] [-n <count> | -all]

  Lists transactions, newest first, with options for filtering and limiting the output.
  Without -all only the most recent ones are shown.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Show only transactions of that day")
	f.StringVar(&p.kind, "k", "", "Show only transactions of that kind (income, expense)")
	f.IntVar(&p.n, "n", ledger.DefaultRecent, "Show only the N most recent transactions")
	f.BoolVar(&p.all, "all", false, "Show all transactions")
}

func (p *txCmd) filter() (ledger.Filter, error) {
	var flt ledger.Filter
	if p.date != "" {
		day, err := ledger.ParseDate(p.date)
		if err != nil {
			return flt, fmt.Errorf("parsing date: %w", err)
		}
		flt.Date = day
	}
	if p.kind != "" {
		kind, err := ledger.ParseKind(p.kind)
		if err != nil {
			return flt, err
		}
		flt.Kind = kind
	}
	return flt, nil
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	flt, err := p.filter()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	store, err := OpenTransactions(ctx)
	if err != nil {
		return fail(err)
	}

	title := "Recent transactions"
	txs := store.Select(flt)
	if flt != (ledger.Filter{}) || p.all {
		title = "Transactions"
	}
	more := 0
	if !p.all {
		txs, more = ledger.Recent(txs, p.n)
	}

	printMarkdown(renderer.Transactions(title, txs, more, store.Balance(), *currency))
	return subcommands.ExitSuccess
}
