package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/renderer"
	"github.com/google/subcommands"
)

// addCmd records an income or an expense.
type addCmd struct {
	kind   ledger.Kind
	amount string
	date   string
	memo   string
}

func newAddCmd(kind ledger.Kind) *addCmd { return &addCmd{kind: kind} }

func (c *addCmd) Name() string { return strings.ToLower(string(c.kind)) }
func (c *addCmd) Synopsis() string {
	if c.kind == ledger.Income {
		return "record money received"
	}
	return "record money spent"
}
func (c *addCmd) Usage() string {
	return fmt.Sprintf(`%s -a <amount> -m <description> [-d <date>]

  Records a new %s. The date defaults to today.
`, c.Name(), c.Name())
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount, a positive number")
	f.StringVar(&c.date, "d", "", "Transaction date. Defaults to today")
	f.StringVar(&c.memo, "m", "", "Description of the transaction")
}

func (c *addCmd) draft() (ledger.Draft, error) {
	d := ledger.Draft{Kind: c.kind, Description: c.memo}
	if c.amount != "" {
		a, err := ledger.ParseAmount(c.amount)
		if err != nil {
			return d, err
		}
		d.Amount = a
	}
	if c.date != "" {
		day, err := ledger.ParseDate(c.date)
		if err != nil {
			return d, fmt.Errorf("parsing date: %w", err)
		}
		d.Date = day
	}
	return d.Validate()
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	d, err := c.draft()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	store, err := OpenTransactions(ctx)
	if err != nil {
		return fail(err)
	}
	tx, err := store.Add(ctx, d)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(stdout, renderer.Transaction(tx, *currency))
	fmt.Fprintf(stdout, "Balance: %s\n", store.Balance().Format(*currency))
	return subcommands.ExitSuccess
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete transactions" }
func (*rmCmd) Usage() string {
	return `rm <id>...

  Deletes transactions by id. Ids are listed by the tx command.
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ids, err := parseIDs(f.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	store, err := OpenTransactions(ctx)
	if err != nil {
		return fail(err)
	}
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			return fail(err)
		}
		fmt.Fprintf(stdout, "Deleted #%d.\n", id)
	}
	fmt.Fprintf(stdout, "Balance: %s\n", store.Balance().Format(*currency))
	return subcommands.ExitSuccess
}

type balanceCmd struct{}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show the balance" }
func (*balanceCmd) Usage() string {
	return `balance

  Shows total income, total expense and the balance.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := OpenTransactions(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Balance(store.Transactions(), *currency))
	return subcommands.ExitSuccess
}
