package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/gateway"
	"github.com/etnz/ledger/renderer"
	"github.com/etnz/ledger/session"
	"github.com/google/subcommands"
)

// adminCmd is a container for the read only administrator views.
type adminCmd struct{}

func (*adminCmd) Name() string     { return "admin" }
func (*adminCmd) Synopsis() string { return "browse every account, for administrators" }
func (*adminCmd) Usage() string {
	return `admin <subcommand> [args]

Commands:
  login - Sign in as an administrator.
  users - List the accounts.
  tx    - List the transactions of an account.
  tasks - List the tasks of an account.
`
}

func (c *adminCmd) SetFlags(f *flag.FlagSet) {}
func (c *adminCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return runContainer(ctx, f, c, args...)
}

func (*adminCmd) commands() []subcommands.Command {
	return []subcommands.Command{&adminLoginCmd{}, &adminUsersCmd{}, &adminTxCmd{}, &adminTasksCmd{}}
}

// adminClient returns a client and the stored credential.
func adminClient() (*gateway.Client, session.Credential, error) {
	cred, err := session.Current(sessions())
	if err != nil {
		return nil, cred, err
	}
	c, err := newClient()
	return c, cred, err
}

// adminFail is fail with a hint matching the admin sign in.
func adminFail(err error) subcommands.ExitStatus {
	if !errors.Is(err, ledger.ErrUnauthorized) && !errors.Is(err, session.ErrUnauthenticated) {
		return fail(err)
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	fmt.Fprintln(stderr, "Administrator access required, sign in with 'admin login'.")
	return subcommands.ExitFailure
}

type adminLoginCmd struct {
	email    string
	password string
}

func (*adminLoginCmd) Name() string     { return "login" }
func (*adminLoginCmd) Synopsis() string { return "sign in as an administrator" }
func (*adminLoginCmd) Usage() string {
	return `admin login -e <email> -p <password>

  Signs in with an administrator account. The credential replaces the one in
  the session file.
`
}

func (c *adminLoginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "e", "", "Email of the administrator")
	f.StringVar(&c.password, "p", "", "Password of the administrator")
}

func (c *adminLoginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" || c.password == "" {
		fmt.Fprintln(stderr, "Error: -e and -p flags are required.")
		return subcommands.ExitUsageError
	}
	client, err := newClient()
	if err != nil {
		return fail(err)
	}
	cred, err := client.AdminLogin(ctx, c.email, c.password)
	if errors.Is(err, ledger.ErrUnauthorized) {
		fmt.Fprintln(stderr, "Error: invalid administrator email or password.")
		return subcommands.ExitFailure
	}
	if err != nil {
		return fail(err)
	}
	if err := sessions().Save(cred); err != nil {
		return fail(fmt.Errorf("failed to save the session: %w", err))
	}
	fmt.Fprintf(stdout, "Signed in as %s (administrator).\n", cred.Username)
	return subcommands.ExitSuccess
}

type adminUsersCmd struct{}

func (*adminUsersCmd) Name() string     { return "users" }
func (*adminUsersCmd) Synopsis() string { return "list the accounts" }
func (*adminUsersCmd) Usage() string {
	return `admin users

  Lists the accounts with their id, name and email.
`
}

func (c *adminUsersCmd) SetFlags(f *flag.FlagSet) {}

func (c *adminUsersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, cred, err := adminClient()
	if err != nil {
		return adminFail(err)
	}
	users, err := client.Users(ctx, cred)
	if err != nil {
		return adminFail(err)
	}
	printMarkdown(renderer.Users(users))
	return subcommands.ExitSuccess
}

// adminTxCmd shares the flags and filter of txCmd.
type adminTxCmd struct {
	txCmd
}

func (*adminTxCmd) Name() string     { return "tx" }
func (*adminTxCmd) Synopsis() string { return "list the transactions of an account" }
func (*adminTxCmd) Usage() string {
	return `admin tx [-d <date>] [-k income|expense] [-n <count> | -all] <email>

  Lists the transactions of the account, newest first, with its balance.
`
}

func (c *adminTxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: expecting the email of an account.")
		return subcommands.ExitUsageError
	}
	email := f.Arg(0)
	flt, err := c.filter()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	client, cred, err := adminClient()
	if err != nil {
		return adminFail(err)
	}
	txs, err := client.UserTransactions(ctx, cred, email)
	if err != nil {
		return adminFail(err)
	}
	ledger.SortNewestFirst(txs)

	selected := ledger.Select(txs, flt)
	more := 0
	if !c.all {
		selected, more = ledger.Recent(selected, c.n)
	}
	printMarkdown(renderer.Transactions("Transactions of "+email, selected, more, ledger.Balance(txs), *currency))
	return subcommands.ExitSuccess
}

type adminTasksCmd struct{}

func (*adminTasksCmd) Name() string     { return "tasks" }
func (*adminTasksCmd) Synopsis() string { return "list the tasks of an account" }
func (*adminTasksCmd) Usage() string {
	return `admin tasks <email>

  Lists the tasks of the account.
`
}

func (c *adminTasksCmd) SetFlags(f *flag.FlagSet) {}

func (c *adminTasksCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: expecting the email of an account.")
		return subcommands.ExitUsageError
	}
	client, cred, err := adminClient()
	if err != nil {
		return adminFail(err)
	}
	tasks, err := client.UserTasks(ctx, cred, f.Arg(0))
	if err != nil {
		return adminFail(err)
	}
	printMarkdown(renderer.Tasks(tasks))
	return subcommands.ExitSuccess
}
