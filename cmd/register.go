package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/ledger"
	"github.com/google/subcommands"
)

type registerCmd struct {
	name     string
	email    string
	password string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "open an account on the remote ledger service" }
func (*registerCmd) Usage() string {
	return `register -n <name> -e <email> -p <password>

  Opens an account. The password needs at least 8 characters with a lower
  case letter, an upper case letter, a digit and one of @$!%*?&.
  Sign in with 'login' afterwards.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Display name of the account")
	f.StringVar(&c.email, "e", "", "Email of the account")
	f.StringVar(&c.password, "p", "", "Password of the account")
}

func (c *registerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, err := newClient()
	if err != nil {
		return fail(err)
	}
	err = client.Register(ctx, ledger.Registration{Name: c.name, Email: c.email, Password: c.password})
	if errors.Is(err, ledger.ErrConflict) {
		fmt.Fprintln(stderr, "Error: this email is already registered, sign in with 'login'.")
		return subcommands.ExitFailure
	}
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Registered %s, sign in with 'login'.\n", c.email)
	return subcommands.ExitSuccess
}
