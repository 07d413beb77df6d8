package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/session"
	"github.com/google/subcommands"
)

type loginCmd struct {
	email    string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in to the remote ledger service" }
func (*loginCmd) Usage() string {
	return `login -e <email> -p <password>

  Signs in to the remote service and stores the session credential in the
  session file, for use by every other command.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "e", "", "Email of the account")
	f.StringVar(&c.password, "p", "", "Password of the account")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" || c.password == "" {
		fmt.Fprintln(stderr, "Error: -e and -p flags are required.")
		return subcommands.ExitUsageError
	}
	client, err := newClient()
	if err != nil {
		return fail(err)
	}
	cred, err := client.Login(ctx, c.email, c.password)
	if errors.Is(err, ledger.ErrUnauthorized) {
		fmt.Fprintln(stderr, "Error: invalid email or password.")
		return subcommands.ExitFailure
	}
	if err != nil {
		return fail(err)
	}
	if err := sessions().Save(cred); err != nil {
		return fail(fmt.Errorf("failed to save the session: %w", err))
	}
	fmt.Fprintf(stdout, "Signed in as %s.\n", cred.Username)
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "forget the session credential" }
func (*logoutCmd) Usage() string {
	return `logout

  Removes the session file.
`
}

func (c *logoutCmd) SetFlags(f *flag.FlagSet) {}

func (c *logoutCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := sessions().Clear(); err != nil {
		return fail(err)
	}
	fmt.Fprintln(stdout, "Signed out.")
	return subcommands.ExitSuccess
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the signed in user" }
func (*whoamiCmd) Usage() string {
	return `whoami

  Prints the display name of the signed in user and when the session expires.
  The expiry is read from the token, the remote service is not called.
`
}

func (c *whoamiCmd) SetFlags(f *flag.FlagSet) {}

func (c *whoamiCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cred, err := session.Current(sessions())
	if errors.Is(err, session.ErrUnauthenticated) {
		fmt.Fprintln(stdout, "Not signed in.")
		return subcommands.ExitFailure
	}
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(stdout, cred.Username)
	exp, ok := cred.Expiry()
	switch {
	case !ok:
	case exp.Before(time.Now()):
		fmt.Fprintf(stdout, "Session expired on %s.\n", exp.Format(time.DateTime))
	default:
		fmt.Fprintf(stdout, "Session expires on %s.\n", exp.Format(time.DateTime))
	}
	return subcommands.ExitSuccess
}
