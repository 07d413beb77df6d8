// Package cmd implements the CLI application to manage a personal ledger
// kept by a remote service.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/ledger"
	"github.com/etnz/ledger/gateway"
	"github.com/etnz/ledger/session"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range groups() {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

type group struct {
	name     string
	commands []subcommands.Command
}

func groups() []group {
	return []group{
		{"session", []subcommands.Command{&registerCmd{}, &loginCmd{}, &logoutCmd{}, &whoamiCmd{}}},
		{"transactions", []subcommands.Command{&txCmd{}, newAddCmd(ledger.Income), newAddCmd(ledger.Expense), &rmCmd{}, &balanceCmd{}, &reportCmd{}}},
		{"tasks", []subcommands.Command{&taskCmd{}}},
		{"admin", []subcommands.Command{&adminCmd{}}},
		{"help", []subcommands.Command{&topicCmd{}}},
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var gatewayURL = flag.String("gateway", gateway.DefaultURL, "Base URL of the remote ledger service")
var currency = flag.String("currency", "USD", "Currency used to display amounts")
var sessionFile = flag.String("session-file", session.DefaultPath(), "Path to the file holding the session credential")
var rateLimit = flag.Float64("rate", 0, "Maximum number of requests per second sent to the remote service, 0 means unlimited")

// Verbose enables logging.
var Verbose = flag.Bool("v", false, "Log every request sent to the remote service")

// envFlags maps global flags to the environment variable providing their default.
var envFlags = map[string]string{
	"gateway":      EnvGatewayURL,
	"currency":     EnvCurrency,
	"session-file": EnvSessionFile,
	"rate":         EnvRate,
	"v":            EnvVerbose,
}

// fromEnv holds the flags Setup set from the environment. flag.FlagSet.Visit
// cannot tell them apart from the ones given on the command line.
var fromEnv = make(map[*flag.Flag]bool)

// Setup completes the configuration once flags has been parsed: global flags not
// set on the command line take their value from the environment, after
// loading an optional .env file. Logging is discarded unless verbose.
func Setup(flags *flag.FlagSet) error {
	if err := loadDotEnv(".env"); err != nil {
		return err
	}
	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = !fromEnv[f] })
	for name, env := range envFlags {
		v, ok := os.LookupEnv(env)
		f := flags.Lookup(name)
		if set[name] || !ok || f == nil {
			continue
		}
		if err := flags.Set(name, v); err != nil {
			return fmt.Errorf("invalid %s=%q: %w", env, v, err)
		}
		fromEnv[f] = true
	}
	if !*Verbose {
		log.SetOutput(io.Discard)
	}
	return nil
}

// loadDotEnv loads a .env file. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot load %s: %w", path, err)
	}
	return nil
}

// stdout and stderr are where commands print.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// printMarkdown prints md, rendered for the terminal when stdout is one.
func printMarkdown(md string) {
	if !isTerminal(stdout) {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		log.Printf("cannot create markdown renderer: %v", err)
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		log.Printf("cannot render markdown: %v", err)
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// sessions returns the session storage of the app.
func sessions() session.File { return session.File{Path: *sessionFile} }

// newClient returns a client for the configured remote service.
func newClient() (*gateway.Client, error) {
	return gateway.New(*gatewayURL, gateway.WithRateLimit(*rateLimit, 1))
}

// OpenTransactions returns a loaded transaction store for the signed in user.
func OpenTransactions(ctx context.Context) (*ledger.TransactionStore, error) {
	if err := session.RequireAuthenticated(sessions()); err != nil {
		return nil, err
	}
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	s := ledger.NewTransactionStore(c, sessions())
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenTasks returns a loaded task store for the signed in user.
func OpenTasks(ctx context.Context) (*ledger.TaskStore, error) {
	if err := session.RequireAuthenticated(sessions()); err != nil {
		return nil, err
	}
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	s := ledger.NewTaskStore(c, sessions())
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// fail reports err to the user and returns the matching exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		return subcommands.ExitUsageError
	case errors.Is(err, session.ErrUnauthenticated):
		fmt.Fprintln(stderr, "Sign in with 'login' first.")
	case errors.Is(err, ledger.ErrUnauthorized):
		fmt.Fprintln(stderr, "The session expired, sign in again with 'login'.")
	}
	return subcommands.ExitFailure
}

// container is a command running subcommands of its own.
type container interface {
	subcommands.Command
	commands() []subcommands.Command
}

// runContainer executes the subcommand of c named by the first argument of f.
func runContainer(ctx context.Context, f *flag.FlagSet, c container, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, c.Name())
	for _, sub := range c.commands() {
		commander.Register(sub, "")
	}
	return commander.Execute(ctx, args...)
}

// parseIDs parses transaction or task ids from command arguments.
func parseIDs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, errors.New("at least one id is required")
	}
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
