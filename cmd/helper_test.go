package cmd

import (
	"bytes"
	"context"
	"flag"
	"strconv"
	"testing"

	"github.com/etnz/ledger/gateway/gatewaytest"
	"github.com/google/subcommands"
)

// setGlobals sets the global flags and returns a function restoring them.
func setGlobals(t *testing.T, url, cur, session string) func() {
	t.Helper()
	oldURL, oldCur, oldSession, oldRate, oldVerbose := *gatewayURL, *currency, *sessionFile, *rateLimit, *Verbose
	*gatewayURL, *currency, *sessionFile = url, cur, session
	return func() {
		*gatewayURL, *currency, *sessionFile, *rateLimit, *Verbose = oldURL, oldCur, oldSession, oldRate, oldVerbose
	}
}

const (
	testEmail    = "ada@example.com"
	testPassword = "secret"
)

// newTestServer starts a fake remote service with one user and points the app to it.
func newTestServer(t *testing.T) *gatewaytest.Server {
	t.Helper()
	srv := gatewaytest.NewServer(t)
	srv.AddUser(testEmail, testPassword, "ada")
	t.Cleanup(setGlobals(t, srv.URL, "USD", t.TempDir()+"/session"))
	return srv
}

// run parses args for c and executes it, returning its status and what it printed.
func run(t *testing.T, c subcommands.Command, args ...string) (subcommands.ExitStatus, string, string) {
	t.Helper()
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("%s: cannot parse %v: %v", c.Name(), args, err)
	}
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	defer func() { stdout, stderr = oldOut, oldErr }()
	status := c.Execute(context.Background(), fs)
	return status, out.String(), errOut.String()
}

// mustRun is like run but fails the test unless the command succeeds.
func mustRun(t *testing.T, c subcommands.Command, args ...string) string {
	t.Helper()
	status, out, errOut := run(t, c, args...)
	if status != subcommands.ExitSuccess {
		t.Fatalf("%s %v: status %v, stderr:\n%s", c.Name(), args, status, errOut)
	}
	return out
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
