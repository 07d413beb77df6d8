package cmd

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"syscall"
)

// Environment variables holding the global flags defaults. They are also
// passed to extensions.
const (
	EnvGatewayURL  = "LEDGER_GATEWAY_URL"
	EnvCurrency    = "LEDGER_CURRENCY"
	EnvSessionFile = "LEDGER_SESSION_FILE"
	EnvRate        = "LEDGER_RATE"
	EnvVerbose     = "LEDGER_VERBOSE"
)

// ExtensionPrefix prefixes the name of external subcommand binaries.
const ExtensionPrefix = "ledger-"

// RunExtension attempts to find and execute an external ledger-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := ExtensionPrefix + subcommand

	// Look for the external command in PATH
	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Printf("External command %q not found in PATH: %v", externalCmdName, err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables
	cmd.Env = append(os.Environ(), extensionEnv()...)

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				return true, status.ExitStatus()
			}
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}

	return true, 0
}

// extensionEnv returns the global flags as environment variables.
func extensionEnv() []string {
	return []string{
		EnvGatewayURL + "=" + *gatewayURL,
		EnvCurrency + "=" + *currency,
		EnvSessionFile + "=" + *sessionFile,
		EnvRate + "=" + strconv.FormatFloat(*rateLimit, 'f', -1, 64),
		EnvVerbose + "=" + strconv.FormatBool(*Verbose),
	}
}
