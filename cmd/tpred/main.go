// Command tpred checks filter documents and runs them against a SQLite
// document store of employees.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/tpredicate/internal/cli"
)

func main() {
	err := cli.NewRootCommand().ExecuteContext(context.Background())
	if err == nil {
		return
	}

	// ExitErrors have already been reported by the command's formatter.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
