// Command owlsym extracts a JSON symbol table from an OWL/RDF ontology.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/owlsym/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		// Command failures were already rendered; cobra's own errors
		// (unknown flags, bad flag values) were not.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "owlsym:", err)
		}
		stop()
		os.Exit(cli.ExitStatus(err))
	}
}
