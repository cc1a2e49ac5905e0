// Command mmlc is the command-line front end for the MinnieML compiler
// pipeline (internal/pipeline): lex, parse, check, build, fmt, and repl
// subcommands over MML source, each a thin caller into the pipeline (§1
// "External interfaces… explicitly out of scope: … CLI").
package main

import (
	"fmt"
	"os"

	"github.com/mml-lang/mmlc/cmd/mmlc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
