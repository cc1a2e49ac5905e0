package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mmlc",
	Short: "MinnieML compiler front end",
	Long: `mmlc is the command-line front end for the MinnieML (MML) compiler core.

MinnieML is a small, statically-typed language compiled through an
error-accumulating pipeline of named phases — parsing, standard library
injection, name/type resolution, expression rewriting, type checking, and
ownership analysis — down to a fully-typed, ownership-annotated module
ready for an external code generator.

This binary exposes that pipeline one phase-group at a time:
  lex    tokenize source and print the token stream
  parse  parse source and print the resulting module tree
  check  run the full pipeline and report diagnostics only
  build  run the full pipeline and dump the final module
  fmt    parse and pretty-print MML source
  repl   a line-oriented read-eval-print loop over the pipeline
  version print build information`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

// moduleNameFromPath derives a module name from a source file path the way
// every subcommand that accepts a file argument does: the base name with
// its extension stripped.
func moduleNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
