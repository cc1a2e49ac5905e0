package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/mml-lang/mmlc/internal/errors"
	"github.com/mml-lang/mmlc/internal/pipeline"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop over the pipeline",
	Long: `Start a line-oriented REPL that runs the full compiler pipeline on a
synthesized one-function module per line.

Each line you type is wrapped as the body of a throwaway "fn main(): Unit"
binding, giving it the enclosing function body every phase (including the
Ownership Analyzer's scope-closing pass) expects, and run through every
phase exactly as "mmlc check" would. This gives quick feedback on parsing,
resolution, type-checking, and ownership diagnostics for prelude calls and
small expressions without writing a file.

Type :quit or press Ctrl-D to exit.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

var replBold = color.New(color.Bold).SprintFunc()
var replDim = color.New(color.Faint).SprintFunc()

func runRepl(cmd *cobra.Command, args []string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".mmlc_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("%s\n", replBold("mmlc repl"))
	fmt.Println(replDim("Type an MML expression, or :quit to exit."))

	n := 0
	for {
		input, err := line.Prompt("mml> ")
		if err == io.EOF {
			fmt.Println()
			break
		}
		if err != nil {
			return err
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" || trimmed == ":q" {
			break
		}
		line.AppendHistory(input)
		n++
		evalReplLine(n, trimmed)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
	return nil
}

// evalReplLine wraps input as a throwaway module and reports its
// diagnostics; it never aborts the REPL loop on an error, matching every
// pipeline phase's own non-aborting propagation policy.
func evalReplLine(n int, input string) {
	moduleName := fmt.Sprintf("<repl:%d>", n)
	source := fmt.Sprintf("fn main(): Unit =\n  %s\n;\n", input)

	res := pipeline.Compile(moduleName, source)
	for i, e := range res.Errors {
		res.Errors[i] = e.WithSource(moduleName, source)
	}

	if !res.Errors.HasErrors() {
		fmt.Println(replDim("ok"))
		return
	}
	for _, e := range res.Errors.ByPhase(errors.PhaseParsingErrorChecker) {
		fmt.Println(e.Format(true))
	}
	for _, e := range res.Errors {
		if e.Phase == errors.PhaseParsingErrorChecker {
			continue
		}
		fmt.Println(e.Format(true))
	}
}
