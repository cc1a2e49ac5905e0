package cmd

import (
	"fmt"
	"os"

	"github.com/mml-lang/mmlc/internal/errors"
	"github.com/mml-lang/mmlc/internal/pipeline"
	"github.com/spf13/cobra"
)

var checkReport string

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Run the compiler pipeline and report diagnostics",
	Long: `Run every pipeline phase over an MML source file and print the
accumulated diagnostics, without dumping the resulting module.

Every phase accumulates its own errors rather than aborting the run, so a
single invocation surfaces as many diagnostics as the pipeline found in
one pass.

Examples:
  mmlc check program.mml
  mmlc check --report yaml program.mml
  mmlc check --report json program.mml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkReport, "report", "", "machine-readable report format: yaml or json")
}

func runCheck(cmd *cobra.Command, args []string) error {
	moduleName, input, err := readModuleSource(args)
	if err != nil {
		return err
	}

	res := pipeline.Compile(moduleName, input)
	for i, e := range res.Errors {
		res.Errors[i] = e.WithSource(moduleName, input)
	}

	if err := reportDiagnostics(res.Errors, checkReport); err != nil {
		return err
	}

	if res.Errors.HasErrors() {
		return fmt.Errorf("check failed with %d diagnostic(s)", len(res.Errors))
	}

	fmt.Printf("%s: no diagnostics\n", moduleName)
	return nil
}

// reportDiagnostics prints an error list in the requested report format,
// defaulting to the colorized terminal rendering.
func reportDiagnostics(errs errors.List, format string) error {
	switch format {
	case "":
		errors.Report(errs)
		return nil
	case "yaml":
		doc, err := errors.FormatYAML(errs)
		if err != nil {
			return fmt.Errorf("failed to render yaml report: %w", err)
		}
		fmt.Print(doc)
		return nil
	case "json":
		doc, err := errors.FormatJSON(errs)
		if err != nil {
			return fmt.Errorf("failed to render json report: %w", err)
		}
		fmt.Println(doc)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "unknown report format %q (use yaml or json)\n", format)
		return fmt.Errorf("unknown report format %q", format)
	}
}
