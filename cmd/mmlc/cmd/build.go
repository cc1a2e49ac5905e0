package cmd

import (
	"fmt"

	"github.com/mml-lang/mmlc/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	buildReport  string
	buildDumpAST bool
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Run the full pipeline and produce the final annotated module",
	Long: `Run every pipeline phase over an MML source file — parsing, standard
library injection, name/type resolution, expression rewriting, type
checking, and ownership analysis — and print the fully-typed,
ownership-annotated module that an external code generator would consume.

Diagnostics from every phase are reported even on success; build fails
(non-zero exit) if any phase reported an error, matching check's
propagation policy.

Examples:
  mmlc build program.mml
  mmlc build --dump-ast program.mml
  mmlc build --report yaml program.mml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildReport, "report", "", "machine-readable report format: yaml or json")
	buildCmd.Flags().BoolVar(&buildDumpAST, "dump-ast", false, "dump the full declaration/term tree of the final module")
}

func runBuild(cmd *cobra.Command, args []string) error {
	moduleName, input, err := readModuleSource(args)
	if err != nil {
		return err
	}

	res := pipeline.Compile(moduleName, input)
	for i, e := range res.Errors {
		res.Errors[i] = e.WithSource(moduleName, input)
	}

	if reportErr := reportDiagnostics(res.Errors, buildReport); reportErr != nil {
		return reportErr
	}

	if res.Module == nil {
		return fmt.Errorf("build failed: parsing produced no module")
	}

	if buildDumpAST {
		fmt.Printf("Module %q (%d members)\n", res.Module.Name, len(res.Module.Members))
		for _, decl := range res.Module.Members {
			dumpDecl(decl, 1)
		}
	} else {
		for _, decl := range res.Module.Members {
			fmt.Println(describeDecl(decl))
		}
	}

	if res.Errors.HasErrors() {
		return fmt.Errorf("build failed with %d diagnostic(s)", len(res.Errors))
	}
	return nil
}
