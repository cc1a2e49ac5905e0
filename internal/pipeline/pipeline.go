// Package pipeline wires the parser, Standard Library Injection, every
// named semantic phase, and the Ownership Analyzer into the single ordered
// run described in §2: each stage takes the previous stage's module and
// returns the module for the next stage (most stages update it in place)
// plus its own errors, and no stage aborts the run — a
// later stage still walks whatever the AST looks like after an earlier
// stage reported problems, so a single `mmlc check` invocation surfaces as
// many diagnostics as it can in one pass.
package pipeline

import (
	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
	"github.com/mml-lang/mmlc/internal/ownership"
	"github.com/mml-lang/mmlc/internal/parser"
	"github.com/mml-lang/mmlc/internal/semantic"
	"github.com/mml-lang/mmlc/internal/stdlib"
)

// Result is everything a caller (the CLI, a test) needs after a full run:
// the final module (however complete) and every diagnostic accumulated
// across every phase.
type Result struct {
	Module *ast.Module
	Errors errors.List
}

type stage func(*ast.Module) (*ast.Module, errors.List)

// Compile runs the full pipeline over a single source file.
func Compile(moduleName, source string) Result {
	var all errors.List

	mod, err := parser.Parse(moduleName, source)
	if err != nil {
		all = append(all, errors.New(errors.PhaseParser, errors.KindSyntax, ast.Synthetic(), "%s", err.Error()).WithSource(moduleName, source))
		return Result{Module: mod, Errors: all}
	}

	stdlib.Inject(mod)

	stages := []struct {
		phase errors.Phase
		run   stage
	}{
		{errors.PhaseParsingErrorChecker, semantic.CheckParsingErrors},
		{errors.PhaseDuplicateNameChecker, semantic.CheckDuplicateNames},
		{errors.PhaseIDAssigner, semantic.AssignIDs},
		{errors.PhaseTypeResolver, semantic.ResolveTypes},
		{errors.PhaseReferenceResolver, semantic.ResolveReferences},
		{errors.PhaseExpressionRewriter, semantic.RewriteExpressions},
		{errors.PhaseSimplifier, semantic.Simplify},
		{errors.PhaseTypeChecker, semantic.CheckTypes},
		{errors.PhaseMemoryFunctionGen, semantic.GenerateMemoryFunctions},
		{errors.PhaseResolvablesReindexer, semantic.ReindexResolvables},
		{errors.PhaseTailRecursionDetect, semantic.DetectTailRecursion},
		{errors.PhaseOwnershipAnalyzer, ownership.Analyze},
	}

	for _, st := range stages {
		var phaseErrs errors.List
		mod, phaseErrs = st.run(mod)
		for _, e := range phaseErrs {
			all = append(all, e.WithSource(moduleName, source))
		}
	}

	return Result{Module: mod, Errors: all}
}
