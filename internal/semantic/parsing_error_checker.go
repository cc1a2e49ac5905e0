// Package semantic implements the eleven named phases between parsing and
// ownership analysis (§2, §4.3-§4.13). Each phase is a plain function from
// a module to a module plus accumulated errors — most phases update the
// module they are given in place and return it — and no phase aborts the
// run on its own errors; the pipeline feeds
// every phase's output to the next regardless.
package semantic

import (
	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
)

// CheckParsingErrors walks every member looking for the error nodes the
// parser already produced (ParsingMemberError, ParsingIdError, TermError)
// and turns each into a reported diagnostic (§4.3). It does not change the
// tree — the nodes stay in place so later phases keep walking a complete
// AST instead of one with holes.
func CheckParsingErrors(mod *ast.Module) (*ast.Module, errors.List) {
	var errs errors.List
	for _, decl := range mod.Members {
		if pme, ok := decl.(*ast.ParsingMemberError); ok {
			errs = append(errs, errors.New(errors.PhaseParsingErrorChecker, errors.KindSyntax, pme.Span(), "%s", pme.Message))
		}
	}
	ast.WalkModule(mod, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.ParsingIdError:
			errs = append(errs, errors.New(errors.PhaseParsingErrorChecker, errors.KindSyntax, v.Span(), "%s", v.Message))
		case *ast.TermError:
			errs = append(errs, errors.New(errors.PhaseParsingErrorChecker, errors.KindSyntax, v.Span(), "%s", v.Message))
		}
		return true
	})
	return mod, errs
}
