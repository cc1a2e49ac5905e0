package semantic

import (
	"fmt"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
)

// CheckDuplicateNames groups top-level declarations by (kind, name) and
// wraps every member after the first in each group in a DuplicateMember
// (§4.4); it also wraps any Bnd whose Lambda parameter list repeats a
// parameter name in an InvalidMember, a structural problem distinct from a
// name collision across declarations.
func CheckDuplicateNames(mod *ast.Module) (*ast.Module, errors.List) {
	var errs errors.List
	seen := map[string]ast.Decl{}
	out := make([]ast.Decl, 0, len(mod.Members))

	for _, decl := range mod.Members {
		kind, name, ok := declKindAndName(decl)
		if !ok {
			out = append(out, decl)
			continue
		}
		key := fmt.Sprintf("%s::%s", kind, name)
		if first, dup := seen[key]; dup {
			errs = append(errs, errors.New(errors.PhaseDuplicateNameChecker, errors.KindDuplicateName, decl.Span(),
				"%s %q is already declared", kind, name))
			out = append(out, &ast.DuplicateMember{First: first, Original: decl})
			continue
		}
		seen[key] = decl

		if bnd, isBnd := decl.(*ast.Bnd); isBnd {
			if reason, bad := duplicateParamName(bnd); bad {
				errs = append(errs, errors.New(errors.PhaseDuplicateNameChecker, errors.KindDuplicateName, decl.Span(), "%s", reason))
				out = append(out, &ast.InvalidMember{Original: decl, Reason: reason})
				continue
			}
		}
		out = append(out, decl)
	}

	next := mod.Clone()
	next.Members = out
	return next, errs
}

func duplicateParamName(bnd *ast.Bnd) (string, bool) {
	lam, ok := bnd.Body.(*ast.Lambda)
	if !ok {
		return "", false
	}
	names := map[string]bool{}
	for _, p := range lam.Params {
		if names[p.Name] {
			return fmt.Sprintf("parameter %q is repeated in %q", p.Name, bnd.Name), true
		}
		names[p.Name] = true
	}
	return "", false
}
