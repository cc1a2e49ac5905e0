package semantic

import (
	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
)

// DetectTailRecursion marks every Lambda whose body calls its own Bnd in
// tail position (§4.13), so the code generator can later lower it to a
// loop instead of a recursive call. A call is in tail position if it is the
// Lambda's whole body, or the Then/Else arm of a Cond that is itself in
// tail position — never an App's Arg, which is always evaluated before the
// call it belongs to.
func DetectTailRecursion(mod *ast.Module) (*ast.Module, errors.List) {
	for _, decl := range mod.Members {
		bnd, ok := decl.(*ast.Bnd)
		if !ok {
			continue
		}
		lam, isLam := bnd.Body.(*ast.Lambda)
		if !isLam {
			continue
		}
		lam.TailRecursive = hasTailSelfCall(lam.Body, bnd.StableID())
	}
	return mod, nil
}

func hasTailSelfCall(t ast.Term, selfID ast.ID) bool {
	switch v := t.(type) {
	case *ast.Cond:
		found := false
		for _, cs := range v.Cases {
			if hasTailSelfCall(cs.Then, selfID) {
				found = true
			}
		}
		if hasTailSelfCall(v.Else, selfID) {
			found = true
		}
		return found
	case *ast.App:
		head, ok := callHead(v)
		return ok && head == selfID
	default:
		return false
	}
}

// callHead walks an App's Fn chain down to its leftmost callee, returning
// the ID it names if that callee is a plain Ref.
func callHead(app *ast.App) (ast.ID, bool) {
	switch fn := app.Fn.(type) {
	case *ast.Ref:
		return fn.ResolvedID, true
	case *ast.App:
		return callHead(fn)
	default:
		return "", false
	}
}
