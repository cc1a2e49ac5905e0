package semantic

import (
	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
)

// ResolveReferences matches every Ref's written name against the bindings
// visible at that point — enclosing lambda parameters first, then
// module-level bindings looked up by their written name (a function's own
// Name, or an operator's OriginalName symbol, since several operator
// arities share one symbol) — and records either a single ResolvedID or,
// when an operator symbol has more than one declared arity, the full set of
// CandidateIDs for the Expression Rewriter to disambiguate by call shape
// (§4.7, §4.8).
func ResolveReferences(mod *ast.Module) (*ast.Module, errors.List) {
	var errs errors.List
	byLookupName := map[string][]*ast.Bnd{}
	for _, decl := range mod.Members {
		bnd, ok := decl.(*ast.Bnd)
		if !ok {
			continue
		}
		key := bnd.Name
		if bnd.Meta != nil && bnd.Meta.IsOperator() {
			key = bnd.Meta.OriginalName
		}
		byLookupName[key] = append(byLookupName[key], bnd)
	}

	for _, decl := range mod.Members {
		bnd, ok := decl.(*ast.Bnd)
		if !ok {
			continue
		}
		lam, isLam := bnd.Body.(*ast.Lambda)
		if !isLam {
			resolveTermRefs(bnd.Body, nil, byLookupName, &errs)
			continue
		}
		resolveLambdaRefs(lam, nil, byLookupName, &errs)
	}

	return mod, errs
}

func resolveLambdaRefs(lam *ast.Lambda, outer []map[string]ast.ID, byLookupName map[string][]*ast.Bnd, errs *errors.List) {
	scope := map[string]ast.ID{}
	for _, p := range lam.Params {
		scope[p.Name] = p.StableID()
	}
	scopes := append(append([]map[string]ast.ID{}, outer...), scope)
	resolveTermRefs(lam.Body, scopes, byLookupName, errs)
}

func resolveTermRefs(term ast.Term, scopes []map[string]ast.ID, byLookupName map[string][]*ast.Bnd, errs *errors.List) {
	ast.Walk(term, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.Lambda:
			resolveLambdaRefs(v, scopes, byLookupName, errs)
			return false
		case *ast.Ref:
			resolveOneRef(v, scopes, byLookupName, errs)
		}
		return true
	})
}

func resolveOneRef(ref *ast.Ref, scopes []map[string]ast.ID, byLookupName map[string][]*ast.Bnd, errs *errors.List) {
	for i := len(scopes) - 1; i >= 0; i-- {
		if id, ok := scopes[i][ref.Name]; ok {
			ref.ResolvedID = id
			return
		}
	}
	candidates := byLookupName[ref.Name]
	switch len(candidates) {
	case 0:
		*errs = append(*errs, errors.New(errors.PhaseReferenceResolver, errors.KindUnresolvedReference, ref.Span(), "undefined name %q", ref.Name))
	case 1:
		ref.ResolvedID = candidates[0].StableID()
	default:
		ids := make([]ast.ID, len(candidates))
		for i, c := range candidates {
			ids[i] = c.StableID()
		}
		ref.CandidateIDs = ids
	}
}
