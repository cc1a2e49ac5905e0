package semantic

import (
	"github.com/google/uuid"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
)

// AssignIDs gives every resolvable node that does not yet carry a stable ID
// one, following the module::<kind>::<name> scheme for top-level
// declarations, owner::param::name for parameters, module::typestruct::
// struct::field for struct fields, and owner::lambda::<uuid> for nested
// lambdas (§4.5). Stdlib Injection's prelude entries already carry
// `stdlib::*` IDs and are left untouched — this phase only assigns where
// StableID() is still empty.
func AssignIDs(mod *ast.Module) (*ast.Module, errors.List) {
	for _, decl := range mod.Members {
		assignDeclID(mod.Name, decl)
	}
	mod.Index = ast.Rebuild(mod)
	return mod, nil
}

func assignDeclID(moduleName string, decl ast.Decl) {
	kind, name, ok := declKindAndName(decl)
	if !ok {
		return
	}
	if decl.StableID() == "" {
		decl.SetStableID(ast.TopLevelID(moduleName, kind, name))
	}
	switch d := decl.(type) {
	case *ast.Bnd:
		if lam, isLam := d.Body.(*ast.Lambda); isLam {
			assignParamIDs(decl.StableID(), lam)
			assignNestedLambdaIDs(decl.StableID(), lam.Body)
		}
	case *ast.TypeStruct:
		for _, f := range d.Fields {
			if f.StableID() == "" {
				f.SetStableID(ast.StructFieldID(moduleName, d.Name, f.Name))
			}
		}
	}
}

func assignParamIDs(owner ast.ID, lam *ast.Lambda) {
	for _, p := range lam.Params {
		if p.StableID() == "" {
			p.SetStableID(ast.ParamID(owner, p.Name))
		}
	}
}

// assignNestedLambdaIDs walks a lambda's body looking for nested Lambda
// literals (anonymous lambdas assigned directly as a value within another
// lambda's body, §3) and gives each a fresh owner::lambda::uuid ID.
func assignNestedLambdaIDs(owner ast.ID, body ast.Term) {
	ast.Walk(body, func(n ast.Node) bool {
		nested, isLambda := n.(*ast.Lambda)
		if !isLambda {
			return true
		}
		if nested.StableID() == "" {
			nested.SetStableID(ast.LambdaID(owner, uuid.NewString()))
		}
		assignParamIDs(nested.StableID(), nested)
		assignNestedLambdaIDs(nested.StableID(), nested.Body)
		return false
	})
}
