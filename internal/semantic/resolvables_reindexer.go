package semantic

import (
	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
)

// ReindexResolvables rebuilds the module's ResolvablesIndex from scratch
// (§4.12). It exists as its own named phase, distinct from the ad hoc
// rebuilds earlier phases perform for their own bookkeeping, because it is
// the index the Ownership Analyzer and code generation both rely on being
// current after the Memory-Function Generator appends new top-level Bnds.
func ReindexResolvables(mod *ast.Module) (*ast.Module, errors.List) {
	mod.Index = ast.Rebuild(mod)
	return mod, nil
}
