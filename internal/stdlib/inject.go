package stdlib

import "github.com/mml-lang/mmlc/internal/ast"

// Prelude returns every injected declaration in a fixed order — types
// before operators before functions — so that a later entry may reference
// an earlier one's name (an operator's Int parameter type must already be
// in scope) without the Type Resolver needing a second pass just for the
// prelude.
func Prelude() []ast.Decl {
	decls := make([]ast.Decl, 0, 64)
	decls = append(decls, Types()...)
	decls = append(decls, Operators()...)
	decls = append(decls, Functions()...)
	return decls
}

// Inject prepends the prelude to mod.Members in place (§2 "Standard Library
// Injection — Prepends prelude members to the module before the Parsing
// Error Checker"). It must run first in the phase pipeline: every later
// phase, including the Parsing Error Checker, sees the prelude as if it had
// been written at the top of the source file.
func Inject(mod *ast.Module) {
	mod.Members = append(Prelude(), mod.Members...)
}
