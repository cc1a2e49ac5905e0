package parser

import "github.com/mml-lang/mmlc/internal/ast"

// mangleOperatorName delegates to the shared scheme in internal/ast so
// that the parser and Standard Library Injection agree on mangled names
// without one importing the other.
func mangleOperatorName(symbol string, arity int) string {
	return ast.MangleOperatorName(symbol, arity)
}
