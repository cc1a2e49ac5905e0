package parser

import (
	"fmt"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/lexer"
)

// ErrFailure is returned when parseModule cannot produce any member at all
// — a catastrophic syntax error with no recovery (§4.1, §7 "the only truly
// fatal error is a parser failure that fails to produce any module").
type ErrFailure struct {
	Trace string
}

func (e *ErrFailure) Error() string { return fmt.Sprintf("parser failure: %s", e.Trace) }

// Parse tokenizes and parses source text into a Module named moduleName
// (the CLI derives this from the file path stem; there is no `module`
// keyword at file scope, §4.1 "Top-level"). Recoverable errors ride along
// as ParsingMemberError/ParsingIdError nodes in the returned module; Parse
// only returns a non-nil error when parsing produced zero members.
func Parse(moduleName, sourceText string) (*ast.Module, error) {
	p := New(moduleName, sourceText)
	mod := ast.NewModule(moduleName, moduleName, p.source)

	for !p.peekTokenIs(lexer.EOF) {
		decl := p.parseMember()
		if decl != nil {
			mod.Members = append(mod.Members, decl)
		}
	}

	if len(mod.Members) == 0 && len(sourceText) > 0 {
		return nil, &ErrFailure{Trace: "no top-level members recognized"}
	}
	return mod, nil
}
