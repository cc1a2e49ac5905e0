package semantic

import (
	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
	"github.com/mml-lang/mmlc/internal/stdlib"
)

// Simplify removes the structural scaffolding the parser and Expression
// Rewriter leave behind once it has served its purpose (§4.9): a
// TermGroup's parentheses are dropped in favor of its Inner term (after any
// type ascription the parens carried is transferred — MML's grammar never
// attaches one directly to a TermGroup, so this is a pure unwrap), and every
// Expr is asserted to hold exactly the single term the Expression Rewriter
// left it with.
func Simplify(mod *ast.Module) (*ast.Module, errors.List) {
	var errs errors.List
	for _, decl := range mod.Members {
		if bnd, ok := decl.(*ast.Bnd); ok {
			bnd.Body = simplifyTerm(bnd.Body, &errs)
		}
	}
	return mod, errs
}

func simplifyTerm(t ast.Term, errs *errors.List) ast.Term {
	switch v := t.(type) {
	case *ast.Expr:
		if len(v.Terms) != 1 {
			*errs = append(*errs, errors.New(errors.PhaseSimplifier, errors.KindInternal, v.Span(),
				"expression was not reduced to a single term (%d remain)", len(v.Terms)))
			return &ast.InvalidExpression{Original: v, Reason: "unreduced expression"}
		}
		return simplifyTerm(v.Terms[0], errs)
	case *ast.TermGroup:
		return simplifyTerm(v.Inner, errs)
	case *ast.Cond:
		for i := range v.Cases {
			v.Cases[i].Test = simplifyTerm(v.Cases[i].Test, errs)
			v.Cases[i].Then = simplifyTerm(v.Cases[i].Then, errs)
		}
		v.Else = simplifyTerm(v.Else, errs)
		return v
	case *ast.Tuple:
		for i := range v.Elements {
			v.Elements[i] = simplifyTerm(v.Elements[i], errs)
		}
		return v
	case *ast.DataConstructor:
		for i := range v.Args {
			v.Args[i] = simplifyTerm(v.Args[i], errs)
		}
		return v
	case *ast.FieldAccess:
		v.Target = simplifyTerm(v.Target, errs)
		return v
	case *ast.App:
		v.Fn = simplifyTerm(v.Fn, errs)
		v.Arg = simplifyTerm(v.Arg, errs)
		if folded := foldStringCall(v); folded != nil {
			return folded
		}
		return v
	case *ast.Lambda:
		v.Body = simplifyTerm(v.Body, errs)
		return v
	default:
		return t
	}
}

var (
	strEqID      = ast.StdlibID("str_eq")
	strCompareID = ast.StdlibID("str_compare")
)

// foldStringCall constant-folds a fully-applied `str_eq`/`str_compare` call
// over two string literals at compile time, using the same NFC-normalized
// equality and collation-key ordering the runtime gives those calls
// (internal/stdlib's NormalizeNFC/LocaleCompare) — so a literal comparison
// like `str_eq "café" "café"` never reaches codegen at all.
// Returns nil when v isn't a saturated binary call over two StringLits.
func foldStringCall(v *ast.App) ast.Term {
	inner, ok := v.Fn.(*ast.App)
	if !ok {
		return nil
	}
	ref, ok := inner.Fn.(*ast.Ref)
	if !ok || !ref.IsResolved() {
		return nil
	}
	a, ok := inner.Arg.(*ast.StringLit)
	if !ok {
		return nil
	}
	b, ok := v.Arg.(*ast.StringLit)
	if !ok {
		return nil
	}
	switch ref.ResolvedID {
	case strEqID:
		return &ast.BoolLit{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: v.Span()}}, Value: stdlib.StringEqual(a.Value, b.Value)}
	case strCompareID:
		return &ast.IntLit{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: v.Span()}}, Value: int64(stdlib.LocaleCompare(a.Value, b.Value))}
	default:
		return nil
	}
}
