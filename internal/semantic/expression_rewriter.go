package semantic

import (
	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
)

// RewriteExpressions turns every Expr's flat term sequence into a single
// fully-curried application tree (§4.8): juxtaposed value terms become
// nested App nodes (`f x y` → App(App(f,x),y)), operator Refs are resolved
// against their BindingMeta precedence/associativity via precedence
// climbing, and a bare Ref that names a nullary function in value position
// is auto-called with a synthesized UnitLit argument. After this phase
// every reachable Expr.Terms holds exactly one element: the root of its
// rewritten tree.
func RewriteExpressions(mod *ast.Module) (*ast.Module, errors.List) {
	var errs errors.List
	idx := map[ast.ID]*ast.Bnd{}
	for _, decl := range mod.Members {
		if bnd, ok := decl.(*ast.Bnd); ok {
			idx[bnd.StableID()] = bnd
		}
	}

	rw := &rewriter{idx: idx, errs: &errs}
	for _, decl := range mod.Members {
		if bnd, ok := decl.(*ast.Bnd); ok {
			bnd.Body = rw.rewrite(bnd.Body)
		}
	}
	return mod, errs
}

type rewriter struct {
	idx  map[ast.ID]*ast.Bnd
	errs *errors.List
}

func (rw *rewriter) rewrite(t ast.Term) ast.Term {
	switch v := t.(type) {
	case *ast.Expr:
		for i, term := range v.Terms {
			v.Terms[i] = rw.rewrite(term)
		}
		root := rw.climb(v.Terms, v.Span())
		v.Terms = []ast.Term{root}
		return v
	case *ast.TermGroup:
		v.Inner = rw.rewrite(v.Inner)
		return v
	case *ast.Cond:
		for i := range v.Cases {
			v.Cases[i].Test = rw.rewrite(v.Cases[i].Test)
			v.Cases[i].Then = rw.rewrite(v.Cases[i].Then)
		}
		v.Else = rw.rewrite(v.Else)
		return v
	case *ast.Tuple:
		for i := range v.Elements {
			v.Elements[i] = rw.rewrite(v.Elements[i])
		}
		return v
	case *ast.DataConstructor:
		for i := range v.Args {
			v.Args[i] = rw.rewrite(v.Args[i])
		}
		return v
	case *ast.FieldAccess:
		v.Target = rw.rewrite(v.Target)
		return v
	case *ast.App:
		v.Fn = rw.rewrite(v.Fn)
		v.Arg = rw.rewrite(v.Arg)
		return v
	case *ast.Lambda:
		v.Body = rw.rewrite(v.Body)
		return v
	default:
		return t
	}
}

// operatorBnd returns the Bnd an already-resolved Ref names, if it is an
// operator — i.e. a candidate the Reference Resolver left ambiguous
// (several arities of the same symbol) or already pinned to one.
func (rw *rewriter) operatorBnd(ref *ast.Ref, wantArity ast.ArityKind) *ast.Bnd {
	if ref.ResolvedID != "" {
		if b := rw.idx[ref.ResolvedID]; b != nil && b.Meta.IsOperator() && b.Meta.Arity.Kind == wantArity {
			return b
		}
		return nil
	}
	for _, id := range ref.CandidateIDs {
		if b := rw.idx[id]; b != nil && b.Meta.IsOperator() && b.Meta.Arity.Kind == wantArity {
			return b
		}
	}
	return nil
}

func (rw *rewriter) isOperatorTerm(t ast.Term) (*ast.Ref, bool) {
	ref, ok := t.(*ast.Ref)
	if !ok {
		return nil, false
	}
	if rw.operatorBnd(ref, ast.ArityBinary) != nil || rw.operatorBnd(ref, ast.ArityUnary) != nil {
		return ref, true
	}
	return nil, false
}

// atom is one juxtaposition run collapsed to a single term, paired with the
// span it started at (for diagnostics).
type atom struct {
	term ast.Term
	span ast.SrcSpan
}

// climb rewrites a flat, already-inner-rewritten term sequence into one
// tree. It first collapses juxtaposed value runs via application folding,
// then resolves the remaining operator/atom alternation by precedence
// climbing.
func (rw *rewriter) climb(terms []ast.Term, span ast.SrcSpan) ast.Term {
	if len(terms) == 0 {
		return &ast.TermError{RawText: "", Message: "empty expression"}
	}
	if len(terms) == 1 {
		return rw.autoCallNullary(terms[0])
	}

	atoms, ops := rw.collapseJuxtaposition(terms)
	if len(atoms) == 0 {
		return &ast.TermError{RawText: "", Message: "expression has no operand"}
	}
	result, _ := rw.climbPrec(atoms, ops, 0, 0)
	return result
}

// collapseJuxtaposition splits terms into maximal value-term runs (folded
// left-to-right into App chains) separated by operator-ref terms.
func (rw *rewriter) collapseJuxtaposition(terms []ast.Term) ([]atom, []*ast.Ref) {
	var atoms []atom
	var ops []*ast.Ref
	i := 0
	for i < len(terms) {
		// An operator where an operand is due that has a unary form starts
		// an atom run instead, so `not b` becomes App(not, b) for prefixUnary.
		if ref, isOp := rw.isOperatorTerm(terms[i]); isOp && !(len(atoms) == len(ops) && rw.operatorBnd(ref, ast.ArityUnary) != nil) {
			ops = append(ops, ref)
			i++
			continue
		}
		run := terms[i]
		runSpan := terms[i].Span()
		i++
		for i < len(terms) {
			if _, isOp := rw.isOperatorTerm(terms[i]); isOp {
				break
			}
			run = &ast.App{
				TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: ast.NewSpan(runSpan.Start, terms[i].Span().End)}},
				Fn:        run,
				Arg:       wrapExpr(terms[i]),
			}
			i++
		}
		atoms = append(atoms, atom{term: run, span: runSpan})
	}
	return atoms, ops
}

func wrapExpr(t ast.Term) *ast.Expr {
	if e, ok := t.(*ast.Expr); ok {
		return e
	}
	return &ast.Expr{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: t.Span()}}, Terms: []ast.Term{t}}
}

// climbPrec is a standard precedence-climbing parser over the
// atom/operator alternation: atoms[0] op[0] atoms[1] op[1] atoms[2] ...
// A leading unary operator before an atom has already been folded into that
// atom's run by the caller's bookkeeping below (atoms[k] may itself start
// with a unary prefix, handled by prefixUnary before this function sees it).
func (rw *rewriter) climbPrec(atoms []atom, ops []*ast.Ref, atomIdx, minPrec int) (ast.Term, int) {
	lhs := rw.prefixUnary(atoms[atomIdx].term)
	opIdx := atomIdx

	for opIdx < len(ops) {
		opRef := ops[opIdx]
		bnd := rw.operatorBnd(opRef, ast.ArityBinary)
		if bnd == nil || bnd.Meta.Precedence < minPrec {
			break
		}
		prec := bnd.Meta.Precedence
		nextMin := prec + 1
		if bnd.Meta.Associativity == ast.AssocRight {
			nextMin = prec
		}
		rhs, consumed := rw.climbPrec(atoms, ops, opIdx+1, nextMin)
		pinRef(opRef, bnd)
		lhs = &ast.App{
			TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: ast.NewSpan(lhs.Span().Start, rhs.Span().End)}},
			Fn: &ast.App{
				TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: opRef.Span()}},
				Fn:        opRef,
				Arg:       wrapExpr(lhs),
			},
			Arg: wrapExpr(rhs),
		}
		opIdx = consumed
	}
	return lhs, opIdx
}

// prefixUnary recognizes a lone operator-ref at the front of an atom run
// (produced when the run itself is a single Ref that is a unary operator,
// e.g. `not b` parsed as two juxtaposed atoms collapsed into one run by
// collapseJuxtaposition) and turns it into a unary App.
func (rw *rewriter) prefixUnary(t ast.Term) ast.Term {
	app, ok := t.(*ast.App)
	if !ok {
		return rw.autoCallNullary(t)
	}
	if ref, isRef := app.Fn.(*ast.Ref); isRef {
		if bnd := rw.operatorBnd(ref, ast.ArityUnary); bnd != nil {
			pinRef(ref, bnd)
			return app
		}
	}
	return t
}

func pinRef(ref *ast.Ref, bnd *ast.Bnd) {
	if ref.ResolvedID == "" {
		ref.ResolvedID = bnd.StableID()
	}
}

// autoCallNullary wraps a bare Ref naming a nullary function in a synthetic
// UnitLit application (§4.8 "Nullary auto-call"): `readline` in value
// position is exactly `readline ()`.
func (rw *rewriter) autoCallNullary(t ast.Term) ast.Term {
	ref, ok := t.(*ast.Ref)
	if !ok {
		return t
	}
	id := ref.ResolvedID
	if id == "" && len(ref.CandidateIDs) == 1 {
		id = ref.CandidateIDs[0]
	}
	bnd := rw.idx[id]
	if bnd == nil || bnd.Meta == nil || bnd.Meta.Arity.Kind != ast.ArityNullary {
		return t
	}
	unit := &ast.UnitLit{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()}}}
	return &ast.App{
		TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: ref.Span()}},
		Fn:        ref,
		Arg:       &ast.Expr{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()}}, Terms: []ast.Term{unit}},
	}
}
