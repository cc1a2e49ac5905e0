package ownership

import (
	"fmt"
	"strings"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
)

// closeScope walks a let-binding chain (the App(Lambda([p], rest), rhs)
// shape local lets desugar to, §3), tracks each binding's ownership state,
// validates consuming-parameter use, and finally wraps the chain's terminal
// expression with LIFO `let _ = __free_T(b) in ...` frees for every
// still-owned, non-escaping binding (§4.14.3). A terminal expression that
// itself contains nested allocating sub-expressions (e.g. a right-assoc
// `++` chain) is first rewritten through a temp-wrapper sub-scope so every
// intermediate allocation gets its own binding and its own free.
func (a *analyzer) closeScope(body ast.Term, sc *scope) ast.Term {
	return a.closeScopeWitness(body, sc, false)
}

// closeScopeWitness is closeScope with one extra bit of state: when
// witnessWrapped is true, the next let this call finds is the binding a
// prior analysis pass already wrapped in a witness let (§4.14.6), so it
// must not be wrapped again.
func (a *analyzer) closeScopeWitness(body ast.Term, sc *scope, witnessWrapped bool) ast.Term {
	app, isLet := asLetBinding(body)
	if !isLet {
		a.checkConsumingCalls(body, sc)
		return a.closeTerminal(body, sc)
	}

	lam := app.Fn.(*ast.Lambda)
	param := lam.Params[0]

	if alreadyWrapped(app) {
		// A prior analysis run already inserted this free call (§4.14.9
		// idempotence) — descend without re-binding or re-freeing.
		lam.Body = a.closeScope(lam.Body, sc)
		return app
	}

	switch param.BindOrigin {
	case ast.BindingOriginTempWrapper:
		// Already a fully-formed temp binding + its own free chain from a
		// prior pass (§4.14.9) — its rhs is re-examined nowhere, it isn't
		// part of sc's own bookkeeping either way.
		lam.Body = a.closeScope(lam.Body, sc)
		return app
	case ast.BindingOriginWitness:
		// The witness itself never changes shape between passes; only the
		// binding it guards needs telling not to re-wrap.
		lam.Body = a.closeScopeWitness(lam.Body, sc, true)
		return app
	}

	a.checkConsumingCalls(app.Arg, sc)

	rhs := unwrapArg(app.Arg)
	st := stateBorrowed
	var witnessID ast.ID
	switch {
	case isLiteral(rhs):
		st = stateLiteral
	default:
		if cond, ok := rhs.(*ast.Cond); ok {
			st, witnessID = a.classifyCond(cond, param.Name, sc)
		} else if a.allocates(rhs) {
			st = stateOwned
		}
	}

	b := &binding{id: param.StableID(), name: param.Name, typ: param.Typ, st: st, witness: witnessID}
	sc.bind(b)

	lam.Body = a.closeScope(lam.Body, sc)

	if witnessID != "" && !witnessWrapped {
		return a.wrapWitnessLet(param, witnessID, rhs.(*ast.Cond), app)
	}
	return app
}

// classifyCond decides a Cond-valued binding's ownership state (§4.14.6):
// Owned when every branch allocates, Borrowed when none does, and Owned
// behind a fresh witness when the branches disagree. A structural mismatch
// — a branch handing off an already-owned existing value while another
// allocates or borrows — can't be expressed by the witness (which only
// tracks "did this branch allocate", not "did this branch move") and is
// reported instead.
func (a *analyzer) classifyCond(cond *ast.Cond, name string, sc *scope) (state, ast.ID) {
	allAlloc, noneAlloc := a.condAllocation(cond)
	switch {
	case allAlloc:
		return stateOwned, ""
	case noneAlloc:
		return stateBorrowed, ""
	case a.condMismatch(cond, sc):
		a.errs = append(a.errs, errors.New(errors.PhaseOwnershipAnalyzer, errors.KindConditionalOwnershipMismatch, cond.Span(),
			"%q hands off an existing owned value on one branch but not another; bind it to a fresh value on every branch instead", name))
		return stateOwned, ""
	default:
		return stateOwned, ast.ParamID(a.curOwner, "__owns_"+name)
	}
}

// condMismatch reports whether cond has a branch that hands off an
// already-Owned existing binding by bare reference while the branches
// otherwise disagree on allocation — a shape the allocation witness cannot
// guard correctly, since it only records whether a fresh value was
// allocated, never whether an existing one was moved.
func (a *analyzer) condMismatch(cond *ast.Cond, sc *scope) bool {
	check := func(t ast.Term) bool {
		ref, ok := unwrapArg(t).(*ast.Ref)
		if !ok {
			return false
		}
		b := sc.lookup(ref.ResolvedID)
		return b != nil && b.st == stateOwned
	}
	for _, cs := range cond.Cases {
		if check(cs.Then) {
			return true
		}
	}
	return check(cond.Else)
}

// closeTerminal handles a scope's final (non-let) expression: any nested
// allocating sub-expression is hoisted into a temp-wrapper chain first
// (§4.14.3), then the resulting value is wrapped with this scope's own
// LIFO frees.
func (a *analyzer) closeTerminal(terminal ast.Term, sc *scope) ast.Term {
	hoisted, temps := a.hoistTemps(terminal)
	escaping := escapingBinding(terminal)

	if len(temps) == 0 {
		return a.wrapFrees(terminal, sc, escaping)
	}

	tempScope := newScope(sc)
	tempScope.insideTempWrapper = true
	for _, tb := range temps {
		tempScope.bind(tb)
	}
	inner := a.closeScope(wrapTempLets(temps, hoisted), tempScope)
	return a.wrapFrees(inner, sc, escaping)
}

// hoistTemps rewrites t so that every allocating call reached as a nested
// call argument — never t itself — is replaced by a Ref to a fresh
// __tmp_<n> binding, returning both the rewritten term and the hoisted
// bindings in the order their initializers were discovered (outermost
// call's arguments first). t's own top-level allocation, if any, is left
// alone: when t is a scope's terminal value, that allocation is the
// function's result (§4.14.5) and must not be captured into a binding this
// scope would free out from under it.
func (a *analyzer) hoistTemps(t ast.Term) (ast.Term, []*binding) {
	var temps []*binding
	rewritten := a.hoistArgs(t, &temps)
	return rewritten, temps
}

func (a *analyzer) hoistArgs(t ast.Term, temps *[]*binding) ast.Term {
	app, ok := t.(*ast.App)
	if !ok {
		return t
	}
	app.Fn = a.hoistArgs(app.Fn, temps)
	arg := a.hoistArgs(unwrapArg(app.Arg), temps)
	if a.allocates(arg) {
		arg = a.newTemp(arg, temps)
	}
	app.Arg = wrapExpr(arg)
	return app
}

// newTemp binds rhs — an allocating term whose own nested allocations, if
// any, are already hoisted — to a fresh __tmp_<n> and returns a Ref to it.
func (a *analyzer) newTemp(rhs ast.Term, temps *[]*binding) ast.Term {
	name := fmt.Sprintf("__tmp_%d", a.tempCounter)
	a.tempCounter++
	id := ast.ParamID(a.curOwner, name)
	*temps = append(*temps, &binding{id: id, name: name, typ: rhs.TypeSpec(), st: stateOwned, rhs: rhs})
	return &ast.Ref{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()}}, Name: name, ResolvedID: id}
}

// wrapTempLets nests temps around rewritten in discovery order (the
// earliest-discovered temp ends up outermost, so a later temp's own
// initializer may reference it), producing the
// App(Lambda([__tmp_n], ...), rhs) let chain §4.14.3 describes.
func wrapTempLets(temps []*binding, rewritten ast.Term) ast.Term {
	result := rewritten
	for i := len(temps) - 1; i >= 0; i-- {
		tb := temps[i]
		span := ast.Synthetic()
		param := &ast.Param{BaseNode: ast.BaseNode{SrcSpan: span}, Name: tb.name, Typ: tb.typ, BindOrigin: ast.BindingOriginTempWrapper}
		param.SetStableID(tb.id)
		lam := &ast.Lambda{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Params: []*ast.Param{param}, Body: result}
		result = &ast.App{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Fn: lam, Arg: wrapExpr(tb.rhs)}
	}
	return result
}

// wrapWitnessLet prepends a synthetic
// `let __owns_x = if <same tests> then true else false else <...>; <rest>`
// around rest (x's own let plus everything after it), computed from the
// SAME test terms as cond so the witness and x agree on which branch ran
// (§4.14.6). This runs once, after x's own let and the rest of the scope
// have already been closed, so it never re-triggers its own detection.
func (a *analyzer) wrapWitnessLet(param *ast.Param, witnessID ast.ID, cond *ast.Cond, rest ast.Term) ast.Term {
	span := ast.Synthetic()
	cases := make([]ast.CondCase, len(cond.Cases))
	for i, cs := range cond.Cases {
		cases[i] = ast.CondCase{Test: cs.Test, Then: &ast.BoolLit{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Value: a.allocates(cs.Then)}}
	}
	witnessCond := &ast.Cond{
		TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}},
		Cases:     cases,
		Else:      &ast.BoolLit{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Value: a.allocates(cond.Else)},
	}
	witnessParam := &ast.Param{BaseNode: ast.BaseNode{SrcSpan: span}, Name: "__owns_" + param.Name, BindOrigin: ast.BindingOriginWitness}
	witnessParam.SetStableID(witnessID)
	lam := &ast.Lambda{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Params: []*ast.Param{witnessParam}, Body: rest}
	return &ast.App{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Fn: lam, Arg: wrapExpr(witnessCond)}
}

// wrapFrees inserts a free for every still-Owned, non-escaping binding
// introduced in sc, after the scope's terminal expression has produced its
// value, LIFO over sc.order (§4.14.3): a binding decided via a conditional
// witness (§4.14.6) is freed behind an `if __owns_x then ... else ()`
// guard instead of unconditionally.
func (a *analyzer) wrapFrees(terminal ast.Term, sc *scope, escaping map[ast.ID]bool) ast.Term {
	var toFree []*binding
	for i := len(sc.order) - 1; i >= 0; i-- {
		b := sc.order[i]
		if b.st != stateOwned || escaping[b.id] {
			continue
		}
		if _, ok := a.heapDefs[typeDeclID(b.typ)]; !ok {
			continue
		}
		toFree = append(toFree, b)
	}
	if len(toFree) == 0 {
		return terminal
	}
	return wrapResultThenFrees(terminal, toFree, a.heapDefs)
}

// wrapResultThenFrees binds the terminal's own value to a synthetic
// __result, frees every binding in toFree (most-recently-bound first) in
// that order, then yields the saved result — so a binding the terminal
// still uses stays live while it runs, and is freed only once its value
// has been safely captured (§8 property 7: the frees trail the terminal,
// they never precede it).
func wrapResultThenFrees(terminal ast.Term, toFree []*binding, heapDefs map[ast.ID][2]string) ast.Term {
	span := ast.Synthetic()
	const resultName = "__result"
	var body ast.Term = &ast.Ref{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Name: resultName}
	for i := len(toFree) - 1; i >= 0; i-- {
		b := toFree[i]
		freeName := heapDefs[typeDeclID(b.typ)][0]
		if b.witness != "" {
			body = wrapConditionalFreeCall(freeName, b, body)
		} else {
			body = wrapFreeCall(freeName, b, body)
		}
	}
	resultParam := &ast.Param{BaseNode: ast.BaseNode{SrcSpan: span}, Name: resultName}
	lam := &ast.Lambda{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Params: []*ast.Param{resultParam}, Body: body}
	return &ast.App{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Fn: lam, Arg: wrapExpr(terminal)}
}

// wrapFreeCall builds `let _ = <freeFnName> b in rest`.
func wrapFreeCall(freeFnName string, b *binding, rest ast.Term) ast.Term {
	span := ast.Synthetic()
	freeRef := &ast.Ref{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Name: freeFnName}
	bRef := &ast.Ref{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Name: b.name, ResolvedID: b.id}
	call := &ast.App{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Fn: freeRef, Arg: wrapExpr(bRef)}
	discard := &ast.Param{BaseNode: ast.BaseNode{SrcSpan: span}, Name: "_"}
	wrapperLambda := &ast.Lambda{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Params: []*ast.Param{discard}, Body: rest}
	return &ast.App{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Fn: wrapperLambda, Arg: wrapExpr(call)}
}

// wrapConditionalFreeCall builds
// `let _ = (if __owns_b then <freeFnName> b else ()) in rest` (§4.14.6): b's
// heap value is only freed on the control-flow path that actually
// allocated it.
func wrapConditionalFreeCall(freeFnName string, b *binding, rest ast.Term) ast.Term {
	span := ast.Synthetic()
	witnessRef := &ast.Ref{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Name: "__owns_" + b.name, ResolvedID: b.witness}
	freeRef := &ast.Ref{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Name: freeFnName}
	bRef := &ast.Ref{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Name: b.name, ResolvedID: b.id}
	call := &ast.App{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Fn: freeRef, Arg: wrapExpr(bRef)}
	guarded := &ast.Cond{
		TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}},
		Cases:     []ast.CondCase{{Test: witnessRef, Then: call}},
		Else:      &ast.UnitLit{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}},
	}
	discard := &ast.Param{BaseNode: ast.BaseNode{SrcSpan: span}, Name: "_"}
	wrapperLambda := &ast.Lambda{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Params: []*ast.Param{discard}, Body: rest}
	return &ast.App{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: span}}, Fn: wrapperLambda, Arg: wrapExpr(guarded)}
}

// wrapExpr rewraps a bare term as the single-term Expr every Arg/Then/Else
// position expects after the Simplifier's pass, the shape unwrapArg undoes.
func wrapExpr(t ast.Term) *ast.Expr {
	return &ast.Expr{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: t.Span()}}, Terms: []ast.Term{t}}
}

// alreadyWrapped recognizes the shapes wrapFreeCall/wrapConditionalFreeCall
// produce, so a second analysis pass treats them as already-inserted
// scaffolding rather than ownership-tracked user code (§4.14.9). Local lets
// carry no BindOrigin tag of their own except the analyzer's own temp/
// witness synthetic ones (handled separately in closeScopeWitness); the
// discard parameter name plus a free call (bare or witness-guarded) is the
// structural fingerprint a repeat run checks instead.
func alreadyWrapped(app *ast.App) bool {
	lam, ok := app.Fn.(*ast.Lambda)
	if !ok || len(lam.Params) != 1 || lam.Params[0].Name != "_" {
		return false
	}
	inner := unwrapArg(app.Arg)
	if cond, ok := inner.(*ast.Cond); ok {
		return len(cond.Cases) == 1 && isFreeCall(cond.Cases[0].Then)
	}
	return isFreeCall(inner)
}

func isFreeCall(t ast.Term) bool {
	call, ok := t.(*ast.App)
	if !ok {
		return false
	}
	ref, ok := call.Fn.(*ast.Ref)
	return ok && strings.HasPrefix(ref.Name, "__free_")
}

// asLetBinding recognizes the App(Lambda([p], rest), rhs) shape a local let
// desugars to: exactly one parameter, distinguishing it from an ordinary
// curried call whose Fn is a Ref (or a further App), never a bare Lambda.
func asLetBinding(t ast.Term) (*ast.App, bool) {
	app, ok := t.(*ast.App)
	if !ok {
		return nil, false
	}
	lam, ok := app.Fn.(*ast.Lambda)
	if !ok || len(lam.Params) != 1 {
		return nil, false
	}
	return app, true
}

func unwrapArg(t ast.Term) ast.Term {
	if e, ok := t.(*ast.Expr); ok && len(e.Terms) == 1 {
		return e.Terms[0]
	}
	return t
}

func typeDeclID(t ast.Type) ast.ID {
	switch v := t.(type) {
	case *ast.TypeRef:
		return v.ResolvedID
	case *ast.TypeStruct:
		return v.StableID()
	default:
		return ""
	}
}

// escapingBinding reports the one binding exempt from this scope's frees:
// the terminal is itself a bare reference to it, i.e. it IS the scope's
// result rather than merely something the terminal used along the way
// (§4.14.5). A binding the terminal merely passes as an argument — e.g.
// `s` in `println s` — is not escaping; it is still live for that call and
// must still be freed once the call returns.
func escapingBinding(terminal ast.Term) map[ast.ID]bool {
	out := map[ast.ID]bool{}
	if ref, ok := unwrapArg(terminal).(*ast.Ref); ok && ref.ResolvedID != "" {
		out[ref.ResolvedID] = true
	}
	return out
}

// checkConsumingCalls validates every call whose callee has a consuming
// (`~name: T`) parameter (§4.14.4): the argument must be a Ref to a
// currently-Owned binding, and this must be that binding's last use within
// the scope chain, after which it transitions to Moved.
func (a *analyzer) checkConsumingCalls(t ast.Term, sc *scope) {
	ast.Walk(t, func(n ast.Node) bool {
		app, ok := n.(*ast.App)
		if !ok {
			return true
		}
		ref, isRef := app.Fn.(*ast.Ref)
		if !isRef {
			return true
		}
		bnd, ok := a.idx[ref.ResolvedID]
		if !ok {
			return true
		}
		lam, ok := bnd.Body.(*ast.Lambda)
		if !ok || len(lam.Params) == 0 || !lam.Params[0].Consuming {
			return true
		}
		a.checkConsumingArg(app.Arg, sc, t)
		return true
	})
}

func (a *analyzer) checkConsumingArg(arg ast.Term, sc *scope, scopeRoot ast.Term) {
	argRef, ok := unwrapArg(arg).(*ast.Ref)
	if !ok {
		a.errs = append(a.errs, errors.New(errors.PhaseOwnershipAnalyzer, errors.KindConsumingMisuse, arg.Span(),
			"a consuming parameter requires a direct binding reference, not a computed expression"))
		return
	}
	b := sc.lookup(argRef.ResolvedID)
	if b == nil {
		return
	}
	if b.st == stateMoved {
		a.errs = append(a.errs, errors.New(errors.PhaseOwnershipAnalyzer, errors.KindUseAfterMove, argRef.Span(),
			"%q was already moved", b.name))
		return
	}
	if b.st != stateOwned {
		a.errs = append(a.errs, errors.New(errors.PhaseOwnershipAnalyzer, errors.KindConsumingMisuse, argRef.Span(),
			"%q is not owned here and cannot be consumed", b.name))
		return
	}
	if countRefs(scopeRoot, b.id) > 1 {
		a.errs = append(a.errs, errors.New(errors.PhaseOwnershipAnalyzer, errors.KindConsumingMisuse, argRef.Span(),
			"%q is consumed here but used again later in the same scope", b.name))
		return
	}
	b.st = stateMoved
}

func countRefs(t ast.Term, id ast.ID) int {
	count := 0
	ast.Walk(t, func(n ast.Node) bool {
		if ref, ok := n.(*ast.Ref); ok && ref.ResolvedID == id {
			count++
		}
		return true
	})
	return count
}
