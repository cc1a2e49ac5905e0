package semantic_test

import (
	"testing"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/pipeline"
)

// opHead returns the Ref naming an App chain's leftmost function, the way
// `2 + 3 * 4` rewrites to App(App(Ref("+"), 2), App(App(Ref("*"), 3), 4)).
func opHead(t ast.Term) (*ast.Ref, bool) {
	app, ok := t.(*ast.App)
	if !ok {
		return nil, false
	}
	if ref, ok := app.Fn.(*ast.Ref); ok {
		return ref, true
	}
	return opHead(app.Fn)
}

func TestExpressionRewriterRespectsOperatorPrecedence(t *testing.T) {
	res := pipeline.Compile("precedence", `
fn main(): Unit =
  let r = 2 + 3 * 4;
  println "done";
`)
	for _, e := range res.Errors {
		t.Logf("diag: %s", e.Message)
	}

	var mainBnd *ast.Bnd
	for _, m := range res.Module.Members {
		if b, ok := m.(*ast.Bnd); ok && b.Name == "main" {
			mainBnd = b
		}
	}
	if mainBnd == nil {
		t.Fatal("expected a main binding")
	}
	lam := mainBnd.Body.(*ast.Lambda)
	letApp := lam.Body.(*ast.App)
	rhsApp, ok := letApp.Arg.(*ast.App)
	if !ok {
		t.Fatalf("expected the let's right-hand side to rewrite to an App, got %T", letApp.Arg)
	}
	head, ok := opHead(rhsApp)
	if !ok {
		t.Fatalf("expected an operator application, got %#v", rhsApp)
	}
	if head.Name != "+" {
		t.Fatalf("expected '+' at the root (lower precedence binds looser), got %q", head.Name)
	}
	// The right operand of '+' must be the '*' sub-application, not a bare 3.
	rhsOfPlus, ok := rhsApp.Arg.(*ast.App)
	if !ok {
		t.Fatalf("expected '*' to bind tighter and appear as the right operand, got %T", rhsApp.Arg)
	}
	mulHead, ok := opHead(rhsOfPlus)
	if !ok || mulHead.Name != "*" {
		t.Fatalf("expected '*' as the right operand's head, got %+v", mulHead)
	}
}

func TestExpressionRewriterAutoCallsNullaryFunction(t *testing.T) {
	res := pipeline.Compile("nullary", `
fn greeting(): String = "hi";
fn main(): Unit =
  let g = greeting;
  println g;
`)
	for _, e := range res.Errors {
		t.Logf("diag: %s", e.Message)
	}
	var mainBnd *ast.Bnd
	for _, m := range res.Module.Members {
		if b, ok := m.(*ast.Bnd); ok && b.Name == "main" {
			mainBnd = b
		}
	}
	if mainBnd == nil {
		t.Fatal("expected a main binding")
	}
	lam := mainBnd.Body.(*ast.Lambda)
	letApp, ok := lam.Body.(*ast.App)
	if !ok {
		t.Fatalf("expected the let-binding to rewrite to an App, got %T", lam.Body)
	}
	// `let g = greeting;` rewrites greeting's bare reference into
	// App(greeting, Unit) — a nullary function in value position is called.
	call, ok := letApp.Arg.(*ast.App)
	if !ok {
		t.Fatalf("expected the bare nullary reference to auto-call with a synthesized Unit argument, got %T", letApp.Arg)
	}
	if _, ok := call.Arg.(*ast.UnitLit); !ok {
		t.Fatalf("expected the auto-call's argument to be UnitLit, got %T", call.Arg)
	}
	ref, ok := call.Fn.(*ast.Ref)
	if !ok || ref.Name != "greeting" {
		t.Fatalf("expected the auto-call's callee to be a Ref to greeting, got %#v", call.Fn)
	}
}
