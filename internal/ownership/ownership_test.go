package ownership_test

import (
	"strings"
	"testing"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
	"github.com/mml-lang/mmlc/internal/pipeline"
)

func compile(t *testing.T, source string) pipeline.Result {
	t.Helper()
	return pipeline.Compile("demo", source)
}

func containsFreeCall(decl ast.Decl) bool {
	bnd, ok := decl.(*ast.Bnd)
	if !ok {
		return false
	}
	lam, ok := bnd.Body.(*ast.Lambda)
	if !ok {
		return false
	}
	found := false
	ast.Walk(lam.Body, func(n ast.Node) bool {
		if ref, ok := n.(*ast.Ref); ok && strings.HasPrefix(ref.Name, "__free_") {
			found = true
		}
		return true
	})
	return found
}

func TestOwnershipInsertsFreeForUnusedAllocation(t *testing.T) {
	res := compile(t, `
fn main(): Unit =
  let s = concat "a" "b";
  println "done";
`)
	for _, e := range res.Errors {
		t.Logf("diag: %s", e.Message)
	}
	found := false
	for _, m := range res.Module.Members {
		if containsFreeCall(m) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a synthesized __free_ call somewhere in main's body")
	}
}

// bodyOf returns decl's Lambda body, or nil if decl isn't a function Bnd.
func bodyOf(decl ast.Decl) ast.Term {
	bnd, ok := decl.(*ast.Bnd)
	if !ok {
		return nil
	}
	lam, ok := bnd.Body.(*ast.Lambda)
	if !ok {
		return nil
	}
	return lam.Body
}

func countParamsWithPrefix(body ast.Term, prefix string) int {
	n := 0
	ast.Walk(body, func(node ast.Node) bool {
		if p, ok := node.(*ast.Param); ok && strings.HasPrefix(p.Name, prefix) {
			n++
		}
		return true
	})
	return n
}

func countFreeRefs(body ast.Term) int {
	n := 0
	ast.Walk(body, func(node ast.Node) bool {
		if ref, ok := node.(*ast.Ref); ok && strings.HasPrefix(ref.Name, "__free_") {
			n++
		}
		return true
	})
	return n
}

func hasConditionalFree(body ast.Term) bool {
	found := false
	ast.Walk(body, func(node ast.Node) bool {
		cond, ok := node.(*ast.Cond)
		if !ok || len(cond.Cases) != 1 {
			return true
		}
		call, ok := cond.Cases[0].Then.(*ast.App)
		if !ok {
			return true
		}
		if ref, ok := call.Fn.(*ast.Ref); ok && strings.HasPrefix(ref.Name, "__free_") {
			found = true
		}
		return true
	})
	return found
}

func TestOwnershipHoistsAndFreesTempChainExactlyOnce(t *testing.T) {
	res := compile(t, `
fn main(): Unit = println ("a" ++ to_string 0 ++ "b");
`)
	for _, e := range res.Errors {
		t.Logf("diag: %s", e.Message)
	}
	var body ast.Term
	for _, m := range res.Module.Members {
		if bnd, ok := m.(*ast.Bnd); ok && bnd.Name == "main" {
			body = bodyOf(bnd)
		}
	}
	if body == nil {
		t.Fatalf("main's body not found")
	}
	if got := countParamsWithPrefix(body, "__tmp_"); got != 3 {
		t.Fatalf("expected 3 hoisted temp bindings (to_string 0, the inner ++, the outer ++), got %d", got)
	}
	if got := countFreeRefs(body); got != 3 {
		t.Fatalf("expected each of the 3 temps freed exactly once, got %d free calls", got)
	}
}

func TestOwnershipInsertsWitnessForMixedConditional(t *testing.T) {
	res := compile(t, `
fn main(): Unit =
  let s = if str_eq "a" "a" then readline else "static";
  println s;
`)
	for _, e := range res.Errors {
		t.Logf("diag: %s", e.Message)
	}
	for _, e := range res.Errors {
		if e.Kind == errors.KindConditionalOwnershipMismatch {
			t.Fatalf("unexpected conditional ownership mismatch: %s", e.Message)
		}
	}
	var body ast.Term
	for _, m := range res.Module.Members {
		if bnd, ok := m.(*ast.Bnd); ok && bnd.Name == "main" {
			body = bodyOf(bnd)
		}
	}
	if body == nil {
		t.Fatalf("main's body not found")
	}
	if got := countParamsWithPrefix(body, "__owns_"); got != 1 {
		t.Fatalf("expected exactly one witness binding, got %d", got)
	}
	if !hasConditionalFree(body) {
		t.Fatalf("expected a witness-guarded conditional free in main's body")
	}
}

func TestBorrowingCallDoesNotFalselyReportUseAfterMove(t *testing.T) {
	res := compile(t, `
fn main(): Unit =
  let buf = mkBuffer 16;
  buffer_write buf "hi";
  println "ok";
`)
	for _, e := range res.Errors {
		if e.Kind == errors.KindUseAfterMove {
			t.Fatalf("unexpected use-after-move: %s", e.Message)
		}
	}
}
