package semantic_test

import (
	"testing"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/pipeline"
)

func TestSimplifierDropsParenGrouping(t *testing.T) {
	res := pipeline.Compile("parens", `
fn main(): Unit =
  let r = (2 + 3) * 4;
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

	var containsTermGroup bool
	ast.Walk(letApp.Arg, func(n ast.Node) bool {
		if _, ok := n.(*ast.TermGroup); ok {
			containsTermGroup = true
		}
		return true
	})
	if containsTermGroup {
		t.Fatal("expected every TermGroup to have been unwrapped to its Inner term")
	}
}

func TestSimplifierFoldsLiteralStringEquality(t *testing.T) {
	res := pipeline.Compile("str-fold", `
fn main(): Unit =
  let r = str_eq "café" "café";
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

	var foundTrue, foundCall bool
	ast.Walk(letApp.Arg, func(n ast.Node) bool {
		if b, ok := n.(*ast.BoolLit); ok && b.Value {
			foundTrue = true
		}
		if r, ok := n.(*ast.Ref); ok && r.Name == "str_eq" {
			foundCall = true
		}
		return true
	})
	if foundCall {
		t.Fatal("expected the str_eq call over two literals to be folded away, not left in the tree")
	}
	if !foundTrue {
		t.Fatal("expected a folded BoolLit(true) in place of the str_eq call")
	}
}
