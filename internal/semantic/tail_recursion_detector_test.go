package semantic_test

import (
	"testing"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/pipeline"
)

func findBnd(mod *ast.Module, name string) *ast.Bnd {
	for _, m := range mod.Members {
		if b, ok := m.(*ast.Bnd); ok && b.Name == name {
			return b
		}
	}
	return nil
}

func TestTailRecursionDetectorMarksSelfCallInElseBranch(t *testing.T) {
	res := pipeline.Compile("tailrec", `
fn countdown(n: Int): Int =
  if n <= 0 then 0 else countdown (n - 1);
fn main(): Unit = println "hi";
`)
	for _, e := range res.Errors {
		t.Logf("diag: %s", e.Message)
	}
	bnd := findBnd(res.Module, "countdown")
	if bnd == nil {
		t.Fatal("expected a countdown binding")
	}
	lam := bnd.Body.(*ast.Lambda)
	if !lam.TailRecursive {
		t.Fatal("expected countdown's self-call in the else branch to be detected as tail-recursive")
	}
}

func TestTailRecursionDetectorIgnoresNonTailSelfCall(t *testing.T) {
	res := pipeline.Compile("nontailrec", `
fn sum(n: Int): Int =
  if n <= 0 then 0 else n + sum (n - 1);
fn main(): Unit = println "hi";
`)
	for _, e := range res.Errors {
		t.Logf("diag: %s", e.Message)
	}
	bnd := findBnd(res.Module, "sum")
	if bnd == nil {
		t.Fatal("expected a sum binding")
	}
	lam := bnd.Body.(*ast.Lambda)
	if lam.TailRecursive {
		t.Fatal("sum's self-call is an operand of '+', not in tail position, and should not be marked tail-recursive")
	}
}
