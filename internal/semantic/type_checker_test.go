package semantic_test

import (
	"testing"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
	"github.com/mml-lang/mmlc/internal/pipeline"
)

func TestTypeCheckerInfersUnascribedLetBinding(t *testing.T) {
	res := pipeline.Compile("let-infer", `
fn main(): Unit =
  let s = concat "a" "b";
  println s;
`)
	if hasPhaseKind(res.Errors, errors.PhaseTypeChecker, errors.KindTypeMismatch) {
		t.Fatalf("expected concat's inferred String type to satisfy println's parameter, got: %v", res.Errors)
	}
}

func TestTypeCheckerChecksLetBindingAgainstExplicitAscription(t *testing.T) {
	res := pipeline.Compile("let-ascription-mismatch", `
fn main(): Unit =
  let n: Int = concat "a" "b";
  println "done";
`)
	if !hasPhaseKind(res.Errors, errors.PhaseTypeChecker, errors.KindTypeMismatch) {
		t.Fatalf("expected a type mismatch between concat's String result and the declared Int ascription, got: %v", res.Errors)
	}
}

func TestTypeCheckerRequiresEntryPoint(t *testing.T) {
	res := pipeline.Compile("no-main", `
fn helper(): Unit = println "hi";
`)
	if !hasPhaseKind(res.Errors, errors.PhaseTypeChecker, errors.KindMissingEntryPoint) {
		t.Fatalf("expected a missing-entry-point diagnostic when no main is declared, got: %v", res.Errors)
	}
}

func TestTypeCheckerRejectsArgumentTypeMismatch(t *testing.T) {
	res := pipeline.Compile("arg-mismatch", `
fn addOne(n: Int): Int = n + 1;
fn main(): Unit =
  let r = addOne "not a number";
  println "done";
`)
	if !hasPhaseKind(res.Errors, errors.PhaseTypeChecker, errors.KindTypeMismatch) {
		t.Fatalf("expected a type mismatch passing a String where addOne wants Int, got: %v", res.Errors)
	}
}

func TestTypeCheckerStampsTypeSpecOnLetBindingValue(t *testing.T) {
	res := pipeline.Compile("typespec", `
fn main(): Unit =
  let s = concat "a" "b";
  println s;
`)
	for _, e := range res.Errors {
		t.Logf("diag: %s", e.Message)
	}
	bnd := findBnd(res.Module, "main")
	if bnd == nil {
		t.Fatal("expected a main binding")
	}
	lam := bnd.Body.(*ast.Lambda)
	letApp := lam.Body.(*ast.App)
	if letApp.TypeSpec() == nil {
		t.Fatal("expected the let-binding App to carry an inferred TypeSpec")
	}
}
