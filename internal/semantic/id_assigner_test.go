package semantic_test

import (
	"strings"
	"testing"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/pipeline"
)

func TestIDAssignerScopesLetBindingParamsUnderOwningFunction(t *testing.T) {
	res := pipeline.Compile("scoping", `
fn main(): Unit =
  let s = "hi";
  println s;
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
	letLam := letApp.Fn.(*ast.Lambda)
	param := letLam.Params[0]

	if param.StableID() == "" {
		t.Fatal("expected the let-bound parameter to receive a stable ID")
	}
	if !strings.HasPrefix(string(param.StableID()), string(mainBnd.StableID())) {
		t.Fatalf("expected %q to be scoped under main's own ID %q, got unrelated ID", param.StableID(), mainBnd.StableID())
	}
}

func TestIDAssignerGivesEveryModuleMemberAUniqueID(t *testing.T) {
	res := pipeline.Compile("unique", `
struct Point { x: Int, y: Int };
fn origin(): Point = Point 0 0;
fn main(): Unit = println "hi";
`)
	for _, e := range res.Errors {
		t.Logf("diag: %s", e.Message)
	}
	seen := map[ast.ID]bool{}
	for _, m := range res.Module.Members {
		id := m.StableID()
		if id == "" {
			continue
		}
		if seen[id] {
			t.Fatalf("duplicate stable ID %q across module members", id)
		}
		seen[id] = true
	}
}
