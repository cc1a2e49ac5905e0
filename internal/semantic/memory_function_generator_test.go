package semantic_test

import (
	"testing"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/pipeline"
)

func TestMemoryFunctionGeneratorSynthesizesFreeAndCloneForUserStruct(t *testing.T) {
	res := pipeline.Compile("memfn", `
struct Point { x: Int, y: Int };
fn main(): Unit = println "hi";
`)
	for _, e := range res.Errors {
		t.Logf("diag: %s", e.Message)
	}
	var gotFree, gotClone bool
	for _, m := range res.Module.Members {
		bnd, ok := m.(*ast.Bnd)
		if !ok {
			continue
		}
		switch bnd.Name {
		case "__free_Point":
			gotFree = true
		case "__clone_Point":
			gotClone = true
		}
	}
	if !gotFree || !gotClone {
		t.Fatalf("expected both __free_Point and __clone_Point to be synthesized, got free=%v clone=%v", gotFree, gotClone)
	}
}

func TestMemoryFunctionGeneratorSkipsNonAllocatingNativeTypes(t *testing.T) {
	res := pipeline.Compile("memfn-native", `
fn main(): Unit = println "hi";
`)
	for _, m := range res.Module.Members {
		bnd, ok := m.(*ast.Bnd)
		if !ok {
			continue
		}
		if bnd.Name == "__free_Int" || bnd.Name == "__clone_Int" {
			t.Fatalf("did not expect memory functions for a non-allocating scalar type, found %q", bnd.Name)
		}
	}
}
