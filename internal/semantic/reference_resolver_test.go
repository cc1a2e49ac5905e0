package semantic_test

import (
	"testing"

	"github.com/mml-lang/mmlc/internal/errors"
	"github.com/mml-lang/mmlc/internal/pipeline"
)

func TestReferenceResolverFlagsUndefinedName(t *testing.T) {
	res := pipeline.Compile("undefined", `
fn main(): Unit = println nowhere;
`)
	if !hasPhaseKind(res.Errors, errors.PhaseReferenceResolver, errors.KindUnresolvedReference) {
		t.Fatalf("expected an unresolved-reference diagnostic for %q, got: %v", "nowhere", res.Errors)
	}
}

func TestReferenceResolverResolvesOwnParameter(t *testing.T) {
	res := pipeline.Compile("shadow", `
fn addOne(n: Int): Int = n + 1;
fn main(): Unit = println "hi";
`)
	if hasPhaseKind(res.Errors, errors.PhaseReferenceResolver, errors.KindUnresolvedReference) {
		t.Fatalf("expected addOne's own parameter to resolve cleanly, got: %v", res.Errors)
	}
}

func TestReferenceResolverAcceptsSecondArityForOperatorSymbol(t *testing.T) {
	res := pipeline.Compile("shared-symbol", `
op *(a: Int): Int 50 right = a;
fn main(): Unit = println "hi";
`)
	for _, e := range res.Errors {
		if e.Phase == errors.PhaseReferenceResolver {
			t.Fatalf("declaring a unary '*' alongside the prelude's binary '*' should not itself be a resolver error: %s", e.Message)
		}
	}
}
