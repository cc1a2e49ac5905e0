package semantic_test

import (
	"testing"

	"github.com/mml-lang/mmlc/internal/errors"
	"github.com/mml-lang/mmlc/internal/pipeline"
)

func TestTypeResolverFlagsUnknownTypeName(t *testing.T) {
	res := pipeline.Compile("unknown-type", `
fn identity(x: Nope): Nope = x;
fn main(): Unit = println "hi";
`)
	if !hasPhaseKind(res.Errors, errors.PhaseTypeResolver, errors.KindUnresolvedReference) {
		t.Fatalf("expected a type-resolver unresolved-reference diagnostic, got: %v", res.Errors)
	}
}

func TestTypeResolverFollowsAliasChain(t *testing.T) {
	res := pipeline.Compile("alias-chain", `
type Name = String;
type Label = Name;
fn greet(l: Label): Unit = println l;
fn main(): Unit = greet "hi";
`)
	for _, e := range res.Errors {
		if e.Phase == errors.PhaseTypeResolver {
			t.Fatalf("unexpected type-resolver diagnostic for a valid alias chain: %s", e.Message)
		}
	}
}

func TestTypeResolverFlagsCyclicAlias(t *testing.T) {
	res := pipeline.Compile("alias-cycle", `
type A = B;
type B = A;
fn main(): Unit = println "hi";
`)
	if !hasPhaseKind(res.Errors, errors.PhaseTypeResolver, errors.KindUnresolvedReference) {
		t.Fatalf("expected a type-resolver diagnostic for a cyclic alias chain, got: %v", res.Errors)
	}
}

func hasPhaseKind(errs errors.List, p errors.Phase, k errors.Kind) bool {
	for _, e := range errs {
		if e.Phase == p && e.Kind == k {
			return true
		}
	}
	return false
}
