package semantic_test

import (
	"testing"

	"github.com/mml-lang/mmlc/internal/errors"
	"github.com/mml-lang/mmlc/internal/pipeline"
)

func TestDuplicateNameCheckerFlagsRepeatedTopLevelName(t *testing.T) {
	res := pipeline.Compile("dup", `
fn twice(n: Int): Int = n;
fn twice(n: Int): Int = n;
fn main(): Unit = println "hi";
`)
	if !hasKind(res.Errors, errors.KindDuplicateName) {
		t.Fatalf("expected a duplicate-name diagnostic, got: %v", res.Errors)
	}
}

func TestDuplicateNameCheckerAllowsDistinctOperatorArities(t *testing.T) {
	res := pipeline.Compile("dup-ops", `
op *(a: Int): Int 50 right = a;
fn main(): Unit = println "hi";
`)
	if hasKind(res.Errors, errors.KindDuplicateName) {
		t.Fatalf("unary '*' should not collide with the prelude's binary '*': %v", res.Errors)
	}
}

func TestDuplicateNameCheckerFlagsRepeatedParamName(t *testing.T) {
	res := pipeline.Compile("dup-param", `
fn add(a: Int, a: Int): Int = a;
fn main(): Unit = println "hi";
`)
	if !hasKind(res.Errors, errors.KindDuplicateName) {
		t.Fatalf("expected a duplicate-name diagnostic for repeated param name, got: %v", res.Errors)
	}
}

func hasKind(errs errors.List, k errors.Kind) bool {
	for _, e := range errs {
		if e.Kind == k {
			return true
		}
	}
	return false
}
