package semantic_test

import (
	"testing"

	"github.com/mml-lang/mmlc/internal/errors"
	"github.com/mml-lang/mmlc/internal/pipeline"
)

func TestParsingErrorCheckerReportsUnrecognizedMember(t *testing.T) {
	res := pipeline.Compile("broken-member", `
### garbage ###;
fn main(): Unit = println "hi";
`)
	if !hasPhaseKind(res.Errors, errors.PhaseParsingErrorChecker, errors.KindSyntax) {
		t.Fatalf("expected a parsing-error-checker syntax diagnostic, got: %v", res.Errors)
	}
}

func TestParsingErrorCheckerLeavesCleanModuleUntouched(t *testing.T) {
	res := pipeline.Compile("clean", `
fn main(): Unit = println "hi";
`)
	if hasPhaseKind(res.Errors, errors.PhaseParsingErrorChecker, errors.KindSyntax) {
		t.Fatalf("expected no parsing-error-checker diagnostics for a clean module, got: %v", res.Errors)
	}
}
