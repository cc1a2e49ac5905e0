package cmd

import (
	"strings"
	"testing"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
	"github.com/mml-lang/mmlc/internal/printer"
)

func TestModuleNameFromPathStripsExtension(t *testing.T) {
	cases := map[string]string{
		"program.mml":          "program",
		"/tmp/dir/hello.mml":   "hello",
		"noext":                "noext",
		"nested/path/name.txt": "name",
	}
	for path, want := range cases {
		if got := moduleNameFromPath(path); got != want {
			t.Errorf("moduleNameFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestFormatSourceRoundTripsCleanModule(t *testing.T) {
	out, err := formatSource("roundtrip", `fn main(): Unit = println "hi";`, printer.DefaultOptions())
	if err != nil {
		t.Fatalf("formatSource failed: %v", err)
	}
	if !strings.Contains(out, "fn main()") {
		t.Fatalf("expected formatted output to retain the main declaration, got: %q", out)
	}
}

func TestReportDiagnosticsRejectsUnknownFormat(t *testing.T) {
	if err := reportDiagnostics(nil, "toml"); err == nil {
		t.Fatal("expected an error for an unrecognized --report format")
	}
}

func TestReportDiagnosticsAcceptsYAMLAndJSON(t *testing.T) {
	errs := errors.List{
		errors.New(errors.PhaseTypeChecker, errors.KindTypeMismatch, ast.Synthetic(), "example mismatch"),
	}
	if err := reportDiagnostics(errs, "yaml"); err != nil {
		t.Fatalf("yaml report failed: %v", err)
	}
	if err := reportDiagnostics(errs, "json"); err != nil {
		t.Fatalf("json report failed: %v", err)
	}
}
