package printer_test

import (
	"strings"
	"testing"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/parser"
	"github.com/mml-lang/mmlc/internal/printer"
)

func mustParse(t *testing.T, name, source string) *ast.Module {
	t.Helper()
	mod, err := parser.Parse(name, source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return mod
}

func declNames(mod *ast.Module) []string {
	names := make([]string, 0, len(mod.Members))
	for _, m := range mod.Members {
		switch d := m.(type) {
		case *ast.Bnd:
			names = append(names, d.Name)
		case *ast.TypeStruct:
			names = append(names, d.Name)
		case *ast.TypeDef:
			names = append(names, d.Name)
		case *ast.TypeAlias:
			names = append(names, d.Name)
		}
	}
	return names
}

func TestPrintThenReparseKeepsMemberNames(t *testing.T) {
	source := `
fn add(a: Int, b: Int): Int = a + b;
struct Point { x: Int, y: Int };
fn main(): Unit =
  let p = Point 1 2;
  println "done";
`
	mod := mustParse(t, "roundtrip", source)
	printed := printer.New(printer.DefaultOptions()).Print(mod)

	reparsed := mustParse(t, "roundtrip", printed)

	want := declNames(mod)
	got := declNames(reparsed)
	if len(want) != len(got) {
		t.Fatalf("member count changed across print/reparse: %v -> %v\nprinted:\n%s", want, got, printed)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("member %d name changed: %q -> %q\nprinted:\n%s", i, want[i], got[i], printed)
		}
	}
}

func TestPrintRendersOperatorDeclarationSymbol(t *testing.T) {
	mod := mustParse(t, "opdecl", `op <>(a: Int, b: Int): Bool 40 left = a;`)
	printed := printer.New(printer.DefaultOptions()).Print(mod)
	if !strings.Contains(printed, "op <>(") {
		t.Fatalf("expected the operator symbol to survive printing, got:\n%s", printed)
	}
}

func TestPrintPreservesLetChainOrder(t *testing.T) {
	mod := mustParse(t, "letchain", `
fn main(): Unit =
  let a = 1;
  let b = 2;
  println "done";
`)
	printed := printer.New(printer.DefaultOptions()).Print(mod)
	aIdx := strings.Index(printed, "let a")
	bIdx := strings.Index(printed, "let b")
	if aIdx == -1 || bIdx == -1 || aIdx > bIdx {
		t.Fatalf("expected 'let a' to print before 'let b', got:\n%s", printed)
	}
}

func TestPrintStructFields(t *testing.T) {
	mod := mustParse(t, "struct", `struct Pair { first: Int, second: Int };`)
	printed := printer.New(printer.DefaultOptions()).Print(mod)
	if !strings.Contains(printed, "first: Int") || !strings.Contains(printed, "second: Int") {
		t.Fatalf("expected both field declarations in printed output, got:\n%s", printed)
	}
}
