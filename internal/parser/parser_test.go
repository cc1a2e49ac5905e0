package parser

import (
	"testing"

	"github.com/mml-lang/mmlc/internal/ast"
)

func TestParseHelloWorld(t *testing.T) {
	src := "fn main(): Unit =\n  let s = \"hello\";\n  println s\n;\n"
	mod, err := Parse("hello", src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(mod.Members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(mod.Members))
	}
	bnd, ok := mod.Members[0].(*ast.Bnd)
	if !ok {
		t.Fatalf("expected *ast.Bnd, got %T", mod.Members[0])
	}
	if bnd.Name != "main" {
		t.Fatalf("expected name 'main', got %q", bnd.Name)
	}
	lam, ok := bnd.Body.(*ast.Lambda)
	if !ok {
		t.Fatalf("expected Lambda body, got %T", bnd.Body)
	}
	if len(lam.Params) != 0 {
		t.Fatalf("expected 0 params, got %d", len(lam.Params))
	}
	// body desugars to App(Lambda([s], println s), Expr("hello"))
	app, ok := lam.Body.(*ast.App)
	if !ok {
		t.Fatalf("expected App (let-desugaring), got %T", lam.Body)
	}
	if _, ok := app.Fn.(*ast.Lambda); !ok {
		t.Fatalf("expected let-lambda as App.Fn, got %T", app.Fn)
	}
}

func TestParseStructAndMk(t *testing.T) {
	src := `struct User { name: String, age: Int };
fn mk(n: String): User = User n 0;
fn main(): Unit = let u = mk "x"; println u.name;
`
	mod, err := Parse("prog", src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(mod.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(mod.Members))
	}
	ts, ok := mod.Members[0].(*ast.TypeStruct)
	if !ok {
		t.Fatalf("expected *ast.TypeStruct, got %T", mod.Members[0])
	}
	if len(ts.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(ts.Fields))
	}
}

func TestParseOperatorDecl(t *testing.T) {
	src := "op *(a: Int, b: Int): Int 80 left = a;\n"
	mod, err := Parse("ops", src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	bnd := mod.Members[0].(*ast.Bnd)
	if bnd.Meta == nil || !bnd.Meta.IsOperator() {
		t.Fatalf("expected operator BindingMeta, got %+v", bnd.Meta)
	}
	if bnd.Meta.Precedence != 80 {
		t.Fatalf("expected precedence 80, got %d", bnd.Meta.Precedence)
	}
	if bnd.Name != "op.mul.2" {
		t.Fatalf("expected mangled name 'op.mul.2', got %q", bnd.Name)
	}
}

func TestFailedMemberRecovers(t *testing.T) {
	src := "### not a member ###;\nfn ok(): Int = 1;\n"
	mod, err := Parse("broken", src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(mod.Members) != 2 {
		t.Fatalf("expected 2 members (1 error + 1 fn), got %d", len(mod.Members))
	}
	if _, ok := mod.Members[0].(*ast.ParsingMemberError); !ok {
		t.Fatalf("expected ParsingMemberError, got %T", mod.Members[0])
	}
}
