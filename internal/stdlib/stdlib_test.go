package stdlib

import (
	"testing"

	"github.com/mml-lang/mmlc/internal/ast"
)

func TestPreludeDeclarationsCarryStableIDs(t *testing.T) {
	for _, d := range Prelude() {
		r, ok := d.(ast.Resolvable)
		if !ok {
			t.Fatalf("prelude decl %T does not implement Resolvable", d)
		}
		if r.StableID() == "" {
			t.Fatalf("prelude decl %T has no stable ID", d)
		}
	}
}

func TestPreludeNamesAreUnique(t *testing.T) {
	seen := map[ast.ID]bool{}
	for _, d := range Prelude() {
		r := d.(ast.Resolvable)
		if seen[r.StableID()] {
			t.Fatalf("duplicate stable ID %q in prelude", r.StableID())
		}
		seen[r.StableID()] = true
	}
}

func TestMulOperatorMangledName(t *testing.T) {
	var mul *ast.Bnd
	for _, d := range Operators() {
		b := d.(*ast.Bnd)
		if b.Meta.OriginalName == "*" && b.Meta.Arity.Kind == ast.ArityBinary {
			mul = b
			break
		}
	}
	if mul == nil {
		t.Fatal("binary * operator not found in prelude")
	}
	if mul.Name != "op.mul.2" {
		t.Fatalf("expected mangled name op.mul.2, got %q", mul.Name)
	}
	if mul.StableID() != ast.StdlibID("op.mul.2") {
		t.Fatalf("expected stable ID stdlib::op.mul.2, got %q", mul.StableID())
	}
}

func TestAllocatingFunctionsMarkMemEffectAlloc(t *testing.T) {
	for _, d := range Functions() {
		b := d.(*ast.Bnd)
		lam := b.Body.(*ast.Lambda)
		impl, ok := lam.Body.(*ast.NativeImpl)
		if !ok {
			continue
		}
		switch b.Name {
		case "readline", "concat", "to_string", "mkBuffer", "ar_int_new", "ar_str_new", "ar_float_new", "read_line_fd":
			if impl.MemEffect == nil || *impl.MemEffect != ast.MemEffectAlloc {
				t.Errorf("%s: expected MemEffectAlloc", b.Name)
			}
		}
	}
}

func TestInjectPrependsPrelude(t *testing.T) {
	mod := &ast.Module{Members: []ast.Decl{}}
	Inject(mod)
	if len(mod.Members) == 0 {
		t.Fatal("Inject did not add any members")
	}
	first := mod.Members[0].(ast.Resolvable)
	if first.StableID() != ast.StdlibID("Int8") {
		t.Fatalf("expected first member to be Int8, got %q", first.StableID())
	}
}

func TestStringEqualNormalizesNFC(t *testing.T) {
	composed := "caf\u00e9"          // precomposed e-acute
	decomposed := "cafe\u0301"       // e followed by a combining acute accent
	if !StringEqual(composed, decomposed) {
		t.Fatalf("expected %q and %q to compare equal under NFC normalization", composed, decomposed)
	}
	if StringEqual(composed, "cafe") {
		t.Fatal("expected genuinely different strings to compare unequal")
	}
}

func TestLocaleCompareOrdersCaseInsensitively(t *testing.T) {
	if LocaleCompare("apple", "Banana") >= 0 {
		t.Fatal("expected \"apple\" to collate before \"Banana\"")
	}
	if LocaleCompare("same", "same") != 0 {
		t.Fatal("expected equal strings to compare equal")
	}
}
