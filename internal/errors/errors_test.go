package errors

import (
	"strings"
	"testing"

	"github.com/mml-lang/mmlc/internal/ast"
)

func span(line, col int) ast.SrcSpan {
	return ast.SrcSpan{Start: ast.SrcPoint{Line: line, Col: col}, End: ast.SrcPoint{Line: line, Col: col}}
}

func TestFormatIncludesCaretUnderColumn(t *testing.T) {
	e := New(PhaseTypeChecker, KindTypeMismatch, span(2, 5), "expected %s, got %s", "Int", "Bool").WithSource("demo", "fn main () -> Unit =\n  1 + true;")
	out := e.Format(false)
	if !strings.Contains(out, "demo:2:5: [type-checker/type-mismatch] expected Int, got Bool") {
		t.Fatalf("missing header in output: %q", out)
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d: %q", len(lines), out)
	}
	caretLine := lines[2]
	if !strings.Contains(caretLine, "^") {
		t.Fatalf("expected caret line, got %q", caretLine)
	}
}

func TestListErrorMessageCountsMultiple(t *testing.T) {
	l := List{
		New(PhaseParser, KindSyntax, span(1, 1), "bad token"),
		New(PhaseTypeChecker, KindTypeMismatch, span(2, 1), "bad type"),
	}
	if l.Error() != "compilation failed with 2 error(s)" {
		t.Fatalf("unexpected message: %q", l.Error())
	}
}

func TestByPhaseFilters(t *testing.T) {
	l := List{
		New(PhaseParser, KindSyntax, span(1, 1), "a"),
		New(PhaseTypeChecker, KindTypeMismatch, span(2, 1), "b"),
		New(PhaseParser, KindSyntax, span(3, 1), "c"),
	}
	filtered := l.ByPhase(PhaseParser)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 parser errors, got %d", len(filtered))
	}
}

func TestFormatYAMLIncludesKindAndMessage(t *testing.T) {
	l := List{New(PhaseOwnershipAnalyzer, KindUseAfterMove, span(4, 2), "value already moved").WithSource("demo", "")}
	out, err := FormatYAML(l)
	if err != nil {
		t.Fatalf("FormatYAML error: %v", err)
	}
	if !strings.Contains(out, "use-after-move") || !strings.Contains(out, "value already moved") {
		t.Fatalf("unexpected yaml: %q", out)
	}
}
