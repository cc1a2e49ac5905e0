// Package errors formats the compiler's accumulated diagnostics: source
// context, line/column carets, and an optional colorized or YAML rendering
// (§2 "every phase returns (Module', Errors'), never aborting on first
// error" — the pipeline collects every phase's errors and this package is
// what finally prints them).
package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/mml-lang/mmlc/internal/ast"
)

// Phase names the pipeline component that raised a diagnostic (§2's
// component list), so a reader can tell "ID Assigner" errors from "Type
// Checker" errors at a glance.
type Phase string

const (
	PhaseParser               Phase = "parser"
	PhaseStdlibInjection      Phase = "stdlib-injection"
	PhaseParsingErrorChecker  Phase = "parsing-error-checker"
	PhaseDuplicateNameChecker Phase = "duplicate-name-checker"
	PhaseIDAssigner           Phase = "id-assigner"
	PhaseTypeResolver         Phase = "type-resolver"
	PhaseReferenceResolver    Phase = "reference-resolver"
	PhaseExpressionRewriter   Phase = "expression-rewriter"
	PhaseSimplifier           Phase = "simplifier"
	PhaseTypeChecker          Phase = "type-checker"
	PhaseMemoryFunctionGen    Phase = "memory-function-generator"
	PhaseResolvablesReindexer Phase = "resolvables-reindexer"
	PhaseTailRecursionDetect  Phase = "tail-recursion-detector"
	PhaseOwnershipAnalyzer    Phase = "ownership-analyzer"
)

// Kind classifies a diagnostic within its phase (§7's error catalogue:
// duplicate/structural, name resolution, expression shape, type, ownership,
// entry-point categories).
type Kind string

const (
	KindSyntax                       Kind = "syntax"
	KindDuplicateName                Kind = "duplicate-name"
	KindUnresolvedReference          Kind = "unresolved-reference"
	KindAmbiguousReference           Kind = "ambiguous-reference"
	KindInvalidSelection             Kind = "invalid-selection"
	KindUnknownField                 Kind = "unknown-field"
	KindTypeMismatch                 Kind = "type-mismatch"
	KindArityMismatch                Kind = "arity-mismatch"
	KindMissingEntryPoint            Kind = "missing-entry-point"
	KindInvalidEntryPoint            Kind = "invalid-entry-point"
	KindOwnershipViolation           Kind = "ownership-violation"
	KindUseAfterMove                 Kind = "use-after-move"
	KindConsumingMisuse              Kind = "consuming-misuse"
	KindConditionalOwnershipMismatch Kind = "conditional-ownership-mismatch"
	KindInternal                     Kind = "internal"
)

// Error is a single compiler diagnostic, carrying enough to render either a
// one-line message or a caret-annotated source excerpt.
type Error struct {
	Phase   Phase       `yaml:"phase"`
	Kind    Kind        `yaml:"kind"`
	Message string      `yaml:"message"`
	Span    ast.SrcSpan `yaml:"span"`
	Source  string      `yaml:"-"`
	Module  string      `yaml:"module"`
}

func (e *Error) Error() string { return e.Format(false) }

// Format renders the error with a source-line caret, matching the header
// and indicator layout every phase's diagnostics share.
func (e *Error) Format(useColor bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s:%d:%d: [%s/%s] ", e.Module, e.Span.Start.Line, e.Span.Start.Col, e.Phase, e.Kind)
	if useColor {
		sb.WriteString(color.New(color.Bold).Sprint(header))
	} else {
		sb.WriteString(header)
	}
	sb.WriteString(e.Message)
	sb.WriteString("\n")

	line := sourceLine(e.Source, e.Span.Start.Line)
	if line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Span.Start.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Span.Start.Col-1))
		caret := "^"
		if useColor {
			caret = color.New(color.FgRed, color.Bold).Sprint("^")
		}
		sb.WriteString(caret)
		sb.WriteString("\n")
	}

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// List is the accumulated, non-aborting error set every phase threads
// through the pipeline (§2).
type List []*Error

func (l List) Error() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("compilation failed with %d error(s)", len(l))
	}
}

// HasErrors reports whether any diagnostic was raised.
func (l List) HasErrors() bool { return len(l) > 0 }

// ByPhase filters the list down to diagnostics from a single phase, mainly
// useful in phase-level unit tests that only want to assert on their own
// errors.
func (l List) ByPhase(p Phase) List {
	var out List
	for _, e := range l {
		if e.Phase == p {
			out = append(out, e)
		}
	}
	return out
}

// shouldUseColor auto-detects a color-capable terminal the way a CLI
// normally would, falling back to the NO_COLOR convention.
func shouldUseColor(w *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
}

// Report prints every error in the list to stderr, colorized when stderr is
// a terminal.
func Report(errs List) {
	useColor := shouldUseColor(os.Stderr)
	for i, e := range errs {
		fmt.Fprint(os.Stderr, e.Format(useColor))
		if i < len(errs)-1 {
			fmt.Fprintln(os.Stderr)
		}
	}
}

// yamlError is the serializable shape `--report yaml` emits: ast.SrcSpan's
// nested SrcPoint structs marshal through yaml.v3's default struct tags, but
// we flatten line/col here for a terser report document.
type yamlError struct {
	Phase   Phase  `yaml:"phase" json:"phase"`
	Kind    Kind   `yaml:"kind" json:"kind"`
	Message string `yaml:"message" json:"message"`
	Module  string `yaml:"module" json:"module"`
	Line    int    `yaml:"line" json:"line"`
	Col     int    `yaml:"col" json:"col"`
}

// FormatYAML renders the error list as a YAML document, the `--report yaml`
// machine-readable alternative to Report's terminal output.
func FormatYAML(errs List) (string, error) {
	out := make([]yamlError, len(errs))
	for i, e := range errs {
		out[i] = yamlError{
			Phase:   e.Phase,
			Kind:    e.Kind,
			Message: e.Message,
			Module:  e.Module,
			Line:    e.Span.Start.Line,
			Col:     e.Span.Start.Col,
		}
	}
	b, err := yaml.Marshal(struct {
		Errors []yamlError `yaml:"errors"`
	}{Errors: out})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FormatJSON renders the error list as a JSON document for `--report json`.
// The error taxonomy has no JSON-capable dependency anywhere in the corpus
// (the pack's only structured-serialization library is yaml.v3), so this
// one path uses encoding/json rather than inventing a dependency that
// nothing in the retrieved examples exercises.
func FormatJSON(errs List) (string, error) {
	out := make([]yamlError, len(errs))
	for i, e := range errs {
		out[i] = yamlError{
			Phase:   e.Phase,
			Kind:    e.Kind,
			Message: e.Message,
			Module:  e.Module,
			Line:    e.Span.Start.Line,
			Col:     e.Span.Start.Col,
		}
	}
	b, err := json.MarshalIndent(struct {
		Errors []yamlError `json:"errors"`
	}{Errors: out}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// New constructs an Error anchored at a span, with no source text attached
// yet (the pipeline fills Source in once the originating module is known).
func New(phase Phase, kind Kind, span ast.SrcSpan, format string, args ...interface{}) *Error {
	return &Error{Phase: phase, Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}

// WithSource returns a copy of the error with its Source/Module filled in,
// used once a phase's errors are being assembled into the module's final
// error list.
func (e *Error) WithSource(module, source string) *Error {
	cp := *e
	cp.Module = module
	cp.Source = source
	return &cp
}
