// Package printer renders a parsed module back to MML source text, the
// AST-driven pretty-printer `mmlc fmt` is built on (§8 Testable Property 1:
// "re-rendering the AST and re-parsing yields a structurally equivalent
// AST"). It operates on the raw output of internal/parser — a flat,
// un-rewritten Expr still holding its Terms in source order — rather than
// a pipeline-rewritten module, so printing never has to reconstruct
// operator fixity from an already-curried App tree.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mml-lang/mmlc/internal/ast"
)

// Style names a layout in Options. Print does not read it: every Style is
// rendered with the StyleDetailed layout.
type Style int

const (
	// StyleDetailed keeps every binding's body on its own indented line,
	// one let-binding per line, matching how the examples in spec.md are
	// written.
	StyleDetailed Style = iota
	// StyleCompact is rendered exactly like StyleDetailed; declarations
	// are not joined onto a single line.
	StyleCompact
	// StyleMultiline is rendered exactly like StyleDetailed.
	StyleMultiline
)

// Options configures indentation (Style does not change the output), mirroring the flag
// surface `mmlc fmt` exposes.
type Options struct {
	Style       Style
	IndentWidth int
	UseSpaces   bool
}

// DefaultOptions matches `mmlc fmt`'s defaults (two-space, detailed).
func DefaultOptions() Options {
	return Options{Style: StyleDetailed, IndentWidth: 2, UseSpaces: true}
}

// Printer renders a *ast.Module to source text.
type Printer struct {
	opts Options
}

func New(opts Options) *Printer {
	return &Printer{opts: opts}
}

// Print renders every member of mod, one declaration per top-level block,
// separated by a single blank line.
func (p *Printer) Print(mod *ast.Module) string {
	var sb strings.Builder
	for i, decl := range mod.Members {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		p.printDecl(&sb, decl)
	}
	sb.WriteString("\n")
	return sb.String()
}

func (p *Printer) indent(n int) string {
	unit := "  "
	if !p.opts.UseSpaces {
		unit = "\t"
	} else if p.opts.IndentWidth > 0 {
		unit = strings.Repeat(" ", p.opts.IndentWidth)
	}
	return strings.Repeat(unit, n)
}

func (p *Printer) printDecl(sb *strings.Builder, decl ast.Decl) {
	if doc := declDoc(decl); doc != nil {
		for _, line := range strings.Split(strings.TrimRight(*doc, "\n"), "\n") {
			sb.WriteString("## ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	switch d := decl.(type) {
	case *ast.Bnd:
		p.printBnd(sb, d)
	case *ast.TypeStruct:
		p.printTypeStruct(sb, d)
	case *ast.TypeDef:
		sb.WriteString(fmt.Sprintf("type %s = ", d.Name))
		p.printType(sb, d.Typ)
		sb.WriteString(";")
	case *ast.TypeAlias:
		sb.WriteString(fmt.Sprintf("type %s = ", d.Name))
		p.printType(sb, d.Target)
		sb.WriteString(";")
	case *ast.ParsingMemberError:
		sb.WriteString(fmt.Sprintf("## unparsable member: %s\n", d.Message))
		sb.WriteString(strings.TrimSpace(d.RawText))
		sb.WriteString(";")
	case *ast.InvalidMember:
		sb.WriteString(fmt.Sprintf("## invalid member: %s", d.Reason))
	default:
		sb.WriteString(fmt.Sprintf("## unprintable declaration %T", decl))
	}
}

func declDoc(decl ast.Decl) *string {
	switch d := decl.(type) {
	case *ast.Bnd:
		return d.Doc
	case *ast.TypeStruct:
		return d.Doc
	case *ast.TypeDef:
		return d.Doc
	case *ast.TypeAlias:
		return d.Doc
	default:
		return nil
	}
}

func (p *Printer) printBnd(sb *strings.Builder, b *ast.Bnd) {
	lam, isLambda := b.Body.(*ast.Lambda)
	if !isLambda {
		sb.WriteString(fmt.Sprintf("let %s", b.Name))
		if b.TypeAsc != nil {
			sb.WriteString(": ")
			p.printType(sb, b.TypeAsc)
		}
		sb.WriteString(" = ")
		p.printTerm(sb, b.Body, 0)
		sb.WriteString(";")
		return
	}

	keyword := "fn"
	name := b.Name
	if b.Meta.IsOperator() {
		keyword = "op"
		name = b.Meta.OriginalName
	}
	sb.WriteString(fmt.Sprintf("%s %s(", keyword, name))
	for i, param := range lam.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if param.Consuming {
			sb.WriteString("~")
		}
		sb.WriteString(param.Name)
		if param.TypeAsc != nil {
			sb.WriteString(": ")
			p.printType(sb, param.TypeAsc)
		}
	}
	sb.WriteString(")")
	if lam.ReturnTypeAsc != nil {
		sb.WriteString(": ")
		p.printType(sb, lam.ReturnTypeAsc)
	}
	if b.Meta.IsOperator() && (b.Meta.Precedence != ast.DefaultPrecedence || b.Meta.Associativity != ast.DefaultAssociativity(b.Meta.Origin, b.Meta.Arity)) {
		sb.WriteString(fmt.Sprintf(" %d", b.Meta.Precedence))
		if b.Meta.Associativity == ast.AssocRight {
			sb.WriteString(" right")
		} else {
			sb.WriteString(" left")
		}
	}
	sb.WriteString(" =\n")
	p.printBody(sb, lam.Body, 1)
	sb.WriteString(";")
}

// printBody walks a let-desugared body chain, printing each `let name =
// rhs;` on its own line before the final expression, undoing exactly the
// desugaring parseBody performs (App(Lambda([p], rest), rhs)).
func (p *Printer) printBody(sb *strings.Builder, t ast.Term, depth int) {
	if app, ok := t.(*ast.App); ok {
		if lam, ok := app.Fn.(*ast.Lambda); ok && len(lam.Params) == 1 {
			param := lam.Params[0]
			sb.WriteString(p.indent(depth))
			sb.WriteString(fmt.Sprintf("let %s", param.Name))
			if param.TypeAsc != nil {
				sb.WriteString(": ")
				p.printType(sb, param.TypeAsc)
			}
			sb.WriteString(" = ")
			p.printTerm(sb, app.Arg, depth)
			sb.WriteString(";\n")
			p.printBody(sb, lam.Body, depth)
			return
		}
	}
	sb.WriteString(p.indent(depth))
	p.printTerm(sb, t, depth)
	sb.WriteString("\n")
}

func (p *Printer) printTypeStruct(sb *strings.Builder, s *ast.TypeStruct) {
	sb.WriteString(fmt.Sprintf("struct %s {\n", s.Name))
	for i, f := range s.Fields {
		sb.WriteString(p.indent(1))
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		p.printType(sb, f.TypeAsc)
		if i < len(s.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};")
}

func (p *Printer) printType(sb *strings.Builder, t ast.Type) {
	switch v := t.(type) {
	case nil:
		sb.WriteString("?")
	case *ast.TypeRef:
		sb.WriteString(v.Name)
	case *ast.TypeFn:
		for _, pt := range v.ParamTypes {
			p.printType(sb, pt)
			sb.WriteString(" -> ")
		}
		p.printType(sb, v.ReturnType)
	case *ast.TypeTuple:
		sb.WriteString("(")
		for i, e := range v.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.printType(sb, e)
		}
		sb.WriteString(")")
	case *ast.TypeUnit:
		sb.WriteString("Unit")
	case *ast.NativePrimitive:
		sb.WriteString(fmt.Sprintf("@native[t=%s]", v.LLVMType))
	case *ast.NativePointer:
		sb.WriteString(fmt.Sprintf("@native[t=*%s]", v.LLVMType))
	case *ast.NativeStruct:
		sb.WriteString("@native { ")
		for i, f := range v.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			p.printType(sb, f.TypeAsc)
		}
		sb.WriteString(" }")
	case *ast.InvalidType:
		sb.WriteString(fmt.Sprintf("/* invalid: %s */", v.Reason))
	default:
		sb.WriteString(fmt.Sprintf("/* %T */", v))
	}
}

func (p *Printer) printTerm(sb *strings.Builder, t ast.Term, depth int) {
	switch v := t.(type) {
	case nil:
		return
	case *ast.Expr:
		for i, term := range v.Terms {
			if i > 0 {
				sb.WriteString(" ")
			}
			p.printTerm(sb, term, depth)
		}
	case *ast.Ref:
		sb.WriteString(v.Name)
	case *ast.IntLit:
		sb.WriteString(strconv.FormatInt(v.Value, 10))
	case *ast.FloatLit:
		sb.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case *ast.StringLit:
		sb.WriteString(strconv.Quote(v.Value))
	case *ast.BoolLit:
		if v.Value {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case *ast.UnitLit:
		sb.WriteString("()")
	case *ast.Placeholder:
		sb.WriteString("_")
	case *ast.Hole:
		sb.WriteString("???")
	case *ast.TermGroup:
		sb.WriteString("(")
		p.printTerm(sb, v.Inner, depth)
		sb.WriteString(")")
	case *ast.Tuple:
		sb.WriteString("(")
		for i, e := range v.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.printTerm(sb, e, depth)
		}
		sb.WriteString(")")
	case *ast.FieldAccess:
		p.printTerm(sb, v.Target, depth)
		sb.WriteString(".")
		sb.WriteString(v.Field)
	case *ast.Cond:
		p.printCond(sb, v, depth)
	case *ast.App:
		p.printTerm(sb, v.Fn, depth)
		sb.WriteString(" ")
		p.printTerm(sb, v.Arg, depth)
	case *ast.Lambda:
		sb.WriteString("fn(")
		for i, param := range v.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(param.Name)
		}
		sb.WriteString(") ")
		p.printTerm(sb, v.Body, depth)
	case *ast.DataConstructor:
		sb.WriteString(string(v.StructID))
		for _, a := range v.Args {
			sb.WriteString(" ")
			p.printTerm(sb, a, depth)
		}
	case *ast.NativeImpl:
		sb.WriteString("@native")
		if v.Template != "" {
			sb.WriteString(fmt.Sprintf("[t=%s]", v.Template))
		}
	case *ast.TermError:
		sb.WriteString(fmt.Sprintf("/* %s: %s */", v.Message, v.RawText))
	default:
		sb.WriteString(fmt.Sprintf("/* %T */", v))
	}
}

func (p *Printer) printCond(sb *strings.Builder, c *ast.Cond, depth int) {
	for i, cc := range c.Cases {
		if i == 0 {
			sb.WriteString("if ")
		} else {
			sb.WriteString(" elif ")
		}
		p.printTerm(sb, cc.Test, depth)
		sb.WriteString(" then ")
		p.printTerm(sb, cc.Then, depth)
	}
	sb.WriteString(" else ")
	p.printTerm(sb, c.Else, depth)
}
