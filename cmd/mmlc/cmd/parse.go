package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/parser"
	"github.com/spf13/cobra"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an MML source file and display its module tree",
	Long: `Parse MML source code and display its parsed module.

If no file is provided, reads from stdin.
Use --dump-ast to show the full declaration/term tree instead of the
one-line-per-member summary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full declaration/term tree")
}

func runParse(cmd *cobra.Command, args []string) error {
	moduleName, input, err := readModuleSource(args)
	if err != nil {
		return err
	}

	mod, err := parser.Parse(moduleName, input)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if parseDumpAST {
		fmt.Printf("Module %q (%d members)\n", mod.Name, len(mod.Members))
		for _, decl := range mod.Members {
			dumpDecl(decl, 1)
		}
		return nil
	}

	for _, decl := range mod.Members {
		fmt.Println(describeDecl(decl))
	}
	return nil
}

// readModuleSource reads source text from a named file, or stdin when no
// file argument is given, and derives the module name the same way `mmlc
// build` would (the file's base name without extension, or "stdin").
func readModuleSource(args []string) (moduleName, source string, err error) {
	if len(args) > 0 {
		data, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return "", "", fmt.Errorf("error reading file: %w", readErr)
		}
		return moduleNameFromPath(args[0]), string(data), nil
	}
	data, readErr := io.ReadAll(os.Stdin)
	if readErr != nil {
		return "", "", fmt.Errorf("error reading stdin: %w", readErr)
	}
	return "stdin", string(data), nil
}

func indentOf(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "  "
	}
	return s
}

func describeDecl(decl ast.Decl) string {
	switch d := decl.(type) {
	case *ast.Bnd:
		kind := "fn"
		if d.Meta != nil && d.Meta.IsOperator() {
			kind = "op"
		}
		return fmt.Sprintf("%s %s", kind, d.Name)
	case *ast.TypeStruct:
		return fmt.Sprintf("struct %s (%d fields)", d.Name, len(d.Fields))
	case *ast.TypeDef:
		return fmt.Sprintf("type %s (native)", d.Name)
	case *ast.TypeAlias:
		return fmt.Sprintf("type %s (alias)", d.Name)
	case *ast.ParsingMemberError:
		return fmt.Sprintf("<parse error: %s>", d.Message)
	default:
		return fmt.Sprintf("%T", decl)
	}
}

func dumpDecl(decl ast.Decl, indent int) {
	ind := indentOf(indent)
	switch d := decl.(type) {
	case *ast.Bnd:
		fmt.Printf("%s%s\n", ind, describeDecl(decl))
		if lam, ok := d.Body.(*ast.Lambda); ok {
			dumpTerm(lam, indent+1)
		} else {
			dumpTerm(d.Body, indent+1)
		}
	case *ast.TypeStruct:
		fmt.Printf("%s%s\n", ind, describeDecl(decl))
		for _, f := range d.Fields {
			fmt.Printf("%s  %s: %s\n", ind, f.Name, describeType(f.TypeAsc))
		}
	default:
		fmt.Printf("%s%s\n", ind, describeDecl(decl))
	}
}

func describeType(t ast.Type) string {
	if t == nil {
		return "<none>"
	}
	switch v := t.(type) {
	case *ast.TypeRef:
		return v.Name
	case *ast.TypeFn:
		return "fn"
	case *ast.TypeTuple:
		return "tuple"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func dumpTerm(t ast.Term, indent int) {
	ind := indentOf(indent)
	switch v := t.(type) {
	case *ast.Lambda:
		names := make([]string, len(v.Params))
		for i, p := range v.Params {
			names[i] = p.Name
		}
		fmt.Printf("%sLambda(%v)\n", ind, names)
		dumpTerm(v.Body, indent+1)
	case *ast.App:
		fmt.Printf("%sApp\n", ind)
		dumpTerm(v.Fn, indent+1)
		dumpTerm(v.Arg, indent+1)
	case *ast.Expr:
		fmt.Printf("%sExpr (%d terms)\n", ind, len(v.Terms))
		for _, term := range v.Terms {
			dumpTerm(term, indent+1)
		}
	case *ast.Ref:
		fmt.Printf("%sRef %q\n", ind, v.Name)
	case *ast.IntLit:
		fmt.Printf("%sIntLit %d\n", ind, v.Value)
	case *ast.FloatLit:
		fmt.Printf("%sFloatLit %g\n", ind, v.Value)
	case *ast.StringLit:
		fmt.Printf("%sStringLit %q\n", ind, v.Value)
	case *ast.BoolLit:
		fmt.Printf("%sBoolLit %v\n", ind, v.Value)
	case *ast.UnitLit:
		fmt.Printf("%sUnitLit\n", ind)
	case *ast.Cond:
		fmt.Printf("%sCond (%d case(s))\n", ind, len(v.Cases))
		for _, c := range v.Cases {
			fmt.Printf("%s  if:\n", ind)
			dumpTerm(c.Test, indent+2)
			fmt.Printf("%s  then:\n", ind)
			dumpTerm(c.Then, indent+2)
		}
		fmt.Printf("%s  else:\n", ind)
		dumpTerm(v.Else, indent+2)
	case *ast.TermGroup:
		fmt.Printf("%sTermGroup\n", ind)
		dumpTerm(v.Inner, indent+1)
	case *ast.FieldAccess:
		fmt.Printf("%sFieldAccess .%s\n", ind, v.Field)
		dumpTerm(v.Target, indent+1)
	case *ast.DataConstructor:
		fmt.Printf("%sDataConstructor (%d args)\n", ind, len(v.Args))
		for _, a := range v.Args {
			dumpTerm(a, indent+1)
		}
	case nil:
		fmt.Printf("%s<nil>\n", ind)
	default:
		fmt.Printf("%s%T\n", ind, v)
	}
}
