package stdlib

import "github.com/mml-lang/mmlc/internal/ast"

// opSpec and fnSpec are declarative rows for the prelude's operator and
// function tables (§6.3): each row says exactly what a parsed `op`/`fn`
// declaration would have said, and buildOperator/buildFunction assemble
// the Bnd the parser would have produced, with an LLVM-IR template body
// instead of a user-written one.
type opSpec struct {
	symbol     string
	paramTypes []string
	retType    string
	precedence int
	assoc      ast.Associativity
	template   string
	mem        *ast.MemEffect
}

type fnSpec struct {
	name       string
	paramNames []string
	paramTypes []string
	retType    string
	template   string // "" for an external declaration with no body
	mem        *ast.MemEffect
}

func paramNamed(owner ast.ID, name, typ string) *ast.Param {
	p := &ast.Param{BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()}, Name: name, TypeAsc: tref(typ)}
	p.SetStableID(ast.ParamID(owner, name))
	return p
}

func buildOperator(spec opSpec) *ast.Bnd {
	arity := ast.ArityOf(len(spec.paramTypes))
	mangled := ast.MangleOperatorName(spec.symbol, arity.Count())
	id := ast.StdlibID(mangled)
	names := binaryParamNames(len(spec.paramTypes))
	params := make([]*ast.Param, len(spec.paramTypes))
	for i, t := range spec.paramTypes {
		params[i] = paramNamed(id, names[i], t)
	}
	lam := &ast.Lambda{
		TypedBase:     ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()}},
		Params:        params,
		ReturnTypeAsc: tref(spec.retType),
		Body:          &ast.NativeImpl{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()}}, Template: spec.template, MemEffect: spec.mem},
	}
	b := &ast.Bnd{
		BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()},
		Name:     mangled,
		Meta: &ast.BindingMeta{
			Origin:        ast.OriginOperator,
			Arity:         arity,
			Precedence:    spec.precedence,
			Associativity: spec.assoc,
			OriginalName:  spec.symbol,
			MangledName:   mangled,
		},
		Body: lam,
	}
	b.SetStableID(id)
	return b
}

func binaryParamNames(n int) []string {
	switch n {
	case 1:
		return []string{"a"}
	case 2:
		return []string{"a", "b"}
	default:
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('a' + i))
		}
		return names
	}
}

func buildFunction(spec fnSpec) *ast.Bnd {
	id := ast.StdlibID(spec.name)
	params := make([]*ast.Param, len(spec.paramNames))
	for i, n := range spec.paramNames {
		params[i] = paramNamed(id, n, spec.paramTypes[i])
	}
	var body ast.Term = &ast.NativeImpl{TypedBase: ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()}}, Template: spec.template, MemEffect: spec.mem}
	lam := &ast.Lambda{
		TypedBase:     ast.TypedBase{BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()}},
		Params:        params,
		ReturnTypeAsc: tref(spec.retType),
		Body:          body,
	}
	b := &ast.Bnd{
		BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()},
		Name:     spec.name,
		Meta: &ast.BindingMeta{
			Origin:        ast.OriginFunction,
			Arity:         ast.ArityOf(len(spec.paramNames)),
			Precedence:    ast.DefaultPrecedence,
			Associativity: ast.AssocLeft,
			OriginalName:  spec.name,
			MangledName:   spec.name,
		},
		Body: lam,
	}
	b.SetStableID(id)
	return b
}

// Operators returns the prelude's arithmetic, comparison, logical, shift,
// and unary operator declarations (§6.3 "Operators").
func Operators() []ast.Decl {
	specs := []opSpec{
		// Integer arithmetic.
		{"+", []string{"Int", "Int"}, "Int", 60, ast.AssocLeft, "%result = add i64 %operand1, %operand2", staticMem()},
		{"-", []string{"Int", "Int"}, "Int", 60, ast.AssocLeft, "%result = sub i64 %operand1, %operand2", staticMem()},
		{"*", []string{"Int", "Int"}, "Int", 80, ast.AssocLeft, "%result = mul i64 %operand1, %operand2", staticMem()},
		{"/", []string{"Int", "Int"}, "Int", 80, ast.AssocLeft, "%result = sdiv i64 %operand1, %operand2", staticMem()},
		{"%", []string{"Int", "Int"}, "Int", 80, ast.AssocLeft, "%result = srem i64 %operand1, %operand2", staticMem()},

		// Float arithmetic.
		{"+.", []string{"Double", "Double"}, "Double", 60, ast.AssocLeft, "%result = fadd double %operand1, %operand2", staticMem()},
		{"-.", []string{"Double", "Double"}, "Double", 60, ast.AssocLeft, "%result = fsub double %operand1, %operand2", staticMem()},
		{"*.", []string{"Double", "Double"}, "Double", 80, ast.AssocLeft, "%result = fmul double %operand1, %operand2", staticMem()},
		{"/.", []string{"Double", "Double"}, "Double", 80, ast.AssocLeft, "%result = fdiv double %operand1, %operand2", staticMem()},

		// Comparisons.
		{"==", []string{"Int", "Int"}, "Bool", 50, ast.AssocLeft, "%result = icmp eq i64 %operand1, %operand2", staticMem()},
		{"!=", []string{"Int", "Int"}, "Bool", 50, ast.AssocLeft, "%result = icmp ne i64 %operand1, %operand2", staticMem()},
		{"<", []string{"Int", "Int"}, "Bool", 50, ast.AssocLeft, "%result = icmp slt i64 %operand1, %operand2", staticMem()},
		{">", []string{"Int", "Int"}, "Bool", 50, ast.AssocLeft, "%result = icmp sgt i64 %operand1, %operand2", staticMem()},
		{"<=", []string{"Int", "Int"}, "Bool", 50, ast.AssocLeft, "%result = icmp sle i64 %operand1, %operand2", staticMem()},
		{">=", []string{"Int", "Int"}, "Bool", 50, ast.AssocLeft, "%result = icmp sge i64 %operand1, %operand2", staticMem()},

		// Logical.
		{"and", []string{"Bool", "Bool"}, "Bool", 40, ast.AssocLeft, "%result = and i1 %operand1, %operand2", staticMem()},
		{"or", []string{"Bool", "Bool"}, "Bool", 30, ast.AssocLeft, "%result = or i1 %operand1, %operand2", staticMem()},
		{"not", []string{"Bool"}, "Bool", 95, ast.AssocRight, "%result = xor i1 %operand, true", staticMem()},

		// Shifts.
		{"<<", []string{"Int", "Int"}, "Int", 55, ast.AssocLeft, "%result = shl i64 %operand1, %operand2", staticMem()},
		{">>", []string{"Int", "Int"}, "Int", 55, ast.AssocLeft, "%result = ashr i64 %operand1, %operand2", staticMem()},

		// Unary.
		{"+", []string{"Int"}, "Int", 95, ast.AssocRight, "%result = add i64 0, %operand", staticMem()},
		{"-", []string{"Int"}, "Int", 95, ast.AssocRight, "%result = sub i64 0, %operand", staticMem()},

		// String concatenation — right-assoc so `a ++ b ++ c` reads as
		// `a ++ (b ++ c)`; allocates a fresh heap String like `concat`.
		{"++", []string{"String", "String"}, "String", 61, ast.AssocRight, "%result = call %String* @mml_concat(%operand1, %operand2)", heapMem()},
	}
	decls := make([]ast.Decl, len(specs))
	for i, s := range specs {
		decls[i] = buildOperator(s)
	}
	return decls
}

// Functions returns the prelude's I/O, buffered I/O, file I/O, array, and
// conversion functions (§6.3 "Functions"). Every allocating function is
// marked memEffect = Alloc so the Ownership Analyzer's allocation
// fixpoint (§4.14.2) starts from the right leaves.
func Functions() []ast.Decl {
	specs := []fnSpec{
		// Console I/O — non-allocating.
		{"print", []string{"s"}, []string{"String"}, "Unit", "call void @mml_print(%operand)", staticMem()},
		{"println", []string{"s"}, []string{"String"}, "Unit", "call void @mml_println(%operand)", staticMem()},
		{"readline", nil, nil, "String", "%result = call %String* @mml_readline()", heapMem()},
		{"mml_sys_flush", nil, nil, "Unit", "call void @mml_sys_flush()", staticMem()},

		// String/number conversions — allocating (produce a heap String).
		{"concat", []string{"a", "b"}, []string{"String", "String"}, "String", "%result = call %String* @mml_concat(%operand1, %operand2)", heapMem()},
		{"to_string", []string{"n"}, []string{"Int"}, "String", "%result = call %String* @mml_int_to_string(%operand)", heapMem()},
		{"str_to_int", []string{"s"}, []string{"String"}, "Int", "%result = call i64 @mml_str_to_int(%operand)", staticMem()},
		{"int_to_float", []string{"n"}, []string{"Int"}, "Double", "%result = sitofp i64 %operand to double", staticMem()},
		{"float_to_int", []string{"f"}, []string{"Double"}, "Int", "%result = fptosi double %operand to i64", staticMem()},
		{"sqrt", []string{"f"}, []string{"Double"}, "Double", "%result = call double @llvm.sqrt.f64(double %operand)", staticMem()},
		{"fabs", []string{"f"}, []string{"Double"}, "Double", "%result = call double @llvm.fabs.f64(double %operand)", staticMem()},

		// Buffered I/O — mkBuffer allocates; writes/flush do not.
		{"mkBuffer", []string{"capacity"}, []string{"Int"}, "Buffer", "%result = call %Buffer* @mml_mk_buffer(%operand)", heapMem()},
		{"buffer_write", []string{"buf", "s"}, []string{"Buffer", "String"}, "Unit", "call void @mml_buffer_write(%operand1, %operand2)", staticMem()},
		{"buffer_write_line", []string{"buf", "s"}, []string{"Buffer", "String"}, "Unit", "call void @mml_buffer_write_line(%operand1, %operand2)", staticMem()},
		{"flush", []string{"buf"}, []string{"Buffer"}, "Unit", "call void @mml_buffer_flush(%operand)", staticMem()},

		// File I/O.
		{"open_file_read", []string{"path"}, []string{"String"}, "Int", "%result = call i64 @mml_open_file_read(%operand)", staticMem()},
		{"open_file_write", []string{"path"}, []string{"String"}, "Int", "%result = call i64 @mml_open_file_write(%operand)", staticMem()},
		{"close_file", []string{"fd"}, []string{"Int"}, "Unit", "call void @mml_close_file(%operand)", staticMem()},
		{"read_line_fd", []string{"fd"}, []string{"Int"}, "String", "%result = call %String* @mml_read_line_fd(%operand)", heapMem()},

		// Array ops — safe variants bounds-check, unsafe_ variants don't.
		{"ar_int_new", []string{"n"}, []string{"Int"}, "IntArray", "%result = call %IntArray* @mml_ar_int_new(%operand)", heapMem()},
		{"ar_int_get", []string{"ar", "i"}, []string{"IntArray", "Int"}, "Int", "%result = call i64 @mml_ar_int_get(%operand1, %operand2)", staticMem()},
		{"ar_int_set", []string{"ar", "i", "v"}, []string{"IntArray", "Int", "Int"}, "Unit", "call void @mml_ar_int_set(%operand1, %operand2, %operand3)", staticMem()},
		{"unsafe_ar_int_get", []string{"ar", "i"}, []string{"IntArray", "Int"}, "Int", "%result = call i64 @mml_unsafe_ar_int_get(%operand1, %operand2)", staticMem()},
		{"unsafe_ar_int_set", []string{"ar", "i", "v"}, []string{"IntArray", "Int", "Int"}, "Unit", "call void @mml_unsafe_ar_int_set(%operand1, %operand2, %operand3)", staticMem()},

		{"ar_str_new", []string{"n"}, []string{"Int"}, "StringArray", "%result = call %StringArray* @mml_ar_str_new(%operand)", heapMem()},
		{"ar_str_get", []string{"ar", "i"}, []string{"StringArray", "Int"}, "String", "%result = call %String* @mml_ar_str_get(%operand1, %operand2)", staticMem()},
		{"ar_str_set", []string{"ar", "i", "v"}, []string{"StringArray", "Int", "String"}, "Unit", "call void @mml_ar_str_set(%operand1, %operand2, %operand3)", staticMem()},
		{"unsafe_ar_str_get", []string{"ar", "i"}, []string{"StringArray", "Int"}, "String", "%result = call %String* @mml_unsafe_ar_str_get(%operand1, %operand2)", staticMem()},
		{"unsafe_ar_str_set", []string{"ar", "i", "v"}, []string{"StringArray", "Int", "String"}, "Unit", "call void @mml_unsafe_ar_str_set(%operand1, %operand2, %operand3)", staticMem()},

		{"ar_float_new", []string{"n"}, []string{"Int"}, "FloatArray", "%result = call %FloatArray* @mml_ar_float_new(%operand)", heapMem()},
		{"ar_float_get", []string{"ar", "i"}, []string{"FloatArray", "Int"}, "Double", "%result = call double @mml_ar_float_get(%operand1, %operand2)", staticMem()},
		{"ar_float_set", []string{"ar", "i", "v"}, []string{"FloatArray", "Int", "Double"}, "Unit", "call void @mml_ar_float_set(%operand1, %operand2, %operand3)", staticMem()},
		{"unsafe_ar_float_get", []string{"ar", "i"}, []string{"FloatArray", "Int"}, "Double", "%result = call double @mml_unsafe_ar_float_get(%operand1, %operand2)", staticMem()},
		{"unsafe_ar_float_set", []string{"ar", "i", "v"}, []string{"FloatArray", "Int", "Double"}, "Unit", "call void @mml_unsafe_ar_float_set(%operand1, %operand2, %operand3)", staticMem()},

		// String comparison — not expressible as an overload of `==`
		// (MML mangles operators by symbol+arity alone, so a second `==`
		// would collide with the Int one in the Duplicate Name Checker);
		// exposed as dedicated functions instead, normalized/collated the
		// same way the Simplifier's foldStringCall folds their literal-literal calls
		// at compile time.
		{"str_eq", []string{"a", "b"}, []string{"String", "String"}, "Bool", "%result = call i1 @mml_str_eq(%operand1, %operand2)", staticMem()},
		{"str_compare", []string{"a", "b"}, []string{"String", "String"}, "Int", "%result = call i64 @mml_str_compare(%operand1, %operand2)", staticMem()},
	}
	decls := make([]ast.Decl, len(specs))
	for i, s := range specs {
		decls[i] = buildFunction(s)
	}
	return decls
}
