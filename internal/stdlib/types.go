// Package stdlib implements Standard Library Injection (§4.2): it
// prepends the MinnieML prelude (§6.3) to a freshly parsed module, before
// any semantic phase runs. Every injected declaration is built directly as
// an AST value — never parsed from source text — and carries its stable
// ID (`stdlib::<name>`) already set, so the ID Assigner (§4.5), which only
// assigns IDs to resolvables "not yet carrying one", leaves these alone.
package stdlib

import "github.com/mml-lang/mmlc/internal/ast"

func tref(name string) *ast.TypeRef {
	return &ast.TypeRef{TypeBase: ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()}}, Name: name}
}

func staticMem() *ast.MemEffect {
	m := ast.MemEffectStatic
	return &m
}

func heapMem() *ast.MemEffect {
	m := ast.MemEffectAlloc
	return &m
}

// nativeTypeDef builds a `type Name = @native[t=<llvm>]` declaration for a
// native primitive.
func nativeTypeDef(name, llvmType string) *ast.TypeDef {
	d := &ast.TypeDef{
		BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()},
		Name:     name,
		Typ: &ast.NativePrimitive{
			TypeBase:  ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()}},
			LLVMType:  llvmType,
			MemEffect: staticMem(),
		},
	}
	d.SetStableID(ast.StdlibID(name))
	return d
}

// nativePointerDef builds a `type Name = @native[t=*<llvm>]` declaration.
func nativePointerDef(name, llvmType string) *ast.TypeDef {
	d := &ast.TypeDef{
		BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()},
		Name:     name,
		Typ: &ast.NativePointer{
			TypeBase:  ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()}},
			LLVMType:  llvmType,
			MemEffect: staticMem(),
		},
	}
	d.SetStableID(ast.StdlibID(name))
	return d
}

// aliasDef builds a `type Name = Target` type alias.
func aliasDef(name, target string) *ast.TypeAlias {
	d := &ast.TypeAlias{
		BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()},
		Name:     name,
		Target:   tref(target),
	}
	d.SetStableID(ast.StdlibID(name))
	return d
}

// heapStructDef builds a `type Name = @native { f1: T1, ... } [mem=heap]`
// composite heap type, e.g. String{length: Int64, data: CharPtr}.
func heapStructDef(name string, fields ...[2]string) *ast.TypeDef {
	flds := make([]*ast.Field, 0, len(fields))
	for _, f := range fields {
		fld := &ast.Field{
			BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()},
			Name:     f[0],
			TypeAsc:  tref(f[1]),
		}
		fld.SetStableID(ast.StructFieldID("stdlib", name, f[0]))
		flds = append(flds, fld)
	}
	d := &ast.TypeDef{
		BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()},
		Name:     name,
		Typ: &ast.NativeStruct{
			TypeBase:  ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()}},
			Fields:    flds,
			MemEffect: heapMem(),
		},
	}
	d.SetStableID(ast.StdlibID(name))
	return d
}

// unitTypeDef builds the `type Unit = ...` declaration backed by the
// distinguished TypeUnit node (§3 "Types" — TypeUnit is the type of the
// Unit literal `()`), rather than a NativePrimitive: every other prelude
// scalar is a bare LLVM scalar, but Unit is the language's own nullary
// type and deserves the dedicated node so the Type Checker can compare it
// structurally (TypeUnit == TypeUnit) instead of by LLVM type string.
func unitTypeDef() *ast.TypeDef {
	d := &ast.TypeDef{
		BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()},
		Name:     "Unit",
		Typ:      &ast.TypeUnit{TypeBase: ast.TypeBase{BaseNode: ast.BaseNode{SrcSpan: ast.Synthetic()}}},
	}
	d.SetStableID(ast.StdlibID("Unit"))
	return d
}

// Types returns the prelude's scalar, pointer, alias, and composite heap
// type declarations (§6.3 "Types").
func Types() []ast.Decl {
	return []ast.Decl{
		nativeTypeDef("Int8", "i8"),
		nativeTypeDef("Int16", "i16"),
		nativeTypeDef("Int32", "i32"),
		nativeTypeDef("Int64", "i64"),
		nativeTypeDef("Float", "float"),
		nativeTypeDef("Double", "double"),
		nativeTypeDef("Bool", "i1"),
		nativeTypeDef("Char", "i8"),
		unitTypeDef(),
		nativeTypeDef("SizeT", "i64"),
		nativePointerDef("CharPtr", "i8"),

		aliasDef("Int", "Int64"),
		aliasDef("Byte", "Int8"),
		aliasDef("Word", "Int8"),

		heapStructDef("String", [2]string{"length", "Int64"}, [2]string{"data", "CharPtr"}),
		heapStructDef("IntArray", [2]string{"length", "Int64"}, [2]string{"data", "CharPtr"}),
		heapStructDef("StringArray", [2]string{"length", "Int64"}, [2]string{"data", "CharPtr"}),
		heapStructDef("FloatArray", [2]string{"length", "Int64"}, [2]string{"data", "CharPtr"}),
		heapStructDef("Buffer", [2]string{"length", "Int64"}, [2]string{"data", "CharPtr"}),
	}
}
