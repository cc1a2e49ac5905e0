package semantic

import (
	"fmt"

	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
)

// GenerateMemoryFunctions synthesizes a `__free_T`/`__clone_T` pair for
// every heap type reachable from the module — user TypeStructs (always
// heap-allocated records) and stdlib's native heap structs (String,
// IntArray, …, §6.3) — so the Ownership Analyzer has a concrete function to
// call at a value's last use or when a consuming parameter needs a copy
// (§4.14.5 "free-function lookup", §4.14.7 "clone-not-move"). Each
// synthesized Bnd is a NativeImpl whose template emits one
// `@__free_field`/`@__clone_field` call per field, scalar and heap fields
// alike, then releases/clones the record itself; it does not call a heap
// field type's own `__free_F`/`__clone_F`.
func GenerateMemoryFunctions(mod *ast.Module) (*ast.Module, errors.List) {
	var errs errors.List
	var generated []ast.Decl

	for _, decl := range mod.Members {
		switch d := decl.(type) {
		case *ast.TypeStruct:
			generated = append(generated, freeFn(mod.Name, d.Name, d.StableID(), d, d.Fields))
			generated = append(generated, cloneFn(mod.Name, d.Name, d.StableID(), d, d.Fields))
		case *ast.TypeDef:
			ns, ok := d.Typ.(*ast.NativeStruct)
			if !ok || ns.MemEffect == nil || *ns.MemEffect != ast.MemEffectAlloc {
				continue
			}
			generated = append(generated, freeFn(mod.Name, d.Name, d.StableID(), d, ns.Fields))
			generated = append(generated, cloneFn(mod.Name, d.Name, d.StableID(), d, ns.Fields))
		}
	}

	mod.Members = append(mod.Members, generated...)
	mod.Index = ast.Rebuild(mod)
	return mod, errs
}

func freeFn(module, typeName string, typeID ast.ID, typ ast.Type, fields []*ast.Field) *ast.Bnd {
	name := "__free_" + typeName
	id := ast.TopLevelID(module, ast.DeclKindBnd, name)
	paramID := ast.ParamID(id, "v")
	param := &ast.Param{Name: "v", TypeAsc: typeRefTo(typeID, typeName)}
	param.SetStableID(paramID)

	template := fmt.Sprintf("; release every heap field of %s, then the record itself\n", typeName)
	for _, f := range fields {
		template += fmt.Sprintf("call void @__free_field(%%v, \"%s\")\n", f.Name)
	}
	template += "call void @mml_rc_release(%v)"

	lam := &ast.Lambda{
		Params:        []*ast.Param{param},
		ReturnTypeAsc: &ast.TypeUnit{},
		Body:          &ast.NativeImpl{Template: template},
	}
	bnd := &ast.Bnd{
		Name: name,
		Meta: &ast.BindingMeta{Origin: ast.OriginFunction, Arity: ast.ArityOf(1), Precedence: ast.DefaultPrecedence, Associativity: ast.AssocLeft, OriginalName: name, MangledName: name},
		Body: lam,
	}
	bnd.SetStableID(id)
	return bnd
}

func cloneFn(module, typeName string, typeID ast.ID, typ ast.Type, fields []*ast.Field) *ast.Bnd {
	name := "__clone_" + typeName
	id := ast.TopLevelID(module, ast.DeclKindBnd, name)
	paramID := ast.ParamID(id, "v")
	param := &ast.Param{Name: "v", TypeAsc: typeRefTo(typeID, typeName)}
	param.SetStableID(paramID)

	template := fmt.Sprintf("; deep-copy %s: clone every heap field, retain every scalar one\n", typeName)
	for _, f := range fields {
		template += fmt.Sprintf("call void @__clone_field(%%v, \"%s\")\n", f.Name)
	}
	template += "%result = call ptr @mml_rc_clone(%v)"

	lam := &ast.Lambda{
		Params:        []*ast.Param{param},
		ReturnTypeAsc: typeRefTo(typeID, typeName),
		Body:          &ast.NativeImpl{Template: template},
	}
	bnd := &ast.Bnd{
		Name: name,
		Meta: &ast.BindingMeta{Origin: ast.OriginFunction, Arity: ast.ArityOf(1), Precedence: ast.DefaultPrecedence, Associativity: ast.AssocLeft, OriginalName: name, MangledName: name},
		Body: lam,
	}
	bnd.SetStableID(id)
	return bnd
}

func typeRefTo(id ast.ID, name string) *ast.TypeRef {
	return &ast.TypeRef{Name: name, ResolvedID: id}
}
