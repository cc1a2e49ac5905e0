package semantic

import (
	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
)

// ResolveTypes resolves every TypeRef in the module to the TypeDef,
// TypeAlias, or TypeStruct declaration it names, following alias chains to
// their underlying type (§4.6). A TypeRef that names nothing in scope, or
// an alias chain that cycles back on itself, is wrapped in InvalidType.
func ResolveTypes(mod *ast.Module) (*ast.Module, errors.List) {
	var errs errors.List
	byName := map[string]ast.Decl{}
	for _, decl := range mod.Members {
		if _, name, ok := declKindAndName(decl); ok {
			byName[name] = decl
		}
	}

	resolveAliases(mod.Members, byName, &errs)

	for _, decl := range mod.Members {
		switch d := decl.(type) {
		case *ast.Bnd:
			if lam, ok := d.Body.(*ast.Lambda); ok {
				resolveLambdaTypes(lam, byName, &errs)
			}
			resolveTypeInPlace(&d.TypeAsc, byName, &errs)
		case *ast.TypeStruct:
			for _, f := range d.Fields {
				resolveTypeInPlace(&f.TypeAsc, byName, &errs)
			}
		}
	}

	return mod, errs
}

func resolveLambdaTypes(lam *ast.Lambda, byName map[string]ast.Decl, errs *errors.List) {
	for _, p := range lam.Params {
		resolveTypeInPlace(&p.TypeAsc, byName, errs)
	}
	resolveTypeInPlace(&lam.ReturnTypeAsc, byName, errs)
	ast.Walk(lam.Body, func(n ast.Node) bool {
		if nested, ok := n.(*ast.Lambda); ok && nested != lam {
			resolveLambdaTypes(nested, byName, errs)
			return false
		}
		return true
	})
}

// resolveAliases follows `type A = B` chains, up to the number of
// declarations deep, to catch a direct or indirect cycle.
func resolveAliases(members []ast.Decl, byName map[string]ast.Decl, errs *errors.List) {
	for _, decl := range members {
		alias, ok := decl.(*ast.TypeAlias)
		if !ok || alias.Resolved != nil {
			continue
		}
		seen := map[string]bool{alias.Name: true}
		current := alias.Target
		for i := 0; i < len(byName)+1; i++ {
			ref, isRef := current.(*ast.TypeRef)
			if !isRef {
				alias.Resolved = current
				break
			}
			target, found := byName[ref.Name]
			if !found {
				*errs = append(*errs, errors.New(errors.PhaseTypeResolver, errors.KindUnresolvedReference, ref.Span(), "unknown type %q", ref.Name))
				alias.Resolved = &ast.InvalidType{Original: current, Reason: "unresolved"}
				break
			}
			ref.ResolvedID = target.StableID()
			if seen[ref.Name] {
				*errs = append(*errs, errors.New(errors.PhaseTypeResolver, errors.KindUnresolvedReference, ref.Span(), "type alias %q forms a cycle", alias.Name))
				alias.Resolved = &ast.InvalidType{Original: current, Reason: "cyclic alias"}
				break
			}
			seen[ref.Name] = true
			switch t := target.(type) {
			case *ast.TypeAlias:
				current = t.Target
			case *ast.TypeDef:
				alias.Resolved = t.Typ
				i = len(byName)
			case *ast.TypeStruct:
				alias.Resolved = t
				i = len(byName)
			}
		}
		if alias.Resolved == nil {
			alias.Resolved = &ast.InvalidType{Original: alias.Target, Reason: "unresolved"}
		}
	}
}

func resolveTypeInPlace(slot *ast.Type, byName map[string]ast.Decl, errs *errors.List) {
	if slot == nil || *slot == nil {
		return
	}
	*slot = resolveType(*slot, byName, errs)
}

func resolveType(t ast.Type, byName map[string]ast.Decl, errs *errors.List) ast.Type {
	switch v := t.(type) {
	case *ast.TypeRef:
		target, found := byName[v.Name]
		if !found {
			*errs = append(*errs, errors.New(errors.PhaseTypeResolver, errors.KindUnresolvedReference, v.Span(), "unknown type %q", v.Name))
			return &ast.InvalidType{Original: v, Reason: "unresolved"}
		}
		v.ResolvedID = target.StableID()
		return v
	case *ast.TypeFn:
		for i := range v.ParamTypes {
			v.ParamTypes[i] = resolveType(v.ParamTypes[i], byName, errs)
		}
		v.ReturnType = resolveType(v.ReturnType, byName, errs)
		return v
	case *ast.TypeTuple:
		for i := range v.Elements {
			v.Elements[i] = resolveType(v.Elements[i], byName, errs)
		}
		return v
	default:
		return t
	}
}
