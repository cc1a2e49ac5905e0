package semantic

import (
	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
)

// CheckTypes runs the Type Checker's two sub-passes (§4.10): pass one
// copies every parameter's declared ascription into its working Typ slot
// (mirroring what the Type Resolver already did for type names, now
// doing it for the value-level Typ/TypeAsc split); pass two infers and
// checks every term bottom-up, stamping TypeSpec via SetTypeSpec and
// reporting mismatches. It finishes with the entry-point check (§4.1 "An
// MML program's entry point is a nullary `main` bound to return Unit").
func CheckTypes(mod *ast.Module) (*ast.Module, errors.List) {
	var errs errors.List
	tc := &typeChecker{mod: mod, types: namedTypes(mod), idx: bndIndex(mod), errs: &errs}

	for _, decl := range mod.Members {
		if s, ok := decl.(*ast.TypeStruct); ok {
			for _, f := range s.Fields {
				f.Typ = f.TypeAsc
			}
		}
	}
	for _, decl := range mod.Members {
		bnd, ok := decl.(*ast.Bnd)
		if !ok {
			continue
		}
		if lam, isLam := bnd.Body.(*ast.Lambda); isLam {
			for _, p := range lam.Params {
				p.Typ = p.TypeAsc
			}
		}
	}

	for _, decl := range mod.Members {
		bnd, ok := decl.(*ast.Bnd)
		if !ok {
			continue
		}
		tc.checkBnd(bnd)
	}

	tc.checkEntryPoint(mod)
	return mod, errs
}

func namedTypes(mod *ast.Module) map[string]ast.Type {
	out := map[string]ast.Type{}
	for _, decl := range mod.Members {
		switch d := decl.(type) {
		case *ast.TypeDef:
			out[d.Name] = d.Typ
		case *ast.TypeAlias:
			out[d.Name] = d.Resolved
		case *ast.TypeStruct:
			out[d.Name] = d
		}
	}
	return out
}

func bndIndex(mod *ast.Module) map[ast.ID]*ast.Bnd {
	out := map[ast.ID]*ast.Bnd{}
	for _, decl := range mod.Members {
		if bnd, ok := decl.(*ast.Bnd); ok {
			out[bnd.StableID()] = bnd
		}
	}
	return out
}

type typeChecker struct {
	mod   *ast.Module
	types map[string]ast.Type
	idx   map[ast.ID]*ast.Bnd
	errs  *errors.List
}

func (tc *typeChecker) checkBnd(bnd *ast.Bnd) {
	lam, ok := bnd.Body.(*ast.Lambda)
	if !ok {
		tc.infer(bnd.Body, nil)
		return
	}
	tc.inferLambda(lam)
}

// bndType computes the (possibly curried function) type a Bnd contributes
// in value position: TypeFn(params..., return) for a function/operator —
// a nullary declaration is typed as `Unit -> Return`, matching the Unit
// argument the Expression Rewriter's auto-call always supplies — or the
// plain value type of a non-function Bnd's body.
func (tc *typeChecker) bndType(bnd *ast.Bnd) ast.Type {
	lam, ok := bnd.Body.(*ast.Lambda)
	if !ok {
		return tc.infer(bnd.Body, nil)
	}
	if len(lam.Params) == 0 {
		return &ast.TypeFn{ParamTypes: []ast.Type{unitType()}, ReturnType: lam.ReturnTypeAsc}
	}
	params := make([]ast.Type, len(lam.Params))
	for i, p := range lam.Params {
		params[i] = p.Typ
	}
	return &ast.TypeFn{ParamTypes: params, ReturnType: lam.ReturnTypeAsc}
}

func unitType() ast.Type { return &ast.TypeUnit{} }

func (tc *typeChecker) inferLambda(lam *ast.Lambda) {
	expected := lam.ReturnTypeAsc
	got := tc.infer(lam.Body, expected)
	if expected != nil && !typesEqual(expected, got) {
		*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindTypeMismatch, lam.Body.Span(),
			"function body has type %s but is declared to return %s", describeType(got), describeType(expected)))
	}
}

// infer computes t's type, recording it via SetTypeSpec, and reports any
// local mismatch against an optional expected type (used for Hole and for
// branch-consistency checks in Cond).
func (tc *typeChecker) infer(t ast.Term, expected ast.Type) ast.Type {
	var result ast.Type
	switch v := t.(type) {
	case *ast.IntLit:
		result = tc.types["Int"]
	case *ast.FloatLit:
		result = tc.types["Double"]
	case *ast.StringLit:
		result = tc.types["String"]
	case *ast.BoolLit:
		result = tc.types["Bool"]
	case *ast.UnitLit:
		result = unitType()
	case *ast.Hole:
		if expected == nil {
			*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindTypeMismatch, v.Span(), "cannot infer type of ??? without surrounding context"))
			result = unitType()
		} else {
			result = expected
		}
	case *ast.Placeholder:
		result = &ast.TypeVariable{Name: "_"}
	case *ast.Ref:
		result = tc.refType(v)
	case *ast.App:
		result = tc.inferApp(v)
	case *ast.FieldAccess:
		result = tc.inferFieldAccess(v)
	case *ast.Cond:
		result = tc.inferCond(v)
	case *ast.Tuple:
		elems := make([]ast.Type, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = tc.infer(e, nil)
		}
		result = &ast.TypeTuple{Elements: elems}
	case *ast.DataConstructor:
		result = tc.inferDataConstructor(v)
	case *ast.Lambda:
		tc.inferLambda(v)
		result = tc.bndLambdaType(v)
	case *ast.NativeImpl:
		if expected != nil {
			result = expected
		} else {
			result = unitType()
		}
	case *ast.TermError, *ast.InvalidExpression, *ast.ParsingIdError:
		result = &ast.InvalidType{Reason: "already reported"}
	default:
		result = &ast.InvalidType{Reason: "unhandled term kind"}
	}
	t.SetTypeSpec(result)
	return result
}

func (tc *typeChecker) bndLambdaType(lam *ast.Lambda) ast.Type {
	if len(lam.Params) == 0 {
		return &ast.TypeFn{ParamTypes: []ast.Type{unitType()}, ReturnType: lam.ReturnTypeAsc}
	}
	params := make([]ast.Type, len(lam.Params))
	for i, p := range lam.Params {
		params[i] = p.Typ
	}
	return &ast.TypeFn{ParamTypes: params, ReturnType: lam.ReturnTypeAsc}
}

func (tc *typeChecker) refType(ref *ast.Ref) ast.Type {
	id := ref.ResolvedID
	if id == "" && len(ref.CandidateIDs) > 0 {
		id = ref.CandidateIDs[0]
	}
	if id == "" {
		return &ast.InvalidType{Reason: "unresolved reference"}
	}
	if bnd, ok := tc.idx[id]; ok {
		return tc.bndType(bnd)
	}
	if resolvable, ok := tc.mod.Index.Get(id); ok {
		if p, isParam := resolvable.(*ast.Param); isParam {
			return p.Typ
		}
	}
	return &ast.InvalidType{Reason: "unresolved reference"}
}

// inferApp handles both an ordinary curried call and the let-binding shape
// a local `let name = rhs; rest` desugars to (App.Fn is a bare Lambda with
// exactly one parameter, §3): the latter is type-directed substitution, not
// a function call, so the binding's Typ is filled in from its declared
// ascription or, lacking one, inferred from rhs, and the let's overall type
// is its body's type rather than a TypeFn.
func (tc *typeChecker) inferApp(app *ast.App) ast.Type {
	if lam, isLet := letLambda(app); isLet {
		return tc.inferLet(lam, app.Arg)
	}
	fnType := tc.infer(app.Fn, nil)
	argType := tc.infer(app.Arg, nil)
	fn, ok := fnType.(*ast.TypeFn)
	if !ok {
		if _, invalid := fnType.(*ast.InvalidType); !invalid {
			*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindArityMismatch, app.Span(), "cannot apply a value of type %s", describeType(fnType)))
		}
		return &ast.InvalidType{Reason: "applied a non-function"}
	}
	if len(fn.ParamTypes) == 0 {
		*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindArityMismatch, app.Span(), "too many arguments"))
		return &ast.InvalidType{Reason: "over-applied"}
	}
	want := fn.ParamTypes[0]
	if !typesEqual(want, argType) {
		if _, invalid := argType.(*ast.InvalidType); !invalid {
			*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindTypeMismatch, app.Arg.Span(),
				"argument has type %s, expected %s", describeType(argType), describeType(want)))
		}
	}
	if len(fn.ParamTypes) == 1 {
		return fn.ReturnType
	}
	return &ast.TypeFn{ParamTypes: fn.ParamTypes[1:], ReturnType: fn.ReturnType}
}

// letLambda recognizes the App(Lambda([p], rest), rhs) shape a local
// `let p = rhs; rest` desugars to (§3): exactly one parameter, distinguishing
// it from an ordinary curried call whose Fn is a Ref or a further App.
func letLambda(app *ast.App) (*ast.Lambda, bool) {
	lam, ok := app.Fn.(*ast.Lambda)
	if !ok || len(lam.Params) != 1 {
		return nil, false
	}
	return lam, true
}

// inferLet infers a let-binding's type directly from its right-hand side
// rather than through TypeFn-based call checking: the binding's declared
// ascription (if any) is checked against the inferred rhs type, its Typ slot
// is filled in either way, and the whole App's type is the body's.
func (tc *typeChecker) inferLet(lam *ast.Lambda, rhs ast.Term) ast.Type {
	param := lam.Params[0]
	rhsType := tc.infer(rhs, param.TypeAsc)
	if param.TypeAsc != nil {
		if !typesEqual(param.TypeAsc, rhsType) {
			if _, invalid := rhsType.(*ast.InvalidType); !invalid {
				*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindTypeMismatch, rhs.Span(),
					"%q is bound to a value of type %s, expected %s", param.Name, describeType(rhsType), describeType(param.TypeAsc)))
			}
		}
		param.Typ = param.TypeAsc
	} else {
		param.Typ = rhsType
	}
	return tc.infer(lam.Body, nil)
}

func (tc *typeChecker) inferFieldAccess(fa *ast.FieldAccess) ast.Type {
	targetType := tc.infer(fa.Target, nil)
	fields := structFields(targetType)
	if fields == nil {
		*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindInvalidSelection, fa.Span(),
			"cannot select a field from a value of type %s", describeType(targetType)))
		return &ast.InvalidType{Reason: "invalid selection"}
	}
	for _, f := range fields {
		if f.Name == fa.Field {
			fa.FieldID = f.StableID()
			return f.Typ
		}
	}
	*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindUnknownField, fa.Span(), "unknown field %q", fa.Field))
	return &ast.InvalidType{Reason: "unknown field"}
}

func structFields(t ast.Type) []*ast.Field {
	switch v := t.(type) {
	case *ast.TypeStruct:
		return v.Fields
	case *ast.NativeStruct:
		return v.Fields
	default:
		return nil
	}
}

func (tc *typeChecker) inferCond(c *ast.Cond) ast.Type {
	var branchType ast.Type
	for _, cs := range c.Cases {
		testType := tc.infer(cs.Test, nil)
		if !typesEqual(testType, tc.types["Bool"]) {
			if _, invalid := testType.(*ast.InvalidType); !invalid {
				*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindTypeMismatch, cs.Test.Span(), "condition must be Bool, got %s", describeType(testType)))
			}
		}
		thenType := tc.infer(cs.Then, nil)
		if branchType == nil {
			branchType = thenType
		} else if !typesEqual(branchType, thenType) {
			if _, invalid := thenType.(*ast.InvalidType); !invalid {
				*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindTypeMismatch, cs.Then.Span(), "branch has type %s, expected %s", describeType(thenType), describeType(branchType)))
			}
		}
	}
	elseType := tc.infer(c.Else, branchType)
	if branchType == nil {
		branchType = elseType
	} else if !typesEqual(branchType, elseType) {
		if _, invalid := elseType.(*ast.InvalidType); !invalid {
			*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindTypeMismatch, c.Else.Span(), "else branch has type %s, expected %s", describeType(elseType), describeType(branchType)))
		}
	}
	return branchType
}

func (tc *typeChecker) inferDataConstructor(dc *ast.DataConstructor) ast.Type {
	var structType *ast.TypeStruct
	for _, t := range tc.types {
		if s, ok := t.(*ast.TypeStruct); ok && s.StableID() == dc.StructID {
			structType = s
			break
		}
	}
	if structType == nil {
		for i := range dc.Args {
			tc.infer(dc.Args[i], nil)
		}
		*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindUnresolvedReference, dc.Span(), "unknown struct constructor"))
		return &ast.InvalidType{Reason: "unknown struct"}
	}
	if len(dc.Args) != len(structType.Fields) {
		*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindArityMismatch, dc.Span(),
			"%s expects %d field(s), got %d", structType.Name, len(structType.Fields), len(dc.Args)))
	}
	for i, arg := range dc.Args {
		argType := tc.infer(arg, nil)
		if i < len(structType.Fields) && !typesEqual(argType, structType.Fields[i].Typ) {
			if _, invalid := argType.(*ast.InvalidType); !invalid {
				*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindTypeMismatch, arg.Span(),
					"field %q has type %s, got %s", structType.Fields[i].Name, describeType(structType.Fields[i].Typ), describeType(argType)))
			}
		}
	}
	return structType
}

// typesEqual compares two resolved types structurally, per the TypeUnit
// doc comment's rationale: scalars compare by LLVM type string, TypeUnit by
// identity of kind, structs/defs by declaration identity (ResolvedID or
// pointer equality), and function/tuple types recursively.
func typesEqual(a, b ast.Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case *ast.TypeUnit:
		_, ok := b.(*ast.TypeUnit)
		return ok
	case *ast.NativePrimitive:
		bv, ok := b.(*ast.NativePrimitive)
		return ok && av.LLVMType == bv.LLVMType
	case *ast.NativePointer:
		bv, ok := b.(*ast.NativePointer)
		return ok && av.LLVMType == bv.LLVMType
	case *ast.TypeStruct:
		bv, ok := b.(*ast.TypeStruct)
		return ok && av.StableID() == bv.StableID()
	case *ast.NativeStruct:
		bv, ok := b.(*ast.NativeStruct)
		return ok && av == bv
	case *ast.TypeFn:
		bv, ok := b.(*ast.TypeFn)
		if !ok || len(av.ParamTypes) != len(bv.ParamTypes) {
			return false
		}
		for i := range av.ParamTypes {
			if !typesEqual(av.ParamTypes[i], bv.ParamTypes[i]) {
				return false
			}
		}
		return typesEqual(av.ReturnType, bv.ReturnType)
	case *ast.TypeTuple:
		bv, ok := b.(*ast.TypeTuple)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !typesEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *ast.TypeVariable:
		return true // unification-free: a hole's placeholder type matches anything
	case *ast.InvalidType:
		return true // already reported; do not cascade
	default:
		return a == b
	}
}

func describeType(t ast.Type) string {
	switch v := t.(type) {
	case *ast.NativePrimitive:
		return v.LLVMType
	case *ast.NativePointer:
		return "*" + v.LLVMType
	case *ast.TypeUnit:
		return "Unit"
	case *ast.TypeStruct:
		return v.Name
	case *ast.TypeFn:
		return "function"
	case *ast.TypeTuple:
		return "tuple"
	case *ast.InvalidType:
		return "<invalid>"
	default:
		return "<type>"
	}
}

// checkEntryPoint enforces that the module declares a nullary `main`
// returning Unit (§4.1), the program's single entry point.
func (tc *typeChecker) checkEntryPoint(mod *ast.Module) {
	var main *ast.Bnd
	for _, decl := range mod.Members {
		if bnd, ok := decl.(*ast.Bnd); ok && bnd.Name == "main" {
			main = bnd
			break
		}
	}
	if main == nil {
		*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindMissingEntryPoint, mod.Span(), "module has no `main` entry point"))
		return
	}
	lam, ok := main.Body.(*ast.Lambda)
	if !ok || len(lam.Params) != 0 {
		*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindInvalidEntryPoint, main.Span(), "`main` must be a nullary function"))
		return
	}
	if !typesEqual(lam.ReturnTypeAsc, unitType()) {
		*tc.errs = append(*tc.errs, errors.New(errors.PhaseTypeChecker, errors.KindInvalidEntryPoint, main.Span(), "`main` must return Unit"))
	}
}
