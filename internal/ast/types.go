package ast

// MemEffect tags a native primitive/pointer/struct type with how its
// values come into existence: Alloc means a value requires a matching
// free, Static means it never does (e.g. a string literal's backing
// storage, a stack scalar). This is the leaf fact used to compute whether
// a type is a "heap type" (§4.11, §4.14.2 "A term allocates if… a call to
// a NativeImpl with memEffect = Alloc").
type MemEffect int

const (
	MemEffectAlloc MemEffect = iota
	MemEffectStatic
)

// TypeBase supplies Span()/typeNode() for every Type node.
type TypeBase struct {
	BaseNode
}

func (TypeBase) typeNode() {}

// TypeRef is a named reference to a type, resolved by the Type Resolver
// (§4.6) to a TypeDef/TypeAlias/TypeStruct declaration (or wrapped in
// InvalidType). Like Ref, it never stores a pointer to its target.
type TypeRef struct {
	TypeBase
	Name       string
	ResolvedID ID
}

func (t *TypeRef) IsResolved() bool { return t.ResolvedID != "" }

// TypeFn is a curried function type, `T1 -> T2 -> R` parsed as
// TypeFn([T1, T2], R).
type TypeFn struct {
	TypeBase
	ParamTypes []Type
	ReturnType Type
}

// TypeTuple is the type of a Tuple term.
type TypeTuple struct {
	TypeBase
	Elements []Type
}

// TypeScheme represents a universally-quantified type. MML has no
// polymorphism (§1 Non-goals: "polymorphism/generics"), so no declaration
// ever constructs one with a non-empty Vars list; the node exists because
// the data model names it, and the Type Checker treats any TypeScheme it
// encounters as already fully applied (Vars empty, Body is the real type).
type TypeScheme struct {
	TypeBase
	Vars []string
	Body Type
}

// TypeVariable is an as-yet-unresolved type placeholder. MML never
// performs unification over free variables (no generics), so the only
// producer is the Hole term before its expected type is filled in from
// context.
type TypeVariable struct {
	TypeBase
	Name string
}

// TypeApplication applies a type constructor to argument types. Present in
// the data model for forward compatibility with the corpus's richer type
// systems; MML's prelude never declares a higher-kinded type constructor,
// so the Type Resolver only ever produces one if a future native type
// gains type parameters.
type TypeApplication struct {
	TypeBase
	Constructor Type
	Args        []Type
}

// TypeUnit is the type of the Unit literal `()`.
type TypeUnit struct {
	TypeBase
}

// NativePrimitive is a native scalar type, declared `@native[t=<llvm>]`,
// e.g. Int64, Float, Bool.
type NativePrimitive struct {
	TypeBase
	LLVMType  string
	MemEffect *MemEffect
}

// NativePointer is a native pointer type, declared `@native[t=*<llvm>]`.
type NativePointer struct {
	TypeBase
	LLVMType  string
	MemEffect *MemEffect
}

// NativeStruct is a native record type, declared
// `@native { f1: T1, ... } [mem=heap]`. Unlike the TypeStruct Decl (a
// user-level `struct` declaration), a NativeStruct is the RHS of a
// TypeDef: it names no field IDs of its own scope since it is always
// reached through its owning TypeDef's ID.
type NativeStruct struct {
	TypeBase
	Fields    []*Field
	MemEffect *MemEffect
}

func (n *NativeStruct) FieldByName(name string) *Field {
	for _, f := range n.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
