package ast

// Origin distinguishes a function binding from an operator binding within
// BindingMeta (§3 "BindingMeta").
type Origin int

const (
	OriginFunction Origin = iota
	OriginOperator
)

// Arity classifies a binding's declared parameter count. Nary carries the
// exact count for bindings with more than two parameters; Nullary, Unary,
// and Binary are the common cases called out explicitly because the
// Expression Rewriter dispatches on them directly (§4.8).
type Arity struct {
	Kind ArityKind
	N    int // meaningful only when Kind == ArityNary
}

type ArityKind int

const (
	ArityNullary ArityKind = iota
	ArityUnary
	ArityBinary
	ArityNary
)

func (a Arity) Count() int {
	switch a.Kind {
	case ArityNullary:
		return 0
	case ArityUnary:
		return 1
	case ArityBinary:
		return 2
	default:
		return a.N
	}
}

func ArityOf(n int) Arity {
	switch n {
	case 0:
		return Arity{Kind: ArityNullary}
	case 1:
		return Arity{Kind: ArityUnary}
	case 2:
		return Arity{Kind: ArityBinary}
	default:
		return Arity{Kind: ArityNary, N: n}
	}
}

// Associativity controls precedence-climbing tie-breaking for a binary or
// unary operator (§4.8).
type Associativity int

const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
)

// DefaultPrecedence and DefaultAssociativity implement §4.1 "Precedence
// defaults": declarations that omit prec/assoc default to 50/Left for
// binary operators and 50/Right for unary operators.
const DefaultPrecedence = 50

func DefaultAssociativity(origin Origin, arity Arity) Associativity {
	if arity.Kind == ArityUnary {
		return AssocRight
	}
	return AssocLeft
}

// BindingMeta tags a Bnd whose body is a Lambda representing a function or
// operator declaration (§3 "BindingMeta"). It is nil for plain value
// bindings (`let x = ...`).
type BindingMeta struct {
	Origin        Origin
	Arity         Arity
	Precedence    int
	Associativity Associativity
	OriginalName  string // as written in source, e.g. "*"
	MangledName   string // e.g. "op.mul.2"
}

// IsOperator reports whether this binding is an operator (as opposed to a
// plain named function).
func (m *BindingMeta) IsOperator() bool { return m != nil && m.Origin == OriginOperator }

// BindingOrigin tags how a let-binding came to exist, so the Ownership
// Analyzer can recognize its own synthetic scaffolding and stay idempotent
// (§4.14.9): a second analysis pass must not re-wrap a TempWrapper binding.
type BindingOrigin int

const (
	BindingOriginSource BindingOrigin = iota
	BindingOriginTempWrapper
	BindingOriginWitness
)

// Bnd is the unified value/function/operator binding (§3 "Declarations").
type Bnd struct {
	IDHolder
	BaseNode
	Name       string
	Meta       *BindingMeta // non-nil iff Body is a function/operator Lambda
	TypeAsc    Type         // declared return/value type, if written
	Body       Term         // Lambda for functions/operators; any Term for values
	BindOrigin BindingOrigin
	Doc        *string
}

func (b *Bnd) declNode() {}

// Param is a lambda parameter. It is itself Resolvable (owner::param::name,
// §3) so that the Reference Resolver can find it by ID and the Ownership
// Analyzer can track its state independently of its lexical position.
type Param struct {
	IDHolder
	BaseNode
	Name       string
	TypeAsc    Type          // declared annotation (`x: T`)
	Typ        Type          // typeSpec, copied from TypeAsc during Type Checker pass 1
	Consuming  bool          // true for a `~name: T` consuming parameter (§4.14.4)
	BindOrigin BindingOrigin // BindingOriginSource for every parsed local let; set by the Ownership Analyzer on its own synthetic temp/witness lets (§4.14.3, §4.14.6)
}

func (p *Param) Span() SrcSpan { return p.BaseNode.Span() }

// TypeDef declares a brand-new type from a native specification, e.g.
// `type Int64 = @native[t=i64]`. Its Typ is a NativePrimitive, NativePointer,
// or NativeStruct.
type TypeDef struct {
	IDHolder
	BaseNode
	Name string
	Typ  Type
	Doc  *string
}

func (t *TypeDef) declNode() {}

// TypeAlias names an existing type. The Type Resolver follows alias chains
// to compute Resolved (§4.6).
type TypeAlias struct {
	IDHolder
	BaseNode
	Name     string
	Target   Type // as written, e.g. TypeRef("Int64")
	Resolved Type // after alias-chain following
	Doc      *string
}

func (t *TypeAlias) declNode() {}

// Field is a named, typed member of a TypeStruct or NativeStruct. It is
// Resolvable using the module::typestruct::struct::field scheme (§3).
type Field struct {
	IDHolder
	BaseNode
	Name    string
	TypeAsc Type
	Typ     Type
}

func (f *Field) Span() SrcSpan { return f.BaseNode.Span() }

// TypeStruct is a named record type (§3 "Declarations": "TypeStruct (named
// record type)"). It also plays the role of the structural TypeStruct(fields)
// Type described in §3 "Types": a TypeRef that resolves to a TypeStruct
// declaration carries that declaration directly as its typeSpec.
type TypeStruct struct {
	IDHolder
	BaseNode
	Name   string
	Fields []*Field
	Doc    *string
}

func (t *TypeStruct) declNode() {}
func (t *TypeStruct) typeNode() {}

// FieldByName looks up a field by name, or returns nil.
func (t *TypeStruct) FieldByName(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
