package ast

// Node is the base interface implemented by every AST node: declarations,
// terms, and types alike.
type Node interface {
	Span() SrcSpan
}

// Type is implemented by every type-position node (§3 "Types").
type Type interface {
	Node
	typeNode()
}

// Term is implemented by every expression-position node (§3 "Terms"). Every
// term carries an optional inferred/ascribed type, populated by the Type
// Checker (§4.10); it is nil until then.
type Term interface {
	Node
	termNode()
	TypeSpec() Type
	SetTypeSpec(Type)
}

// Decl is implemented by every top-level declaration: Bnd, TypeDef,
// TypeAlias, TypeStruct. All declarations are Resolvable.
type Decl interface {
	Node
	Resolvable
	declNode()
}

// BaseNode supplies the Span() accessor common to every node.
type BaseNode struct {
	SrcSpan SrcSpan
}

func (b BaseNode) Span() SrcSpan { return b.SrcSpan }

// TypedBase supplies Term's TypeSpec storage on top of BaseNode.
type TypedBase struct {
	BaseNode
	Typ Type
}

func (t *TypedBase) TypeSpec() Type        { return t.Typ }
func (t *TypedBase) SetTypeSpec(typ Type) { t.Typ = typ }
func (t *TypedBase) termNode()            {}
