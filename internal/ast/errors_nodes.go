package ast

// Error nodes (§3 "Error nodes"). Each wraps the offending subtree and a
// message so that later phases can keep walking the AST rather than abort:
// "each phase wraps offending subtrees in an Invalid* node so the AST
// remains walkable… downstream phases treat Invalid* nodes as 'already
// reported, skip'; they do not re-report" (§7).

// ParsingMemberError replaces an entire top-level member the parser could
// not recognize. failedMemberP (§4.1) consumes up to the next newline and
// records the raw text here.
type ParsingMemberError struct {
	IDHolder
	BaseNode
	RawText string
	Message string
}

func (e *ParsingMemberError) declNode() {}

// ParsingIdError replaces an identifier position (a binding name, an
// operator name) whose captured text was not a valid identifier, without
// failing the whole enclosing member (§4.1 "bindingIdOrError /
// operatorIdOrError"). It stands in Term position so a downstream phase
// walking a Bnd's name-adjacent structure can still traverse the tree.
type ParsingIdError struct {
	TypedBase
	RawText string
	Message string
}

// TermError replaces a malformed term within an otherwise-recovered
// expression sequence.
type TermError struct {
	TypedBase
	RawText string
	Message string
}

// InvalidExpression wraps a term the Reference Resolver or Expression
// Rewriter could not make sense of (an unresolved Ref, dangling terms after
// a failed precedence-climb, …), together with the reason.
type InvalidExpression struct {
	TypedBase
	Original Term
	Reason   string
}

// InvalidType wraps a TypeRef (or any type node) the Type Resolver could
// not resolve.
type InvalidType struct {
	TypeBase
	Original Type
	Reason   string
}

// DuplicateMember wraps every declaration after the first in a same-
// (name, kind) group (§4.4). It replaces the later declaration in
// Module.Members; First points at the one kept valid.
type DuplicateMember struct {
	IDHolder
	BaseNode
	First    Decl
	Original Decl
}

func (e *DuplicateMember) declNode() {}

// InvalidMember wraps a declaration with a structural problem that is not
// a duplicate-name collision — e.g. two parameters sharing a name (§4.4).
type InvalidMember struct {
	IDHolder
	BaseNode
	Original Decl
	Reason   string
}

func (e *InvalidMember) declNode() {}
