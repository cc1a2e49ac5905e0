package ast

// Expr is a flat, ordered sequence of terms as the Parser produces it
// (§4.1 "Expressions": "parsed as a flat sequence of terms"). The
// Expression Rewriter consumes Terms and replaces the Expr's single
// surviving child via the Simplifier (§4.9); until rewritten, Terms may
// hold more than one element (operators and operands interleaved,
// unresolved fixity).
type Expr struct {
	TypedBase
	Terms []Term
}

// Ref is a reference to a value binding, parameter, or nested lambda by
// name. ResolvedID and CandidateIDs are populated by the Reference
// Resolver (§4.7) and possibly rewritten by the Expression Rewriter when
// disambiguating operator candidates (§4.8); Ref never stores a pointer to
// its target.
type Ref struct {
	TypedBase
	Name         string
	ResolvedID   ID
	CandidateIDs []ID
}

func (r *Ref) IsResolved() bool { return r.ResolvedID != "" }

// TermGroup is a parenthesized term, e.g. `(a + b)`. The Simplifier
// replaces `TermGroup(inner)` with `inner` once ascriptions have been
// transferred (§4.9).
type TermGroup struct {
	TypedBase
	Inner Term
}

// CondCase is one `if`/`elif` arm of a Cond.
type CondCase struct {
	Test Term
	Then Term
}

// Cond is an if/elif/else conditional (§3 "Terms"). Else is always present
// after parsing (a dangling `if` with no `else` is a parse error) so the
// Type Checker can always compare branch types (§4.10).
type Cond struct {
	TypedBase
	Cases []CondCase
	Else  Term
}

// App is a single-argument application node. After the Expression Rewriter
// runs, every App.Fn reached from an unresolved Expr is guaranteed to be a
// Ref or another App — i.e. every application is in fully curried shape
// (§3 invariant, §4.8). The parser itself also produces App nodes whose Fn
// is a Lambda: a local `let x = rhs; body` desugars directly to
// `App(Lambda([Param x], body), Expr(rhs))` (see parseBody in
// internal/parser/terms.go) — an immediately-invoked lambda, not a call the
// Expression Rewriter's invariant governs.
type App struct {
	TypedBase
	Fn  Term // Ref | *App | *Lambda (let-desugaring)
	Arg Term // an Expr wrapping the actual argument term
}

// Lambda is a function/operator body (or an anonymous nested lambda).
// Top-level function/operator Bnds always wrap a Lambda as their Body;
// MML has no closures over enclosing locals (§1 Non-goals), but a Lambda
// may itself be nested directly in another Lambda's body as a literal
// value (assigned a synthetic owner::lambda::uuid ID by the ID Assigner).
type Lambda struct {
	IDHolder
	TypedBase
	Params        []*Param
	ReturnTypeAsc Type // declared return annotation, if written
	Body          Term
	TailRecursive bool // set by the Tail-Recursion Detector (§4.13)
}

// Literal kinds.

type IntLit struct {
	TypedBase
	Value int64
}

type FloatLit struct {
	TypedBase
	Value float64
}

type StringLit struct {
	TypedBase
	Value string
}

type BoolLit struct {
	TypedBase
	Value bool
}

// UnitLit is the literal value of type Unit, `()`. The Expression Rewriter
// synthesizes one as the argument of an auto-called nullary function
// (§4.8 "Nullary auto-call").
type UnitLit struct {
	TypedBase
}

// Tuple is an ordered, fixed-arity group of terms, `(a, b, c)` with more
// than one element (a single-element parenthesized term is a TermGroup,
// not a Tuple).
type Tuple struct {
	TypedBase
	Elements []Term
}

// Placeholder is the `_` term used in partial-application position.
type Placeholder struct {
	TypedBase
}

// Hole is a typed `???` term: "I know the type here, fill in the value
// later." It requires an expected type from context (§4.10).
type Hole struct {
	TypedBase
}

// NativeImpl marks a function/operator body as externally implemented —
// either an LLVM-IR template body (stdlib injection, §4.2) or a bare
// external declaration with no body. MemEffect, when set to MemEffectAlloc,
// is the leaf fact the Ownership Analyzer's allocation fixpoint starts from
// (§4.14.2).
type NativeImpl struct {
	TypedBase
	Template  string // LLVM-IR template text with %result/%type/%operand placeholders; "" for an external declaration
	MemEffect *MemEffect
}

// DataConstructor marks a call that produces a value of a heap TypeStruct,
// e.g. `User n 0` constructing a `User` record. The Ownership Analyzer
// treats a DataConstructor call as an allocating leaf (§4.14.2) and never
// inserts a __clone_* call around its own arguments (§4.14.7): the
// constructor itself clones heap fields internally.
type DataConstructor struct {
	TypedBase
	StructID ID // resolved TypeStruct declaration this constructs
	Args     []Term
}

// FieldAccess is struct field selection, `u.name`. The grammar carves this
// out of the flat-term precedence climb rather than folding `.` into the
// operator charset: a selection binds tighter than any declared operator
// and its right-hand side is a bare field name, never a general term, so it
// is parsed directly by the parser as a postfix suffix on a primary term
// (§3 lists "invalid selection" / "unknown field" among the errors a
// selection can produce, even though the term catalog does not spell the
// node out by name). FieldID is filled in by the Type Checker once
// Target's type is known to name a TypeStruct or NativeStruct.
type FieldAccess struct {
	TypedBase
	Target  Term
	Field   string
	FieldID ID
}
