package ast

import "fmt"

// ID is a stable identifier assigned once to a resolvable node and never
// mutated afterward (§3 "Stable identifiers"). References never hold a
// pointer to their target; they hold an ID and look it up through a
// module's ResolvablesIndex, so that a rewrite replacing a node in place
// keeps every reference valid without a fix-up pass over pointers.
type ID string

// DeclKind names the lower-cased segment used in a top-level declaration's
// ID, per §3: "module::<decl-kind-lower>::<name>".
type DeclKind string

const (
	DeclKindBnd        DeclKind = "bnd"
	DeclKindTypeDef    DeclKind = "typedef"
	DeclKindTypeAlias  DeclKind = "typealias"
	DeclKindTypeStruct DeclKind = "typestruct"
)

// TopLevelID builds the ID of a top-level declaration: module::kind::name.
func TopLevelID(module string, kind DeclKind, name string) ID {
	return ID(fmt.Sprintf("%s::%s::%s", module, kind, name))
}

// StructFieldID builds the ID of a struct field:
// module::typestruct::structName::fieldName.
func StructFieldID(module, structName, fieldName string) ID {
	return ID(fmt.Sprintf("%s::typestruct::%s::%s", module, structName, fieldName))
}

// StdlibID builds the ID of an injected prelude entry: stdlib::name.
func StdlibID(name string) ID {
	return ID(fmt.Sprintf("stdlib::%s", name))
}

// ParamID builds the ID of a parameter of the given owner: owner::param::name.
func ParamID(owner ID, name string) ID {
	return ID(fmt.Sprintf("%s::param::%s", owner, name))
}

// LambdaID builds the ID of a nested lambda of the given owner:
// owner::lambda::uuid. The uuid is generated once by the ID Assigner (§4.5)
// using google/uuid, never recomputed.
func LambdaID(owner ID, uuid string) ID {
	return ID(fmt.Sprintf("%s::lambda::%s", owner, uuid))
}

// Resolvable is implemented by every AST node that may carry a stable ID:
// declarations, parameters, and nested lambdas. The ID is assigned once by
// the ID Assigner phase and never mutated afterward.
type Resolvable interface {
	Node
	StableID() ID
	SetStableID(id ID)
}

// IDHolder is embedded by every Resolvable node to provide storage for its
// stable ID.
type IDHolder struct {
	ID ID
}

func (h *IDHolder) StableID() ID       { return h.ID }
func (h *IDHolder) SetStableID(id ID)  { h.ID = id }
func (h *IDHolder) HasStableID() bool  { return h.ID != "" }
