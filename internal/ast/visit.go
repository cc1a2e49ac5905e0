package ast

// Walk performs a pre-order traversal of a term (and, transitively,
// declarations reachable through it) calling visit on every node. If visit
// returns false for a node, Walk does not descend into that node's
// children, but sibling traversal continues normally. Hand-written rather
// than generated: the node set here is small and stable enough that a
// generator (the teacher's cmd/gen-visitor) would add indirection without
// paying for itself — see DESIGN.md.
func Walk(n Node, visit func(Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	switch v := n.(type) {
	case *Expr:
		for _, t := range v.Terms {
			Walk(t, visit)
		}
	case *TermGroup:
		Walk(v.Inner, visit)
	case *Cond:
		for _, c := range v.Cases {
			Walk(c.Test, visit)
			Walk(c.Then, visit)
		}
		Walk(v.Else, visit)
	case *App:
		Walk(v.Fn, visit)
		Walk(v.Arg, visit)
	case *Lambda:
		for _, p := range v.Params {
			Walk(p, visit)
		}
		Walk(v.Body, visit)
	case *Tuple:
		for _, e := range v.Elements {
			Walk(e, visit)
		}
	case *DataConstructor:
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *FieldAccess:
		Walk(v.Target, visit)
	case *InvalidExpression:
		Walk(v.Original, visit)
	case *Param:
		// leaf for term-tree purposes; its TypeAsc is a Type, not a Term
	case *Bnd:
		Walk(v.Body, visit)
	case *TypeStruct:
		for _, f := range v.Fields {
			Walk(f, visit)
		}
	case *Field:
		// leaf
	default:
		// Ref, literals, Placeholder, Hole, NativeImpl, ParsingIdError,
		// TermError: leaves.
	}
}

// WalkModule visits every top-level declaration and its body.
func WalkModule(m *Module, visit func(Node) bool) {
	for _, decl := range m.Members {
		if !visit(decl) {
			continue
		}
		switch d := decl.(type) {
		case *Bnd:
			Walk(d.Body, visit)
		case *TypeStruct:
			for _, f := range d.Fields {
				visit(f)
			}
		}
	}
}

// WalkTypes performs a pre-order traversal over a type node's children.
func WalkTypes(t Type, visit func(Type) bool) {
	if t == nil {
		return
	}
	if !visit(t) {
		return
	}
	switch v := t.(type) {
	case *TypeFn:
		for _, p := range v.ParamTypes {
			WalkTypes(p, visit)
		}
		WalkTypes(v.ReturnType, visit)
	case *TypeTuple:
		for _, e := range v.Elements {
			WalkTypes(e, visit)
		}
	case *TypeScheme:
		WalkTypes(v.Body, visit)
	case *TypeApplication:
		WalkTypes(v.Constructor, visit)
		for _, a := range v.Args {
			WalkTypes(a, visit)
		}
	case *NativeStruct:
		for _, f := range v.Fields {
			WalkTypes(f.TypeAsc, visit)
		}
	case *TypeStruct:
		for _, f := range v.Fields {
			WalkTypes(f.TypeAsc, visit)
		}
	case *InvalidType:
		WalkTypes(v.Original, visit)
	}
}
