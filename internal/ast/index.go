package ast

// ResolvablesIndex maps a stable ID to the current instance of the node
// that owns it. It is rebuilt, never mutated in place, whenever a phase
// replaces nodes in the module (§3 "Ownership of data") — this is the only
// mechanism by which cross-node references stay valid across rewrites: a
// Ref never holds a pointer to its target, only the target's ID.
type ResolvablesIndex struct {
	byID map[ID]Resolvable
}

// NewResolvablesIndex returns an empty index.
func NewResolvablesIndex() *ResolvablesIndex {
	return &ResolvablesIndex{byID: make(map[ID]Resolvable)}
}

// Get looks up the current node instance for an ID.
func (idx *ResolvablesIndex) Get(id ID) (Resolvable, bool) {
	n, ok := idx.byID[id]
	return n, ok
}

// Put registers or replaces the node instance for an ID. Rebuild is the
// normal way to populate an index; Put exists for phases (Memory-Function
// Generator, Resolvables Reindexer) that add single nodes incrementally
// after a full rebuild.
func (idx *ResolvablesIndex) Put(id ID, n Resolvable) {
	idx.byID[id] = n
}

// Len reports how many entries the index holds.
func (idx *ResolvablesIndex) Len() int { return len(idx.byID) }

// IDs returns every ID currently indexed, for uniqueness checks (Testable
// Property 3).
func (idx *ResolvablesIndex) IDs() []ID {
	ids := make([]ID, 0, len(idx.byID))
	for id := range idx.byID {
		ids = append(ids, id)
	}
	return ids
}

// Rebuild walks the whole module and returns a fresh index containing every
// resolvable node: top-level declarations, their parameters, nested
// lambdas, and struct fields. Used by the ID Assigner (initial seed) and
// the Resolvables Reindexer (after the Memory-Function Generator and any
// other late AST rewrite).
func Rebuild(m *Module) *ResolvablesIndex {
	idx := NewResolvablesIndex()
	for _, decl := range m.Members {
		indexDecl(idx, decl)
	}
	return idx
}

func indexDecl(idx *ResolvablesIndex, decl Decl) {
	if decl.StableID() != "" {
		idx.Put(decl.StableID(), decl)
	}
	switch d := decl.(type) {
	case *Bnd:
		indexBndBody(idx, d)
	case *TypeStruct:
		for _, f := range d.Fields {
			if f.StableID() != "" {
				idx.Put(f.StableID(), f)
			}
		}
	}
}

func indexBndBody(idx *ResolvablesIndex, b *Bnd) {
	lam, ok := b.Body.(*Lambda)
	if !ok {
		return
	}
	indexLambda(idx, lam)
}

func indexLambda(idx *ResolvablesIndex, lam *Lambda) {
	if lam.StableID() != "" {
		idx.Put(lam.StableID(), lam)
	}
	for _, p := range lam.Params {
		if p.StableID() != "" {
			idx.Put(p.StableID(), p)
		}
	}
	Walk(lam.Body, func(n Node) bool {
		if nested, ok := n.(*Lambda); ok && nested != lam {
			indexLambda(idx, nested)
			return false
		}
		return true
	})
}
