// Package ownership implements the Ownership Analyzer (§4.14): an affine
// analysis over each function body's let-binding chain that inserts
// `__free_*`/`__clone_*` calls so every heap value is freed exactly once on
// every control-flow path, without a runtime garbage collector.
package ownership

import (
	"github.com/mml-lang/mmlc/internal/ast"
	"github.com/mml-lang/mmlc/internal/errors"
)

// state is a binding's ownership state (§4.14.1).
type state int

const (
	stateOwned state = iota
	stateMoved
	stateBorrowed
	stateLiteral
)

// binding tracks one let-binding or parameter's ownership bookkeeping
// within the scope it was introduced in.
type binding struct {
	id      ast.ID
	name    string
	typ     ast.Type
	st      state
	witness ast.ID   // set when st was decided by a conditional witness (§4.14.6)
	rhs     ast.Term // temp-hoisting only: the initializer this binding still needs wrapped around it (§4.14.3)
}

type analyzer struct {
	mod         *ast.Module
	idx         map[ast.ID]*ast.Bnd
	allocFns    map[ast.ID]bool
	heapDefs    map[ast.ID][2]string // declaring type ID -> (free-fn name, clone-fn name)
	errs        errors.List
	curOwner    ast.ID // StableID of the top-level Bnd currently being closed, for synthetic __tmp_/__owns_ IDs
	tempCounter int    // monotonic, unique across the whole module
}

// Analyze runs the analyzer over every top-level function, rewriting each
// body in place to insert free/clone calls and reporting any ownership
// violation it finds.
func Analyze(mod *ast.Module) (*ast.Module, errors.List) {
	a := &analyzer{
		mod:      mod,
		idx:      bndIndex(mod),
		heapDefs: heapTypeDefs(mod),
	}
	a.allocFns = a.computeAllocatingFunctions()

	for _, decl := range mod.Members {
		bnd, ok := decl.(*ast.Bnd)
		if !ok {
			continue
		}
		lam, isLam := bnd.Body.(*ast.Lambda)
		if !isLam {
			continue
		}
		a.curOwner = bnd.StableID()
		scope := newScope(nil)
		for _, p := range lam.Params {
			st := stateBorrowed
			if p.Consuming {
				st = stateOwned
			}
			scope.bind(&binding{id: p.StableID(), name: p.Name, typ: p.Typ, st: st})
		}
		lam.Body = a.closeScope(lam.Body, scope)
	}

	return mod, a.errs
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

// heapTypeDefs maps every heap type's declaration ID to the name suffix
// used by its (already synthesized, by the Memory-Function Generator)
// `__free_T`/`__clone_T` pair.
func heapTypeDefs(mod *ast.Module) map[ast.ID][2]string {
	out := map[ast.ID][2]string{}
	for _, decl := range mod.Members {
		switch d := decl.(type) {
		case *ast.TypeStruct:
			out[d.StableID()] = [2]string{"__free_" + d.Name, "__clone_" + d.Name}
		case *ast.TypeDef:
			if ns, ok := d.Typ.(*ast.NativeStruct); ok && ns.MemEffect != nil && *ns.MemEffect == ast.MemEffectAlloc {
				out[d.StableID()] = [2]string{"__free_" + d.Name, "__clone_" + d.Name}
			}
		}
	}
	return out
}

// scope is one lexical scope's binding set, in declaration order, with a
// pointer to its parent for name/ID lookup (§4.14.1's OwnershipScope).
type scope struct {
	parent            *scope
	order             []*binding
	byID              map[ast.ID]*binding
	insideTempWrapper bool
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, byID: map[ast.ID]*binding{}}
}

func (s *scope) bind(b *binding) {
	s.order = append(s.order, b)
	s.byID[b.id] = b
}

func (s *scope) lookup(id ast.ID) *binding {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.byID[id]; ok {
			return b
		}
	}
	return nil
}

// computeAllocatingFunctions runs the per-module fixpoint of §4.14.2: start
// from functions whose body directly allocates, then repeatedly add any
// function calling a member of the current set, until it stops growing.
func (a *analyzer) computeAllocatingFunctions() map[ast.ID]bool {
	allocating := map[ast.ID]bool{}
	changed := true
	for changed {
		changed = false
		for _, decl := range a.mod.Members {
			bnd, ok := decl.(*ast.Bnd)
			if !ok || allocating[bnd.StableID()] {
				continue
			}
			lam, isLam := bnd.Body.(*ast.Lambda)
			if !isLam {
				continue
			}
			if a.bodyAllocates(lam.Body, allocating) {
				allocating[bnd.StableID()] = true
				changed = true
			}
		}
	}
	return allocating
}

func (a *analyzer) bodyAllocates(t ast.Term, allocating map[ast.ID]bool) bool {
	found := false
	ast.Walk(t, func(n ast.Node) bool {
		if found {
			return false
		}
		switch v := n.(type) {
		case *ast.DataConstructor:
			found = true
		case *ast.App:
			if head, ok := callHead(v); ok {
				if a.isAllocPrimitive(head) || allocating[head] {
					found = true
				}
			}
		}
		return !found
	})
	return found
}

// isAllocPrimitive reports whether id names a Bnd whose body is a bare
// NativeImpl with memEffect = Alloc (a stdlib leaf allocator).
func (a *analyzer) isAllocPrimitive(id ast.ID) bool {
	bnd, ok := a.idx[id]
	if !ok {
		return false
	}
	lam, ok := bnd.Body.(*ast.Lambda)
	if !ok {
		return false
	}
	impl, ok := lam.Body.(*ast.NativeImpl)
	return ok && impl.MemEffect != nil && *impl.MemEffect == ast.MemEffectAlloc
}

func callHead(app *ast.App) (ast.ID, bool) {
	switch fn := app.Fn.(type) {
	case *ast.Ref:
		return fn.ResolvedID, fn.ResolvedID != ""
	case *ast.App:
		return callHead(fn)
	default:
		return "", false
	}
}

// allocates reports whether evaluating t allocates a fresh heap value
// (§4.14.2), used to decide a new let-binding's initial ownership state.
func (a *analyzer) allocates(t ast.Term) bool {
	switch v := t.(type) {
	case *ast.DataConstructor:
		return true
	case *ast.App:
		head, ok := callHead(v)
		return ok && (a.isAllocPrimitive(head) || a.allocFns[head])
	case *ast.Cond:
		allThen, allElse := true, true
		for _, cs := range v.Cases {
			if !a.allocates(cs.Then) {
				allThen = false
			}
		}
		allElse = a.allocates(v.Else)
		return allThen && allElse
	default:
		return false
	}
}

// condAllocation classifies a Cond's branches for the mixed-ownership
// witness mechanism (§4.14.6): allAlloc when every branch allocates,
// noneAlloc when no branch does. When neither holds, the branches disagree
// and a runtime witness is needed to know which one fired.
func (a *analyzer) condAllocation(cond *ast.Cond) (allAlloc, noneAlloc bool) {
	allAlloc, noneAlloc = true, true
	for _, cs := range cond.Cases {
		if a.allocates(cs.Then) {
			noneAlloc = false
		} else {
			allAlloc = false
		}
	}
	if a.allocates(cond.Else) {
		noneAlloc = false
	} else {
		allAlloc = false
	}
	return allAlloc, noneAlloc
}

func isLiteral(t ast.Term) bool {
	switch t.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.StringLit, *ast.BoolLit, *ast.UnitLit:
		return true
	default:
		return false
	}
}
