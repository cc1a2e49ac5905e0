package ast

// Visibility is carried by a Module (always Public at file scope; no
// `module` keyword exists, §4.1 "Top-level") and, pending a future Non-goal
// lift, could be carried by declarations. MML has no visibility modifiers
// on declarations today, so this exists solely for the module itself.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityPrivate
)

func (v Visibility) String() string {
	if v == VisibilityPrivate {
		return "private"
	}
	return "public"
}

// Module is the root AST node: one source file, one translation unit (§1).
// Name is derived by the caller from the file path stem, never parsed from
// the source text.
type Module struct {
	Name       string
	Visibility Visibility
	Members    []Decl
	Doc        *string
	SourcePath string
	Source     *SourceInfo

	Index *ResolvablesIndex
}

// NewModule creates an empty module ready for the Parser to populate.
func NewModule(name, sourcePath string, source *SourceInfo) *Module {
	return &Module{
		Name:       name,
		Visibility: VisibilityPublic,
		SourcePath: sourcePath,
		Source:     source,
		Index:      NewResolvablesIndex(),
	}
}

// Clone produces a shallow copy of the module with a fresh Members slice,
// the shape every phase needs: "a phase produces a new AST by structural
// substitution" (§3 "Ownership of data"). Callers replace individual
// Members entries as needed; the Index is always rebuilt separately, never
// copied, because it must reflect the replaced members.
func (m *Module) Clone() *Module {
	members := make([]Decl, len(m.Members))
	copy(members, m.Members)
	return &Module{
		Name:       m.Name,
		Visibility: m.Visibility,
		Members:    members,
		Doc:        m.Doc,
		SourcePath: m.SourcePath,
		Source:     m.Source,
		Index:      m.Index,
	}
}

func (m *Module) Span() SrcSpan {
	if len(m.Members) == 0 {
		return Synthetic()
	}
	return NewSpan(m.Members[0].Span().Start, m.Members[len(m.Members)-1].Span().End)
}
