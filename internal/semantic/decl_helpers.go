package semantic

import "github.com/mml-lang/mmlc/internal/ast"

// declKindAndName extracts the (kind, name) pair used for both the ID
// Assigner's `module::<kind>::<name>` scheme (§3) and the Duplicate Name
// Checker's collision grouping (§4.4). Error-replacement nodes (already
// reported by an earlier phase) return ok=false so neither phase touches
// them again.
func declKindAndName(decl ast.Decl) (ast.DeclKind, string, bool) {
	switch d := decl.(type) {
	case *ast.Bnd:
		return ast.DeclKindBnd, d.Name, true
	case *ast.TypeDef:
		return ast.DeclKindTypeDef, d.Name, true
	case *ast.TypeAlias:
		return ast.DeclKindTypeAlias, d.Name, true
	case *ast.TypeStruct:
		return ast.DeclKindTypeStruct, d.Name, true
	default:
		return "", "", false
	}
}

// declDoc returns the doc comment attached to a declaration, if any.
func declDoc(decl ast.Decl) *string {
	switch d := decl.(type) {
	case *ast.Bnd:
		return d.Doc
	case *ast.TypeDef:
		return d.Doc
	case *ast.TypeAlias:
		return d.Doc
	case *ast.TypeStruct:
		return d.Doc
	default:
		return nil
	}
}
