// Package mir implements the flat, substitution-applied lowering from a
// type-checked module to a mid-level representation (§4.6): typed
// function bodies labeled with final types, and the qualified-call table
// built by resolving trait-method call sites against the checker's impl
// registry.
package mir

import "github.com/sigil-lang/sigil/internal/ast"

// Label is a substitution-resolved type rendered to its stable string
// form (`types.Type.String()`), matching the invariant that every typed
// expression's reported label equals
// `substitution.apply(solver_type).label()` at driver-exit time.
type Label string

// Module is the flat view handed to a codegen backend: one Function per
// top-level `fn`, plus the resolved qualified-call table built while
// scanning the module for `Trait::method(...)` call sites.
type Module struct {
	Functions []*Function
	Calls     []*QualifiedCall
}

// Function is a type-checked function re-labeled with final types.
// Source keeps the original body subtree so a codegen backend can still
// walk expression structure; BodyTypes gives the resolved label for
// every sub-expression reachable from Source.
type Function struct {
	Name       string
	Params     []Param
	ReturnType Label
	Source     ast.Expr // nil for a signature-only declaration
	BodyTypes  map[ast.Expr]Label
}

// Param is one lowered function parameter.
type Param struct {
	Name string
	Type Label
}

// QualifiedCall records one trait-method call site's resolution. A call
// whose callee is a two-segment module path `Trait::method` is resolved
// against the impl registry by trait name and the resolved type label
// of the call's first argument (its receiver): a unique match becomes
// ImplID; more than one candidate is preserved in Candidates for later
// disambiguation; zero candidates leave the call unresolved (both
// fields empty).
type QualifiedCall struct {
	Site       *ast.CallExpr
	TraitName  string
	Method     string
	Target     Label
	ImplID     string
	Candidates []string
}
