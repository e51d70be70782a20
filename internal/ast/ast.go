// Package ast defines the closed sum-type tree produced by the parser:
// expressions, patterns, statements, declarations, and modules (§3).
// Every node is tree-owned — there are no shared subtrees or
// back-references; cross-references go through names resolved later by
// the type environment. Each node carries a Span fully contained in its
// parent's, and kinds are closed via marker methods so adding a new
// variant forces every switch in the codebase to be revisited.
package ast

import "github.com/sigil-lang/sigil/internal/token"

// Node is any AST node with an associated source span.
type Node interface {
	Span() token.Span
}

// Expr is an expression node (28 variants per §3).
type Expr interface {
	Node
	exprNode()
}

// Pattern is a match-pattern node (12 variants per §3).
type Pattern interface {
	Node
	patternNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is a top-level (or nested module) declaration.
type Decl interface {
	Node
	declNode()
}

// TypeExpr is a syntactic type annotation, pre-resolution.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Ident is a bare identifier (lower or upper case; the lexer already
// distinguishes the two via token.IDENT/token.UPIDENT).
type Ident struct {
	Name string
	span token.Span
}

func NewIdent(name string, span token.Span) *Ident { return &Ident{Name: name, span: span} }
func (i *Ident) Span() token.Span                  { return i.span }
func (i *Ident) SetSpan(span token.Span)           { i.span = span }

// Module is a parsed compilation unit: header, uses, effects,
// functions, active patterns, other decls, and (optionally) top-level
// expressions.
type Module struct {
	Header         *ModuleHeader
	Uses           []*UseDecl
	Effects        []*EffectDecl
	Functions      []*FnDecl
	ActivePatterns []*ActivePatternDecl
	Decls          []Decl
	TopLevelExprs  []Expr
	span           token.Span
}

func NewModule(span token.Span) *Module    { return &Module{span: span} }
func (m *Module) Span() token.Span         { return m.span }
func (m *Module) SetSpan(span token.Span)  { m.span = span }

// ModuleHeader is the `[pub] module <path>` prefix recognized by the
// module prefix pre-pass (§4.1).
type ModuleHeader struct {
	Public bool
	Path   []*Ident
	span   token.Span
}

func NewModuleHeader(public bool, path []*Ident, span token.Span) *ModuleHeader {
	return &ModuleHeader{Public: public, Path: path, span: span}
}
func (h *ModuleHeader) Span() token.Span { return h.span }

// UseDecl is a `use` import, possibly aliased, possibly rooted at
// `super` (only legal in nested modules per §4.1).
type UseDecl struct {
	Path  []*Ident
	Alias *Ident
	Super bool
	span  token.Span
}

func NewUseDecl(path []*Ident, alias *Ident, super bool, span token.Span) *UseDecl {
	return &UseDecl{Path: path, Alias: alias, Super: super, span: span}
}
func (d *UseDecl) Span() token.Span { return d.span }
func (*UseDecl) declNode()          {}

// Attr is an attribute such as `@intrinsic(name)`, `@cfg(target = "x")`,
// `@handles(E)`, `@pure`.
type Attr struct {
	Name string
	Args []Expr
	span token.Span
}

func NewAttr(name string, args []Expr, span token.Span) *Attr { return &Attr{Name: name, Args: args, span: span} }
func (a *Attr) Span() token.Span                              { return a.span }
