package ast

import "github.com/sigil-lang/sigil/internal/token"

// DeclStmt wraps a local declaration (let/var/const) used as a
// statement within a block.
type DeclStmt struct {
	Decl Decl
	span token.Span
}

func NewDeclStmt(decl Decl, span token.Span) *DeclStmt { return &DeclStmt{Decl: decl, span: span} }
func (s *DeclStmt) Span() token.Span                   { return s.span }
func (*DeclStmt) stmtNode()                            {}

// ExprStmt wraps an expression evaluated for its side effects.
type ExprStmt struct {
	Expr Expr
	span token.Span
}

func NewExprStmt(expr Expr, span token.Span) *ExprStmt { return &ExprStmt{Expr: expr, span: span} }
func (s *ExprStmt) Span() token.Span                   { return s.span }
func (*ExprStmt) stmtNode()                            {}

// AssignStmt is an assignment used as a statement (distinguished from
// AssignExpr so blocks can track assignment statements without an
// expression-statement wrapper).
type AssignStmt struct {
	Target Expr
	Value  Expr
	span   token.Span
}

func NewAssignStmt(target, value Expr, span token.Span) *AssignStmt {
	return &AssignStmt{Target: target, Value: value, span: span}
}
func (s *AssignStmt) Span() token.Span { return s.span }
func (*AssignStmt) stmtNode()          {}

// DeferStmt is `defer expr;`, run in reverse order when the enclosing
// block exits.
type DeferStmt struct {
	Expr Expr
	span token.Span
}

func NewDeferStmt(expr Expr, span token.Span) *DeferStmt { return &DeferStmt{Expr: expr, span: span} }
func (s *DeferStmt) Span() token.Span                    { return s.span }
func (*DeferStmt) stmtNode()                             {}
