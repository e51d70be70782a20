package check

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
	"github.com/sigil-lang/sigil/internal/types"
)

func (c *Checker) reportValueRestriction(span token.Span) {
	c.Diags.Add(diag.Diagnostic{
		Severity: diag.SeverityError, Domain: diag.DomainType,
		Code:        diag.CodeTypeValueRestriction,
		Message:     "var without an explicit type annotation must bind a syntactic value to be generalized",
		PrimarySpan: span, Recoverability: diag.Recoverable,
	})
}

// inferBlock infers each statement in order, threading let/var
// bindings into the block's own scope, then infers the optional tail
// expression (§3: a block's type is its tail's type, Unit otherwise).
func (c *Checker) inferBlock(le *localEnv, b *ast.BlockExpr) types.Type {
	for _, s := range b.Stmts {
		c.inferStmt(le, s)
	}
	if b.Tail != nil {
		return c.inferExpr(le, b.Tail)
	}
	return types.TUnit
}

func (c *Checker) inferStmt(le *localEnv, s ast.Stmt) {
	switch st := s.(type) {
	case *ast.DeclStmt:
		c.inferLocalDecl(le, st.Decl)
	case *ast.ExprStmt:
		c.inferExpr(le, st.Expr)
	case *ast.AssignStmt:
		target := c.inferExpr(le, st.Target)
		value := c.inferExpr(le, st.Value)
		c.unify(target, value, st.Span())
	case *ast.DeferStmt:
		c.inferExpr(le, st.Expr)
	}
}

// inferLocalDecl typechecks a local let/var/const. `let` is always
// generalized (no value restriction); `var` without an explicit
// annotation is subject to the value restriction (§4.5): it always
// binds monomorphically, and an initializer that is not a syntactic
// value (see isSyntacticValue) also reports type.value_restriction.
func (c *Checker) inferLocalDecl(le *localEnv, d ast.Decl) {
	switch decl := d.(type) {
	case *ast.LetDecl:
		if rec, ok := decl.Value.(*ast.RecExpr); ok && rec.Name.Name == decl.Name.Name {
			c.Diags.Add(diag.Diagnostic{
				Severity: diag.SeverityError, Domain: diag.DomainType,
				Code:        diag.CodeTypeInfiniteRecursion,
				Message:     "let " + decl.Name.Name + " = rec " + decl.Name.Name + " is a direct self-reference with no lambda indirection",
				PrimarySpan: decl.Span(), Recoverability: diag.Recoverable,
			})
			le.env.Bind(decl.Name.Name, types.MonoScheme(types.TUnknown))
			return
		}
		valueT := c.inferExpr(le, decl.Value)
		if decl.Type != nil {
			annot := c.resolveType(decl.Type, tvarScope{})
			c.unify(valueT, annot, decl.Span())
		}
		scheme := types.Generalize(le.env, c.resolve(valueT), nil)
		le.env.Bind(decl.Name.Name, scheme)
	case *ast.VarDecl:
		valueT := c.inferExpr(le, decl.Value)
		if decl.Type != nil {
			annot := c.resolveType(decl.Type, tvarScope{})
			c.unify(valueT, annot, decl.Span())
			le.env.Bind(decl.Name.Name, types.Generalize(le.env, c.resolve(valueT), nil))
			return
		}
		if !isSyntacticValue(decl.Value) {
			c.reportValueRestriction(decl.Span())
		}
		le.env.Bind(decl.Name.Name, types.MonoScheme(c.resolve(valueT)))
	case *ast.ConstDecl:
		valueT := c.inferExpr(le, decl.Value)
		if decl.Type != nil {
			c.unify(valueT, c.resolveType(decl.Type, tvarScope{}), decl.Span())
		}
		le.env.Bind(decl.Name.Name, types.MonoScheme(c.resolve(valueT)))
	}
}

// isSyntacticValue classifies the expression shapes the value
// restriction exempts from the "non-value" diagnostic: literals,
// lambdas, bare identifiers, and direct constructor calls (a call whose
// callee is an identifier starting with an uppercase letter).
func isSyntacticValue(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.Literal, *ast.LambdaExpr, *ast.IdentExpr:
		return true
	case *ast.CallExpr:
		id, ok := v.Callee.(*ast.IdentExpr)
		if !ok || id.Name.Name == "" {
			return false
		}
		first := id.Name.Name[0]
		return first >= 'A' && first <= 'Z'
	case *ast.TupleAccessExpr, *ast.FieldExpr:
		return false
	default:
		return false
	}
}
