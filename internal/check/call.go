package check

import (
	"strconv"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
	"github.com/sigil-lang/sigil/internal/types"
)

func (c *Checker) inferArgs(le *localEnv, args []ast.Expr) []types.Type {
	out := make([]types.Type, len(args))
	for i, a := range args {
		out[i] = c.inferExpr(le, a)
	}
	return out
}

// inferCall handles a direct call `callee(args...)`, including the
// case where callee is a sum-type constructor (already bound as a
// function-shaped scheme by RegisterSumType/fillEnum).
func (c *Checker) inferCall(le *localEnv, n *ast.CallExpr) types.Type {
	args := c.inferArgs(le, n.Args)
	return c.applyCallee(le, n.Callee, args, n.Span())
}

// applyCallee infers callee's type, unifies it against an Arrow shaped
// by the already-inferred argument types, and returns the return type.
// Arity mismatches against a known constructor report
// type.constructor.arity_mismatch directly; any other arrow mismatch
// falls through to Unify's ordinary mismatch diagnostic.
func (c *Checker) applyCallee(le *localEnv, callee ast.Expr, args []types.Type, span token.Span) types.Type {
	if ident, ok := callee.(*ast.IdentExpr); ok {
		if ctor, found := c.constructors[ident.Name.Name]; found && len(ctor.Payload) != len(args) {
			c.Diags.Add(diag.Diagnostic{
				Severity: diag.SeverityError, Domain: diag.DomainType,
				Code:        diag.CodeTypeCtorArityMismatch,
				Message:     "constructor " + ident.Name.Name + " expects " + strconv.Itoa(len(ctor.Payload)) + " argument(s), got " + strconv.Itoa(len(args)),
				PrimarySpan: span, Recoverability: diag.Recoverable,
			})
			return c.fresh()
		}
	}
	calleeType := c.inferExpr(le, callee)
	ret := c.fresh()
	c.unify(calleeType, &types.Arrow{Params: args, Ret: ret}, span)
	return ret
}

func (c *Checker) inferBinary(le *localEnv, n *ast.BinaryExpr) types.Type {
	left := c.inferExpr(le, n.Left)
	right := c.inferExpr(le, n.Right)
	switch n.Op {
	case ast.OpAnd, ast.OpOr:
		c.unify(left, types.TBool, n.Span())
		c.unify(right, types.TBool, n.Span())
		return types.TBool
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		c.unify(left, right, n.Span())
		return types.TBool
	default:
		c.unify(left, right, n.Span())
		return left
	}
}

func (c *Checker) inferLambda(le *localEnv, n *ast.LambdaExpr) types.Type {
	captured := c.capturedNames(le, n)
	for name, span := range captured {
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainType,
			Code:        diag.CodeTypeLambdaCapture,
			Message:     "lambda captures function-local binding " + name,
			PrimarySpan: span, Recoverability: diag.Recoverable,
		})
	}
	c.captureStack = append(c.captureStack, captured)
	defer func() { c.captureStack = c.captureStack[:len(c.captureStack)-1] }()

	body := le.child()
	params := make([]types.Type, len(n.Params))
	for i, p := range n.Params {
		var pt types.Type
		if p.Type != nil {
			pt = c.resolveType(p.Type, tvarScope{})
		} else {
			pt = c.fresh()
		}
		params[i] = pt
		body.env.Bind(p.Name.Name, types.MonoScheme(pt))
	}
	ret := c.inferExpr(body, n.Body)
	return &types.Arrow{Params: params, Ret: ret}
}

// capturedNames identifies every free identifier in a lambda's body
// that resolves to a binding introduced by an enclosing function-local
// scope (a parameter, let/var, for/match binding, or an outer lambda's
// own param) rather than a top-level symbol registered directly on
// c.Global (§4.5: "top-level symbols are not captures").
func (c *Checker) capturedNames(le *localEnv, n *ast.LambdaExpr) map[string]token.Span {
	bound := map[string]bool{}
	for _, p := range n.Params {
		bound[p.Name.Name] = true
	}
	free := map[string]token.Span{}
	freeIdentRefs(n.Body, bound, free)

	captured := map[string]token.Span{}
	for name, span := range free {
		if _, ok := le.env.LookupBelow(name, c.Global); ok {
			captured[name] = span
		}
	}
	return captured
}

// checkCapturedMutation reports type.lambda.capture_mutated when an
// assignment target is a name the innermost enclosing lambda captured
// from a function-local scope (§4.5: mutating a capture is diagnosed
// separately from capturing it).
func (c *Checker) checkCapturedMutation(target ast.Expr) {
	ident, ok := target.(*ast.IdentExpr)
	if !ok || len(c.captureStack) == 0 {
		return
	}
	name := ident.Name.Name
	for i := len(c.captureStack) - 1; i >= 0; i-- {
		if _, captured := c.captureStack[i][name]; captured {
			c.Diags.Add(diag.Diagnostic{
				Severity: diag.SeverityError, Domain: diag.DomainType,
				Code:        diag.CodeTypeLambdaCaptureMut,
				Message:     "lambda mutates captured binding " + name,
				PrimarySpan: ident.Span(), Recoverability: diag.Recoverable,
			})
			return
		}
	}
}

func (c *Checker) inferIf(le *localEnv, n *ast.IfExpr) types.Type {
	c.checkConditionIsBool(c.inferExpr(le, n.Cond), n.Cond.Span())
	thenT := c.inferBlock(le.child(), n.Then)
	if n.Else == nil {
		return types.TUnit
	}
	elseT := c.inferExpr(le.child(), n.Else)
	if err := c.unify(thenT, elseT, n.Span()); err != nil {
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainType,
			Code:        diag.CodeTypeReturnConflict,
			Message:     "if and else branches return different types: " + c.resolve(thenT).String() + " vs " + c.resolve(elseT).String(),
			PrimarySpan: n.Span(), Recoverability: diag.Recoverable,
		})
	}
	return thenT
}

// checkConditionIsBool unifies a condition's type against Bool and, if
// that fails, reports type.condition.not_bool instead of letting the
// mismatch surface as the generic unify diagnostic. unify never errors
// for Unknown or an unresolved inference variable, so this never fires
// on those.
func (c *Checker) checkConditionIsBool(condT types.Type, span token.Span) {
	if err := c.unify(condT, types.TBool, span); err != nil {
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainType,
			Code:        diag.CodeTypeConditionNotBool,
			Message:     "condition must be Bool, found " + c.resolve(condT).String(),
			PrimarySpan: span, Recoverability: diag.Recoverable,
		})
	}
}
