package check

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/types"
)

// checkActivePattern typechecks an active pattern's body against its
// declared total/partial classification (§4.5.2): a total pattern's
// body must return its bare result type, a partial pattern's body must
// return Option<T>; returning Result<_,_> is forbidden either way.
// Active patterns share the function namespace's purity discipline:
// `perform` is never allowed in their bodies.
func (c *Checker) checkActivePattern(decl *ast.ActivePatternDecl) {
	scheme, ok := c.Global.Lookup(decl.Name.Name)
	if !ok {
		return
	}
	fnType, _ := types.Instantiate(c.Gen, scheme)
	arrow, ok := fnType.(*types.Arrow)
	if !ok {
		return
	}
	le := newLocalEnv(c.Global)
	for i, p := range decl.Params {
		if i < len(arrow.Params) {
			le.env.Bind(p.Name.Name, types.MonoScheme(arrow.Params[i]))
		}
	}
	c.pushPurity(true)
	bodyT := c.inferExpr(le, decl.Body)
	c.popPurity()

	resolved := c.resolve(bodyT)
	if app, ok := resolved.(*types.App); ok && app.Ctor == "Result" {
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainPattern,
			Code: diag.CodePatternActiveReturnContract, Message: "active pattern may not return Result<_,_>",
			PrimarySpan: decl.Body.Span(), Recoverability: diag.Recoverable,
		})
		return
	}
	c.unify(bodyT, arrow.Ret, decl.Body.Span())
}
