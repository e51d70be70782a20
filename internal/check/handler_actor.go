package check

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/types"
)

// checkHandler typechecks each `fn op(params) { body }` clause against
// the effect's declared operation signature, binding `resume` in scope
// as a function from the operation's return type to the handler's
// overall result type (§3: handler clauses resume into the point the
// effect was performed from).
func (c *Checker) checkHandler(decl *ast.HandlerDecl) {
	info, ok := c.effects[decl.Effect.Name]
	result := c.fresh()
	for _, clause := range decl.Clauses {
		le := newLocalEnv(c.Global)
		var op *ast.EffectOp
		if ok {
			op = info.Ops[clause.Op.Name]
		}
		for i, p := range clause.Params {
			if op != nil && i < len(op.Params) && op.Params[i].Type != nil {
				le.env.Bind(p.Name.Name, types.MonoScheme(c.resolveType(op.Params[i].Type, tvarScope{})))
			} else {
				le.env.Bind(p.Name.Name, types.MonoScheme(c.fresh()))
			}
		}
		opReturn := c.fresh()
		if op != nil && op.Return != nil {
			opReturn = c.resolveType(op.Return, tvarScope{})
		}
		le.env.Bind("resume", types.MonoScheme(&types.Arrow{Params: []types.Type{opReturn}, Ret: result}))
		bodyT := c.inferExpr(le, clause.Body)
		c.unify(bodyT, result, clause.Body.Span())
	}
}

// checkActor typechecks each `on Message(params) { body }` handler
// against the actor's state type, with `self` bound to it.
func (c *Checker) checkActor(decl *ast.ActorDecl) {
	selfType, ok := c.Global.LookupType(decl.Name.Name)
	if !ok {
		return
	}
	selfArgs := make([]types.Type, len(selfType.Params))
	for i, id := range selfType.Params {
		selfArgs[i] = &types.Var{ID: id}
	}
	self := &types.App{Ctor: decl.Name.Name, Args: selfArgs}
	for _, h := range decl.Handlers {
		le := newLocalEnv(c.Global)
		le.env.Bind("self", types.MonoScheme(self))
		for _, p := range h.Params {
			var pt types.Type
			if p.Type != nil {
				pt = c.resolveType(p.Type, tvarScope{})
			} else {
				pt = c.fresh()
			}
			le.env.Bind(p.Name.Name, types.MonoScheme(pt))
		}
		c.inferBlock(le, h.Body)
	}
}
