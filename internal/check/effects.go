package check

import (
	"github.com/google/uuid"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/capability"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
	"github.com/sigil-lang/sigil/internal/types"
)

// DictRef is a materialized witness that the use site at Span satisfies
// the Capability obligation named, per the glossary's definition. Each
// perform site gets its own stable id so later stages (a runtime
// bridge, an audit trail) can refer to the exact obligation rather than
// re-deriving it from the span.
type DictRef struct {
	ID         uuid.UUID
	Capability string
	Span       token.Span
}

// inferPerform typechecks `perform Effect(args)` (§4.5): it looks up
// the declared operation's signature, unifies the call's argument
// types against it, forbids performing inside a @pure function or an
// active pattern body, and requires the named capability.
func (c *Checker) inferPerform(le *localEnv, n *ast.PerformExpr) types.Type {
	if c.inPureContext() {
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainEffects,
			Code: diag.CodeEffectsPurityViolation, Message: "perform is not allowed in a @pure context",
			PrimarySpan: n.Span(), Recoverability: diag.Recoverable,
		})
	}
	info, ok := c.effects[n.Effect.Name]
	argTypes := make([]types.Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = c.inferExpr(le, a)
	}
	c.requireCapability(le, n.Effect.Name, n.Span())
	if !ok {
		return c.fresh()
	}
	// PerformExpr names the effect, not a specific op; when the effect
	// declares exactly one operation, unify positionally against it.
	if len(info.Ops) == 1 {
		for _, op := range info.Ops {
			tv := tvarScope{}
			for i, p := range op.Params {
				if i < len(argTypes) && p.Type != nil {
					c.unify(argTypes[i], c.resolveType(p.Type, tv), n.Span())
				}
			}
			if op.Return != nil {
				return c.resolveType(op.Return, tv)
			}
		}
	}
	return c.fresh()
}

// requireCapability queues a HasCapability obligation and immediately
// checks it against the runtime stage/capability set (§4.7), recording
// a stage mismatch as a diagnostic and an unmet-but-staged capability
// into the module-wide leak collector.
func (c *Checker) requireCapability(le *localEnv, name string, span token.Span) {
	c.Solver.Add(types.Constraint{Kind: types.ConstraintHasCapability, Target: types.TUnit, Capability: name}, span)
	c.dictRefs = append(c.dictRefs, DictRef{ID: uuid.New(), Capability: name, Span: span})
	descriptor, found := capability.Lookup(name)
	if !found {
		// User-defined effects have no registered CapabilityDescriptor, so
		// they bypass the stage/descriptor merge capability.Check performs
		// (§4.7) — but a perform with no matching runtime grant is still a
		// residual leak in its own right (§8).
		if !c.Runtime.Has(name) {
			c.leaks.Record(name, span)
		}
		return
	}
	result := capability.Check(found, descriptor, capability.StageRequirement{Kind: capability.AtLeast, Stage: c.Runtime.Stage}, c.Runtime)
	if result.StageMismatch {
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainEffects,
			Code: diag.CodeEffectsStageMismatch, Message: "capability " + name + " requires " + result.Required.Stage.String() + " but runtime is at " + c.Runtime.Stage.String(),
			PrimarySpan: span, Recoverability: diag.Recoverable,
		})
	}
	if result.ResidualLeak {
		c.leaks.Record(name, span)
	}
}
