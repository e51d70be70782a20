// Package constraint implements the three-kind constraint solver
// (§4.4): Equal unifies eagerly against a shared substitution,
// HasCapability and ImplBound obligations are queued for the checker
// and impl registry to resolve once enough of the module is known.
package constraint

import (
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
	"github.com/sigil-lang/sigil/internal/types"
)

// CapabilityObligation is a deferred HasCapability(τ, name) constraint
// (§4.4), resolved against a capability.Runtime by internal/check once
// the enclosing function/context's capability_requirement is known.
type CapabilityObligation struct {
	Target types.Type
	Name   string
	Span   token.Span
}

// ImplObligation is a deferred ImplBound(trait_ref, target,
// implementation_id) constraint, resolved against the ImplRegistry
// once impl collection (§4.5) has finished.
type ImplObligation struct {
	TraitRef string
	Target   types.Type
	ImplID   string
	Span     token.Span
}

// Solver accumulates constraints and maintains one flat substitution,
// applying every Equal constraint to it immediately so the
// substitution always reflects the best-known types seen so far
// (§4.4). It owns the module's impl registry, since ImplBound
// resolution and duplicate-impl detection share the same backing
// table (§3's ImpId invariant).
type Solver struct {
	Subst        types.Substitution
	Impls        *ImplRegistry
	diags        *diag.Builder
	capabilities []CapabilityObligation
	implBounds   []ImplObligation
}

// NewSolver returns an empty solver reporting into diags.
func NewSolver(diags *diag.Builder) *Solver {
	return &Solver{
		Subst: types.Substitution{},
		Impls: NewImplRegistry(),
		diags: diags,
	}
}

// Add records one constraint produced during inference. Equal
// constraints unify immediately; HasCapability and ImplBound
// constraints are queued for later resolution.
func (s *Solver) Add(c types.Constraint, span token.Span) {
	switch c.Kind {
	case types.ConstraintEqual:
		s.Unify(c.Left, c.Right, span)
	case types.ConstraintHasCapability:
		s.capabilities = append(s.capabilities, CapabilityObligation{
			Target: c.Target,
			Name:   c.Capability,
			Span:   span,
		})
	case types.ConstraintImplBound:
		s.implBounds = append(s.implBounds, ImplObligation{
			TraitRef: c.TraitRef,
			Target:   c.Target,
			ImplID:   c.ImplID,
			Span:     span,
		})
	}
}

// Capabilities returns every HasCapability obligation queued so far.
func (s *Solver) Capabilities() []CapabilityObligation { return s.capabilities }

// ImplBounds returns every ImplBound obligation queued so far.
func (s *Solver) ImplBounds() []ImplObligation { return s.implBounds }

// Apply resolves t through the solver's current substitution.
func (s *Solver) Apply(t types.Type) types.Type { return s.Subst.Apply(t) }

// Diagnostics returns the builder this solver reports into.
func (s *Solver) Diagnostics() *diag.Builder { return s.diags }
