package types

import "sort"

// ConstraintKind names the three obligation shapes a scheme can carry
// (§4.4); internal/constraint is what actually solves them, this
// package only needs to store and substitute over them.
type ConstraintKind int

const (
	ConstraintEqual ConstraintKind = iota
	ConstraintHasCapability
	ConstraintImplBound
)

// Constraint is one element of a scheme's `constraints ⇒` clause.
// Fields are populated per Kind: Equal uses Left/Right, HasCapability
// uses Target/Capability, ImplBound uses TraitRef/Target/ImplID.
type Constraint struct {
	Kind       ConstraintKind
	Left       Type
	Right      Type
	Target     Type
	Capability string
	TraitRef   string
	ImplID     string
}

func (c Constraint) apply(s Substitution) Constraint {
	out := c
	if c.Left != nil {
		out.Left = s.Apply(c.Left)
	}
	if c.Right != nil {
		out.Right = s.Apply(c.Right)
	}
	if c.Target != nil {
		out.Target = s.Apply(c.Target)
	}
	return out
}

// Scheme is `∀ quantifiers. constraints ⇒ type` (§3/§4.3).
type Scheme struct {
	Quantifiers []int
	Constraints []Constraint
	Type        Type
}

// MonoScheme wraps a type with no quantifiers, for bindings the value
// restriction exempts from generalization (§3, `var` without an
// explicit annotation).
func MonoScheme(t Type) *Scheme { return &Scheme{Type: t} }

// Generalize quantifies over the free variables of t that are not
// also free somewhere in env, sorted by id for determinism (§4.3).
func Generalize(env *TypeEnv, t Type, constraints []Constraint) *Scheme {
	tFree := FreeVars(t)
	envFree := env.FreeVars()
	quant := make([]int, 0, len(tFree))
	for id := range tFree {
		if !envFree[id] {
			quant = append(quant, id)
		}
	}
	sort.Ints(quant)
	return &Scheme{Quantifiers: quant, Constraints: constraints, Type: t}
}

// Instantiate replaces a scheme's quantifiers with fresh variables
// from gen, returning a monotype and its constraints rewritten over
// the new variables. A scheme with no quantifiers returns its type
// and constraints unchanged.
func Instantiate(gen *VarGen, s *Scheme) (Type, []Constraint) {
	if len(s.Quantifiers) == 0 {
		return s.Type, s.Constraints
	}
	sub := make(Substitution, len(s.Quantifiers))
	for _, id := range s.Quantifiers {
		sub[id] = gen.Fresh()
	}
	cs := make([]Constraint, len(s.Constraints))
	for i, c := range s.Constraints {
		cs[i] = c.apply(sub)
	}
	return sub.Apply(s.Type), cs
}
