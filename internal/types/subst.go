package types

// Substitution is a flat mapping from type-variable id to type, owned
// by the constraint solver (§3 Ownership) and applied here to fold a
// partially-solved type down to its current best-known form.
type Substitution map[int]Type

// Apply replaces every free variable in t that the substitution binds,
// recursively. A variable bound to itself would violate I-VAR-MONO and
// is never produced by the solver, so Apply does not guard against
// self-cycles beyond the recursion itself.
func (s Substitution) Apply(t Type) Type {
	if len(s) == 0 || t == nil {
		return t
	}
	switch t := t.(type) {
	case *Var:
		if rep, ok := s[t.ID]; ok {
			return s.Apply(rep)
		}
		return t
	case *App:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = s.Apply(a)
		}
		return &App{Ctor: t.Ctor, Args: args}
	case *Arrow:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = s.Apply(p)
		}
		return &Arrow{Params: params, Ret: s.Apply(t.Ret)}
	case *Slice:
		return &Slice{Elem: s.Apply(t.Elem)}
	case *Ref:
		return &Ref{Mutable: t.Mutable, Elem: s.Apply(t.Elem)}
	default:
		return t
	}
}

// FreeVars returns the set of free type-variable ids occurring in t.
func FreeVars(t Type) map[int]bool {
	out := map[int]bool{}
	collectFreeVars(t, out)
	return out
}

func collectFreeVars(t Type, out map[int]bool) {
	switch t := t.(type) {
	case *Var:
		out[t.ID] = true
	case *App:
		for _, a := range t.Args {
			collectFreeVars(a, out)
		}
	case *Arrow:
		for _, p := range t.Params {
			collectFreeVars(p, out)
		}
		collectFreeVars(t.Ret, out)
	case *Slice:
		collectFreeVars(t.Elem, out)
	case *Ref:
		collectFreeVars(t.Elem, out)
	}
}
