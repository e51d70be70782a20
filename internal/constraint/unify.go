package constraint

import (
	"fmt"

	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
	"github.com/sigil-lang/sigil/internal/types"
)

// Unify attempts classical Robinson unification of t1 and t2 with an
// occurs-check, updating the solver's substitution on success. On
// failure it records a Mismatch or Occurs diagnostic and returns an
// error — the caller does not abort; per §4.4 it substitutes Unknown
// for the expression's type and keeps going.
func (s *Solver) Unify(t1, t2 types.Type, span token.Span) error {
	return s.unify(t1, t2, span)
}

func (s *Solver) unify(t1, t2 types.Type, span token.Span) error {
	t1 = s.Subst.Apply(t1)
	t2 = s.Subst.Apply(t2)

	if isUnknown(t1) || isUnknown(t2) {
		return nil
	}

	if v, ok := t1.(*types.Var); ok {
		return s.bind(v, t2, span)
	}
	if v, ok := t2.(*types.Var); ok {
		return s.bind(v, t1, span)
	}

	switch a := t1.(type) {
	case *types.Builtin:
		if b, ok := t2.(*types.Builtin); ok && a.Kind == b.Kind {
			return nil
		}
	case *types.App:
		if b, ok := t2.(*types.App); ok && a.Ctor == b.Ctor && len(a.Args) == len(b.Args) {
			for i := range a.Args {
				if err := s.unify(a.Args[i], b.Args[i], span); err != nil {
					return err
				}
			}
			return nil
		}
	case *types.Arrow:
		if b, ok := t2.(*types.Arrow); ok && len(a.Params) == len(b.Params) {
			for i := range a.Params {
				if err := s.unify(a.Params[i], b.Params[i], span); err != nil {
					return err
				}
			}
			return s.unify(a.Ret, b.Ret, span)
		}
	case *types.Slice:
		if b, ok := t2.(*types.Slice); ok {
			return s.unify(a.Elem, b.Elem, span)
		}
	case *types.Ref:
		if b, ok := t2.(*types.Ref); ok && a.Mutable == b.Mutable {
			return s.unify(a.Elem, b.Elem, span)
		}
	}

	return s.mismatch(t1, t2, span)
}

// isUnknown treats the Unknown builtin as the recovery sentinel: it
// unifies with anything silently rather than ever mismatching, so one
// earlier failure does not cascade into unrelated diagnostics.
func isUnknown(t types.Type) bool {
	b, ok := t.(*types.Builtin)
	return ok && b.Kind == types.Unknown
}

func (s *Solver) bind(v *types.Var, t types.Type, span token.Span) error {
	if other, ok := t.(*types.Var); ok && other.ID == v.ID {
		return nil
	}
	if types.FreeVars(t)[v.ID] {
		s.diags.Add(diag.Diagnostic{
			Severity:       diag.SeverityError,
			Domain:         diag.DomainType,
			Code:           diag.CodeTypeOccurs,
			Message:        fmt.Sprintf("type variable %s occurs in %s", v, t),
			PrimarySpan:    span,
			Recoverability: diag.Recoverable,
		})
		return fmt.Errorf("occurs check failed: %s in %s", v, t)
	}
	s.Subst[v.ID] = t
	return nil
}

func (s *Solver) mismatch(t1, t2 types.Type, span token.Span) error {
	s.diags.Add(diag.Diagnostic{
		Severity:       diag.SeverityError,
		Domain:         diag.DomainType,
		Code:           diag.CodeTypeMismatch,
		Message:        fmt.Sprintf("type mismatch: expected %s, found %s", t1, t2),
		PrimarySpan:    span,
		Recoverability: diag.Recoverable,
	})
	return fmt.Errorf("mismatch: %s vs %s", t1, t2)
}
