package constraint

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/capability"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
	"github.com/sigil-lang/sigil/internal/types"
)

func span(n int) token.Span { return token.Span{Start: n, End: n + 1} }

func TestUnifyBuiltinsSucceed(t *testing.T) {
	s := NewSolver(diag.NewBuilder())
	if err := s.Unify(types.TInt, types.TInt, span(0)); err != nil {
		t.Fatalf("Unify(Int, Int) = %v, want nil", err)
	}
	if s.Diagnostics().HasErrors() {
		t.Error("unexpected diagnostic for a successful unification")
	}
}

func TestUnifyBuiltinsMismatch(t *testing.T) {
	diags := diag.NewBuilder()
	s := NewSolver(diags)
	if err := s.Unify(types.TInt, types.TBool, span(5)); err == nil {
		t.Fatal("Unify(Int, Bool) succeeded, want a mismatch error")
	}
	if !diags.HasErrors() {
		t.Fatal("expected a type.unify.mismatch diagnostic")
	}
	if diags.All()[0].Code != diag.CodeTypeMismatch {
		t.Errorf("code = %v, want %v", diags.All()[0].Code, diag.CodeTypeMismatch)
	}
}

func TestUnifyIsSymmetric(t *testing.T) {
	// §8 universal invariant: unify(a,b).err() iff unify(b,a).err() for
	// the same starting substitution.
	a, b := types.TInt, types.TBool
	s1 := NewSolver(diag.NewBuilder())
	err1 := s1.Unify(a, b, span(0))
	s2 := NewSolver(diag.NewBuilder())
	err2 := s2.Unify(b, a, span(0))
	if (err1 == nil) != (err2 == nil) {
		t.Errorf("unify not symmetric: (a,b)=%v (b,a)=%v", err1, err2)
	}
}

func TestUnifyBindsVariable(t *testing.T) {
	s := NewSolver(diag.NewBuilder())
	v := &types.Var{ID: 1}
	if err := s.Unify(v, types.TInt, span(0)); err != nil {
		t.Fatalf("Unify(var, Int) = %v", err)
	}
	if got := s.Apply(v).String(); got != "Int" {
		t.Errorf("Apply(v) = %s, want Int", got)
	}
}

func TestUnifyOccursCheckFails(t *testing.T) {
	diags := diag.NewBuilder()
	s := NewSolver(diags)
	v := &types.Var{ID: 1}
	cyclic := &types.Slice{Elem: v}
	if err := s.Unify(v, cyclic, span(0)); err == nil {
		t.Fatal("expected occurs-check failure for v = [v]")
	}
	if diags.All()[0].Code != diag.CodeTypeOccurs {
		t.Errorf("code = %v, want %v", diags.All()[0].Code, diag.CodeTypeOccurs)
	}
}

func TestUnifyPropagatesThroughGenericApplication(t *testing.T) {
	s := NewSolver(diag.NewBuilder())
	v := &types.Var{ID: 1}
	left := &types.App{Ctor: "List", Args: []types.Type{v}}
	right := &types.App{Ctor: "List", Args: []types.Type{types.TStr}}
	if err := s.Unify(left, right, span(0)); err != nil {
		t.Fatalf("Unify(List<v>, List<Str>) = %v", err)
	}
	if got := s.Apply(v).String(); got != "Str" {
		t.Errorf("Apply(v) = %s, want Str", got)
	}
}

func TestUnknownUnifiesWithAnythingSilently(t *testing.T) {
	diags := diag.NewBuilder()
	s := NewSolver(diags)
	if err := s.Unify(types.TUnknown, types.TBool, span(0)); err != nil {
		t.Errorf("Unify(Unknown, Bool) = %v, want nil", err)
	}
	if diags.HasErrors() {
		t.Error("Unknown should never produce a mismatch diagnostic")
	}
}

func TestAddQueuesCapabilityAndImplObligations(t *testing.T) {
	s := NewSolver(diag.NewBuilder())
	s.Add(types.Constraint{Kind: types.ConstraintHasCapability, Target: types.TUnit, Capability: "io.print"}, span(0))
	s.Add(types.Constraint{Kind: types.ConstraintImplBound, TraitRef: "Eq", Target: types.TInt, ImplID: "Eq::Int"}, span(1))

	if len(s.Capabilities()) != 1 || s.Capabilities()[0].Name != "io.print" {
		t.Errorf("Capabilities() = %v, want one io.print obligation", s.Capabilities())
	}
	if len(s.ImplBounds()) != 1 || s.ImplBounds()[0].TraitRef != "Eq" {
		t.Errorf("ImplBounds() = %v, want one Eq obligation", s.ImplBounds())
	}
}

func TestImplRegistryDuplicateDetection(t *testing.T) {
	diags := diag.NewBuilder()
	r := NewImplRegistry()
	r.Register("Eq", "Int", span(0), diags)
	r.Register("Eq", "Int", span(10), diags)

	if diags.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", diags.Len())
	}
	d := diags.All()[0]
	if d.Code != diag.CodeTypeImplDuplicate {
		t.Errorf("code = %v, want %v", d.Code, diag.CodeTypeImplDuplicate)
	}
	if d.PrimarySpan.Start != 10 {
		t.Errorf("PrimarySpan = %v, want the second span", d.PrimarySpan)
	}
	if len(d.Notes) != 1 || d.Notes[0].Span.Start != 0 {
		t.Errorf("Notes = %v, want a note pointing at the first span", d.Notes)
	}
}

func TestImplRegistryLookup(t *testing.T) {
	diags := diag.NewBuilder()
	r := NewImplRegistry()
	r.Register("", "Int", span(0), diags) // inherent impl, no trait
	entry, ok := r.Lookup(ID("", "Int"))
	if !ok {
		t.Fatal("expected inherent impl to be registered")
	}
	if entry.TargetLabel != "Int" {
		t.Errorf("TargetLabel = %q, want Int", entry.TargetLabel)
	}
}

func TestSolveIterStageEmitsMismatchOnly(t *testing.T) {
	diags := diag.NewBuilder()
	obligations := []IterStageObligation{
		{
			IterType: &types.App{Ctor: "Iter", Args: []types.Type{types.TInt}},
			Required: capability.StageRequirement{Kind: capability.AtLeast, Stage: capability.Stage2},
			Runtime:  capability.Stage0,
			Span:     span(0),
		},
		{
			IterType: &types.App{Ctor: "Iter", Args: []types.Type{types.TInt}},
			Required: capability.StageRequirement{Kind: capability.AtLeast, Stage: capability.Stage0},
			Runtime:  capability.Stage2,
			Span:     span(1),
		},
	}
	SolveIterStage(obligations, diags)
	if diags.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (only the first obligation mismatches)", diags.Len())
	}
	if diags.All()[0].Code != diag.CodeRuntimeBridgeStageMismatch {
		t.Errorf("code = %v, want %v", diags.All()[0].Code, diag.CodeRuntimeBridgeStageMismatch)
	}
}

func TestSolveIterStageIgnoresNonIterTypes(t *testing.T) {
	diags := diag.NewBuilder()
	obligations := []IterStageObligation{
		{
			IterType: types.TInt,
			Required: capability.StageRequirement{Kind: capability.Exact, Stage: capability.Stage2},
			Runtime:  capability.Stage0,
			Span:     span(0),
		},
	}
	SolveIterStage(obligations, diags)
	if diags.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (non-Iter types are out of scope)", diags.Len())
	}
}
