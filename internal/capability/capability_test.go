package capability

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/token"
)

func TestStageRequirementSatisfies(t *testing.T) {
	tests := []struct {
		name string
		req  StageRequirement
		rt   Stage
		want bool
	}{
		{"at least, runtime equal", StageRequirement{Kind: AtLeast, Stage: Stage1}, Stage1, true},
		{"at least, runtime later", StageRequirement{Kind: AtLeast, Stage: Stage1}, Stage2, true},
		{"at least, runtime earlier", StageRequirement{Kind: AtLeast, Stage: Stage2}, Stage1, false},
		{"exact match", StageRequirement{Kind: Exact, Stage: Stage2}, Stage2, true},
		{"exact mismatch", StageRequirement{Kind: Exact, Stage: Stage2}, Stage1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Satisfies(tt.rt); got != tt.want {
				t.Errorf("Satisfies(%v) = %v, want %v", tt.rt, got, tt.want)
			}
		})
	}
}

func TestMergeTakesStricter(t *testing.T) {
	atLeast1 := StageRequirement{Kind: AtLeast, Stage: Stage1}
	atLeast2 := StageRequirement{Kind: AtLeast, Stage: Stage2}
	exact1 := StageRequirement{Kind: Exact, Stage: Stage1}

	if got := Merge(atLeast1, atLeast2); got != atLeast2 {
		t.Errorf("Merge(AtLeast1, AtLeast2) = %v, want %v", got, atLeast2)
	}
	if got := Merge(atLeast2, exact1); got != exact1 {
		t.Errorf("Merge(AtLeast2, Exact1) = %v, want %v (Exact is stricter)", got, exact1)
	}
	if got := Merge(exact1, atLeast2); got != exact1 {
		t.Errorf("Merge(Exact1, AtLeast2) = %v, want %v", got, exact1)
	}
}

func TestCheckUserDefinedEffectBypasses(t *testing.T) {
	rt := Runtime{Stage: Stage0, CapabilitySet: map[string]bool{}}
	result := Check(false, CapabilityDescriptor{}, StageRequirement{}, rt)
	if result.StageMismatch || result.ResidualLeak {
		t.Errorf("user-defined effect should bypass checking, got %+v", result)
	}
}

func TestCheckStageMismatch(t *testing.T) {
	descriptor, ok := Lookup("io.file")
	if !ok {
		t.Fatal("expected io.file to be a known builtin capability")
	}
	rt := Runtime{Stage: Stage0, CapabilitySet: map[string]bool{"io.file": true}}
	result := Check(true, descriptor, StageRequirement{Kind: AtLeast, Stage: Stage0}, rt)
	if !result.StageMismatch {
		t.Errorf("expected stage mismatch at Stage0 for io.file (requires Stage2)")
	}
}

func TestCheckResidualLeak(t *testing.T) {
	descriptor, ok := Lookup("state.get")
	if !ok {
		t.Fatal("expected state.get to be a known builtin capability")
	}
	rt := Runtime{Stage: Stage2, CapabilitySet: map[string]bool{}}
	result := Check(true, descriptor, StageRequirement{}, rt)
	if result.StageMismatch {
		t.Errorf("stage satisfied, should not be a mismatch")
	}
	if !result.ResidualLeak {
		t.Errorf("runtime lacks the capability id, expected a residual leak")
	}
}

func TestCheckSatisfiedWithGrantedCapability(t *testing.T) {
	descriptor, _ := Lookup("state.get")
	rt := Runtime{Stage: Stage2, CapabilitySet: map[string]bool{"state.get": true}}
	result := Check(true, descriptor, StageRequirement{}, rt)
	if result.StageMismatch || result.ResidualLeak {
		t.Errorf("fully satisfied perform should report neither, got %+v", result)
	}
}

func TestLeakCollectorCompressesToOneDiagnostic(t *testing.T) {
	c := NewLeakCollector()
	if !c.Empty() {
		t.Fatal("new collector should be empty")
	}
	c.Record("io.print", token.Span{Start: 5, End: 10})
	c.Record("state.get", token.Span{Start: 20, End: 25})
	c.Record("io.print", token.Span{Start: 30, End: 35}) // duplicate id

	d, ok := c.Flush()
	if !ok {
		t.Fatal("expected a diagnostic after recording leaks")
	}
	if d.PrimarySpan.Start != 5 {
		t.Errorf("PrimarySpan = %v, want the first occurrence", d.PrimarySpan)
	}
	want := []string{"io.print", "state.get"}
	if got := d.ExpectedAlternatives.Keywords; len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ExpectedAlternatives.Keywords = %v, want %v (duplicate io.print folded)", got, want)
	}
}

func TestLeakCollectorFlushEmptyIsFalse(t *testing.T) {
	c := NewLeakCollector()
	if _, ok := c.Flush(); ok {
		t.Error("Flush on an empty collector should report ok=false")
	}
}
