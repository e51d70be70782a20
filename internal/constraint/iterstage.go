package constraint

import (
	"github.com/sigil-lang/sigil/internal/capability"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
	"github.com/sigil-lang/sigil/internal/types"
)

// IterStageObligation pairs an `Iter<T>`-shaped constraint with the
// Stage the call site declares it runs at, for the separate iterator
// stage sub-procedure described in §4.4.
type IterStageObligation struct {
	IterType types.Type
	Required capability.StageRequirement
	Runtime  capability.Stage
	Span     token.Span
}

// SolveIterStage inspects each obligation's `Iter<T>`-shaped
// constraint, extracts the declared required Stage, compares it
// against the runtime-provided Stage, and emits a stage-mismatch
// diagnostic for every one that cannot be satisfied.
func SolveIterStage(obligations []IterStageObligation, diags *diag.Builder) {
	for _, ob := range obligations {
		app, ok := ob.IterType.(*types.App)
		if !ok || app.Ctor != "Iter" {
			continue
		}
		rt := capability.Runtime{Stage: ob.Runtime}
		if !rt.Satisfies(ob.Required) {
			diags.Add(diag.Diagnostic{
				Severity:       diag.SeverityError,
				Domain:         diag.DomainRuntime,
				Code:           diag.CodeRuntimeBridgeStageMismatch,
				Message:        "iterator " + app.String() + " requires " + ob.Required.Stage.String() + " but runtime is at " + ob.Runtime.String(),
				PrimarySpan:    ob.Span,
				Recoverability: diag.Recoverable,
			})
		}
	}
}
