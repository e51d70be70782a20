package constraint

import (
	"fmt"

	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
)

// ImplEntry records one registered impl.
type ImplEntry struct {
	ID          string
	TraitName   string
	TargetLabel string
	Span        token.Span
}

// ImplRegistry tracks registered impls keyed by ImpId = trait-name? +
// "::" + target-type-label (§3), detecting duplicates.
type ImplRegistry struct {
	byID map[string]*ImplEntry
}

// NewImplRegistry returns an empty registry.
func NewImplRegistry() *ImplRegistry { return &ImplRegistry{byID: map[string]*ImplEntry{}} }

// ID builds the §3 ImpId for a trait name (empty for an inherent
// impl) and a target type label.
func ID(traitName, targetLabel string) string {
	return traitName + "::" + targetLabel
}

// Register records a new impl. If the id is already taken it reports
// typeclass.impl.duplicate pointing at the new span with a note
// referencing the first definition, and returns the prior entry
// unchanged (§3, scenario 6).
func (r *ImplRegistry) Register(traitName, targetLabel string, span token.Span, diags *diag.Builder) *ImplEntry {
	id := ID(traitName, targetLabel)
	if prior, ok := r.byID[id]; ok {
		diags.Add(diag.Diagnostic{
			Severity:       diag.SeverityError,
			Domain:         diag.DomainType,
			Code:           diag.CodeTypeImplDuplicate,
			Message:        fmt.Sprintf("duplicate impl for %q", id),
			PrimarySpan:    span,
			Notes:          []diag.Note{{Label: "first defined here", Span: prior.Span}},
			Recoverability: diag.Recoverable,
		})
		return prior
	}
	entry := &ImplEntry{ID: id, TraitName: traitName, TargetLabel: targetLabel, Span: span}
	r.byID[id] = entry
	return entry
}

// Lookup returns the registered impl for id, if any.
func (r *ImplRegistry) Lookup(id string) (*ImplEntry, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// Candidates returns every registered impl whose trait name matches
// traitName and whose target label matches targetLabel, used by the
// MIR qualified-call resolver (§4.6) when more than one impl could
// apply.
func (r *ImplRegistry) Candidates(traitName, targetLabel string) []*ImplEntry {
	var out []*ImplEntry
	for _, e := range r.byID {
		if e.TraitName == traitName && e.TargetLabel == targetLabel {
			out = append(out, e)
		}
	}
	return out
}
