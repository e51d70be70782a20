package capability

import (
	"sort"
	"strings"

	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
)

// leakedCapability is one residual-leak occurrence recorded during a
// run, before compression.
type leakedCapability struct {
	id   string
	span token.Span
}

// LeakCollector accumulates residual-leak occurrences across an
// entire driver run and compresses them into a single summary
// diagnostic (§4.7), mirroring the append-only accumulator idiom
// internal/stream.Recorder uses for trace events.
type LeakCollector struct {
	leaks []leakedCapability
}

// NewLeakCollector returns an empty collector.
func NewLeakCollector() *LeakCollector { return &LeakCollector{} }

// Record appends one residual-leak occurrence for capability id at
// span.
func (c *LeakCollector) Record(id string, span token.Span) {
	c.leaks = append(c.leaks, leakedCapability{id: id, span: span})
}

// Empty reports whether any leak was recorded.
func (c *LeakCollector) Empty() bool { return len(c.leaks) == 0 }

// Flush builds the single compressed residual-leak diagnostic for the
// run, or returns false if nothing was recorded. The primary span is
// the first occurrence; every distinct leaked capability id is listed
// as an expected-token alternative so consumers can render the full
// set without re-walking the run.
func (c *LeakCollector) Flush() (diag.Diagnostic, bool) {
	if len(c.leaks) == 0 {
		return diag.Diagnostic{}, false
	}

	seen := map[string]bool{}
	var ids []string
	for _, l := range c.leaks {
		if !seen[l.id] {
			seen[l.id] = true
			ids = append(ids, l.id)
		}
	}
	sort.Strings(ids)

	alts := make([]diag.ExpectedToken, len(ids))
	for i, id := range ids {
		alts[i] = diag.ExpectedToken{Literal: id}
	}

	return diag.Diagnostic{
		Severity:             diag.SeverityError,
		Domain:               diag.DomainEffects,
		Code:                 diag.CodeEffectsResidualLeak,
		Message:              "capabilities used without runtime grant: " + strings.Join(ids, ", "),
		PrimarySpan:          c.leaks[0].span,
		ExpectedAlternatives: diag.BuildExpectedSummary(alts),
		Recoverability:       diag.Recoverable,
	}, true
}
