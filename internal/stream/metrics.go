package stream

// Metrics is the set of integer counters snapshotted after a run for
// audit/telemetry purposes (§4.2). All fields are plain counters; none
// require synchronization because one parse/typecheck run owns one
// Metrics value on a single goroutine.
type Metrics struct {
	UnifyCalls            int
	ConstraintsByLabel    map[string]int
	TypedExprCount        int
	ASTNodeCount          int
	TokenRangeAggregate   int
	BinaryExprCount       int
	CallSiteCount         int
	UnresolvedIdentCount  int
}

// NewMetrics returns a zeroed Metrics ready to accumulate.
func NewMetrics() *Metrics {
	return &Metrics{ConstraintsByLabel: make(map[string]int)}
}

func (m *Metrics) IncUnify()              { m.UnifyCalls++ }
func (m *Metrics) IncTypedExpr()          { m.TypedExprCount++ }
func (m *Metrics) IncASTNode()            { m.ASTNodeCount++ }
func (m *Metrics) IncBinaryExpr()         { m.BinaryExprCount++ }
func (m *Metrics) IncCallSite()           { m.CallSiteCount++ }
func (m *Metrics) IncUnresolvedIdent()    { m.UnresolvedIdentCount++ }
func (m *Metrics) AddTokenRange(n int)    { m.TokenRangeAggregate += n }

// IncConstraint bumps the per-label constraint-creation counter.
func (m *Metrics) IncConstraint(label string) {
	m.ConstraintsByLabel[label]++
}

// Snapshot returns a deep copy safe for a caller to retain across
// further mutation of m.
func (m *Metrics) Snapshot() Metrics {
	cp := make(map[string]int, len(m.ConstraintsByLabel))
	for k, v := range m.ConstraintsByLabel {
		cp[k] = v
	}
	return Metrics{
		UnifyCalls:           m.UnifyCalls,
		ConstraintsByLabel:   cp,
		TypedExprCount:       m.TypedExprCount,
		ASTNodeCount:         m.ASTNodeCount,
		TokenRangeAggregate:  m.TokenRangeAggregate,
		BinaryExprCount:      m.BinaryExprCount,
		CallSiteCount:        m.CallSiteCount,
		UnresolvedIdentCount: m.UnresolvedIdentCount,
	}
}
