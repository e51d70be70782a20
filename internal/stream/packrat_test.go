package stream

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/token"
)

func TestCacheGetMissThenHit(t *testing.T) {
	c := NewCache()
	key := Key{ParserID: 1, Range: Range{Start: 0, End: 4}}

	if _, ok := c.Get(key); ok {
		t.Fatalf("expected miss on empty cache")
	}

	c.Put(key, &Entry{Success: true})

	e, ok := c.Get(key)
	if !ok || !e.Success {
		t.Fatalf("expected hit with Success=true, got %+v, %v", e, ok)
	}

	stats := c.Stats()
	if stats.Size != 1 {
		t.Fatalf("expected cache size 1, got %d", stats.Size)
	}
	if stats.Warm != warmupRounds {
		t.Fatalf("expected warm count %d, got %d", warmupRounds, stats.Warm)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %+v", stats)
	}
}

func TestCacheInvalidateOverlapping(t *testing.T) {
	c := NewCache()
	inside := Key{ParserID: 1, Range: Range{Start: 2, End: 6}}
	outside := Key{ParserID: 1, Range: Range{Start: 10, End: 14}}
	c.Put(inside, &Entry{Success: true})
	c.Put(outside, &Entry{Success: true})

	c.Invalidate(0, 8)

	if _, ok := c.Get(inside); ok {
		t.Fatalf("expected overlapping entry to be invalidated")
	}
	if _, ok := c.Get(outside); !ok {
		t.Fatalf("expected non-overlapping entry to survive invalidation")
	}
}

func TestRecorderAssignsIncreasingTraceIDs(t *testing.T) {
	r := NewRecorder()
	sp := token.Span{Start: 0, End: 1}

	first := r.Emit(TraceModuleHeaderAccept, sp, "mod")
	second := r.Emit(TraceUseDeclAccept, sp, "use")

	if first.TraceID != 0 || second.TraceID != 1 {
		t.Fatalf("expected sequential trace ids 0,1; got %d,%d", first.TraceID, second.TraceID)
	}
	if len(r.Events()) != 2 {
		t.Fatalf("expected 2 recorded events, got %d", len(r.Events()))
	}
}

func TestSpanTraceLast(t *testing.T) {
	tr := NewSpanTrace()
	if _, ok := tr.Last(); ok {
		t.Fatalf("expected no last record on empty trace")
	}
	tr.Record("expr", token.Span{Start: 1, End: 2})
	tr.Record("pattern", token.Span{Start: 3, End: 4})

	last, ok := tr.Last()
	if !ok || last.Label != "pattern" {
		t.Fatalf("expected last record to be 'pattern', got %+v", last)
	}
}

func TestMetricsSnapshotIsIndependentCopy(t *testing.T) {
	m := NewMetrics()
	m.IncUnify()
	m.IncConstraint("Equal")
	m.IncConstraint("Equal")

	snap := m.Snapshot()
	m.IncConstraint("Equal")

	if snap.ConstraintsByLabel["Equal"] != 2 {
		t.Fatalf("expected snapshot to be frozen at 2, got %d", snap.ConstraintsByLabel["Equal"])
	}
	if m.ConstraintsByLabel["Equal"] != 3 {
		t.Fatalf("expected live metrics to keep accumulating, got %d", m.ConstraintsByLabel["Equal"])
	}
	if snap.UnifyCalls != 1 {
		t.Fatalf("expected UnifyCalls snapshot of 1, got %d", snap.UnifyCalls)
	}
}
