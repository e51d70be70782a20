// Package stream holds the parser's streaming-mode support: packrat
// memoization, span tracing, and the integer metrics counters consumed
// by the LSP-like editor loop and by audit tooling (§4.2).
package stream

import "github.com/sigil-lang/sigil/internal/token"

// TraceKind identifies the shape of a trace event. The parser emits
// one on every entered/left expression, accepted module header,
// accepted use declaration, and effect declaration. TraceEffectOp,
// TraceHandlerDefined and TraceResumeCall are defined here but the
// parser does not emit them.
type TraceKind string

const (
	TraceExprEnter          TraceKind = "expr_enter"
	TraceExprLeave          TraceKind = "expr_leave"
	TraceModuleHeaderAccept TraceKind = "module_header_accepted"
	TraceUseDeclAccept      TraceKind = "use_decl_accepted"
	TraceEffectDecl         TraceKind = "effect_decl"
	TraceEffectOp           TraceKind = "effect_op"
	TraceHandlerDefined     TraceKind = "handler_defined"
	TraceResumeCall         TraceKind = "resume_call"
)

// TraceEvent is one `(trace_id, kind, span, label)` record.
type TraceEvent struct {
	TraceID int
	Kind    TraceKind
	Span    token.Span
	Label   string
}

// Recorder accumulates trace events in emission order and assigns each
// a monotonically increasing TraceID, mirroring the append-only
// accumulator convention used for diagnostics.
type Recorder struct {
	events []TraceEvent
	nextID int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Emit records an event and returns it (with its assigned TraceID).
func (r *Recorder) Emit(kind TraceKind, span token.Span, label string) TraceEvent {
	ev := TraceEvent{TraceID: r.nextID, Kind: kind, Span: span, Label: label}
	r.nextID++
	r.events = append(r.events, ev)
	return ev
}

// Events returns all recorded events in emission order.
func (r *Recorder) Events() []TraceEvent { return r.events }

// SpanRecord is one `(label, span)` entry in a SpanTrace.
type SpanRecord struct {
	Label string
	Span  token.Span
}

// SpanTrace is an ordered list of span records. Diagnostics that
// don't carry their own span inherit the trace's most recent entry;
// the parser adds no records to it, so in a parse that fallback finds
// none.
type SpanTrace struct {
	records []SpanRecord
}

// NewSpanTrace returns an empty SpanTrace.
func NewSpanTrace() *SpanTrace { return &SpanTrace{} }

// Record appends a (label, span) pair.
func (t *SpanTrace) Record(label string, span token.Span) {
	t.records = append(t.records, SpanRecord{Label: label, Span: span})
}

// Records returns all recorded entries in order.
func (t *SpanTrace) Records() []SpanRecord { return t.records }

// Last returns the most recently recorded span, if any.
func (t *SpanTrace) Last() (SpanRecord, bool) {
	if len(t.records) == 0 {
		return SpanRecord{}, false
	}
	return t.records[len(t.records)-1], true
}
