package ast

import "github.com/sigil-lang/sigil/internal/token"

// PatternWild is `_`.
type PatternWild struct{ span token.Span }

func NewPatternWild(span token.Span) *PatternWild { return &PatternWild{span: span} }
func (p *PatternWild) Span() token.Span           { return p.span }
func (*PatternWild) patternNode()                 {}

// PatternVar binds the scrutinee to a name.
type PatternVar struct {
	Name *Ident
	span token.Span
}

func NewPatternVar(name *Ident, span token.Span) *PatternVar { return &PatternVar{Name: name, span: span} }
func (p *PatternVar) Span() token.Span                        { return p.span }
func (*PatternVar) patternNode()                              {}

// PatternLiteral matches a literal value exactly.
type PatternLiteral struct {
	Lit  *Literal
	span token.Span
}

func NewPatternLiteral(lit *Literal, span token.Span) *PatternLiteral {
	return &PatternLiteral{Lit: lit, span: span}
}
func (p *PatternLiteral) Span() token.Span { return p.span }
func (*PatternLiteral) patternNode()       {}

// PatternTuple matches a fixed-arity tuple.
type PatternTuple struct {
	Elems []Pattern
	span  token.Span
}

func NewPatternTuple(elems []Pattern, span token.Span) *PatternTuple {
	return &PatternTuple{Elems: elems, span: span}
}
func (p *PatternTuple) Span() token.Span { return p.span }
func (*PatternTuple) patternNode()       {}

// RecordFieldPattern is one `name: pattern` (or shorthand `name`) entry
// in a record pattern.
type RecordFieldPattern struct {
	Name    *Ident
	Pattern Pattern // nil for shorthand, defaulting to PatternVar(Name)
	span    token.Span
}

func NewRecordFieldPattern(name *Ident, pat Pattern, span token.Span) *RecordFieldPattern {
	return &RecordFieldPattern{Name: name, Pattern: pat, span: span}
}
func (f *RecordFieldPattern) Span() token.Span { return f.span }

// PatternRecord matches a struct-like record by field name.
type PatternRecord struct {
	Type   *Ident // optional constructor/struct name
	Fields []*RecordFieldPattern
	Rest   bool // `..` present
	span   token.Span
}

func NewPatternRecord(typ *Ident, fields []*RecordFieldPattern, rest bool, span token.Span) *PatternRecord {
	return &PatternRecord{Type: typ, Fields: fields, Rest: rest, span: span}
}
func (p *PatternRecord) Span() token.Span { return p.span }
func (*PatternRecord) patternNode()       {}

// PatternConstructor matches a sum-type variant with positional payload
// patterns, e.g. `Some(x)`.
type PatternConstructor struct {
	Name    *Ident
	Payload []Pattern
	span    token.Span
}

func NewPatternConstructor(name *Ident, payload []Pattern, span token.Span) *PatternConstructor {
	return &PatternConstructor{Name: name, Payload: payload, span: span}
}
func (p *PatternConstructor) Span() token.Span { return p.span }
func (*PatternConstructor) patternNode()       {}

// PatternBinding is `name @ subpattern` or `subpattern as name`.
type PatternBinding struct {
	Name    *Ident
	Sub     Pattern
	AsStyle bool // true if written `sub as name` rather than `name @ sub`
	span    token.Span
}

func NewPatternBinding(name *Ident, sub Pattern, asStyle bool, span token.Span) *PatternBinding {
	return &PatternBinding{Name: name, Sub: sub, AsStyle: asStyle, span: span}
}
func (p *PatternBinding) Span() token.Span { return p.span }
func (*PatternBinding) patternNode()       {}

// PatternOr is `p1 | p2 | ...`.
type PatternOr struct {
	Alts []Pattern
	span token.Span
}

func NewPatternOr(alts []Pattern, span token.Span) *PatternOr { return &PatternOr{Alts: alts, span: span} }
func (p *PatternOr) Span() token.Span                          { return p.span }
func (*PatternOr) patternNode()                                {}

// PatternSlice matches a slice, with at most one `..rest` sub-pattern
// anywhere in the element list (§4.5.1).
type PatternSlice struct {
	Elems    []Pattern
	RestAt   int // index of the `..rest` element, -1 if absent
	RestName *Ident
	span     token.Span
}

func NewPatternSlice(elems []Pattern, restAt int, restName *Ident, span token.Span) *PatternSlice {
	return &PatternSlice{Elems: elems, RestAt: restAt, RestName: restName, span: span}
}
func (p *PatternSlice) Span() token.Span { return p.span }
func (*PatternSlice) patternNode()       {}

// RangeBoundKind distinguishes inclusive/exclusive/half-open range
// patterns.
type RangeBoundKind int

const (
	RangeExclusive RangeBoundKind = iota // a..b
	RangeInclusive                       // a..=b
)

// PatternRange matches an integer within [Low, High] or [Low, High).
type PatternRange struct {
	Low, High Expr
	Kind      RangeBoundKind
	span      token.Span
}

func NewPatternRange(low, high Expr, kind RangeBoundKind, span token.Span) *PatternRange {
	return &PatternRange{Low: low, High: high, Kind: kind, span: span}
}
func (p *PatternRange) Span() token.Span { return p.span }
func (*PatternRange) patternNode()       {}

// PatternRegex matches a string/bytes scrutinee against a regular
// expression literal.
type PatternRegex struct {
	Source string
	span   token.Span
}

func NewPatternRegex(source string, span token.Span) *PatternRegex {
	return &PatternRegex{Source: source, span: span}
}
func (p *PatternRegex) Span() token.Span { return p.span }
func (*PatternRegex) patternNode()       {}

// PatternActive invokes a user-defined active pattern function, either
// total (`Name(args)`) or partial (`Name|_|(args)`).
type PatternActive struct {
	Name    *Ident
	Partial bool
	Args    []Pattern
	span    token.Span
}

func NewPatternActive(name *Ident, partial bool, args []Pattern, span token.Span) *PatternActive {
	return &PatternActive{Name: name, Partial: partial, Args: args, span: span}
}
func (p *PatternActive) Span() token.Span { return p.span }
func (*PatternActive) patternNode()       {}

// PatternGuard wraps a sub-pattern with a `when` guard expression.
type PatternGuard struct {
	Sub   Pattern
	Guard Expr
	span  token.Span
}

func NewPatternGuard(sub Pattern, guard Expr, span token.Span) *PatternGuard {
	return &PatternGuard{Sub: sub, Guard: guard, span: span}
}
func (p *PatternGuard) Span() token.Span { return p.span }
func (*PatternGuard) patternNode()       {}
