// Package diag implements the diagnostic builder shared by every stage
// of the driver: severity, domain, code, spans, notes, and
// expected-token summaries, per SPEC_FULL §3/§6/§7. Diagnostics are
// collected in an append-only Builder; nothing in this package ever
// panics or aborts a compilation.
package diag

import (
	"sort"

	"github.com/sigil-lang/sigil/internal/token"
)

// Domain names which stage family produced a diagnostic, mirroring
// §7's error-kind families and the original implementation's
// DiagnosticDomain enum.
type Domain string

const (
	DomainParser    Domain = "parser"
	DomainType      Domain = "type"
	DomainEffects   Domain = "effects"
	DomainPattern   Domain = "pattern"
	DomainConductor Domain = "conductor"
	DomainFfi       Domain = "ffi"
	DomainRuntime   Domain = "runtime"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Recoverability marks whether the diagnostic allowed the stage to
// keep producing a structurally valid result (Recoverable) or forced a
// stage-skipping condition (Fatal), per §7.
type Recoverability string

const (
	Recoverable Recoverability = "recoverable"
	Fatal       Recoverability = "fatal"
)

// Code is a stable, dotted diagnostic identifier, e.g.
// "parser.syntax.expected_tokens".
type Code string

const (
	CodeParserExpectedTokens    Code = "parser.syntax.expected_tokens"
	CodeParserUnexpectedStruct  Code = "parser.syntax.unexpected_structure"
	CodeParserInternal          Code = "parser.internal.state"
	CodeParserOpBuilderConflict Code = "parser.opbuilder.level_conflict"
	CodeParserOpBuilderFixity   Code = "parser.opbuilder.fixity_missing"
	CodeParserRecoverBranch     Code = "parser.recover.branch"
	CodeParserASTUnavailable    Code = "parser.ast.unavailable"

	CodeTypeConditionNotBool  Code = "type.condition.not_bool"
	CodeTypeReturnConflict    Code = "type.return_conflict"
	CodeTypeUnicodeShadowing  Code = "type.unicode_shadowing"
	CodeTypeValueRestriction  Code = "type.value_restriction"
	CodeTypeInfiniteRecursion Code = "type.recursion.infinite"
	CodeTypeCtorArityMismatch Code = "type.constructor.arity_mismatch"
	CodeTypeAliasCycle        Code = "type.alias.cycle"
	CodeTypeAliasDepth        Code = "type.alias.expansion_limit"
	CodeTypeUnresolvedIdent   Code = "type.ident.unresolved"
	CodeTypeImplDuplicate     Code = "typeclass.impl.duplicate"
	CodeTypeUnreachable       Code = "type.control_flow.unreachable"
	CodeTypeLambdaCapture     Code = "type.lambda.capture_unsupported"
	CodeTypeLambdaCaptureMut  Code = "type.lambda.capture_mutated"
	CodeTypeMismatch          Code = "type.unify.mismatch"
	CodeTypeOccurs            Code = "type.unify.occurs"

	CodeEffectsResidualLeak      Code = "effects.contract.residual_leak"
	CodeEffectsStageMismatch     Code = "effects.contract.stage_mismatch"
	CodeEffectsPurityViolation   Code = "effects.contract.purity_violation"
	CodeEffectsHandlesUnknown    Code = "effects.handler.handles_unknown_effect"
	CodeEffectsUnsafeInPure      Code = "effects.contract.unsafe_in_pure"
	CodeEffectsIntrinsicMissing  Code = "native.intrinsic.missing_effect"
	CodeEffectsNativeMissingFx   Code = "native.inline.missing_effect"
	CodeEffectsNativeMissingCfg  Code = "native.inline.missing_cfg"
	CodeEffectsNativeInvalidType Code = "native.inline.invalid_type"

	CodePatternExhaustivenessMissing Code = "pattern.exhaustiveness.missing"
	CodePatternUnreachableArm        Code = "pattern.arm.unreachable"
	CodePatternBindingDuplicate      Code = "pattern.binding.duplicate_name"
	CodePatternRegexUnsupported      Code = "pattern.regex.unsupported_target"
	CodePatternRangeTypeMismatch     Code = "pattern.range.type_mismatch"
	CodePatternRangeInverted         Code = "pattern.range.bound_inverted"
	CodePatternSliceTypeMismatch     Code = "pattern.slice.type_mismatch"
	CodePatternSliceMultipleRest     Code = "pattern.slice.multiple_rest"
	CodePatternActiveReturnContract  Code = "pattern.active.return_contract"
	CodePatternNameConflict          Code = "pattern.name_conflict"
	CodePatternEffectViolation       Code = "pattern.effect_violation"

	CodeRuntimeBridgeStageMismatch Code = "runtime.bridge.stage_mismatch"

	CodeConductorDslIDDuplicate Code = "conductor.dsl_id.duplicate"

	CodeFfiVarargsInvalidAbi      Code = "ffi.varargs.invalid_abi"
	CodeFfiVarargsMissingFixed    Code = "ffi.varargs.missing_fixed_param"
)

// Note attaches an auxiliary span/message to a diagnostic, e.g. to
// point at a prior conflicting definition.
type Note struct {
	Label   string
	Message string
	Span    token.Span
}

// ExpectedToken is one alternative in an expected-token summary: either
// a literal token lexeme/kind or a token class (identifier, literal,
// etc).
type ExpectedToken struct {
	// Literal is set for concrete tokens/keywords/punctuation, e.g. ")".
	Literal string
	// Class is set for a token category, e.g. "identifier", "string_literal".
	Class string
}

// ExpectedTokensSummary is the union of every alternative observed at a
// recovery point, plus a humanized rendering and an optional context
// note, per §4.1.
type ExpectedTokensSummary struct {
	Keywords     []string
	Punctuation  []string
	Classes      []string
	Humanized    string
	ContextNote  string
}

// expressionStartTokens is the curated list substituted in whenever the
// "expression context" heuristic fires (identifier + int-literal + "("
// all expected simultaneously), ported verbatim from the original
// implementation's expression_expected_tokens().
var expressionStartTokens = []ExpectedToken{
	{Class: "identifier"},
	{Class: "integer_literal"},
	{Class: "float_literal"},
	{Class: "string_literal"},
	{Class: "char_literal"},
	{Literal: "("},
	{Literal: "-"},
	{Literal: "!"},
	{Literal: "match"},
	{Literal: "if"},
	{Literal: "{"},
}

// BuildExpectedSummary merges a set of expected-token alternatives into
// a single summary, applying the expression-context heuristic from
// §4.1: if identifier, integer-literal, and "(" are all present, the
// raw alternatives are replaced by the curated expression-start list.
func BuildExpectedSummary(alts []ExpectedToken) ExpectedTokensSummary {
	merged := mergeExpectedTokens(alts)

	hasIdent, hasInt, hasParen := false, false, false
	for _, a := range merged {
		switch {
		case a.Class == "identifier":
			hasIdent = true
		case a.Class == "integer_literal":
			hasInt = true
		case a.Literal == "(":
			hasParen = true
		}
	}
	if hasIdent && hasInt && hasParen {
		merged = mergeExpectedTokens(append(append([]ExpectedToken{}, expressionStartTokens...)))
	}

	summary := ExpectedTokensSummary{}
	for _, a := range merged {
		if a.Literal != "" {
			if isKeywordLiteral(a.Literal) {
				summary.Keywords = append(summary.Keywords, a.Literal)
			} else {
				summary.Punctuation = append(summary.Punctuation, a.Literal)
			}
		} else if a.Class != "" {
			summary.Classes = append(summary.Classes, a.Class)
		}
	}
	sort.Strings(summary.Keywords)
	sort.Strings(summary.Punctuation)
	sort.Strings(summary.Classes)
	summary.Humanized = humanize(summary)
	return summary
}

func isKeywordLiteral(lit string) bool {
	if lit == "" {
		return false
	}
	c := lit[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func mergeExpectedTokens(alts []ExpectedToken) []ExpectedToken {
	seen := make(map[ExpectedToken]bool)
	var out []ExpectedToken
	for _, a := range alts {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

func humanize(s ExpectedTokensSummary) string {
	var parts []string
	parts = append(parts, s.Keywords...)
	parts = append(parts, s.Punctuation...)
	parts = append(parts, s.Classes...)
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}

// Diagnostic is the stable wire representation described in §6.
type Diagnostic struct {
	Severity              Severity
	Domain                Domain
	Code                  Code
	Message               string
	PrimarySpan           token.Span
	Notes                 []Note
	ExpectedTokens        []ExpectedToken
	ExpectedAlternatives  ExpectedTokensSummary
	ExpectedMessageKey    string
	Recoverability        Recoverability
	Codes                 []Code
}

// Builder accumulates diagnostics in insertion order; consumers needing a fully-sorted view call Sorted(). The builder is
// append-only: entries are never merged, deferred or removed once
// added.
type Builder struct {
	diagnostics []Diagnostic
}

// NewBuilder returns an empty diagnostic builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a diagnostic.
func (b *Builder) Add(d Diagnostic) {
	b.diagnostics = append(b.diagnostics, d)
}

// All returns every diagnostic added so far, in insertion order.
func (b *Builder) All() []Diagnostic {
	return b.diagnostics
}

// Sorted returns diagnostics ordered by primary span start, a stable
// sort so same-span diagnostics keep insertion order.
func (b *Builder) Sorted() []Diagnostic {
	out := make([]Diagnostic, len(b.diagnostics))
	copy(out, b.diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PrimarySpan.Start < out[j].PrimarySpan.Start
	})
	return out
}

// HasErrors reports whether any accumulated diagnostic is an error.
func (b *Builder) HasErrors() bool {
	for _, d := range b.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Len returns the number of accumulated diagnostics.
func (b *Builder) Len() int { return len(b.diagnostics) }
