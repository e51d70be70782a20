package check

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/types"
)

// scrutineeClass is the classification MatchExhaustivenessAnalyzer
// (§4.5.1) dispatches coverage rules on.
type scrutineeClass int

const (
	classUnknown scrutineeClass = iota
	classBool
	classOptionLike // Option<T> or Result<T,E>
	classSlice
	classSum // a user-declared enum with a known constructor set
	classNumeric
	classOther
)

func (c *Checker) classify(t types.Type) scrutineeClass {
	switch tt := t.(type) {
	case *types.Builtin:
		switch tt.Kind {
		case types.Bool:
			return classBool
		case types.Int, types.UInt, types.Float:
			return classNumeric
		case types.Unknown:
			return classUnknown
		default:
			return classOther
		}
	case *types.Slice:
		return classSlice
	case *types.App:
		if tt.Ctor == "Option" || tt.Ctor == "Result" {
			return classOptionLike
		}
		if decl, ok := c.Global.LookupType(tt.Ctor); ok && len(decl.Constructors) > 0 {
			return classSum
		}
		return classOther
	default:
		return classOther
	}
}

// checkExhaustiveness runs the coverage check for one match expression
// and, once coverage is established, flags any arm reached only after
// full coverage as unreachable.
func (c *Checker) checkExhaustiveness(scrutinee types.Type, n *ast.MatchExpr) {
	class := c.classify(scrutinee)
	if class == classUnknown {
		return
	}
	covered := false
	var missing []string
	switch class {
	case classBool:
		covered, missing = c.coverBool(n.Arms)
	case classOptionLike:
		covered, missing = c.coverOptionLike(scrutinee, n.Arms)
	case classSlice:
		covered, missing = c.coverSlice(n.Arms)
	case classSum:
		covered, missing = c.coverSum(scrutinee, n.Arms)
	case classNumeric:
		covered, missing = c.coverNumeric(n.Arms)
	default:
		covered = hasCatchAll(n.Arms)
	}
	if !covered {
		msg := "match is not exhaustive"
		if len(missing) > 0 {
			msg += ": missing " + strings.Join(missing, ", ")
		}
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainPattern,
			Code: diag.CodePatternExhaustivenessMissing, Message: msg,
			PrimarySpan: n.Span(), Recoverability: diag.Recoverable,
		})
	}
	c.checkUnreachableArms(n.Arms)
}

// checkUnreachableArms flags every arm after the first unconditional,
// guard-free catch-all (a wildcard, bare var, or as-binding over one)
// since no scrutinee value can ever reach it.
func (c *Checker) checkUnreachableArms(arms []*ast.MatchArm) {
	seenCatchAll := false
	for _, arm := range arms {
		if seenCatchAll {
			c.Diags.Add(diag.Diagnostic{
				Severity: diag.SeverityError, Domain: diag.DomainPattern,
				Code: diag.CodePatternUnreachableArm, Message: "unreachable match arm",
				PrimarySpan: arm.Span(), Recoverability: diag.Recoverable,
			})
			continue
		}
		if isUnconditionalCatchAll(arm.Pattern) {
			seenCatchAll = true
		}
	}
}

func isUnconditionalCatchAll(p ast.Pattern) bool {
	switch pp := p.(type) {
	case *ast.PatternWild, *ast.PatternVar:
		return true
	case *ast.PatternBinding:
		return isUnconditionalCatchAll(pp.Sub)
	default:
		return false
	}
}

func hasCatchAll(arms []*ast.MatchArm) bool {
	for _, a := range arms {
		if isUnconditionalCatchAll(stripGuard(a.Pattern)) {
			return true
		}
	}
	return false
}

func stripGuard(p ast.Pattern) ast.Pattern {
	if g, ok := p.(*ast.PatternGuard); ok {
		return g.Sub
	}
	return p
}

func (c *Checker) coverBool(arms []*ast.MatchArm) (bool, []string) {
	if hasCatchAll(arms) {
		return true, nil
	}
	haveTrue, haveFalse := false, false
	for _, a := range arms {
		if lit, ok := stripGuard(a.Pattern).(*ast.PatternLiteral); ok && lit.Lit.Kind == ast.LitBool {
			if lit.Lit.Text == "true" {
				haveTrue = true
			} else {
				haveFalse = true
			}
		}
	}
	if haveTrue && haveFalse {
		return true, nil
	}
	var missing []string
	if !haveTrue {
		missing = append(missing, "true")
	}
	if !haveFalse {
		missing = append(missing, "false")
	}
	return false, missing
}

func (c *Checker) coverOptionLike(scrutinee types.Type, arms []*ast.MatchArm) (bool, []string) {
	if hasCatchAll(arms) {
		return true, nil
	}
	app, _ := scrutinee.(*types.App)
	var want []string
	if app != nil && app.Ctor == "Result" {
		want = []string{"Ok", "Err"}
	} else {
		want = []string{"Some", "None"}
	}
	seen := map[string]bool{}
	for _, a := range arms {
		if ctor, ok := stripGuard(a.Pattern).(*ast.PatternConstructor); ok {
			seen[ctor.Name.Name] = true
		}
	}
	var missing []string
	for _, w := range want {
		if !seen[w] {
			missing = append(missing, w)
		}
	}
	return len(missing) == 0, missing
}

// coverSlice requires both an empty-slice arm (`[]`) and a rest-pattern
// arm (`[..rest]` or any slice pattern with a `..` element) to call a
// slice scrutinee exhaustive: a lone rest pattern like `[x, ..rest]`
// never matches a zero-length slice, so it alone does not cover every
// length (§4.5.1).
func (c *Checker) coverSlice(arms []*ast.MatchArm) (bool, []string) {
	if hasCatchAll(arms) {
		return true, nil
	}
	haveEmpty, haveRest := false, false
	for _, a := range arms {
		sl, ok := stripGuard(a.Pattern).(*ast.PatternSlice)
		if !ok {
			continue
		}
		if sl.RestAt >= 0 {
			haveRest = true
			if len(sl.Elems) == 1 {
				haveEmpty = true // a bare `[..rest]` also matches the empty slice
			}
		} else if len(sl.Elems) == 0 {
			haveEmpty = true
		}
	}
	if haveEmpty && haveRest {
		return true, nil
	}
	var missing []string
	if !haveEmpty {
		missing = append(missing, "an empty-slice pattern (`[]`)")
	}
	if !haveRest {
		missing = append(missing, "a rest pattern (`..rest`) covering arbitrary length")
	}
	return false, missing
}

func (c *Checker) coverSum(scrutinee types.Type, arms []*ast.MatchArm) (bool, []string) {
	if hasCatchAll(arms) {
		return true, nil
	}
	app, _ := scrutinee.(*types.App)
	if app == nil {
		return true, nil
	}
	decl, ok := c.Global.LookupType(app.Ctor)
	if !ok {
		return true, nil
	}
	seen := map[string]bool{}
	for _, a := range arms {
		switch p := stripGuard(a.Pattern).(type) {
		case *ast.PatternConstructor:
			seen[p.Name.Name] = true
		case *ast.PatternOr:
			for _, alt := range p.Alts {
				if ctor, ok := alt.(*ast.PatternConstructor); ok {
					seen[ctor.Name.Name] = true
				}
			}
		}
	}
	var missing []string
	for _, ctor := range decl.Constructors {
		if !seen[ctor.Name] {
			missing = append(missing, ctor.Name)
		}
	}
	return len(missing) == 0, missing
}

// coverNumeric implements the interval-coverage rule for range
// patterns over an unbounded integer domain: a wildcard/var arm is the
// only way to guarantee total coverage, since arbitrary integer
// literals can't be enumerated. Explicit PatternRange/PatternLiteral
// arms are still validated for inverted bounds, but don't by
// themselves prove exhaustiveness.
func (c *Checker) coverNumeric(arms []*ast.MatchArm) (bool, []string) {
	type interval struct{ lo, hi int64 }
	var intervals []interval
	for _, a := range arms {
		switch p := stripGuard(a.Pattern).(type) {
		case *ast.PatternRange:
			lo, loOK := constIntOf(p.Low)
			hi, hiOK := constIntOf(p.High)
			if loOK && hiOK {
				if p.Kind == ast.RangeExclusive {
					hi--
				}
				if lo > hi {
					c.Diags.Add(diag.Diagnostic{
						Severity: diag.SeverityError, Domain: diag.DomainPattern,
						Code: diag.CodePatternRangeInverted, Message: "range pattern has inverted bounds",
						PrimarySpan: p.Span(), Recoverability: diag.Recoverable,
					})
					continue
				}
				intervals = append(intervals, interval{lo, hi})
			}
		case *ast.PatternLiteral:
			if p.Lit.Kind == ast.LitInt {
				if v, ok := constIntOf(p.Lit); ok {
					intervals = append(intervals, interval{v, v})
				}
			}
		}
	}
	if hasCatchAll(arms) {
		return true, nil
	}
	if len(intervals) == 0 {
		return false, []string{"a wildcard or binding arm covering the remaining values"}
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].lo < intervals[j].lo })
	var gaps []string
	for i := 1; i < len(intervals); i++ {
		if intervals[i].lo > intervals[i-1].hi+1 {
			gaps = append(gaps, "["+strconv.FormatInt(intervals[i-1].hi+1, 10)+", "+strconv.FormatInt(intervals[i].lo-1, 10)+"]")
		}
	}
	gaps = append(gaps, "values outside the declared ranges (no catch-all arm)")
	return false, gaps
}

func constIntOf(e ast.Expr) (int64, bool) {
	lit, ok := e.(*ast.Literal)
	if !ok || lit.Kind != ast.LitInt {
		return 0, false
	}
	v, err := strconv.ParseInt(lit.Text, lit.Base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
