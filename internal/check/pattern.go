package check

import (
	"strconv"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
	"github.com/sigil-lang/sigil/internal/types"
)

// inferPattern binds every name introduced by pat into le.env and
// unifies the pattern's shape against scrutinee, reporting
// pattern-specific type mismatches along the way (§4.5.1).
func (c *Checker) inferPattern(le *localEnv, pat ast.Pattern, scrutinee types.Type) {
	switch p := pat.(type) {
	case *ast.PatternWild:
	case *ast.PatternVar:
		le.env.Bind(p.Name.Name, types.MonoScheme(scrutinee))
	case *ast.PatternLiteral:
		c.unify(literalType(p.Lit), scrutinee, p.Span())
	case *ast.PatternTuple:
		args := make([]types.Type, len(p.Elems))
		for i := range p.Elems {
			args[i] = c.fresh()
		}
		c.unify(scrutinee, &types.App{Ctor: "Tuple", Args: args}, p.Span())
		for i, sub := range p.Elems {
			c.inferPattern(le, sub, args[i])
		}
	case *ast.PatternRecord:
		for _, f := range p.Fields {
			fieldT := c.fresh()
			sub := f.Pattern
			if sub == nil {
				le.env.Bind(f.Name.Name, types.MonoScheme(fieldT))
				continue
			}
			c.inferPattern(le, sub, fieldT)
		}
	case *ast.PatternConstructor:
		ctor, ok := c.constructors[p.Name.Name]
		if !ok {
			for _, sub := range p.Payload {
				c.inferPattern(le, sub, c.fresh())
			}
			return
		}
		if len(ctor.Payload) != len(p.Payload) {
			c.Diags.Add(diag.Diagnostic{
				Severity: diag.SeverityError, Domain: diag.DomainType,
				Code:        diag.CodeTypeCtorArityMismatch,
				Message:     "constructor pattern " + p.Name.Name + " expects " + strconv.Itoa(len(ctor.Payload)) + " argument(s), got " + strconv.Itoa(len(p.Payload)),
				PrimarySpan: p.Span(), Recoverability: diag.Recoverable,
			})
		}
		instType, _ := types.Instantiate(c.Gen, ctor.Scheme)
		arrow, _ := instType.(*types.Arrow)
		if arrow != nil {
			c.unify(scrutinee, arrow.Ret, p.Span())
			for i, sub := range p.Payload {
				if i < len(arrow.Params) {
					c.inferPattern(le, sub, arrow.Params[i])
				} else {
					c.inferPattern(le, sub, c.fresh())
				}
			}
		}
	case *ast.PatternBinding:
		c.inferPattern(le, p.Sub, scrutinee)
		le.env.Bind(p.Name.Name, types.MonoScheme(scrutinee))
	case *ast.PatternOr:
		for _, alt := range p.Alts {
			c.inferPattern(le, alt, scrutinee)
		}
	case *ast.PatternSlice:
		elem := c.fresh()
		if !isSliceLike(c.resolve(scrutinee)) {
			c.Diags.Add(diag.Diagnostic{
				Severity: diag.SeverityError, Domain: diag.DomainPattern,
				Code: diag.CodePatternSliceTypeMismatch, Message: "slice pattern applied to a non-slice scrutinee",
				PrimarySpan: p.Span(), Recoverability: diag.Recoverable,
			})
		}
		c.unify(scrutinee, &types.Slice{Elem: elem}, p.Span())
		for i, sub := range p.Elems {
			if i == p.RestAt {
				if p.RestName != nil {
					le.env.Bind(p.RestName.Name, types.MonoScheme(scrutinee))
				}
				continue
			}
			c.inferPattern(le, sub, elem)
		}
	case *ast.PatternRange:
		if !isIntegerLike(c.resolve(scrutinee)) {
			c.Diags.Add(diag.Diagnostic{
				Severity: diag.SeverityError, Domain: diag.DomainPattern,
				Code: diag.CodePatternRangeTypeMismatch, Message: "range pattern applied to a non-integer scrutinee",
				PrimarySpan: p.Span(), Recoverability: diag.Recoverable,
			})
			break
		}
		c.unify(scrutinee, types.TInt, p.Span())
	case *ast.PatternRegex:
		if !isStringLike(c.resolve(scrutinee)) {
			c.Diags.Add(diag.Diagnostic{
				Severity: diag.SeverityError, Domain: diag.DomainPattern,
				Code: diag.CodePatternRegexUnsupported, Message: "regex pattern applied to a non-string/bytes scrutinee",
				PrimarySpan: p.Span(), Recoverability: diag.Recoverable,
			})
		}
	case *ast.PatternActive:
		scheme, ok := c.Global.Lookup(p.Name.Name)
		if !ok {
			return
		}
		instType, _ := types.Instantiate(c.Gen, scheme)
		arrow, _ := instType.(*types.Arrow)
		if arrow == nil {
			return
		}
		for i, sub := range p.Args {
			if i < len(arrow.Params) {
				c.inferPattern(le, sub, arrow.Params[i])
			}
		}
		result := arrow.Ret
		if p.Partial {
			inner := c.fresh()
			c.unify(result, &types.App{Ctor: "Option", Args: []types.Type{inner}}, p.Span())
			c.unify(scrutinee, inner, p.Span())
		} else {
			c.unify(scrutinee, result, p.Span())
		}
	case *ast.PatternGuard:
		c.inferPattern(le, p.Sub, scrutinee)
		c.unify(c.inferExpr(le, p.Guard), types.TBool, p.Guard.Span())
	}
}

func isIntegerLike(t types.Type) bool {
	switch tt := t.(type) {
	case *types.Builtin:
		return tt.Kind == types.Int || tt.Kind == types.UInt || tt.Kind == types.Unknown
	case *types.Var:
		return true
	default:
		return false
	}
}

func isStringLike(t types.Type) bool {
	switch tt := t.(type) {
	case *types.Builtin:
		return tt.Kind == types.Str || tt.Kind == types.Bytes || tt.Kind == types.Unknown
	case *types.Var:
		return true
	default:
		return false
	}
}

func isSliceLike(t types.Type) bool {
	switch tt := t.(type) {
	case *types.Slice:
		return true
	case *types.Var:
		return true
	case *types.Builtin:
		return tt.Kind == types.Unknown
	default:
		return false
	}
}

// inferMatch infers the scrutinee, unifies every arm's pattern against
// it, pairwise-unifies every arm body, and runs the exhaustiveness
// analyzer (§4.5.1) over the arm patterns.
func (c *Checker) inferMatch(le *localEnv, n *ast.MatchExpr) types.Type {
	scrutinee := c.inferExpr(le, n.Scrutinee)
	result := c.fresh()
	for _, arm := range n.Arms {
		armEnv := le.child()
		c.checkBindingNamesUnique(arm.Pattern)
		c.inferPattern(armEnv, arm.Pattern, scrutinee)
		bodyT := c.inferExpr(armEnv, arm.Body)
		c.unify(result, bodyT, arm.Span())
	}
	c.checkExhaustiveness(c.resolve(scrutinee), n)
	return result
}

// checkBindingNamesUnique walks one match arm's pattern tree and reports
// pattern.binding.duplicate_name for any binding name bound more than
// once within the arm. Alternatives of an or-pattern are independent
// (only one alt matches at a time) and so are checked separately from
// each other, not against each other.
func (c *Checker) checkBindingNamesUnique(pat ast.Pattern) {
	seen := map[string]token.Span{}
	c.collectBindingNames(pat, seen)
}

func (c *Checker) collectBindingNames(pat ast.Pattern, seen map[string]token.Span) {
	switch p := pat.(type) {
	case *ast.PatternVar:
		c.recordBindingName(p.Name, seen)
	case *ast.PatternTuple:
		for _, sub := range p.Elems {
			c.collectBindingNames(sub, seen)
		}
	case *ast.PatternRecord:
		for _, f := range p.Fields {
			if f.Pattern == nil {
				c.recordBindingName(f.Name, seen)
				continue
			}
			c.collectBindingNames(f.Pattern, seen)
		}
	case *ast.PatternConstructor:
		for _, sub := range p.Payload {
			c.collectBindingNames(sub, seen)
		}
	case *ast.PatternBinding:
		c.collectBindingNames(p.Sub, seen)
		c.recordBindingName(p.Name, seen)
	case *ast.PatternOr:
		for _, alt := range p.Alts {
			branch := make(map[string]token.Span, len(seen))
			for k, v := range seen {
				branch[k] = v
			}
			c.collectBindingNames(alt, branch)
			for k, v := range branch {
				if _, ok := seen[k]; !ok {
					seen[k] = v
				}
			}
		}
	case *ast.PatternSlice:
		for i, sub := range p.Elems {
			if i == p.RestAt {
				continue
			}
			c.collectBindingNames(sub, seen)
		}
		if p.RestName != nil {
			c.recordBindingName(p.RestName, seen)
		}
	case *ast.PatternActive:
		for _, sub := range p.Args {
			c.collectBindingNames(sub, seen)
		}
	case *ast.PatternGuard:
		c.collectBindingNames(p.Sub, seen)
	}
}

func (c *Checker) recordBindingName(id *ast.Ident, seen map[string]token.Span) {
	if id == nil || id.Name == "_" {
		return
	}
	if _, dup := seen[id.Name]; dup {
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainPattern,
			Code:        diag.CodePatternBindingDuplicate,
			Message:     "binding name " + id.Name + " is bound more than once in this pattern",
			PrimarySpan: id.Span(), Recoverability: diag.Recoverable,
		})
		return
	}
	seen[id.Name] = id.Span()
}
