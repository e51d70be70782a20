// Package check implements the typecheck driver (§4.5): an ordered
// declaration-registration pass followed by a per-declaration inference
// pass, producing a substitution-resolved TypedModule and feeding the
// capability/stage model, match exhaustiveness analyzer, active-pattern
// classifier, and conductor checker along the way.
package check

import (
	"strings"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/capability"
	"github.com/sigil-lang/sigil/internal/constraint"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
	"github.com/sigil-lang/sigil/internal/types"
)

// EffectInfo records one `effect Name { ops... }` declaration, keyed by
// operation name so `perform Name(args)` call sites can resolve a
// return type and the HasCapability obligation it carries.
type EffectInfo struct {
	Decl *ast.EffectDecl
	Ops  map[string]*ast.EffectOp
}

// dslRegistration records a conductor's dsl_id for §4.8's uniqueness
// invariant.
type dslRegistration struct {
	span token.Span
}

// Checker holds the whole-module state threaded through both passes:
// the global type environment, the constraint solver (which owns the
// impl registry and the running substitution), the diagnostic builder,
// and the bookkeeping tables the ordered registration pass fills in
// before any body is inferred.
type Checker struct {
	Global *types.TypeEnv
	Gen    *types.VarGen
	Solver *constraint.Solver
	Diags  *diag.Builder

	Runtime capability.Runtime
	leaks   *capability.LeakCollector

	// dictRefs accumulates one DictRef per `perform`/capability-requiring
	// use site, in the order requireCapability saw them.
	dictRefs []DictRef

	ExprTypes map[ast.Expr]types.Type

	effects        map[string]*EffectInfo
	activePatterns map[string]*ast.ActivePatternDecl
	functionNames  map[string]token.Span
	dslIDs         map[string]dslRegistration
	constructors   map[string]*types.TypeConstructorBinding

	// purity/native stack: true while inferring the body of a @pure
	// function or an active pattern, both of which forbid `perform`.
	pureStack []bool

	// nextNegativeID hands out declaration-owned type-parameter ids,
	// offset well below the prelude's own reserved -1/-2 range so the
	// two never collide.
	nextNegativeID int

	// currentNative/currentCfgTarget track whether the function whose
	// body is currently being inferred declared !{native} and an
	// @cfg(target_...) guard, for inline_asm/llvm_ir! validation.
	currentNative    bool
	currentCfgTarget bool

	// captureStack holds, innermost-last, the set of function-local
	// names each enclosing lambda captures, so an AssignExpr inside a
	// lambda body can tell a mutated captured binding apart from an
	// ordinary local assignment (§4.5).
	captureStack []map[string]token.Span
}

// NewChecker returns a checker with the prelude constructors
// (Option/Result/List/Iter/... per §4.3) pre-registered and running at
// the given runtime stage/capability set (§4.7).
func NewChecker(runtime capability.Runtime) *Checker {
	env := types.NewTypeEnv()
	types.RegisterPrelude(env)
	c := &Checker{
		Global:         env,
		Gen:            &types.VarGen{},
		Diags:          diag.NewBuilder(),
		Runtime:        runtime,
		leaks:          capability.NewLeakCollector(),
		ExprTypes:      map[ast.Expr]types.Type{},
		effects:        map[string]*EffectInfo{},
		activePatterns: map[string]*ast.ActivePatternDecl{},
		functionNames:  map[string]token.Span{},
		dslIDs:         map[string]dslRegistration{},
		constructors:   map[string]*types.TypeConstructorBinding{},
		nextNegativeID: -1000,
	}
	c.Solver = constraint.NewSolver(c.Diags)
	c.registerPreludeValues()
	return c
}

// registerPreludeValues binds the value-level constructors RegisterPrelude
// leaves unbound: Option's Some/None and Result's Ok/Err. It reuses each
// type's own declared parameter ids (rather than minting fresh ones) so the
// constructor schemes quantify over the same type variables LookupType
// hands back for Option/Result elsewhere in the checker.
func (c *Checker) registerPreludeValues() {
	optionDecl, ok := c.Global.LookupType("Option")
	if ok {
		some := types.Type(&types.Var{ID: optionDecl.Params[0]})
		decl := types.RegisterSumType(c.Global, "Option", optionDecl.Params, []struct {
			Name    string
			Payload []types.Type
		}{
			{"Some", []types.Type{some}},
			{"None", nil},
		})
		for _, ctor := range decl.Constructors {
			c.constructors[ctor.Name] = ctor
		}
	}

	resultDecl, ok := c.Global.LookupType("Result")
	if ok {
		okT := types.Type(&types.Var{ID: resultDecl.Params[0]})
		errT := types.Type(&types.Var{ID: resultDecl.Params[1]})
		decl := types.RegisterSumType(c.Global, "Result", resultDecl.Params, []struct {
			Name    string
			Payload []types.Type
		}{
			{"Ok", []types.Type{okT}},
			{"Err", []types.Type{errT}},
		})
		for _, ctor := range decl.Constructors {
			c.constructors[ctor.Name] = ctor
		}
	}
}

// Check runs both passes over a parsed module and flushes any residual
// capability leaks collected during inference into one diagnostic
// (§4.7's LeakCollector).
func (c *Checker) Check(mod *ast.Module) {
	c.collectDecls(mod)
	c.checkBodies(mod)
	if d, ok := c.leaks.Flush(); ok {
		c.Diags.Add(d)
	}
}

// DictRefs returns every capability witness materialized while
// checking the module, in the order their perform/use sites were seen.
func (c *Checker) DictRefs() []DictRef { return c.dictRefs }

func (c *Checker) inPureContext() bool {
	for _, p := range c.pureStack {
		if p {
			return true
		}
	}
	return false
}

func (c *Checker) pushPurity(pure bool) { c.pureStack = append(c.pureStack, pure) }
func (c *Checker) popPurity()           { c.pureStack = c.pureStack[:len(c.pureStack)-1] }

// fresh returns a brand-new inference variable as a types.Type.
func (c *Checker) fresh() types.Type { return c.Gen.Fresh() }

// unify adds an Equal constraint between t1 and t2 at span, eagerly
// unifying against the solver's shared substitution (§4.4).
func (c *Checker) unify(t1, t2 types.Type, span token.Span) error {
	return c.Solver.Unify(t1, t2, span)
}

// resolve applies the solver's current substitution to t, so callers
// see the best-known type after unification rather than a raw
// inference variable.
func (c *Checker) resolve(t types.Type) types.Type { return c.Solver.Apply(t) }

// typeLabel renders a type's target label for ImpId construction (§3):
// the constructor name for App/Builtin, or the rendered string
// otherwise.
func typeLabel(t types.Type) string {
	switch tt := t.(type) {
	case *types.App:
		return tt.Ctor
	case *types.Builtin:
		return string(tt.Kind)
	default:
		return t.String()
	}
}

// qualifiedName joins a module path into the `::`-separated form used for
// diagnostics and ImpId target labels.
func qualifiedName(path []*ast.Ident) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = id.Name
	}
	return strings.Join(parts, "::")
}
