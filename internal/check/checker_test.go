package check

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/capability"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
)

func sp() token.Span { return token.Span{} }

func ident(name string) *ast.Ident { return ast.NewIdent(name, sp()) }

func intLit(text string) *ast.Literal { return ast.NewLiteral(ast.LitInt, text, 10, sp()) }

func boolLit(text string) *ast.Literal { return ast.NewLiteral(ast.LitBool, text, 10, sp()) }

func namedType(name string) *ast.NamedType { return ast.NewNamedType([]*ast.Ident{ident(name)}, sp()) }

func block(stmts []ast.Stmt, tail ast.Expr) *ast.BlockExpr {
	b := ast.NewBlockExpr(nil, stmts, sp())
	b.Tail = tail
	return b
}

func newRuntime(stage capability.Stage, caps ...string) capability.Runtime {
	set := map[string]bool{}
	for _, c := range caps {
		set[c] = true
	}
	return capability.Runtime{Stage: stage, CapabilitySet: set}
}

// Two functions sharing a name should report a duplicate, and the
// second definition should not clobber the first's registration.
func TestCollectDeclsDuplicateFunctionName(t *testing.T) {
	fn1 := ast.NewFnDecl(ident("run"), nil, nil, block(nil, intLit("1")), sp())
	fn2 := ast.NewFnDecl(ident("run"), nil, nil, block(nil, intLit("2")), sp())

	mod := ast.NewModule(sp())
	mod.Functions = []*ast.FnDecl{fn1, fn2}

	c := NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	found := false
	for _, d := range c.Diags.All() {
		if d.Code == diag.CodePatternNameConflict {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a duplicate-name diagnostic, got %v", c.Diags.All())
	}
}

// A function returning a literal int typechecks with no diagnostics
// when its declared return type matches.
func TestCheckFunctionBodyMatchesDeclaredReturn(t *testing.T) {
	fn := ast.NewFnDecl(ident("answer"), nil, namedType("Int"), block(nil, intLit("42")), sp())
	mod := ast.NewModule(sp())
	mod.Functions = []*ast.FnDecl{fn}

	c := NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	if c.Diags.HasErrors() {
		t.Errorf("expected no errors, got %v", c.Diags.All())
	}
}

// Binding a function's Int-typed return against a body that produces a
// Bool must report a type mismatch.
func TestCheckFunctionBodyMismatchedReturn(t *testing.T) {
	fn := ast.NewFnDecl(ident("wrong"), nil, namedType("Int"), block(nil, boolLit("true")), sp())
	mod := ast.NewModule(sp())
	mod.Functions = []*ast.FnDecl{fn}

	c := NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	if !c.Diags.HasErrors() {
		t.Error("expected a type mismatch diagnostic")
	}
}

// `let` bindings are always generalized; re-instantiating a
// polymorphic identity function against two different argument types
// in the same body must not produce a unification error.
func TestLetGeneralizesPolymorphicLambda(t *testing.T) {
	idLambda := ast.NewLambdaExpr([]*ast.Param{ast.NewParam(ident("x"), nil, sp())}, identExprOf{name: "x"}.expr(), sp())
	letStmt := ast.NewDeclStmt(ast.NewLetDecl(ident("id"), nil, idLambda, false, sp()), sp())
	callInt := ast.NewCallExpr(ast.NewIdentExpr(ident("id"), sp()), []ast.Expr{intLit("1")}, sp())
	callBool := ast.NewCallExpr(ast.NewIdentExpr(ident("id"), sp()), []ast.Expr{boolLit("true")}, sp())
	exprStmt := ast.NewDeclStmt(ast.NewLetDecl(ident("_a"), nil, callInt, false, sp()), sp())

	fn := ast.NewFnDecl(ident("use_id"), nil, nil, block([]ast.Stmt{letStmt, exprStmt}, callBool), sp())
	mod := ast.NewModule(sp())
	mod.Functions = []*ast.FnDecl{fn}

	c := NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	if c.Diags.HasErrors() {
		t.Errorf("expected id to be usable at both Int and Bool, got %v", c.Diags.All())
	}
}

// A bool match with only a `true` arm and no catch-all is not
// exhaustive.
func TestMatchExhaustivenessBoolMissingArm(t *testing.T) {
	arm := ast.NewMatchArm(ast.NewPatternLiteral(boolLit("true"), sp()), intLit("1"), sp())
	match := ast.NewMatchExpr(boolLit("true"), []*ast.MatchArm{arm}, sp())

	fn := ast.NewFnDecl(ident("check"), nil, nil, block(nil, match), sp())
	mod := ast.NewModule(sp())
	mod.Functions = []*ast.FnDecl{fn}

	c := NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	found := false
	for _, d := range c.Diags.All() {
		if d.Code == diag.CodePatternExhaustivenessMissing {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an exhaustiveness diagnostic, got %v", c.Diags.All())
	}
}

// A bool match covering both true and false, or with a wildcard, is
// exhaustive.
func TestMatchExhaustivenessBoolWildcard(t *testing.T) {
	arm := ast.NewMatchArm(ast.NewPatternWild(sp()), intLit("1"), sp())
	match := ast.NewMatchExpr(boolLit("true"), []*ast.MatchArm{arm}, sp())

	fn := ast.NewFnDecl(ident("check"), nil, nil, block(nil, match), sp())
	mod := ast.NewModule(sp())
	mod.Functions = []*ast.FnDecl{fn}

	c := NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	for _, d := range c.Diags.All() {
		if d.Code == diag.CodePatternExhaustivenessMissing {
			t.Errorf("did not expect an exhaustiveness diagnostic, got %v", d)
		}
	}
}

// An arm following an unconditional wildcard can never be reached.
func TestMatchUnreachableArmAfterWildcard(t *testing.T) {
	wild := ast.NewMatchArm(ast.NewPatternWild(sp()), intLit("1"), sp())
	after := ast.NewMatchArm(ast.NewPatternLiteral(boolLit("true"), sp()), intLit("2"), sp())
	match := ast.NewMatchExpr(boolLit("true"), []*ast.MatchArm{wild, after}, sp())

	fn := ast.NewFnDecl(ident("check"), nil, nil, block(nil, match), sp())
	mod := ast.NewModule(sp())
	mod.Functions = []*ast.FnDecl{fn}

	c := NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	found := false
	for _, d := range c.Diags.All() {
		if d.Code == diag.CodePatternUnreachableArm {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an unreachable-arm diagnostic, got %v", c.Diags.All())
	}
}

// A total active pattern's body returning its bare declared type
// (not wrapped in Option<T>) typechecks cleanly.
func TestActivePatternTotalAcceptsBareType(t *testing.T) {
	ap := ast.NewActivePatternDecl(ident("Double"), false,
		[]*ast.Param{ast.NewParam(ident("n"), namedType("Int"), sp())},
		intLit("2"), sp())

	mod := ast.NewModule(sp())
	mod.ActivePatterns = []*ast.ActivePatternDecl{ap}

	c := NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	if c.Diags.HasErrors() {
		t.Errorf("expected a total active pattern returning Int to typecheck, got %v", c.Diags.All())
	}
}

// An active pattern may never return Result<_,_>, whether declared
// total or partial.
func TestActivePatternForbidsResultReturn(t *testing.T) {
	resultCall := ast.NewCallExpr(ast.NewIdentExpr(ident("Ok"), sp()), []ast.Expr{intLit("1")}, sp())
	ap := ast.NewActivePatternDecl(ident("Parse"), true,
		[]*ast.Param{ast.NewParam(ident("s"), namedType("Str"), sp())},
		resultCall, sp())

	mod := ast.NewModule(sp())
	mod.ActivePatterns = []*ast.ActivePatternDecl{ap}

	c := NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	found := false
	for _, d := range c.Diags.All() {
		if d.Code == diag.CodePatternActiveReturnContract {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an active-pattern return-contract diagnostic, got %v", c.Diags.All())
	}
}

// Performing a @pure function's forbidden effect reports a purity
// violation.
func TestPerformInPureFunctionIsRejected(t *testing.T) {
	perform := ast.NewPerformExpr(ident("IO"), []ast.Expr{}, sp())
	fn := ast.NewFnDecl(ident("impure_work"), nil, nil, block(nil, perform), sp())
	fn.Attrs = []*ast.Attr{{Name: "pure"}}

	mod := ast.NewModule(sp())
	mod.Effects = []*ast.EffectDecl{
		ast.NewEffectDecl(ident("IO"), []*ast.EffectOp{
			ast.NewEffectOp(ident("print"), nil, namedType("Unit"), sp()),
		}, sp()),
	}
	mod.Functions = []*ast.FnDecl{fn}

	c := NewChecker(newRuntime(capability.Stage2, "IO"))
	c.Check(mod)

	found := false
	for _, d := range c.Diags.All() {
		if d.Code == diag.CodeEffectsPurityViolation {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a purity-violation diagnostic, got %v", c.Diags.All())
	}
}

// `async.await` is gated at Stage2; requiring it against a Stage0
// runtime must report a stage mismatch.
func TestRequireCapabilityStageMismatch(t *testing.T) {
	c := NewChecker(newRuntime(capability.Stage0))
	c.requireCapability(newLocalEnv(c.Global), "async.await", sp())

	found := false
	for _, d := range c.Diags.All() {
		if d.Code == diag.CodeEffectsStageMismatch {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a stage-mismatch diagnostic at Stage0, got %v", c.Diags.All())
	}
}

// Two conductors sharing a dsl_id must report a duplicate.
func TestConductorDuplicateDslID(t *testing.T) {
	pipeline1 := intLit("1")
	pipeline2 := intLit("2")
	c1 := ast.NewConductorDecl(ident("dup"), ident("Target"), pipeline1, nil, sp())
	c2 := ast.NewConductorDecl(ident("dup"), ident("Target"), pipeline2, nil, sp())

	mod := ast.NewModule(sp())
	mod.Decls = []ast.Decl{c1, c2}

	c := NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	found := false
	for _, d := range c.Diags.All() {
		if d.Code == diag.CodeConductorDslIDDuplicate {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a duplicate dsl_id diagnostic, got %v", c.Diags.All())
	}
}

// A handler naming an effect that was never declared reports
// handles_unknown_effect.
func TestHandlerUnknownEffect(t *testing.T) {
	h := ast.NewHandlerDecl(ident("MyHandler"), ident("Nope"), nil, sp())
	mod := ast.NewModule(sp())
	mod.Decls = []ast.Decl{h}

	c := NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	found := false
	for _, d := range c.Diags.All() {
		if d.Code == diag.CodeEffectsHandlesUnknown {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a handles-unknown-effect diagnostic, got %v", c.Diags.All())
	}
}

// A struct's constructor, called with the wrong number of positional
// arguments, reports an arity mismatch.
func TestConstructorArityMismatch(t *testing.T) {
	pointDecl := ast.NewStructDecl(ident("Point"), nil, []*ast.StructField{
		ast.NewStructField(ident("x"), namedType("Int"), sp()),
		ast.NewStructField(ident("y"), namedType("Int"), sp()),
	}, sp())

	call := ast.NewCallExpr(ast.NewIdentExpr(ident("Point"), sp()), []ast.Expr{intLit("1")}, sp())
	fn := ast.NewFnDecl(ident("make_point"), nil, nil, block(nil, call), sp())

	mod := ast.NewModule(sp())
	mod.Decls = []ast.Decl{pointDecl}
	mod.Functions = []*ast.FnDecl{fn}

	c := NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	found := false
	for _, d := range c.Diags.All() {
		if d.Code == diag.CodeTypeCtorArityMismatch {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a constructor arity-mismatch diagnostic, got %v", c.Diags.All())
	}
}

// identExprOf is a tiny helper so a lambda body can refer back to its
// own parameter without repeating ast.NewIdentExpr/ast.NewIdent calls.
type identExprOf struct{ name string }

func (i identExprOf) expr() ast.Expr { return ast.NewIdentExpr(ident(i.name), sp()) }
