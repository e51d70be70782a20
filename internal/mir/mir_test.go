package mir

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/capability"
	"github.com/sigil-lang/sigil/internal/check"
	"github.com/sigil-lang/sigil/internal/token"
)

func sp() token.Span { return token.Span{} }

func ident(name string) *ast.Ident { return ast.NewIdent(name, sp()) }

func intLit(text string) *ast.Literal { return ast.NewLiteral(ast.LitInt, text, 10, sp()) }

func namedType(name string) *ast.NamedType { return ast.NewNamedType([]*ast.Ident{ident(name)}, sp()) }

func block(tail ast.Expr) *ast.BlockExpr {
	b := ast.NewBlockExpr(nil, nil, sp())
	b.Tail = tail
	return b
}

func newRuntime(stage capability.Stage) capability.Runtime {
	return capability.Runtime{Stage: stage, CapabilitySet: map[string]bool{}}
}

// A function with a declared Int return type lowers to a Function whose
// ReturnType label is "Int" and whose single param carries its own
// resolved label.
func TestLowerFunctionLabelsParamsAndReturn(t *testing.T) {
	fn := ast.NewFnDecl(ident("double"),
		[]*ast.Param{ast.NewParam(ident("x"), namedType("Int"), sp())},
		namedType("Int"),
		block(ast.NewIdentExpr(ident("x"), sp())), sp())

	mod := ast.NewModule(sp())
	mod.Functions = []*ast.FnDecl{fn}

	c := check.NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)
	if c.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", c.Diags.All())
	}

	m := NewLowerer(c).Lower(mod)
	if len(m.Functions) != 1 {
		t.Fatalf("expected 1 lowered function, got %d", len(m.Functions))
	}
	got := m.Functions[0]
	if got.Name != "double" {
		t.Errorf("Name = %q, want double", got.Name)
	}
	if got.ReturnType != "Int" {
		t.Errorf("ReturnType = %q, want Int", got.ReturnType)
	}
	if len(got.Params) != 1 || got.Params[0].Type != "Int" {
		t.Errorf("Params = %v, want one Int param", got.Params)
	}
}

// A Trait::method(receiver) call site with exactly one matching impl
// resolves to that impl's id.
func TestResolveQualifiedCallUniqueMatch(t *testing.T) {
	impl := ast.NewImplDecl(ident("Eq"), namedType("Int"), nil, sp())

	call := ast.NewCallExpr(
		ast.NewModulePathExpr([]*ast.Ident{ident("Eq"), ident("equals")}, sp()),
		[]ast.Expr{intLit("1"), intLit("2")}, sp())
	fn := ast.NewFnDecl(ident("run"), nil, nil, block(call), sp())

	mod := ast.NewModule(sp())
	mod.Decls = []ast.Decl{impl}
	mod.Functions = []*ast.FnDecl{fn}

	c := check.NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	m := NewLowerer(c).Lower(mod)
	if len(m.Calls) != 1 {
		t.Fatalf("expected 1 qualified call, got %d", len(m.Calls))
	}
	qc := m.Calls[0]
	if qc.TraitName != "Eq" || qc.Method != "equals" {
		t.Errorf("got trait=%q method=%q", qc.TraitName, qc.Method)
	}
	if qc.Target != "Int" {
		t.Errorf("Target = %q, want Int", qc.Target)
	}
	if qc.ImplID != "Eq::Int" {
		t.Errorf("ImplID = %q, want Eq::Int (candidates=%v)", qc.ImplID, qc.Candidates)
	}
}

// Two impls of the same trait for unrelated targets never both match
// one call site: a receiver typed Int only ever resolves against the
// Int impl, never the Str one.
func TestResolveQualifiedCallIgnoresImplForOtherTarget(t *testing.T) {
	implInt := ast.NewImplDecl(ident("Eq"), namedType("Int"), nil, sp())
	implStr := ast.NewImplDecl(ident("Eq"), namedType("Str"), nil, sp())

	call := ast.NewCallExpr(
		ast.NewModulePathExpr([]*ast.Ident{ident("Eq"), ident("equals")}, sp()),
		[]ast.Expr{intLit("1"), intLit("2")}, sp())
	fn := ast.NewFnDecl(ident("run"), nil, nil, block(call), sp())

	mod := ast.NewModule(sp())
	mod.Decls = []ast.Decl{implInt, implStr}
	mod.Functions = []*ast.FnDecl{fn}

	c := check.NewChecker(newRuntime(capability.Stage2))
	c.Check(mod)

	m := NewLowerer(c).Lower(mod)
	qc := m.Calls[0]
	if qc.ImplID != "Eq::Int" {
		t.Errorf("ImplID = %q, want Eq::Int (the Str impl must not match an Int receiver)", qc.ImplID)
	}
	if len(qc.Candidates) != 1 {
		t.Errorf("Candidates = %v, want exactly the Int impl", qc.Candidates)
	}
}
