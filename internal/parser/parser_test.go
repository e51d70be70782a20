package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/parser"
)

func parseModule(t *testing.T, src string, opts ...parser.Option) (*ast.Module, *parser.Parser) {
	t.Helper()
	p := parser.New(src, opts...)
	m := p.ParseModule()
	return m, p
}

func assertNoDiags(t *testing.T, p *parser.Parser) {
	t.Helper()
	diags := p.Diagnostics()
	if len(diags) == 0 {
		return
	}
	for _, d := range diags {
		t.Errorf("unexpected diagnostic: %s: %s", d.Code, d.Message)
	}
	t.Fatalf("parser reported %d diagnostic(s)", len(diags))
}

func fnNames(decls []*ast.FnDecl) []string {
	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name.Name
	}
	return names
}

func TestParseModuleHeaderAndUses(t *testing.T) {
	const src = `
module app::server;

use std::io;
use super::util as u;

fn main() {
	io::println("hi")
}
`
	m, p := parseModule(t, src)
	assertNoDiags(t, p)

	if m.Header == nil {
		t.Fatalf("expected module header")
	}
	gotPath := identNames(m.Header.Path)
	wantPath := []string{"app", "server"}
	if diff := cmp.Diff(wantPath, gotPath); diff != "" {
		t.Fatalf("header path mismatch (-want +got):\n%s", diff)
	}

	if len(m.Uses) != 2 {
		t.Fatalf("expected 2 use decls, got %d", len(m.Uses))
	}
	if m.Uses[0].Super {
		t.Fatalf("expected first use to be a plain path, not super")
	}
	if !m.Uses[1].Super {
		t.Fatalf("expected second use to be 'use super::...'")
	}
	if m.Uses[1].Alias == nil || m.Uses[1].Alias.Name != "u" {
		t.Fatalf("expected alias 'u' on second use decl")
	}

	if diff := cmp.Diff([]string{"main"}, fnNames(m.Functions)); diff != "" {
		t.Fatalf("function names mismatch (-want +got):\n%s", diff)
	}
}

func identNames(idents []*ast.Ident) []string {
	names := make([]string, len(idents))
	for i, id := range idents {
		names[i] = id.Name
	}
	return names
}

func TestParseUseSuperOutsideNestedModuleReportsError(t *testing.T) {
	const src = `
use super::sibling;

fn f() {}
`
	m, p := parseModule(t, src)
	if len(m.Uses) != 1 || !m.Uses[0].Super {
		t.Fatalf("expected one super use decl to be parsed")
	}
	found := false
	for _, d := range p.Diagnostics() {
		if d.Message == "'use super::...' is only legal inside a nested module" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a diagnostic rejecting top-level 'use super::...'")
	}
}

func TestParseNestedModuleAllowsUseSuper(t *testing.T) {
	const src = `
module outer {
	use super::shared;

	fn helper() {}
}
`
	m, p := parseModule(t, src)
	assertNoDiags(t, p)

	if len(m.Decls) != 1 {
		t.Fatalf("expected one nested module decl, got %d", len(m.Decls))
	}
	nested, ok := m.Decls[0].(*ast.NestedModuleDecl)
	if !ok {
		t.Fatalf("expected *ast.NestedModuleDecl, got %T", m.Decls[0])
	}
	if len(nested.Body.Uses) != 1 || !nested.Body.Uses[0].Super {
		t.Fatalf("expected nested module body to carry one super use decl")
	}
	if diff := cmp.Diff([]string{"helper"}, fnNames(nested.Body.Functions)); diff != "" {
		t.Fatalf("nested function names mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFnDeclAndCall(t *testing.T) {
	const src = `
fn add(a: Int, b: Int) -> Int {
	a + b
}
`
	m, p := parseModule(t, src)
	assertNoDiags(t, p)

	if len(m.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(m.Functions))
	}
	fn := m.Functions[0]
	if fn.Name.Name != "add" {
		t.Fatalf("expected function name 'add', got %q", fn.Name.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Return == nil {
		t.Fatalf("expected a return type")
	}
	block, ok := fn.Body.(*ast.BlockExpr)
	if !ok {
		t.Fatalf("expected *ast.BlockExpr body, got %T", fn.Body)
	}
	if block.Tail == nil {
		t.Fatalf("expected a tail expression")
	}
	if _, ok := block.Tail.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected a binary expr tail, got %T", block.Tail)
	}
}

func TestParseFnDeclExprBodySugar(t *testing.T) {
	const src = `
fn answer() = 42;
`
	m, p := parseModule(t, src)
	assertNoDiags(t, p)

	if len(m.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(m.Functions))
	}
	block, ok := m.Functions[0].Body.(*ast.BlockExpr)
	if !ok {
		t.Fatalf("expected *ast.BlockExpr body, got %T", m.Functions[0].Body)
	}
	lit, ok := block.Tail.(*ast.Literal)
	if !ok {
		t.Fatalf("expected a literal tail expression, got %T", block.Tail)
	}
	if lit.Kind != ast.LitInt || lit.Text != "42" {
		t.Fatalf("expected int literal 42, got %#v", lit)
	}
}

func TestParseActivePatternBucketsByUpperCaseName(t *testing.T) {
	const src = `
fn Even(n: Int) -> Bool {
	n % 2 == 0
}

fn double(n: Int) -> Int {
	n * 2
}
`
	m, p := parseModule(t, src)
	assertNoDiags(t, p)

	if len(m.Functions) != 1 || m.Functions[0].Name.Name != "double" {
		t.Fatalf("expected only 'double' in Functions, got %v", fnNames(m.Functions))
	}
	if len(m.ActivePatterns) != 1 {
		t.Fatalf("expected 1 active pattern, got %d", len(m.ActivePatterns))
	}
	ap := m.ActivePatterns[0]
	if ap.Name.Name != "Even" {
		t.Fatalf("expected active pattern name 'Even', got %q", ap.Name.Name)
	}
	if ap.Partial {
		t.Fatalf("parser must never classify Partial itself; that is the checker's job")
	}
}

func TestParseStructAndEnumDecl(t *testing.T) {
	const src = `
struct Point {
	x: Int,
	y: Int,
}

enum Shape {
	Circle(Point, Int),
	Square(Point, Int),
}
`
	m, p := parseModule(t, src)
	assertNoDiags(t, p)

	if len(m.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(m.Decls))
	}
	st, ok := m.Decls[0].(*ast.StructDecl)
	if !ok {
		t.Fatalf("expected *ast.StructDecl, got %T", m.Decls[0])
	}
	if len(st.Fields) != 2 {
		t.Fatalf("expected 2 struct fields, got %d", len(st.Fields))
	}
	en, ok := m.Decls[1].(*ast.EnumDecl)
	if !ok {
		t.Fatalf("expected *ast.EnumDecl, got %T", m.Decls[1])
	}
	if len(en.Variants) != 2 {
		t.Fatalf("expected 2 enum variants, got %d", len(en.Variants))
	}
	if len(en.Variants[0].Payload) != 2 {
		t.Fatalf("expected 2 payload types on first variant, got %d", len(en.Variants[0].Payload))
	}
}

func TestParseTraitAndImplDecl(t *testing.T) {
	const src = `
trait Show {
	fn show(self) -> String;
}

impl Show for Point {
	fn show(self) -> String {
		"point"
	}
}
`
	m, p := parseModule(t, src)
	assertNoDiags(t, p)

	if len(m.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(m.Decls))
	}
	tr, ok := m.Decls[0].(*ast.TraitDecl)
	if !ok {
		t.Fatalf("expected *ast.TraitDecl, got %T", m.Decls[0])
	}
	if len(tr.Methods) != 1 || tr.Methods[0].Body != nil {
		t.Fatalf("expected one signature-only trait method")
	}
	impl, ok := m.Decls[1].(*ast.ImplDecl)
	if !ok {
		t.Fatalf("expected *ast.ImplDecl, got %T", m.Decls[1])
	}
	if impl.Trait == nil || impl.Trait.Name != "Show" {
		t.Fatalf("expected impl trait 'Show'")
	}
	named, ok := impl.Target.(*ast.NamedType)
	if !ok || len(named.Path) == 0 || named.Path[len(named.Path)-1].Name != "Point" {
		t.Fatalf("expected impl target 'Point', got %#v", impl.Target)
	}
	if len(impl.Methods) != 1 || impl.Methods[0].Body == nil {
		t.Fatalf("expected one implemented method with a body")
	}
}

func TestParseEffectAndHandlerDecl(t *testing.T) {
	const src = `
effect Logger {
	fn log(msg: String) -> Unit;
}

handler ConsoleLogger for Logger {
	fn log(msg) {
		msg
	}
}
`
	m, p := parseModule(t, src)
	assertNoDiags(t, p)

	if len(m.Effects) != 1 {
		t.Fatalf("expected 1 effect decl, got %d", len(m.Effects))
	}
	if len(m.Effects[0].Ops) != 1 || m.Effects[0].Ops[0].Name.Name != "log" {
		t.Fatalf("expected effect op 'log'")
	}
	if len(m.Decls) != 1 {
		t.Fatalf("expected 1 handler decl, got %d", len(m.Decls))
	}
	h, ok := m.Decls[0].(*ast.HandlerDecl)
	if !ok {
		t.Fatalf("expected *ast.HandlerDecl, got %T", m.Decls[0])
	}
	if h.Effect.Name != "Logger" {
		t.Fatalf("expected handler effect 'Logger', got %q", h.Effect.Name)
	}
	if len(h.Clauses) != 1 {
		t.Fatalf("expected 1 handler clause, got %d", len(h.Clauses))
	}
}

func TestParseConductorDecl(t *testing.T) {
	const src = `
conductor {
	ingest: pipeline = source |> transform(cfg) |> sink(dest)

	channels {
		source ~> transform: Record;
		transform ~> sink: Record;
	}

	execution {
		retry(3)
	}
}
`
	m, p := parseModule(t, src)
	assertNoDiags(t, p)

	if len(m.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(m.Decls))
	}
	cd, ok := m.Decls[0].(*ast.ConductorDecl)
	if !ok {
		t.Fatalf("expected *ast.ConductorDecl, got %T", m.Decls[0])
	}
	if cd.DslID.Name != "ingest" || cd.Target.Name != "pipeline" {
		t.Fatalf("expected dsl_id 'ingest' and target 'pipeline', got %q %q", cd.DslID.Name, cd.Target.Name)
	}
	if len(cd.Stages) != 2 {
		t.Fatalf("expected 2 flattened stages, got %d", len(cd.Stages))
	}
	if cd.Stages[0].Name.Name != "transform" || cd.Stages[1].Name.Name != "sink" {
		t.Fatalf("expected stages [transform, sink], got %v", []string{cd.Stages[0].Name.Name, cd.Stages[1].Name.Name})
	}
	if len(cd.Channels) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(cd.Channels))
	}
	if cd.Execution == nil {
		t.Fatalf("expected an execution block")
	}
	if cd.Monitoring != nil {
		t.Fatalf("expected no monitoring block")
	}
}

func TestParseMatchActivePatternAndGuard(t *testing.T) {
	const src = `
fn classify(n: Int) -> String {
	match n {
		Even(m) when m > 0 => "positive even",
		_ => "other",
	}
}
`
	m, p := parseModule(t, src)
	assertNoDiags(t, p)

	fn := m.Functions[0]
	block := fn.Body.(*ast.BlockExpr)
	match, ok := block.Tail.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expected *ast.MatchExpr tail, got %T", block.Tail)
	}
	if len(match.Arms) != 2 {
		t.Fatalf("expected 2 match arms, got %d", len(match.Arms))
	}
	guard, ok := match.Arms[0].Pattern.(*ast.PatternGuard)
	if !ok {
		t.Fatalf("expected *ast.PatternGuard on first arm, got %T", match.Arms[0].Pattern)
	}
	// Even(m) parses as an ordinary PatternConstructor; only the checker,
	// once it has resolved what "Even" names, reclassifies it as an
	// active-pattern call (§4.5.2).
	ctor, ok := guard.Sub.(*ast.PatternConstructor)
	if !ok {
		t.Fatalf("expected *ast.PatternConstructor under the guard, got %T", guard.Sub)
	}
	if ctor.Name.Name != "Even" {
		t.Fatalf("expected pattern name 'Even', got %q", ctor.Name.Name)
	}
}

func TestParsePerformHandleResume(t *testing.T) {
	const src = `
fn greet() ~> Unit {
	handle perform Log("hi") with handler
}
`
	m, p := parseModule(t, src)
	assertNoDiags(t, p)

	fn := m.Functions[0]
	block := fn.Body.(*ast.BlockExpr)
	handle, ok := block.Tail.(*ast.HandleExpr)
	if !ok {
		t.Fatalf("expected *ast.HandleExpr tail, got %T", block.Tail)
	}
	perform, ok := handle.Body.(*ast.PerformExpr)
	if !ok {
		t.Fatalf("expected *ast.PerformExpr handle body, got %T", handle.Body)
	}
	if perform.Effect.Name != "Log" {
		t.Fatalf("expected perform effect 'Log', got %q", perform.Effect.Name)
	}
}

func TestParseRecoversFromMalformedDecl(t *testing.T) {
	const src = `
fn ok1() {}

fn (broken

fn ok2() {}
`
	m, p := parseModule(t, src)
	if !p.Recovered() {
		t.Fatalf("expected the parser to report a recovery")
	}
	if len(p.Diagnostics()) == 0 {
		t.Fatalf("expected at least one diagnostic for the malformed declaration")
	}
	if diff := cmp.Diff([]string{"ok1", "ok2"}, fnNames(m.Functions)); diff != "" {
		t.Fatalf("expected both well-formed functions to survive recovery (-want +got):\n%s", diff)
	}
}

func TestParseTopLevelExprRejectedByDefault(t *testing.T) {
	const src = `
1 + 1;
`
	_, p := parseModule(t, src)
	if len(p.Diagnostics()) == 0 {
		t.Fatalf("expected a diagnostic: bare top-level expressions are disabled by default")
	}
}

func TestParseTopLevelExprAllowedWithOption(t *testing.T) {
	const src = `
1 + 1
`
	m, p := parseModule(t, src, parser.WithTopLevelExprs())
	assertNoDiags(t, p)

	if len(m.TopLevelExprs) != 1 {
		t.Fatalf("expected 1 top-level expression, got %d", len(m.TopLevelExprs))
	}
}

func TestParseMacroDecl(t *testing.T) {
	const src = `
macro trace(expr) {
	expr
}
`
	m, p := parseModule(t, src)
	assertNoDiags(t, p)

	if len(m.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(m.Decls))
	}
	macro, ok := m.Decls[0].(*ast.MacroDecl)
	if !ok {
		t.Fatalf("expected *ast.MacroDecl, got %T", m.Decls[0])
	}
	if macro.Name.Name != "trace" {
		t.Fatalf("expected macro name 'trace', got %q", macro.Name.Name)
	}
}

func TestParseActorDecl(t *testing.T) {
	const src = `
actor Counter {
	count: Int;

	on Increment(by: Int) {
		count
	}
}
`
	m, p := parseModule(t, src)
	assertNoDiags(t, p)

	if len(m.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(m.Decls))
	}
	actor, ok := m.Decls[0].(*ast.ActorDecl)
	if !ok {
		t.Fatalf("expected *ast.ActorDecl, got %T", m.Decls[0])
	}
	if len(actor.State) != 1 || actor.State[0].Name.Name != "count" {
		t.Fatalf("expected one state field 'count'")
	}
	if len(actor.Handlers) != 1 || actor.Handlers[0].Message.Name != "Increment" {
		t.Fatalf("expected one 'Increment' handler")
	}
}
