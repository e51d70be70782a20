package parser

import (
	"strconv"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
)

// opBuilderFixities is the closed set of fixity keywords a `level` call
// may declare (glossary: OpBuilder `level(priority, fixity, tokens)`).
var opBuilderFixities = map[string]bool{
	"infixl": true,
	"infixr": true,
	"prefix": true,
}

// opBuilderLevel is one `level(priority, fixity, tokens...)` call site.
type opBuilderLevel struct {
	priority int64
	fixity   string
	span     token.Span
}

// collectOpBuilder walks every top-level expression and macro body for
// `level(priority, fixity, tokens...)` calls, building a per-token
// precedence-tier registry and diagnosing conflicting registrations and
// unrecognized fixity keywords (§4.5's "collect OpBuilder fixity
// registrations" driver step).
func (p *Parser) collectOpBuilder(m *ast.Module) {
	levels := map[string]opBuilderLevel{}

	check := func(call *ast.CallExpr) {
		ident, ok := call.Callee.(*ast.IdentExpr)
		if !ok || ident.Name.Name != "level" || len(call.Args) < 3 {
			return
		}
		priority, ok := opBuilderConstInt(call.Args[0])
		if !ok {
			return
		}
		fixityIdent, ok := call.Args[1].(*ast.IdentExpr)
		if !ok {
			return
		}
		fixity := fixityIdent.Name.Name
		if !opBuilderFixities[fixity] {
			p.diags.Add(diag.Diagnostic{
				Severity: diag.SeverityError, Domain: diag.DomainParser,
				Code:        diag.CodeParserOpBuilderFixity,
				Message:     "level() declares unrecognized fixity " + fixity,
				PrimarySpan: p.spanWithFilename(call.Span()), Recoverability: diag.Recoverable,
			})
			return
		}
		reg := opBuilderLevel{priority: priority, fixity: fixity, span: call.Span()}
		for _, tokArg := range call.Args[2:] {
			lit, ok := tokArg.(*ast.Literal)
			if !ok || lit.Kind != ast.LitString {
				continue
			}
			if existing, seen := levels[lit.Text]; seen && (existing.priority != reg.priority || existing.fixity != reg.fixity) {
				p.diags.Add(diag.Diagnostic{
					Severity: diag.SeverityError, Domain: diag.DomainParser,
					Code:        diag.CodeParserOpBuilderConflict,
					Message:     "level() re-registers " + lit.Text + " at a conflicting priority/fixity",
					PrimarySpan: p.spanWithFilename(call.Span()), Recoverability: diag.Recoverable,
				})
				continue
			}
			levels[lit.Text] = reg
		}
	}

	walkExpr := func(e ast.Expr) {
		ast.Walk(e, func(n ast.Node) bool {
			if call, ok := n.(*ast.CallExpr); ok {
				check(call)
			}
			return true
		})
	}

	for _, e := range m.TopLevelExprs {
		walkExpr(e)
	}
	for _, d := range m.Decls {
		if macro, ok := d.(*ast.MacroDecl); ok && macro.Body != nil {
			walkExpr(macro.Body)
		}
	}
}

func opBuilderConstInt(e ast.Expr) (int64, bool) {
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
