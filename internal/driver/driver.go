package driver

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/capability"
	"github.com/sigil-lang/sigil/internal/check"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/mir"
	"github.com/sigil-lang/sigil/internal/parser"
	"github.com/sigil-lang/sigil/internal/stream"
)

// ParseResult is the §6 external shape of a Parse run: the recovered
// AST (always non-nil, possibly empty), its diagnostics, and the
// packrat/trace telemetry the embedder may want to surface.
type ParseResult struct {
	Module      *ast.Module
	Diagnostics []diag.Diagnostic
	Recovered   bool
	Farthest    int
	CacheStats  stream.Stats
	Trace       []stream.TraceEvent
}

// Parse runs the parser over src under cfg and collects its full
// §6 output shape in one value.
func Parse(src string, cfg RunConfig) *ParseResult {
	p := parser.New(src, cfg.parserOptions()...)
	mod := p.ParseModule()
	return &ParseResult{
		Module:      mod,
		Diagnostics: p.Diagnostics(),
		Recovered:   p.Recovered(),
		Farthest:    p.Farthest(),
		CacheStats:  p.CacheStats(),
		Trace:       p.Trace(),
	}
}

// moduleIsEmpty reports whether m carries no declarations at all, the
// driver's stand-in for "no AST was produced": ParseModule always
// returns a non-nil *ast.Module, so an unusably-empty result plus a
// non-empty diagnostic list is what §5 calls the AST being absent.
func moduleIsEmpty(m *ast.Module) bool {
	return m.Header == nil &&
		len(m.Uses) == 0 &&
		len(m.Effects) == 0 &&
		len(m.Functions) == 0 &&
		len(m.ActivePatterns) == 0 &&
		len(m.Decls) == 0 &&
		len(m.TopLevelExprs) == 0
}

// TypecheckReport is the §6 external shape of a Typecheck run: the
// diagnostics raised by both checker passes, and the MIR lowering of
// whatever the checker managed to resolve.
type TypecheckReport struct {
	Diagnostics []diag.Diagnostic
	DictRefs    []check.DictRef
	Mir         *mir.Module
}

// Typecheck runs both checker passes over mod at the given runtime and
// lowers the result to MIR.
func Typecheck(mod *ast.Module, runtime capability.Runtime) *TypecheckReport {
	c := check.NewChecker(runtime)
	c.Check(mod)
	lowered := mir.NewLowerer(c).Lower(mod)
	return &TypecheckReport{
		Diagnostics: c.Diags.Sorted(),
		DictRefs:    c.DictRefs(),
		Mir:         lowered,
	}
}

// Run is the single entry point §5 describes: parse, then typecheck
// unless the parse left no usable AST, in which case typecheck is
// skipped and the returned TypecheckReport holds a single
// ast_unavailable diagnostic and no MIR. A driver run owns no state beyond this call: concurrent Run
// calls share no mutable structure and may proceed independently.
func Run(src string, cfg RunConfig, runtime capability.Runtime) (*ParseResult, *TypecheckReport) {
	pr := Parse(src, cfg)
	if moduleIsEmpty(pr.Module) && len(pr.Diagnostics) > 0 {
		unavailable := diag.Diagnostic{
			Severity:       diag.SeverityError,
			Domain:         diag.DomainParser,
			Code:           diag.CodeParserASTUnavailable,
			Message:        "parse produced no usable module; typecheck was not run",
			PrimarySpan:    pr.Module.Span(),
			Recoverability: diag.Fatal,
		}
		return pr, &TypecheckReport{Diagnostics: []diag.Diagnostic{unavailable}}
	}
	return pr, Typecheck(pr.Module, runtime)
}
