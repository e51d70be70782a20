package parser

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
)

func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.curTok.Span
	p.nextToken()
	scrutinee := p.parseExpr(precLowest)
	if scrutinee == nil {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	p.nextToken()

	var arms []*ast.MatchArm
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		arm := p.parseMatchArm()
		if arm == nil {
			return nil
		}
		arms = append(arms, arm)
		if p.peekIs(token.COMMA) {
			p.nextToken()
		}
		p.nextToken()
	}
	if !p.curIs(token.RBRACE) {
		p.reportExpected([]diag.ExpectedToken{{Literal: "}"}}, p.curTok.Span)
		return nil
	}
	if len(arms) == 0 {
		p.reportSimple(diag.CodePatternExhaustivenessMissing, "match must have at least one arm", mergeSpan(start, p.curTok.Span))
	}
	return ast.NewMatchExpr(scrutinee, arms, mergeSpan(start, p.curTok.Span))
}

// parseMatchArm parses `pattern[ when guard] => body`; the guard, if
// present, is folded into pattern as a PatternGuard by parsePattern.
func (p *Parser) parseMatchArm() *ast.MatchArm {
	start := p.curTok.Span
	pat := p.parsePattern()
	if pat == nil {
		return nil
	}
	if !p.expect(token.FATARROW) {
		return nil
	}
	p.nextToken()
	body := p.parseExpr(precLowest)
	if body == nil {
		return nil
	}
	return ast.NewMatchArm(pat, body, mergeSpan(start, body.Span()))
}
