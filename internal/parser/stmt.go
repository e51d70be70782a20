package parser

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
)

// parseStmtOrTail parses one block member. It returns either a
// statement (stmt != nil) or, if the member turns out to be the
// block's trailing expression (no statement terminator followed by
// '}'), the tail expression instead.
func (p *Parser) parseStmtOrTail() (ast.Stmt, ast.Expr) {
	switch p.curTok.Kind {
	case token.KW_LET:
		return p.parseDeclStmt(p.parseLetDecl)
	case token.KW_VAR:
		return p.parseDeclStmt(p.parseVarDecl)
	case token.KW_CONST:
		return p.parseDeclStmt(p.parseConstDecl)
	case token.KW_DEFER:
		start := p.curTok.Span
		p.nextToken()
		e := p.parseExpr(precLowest)
		if e == nil {
			return nil, nil
		}
		return ast.NewDeferStmt(e, mergeSpan(start, e.Span())), nil
	}

	start := p.curTok.Span
	expr := p.parseExpr(precLowest)
	if expr == nil {
		return nil, nil
	}

	if assign, ok := expr.(*ast.AssignExpr); ok && p.peekIs(token.SEMI) {
		p.nextToken()
		return ast.NewAssignStmt(assign.Target, assign.Value, mergeSpan(start, assign.Span())), nil
	}

	if p.peekIs(token.SEMI) {
		p.nextToken()
		return ast.NewExprStmt(expr, mergeSpan(start, expr.Span())), nil
	}

	// No terminator: this is the block's tail expression.
	return nil, expr
}

func (p *Parser) parseDeclStmt(parse func() ast.Decl) (ast.Stmt, ast.Expr) {
	start := p.curTok.Span
	decl := parse()
	if decl == nil {
		return nil, nil
	}
	if p.peekIs(token.SEMI) {
		p.nextToken()
	}
	return ast.NewDeclStmt(decl, mergeSpan(start, decl.Span())), nil
}

// isBlockSyncPoint reports whether k is a safe point to resume
// statement parsing after a failure.
func isBlockSyncPoint(k token.Kind) bool {
	switch k {
	case token.SEMI, token.RBRACE, token.EOF:
		return true
	default:
		return false
	}
}

func (p *Parser) recoverStatement(prev token.Token) {
	if p.curIs(token.EOF) {
		return
	}
	if sameTokenPosition(p.curTok, prev) {
		p.nextToken()
	}
	for !isBlockSyncPoint(p.curTok.Kind) {
		p.nextToken()
	}
	if p.curIs(token.SEMI) {
		p.nextToken()
	}
	p.recovered = true
	p.diags.Add(diag.Diagnostic{
		Severity:       diag.SeverityNote,
		Domain:         diag.DomainParser,
		Code:           diag.CodeParserRecoverBranch,
		Message:        "synchronized to next statement boundary",
		PrimarySpan:    p.curTok.Span,
		Recoverability: diag.Recoverable,
	})
}
