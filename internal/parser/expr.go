package parser

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/stream"
	"github.com/sigil-lang/sigil/internal/token"
)

// parseExpr is the Pratt-loop entry point: parse a prefix production,
// then repeatedly fold in infix/postfix productions while the peek
// token binds tighter than minPrec.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	start := p.curTok.Span
	p.emitTrace(stream.TraceExprEnter, start, string(p.curTok.Kind))
	p.metrics.IncASTNode()

	prefix := p.prefixFns[p.curTok.Kind]
	if prefix == nil {
		p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}, {Class: "integer_literal"}, {Literal: "("}}, p.curTok.Span)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekIs(token.SEMI) && minPrec < p.peekPrecedence() {
		infix := p.infixFns[p.peekTok.Kind]
		if infix == nil {
			break
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	p.emitTrace(stream.TraceExprLeave, mergeSpan(start, p.curTok.Span), "")
	return left
}

func (p *Parser) parseIdentExpr() ast.Expr {
	id := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	if p.peekIs(token.DCOLON) {
		segs := []*ast.Ident{id}
		for p.peekIs(token.DCOLON) {
			p.nextToken() // move to '::'
			if !p.expectName() {
				return nil
			}
			segs = append(segs, ast.NewIdent(p.curTok.Lexeme, p.curTok.Span))
		}
		sp := mergeSpan(id.Span(), p.curTok.Span)
		return ast.NewModulePathExpr(segs, sp)
	}
	return ast.NewIdentExpr(id, id.Span())
}

func (p *Parser) parseIntLiteral() ast.Expr {
	return ast.NewLiteral(ast.LitInt, p.curTok.Lexeme, 10, p.curTok.Span)
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	return ast.NewLiteral(ast.LitFloat, p.curTok.Lexeme, 10, p.curTok.Span)
}

func (p *Parser) parseStringLiteral() ast.Expr {
	return ast.NewLiteral(ast.LitString, p.curTok.Lexeme, 0, p.curTok.Span)
}

func (p *Parser) parseCharLiteral() ast.Expr {
	return ast.NewLiteral(ast.LitChar, p.curTok.Lexeme, 0, p.curTok.Span)
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	return ast.NewLiteral(ast.LitBool, p.curTok.Lexeme, 0, p.curTok.Span)
}

func (p *Parser) parseNilLiteral() ast.Expr {
	return ast.NewLiteral(ast.LitNil, "nil", 0, p.curTok.Span)
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	start := p.curTok.Span
	var op ast.UnaryOp
	switch p.curTok.Kind {
	case token.MINUS:
		op = ast.OpNeg
	case token.BANG:
		op = ast.OpNot
	}
	p.nextToken()
	operand := p.parseExpr(precUnary)
	if operand == nil {
		return nil
	}
	return ast.NewUnaryExpr(op, operand, mergeSpan(start, operand.Span()))
}

func (p *Parser) parseBinaryExpr(left ast.Expr) ast.Expr {
	opTok := p.curTok
	prec := p.curPrecedence()
	op := binaryOpFor(opTok.Kind)
	p.metrics.IncBinaryExpr()
	nextMin := prec
	if rightAssoc[opTok.Kind] {
		nextMin--
	}
	p.nextToken()
	right := p.parseExpr(nextMin)
	if right == nil {
		return nil
	}
	return ast.NewBinaryExpr(op, left, right, mergeSpan(left.Span(), right.Span()))
}

func (p *Parser) parseRangeBinaryExpr(left ast.Expr) ast.Expr {
	inclusive := p.curIs(token.DOTDOTEQ)
	p.nextToken()
	right := p.parseExpr(precRange)
	if right == nil {
		return nil
	}
	return ast.NewRangeExpr(left, right, inclusive, mergeSpan(left.Span(), right.Span()))
}

func binaryOpFor(k token.Kind) ast.BinaryOp {
	switch k {
	case token.PLUS:
		return ast.OpAdd
	case token.MINUS:
		return ast.OpSub
	case token.STAR:
		return ast.OpMul
	case token.SLASH:
		return ast.OpDiv
	case token.PERCENT:
		return ast.OpMod
	case token.CARET:
		return ast.OpPow
	case token.ANDAND:
		return ast.OpAnd
	case token.OROR:
		return ast.OpOr
	case token.EQ:
		return ast.OpEq
	case token.NE:
		return ast.OpNe
	case token.LT:
		return ast.OpLt
	case token.LE:
		return ast.OpLe
	case token.GT:
		return ast.OpGt
	case token.GE:
		return ast.OpGe
	default:
		return ast.OpAdd
	}
}

func (p *Parser) parsePipeExpr(left ast.Expr) ast.Expr {
	p.nextToken()
	right := p.parseExpr(precPipe)
	if right == nil {
		return nil
	}
	return ast.NewPipeExpr(left, right, mergeSpan(left.Span(), right.Span()))
}

func (p *Parser) parsePropagateExpr(left ast.Expr) ast.Expr {
	return ast.NewPropagateExpr(left, mergeSpan(left.Span(), p.curTok.Span))
}

func (p *Parser) parseAssignInfixExpr(left ast.Expr) ast.Expr {
	p.nextToken()
	value := p.parseExpr(precLowest)
	if value == nil {
		return nil
	}
	return ast.NewAssignExpr(left, value, mergeSpan(left.Span(), value.Span()))
}

func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	start := callee.Span()
	p.metrics.IncCallSite()
	args, ok := p.parseExprList(token.RPAREN)
	if !ok {
		return nil
	}
	return ast.NewCallExpr(callee, args, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseIndexExpr(target ast.Expr) ast.Expr {
	p.nextToken()
	idx := p.parseExpr(precLowest)
	if idx == nil {
		return nil
	}
	if !p.expect(token.RBRACKET) {
		return nil
	}
	return ast.NewIndexExpr(target, idx, mergeSpan(target.Span(), p.curTok.Span))
}

func (p *Parser) parseFieldOrTupleAccessExpr(target ast.Expr) ast.Expr {
	if p.peekIs(token.INT) {
		p.nextToken()
		idx := 0
		for _, c := range p.curTok.Lexeme {
			idx = idx*10 + int(c-'0')
		}
		return ast.NewTupleAccessExpr(target, idx, mergeSpan(target.Span(), p.curTok.Span))
	}
	if !p.expect(token.IDENT) {
		return nil
	}
	field := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	return ast.NewFieldExpr(target, field, mergeSpan(target.Span(), field.Span()))
}

// parseExprList parses a comma-separated expression list up to and
// including the closing token, which the caller has already seen as
// the peek target (the '(' / '[' itself was already consumed by the
// caller before invoking the relevant infix/prefix function).
func (p *Parser) parseExprList(closing token.Kind) ([]ast.Expr, bool) {
	var items []ast.Expr
	if p.peekIs(closing) {
		p.nextToken()
		return items, true
	}
	p.nextToken()
	for {
		e := p.parseExpr(precLowest)
		if e == nil {
			return nil, false
		}
		items = append(items, e)
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(closing) {
		return nil, false
	}
	return items, true
}

// parseGroupedOrLambdaExpr disambiguates `(expr)` from a lambda
// parameter list `(x, y) -> body` after parsing the first element:
// `()` and any comma-separated list are always lambda parameter lists
// (and must be followed by '->'), and a single parenthesized element is
// a lambda only when the ')' is immediately followed by '->'.
func (p *Parser) parseGroupedOrLambdaExpr() ast.Expr {
	start := p.curTok.Span
	if p.peekIs(token.RPAREN) {
		// `()` can only be an empty lambda param list.
		p.nextToken()
		return p.finishLambda(nil, start)
	}
	p.nextToken()
	first := p.parseExpr(precLowest)
	if first == nil {
		return nil
	}
	if p.peekIs(token.COMMA) {
		params := []*ast.Param{exprToParam(first)}
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			next := p.parseExpr(precLowest)
			if next == nil {
				return nil
			}
			params = append(params, exprToParam(next))
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		return p.finishLambda(params, start)
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	if p.peekIs(token.ARROW) {
		return p.finishLambda([]*ast.Param{exprToParam(first)}, start)
	}
	return first
}

func exprToParam(e ast.Expr) *ast.Param {
	if id, ok := e.(*ast.IdentExpr); ok {
		return ast.NewParam(id.Name, nil, id.Span())
	}
	return ast.NewParam(ast.NewIdent("_", e.Span()), nil, e.Span())
}

func (p *Parser) finishLambda(params []*ast.Param, start token.Span) ast.Expr {
	if !p.expect(token.ARROW) {
		return nil
	}
	p.nextToken()
	body := p.parseExpr(precLowest)
	if body == nil {
		return nil
	}
	return ast.NewLambdaExpr(params, body, mergeSpan(start, body.Span()))
}

func (p *Parser) parseBlockAsExpr() ast.Expr { return p.parseBlockExpr() }

func (p *Parser) parseBlockExpr() *ast.BlockExpr {
	start := p.curTok.Span
	block := ast.NewBlockExpr(nil, nil, start)
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		prevTok := p.curTok
		stmt, tail := p.parseStmtOrTail()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
			if p.curIs(token.SEMI) {
				p.nextToken()
			}
			continue
		}
		if tail != nil {
			block.Tail = tail
			p.nextToken()
			break
		}
		if p.curIs(token.RBRACE) || p.curIs(token.EOF) {
			break
		}
		p.recoverStatement(prevTok)
	}
	if !p.curIs(token.RBRACE) {
		p.reportExpected([]diag.ExpectedToken{{Literal: "}"}}, p.curTok.Span)
		return block
	}
	block.SetSpan(mergeSpan(start, p.curTok.Span))
	return block
}

func (p *Parser) parseIfExpr() ast.Expr {
	start := p.curTok.Span
	p.nextToken()
	cond := p.parseExpr(precLowest)
	if cond == nil {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	then := p.parseBlockExpr()
	if then == nil {
		return nil
	}
	var elseExpr ast.Expr
	if p.peekIs(token.KW_ELSE) {
		p.nextToken()
		if p.peekIs(token.KW_IF) {
			p.nextToken()
			elseExpr = p.parseIfExpr()
		} else if p.peekIs(token.LBRACE) {
			p.nextToken()
			elseExpr = p.parseBlockExpr()
		} else {
			p.reportExpected([]diag.ExpectedToken{{Literal: "{"}, {Literal: "if"}}, p.peekTok.Span)
			return nil
		}
	}
	end := then.Span()
	if elseExpr != nil {
		end = elseExpr.Span()
	}
	return ast.NewIfExpr(cond, then, elseExpr, mergeSpan(start, end))
}

func (p *Parser) parseWhileExpr() ast.Expr {
	start := p.curTok.Span
	p.nextToken()
	cond := p.parseExpr(precLowest)
	if cond == nil {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}
	return ast.NewWhileExpr(cond, body, mergeSpan(start, body.Span()))
}

func (p *Parser) parseForExpr() ast.Expr {
	start := p.curTok.Span
	p.nextToken()
	pat := p.parsePattern()
	if pat == nil {
		return nil
	}
	if !p.expect(token.KW_IN) {
		return nil
	}
	p.nextToken()
	iter := p.parseExpr(precLowest)
	if iter == nil {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}
	return ast.NewForExpr(pat, iter, body, mergeSpan(start, body.Span()))
}

func (p *Parser) parseLoopExpr() ast.Expr {
	start := p.curTok.Span
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}
	return ast.NewLoopExpr(body, mergeSpan(start, body.Span()))
}

func (p *Parser) parseUnsafeExpr() ast.Expr {
	start := p.curTok.Span
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}
	return ast.NewUnsafeExpr(body, mergeSpan(start, body.Span()))
}

func (p *Parser) parseDeferExpr() ast.Expr {
	start := p.curTok.Span
	p.nextToken()
	operand := p.parseExpr(precLowest)
	if operand == nil {
		return nil
	}
	return ast.NewDeferExpr(operand, mergeSpan(start, operand.Span()))
}

func (p *Parser) parseAsyncExpr() ast.Expr {
	start := p.curTok.Span
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}
	return ast.NewAsyncExpr(body, mergeSpan(start, body.Span()))
}

func (p *Parser) parseAwaitExpr() ast.Expr {
	start := p.curTok.Span
	p.nextToken()
	operand := p.parseExpr(precUnary)
	if operand == nil {
		return nil
	}
	return ast.NewAwaitExpr(operand, mergeSpan(start, operand.Span()))
}

func (p *Parser) parsePerformExpr() ast.Expr {
	start := p.curTok.Span
	if !p.expectName() {
		return nil
	}
	effect := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	var args []ast.Expr
	if p.peekIs(token.LPAREN) {
		p.nextToken()
		a, ok := p.parseExprList(token.RPAREN)
		if !ok {
			return nil
		}
		args = a
	}
	return ast.NewPerformExpr(effect, args, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseHandleExpr() ast.Expr {
	start := p.curTok.Span
	p.nextToken()
	body := p.parseExpr(precLowest)
	if body == nil {
		return nil
	}
	if !p.expect(token.KW_WITH) {
		p.reportSimple(diag.CodeParserUnexpectedStruct, "expected 'with' after handle body", p.peekTok.Span)
		return nil
	}
	p.nextToken()
	handler := p.parseExpr(precLowest)
	if handler == nil {
		return nil
	}
	return ast.NewHandleExpr(body, handler, mergeSpan(start, handler.Span()))
}

func (p *Parser) parseRecExpr() ast.Expr {
	start := p.curTok.Span
	if !p.expectName() {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	return ast.NewRecExpr(name, mergeSpan(start, name.Span()))
}

func (p *Parser) parseBreakExpr() ast.Expr {
	start := p.curTok.Span
	var val ast.Expr
	if canStartExpr(p.peekTok.Kind) {
		p.nextToken()
		val = p.parseExpr(precLowest)
	}
	end := start
	if val != nil {
		end = val.Span()
	}
	return ast.NewBreakExpr(val, mergeSpan(start, end))
}

func (p *Parser) parseContinueExpr() ast.Expr {
	return ast.NewContinueExpr(p.curTok.Span)
}

func (p *Parser) parseReturnExpr() ast.Expr {
	start := p.curTok.Span
	var val ast.Expr
	if canStartExpr(p.peekTok.Kind) {
		p.nextToken()
		val = p.parseExpr(precLowest)
	}
	end := start
	if val != nil {
		end = val.Span()
	}
	return ast.NewReturnExpr(val, mergeSpan(start, end))
}

func (p *Parser) parseEffectBlockExpr() ast.Expr {
	start := p.curTok.Span
	if !p.expect(token.LBRACKET) {
		return nil
	}
	var effects []*ast.Ident
	if !p.peekIs(token.RBRACKET) {
		p.nextToken()
		for {
			if !p.curIs(token.UPIDENT) && !p.curIs(token.IDENT) {
				p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}}, p.curTok.Span)
				return nil
			}
			effects = append(effects, ast.NewIdent(p.curTok.Lexeme, p.curTok.Span))
			if p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
	}
	if !p.expect(token.RBRACKET) {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}
	return ast.NewEffectBlockExpr(effects, body, mergeSpan(start, body.Span()))
}

// canStartExpr reports whether k can begin an expression, used to
// disambiguate `break`/`return` with or without a trailing value.
func canStartExpr(k token.Kind) bool {
	switch k {
	case token.IDENT, token.UPIDENT, token.INT, token.FLOAT, token.STRING, token.CHAR,
		token.KW_TRUE, token.KW_FALSE, token.KW_NIL, token.LPAREN, token.LBRACE,
		token.MINUS, token.BANG, token.KW_IF, token.KW_MATCH:
		return true
	default:
		return false
	}
}
