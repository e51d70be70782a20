package parser

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
)

// parseType parses a type expression. curTok must already be
// positioned at the type's first token.
func (p *Parser) parseType() ast.TypeExpr {
	switch p.curTok.Kind {
	case token.AMP, token.AMPMUT:
		return p.parseReferenceType()
	case token.LBRACKET:
		return p.parseSliceOrArrayType()
	case token.LPAREN:
		return p.parseTupleOrFunctionType()
	case token.KW_FN:
		return p.parseFunctionKeywordType()
	case token.IDENT, token.UPIDENT:
		return p.parseNamedOrGenericType()
	default:
		p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}, {Literal: "("}, {Literal: "["}}, p.curTok.Span)
		return nil
	}
}

func isTypeStart(k token.Kind) bool {
	switch k {
	case token.IDENT, token.UPIDENT, token.LPAREN, token.LBRACKET, token.AMP, token.AMPMUT, token.KW_FN:
		return true
	default:
		return false
	}
}

func (p *Parser) parseReferenceType() ast.TypeExpr {
	start := p.curTok.Span
	mutable := p.curIs(token.AMPMUT)
	p.nextToken()
	target := p.parseType()
	if target == nil {
		return nil
	}
	return ast.NewReferenceType(mutable, target, mergeSpan(start, target.Span()))
}

func (p *Parser) parseSliceOrArrayType() ast.TypeExpr {
	start := p.curTok.Span
	if p.peekIs(token.RBRACKET) {
		p.nextToken()
		p.nextToken()
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		return ast.NewSliceType(elem, mergeSpan(start, elem.Span()))
	}
	p.nextToken()
	length := p.parseExpr(precLowest)
	if length == nil {
		return nil
	}
	if !p.expect(token.RBRACKET) {
		return nil
	}
	p.nextToken()
	elem := p.parseType()
	if elem == nil {
		return nil
	}
	return ast.NewArrayType(length, elem, mergeSpan(start, elem.Span()))
}

func (p *Parser) parseTupleOrFunctionType() ast.TypeExpr {
	start := p.curTok.Span
	var elems []ast.TypeExpr
	if !p.peekIs(token.RPAREN) {
		p.nextToken()
		for {
			t := p.parseType()
			if t == nil {
				return nil
			}
			elems = append(elems, t)
			if p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	if p.peekIs(token.ARROW) || p.peekIs(token.SQUIGGLY) {
		return p.finishFunctionType(start, elems)
	}
	if len(elems) == 1 {
		return elems[0]
	}
	return ast.NewTupleType(elems, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseFunctionKeywordType() ast.TypeExpr {
	start := p.curTok.Span
	if !p.expect(token.LPAREN) {
		return nil
	}
	var params []ast.TypeExpr
	if !p.peekIs(token.RPAREN) {
		p.nextToken()
		for {
			t := p.parseType()
			if t == nil {
				return nil
			}
			params = append(params, t)
			if p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return p.finishFunctionType(start, params)
}

// finishFunctionType parses the `->`/`->{Effects}`/`~>` return-type
// tail shared by `(T) -> R` and `fn(T) -> R` spellings. `~>` marks an
// effectful arrow with no explicit effect row (inferred).
func (p *Parser) finishFunctionType(start token.Span, params []ast.TypeExpr) ast.TypeExpr {
	var effects []*ast.Ident
	if p.peekIs(token.SQUIGGLY) {
		p.nextToken()
	} else if p.peekIs(token.ARROW) {
		p.nextToken()
	} else {
		p.reportExpected([]diag.ExpectedToken{{Literal: "->"}, {Literal: "~>"}}, p.peekTok.Span)
		return nil
	}
	if p.peekIs(token.LBRACE) {
		p.nextToken()
		if !p.peekIs(token.RBRACE) {
			p.nextToken()
			for {
				if !p.curIs(token.UPIDENT) {
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
		if !p.expect(token.RBRACE) {
			return nil
		}
	}
	p.nextToken()
	ret := p.parseType()
	if ret == nil {
		return nil
	}
	return ast.NewFunctionType(params, effects, ret, mergeSpan(start, ret.Span()))
}

func (p *Parser) parseNamedOrGenericType() ast.TypeExpr {
	start := p.curTok.Span
	path := []*ast.Ident{ast.NewIdent(p.curTok.Lexeme, start)}
	for p.peekIs(token.DCOLON) {
		p.nextToken()
		if !p.expectName() {
			return nil
		}
		path = append(path, ast.NewIdent(p.curTok.Lexeme, p.curTok.Span))
	}
	named := ast.NewNamedType(path, mergeSpan(start, p.curTok.Span))

	if p.peekIs(token.LT) && startsGenericArgs(p.peekTok) {
		p.nextToken()
		var args []ast.TypeExpr
		p.nextToken()
		for {
			t := p.parseType()
			if t == nil {
				return nil
			}
			args = append(args, t)
			if p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
		if !p.expect(token.GT) {
			return nil
		}
		return ast.NewGenericType(named, args, mergeSpan(start, p.curTok.Span))
	}
	return named
}

// startsGenericArgs always returns true: the LT-as-generic-open
// heuristic is resolved purely by calling context (types never see a
// bare `<` comparison operator), unlike expressions.
func startsGenericArgs(token.Token) bool { return true }
