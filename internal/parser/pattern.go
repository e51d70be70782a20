package parser

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
)

// parsePattern parses a top-level pattern, including the trailing
// `| alt | alt` alternation and an optional `when guard` (the
// deprecated `if` spelling is accepted with a warning per §4.1).
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parsePatternPrimary()
	if first == nil {
		return nil
	}
	if p.peekIs(token.PIPE) {
		alts := []ast.Pattern{first}
		for p.peekIs(token.PIPE) {
			p.nextToken()
			p.nextToken()
			next := p.parsePatternPrimary()
			if next == nil {
				return nil
			}
			alts = append(alts, next)
		}
		sp := mergeSpan(first.Span(), p.curTok.Span)
		first = ast.NewPatternOr(alts, sp)
	}
	if p.peekIs(token.KW_WHEN) || p.peekIs(token.KW_IF) {
		if p.peekIs(token.KW_IF) {
			p.reportWarning(diag.CodeParserUnexpectedStruct, "'if' as a match guard is deprecated; use 'when'", p.peekTok.Span)
		}
		p.nextToken()
		p.nextToken()
		guard := p.parseExpr(precLowest)
		if guard == nil {
			return nil
		}
		first = ast.NewPatternGuard(first, guard, mergeSpan(first.Span(), guard.Span()))
	}
	return first
}

// parsePatternPrimary parses one pattern without guard/or handling,
// then folds in trailing `@`/`as` bindings.
func (p *Parser) parsePatternPrimary() ast.Pattern {
	pat := p.parsePatternAtom()
	if pat == nil {
		return nil
	}
	if p.peekIs(token.AT) {
		id, ok := pat.(*ast.PatternVar)
		if !ok {
			p.reportSimple(diag.CodeParserUnexpectedStruct, "'@' binding must follow a plain name", p.peekTok.Span)
			return nil
		}
		p.nextToken()
		p.nextToken()
		sub := p.parsePatternAtom()
		if sub == nil {
			return nil
		}
		return ast.NewPatternBinding(id.Name, sub, false, mergeSpan(pat.Span(), sub.Span()))
	}
	if p.peekIs(token.KW_AS) {
		p.nextToken()
		if !p.expect(token.IDENT) {
			return nil
		}
		name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
		return ast.NewPatternBinding(name, pat, true, mergeSpan(pat.Span(), name.Span()))
	}
	return pat
}

func (p *Parser) parsePatternAtom() ast.Pattern {
	start := p.curTok.Span
	switch p.curTok.Kind {
	case token.IDENT:
		if p.curTok.Lexeme == "_" {
			return ast.NewPatternWild(start)
		}
		name := ast.NewIdent(p.curTok.Lexeme, start)
		return ast.NewPatternVar(name, start)

	case token.UPIDENT:
		return p.parsePatternConstructorOrActive()

	case token.INT, token.FLOAT, token.STRING, token.CHAR, token.KW_TRUE, token.KW_FALSE, token.KW_NIL:
		lit := p.parseLiteralForPattern()
		if p.peekIs(token.DOTDOT) || p.peekIs(token.DOTDOTEQ) {
			inclusive := p.peekIs(token.DOTDOTEQ)
			low := literalToExpr(lit)
			p.nextToken()
			p.nextToken()
			high := p.parseExpr(precRange)
			if high == nil {
				return nil
			}
			kind := ast.RangeExclusive
			if inclusive {
				kind = ast.RangeInclusive
			}
			return ast.NewPatternRange(low, high, kind, mergeSpan(start, high.Span()))
		}
		return ast.NewPatternLiteral(lit, start)

	case token.REGEX:
		return ast.NewPatternRegex(p.curTok.Lexeme, start)

	case token.LPAREN:
		return p.parsePatternTuple()

	case token.LBRACKET:
		return p.parsePatternSlice()

	case token.LBRACE:
		return p.parsePatternRecord(nil)

	case token.DOTDOT:
		p.nextToken()
		return ast.NewPatternWild(mergeSpan(start, p.curTok.Span))

	default:
		p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}, {Class: "integer_literal"}, {Literal: "("}, {Literal: "["}}, start)
		return nil
	}
}

func (p *Parser) parseLiteralForPattern() *ast.Literal {
	switch p.curTok.Kind {
	case token.INT:
		return ast.NewLiteral(ast.LitInt, p.curTok.Lexeme, 10, p.curTok.Span)
	case token.FLOAT:
		return ast.NewLiteral(ast.LitFloat, p.curTok.Lexeme, 10, p.curTok.Span)
	case token.STRING:
		return ast.NewLiteral(ast.LitString, p.curTok.Lexeme, 0, p.curTok.Span)
	case token.CHAR:
		return ast.NewLiteral(ast.LitChar, p.curTok.Lexeme, 0, p.curTok.Span)
	case token.KW_TRUE, token.KW_FALSE:
		return ast.NewLiteral(ast.LitBool, p.curTok.Lexeme, 0, p.curTok.Span)
	default:
		return ast.NewLiteral(ast.LitNil, "nil", 0, p.curTok.Span)
	}
}

func literalToExpr(lit *ast.Literal) ast.Expr { return lit }

// parsePatternConstructorOrActive handles `Name`, `Name(args)`, and
// `Name { fields }`. Both a total active-pattern call and a sum-type
// constructor pattern share the `Name(args)` syntax; the checker
// reclassifies the PatternConstructor node into an active-pattern call
// once name resolution knows which Name refers to (§4.5.2). The
// partial spelling `Name|_|(args)` is not distinguished syntactically
// from an or-pattern starting with a bare `Name` alternative — with
// only a two-token lookahead window the parser cannot look past the
// `_` to confirm a closing `|` before committing, so partial active
// patterns are invoked with the same `Name(args)` call syntax and
// their partiality is a property of the active pattern's declaration,
// not of the call site.
func (p *Parser) parsePatternConstructorOrActive() ast.Pattern {
	start := p.curTok.Span
	name := ast.NewIdent(p.curTok.Lexeme, start)

	if p.peekIs(token.LPAREN) {
		p.nextToken()
		args, ok := p.parsePatternList(token.RPAREN)
		if !ok {
			return nil
		}
		// A total active-pattern invocation and a sum-constructor
		// pattern share this exact syntax; disambiguation needs name
		// resolution, so the parser always emits PatternConstructor and
		// the checker reclassifies it once it knows whether Name is a
		// constructor or an active-pattern function (§4.5.2).
		return ast.NewPatternConstructor(name, args, mergeSpan(start, p.curTok.Span))
	}

	if p.peekIs(token.LBRACE) {
		p.nextToken()
		return p.parsePatternRecord(name)
	}

	return ast.NewPatternConstructor(name, nil, start)
}

func (p *Parser) parsePatternList(closing token.Kind) ([]ast.Pattern, bool) {
	var items []ast.Pattern
	if p.peekIs(closing) {
		p.nextToken()
		return items, true
	}
	p.nextToken()
	for {
		pat := p.parsePattern()
		if pat == nil {
			return nil, false
		}
		items = append(items, pat)
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

func (p *Parser) parsePatternTuple() ast.Pattern {
	start := p.curTok.Span
	elems, ok := p.parsePatternList(token.RPAREN)
	if !ok {
		return nil
	}
	return ast.NewPatternTuple(elems, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parsePatternSlice() ast.Pattern {
	start := p.curTok.Span
	var elems []ast.Pattern
	restAt := -1
	var restName *ast.Ident

	if p.peekIs(token.RBRACKET) {
		p.nextToken()
		return ast.NewPatternSlice(elems, restAt, restName, mergeSpan(start, p.curTok.Span))
	}
	p.nextToken()
	for {
		if p.curIs(token.DOTDOT) {
			if restAt != -1 {
				p.reportSimple(diag.CodePatternSliceMultipleRest, "slice pattern may contain at most one '..rest'", p.curTok.Span)
				return nil
			}
			restAt = len(elems)
			if p.peekIs(token.IDENT) {
				p.nextToken()
				restName = ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
			}
		} else {
			pat := p.parsePattern()
			if pat == nil {
				return nil
			}
			elems = append(elems, pat)
		}
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(token.RBRACKET) {
		return nil
	}
	return ast.NewPatternSlice(elems, restAt, restName, mergeSpan(start, p.curTok.Span))
}

// parsePatternRecord parses `{ field[: pattern], .., }`, optionally
// prefixed by a constructor/struct name already consumed by the
// caller.
func (p *Parser) parsePatternRecord(typ *ast.Ident) ast.Pattern {
	start := p.curTok.Span
	if typ != nil {
		start = typ.Span()
	}
	var fields []*ast.RecordFieldPattern
	rest := false

	if p.peekIs(token.RBRACE) {
		p.nextToken()
		return ast.NewPatternRecord(typ, fields, rest, mergeSpan(start, p.curTok.Span))
	}
	p.nextToken()
	for {
		if p.curIs(token.DOTDOT) {
			rest = true
			p.nextToken()
			break
		}
		if !p.curIs(token.IDENT) {
			p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}}, p.curTok.Span)
			return nil
		}
		fname := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
		var fpat ast.Pattern
		if p.peekIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			fpat = p.parsePattern()
			if fpat == nil {
				return nil
			}
		}
		fields = append(fields, ast.NewRecordFieldPattern(fname, fpat, mergeSpan(fname.Span(), p.curTok.Span)))
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(token.RBRACE) {
		return nil
	}
	return ast.NewPatternRecord(typ, fields, rest, mergeSpan(start, p.curTok.Span))
}
