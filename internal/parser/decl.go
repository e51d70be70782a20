package parser

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/stream"
	"github.com/sigil-lang/sigil/internal/token"
)

func (p *Parser) parseLetDecl() ast.Decl {
	start := p.curTok.Span
	if !p.expect(token.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	var typ ast.TypeExpr
	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		typ = p.parseType()
		if typ == nil {
			return nil
		}
	}
	if !p.expect(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpr(precLowest)
	if value == nil {
		return nil
	}
	return ast.NewLetDecl(name, typ, value, false, mergeSpan(start, value.Span()))
}

func (p *Parser) parseVarDecl() ast.Decl {
	start := p.curTok.Span
	if !p.expect(token.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	var typ ast.TypeExpr
	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		typ = p.parseType()
		if typ == nil {
			return nil
		}
	}
	if !p.expect(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpr(precLowest)
	if value == nil {
		return nil
	}
	return ast.NewVarDecl(name, typ, value, mergeSpan(start, value.Span()))
}

func (p *Parser) parseConstDecl() ast.Decl {
	start := p.curTok.Span
	if !p.expectName() {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	var typ ast.TypeExpr
	if !p.expect(token.COLON) {
		return nil
	}
	p.nextToken()
	typ = p.parseType()
	if typ == nil {
		return nil
	}
	if !p.expect(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpr(precLowest)
	if value == nil {
		return nil
	}
	return ast.NewConstDecl(name, typ, value, mergeSpan(start, value.Span()))
}

// parseTypeParams parses an optional `<a, b: Bound, ...>` generic
// parameter list.
func (p *Parser) parseTypeParams() []*ast.TypeParam {
	if !p.peekIs(token.LT) {
		return nil
	}
	p.nextToken()
	var params []*ast.TypeParam
	p.nextToken()
	for {
		start := p.curTok.Span
		if !p.curIs(token.IDENT) {
			p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}}, p.curTok.Span)
			return nil
		}
		name := ast.NewIdent(p.curTok.Lexeme, start)
		var bounds []ast.TypeExpr
		if p.peekIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			for {
				b := p.parseType()
				if b == nil {
					return nil
				}
				bounds = append(bounds, b)
				if p.peekIs(token.PLUS) {
					p.nextToken()
					p.nextToken()
					continue
				}
				break
			}
		}
		params = append(params, ast.NewTypeParam(name, bounds, mergeSpan(start, p.curTok.Span)))
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
	return params
}

func (p *Parser) parseAttrs() []*ast.Attr {
	var attrs []*ast.Attr
	for p.curIs(token.AT) {
		start := p.curTok.Span
		if !p.expect(token.IDENT) {
			return attrs
		}
		name := p.curTok.Lexeme
		var args []ast.Expr
		if p.peekIs(token.LPAREN) {
			p.nextToken()
			a, ok := p.parseExprList(token.RPAREN)
			if !ok {
				return attrs
			}
			args = a
		}
		attrs = append(attrs, ast.NewAttr(name, args, mergeSpan(start, p.curTok.Span)))
		p.nextToken()
	}
	return attrs
}

// parseParams parses a parenthesized `(name: Type, ...)` parameter
// list. curTok must be at the '(' on entry; on return curTok is at
// the matching ')'.
func (p *Parser) parseParams() []*ast.Param {
	var params []*ast.Param
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		start := p.curTok.Span
		if !p.curIs(token.IDENT) {
			p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}}, p.curTok.Span)
			return nil
		}
		name := ast.NewIdent(p.curTok.Lexeme, start)
		var typ ast.TypeExpr
		if p.peekIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			typ = p.parseType()
			if typ == nil {
				return nil
			}
		}
		end := start
		if typ != nil {
			end = typ.Span()
		}
		params = append(params, ast.NewParam(name, typ, mergeSpan(start, end)))
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return params
}

// parseFnDecl parses `fn name[<params>](params) [-> Type] [where ...] [{ body }]`.
// A missing body (no '{') declares a signature only, legal inside
// `trait`/`extern` blocks. An UPIDENT name is accepted here too: active
// patterns share the `fn` declaration form and a function namespace
// with ordinary functions (§4.5.2); the module-level dispatch loop
// (module.go) buckets UPIDENT-named functions into Module.ActivePatterns
// instead of Module.Functions, leaving total/partial classification to
// the checker.
func (p *Parser) parseFnDecl(public bool, attrs []*ast.Attr) *ast.FnDecl {
	start := p.curTok.Span
	if !p.expectName() {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	typeParams := p.parseTypeParams()
	if !p.expect(token.LPAREN) {
		return nil
	}
	params := p.parseParams()
	if params == nil && p.curTok.Kind != token.RPAREN {
		return nil
	}

	var ret ast.TypeExpr
	if p.peekIs(token.ARROW) || p.peekIs(token.SQUIGGLY) {
		p.nextToken()
		p.nextToken()
		ret = p.parseType()
		if ret == nil {
			return nil
		}
	}

	var where []ast.TypeExpr
	if p.peekIs(token.KW_WHERE) {
		p.nextToken()
		p.nextToken()
		for {
			w := p.parseType()
			if w == nil {
				return nil
			}
			where = append(where, w)
			if p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
	}

	var body ast.Expr
	end := p.curTok.Span
	switch {
	case p.peekIs(token.LBRACE):
		p.nextToken()
		b := p.parseBlockExpr()
		if b == nil {
			return nil
		}
		body = b
		end = b.Span()
	case p.peekIs(token.ASSIGN):
		// `fn name(...) = expr;` is sugar for a single-tail-expression
		// block body.
		p.nextToken()
		p.nextToken()
		tail := p.parseExpr(precLowest)
		if tail == nil {
			return nil
		}
		if !p.expect(token.SEMI) {
			return nil
		}
		blk := ast.NewBlockExpr(nil, nil, mergeSpan(tail.Span(), p.curTok.Span))
		blk.Tail = tail
		body = blk
		end = p.curTok.Span
	default:
		if !p.expect(token.SEMI) {
			return nil
		}
		end = p.curTok.Span
	}

	d := ast.NewFnDecl(name, params, ret, body, mergeSpan(start, end))
	d.Public = public
	d.TypeParams = typeParams
	d.Where = where
	d.Attrs = attrs
	return d
}

func (p *Parser) parseTypeDecl() ast.Decl {
	start := p.curTok.Span
	if !p.expect(token.UPIDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	typeParams := p.parseTypeParams()
	if !p.expect(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	body := p.parseType()
	if body == nil {
		return nil
	}
	return ast.NewTypeDecl(name, typeParams, body, mergeSpan(start, body.Span()))
}

func (p *Parser) parseStructDecl(public bool) ast.Decl {
	start := p.curTok.Span
	if !p.expect(token.UPIDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	typeParams := p.parseTypeParams()
	if !p.expect(token.LBRACE) {
		return nil
	}
	var fields []*ast.StructField
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		fstart := p.curTok.Span
		if !p.curIs(token.IDENT) {
			p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}}, p.curTok.Span)
			return nil
		}
		fname := ast.NewIdent(p.curTok.Lexeme, fstart)
		if !p.expect(token.COLON) {
			return nil
		}
		p.nextToken()
		ftyp := p.parseType()
		if ftyp == nil {
			return nil
		}
		fields = append(fields, ast.NewStructField(fname, ftyp, mergeSpan(fstart, ftyp.Span())))
		if p.peekIs(token.COMMA) {
			p.nextToken()
		}
		p.nextToken()
	}
	if !p.curIs(token.RBRACE) {
		p.reportExpected([]diag.ExpectedToken{{Literal: "}"}}, p.curTok.Span)
		return nil
	}
	d := ast.NewStructDecl(name, typeParams, fields, mergeSpan(start, p.curTok.Span))
	d.Public = public
	return d
}

func (p *Parser) parseEnumDecl(public bool) ast.Decl {
	start := p.curTok.Span
	if !p.expect(token.UPIDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	typeParams := p.parseTypeParams()
	if !p.expect(token.LBRACE) {
		return nil
	}
	var variants []*ast.EnumVariant
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		vstart := p.curTok.Span
		if !p.curIs(token.UPIDENT) {
			p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}}, p.curTok.Span)
			return nil
		}
		vname := ast.NewIdent(p.curTok.Lexeme, vstart)
		var payload []ast.TypeExpr
		if p.peekIs(token.LPAREN) {
			p.nextToken()
			if !p.peekIs(token.RPAREN) {
				p.nextToken()
				for {
					t := p.parseType()
					if t == nil {
						return nil
					}
					payload = append(payload, t)
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
		}
		variants = append(variants, ast.NewEnumVariant(vname, payload, mergeSpan(vstart, p.curTok.Span)))
		if p.peekIs(token.COMMA) {
			p.nextToken()
		}
		p.nextToken()
	}
	if !p.curIs(token.RBRACE) {
		p.reportExpected([]diag.ExpectedToken{{Literal: "}"}}, p.curTok.Span)
		return nil
	}
	d := ast.NewEnumDecl(name, typeParams, variants, mergeSpan(start, p.curTok.Span))
	d.Public = public
	return d
}

func (p *Parser) parseTraitDecl() ast.Decl {
	start := p.curTok.Span
	if !p.expect(token.UPIDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	typeParams := p.parseTypeParams()
	if !p.expect(token.LBRACE) {
		return nil
	}
	var methods []*ast.FnDecl
	var assoc []*ast.AssociatedTypeDecl
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		switch p.curTok.Kind {
		case token.KW_FN:
			m := p.parseFnDecl(false, nil)
			if m == nil {
				return nil
			}
			methods = append(methods, m)
		case token.KW_TYPE:
			astart := p.curTok.Span
			if !p.expect(token.UPIDENT) {
				return nil
			}
			aname := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
			var bounds []ast.TypeExpr
			if p.peekIs(token.COLON) {
				p.nextToken()
				p.nextToken()
				b := p.parseType()
				if b == nil {
					return nil
				}
				bounds = append(bounds, b)
			}
			if !p.expect(token.SEMI) {
				return nil
			}
			assoc = append(assoc, ast.NewAssociatedTypeDecl(aname, bounds, mergeSpan(astart, p.curTok.Span)))
		default:
			p.reportExpected([]diag.ExpectedToken{{Literal: "fn"}, {Literal: "type"}, {Literal: "}"}}, p.curTok.Span)
			return nil
		}
		p.nextToken()
	}
	if !p.curIs(token.RBRACE) {
		p.reportExpected([]diag.ExpectedToken{{Literal: "}"}}, p.curTok.Span)
		return nil
	}
	return ast.NewTraitDecl(name, typeParams, methods, assoc, mergeSpan(start, p.curTok.Span))
}

// parseImplDecl parses `impl [<params>] [Trait for] Target { methods... }`.
func (p *Parser) parseImplDecl() ast.Decl {
	start := p.curTok.Span
	typeParams := p.parseTypeParams()
	p.nextToken()

	first := p.parseType()
	if first == nil {
		return nil
	}
	var trait *ast.Ident
	var target ast.TypeExpr
	if p.peekIs(token.KW_FOR) {
		named, ok := first.(*ast.NamedType)
		if !ok || len(named.Path) == 0 {
			p.reportSimple(diag.CodeParserUnexpectedStruct, "expected trait name before 'for'", first.Span())
			return nil
		}
		trait = named.Path[len(named.Path)-1]
		p.nextToken()
		p.nextToken()
		target = p.parseType()
		if target == nil {
			return nil
		}
	} else {
		target = first
	}

	if !p.expect(token.LBRACE) {
		return nil
	}
	var methods []*ast.FnDecl
	assoc := map[string]ast.TypeExpr{}
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.KW_TYPE) {
			if !p.expect(token.UPIDENT) {
				return nil
			}
			aname := p.curTok.Lexeme
			if !p.expect(token.ASSIGN) {
				return nil
			}
			p.nextToken()
			at := p.parseType()
			if at == nil {
				return nil
			}
			assoc[aname] = at
			if !p.expect(token.SEMI) {
				return nil
			}
		} else if p.curIs(token.KW_FN) {
			m := p.parseFnDecl(false, nil)
			if m == nil {
				return nil
			}
			methods = append(methods, m)
		} else {
			p.reportExpected([]diag.ExpectedToken{{Literal: "fn"}, {Literal: "type"}, {Literal: "}"}}, p.curTok.Span)
			return nil
		}
		p.nextToken()
	}
	if !p.curIs(token.RBRACE) {
		p.reportExpected([]diag.ExpectedToken{{Literal: "}"}}, p.curTok.Span)
		return nil
	}
	d := ast.NewImplDecl(trait, target, methods, mergeSpan(start, p.curTok.Span))
	d.TypeParams = typeParams
	d.AssocTypes = assoc
	return d
}

func (p *Parser) parseExternDecl() ast.Decl {
	start := p.curTok.Span
	abi := ""
	if p.peekIs(token.STRING) {
		p.nextToken()
		abi = p.curTok.Lexeme
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	var decls []*ast.FnDecl
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if !p.curIs(token.KW_FN) {
			p.reportExpected([]diag.ExpectedToken{{Literal: "fn"}, {Literal: "}"}}, p.curTok.Span)
			return nil
		}
		d := p.parseFnDecl(false, nil)
		if d == nil {
			return nil
		}
		decls = append(decls, d)
		p.nextToken()
	}
	if !p.curIs(token.RBRACE) {
		p.reportExpected([]diag.ExpectedToken{{Literal: "}"}}, p.curTok.Span)
		return nil
	}
	return ast.NewExternDecl(abi, decls, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseEffectDecl() ast.Decl {
	start := p.curTok.Span
	if !p.expect(token.UPIDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	if !p.expect(token.LBRACE) {
		return nil
	}
	var ops []*ast.EffectOp
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if !p.curIs(token.KW_FN) {
			p.reportExpected([]diag.ExpectedToken{{Literal: "fn"}, {Literal: "}"}}, p.curTok.Span)
			return nil
		}
		ostart := p.curTok.Span
		if !p.expect(token.IDENT) {
			return nil
		}
		oname := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
		if !p.expect(token.LPAREN) {
			return nil
		}
		params := p.parseParams()
		if params == nil && !p.curIs(token.RPAREN) {
			return nil
		}
		var ret ast.TypeExpr
		if p.peekIs(token.ARROW) {
			p.nextToken()
			p.nextToken()
			ret = p.parseType()
			if ret == nil {
				return nil
			}
		}
		if !p.expect(token.SEMI) {
			return nil
		}
		ops = append(ops, ast.NewEffectOp(oname, params, ret, mergeSpan(ostart, p.curTok.Span)))
		p.nextToken()
	}
	if !p.curIs(token.RBRACE) {
		p.reportExpected([]diag.ExpectedToken{{Literal: "}"}}, p.curTok.Span)
		return nil
	}
	p.emitTrace(stream.TraceEffectDecl, mergeSpan(start, p.curTok.Span), name.Name)
	return ast.NewEffectDecl(name, ops, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseHandlerDecl() ast.Decl {
	start := p.curTok.Span
	if !p.expect(token.UPIDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	if !p.expect(token.KW_FOR) {
		return nil
	}
	if !p.expect(token.UPIDENT) {
		return nil
	}
	effect := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	if !p.expect(token.LBRACE) {
		return nil
	}
	var clauses []*ast.HandlerClause
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if !p.curIs(token.KW_FN) {
			p.reportExpected([]diag.ExpectedToken{{Literal: "fn"}, {Literal: "}"}}, p.curTok.Span)
			return nil
		}
		cstart := p.curTok.Span
		if !p.expect(token.IDENT) {
			return nil
		}
		op := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
		if !p.expect(token.LPAREN) {
			return nil
		}
		params := p.parseParams()
		if params == nil && !p.curIs(token.RPAREN) {
			return nil
		}
		if !p.expect(token.LBRACE) {
			return nil
		}
		body := p.parseBlockExpr()
		if body == nil {
			return nil
		}
		clauses = append(clauses, ast.NewHandlerClause(op, params, body, mergeSpan(cstart, body.Span())))
		p.nextToken()
	}
	if !p.curIs(token.RBRACE) {
		p.reportExpected([]diag.ExpectedToken{{Literal: "}"}}, p.curTok.Span)
		return nil
	}
	return ast.NewHandlerDecl(name, effect, clauses, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseNestedModuleDecl(public bool) ast.Decl {
	start := p.curTok.Span
	if !p.expect(token.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := ast.NewModule(p.curTok.Span)
	p.nextToken()
	p.parseModuleBody(body, true)
	if !p.curIs(token.RBRACE) {
		p.reportExpected([]diag.ExpectedToken{{Literal: "}"}}, p.curTok.Span)
		return nil
	}
	body.SetSpan(mergeSpan(start, p.curTok.Span))
	d := ast.NewNestedModuleDecl(name, body, mergeSpan(start, p.curTok.Span))
	d.Public = public
	return d
}

func (p *Parser) parseMacroDecl() ast.Decl {
	start := p.curTok.Span
	if !p.expectName() {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	if p.peekIs(token.LPAREN) {
		p.nextToken()
		if p.parseParams() == nil && !p.curIs(token.RPAREN) {
			return nil
		}
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}
	return ast.NewMacroDecl(name, body, mergeSpan(start, body.Span()))
}

func (p *Parser) parseActorDecl() ast.Decl {
	start := p.curTok.Span
	if !p.expect(token.UPIDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	if !p.expect(token.LBRACE) {
		return nil
	}
	var state []*ast.StructField
	var handlers []*ast.ActorHandler
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.IDENT) && p.peekIs(token.COLON) {
			fstart := p.curTok.Span
			fname := ast.NewIdent(p.curTok.Lexeme, fstart)
			p.nextToken()
			p.nextToken()
			ftyp := p.parseType()
			if ftyp == nil {
				return nil
			}
			state = append(state, ast.NewStructField(fname, ftyp, mergeSpan(fstart, ftyp.Span())))
			if p.peekIs(token.SEMI) {
				p.nextToken()
			}
			p.nextToken()
			continue
		}
		if p.curIs(token.IDENT) && p.curTok.Lexeme == "on" {
			hstart := p.curTok.Span
			if !p.expect(token.UPIDENT) {
				return nil
			}
			msg := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
			var params []*ast.Param
			if p.peekIs(token.LPAREN) {
				p.nextToken()
				params = p.parseParams()
				if params == nil && !p.curIs(token.RPAREN) {
					return nil
				}
			}
			if !p.expect(token.LBRACE) {
				return nil
			}
			body := p.parseBlockExpr()
			if body == nil {
				return nil
			}
			handlers = append(handlers, ast.NewActorHandler(msg, params, body, mergeSpan(hstart, body.Span())))
			p.nextToken()
			continue
		}
		p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}, {Literal: "}"}}, p.curTok.Span)
		return nil
	}
	if !p.curIs(token.RBRACE) {
		p.reportExpected([]diag.ExpectedToken{{Literal: "}"}}, p.curTok.Span)
		return nil
	}
	return ast.NewActorDecl(name, state, handlers, mergeSpan(start, p.curTok.Span))
}

// asActivePatternDecl rewraps a parsed UPIDENT-named FnDecl as an
// ActivePatternDecl. Partial/total classification is left to the
// checker (§4.5.2); the parser always records Partial as false.
func asActivePatternDecl(fn *ast.FnDecl) *ast.ActivePatternDecl {
	body := fn.Body
	if body == nil {
		body = ast.NewBlockExpr(nil, nil, fn.Span())
	}
	return ast.NewActivePatternDecl(fn.Name, false, fn.Params, body, fn.Span())
}
