package parser

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/stream"
	"github.com/sigil-lang/sigil/internal/token"
)

// ParseModule runs the module-prefix pre-pass (optional `[pub] module
// <path>;` header followed by a run of `use` declarations) and then
// dispatches every remaining top-level item into the right Module
// bucket, synchronizing past structural errors with recoverDecl (§4.1).
func (p *Parser) ParseModule() *ast.Module {
	start := p.curTok.Span
	m := ast.NewModule(start)

	m.Header = p.parseModuleHeaderPrefix()

	for p.curIs(token.KW_USE) {
		u := p.parseUseDecl()
		if u == nil {
			p.recoverDecl(p.curTok)
			continue
		}
		m.Uses = append(m.Uses, u)
		if u.Super && m.Header == nil {
			p.reportSimple(diag.CodeParserUnexpectedStruct, "'use super::...' is only legal inside a nested module", u.Span())
		}
	}

	p.parseModuleBody(m, false)
	p.collectOpBuilder(m)

	m.SetSpan(mergeSpan(start, p.curTok.Span))
	return m
}

// parseModuleHeaderPrefix recognizes an optional leading `[pub] module
// a::b::c;` and emits the module_header_accepted trace event on
// success. curTok is left positioned just past the header's ';', ready
// for the `use` pre-pass.
func (p *Parser) parseModuleHeaderPrefix() *ast.ModuleHeader {
	public := false
	if p.curIs(token.KW_PUB) && p.peekIs(token.KW_MODULE) {
		public = true
		p.nextToken()
	}
	if !p.curIs(token.KW_MODULE) {
		return nil
	}
	start := p.curTok.Span
	if !p.expectName() {
		return nil
	}
	path := []*ast.Ident{ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)}
	for p.peekIs(token.DCOLON) {
		p.nextToken()
		p.nextToken()
		if !p.curIs(token.IDENT) && !p.curIs(token.UPIDENT) {
			p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}}, p.curTok.Span)
			return nil
		}
		path = append(path, ast.NewIdent(p.curTok.Lexeme, p.curTok.Span))
	}
	if !p.expect(token.SEMI) {
		return nil
	}
	header := ast.NewModuleHeader(public, path, mergeSpan(start, p.curTok.Span))
	p.emitTrace(stream.TraceModuleHeaderAccept, header.Span(), path[len(path)-1].Name)
	p.nextToken()
	return header
}

// parseUseDecl parses `use [super::] a::b::c [as Alias];`. curTok is
// KW_USE on entry.
func (p *Parser) parseUseDecl() *ast.UseDecl {
	start := p.curTok.Span
	super := false
	if p.peekIs(token.KW_SUPER) {
		p.nextToken()
		super = true
		if !p.expect(token.DCOLON) {
			return nil
		}
		p.nextToken()
	} else if !p.expectName() {
		return nil
	}
	path := []*ast.Ident{ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)}
	for p.peekIs(token.DCOLON) {
		p.nextToken()
		p.nextToken()
		if !p.curIs(token.IDENT) && !p.curIs(token.UPIDENT) {
			p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}}, p.curTok.Span)
			return nil
		}
		path = append(path, ast.NewIdent(p.curTok.Lexeme, p.curTok.Span))
	}
	var alias *ast.Ident
	if p.peekIs(token.KW_AS) {
		p.nextToken()
		if !p.expectName() {
			return nil
		}
		alias = ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	}
	if !p.expect(token.SEMI) {
		return nil
	}
	decl := ast.NewUseDecl(path, alias, super, mergeSpan(start, p.curTok.Span))
	p.emitTrace(stream.TraceUseDeclAccept, decl.Span(), path[len(path)-1].Name)
	p.nextToken()
	return decl
}

// parseModuleBody dispatches every top-level item (decl or, when
// allowed, a bare expression) until the enclosing brace/EOF, appending
// each to the right bucket on m. nested is true while parsing a
// NestedModuleDecl's own `{ ... }` body.
func (p *Parser) parseModuleBody(m *ast.Module, nested bool) {
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		prevTok := p.curTok
		if !p.parseTopLevelItem(m, nested) {
			if p.curIs(token.RBRACE) || p.curIs(token.EOF) {
				return
			}
			p.recoverDecl(prevTok)
		}
	}
}

func (p *Parser) parseTopLevelItem(m *ast.Module, nested bool) bool {
	attrs := p.parseAttrs()
	public := false
	if p.curIs(token.KW_PUB) {
		public = true
		p.nextToken()
	}

	switch p.curTok.Kind {
	case token.KW_USE:
		u := p.parseUseDecl()
		if u == nil {
			return false
		}
		m.Uses = append(m.Uses, u)
		if u.Super && m.Header == nil && !nested {
			p.reportSimple(diag.CodeParserUnexpectedStruct, "'use super::...' is only legal inside a nested module", u.Span())
		}
		return true

	case token.KW_FN:
		fn := p.parseFnDecl(public, attrs)
		if fn == nil {
			return false
		}
		if fn.Name.Name != "" && isUpperName(fn.Name.Name) {
			m.ActivePatterns = append(m.ActivePatterns, asActivePatternDecl(fn))
		} else {
			m.Functions = append(m.Functions, fn)
		}
		p.nextToken()
		return true

	case token.KW_LET:
		d := p.parseLetDecl()
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		return p.expectTopLevelTerminator()

	case token.KW_VAR:
		d := p.parseVarDecl()
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		return p.expectTopLevelTerminator()

	case token.KW_CONST:
		d := p.parseConstDecl()
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		return p.expectTopLevelTerminator()

	case token.KW_TYPE:
		d := p.parseTypeDecl()
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		return p.expectTopLevelTerminator()

	case token.KW_STRUCT:
		d := p.parseStructDecl(public)
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		p.nextToken()
		return true

	case token.KW_ENUM:
		d := p.parseEnumDecl(public)
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		p.nextToken()
		return true

	case token.KW_TRAIT:
		d := p.parseTraitDecl()
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		p.nextToken()
		return true

	case token.KW_IMPL:
		d := p.parseImplDecl()
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		p.nextToken()
		return true

	case token.KW_EXTERN:
		d := p.parseExternDecl()
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		p.nextToken()
		return true

	case token.KW_EFFECT:
		decl := p.parseEffectDecl()
		if decl == nil {
			return false
		}
		m.Effects = append(m.Effects, decl.(*ast.EffectDecl))
		p.nextToken()
		return true

	case token.KW_HANDLER:
		d := p.parseHandlerDecl()
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		p.nextToken()
		return true

	case token.KW_MODULE:
		d := p.parseNestedModuleDecl(public)
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		p.nextToken()
		return true

	case token.KW_MACRO:
		d := p.parseMacroDecl()
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		p.nextToken()
		return true

	case token.KW_ACTOR:
		d := p.parseActorDecl()
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		p.nextToken()
		return true

	case token.KW_CONDUCTOR:
		d := p.parseConductorDecl()
		if d == nil {
			return false
		}
		m.Decls = append(m.Decls, d)
		p.nextToken()
		return true

	default:
		if !p.opts.allowTopLevelExpr {
			p.reportExpected(topLevelExpectedTokens(), p.curTok.Span)
			return false
		}
		e := p.parseExpr(precLowest)
		if e == nil {
			return false
		}
		m.TopLevelExprs = append(m.TopLevelExprs, e)
		if p.peekIs(token.SEMI) {
			p.nextToken()
		}
		p.nextToken()
		return true
	}
}

func (p *Parser) expectTopLevelTerminator() bool {
	if !p.expect(token.SEMI) {
		return false
	}
	p.nextToken()
	return true
}

func topLevelExpectedTokens() []diag.ExpectedToken {
	return []diag.ExpectedToken{
		{Literal: "fn"}, {Literal: "let"}, {Literal: "var"}, {Literal: "const"},
		{Literal: "type"}, {Literal: "struct"}, {Literal: "enum"}, {Literal: "trait"},
		{Literal: "impl"}, {Literal: "extern"}, {Literal: "effect"}, {Literal: "handler"},
		{Literal: "module"}, {Literal: "macro"}, {Literal: "actor"}, {Literal: "conductor"},
		{Literal: "use"},
	}
}

func isUpperName(name string) bool {
	c := name[0]
	return c >= 'A' && c <= 'Z'
}

// isTopLevelDeclStart reports whether k can legally begin a top-level
// item, used by recoverDecl as a synchronization boundary.
func isTopLevelDeclStart(k token.Kind) bool {
	switch k {
	case token.KW_FN, token.KW_LET, token.KW_VAR, token.KW_CONST, token.KW_TYPE,
		token.KW_STRUCT, token.KW_ENUM, token.KW_TRAIT, token.KW_IMPL, token.KW_EXTERN,
		token.KW_EFFECT, token.KW_HANDLER, token.KW_MODULE, token.KW_MACRO,
		token.KW_ACTOR, token.KW_CONDUCTOR, token.KW_USE, token.KW_PUB, token.AT:
		return true
	default:
		return false
	}
}

func (p *Parser) recoverDecl(prev token.Token) {
	if p.curIs(token.EOF) {
		return
	}
	if sameTokenPosition(p.curTok, prev) {
		p.nextToken()
	}
	for !p.curIs(token.EOF) {
		if p.curIs(token.SEMI) {
			p.nextToken()
			break
		}
		if p.curIs(token.RBRACE) {
			break
		}
		if isTopLevelDeclStart(p.curTok.Kind) {
			break
		}
		p.nextToken()
	}
	p.recovered = true
	p.diags.Add(diag.Diagnostic{
		Severity:       diag.SeverityNote,
		Domain:         diag.DomainParser,
		Code:           diag.CodeParserRecoverBranch,
		Message:        "synchronized to next top-level declaration",
		PrimarySpan:    p.curTok.Span,
		Recoverability: diag.Recoverable,
	})
}

// parseConductorDecl parses the pipeline DSL block (§4.8):
//
//	conductor { dsl_id: target = pipeline |> stage(args) ...
//	  channels { a ~> b: PayloadType; }
//	  execution { ... }
//	  monitoring { ... }
//	}
func (p *Parser) parseConductorDecl() ast.Decl {
	start := p.curTok.Span
	if !p.expect(token.LBRACE) {
		return nil
	}
	if !p.expectName() {
		return nil
	}
	dslID := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	if !p.expect(token.COLON) {
		return nil
	}
	if !p.expectName() {
		return nil
	}
	target := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	if !p.expect(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	pipeline := p.parseExpr(precLowest)
	if pipeline == nil {
		return nil
	}
	stages := flattenConductorStages(pipeline)

	var channels []*ast.ConductorChannel
	var execution, monitoring *ast.BlockExpr

loop:
	for p.peekIs(token.IDENT) {
		switch p.peekTok.Lexeme {
		case "channels":
			p.nextToken()
			if !p.expect(token.LBRACE) {
				return nil
			}
			p.nextToken()
			for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
				c := p.parseConductorChannel()
				if c == nil {
					return nil
				}
				channels = append(channels, c)
				p.nextToken()
			}
			if !p.curIs(token.RBRACE) {
				p.reportExpected([]diag.ExpectedToken{{Literal: "}"}}, p.curTok.Span)
				return nil
			}
		case "execution":
			p.nextToken()
			if !p.expect(token.LBRACE) {
				return nil
			}
			execution = p.parseBlockExpr()
			if execution == nil {
				return nil
			}
		case "monitoring":
			p.nextToken()
			if !p.expect(token.LBRACE) {
				return nil
			}
			monitoring = p.parseBlockExpr()
			if monitoring == nil {
				return nil
			}
		default:
			break loop
		}
	}

	if !p.expect(token.RBRACE) {
		return nil
	}
	d := ast.NewConductorDecl(dslID, target, pipeline, stages, mergeSpan(start, p.curTok.Span))
	d.Channels = channels
	d.Execution = execution
	d.Monitoring = monitoring
	return d
}

func (p *Parser) parseConductorChannel() *ast.ConductorChannel {
	start := p.curTok.Span
	if !p.curIs(token.IDENT) && !p.curIs(token.UPIDENT) {
		p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}}, p.curTok.Span)
		return nil
	}
	from := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	if !p.expect(token.SQUIGGLY) {
		return nil
	}
	if !p.expectName() {
		return nil
	}
	to := ast.NewIdent(p.curTok.Lexeme, p.curTok.Span)
	var payload ast.TypeExpr
	end := to.Span()
	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		payload = p.parseType()
		if payload == nil {
			return nil
		}
		end = payload.Span()
	}
	if !p.expect(token.SEMI) {
		return nil
	}
	return ast.NewConductorChannel(from, to, payload, mergeSpan(start, end))
}

// flattenConductorStages reads off the left-leaning `|>` chain built by
// the Pratt parser into the positional Stages list the checker expects
// alongside the full Pipeline expression (§4.8).
func flattenConductorStages(e ast.Expr) []*ast.ConductorStage {
	pipe, ok := e.(*ast.PipeExpr)
	if !ok {
		return nil
	}
	stages := flattenConductorStages(pipe.Left)
	if call, ok := pipe.Right.(*ast.CallExpr); ok {
		if ident, ok := call.Callee.(*ast.IdentExpr); ok {
			stages = append(stages, ast.NewConductorStage(ident.Name, call.Args, call.Span()))
		}
	}
	return stages
}
