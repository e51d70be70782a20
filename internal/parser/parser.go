// Package parser turns a token stream into an ast.Module using
// precedence-climbing for expressions and recursive descent for
// declarations, with cut points for high-quality error recovery (§4.1).
package parser

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/lexer"
	"github.com/sigil-lang/sigil/internal/stream"
	"github.com/sigil-lang/sigil/internal/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Option configures a Parser at construction time.
type Option func(*options)

type options struct {
	filename            string
	allowTopLevelExpr   bool
	packrat             bool
	trace               bool
	mergeWarnings       bool
}

// WithFilename attributes all emitted spans to the provided filename.
func WithFilename(name string) Option { return func(o *options) { o.filename = name } }

// WithTopLevelExprs allows bare expressions at module scope (disabled
// by default per §4.1 post-parse validation).
func WithTopLevelExprs() Option { return func(o *options) { o.allowTopLevelExpr = true } }

// WithPackrat allocates a packrat cache whose counters CacheStats
// reports; the parser itself neither stores entries in it nor looks
// them up.
func WithPackrat() Option { return func(o *options) { o.packrat = true } }

// WithTrace enables trace-event emission (§4.1, consumed by the
// LSP-like layer and by packrat warm-up).
func WithTrace() Option { return func(o *options) { o.trace = true } }

// WithMergedWarnings records the merge-warnings setting. The parser
// does not read it: every diagnostic is still reported individually,
// with no coalescing per checkpoint.
func WithMergedWarnings() Option { return func(o *options) { o.mergeWarnings = true } }

const (
	precLowest = iota
	precPipe
	precOr
	precAnd
	precEquality
	precComparison
	precRange
	precAdditive
	precMultiplicative
	precPower
	precUnary
	precPostfix
)

var precedences = map[token.Kind]int{
	token.PIPEGT:   precPipe,
	token.OROR:     precOr,
	token.ANDAND:   precAnd,
	token.EQ:       precEquality,
	token.NE:       precEquality,
	token.LT:       precComparison,
	token.LE:       precComparison,
	token.GT:       precComparison,
	token.GE:       precComparison,
	token.DOTDOT:   precRange,
	token.DOTDOTEQ: precRange,
	token.PLUS:     precAdditive,
	token.MINUS:    precAdditive,
	token.STAR:     precMultiplicative,
	token.SLASH:    precMultiplicative,
	token.PERCENT:  precMultiplicative,
	token.CARET:    precPower,
	token.LPAREN:   precPostfix,
	token.LBRACKET: precPostfix,
	token.DOT:      precPostfix,
	token.QUESTION: precPostfix,
}

// rightAssoc marks operators that bind tighter on their right operand,
// so `a ^ b ^ c` parses as `a ^ (b ^ c)`.
var rightAssoc = map[token.Kind]bool{
	token.CARET: true,
}

// Parser is a resilient Pratt/recursive-descent parser producing an
// ast.Module and an append-only diagnostics accumulator. It never
// panics; on failure it records the best-effort diagnostic and
// synchronizes to the next recognizable boundary (§4.1).
type Parser struct {
	lx      *lexer.Lexer
	curTok  token.Token
	peekTok token.Token

	diags *diag.Builder

	filename string
	opts     options

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn

	cache     *stream.Cache
	trace     *stream.Recorder
	spanTrace *stream.SpanTrace
	metrics   *stream.Metrics

	recovered bool
	farthest  int
}

// New returns a parser reading from src.
func New(src string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Parser{
		lx:        lexer.New(src),
		diags:     diag.NewBuilder(),
		prefixFns: make(map[token.Kind]prefixParseFn),
		infixFns:  make(map[token.Kind]infixParseFn),
		filename:  cfg.filename,
		opts:      cfg,
		spanTrace: stream.NewSpanTrace(),
		metrics:   stream.NewMetrics(),
	}
	if cfg.filename != "" {
		p.lx.SetFilename(cfg.filename)
	}
	if cfg.packrat {
		p.cache = stream.NewCache()
	}
	if cfg.trace {
		p.trace = stream.NewRecorder()
	}

	p.registerPrefix(token.IDENT, p.parseIdentExpr)
	p.registerPrefix(token.UPIDENT, p.parseIdentExpr)
	p.registerPrefix(token.INT, p.parseIntLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.CHAR, p.parseCharLiteral)
	p.registerPrefix(token.KW_TRUE, p.parseBoolLiteral)
	p.registerPrefix(token.KW_FALSE, p.parseBoolLiteral)
	p.registerPrefix(token.KW_NIL, p.parseNilLiteral)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.LPAREN, p.parseGroupedOrLambdaExpr)
	p.registerPrefix(token.LBRACE, p.parseBlockAsExpr)
	p.registerPrefix(token.KW_IF, p.parseIfExpr)
	p.registerPrefix(token.KW_MATCH, p.parseMatchExpr)
	p.registerPrefix(token.KW_WHILE, p.parseWhileExpr)
	p.registerPrefix(token.KW_FOR, p.parseForExpr)
	p.registerPrefix(token.KW_LOOP, p.parseLoopExpr)
	p.registerPrefix(token.KW_UNSAFE, p.parseUnsafeExpr)
	p.registerPrefix(token.KW_DEFER, p.parseDeferExpr)
	p.registerPrefix(token.KW_ASYNC, p.parseAsyncExpr)
	p.registerPrefix(token.KW_AWAIT, p.parseAwaitExpr)
	p.registerPrefix(token.KW_PERFORM, p.parsePerformExpr)
	p.registerPrefix(token.KW_HANDLE, p.parseHandleExpr)
	p.registerPrefix(token.KW_REC, p.parseRecExpr)
	p.registerPrefix(token.KW_BREAK, p.parseBreakExpr)
	p.registerPrefix(token.KW_CONTINUE, p.parseContinueExpr)
	p.registerPrefix(token.KW_RETURN, p.parseReturnExpr)
	p.registerPrefix(token.KW_EFFECT, p.parseEffectBlockExpr)

	p.registerInfix(token.PLUS, p.parseBinaryExpr)
	p.registerInfix(token.MINUS, p.parseBinaryExpr)
	p.registerInfix(token.STAR, p.parseBinaryExpr)
	p.registerInfix(token.SLASH, p.parseBinaryExpr)
	p.registerInfix(token.PERCENT, p.parseBinaryExpr)
	p.registerInfix(token.CARET, p.parseBinaryExpr)
	p.registerInfix(token.ANDAND, p.parseBinaryExpr)
	p.registerInfix(token.OROR, p.parseBinaryExpr)
	p.registerInfix(token.EQ, p.parseBinaryExpr)
	p.registerInfix(token.NE, p.parseBinaryExpr)
	p.registerInfix(token.LT, p.parseBinaryExpr)
	p.registerInfix(token.LE, p.parseBinaryExpr)
	p.registerInfix(token.GT, p.parseBinaryExpr)
	p.registerInfix(token.GE, p.parseBinaryExpr)
	p.registerInfix(token.DOTDOT, p.parseRangeBinaryExpr)
	p.registerInfix(token.DOTDOTEQ, p.parseRangeBinaryExpr)
	p.registerInfix(token.PIPEGT, p.parsePipeExpr)
	p.registerInfix(token.LPAREN, p.parseCallExpr)
	p.registerInfix(token.LBRACKET, p.parseIndexExpr)
	p.registerInfix(token.DOT, p.parseFieldOrTupleAccessExpr)
	p.registerInfix(token.QUESTION, p.parsePropagateExpr)
	p.registerInfix(token.ASSIGN, p.parseAssignInfixExpr)

	p.nextToken()
	p.nextToken()
	return p
}

// Diagnostics returns every diagnostic recorded so far.
func (p *Parser) Diagnostics() []diag.Diagnostic { return p.diags.Sorted() }

// Recovered reports whether the parser had to synchronize past at
// least one structural error.
func (p *Parser) Recovered() bool { return p.recovered }

// Metrics returns the running counters accumulated while parsing.
func (p *Parser) Metrics() *stream.Metrics { return p.metrics }

// Trace returns the recorded trace events, or nil if tracing is off.
func (p *Parser) Trace() []stream.TraceEvent {
	if p.trace == nil {
		return nil
	}
	return p.trace.Events()
}

// Farthest returns the byte offset of the farthest recovery point seen
// so far, used to order/prioritize diagnostics from a failed parse.
func (p *Parser) Farthest() int { return p.farthest }

// CacheStats returns the packrat cache's hit/miss/warm counters, or the
// zero Stats if packrat caching is off.
func (p *Parser) CacheStats() stream.Stats {
	if p.cache == nil {
		return stream.Stats{}
	}
	return p.cache.Stats()
}

func (p *Parser) emitTrace(kind stream.TraceKind, span token.Span, label string) {
	if p.trace != nil {
		p.trace.Emit(kind, span, label)
	}
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.lx.NextToken()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.curTok.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peekTok.Kind == k }

// expect advances past the peek token if it matches k; otherwise it
// reports a structural error naming k as the sole expected
// alternative.
func (p *Parser) expect(k token.Kind) bool {
	if p.peekTok.Kind == k {
		p.nextToken()
		return true
	}
	p.reportExpected([]diag.ExpectedToken{{Literal: string(k)}}, p.peekTok.Span)
	return false
}

// expectName advances past the peek token if it is an identifier of
// either case (IDENT or UPIDENT); otherwise it reports a structural
// error naming "identifier" as the expected alternative.
func (p *Parser) expectName() bool {
	if p.peekTok.Kind == token.IDENT || p.peekTok.Kind == token.UPIDENT {
		p.nextToken()
		return true
	}
	p.reportExpected([]diag.ExpectedToken{{Class: "identifier"}}, p.peekTok.Span)
	return false
}

func (p *Parser) spanWithFilename(sp token.Span) token.Span {
	if sp.Filename == "" && p.filename != "" {
		sp.Filename = p.filename
	}
	return sp
}

func (p *Parser) trackFarthest(sp token.Span) {
	if sp.Start > p.farthest {
		p.farthest = sp.Start
	}
}

// catchAllMessageKey is the message-catalog key for the default-locale
// "cannot parse input" diagnostic; the string itself is compiled in
// since no other locale is implemented.
const catchAllMessageKey = "parser.expected_tokens.cannot_parse"

// catchAllMessage is the default-locale rendering of catchAllMessageKey.
const catchAllMessage = "構文エラー: 入力を解釈できません"

func (p *Parser) reportExpected(alts []diag.ExpectedToken, sp token.Span) {
	sp = p.spanWithFilename(sp)
	p.trackFarthest(sp)
	summary := diag.BuildExpectedSummary(alts)
	d := diag.Diagnostic{
		Severity:             diag.SeverityError,
		Domain:               diag.DomainParser,
		Code:                 diag.CodeParserExpectedTokens,
		Message:              catchAllMessage,
		PrimarySpan:          sp,
		ExpectedTokens:       alts,
		ExpectedAlternatives: summary,
		ExpectedMessageKey:   catchAllMessageKey,
		Recoverability:       diag.Recoverable,
		Notes: []diag.Note{{
			Label:   "recover.expected_tokens",
			Message: summary.Humanized,
			Span:    sp,
		}},
	}
	if d.PrimarySpan == (token.Span{}) {
		if last, ok := p.spanTrace.Last(); ok {
			d.PrimarySpan = last.Span
			d.Notes[0].Span = last.Span
		}
	}
	p.diags.Add(d)
}

func (p *Parser) reportSimple(code diag.Code, msg string, sp token.Span) {
	sp = p.spanWithFilename(sp)
	p.trackFarthest(sp)
	p.diags.Add(diag.Diagnostic{
		Severity:    diag.SeverityError,
		Domain:      diag.DomainParser,
		Code:        code,
		Message:     msg,
		PrimarySpan: sp,
	})
}

func (p *Parser) reportWarning(code diag.Code, msg string, sp token.Span) {
	sp = p.spanWithFilename(sp)
	p.diags.Add(diag.Diagnostic{
		Severity:    diag.SeverityWarning,
		Domain:      diag.DomainParser,
		Code:        code,
		Message:     msg,
		PrimarySpan: sp,
	})
}

func (p *Parser) registerPrefix(k token.Kind, fn prefixParseFn) { p.prefixFns[k] = fn }
func (p *Parser) registerInfix(k token.Kind, fn infixParseFn)   { p.infixFns[k] = fn }

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekTok.Kind]; ok {
		return pr
	}
	return precLowest
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curTok.Kind]; ok {
		return pr
	}
	return precLowest
}

func mergeSpan(a, b token.Span) token.Span { return token.Merge(a, b) }

func sameTokenPosition(a, b token.Token) bool {
	return a.Kind == b.Kind && a.Span.Start == b.Span.Start && a.Span.End == b.Span.End
}
