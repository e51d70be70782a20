package lexer

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/token"
)

func TestNextToken_Basic(t *testing.T) {
	input := `let x = 10;`

	tests := []struct {
		kind   token.Kind
		lexeme string
	}{
		{token.KW_LET, "let"},
		{token.IDENT, "x"},
		{token.ASSIGN, ""},
		{token.INT, "10"},
		{token.SEMI, ""},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Kind != tt.kind {
			t.Fatalf("tests[%d] - kind wrong. expected=%q, got=%q", i, tt.kind, tok.Kind)
		}
		if tok.Lexeme != tt.lexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.lexeme, tok.Lexeme)
		}
	}
}

func TestNextToken_EffectsAndHandlers(t *testing.T) {
	input := `effect E fn f() = perform E() handle f() with h`

	var kinds []token.Kind
	l := New(input)
	for {
		tok := l.NextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}

	want := []token.Kind{
		token.KW_EFFECT, token.UPIDENT, token.KW_FN, token.IDENT, token.LPAREN, token.RPAREN,
		token.ASSIGN, token.KW_PERFORM, token.UPIDENT, token.LPAREN, token.RPAREN,
		token.KW_HANDLE, token.IDENT, token.LPAREN, token.RPAREN, token.KW_WITH, token.IDENT,
		token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("token count mismatch: got %d want %d (%v)", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token[%d]: got %s want %s", i, kinds[i], want[i])
		}
	}
}

func TestNextToken_PipeForwardAndArrows(t *testing.T) {
	input := `a |> b -> c => d ~> e ..= f ::g`
	var kinds []token.Kind
	l := New(input)
	for {
		tok := l.NextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}
	want := []token.Kind{
		token.IDENT, token.PIPEGT, token.IDENT, token.ARROW, token.IDENT, token.FATARROW,
		token.IDENT, token.SQUIGGLY, token.IDENT, token.DOTDOTEQ, token.IDENT, token.DCOLON,
		token.IDENT, token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("token count mismatch: got %d want %d (%v)", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token[%d]: got %s want %s", i, kinds[i], want[i])
		}
	}
}

func TestTriviaFilteredByDefault(t *testing.T) {
	l := New("let  \n x")
	tok := l.NextToken()
	if tok.Kind != token.KW_LET {
		t.Fatalf("expected LET first, got %s", tok.Kind)
	}
	tok = l.NextToken()
	if tok.Kind != token.IDENT {
		t.Fatalf("expected trivia filtered and IDENT next, got %s", tok.Kind)
	}
}

func TestTriviaEmittedWithTrivia(t *testing.T) {
	l := NewWithTrivia("a b")
	var sawWhitespace bool
	for {
		tok := l.NextToken()
		if tok.Kind == token.WHITESPACE {
			sawWhitespace = true
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	if !sawWhitespace {
		t.Fatalf("expected whitespace token with NewWithTrivia")
	}
}

func TestUnterminatedStringReportsError(t *testing.T) {
	l := New(`"abc`)
	l.NextToken()
	if len(l.Errors) != 1 {
		t.Fatalf("expected 1 lexer error, got %d", len(l.Errors))
	}
	if l.Errors[0].Kind != ErrUnterminatedString {
		t.Fatalf("expected ErrUnterminatedString, got %v", l.Errors[0].Kind)
	}
}

func TestIllegalRuneReportsError(t *testing.T) {
	l := New("$")
	tok := l.NextToken()
	if tok.Kind != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Kind)
	}
	if len(l.Errors) != 1 || l.Errors[0].Kind != ErrIllegalRune {
		t.Fatalf("expected ErrIllegalRune")
	}
}

func TestFloatAndIntLiterals(t *testing.T) {
	l := New("42 3.14 1e9 2.5e-3")
	want := []struct {
		kind token.Kind
		lex  string
	}{
		{token.INT, "42"},
		{token.FLOAT, "3.14"},
		{token.FLOAT, "1e9"},
		{token.FLOAT, "2.5e-3"},
	}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Kind != w.kind || tok.Lexeme != w.lex {
			t.Fatalf("literal[%d]: got %s %q want %s %q", i, tok.Kind, tok.Lexeme, w.kind, w.lex)
		}
	}
}
