package diag

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/token"
)

func makeSpan(start int) token.Span {
	return token.Span{Start: start, End: start + 1}
}

func TestBuildExpectedSummaryMergesAndSorts(t *testing.T) {
	s := BuildExpectedSummary([]ExpectedToken{
		{Literal: ")"},
		{Literal: ","},
		{Literal: ")"},
		{Class: "identifier"},
	})
	if len(s.Punctuation) != 2 {
		t.Fatalf("expected 2 punctuation alternatives, got %v", s.Punctuation)
	}
	if s.Punctuation[0] != ")" || s.Punctuation[1] != "," {
		t.Fatalf("expected sorted punctuation, got %v", s.Punctuation)
	}
	if len(s.Classes) != 1 || s.Classes[0] != "identifier" {
		t.Fatalf("expected identifier class, got %v", s.Classes)
	}
}

func TestBuildExpectedSummaryExpressionContextHeuristic(t *testing.T) {
	s := BuildExpectedSummary([]ExpectedToken{
		{Class: "identifier"},
		{Class: "integer_literal"},
		{Literal: "("},
	})
	found := false
	for _, k := range s.Keywords {
		if k == "match" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected expression-context heuristic to add curated keywords, got %+v", s)
	}
}

func TestBuilderSortedIsStableBySpan(t *testing.T) {
	b := NewBuilder()
	b.Add(Diagnostic{Message: "second", PrimarySpan: makeSpan(10)})
	b.Add(Diagnostic{Message: "first", PrimarySpan: makeSpan(1)})
	b.Add(Diagnostic{Message: "first-b", PrimarySpan: makeSpan(1)})

	sorted := b.Sorted()
	if sorted[0].Message != "first" || sorted[1].Message != "first-b" || sorted[2].Message != "second" {
		t.Fatalf("unexpected sort order: %+v", sorted)
	}
}

func TestHasErrors(t *testing.T) {
	b := NewBuilder()
	b.Add(Diagnostic{Severity: SeverityWarning})
	if b.HasErrors() {
		t.Fatalf("expected no errors")
	}
	b.Add(Diagnostic{Severity: SeverityError})
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors true")
	}
}
