package testkit

import (
	"testing"

	"scriptkit/internal/lexer"
	"scriptkit/internal/parser"
	"scriptkit/internal/source"
	"scriptkit/internal/token"
)

func TestInvariantsOnValidScript(t *testing.T) {
	src := "import { a } from './a';\nconst el = <p id=\"x\">{a}</p>;\nfor (const v of [1, 2]) { await v; }\nexport default el;\n"
	res := parser.Parse(src, parser.Options{})
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	if err := CheckSpanInvariants(res.Program, src); err != nil {
		t.Fatal(err)
	}

	lx := lexer.New("let x = 1 + 2;", lexer.Options{})
	var toks []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		toks = append(toks, tok)
	}
	if err := CheckTokenInvariants(toks, "let x = 1 + 2;"); err != nil {
		t.Fatal(err)
	}
}

func TestTokenInvariantsCatchOverlap(t *testing.T) {
	src := "ab"
	toks := []token.Token{
		{Kind: token.Ident, Span: source.SpanOf(0, 2), Text: "ab"},
		{Kind: token.Ident, Span: source.SpanOf(1, 2), Text: "b"},
	}
	if err := CheckTokenInvariants(toks, src); err == nil {
		t.Fatal("expected overlap error")
	}
	if err := CheckSpanInvariants(nil, src); err == nil {
		t.Fatal("expected nil program error")
	}
}
