package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := map[string]Kind{
		"function": KwFunction,
		"class":    KwClass,
		"return":   KwReturn,
		"typeof":   KwTypeof,
		"null":     KwNull,
	}
	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v,%v want %v", lexeme, got, ok, want)
		}
		if got.String() != lexeme {
			t.Fatalf("%v.String() = %q", got, got.String())
		}
	}
	for _, contextual := range []string{"async", "await", "as", "type", "interface", "let", "of"} {
		if _, ok := LookupKeyword(contextual); ok {
			t.Fatalf("%q must lex as identifier", contextual)
		}
	}
}

func TestKindClasses(t *testing.T) {
	if !PlusAssign.IsAssign() || Plus.IsAssign() {
		t.Fatal("IsAssign mismatch")
	}
	if !Arrow.IsPunct() || Arrow.String() != "=>" {
		t.Fatalf("Arrow = %q", Arrow.String())
	}
	tok := Token{Kind: Ident, Text: "async"}
	if !tok.Is("async") || tok.Is("await") {
		t.Fatal("Is mismatch")
	}
}
