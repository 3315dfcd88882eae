package codegen

import (
	"testing"

	"scriptkit/internal/ast"
	"scriptkit/internal/source"
)

func TestPrintImportBinding(t *testing.T) {
	pat := &ast.ObjectPattern{Props: []ast.Node{Bind("default", "d"), Bind("a", "a"), Bind("b", "c")}}
	decl := Const(pat, Await(Call(Ident("importModule"), String("m"), Ident("importMeta"))))
	want := `const { default: d, a, b: c } = await importModule("m", importMeta);`
	if got := Print(decl); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestPrintExportCall(t *testing.T) {
	obj := &ast.ObjectLit{Props: []ast.Node{Prop("a", Ident("a")), Prop("c", Ident("b")), Prop("my-name", Ident("x"))}}
	got := Print(&ast.ExprStmt{X: Call(Ident("exportModule"), obj)})
	want := `exportModule({ a, c: b, "my-name": x });`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
	if got := Print(Const(Ident("ABC"), &ast.ObjectLit{})); got != "const ABC = {};" {
		t.Fatalf("got %s", got)
	}
}

func TestPrintVerbatimSource(t *testing.T) {
	src := "foo(1 + 2)"
	x := &ast.BinaryExpr{Base: ast.Base{Range: spanOf(4, 9)}}
	if got := PrintWithSource(src, &ast.ArrayLit{Elems: []ast.Expr{x}}); got != "[1 + 2]" {
		t.Fatalf("got %s", got)
	}
}

func TestQuote(t *testing.T) {
	cases := map[string]string{
		"div":           `"div"`,
		"a\"b":          `"a\"b"`,
		"x\\y\n":        `"x\\y\n"`,
		"\x01":          `"\x01"`,
		"\u2028":        `"\u2028"`,
		"\u00e9t\u00e9": "\"\u00e9t\u00e9\"",
	}
	for in, want := range cases {
		if got := Quote(in); got != want {
			t.Errorf("Quote(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestEscapeTemplate(t *testing.T) {
	if got := EscapeTemplate("a`b${c}$d\\"); got != "a\\`b\\${c}$d\\\\" {
		t.Fatalf("got %q", got)
	}
}

func spanOf(s, e int) source.Span { return source.SpanOf(s, e) }
