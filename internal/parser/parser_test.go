package parser

import (
	"testing"

	"scriptkit/internal/ast"
	"scriptkit/internal/diag"
	"scriptkit/internal/testkit"
	"scriptkit/internal/token"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	res := Parse(src, Options{})
	if res.Bag.HasErrors() {
		for _, d := range res.Bag.Items() {
			t.Logf("%s at %s: %s", d.Code.ID(), d.Primary, d.Message)
		}
		t.Fatalf("unexpected errors parsing %q", src)
	}
	if err := testkit.CheckSpanInvariants(res.Program, src); err != nil {
		t.Fatalf("%q: %v", src, err)
	}
	return res.Program
}

func TestParseAccepts(t *testing.T) {
	cases := []string{
		"let x = 1 + 2 * 3;",
		"const f = (a: number, b?: string): number => a;",
		"async function g() { await h(); }",
		"class A<T> extends B implements C { private x: number = 1; constructor(public y: T) { super(); } get z() { return 1 } }",
		"for (let i = 0; i < n; i++) {}",
		"for (const k in obj) {}",
		"for await (const v of it) {}",
		"const re = /a+b/g.test(s);",
		"x = a / b / c;",
		"const t = `a${b}c${d}e`;",
		"label: for (;;) { break label; }",
		"import def, { a as b } from './m';",
		"import * as ns from 'ns';",
		"export default function () {}",
		"export const q = 1, r = 2;",
		"let a = 1\nlet b = 2",
		"const o = { a, b: 2, [k]: 3, m() { return this }, get g() { return 1 }, ...rest };",
		"const { a, b: [c, d] = [], ...others } = obj;",
		"try { f() } catch (e: unknown) { g() } finally { h() }",
		"switch (x) { case 1: y(); break; default: z() }",
		"do x++; while (x < 10)",
		"const v = a?.b?.[c]?.(d) ?? e;",
		"const n = x! + (y as number);",
		"const c = f<string>(x);",
		"const el = <div className=\"x\">hi {name}</div>;",
		"const f2 = <>a<b/></>;",
		"const t2 = <T,>(x: T) => x;",
		"await Promise.resolve(1);",
		"const m = import.meta.url; const d = import('./x');",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			parseOK(t, src)
		})
	}
}

func TestDirectivePrologue(t *testing.T) {
	prog := parseOK(t, "'use strict'; x;")
	if len(prog.Body) != 2 {
		t.Fatalf("want 2 statements, got %d", len(prog.Body))
	}
	es, ok := prog.Body[0].(*ast.ExprStmt)
	if !ok || es.Directive != "use strict" {
		t.Fatalf("first statement is not a directive: %#v", prog.Body[0])
	}
	if es2 := prog.Body[1].(*ast.ExprStmt); es2.Directive != "" {
		t.Fatalf("second statement must not be a directive")
	}
}

func TestRegexVersusDivision(t *testing.T) {
	x, bag := ParseExpression("a / b / c", Options{})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors")
	}
	if b, ok := x.(*ast.BinaryExpr); !ok || b.Op != token.Slash {
		t.Fatalf("want division, got %T", x)
	}

	x, bag = ParseExpression("/x/g", Options{})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors")
	}
	lit, ok := x.(*ast.Lit)
	if !ok || lit.Kind != token.Regex || lit.Raw != "/x/g" {
		t.Fatalf("want regex literal, got %#v", x)
	}
}

func TestArrowAndConditional(t *testing.T) {
	x, bag := ParseExpression("async (x) => await x", Options{})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors")
	}
	arrow, ok := x.(*ast.ArrowFunc)
	if !ok {
		t.Fatalf("want arrow, got %T", x)
	}
	if arrow.Func.Async == nil {
		t.Fatalf("arrow must be async")
	}
	if _, ok := arrow.Func.ExprBody.(*ast.AwaitExpr); !ok {
		t.Fatalf("want await body, got %T", arrow.Func.ExprBody)
	}

	x, bag = ParseExpression("a ? (b) : c", Options{})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors")
	}
	if _, ok := x.(*ast.CondExpr); !ok {
		t.Fatalf("want conditional, got %T", x)
	}
}

func TestTypeArgumentsVersusComparison(t *testing.T) {
	x, _ := ParseExpression("f<string>(x)", Options{})
	call, ok := x.(*ast.CallExpr)
	if !ok || call.TypeArgs == nil {
		t.Fatalf("want call with type args, got %#v", x)
	}

	x, bag := ParseExpression("a < b > c", Options{})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors")
	}
	if b, ok := x.(*ast.BinaryExpr); !ok || b.Op != token.Gt {
		t.Fatalf("want comparison chain, got %#v", x)
	}
}

func TestMarkupShape(t *testing.T) {
	x, bag := ParseExpression(`<a href={u}>x</a>`, Options{})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors")
	}
	el, ok := x.(*ast.MarkupElement)
	if !ok {
		t.Fatalf("want element, got %T", x)
	}
	if el.Name.Raw != "a" || !el.Name.IsIntrinsic() {
		t.Fatalf("bad name %q", el.Name.Raw)
	}
	if len(el.Attrs) != 1 || len(el.Children) != 1 {
		t.Fatalf("want 1 attr and 1 child, got %d and %d", len(el.Attrs), len(el.Children))
	}
	if txt, ok := el.Children[0].(*ast.MarkupText); !ok || txt.Raw != "x" {
		t.Fatalf("bad child %#v", el.Children[0])
	}
	if el.Range.Start != 0 || int(el.Range.End) != len(`<a href={u}>x</a>`) {
		t.Fatalf("bad range %s", el.Range)
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"let x = ;", diag.SynExpectExpression},
		{"x = <a></b>;", diag.SynMarkupMismatch},
		{"function f() {", diag.SynUnclosedBrace},
		{"let s = 'abc", diag.LexUnterminatedString},
	}
	for _, tc := range cases {
		res := Parse(tc.src, Options{})
		d, ok := res.Bag.FirstError()
		if !ok {
			t.Errorf("%q: expected an error", tc.src)
			continue
		}
		if d.Code != tc.code {
			t.Errorf("%q: want %s, got %s (%s)", tc.src, tc.code.ID(), d.Code.ID(), d.Message)
		}
	}
}

func TestUnquote(t *testing.T) {
	cases := map[string]string{
		`"plain"`:          "plain",
		`'a\nb'`:           "a\nb",
		`"\x41B"`:          "AB",
		`"\u{1F600}"`:      "\U0001F600",
		`"\uD83D\uDE00"`:   "\U0001F600",
		`'it\'s'`:          "it's",
		"\"line\\\ncont\"": "linecont",
	}
	for raw, want := range cases {
		if got := unquote(raw); got != want {
			t.Errorf("unquote(%s) = %q, want %q", raw, got, want)
		}
	}
}
