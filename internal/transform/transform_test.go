package transform

import (
	"context"
	"testing"

	"scriptkit/internal/parser"
	"scriptkit/internal/textmodel"
)

func lower(t *testing.T, src string, opts Options) (string, Info) {
	t.Helper()
	res := parser.Parse(src, parser.Options{})
	if d, ok := res.Bag.FirstError(); ok {
		t.Fatalf("parse %q: %s", src, d.Message)
	}
	buf := textmodel.New(src)
	info, err := Run(context.Background(), buf, res.Program, opts)
	if err != nil {
		t.Fatalf("transform %q: %v", src, err)
	}
	return buf.String(), info
}

type lowerCase struct {
	src  string
	want string
}

func runCases(t *testing.T, opts Options, cases []lowerCase) {
	t.Helper()
	for _, tc := range cases {
		got, _ := lower(t, tc.src, opts)
		if got != tc.want {
			t.Errorf("%q\ngot  %s\nwant %s", tc.src, got, tc.want)
		}
	}
}

func TestModules(t *testing.T) {
	runCases(t, Options{}, []lowerCase{
		{`import d from "m";`, `const { default: d } = await importModule("m", importMeta);`},
		{`import { a, b as c } from "m";`, `const { a, b: c } = await importModule("m", importMeta);`},
		{`import * as ns from "m";`, `const ns = await importModule("m", importMeta);`},
		{`import d, * as ns from "m";`, `const ns = await importModule("m", importMeta); const { default: d } = ns;`},
		{`import "m";`, `await importModule("m", importMeta);`},
		{`import type { T } from "m";`, `const {} = {};`},
		{`export const a = 1, b = 2;`, `const a = 1, b = 2; exportModule({ a, b });`},
		{`export function f() {}`, `function f() {} exportModule({ f });`},
		{`export { a, b as c };`, `exportModule({ a, c: b });`},
		{`export type { T };`, ``},
		{`export * from "m";`, `exportModule("m");`},
		{`export * as ns from "m";`, `exportModule("m", [["*", "ns"]]);`},
		{`export { a, b as c } from "m";`, `exportModule("m", ["a", ["b", "c"]]);`},
		{`export default function f() {}`, `function f() {} exportModule({ default: f });`},
		{`export default class {}`, `exportModule({ default: class {} });`},
		{`export interface A { x: number }`, `const A = {}; exportModule({ A });`},
		{`const u = import.meta.url;`, `const u = importMeta.url;`},
	})
}

func TestExportDefaultWithExporterName(t *testing.T) {
	got, info := lower(t, `export default "test";`, Options{Names: Names{Export: "exports"}})
	if got != `exports({ default: "test" });` {
		t.Fatalf("got %s", got)
	}
	if !info.IsModule || !info.IsAsync {
		t.Fatalf("info = %+v", info)
	}
}

func TestDynamicImportIsNotModule(t *testing.T) {
	got, info := lower(t, `const m = import("m");`, Options{})
	if got != `const m = importModule("m", importMeta);` {
		t.Fatalf("got %s", got)
	}
	if info.IsModule || info.IsAsync {
		t.Fatalf("info = %+v", info)
	}
}

func TestForceSyncImport(t *testing.T) {
	got, info := lower(t, `import d from "m";`, Options{ForceSync: true})
	if got != `const { default: d } = importModule("m", importMeta);` {
		t.Fatalf("got %s", got)
	}
	if !info.IsModule || info.IsAsync {
		t.Fatalf("info = %+v", info)
	}
}

func TestTypeErasure(t *testing.T) {
	runCases(t, Options{}, []lowerCase{
		{`class Test { private abc(): void {} }`, `class Test { abc() {} }`},
		{`interface ABC { x: number }`, `const ABC = {};`},
		{`type T = string;`, `const T = {};`},
		{`let x: number = 1;`, `let x = 1;`},
		{`function f<T>(a: T, b?: string): T { return a as T; }`, `function f(a, b) { return a; }`},
		{`const y = x!.z;`, `const y = x.z;`},
		{`const n = f<number>(1);`, `const n = f(1);`},
		{`abstract class A implements I { abstract f(): void; g() {} }`, `class A {  g() {} }`},
		{`class P { constructor(private x: number) {} }`, `class P { constructor(x) {this.x = x;} }`},
		{`class Q extends P { constructor(readonly y) { super(); } }`, `class Q extends P { constructor(y) { super(); this.y = y; } }`},
		{`class F { static n: number = 1; declare d: string; }`, `class F { static n = 1;  }`},
		{`function f(this: Window, a) {}`, `function f(a) {}`},
		{`declare const x: number;`, ``},
		{`function o(a: string): void;`, ``},
		{`let v!: number;`, `let v;`},
	})
}

func TestAsyncErasure(t *testing.T) {
	opts := Options{ForceSync: true}
	runCases(t, opts, []lowerCase{
		{`async function f() { await g(); }`, `function f() { g(); }`},
		{`const f = async () => await (await g());`, `const f = () => (g());`},
		{`for await (const x of xs) {}`, `for (const x of xs) {loopGuard();}`},
	})
	_, info := lower(t, `await g();`, opts)
	if info.IsAsync || !info.TopLevelAwait {
		t.Fatalf("info = %+v", info)
	}
}

func TestAsyncDetection(t *testing.T) {
	cases := []struct {
		src   string
		async bool
	}{
		{`async function f(){ await g(); }`, false},
		{`await g();`, true},
		{`if (x) { const y = await g(); }`, true},
		{`for await (const x of xs) {}`, true},
		{`const f = async () => await x;`, false},
		{`class A { async m() { await x; } }`, false},
		{`export const a = 1;`, true},
		{`g();`, false},
	}
	for _, tc := range cases {
		_, info := lower(t, tc.src, Options{})
		if info.IsAsync != tc.async {
			t.Errorf("%q: async = %v, want %v", tc.src, info.IsAsync, tc.async)
		}
	}
}
