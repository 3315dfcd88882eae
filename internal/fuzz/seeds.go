package fuzztests

import "testing"

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

var scriptSeeds = []string{
	"",
	"return 1;",
	"let x = a + 1;\nreturn x * 2;",
	"= a + b",
	"const el = <div id=\"x\" {...rest}>hi {name}<br/></div>;\nreturn el;",
	"return <><b>one</b>{list.map(i => <i key={i}>{i}</i>)}</>;",
	"import def, { a as b } from './lib';\nimport * as ns from './ns';\nexport const y = b + 1;",
	"export { a, b as c } from './m';\nexport * from './all';\nexport default function () {}",
	"await fetch(url);\nfor await (const chunk of stream) { total += chunk.length; }",
	"async function f() { return await g(); }\nreturn f();",
	"while (true) { if (n-- < 0) break; }\ndo { i++ } while (i < 3);",
	"for (let i = 0; i < 10; i++) { continue; }\nfor (const k in obj) {}",
	"label: for (;;) { break label; }",
	"const t = `a ${b + `c ${d}`} e`;",
	"const r = /ab+c/gi.test(s) ? x : y;",
	"class A extends B { #p = 1; static m() { return super.m?.(); } }",
	"const { a, b: [c, ...d] = [] } = obj ?? {};",
	"x ||= 1; y &&= 2; z ??= 3; w **= 2;",
	"try { throw new Error('x'); } catch { } finally { }",
	"switch (v) { case 1: return 'one'; default: return null; }",
	"let s = 'unterminated",
	"return (a, b) => { return a < b };",
	"const frag = <a.b:c x='1'>{/* comment */}</a.b:c>;",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range scriptSeeds {
		f.Add(clampSeed([]byte(s)))
	}
}

func clampSeed(data []byte) []byte {
	if len(data) > maxSeedBytes {
		data = data[:maxSeedBytes]
	}
	return append([]byte(nil), data...)
}

func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}
