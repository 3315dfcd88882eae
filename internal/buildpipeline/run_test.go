package buildpipeline

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/require"

	"scriptkit/internal/debugger"
)

func run(t *testing.T, req RunRequest) *RunResult {
	t.Helper()
	if req.Path == "" {
		req.Path = filepath.Join(t.TempDir(), "main.js")
	}
	res, err := Run(context.Background(), req)
	require.NoError(t, err)
	return res
}

func TestRunReturnsValue(t *testing.T) {
	res := run(t, RunRequest{Source: "let x = 1;\nreturn x + 2;"})
	require.NoError(t, res.Err)
	require.EqualValues(t, 3, res.Value.ToInteger())
	require.True(t, res.Timings.Has(StageRun))
}

func TestRunArgumentsAndConsole(t *testing.T) {
	var out bytes.Buffer
	res := run(t, RunRequest{
		Source: "console.log('hello', 2);\nreturn typeof importMeta.url;",
		Stdout: &out,
	})
	require.NoError(t, res.Err)
	require.Equal(t, "hello 2\n", out.String())
	require.Equal(t, "string", res.Value.String())
}

func TestRunLoopBudget(t *testing.T) {
	res := run(t, RunRequest{Source: "let n = 0;\nwhile (true) { n++; }", Budget: 10})
	require.ErrorIs(t, res.Err, ErrBudget)
	require.Equal(t, 11, res.Iterations)

	res = run(t, RunRequest{Source: "let n = 0;\nfor (let i = 0; i < 50; i++) { n++; }\nreturn n;"})
	require.NoError(t, res.Err)
	require.EqualValues(t, 50, res.Value.ToInteger())
	require.Equal(t, 50, res.Iterations)
}

func TestRunMarkupFactory(t *testing.T) {
	res := run(t, RunRequest{Source: "const el = <b id=\"x\">hi</b>;\nreturn el.type + ':' + el.props.id + ':' + el.children.length;"})
	require.NoError(t, res.Err)
	require.Equal(t, "b:x:1", res.Value.String())
}

func TestRunImportsModules(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "lib.js", "export const x = 2;\nexport function triple(v) { return v * 3; }")
	main := writeScript(t, dir, "main.js", "import { x, triple } from './lib';\nexport const y = triple(x) + 1;")

	res := run(t, RunRequest{Path: main})
	require.NoError(t, res.Err)
	require.True(t, res.IsModule)
	obj, ok := res.Value.(*goja.Object)
	require.True(t, ok)
	require.EqualValues(t, 7, obj.Get("y").ToInteger())
}

func TestRunImportsOnInterpretedBackend(t *testing.T) {
	for _, forceSync := range []bool{false, true} {
		dir := t.TempDir()
		writeScript(t, dir, "lib.js", "export const x = 2;")
		main := writeScript(t, dir, "main.js", "import { x } from './lib';\nexport const y = x + 1;")

		res := run(t, RunRequest{Path: main, Backend: BackendInterp, ForceSync: forceSync})
		require.NoError(t, res.Err, "forceSync=%v", forceSync)
		obj, ok := res.Value.(*goja.Object)
		require.True(t, ok)
		require.EqualValues(t, 3, obj.Get("y").ToInteger())
	}
}

func TestRunReexports(t *testing.T) {
	cases := []struct {
		name, mid, want string
	}{
		{"all", "export * from './m';", "a,b,secret"},
		{"list", "export { a, b as c } from './m';", "a,c"},
		{"namespace", "export * as ns from './m';", "ns"},
	}
	for _, backend := range []Backend{BackendNative, BackendInterp} {
		for _, forceSync := range []bool{false, true} {
			for _, tc := range cases {
				dir := t.TempDir()
				writeScript(t, dir, "m.js", "export const a = 1, b = 2, secret = 3;\nexport default 4;")
				writeScript(t, dir, "mid.js", tc.mid)
				main := writeScript(t, dir, "main.js", "import * as mid from './mid';\n"+
					"export const keys = Object.keys(mid).sort().join(',');\n"+
					"export const sum = (mid.a ?? 0) + (mid.c ?? 0) + (mid.ns ? mid.ns.b : 0);")

				res := run(t, RunRequest{Path: main, Backend: backend, ForceSync: forceSync})
				require.NoError(t, res.Err, "%s backend=%v forceSync=%v", tc.name, backend, forceSync)
				obj, ok := res.Value.(*goja.Object)
				require.True(t, ok)
				require.Equal(t, tc.want, obj.Get("keys").String(), "%s backend=%v forceSync=%v", tc.name, backend, forceSync)

				want := map[string]int64{"all": 1, "list": 3, "namespace": 2}[tc.name]
				require.Equal(t, want, obj.Get("sum").ToInteger(), tc.name)
			}
		}
	}
}

func TestRunBudgetTraceHidesHostSymbols(t *testing.T) {
	for _, backend := range []Backend{BackendNative, BackendInterp} {
		dir := t.TempDir()
		path := filepath.Join(dir, "main.js")
		res := run(t, RunRequest{Path: path, Source: "let n = 0;\nwhile (true) { n++; }", Budget: 5, Backend: backend})
		require.ErrorIs(t, res.Err, ErrBudget)
		require.NotNil(t, res.Trace)
		require.NotEmpty(t, res.Trace.Frames)
		require.NotContains(t, res.Trace.String(), "buildpipeline", "backend=%v", backend)
	}
}

func TestRunBareImportFails(t *testing.T) {
	res := run(t, RunRequest{Source: "return importModule('lodash', importMeta);"})
	require.ErrorIs(t, res.Err, ErrBareSpecifier)
}

func TestRunTraceIsRemapped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.js")
	res := run(t, RunRequest{Path: path, Source: "let a = 1;\nthrow new Error('boom');"})
	require.Error(t, res.Err)
	require.NotNil(t, res.Trace)
	require.Contains(t, res.Trace.Message, "boom")
	require.NotEmpty(t, res.Trace.Frames)
	top := res.Trace.Frames[0]
	require.Equal(t, "main.js", top.Func)
	require.Equal(t, 2, top.Line)
	require.True(t, res.Trace.Frames[len(res.Trace.Frames)-1].Host)
}

func TestRunInterpretedBackend(t *testing.T) {
	res := run(t, RunRequest{Source: "let x = 4;\nreturn x * 2;", Backend: BackendInterp})
	require.NoError(t, res.Err)
	require.EqualValues(t, 8, res.Value.ToInteger())
}

func TestRunSyntaxErrorIsReturned(t *testing.T) {
	_, err := Run(context.Background(), RunRequest{Path: filepath.Join(t.TempDir(), "x.js"), Source: "let x = ;"})
	require.Error(t, err)
}

func TestSessionUnderDebugger(t *testing.T) {
	s, err := Prepare(context.Background(), RunRequest{
		Path:    filepath.Join(t.TempDir(), "main.js"),
		Source:  "let x = 4;\nx = x + 1;\nreturn x * 2;",
		Backend: BackendInterp,
	})
	require.NoError(t, err)
	require.NotNil(t, s.Interp())

	var out bytes.Buffer
	d, err := debugger.New(s.Target(), s.Interp(), nil, strings.NewReader("break 2\ncontinue\n"), &out, false)
	require.NoError(t, err)
	r := d.Run()
	require.NoError(t, r.Err)
	require.Contains(t, out.String(), "stopped: breakpoint #1")

	res := s.Finish(r.Value, r.Err, 0)
	require.NoError(t, res.Err)
	require.EqualValues(t, 10, res.Value.ToInteger())
}
