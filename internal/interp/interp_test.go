package interp

import (
	"errors"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/require"
)

const doubler = `(function (a) {
  let x = a + 1;
  if (x > 2) {
    x = x * 2;
  }
  return x;
})`

func load(t *testing.T, in *Interp, src string) *Script {
	t.Helper()
	s, err := in.Load("test.js", src)
	require.NoError(t, err)
	return s
}

func TestPoints(t *testing.T) {
	s := load(t, New(), doubler)
	require.Equal(t, []Point{
		{ID: 0, Line: 2, Column: 3, States: BothStates},
		{ID: 1, Line: 3, Column: 3, States: BothStates},
		{ID: 2, Line: 6, Column: 3, States: Before},
		{ID: 3, Line: 4, Column: 5, States: BothStates},
	}, s.Points())
}

func TestRunIgnoresBreakpoints(t *testing.T) {
	in := New()
	s := load(t, in, doubler)
	_, err := in.SetBreakpoint(s, 0, 2, 3, Before)
	require.NoError(t, err)

	v, err := in.Call(s.Value(), nil, in.Runtime().ToValue(3))
	require.NoError(t, err)
	require.EqualValues(t, 8, v.ToInteger())
}

func TestBreakpointAndStep(t *testing.T) {
	in := New()
	s := load(t, in, doubler)
	bp, err := in.SetBreakpoint(s, 7, 3, 1, After)
	require.NoError(t, err)
	require.Equal(t, 7, bp.ID)
	require.Equal(t, 3, bp.Point.Column)

	x, err := in.Start(s.Value(), nil, in.Runtime().ToValue(3))
	require.NoError(t, err)

	p, err := x.Resume()
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, 3, p.Point.Line)
	require.Equal(t, After, p.State)
	require.Same(t, bp, p.Breakpoint)

	p, err = x.Step()
	require.NoError(t, err)
	require.Equal(t, 6, p.Point.Line)
	require.Equal(t, Before, p.State)
	require.Nil(t, p.Breakpoint)

	p, err = x.Resume()
	require.NoError(t, err)
	require.Nil(t, p)
	require.True(t, x.Done())
	v, err := x.Result()
	require.NoError(t, err)
	require.EqualValues(t, 8, v.ToInteger())

	_, err = x.Resume()
	require.ErrorIs(t, err, ErrDone)
}

func TestResolveRejectsMissingState(t *testing.T) {
	in := New()
	s := load(t, in, doubler)
	_, err := in.SetBreakpoint(s, 0, 6, 3, After)
	require.Error(t, err)
	_, err = in.SetBreakpoint(s, 0, 9, 1, Before)
	require.ErrorIs(t, err, ErrNoPoint)
}

func TestBusyWhileRunning(t *testing.T) {
	in := New()
	var inner error
	require.NoError(t, in.Runtime().Set("probe", func() {
		_, inner = in.SetBreakpoint(in.scripts[0], 0, 2, 3, Before)
	}))
	s := load(t, in, "(function () {\n  probe();\n  return 1;\n})")

	_, err := in.Call(s.Value(), nil)
	require.NoError(t, err)
	require.ErrorIs(t, inner, ErrBusy)
}

func TestLoadWhileRunning(t *testing.T) {
	in := New()
	var loadErr error
	require.NoError(t, in.Runtime().Set("require", func() goja.Value {
		s, err := in.Load("dep.js", "(function (v) {\n  return v + 40;\n})")
		if err != nil {
			loadErr = err
			return goja.Undefined()
		}
		v, err := in.Call(s.Value(), nil, in.Runtime().ToValue(2))
		if err != nil {
			loadErr = err
			return goja.Undefined()
		}
		return v
	}))
	s := load(t, in, "(function () {\n  return require();\n})")

	v, err := in.Call(s.Value(), nil)
	require.NoError(t, err)
	require.NoError(t, loadErr)
	require.EqualValues(t, 42, v.ToInteger())
	require.Len(t, in.scripts, 2)
}

func TestSecondExecutionWhilePaused(t *testing.T) {
	in := New()
	s := load(t, in, doubler)
	_, err := in.SetBreakpoint(s, 0, 2, 3, Before)
	require.NoError(t, err)

	x, err := in.Start(s.Value(), nil, in.Runtime().ToValue(1))
	require.NoError(t, err)
	_, err = x.Resume()
	require.NoError(t, err)

	y, err := in.Start(s.Value(), nil, in.Runtime().ToValue(1))
	require.NoError(t, err)
	_, err = y.Resume()
	require.ErrorIs(t, err, ErrBusy)

	require.NoError(t, x.Abort())
	_, err = x.Result()
	require.ErrorIs(t, err, ErrAborted)

	v, err := y.Run()
	require.NoError(t, err)
	require.EqualValues(t, 2, v.ToInteger())
}

func TestErrorFramesUseSourceCoordinates(t *testing.T) {
	in := New()
	s := load(t, in, "(function outer() {\n  let a = 1;\n  throw new Error(\"boom\");\n})")

	_, err := in.Call(s.Value(), nil)
	var ie *Error
	require.True(t, errors.As(err, &ie))
	require.Equal(t, "Error: boom", ie.Message)
	require.NotEmpty(t, ie.Frames)
	require.Equal(t, "outer", ie.Frames[0].Func)
	require.Equal(t, "test.js", ie.Frames[0].File)
	require.Equal(t, 3, ie.Frames[0].Line)
	require.Contains(t, ie.Stack(), "\n    in outer at test.js:3:")

	var ex *goja.Exception
	require.True(t, errors.As(err, &ex))
}

func TestEnqueuedWorkRunsBeforeCompletion(t *testing.T) {
	in := New()
	rt := in.Runtime()
	_, err := rt.RunString("var settle; var pending = new Promise(function (r) { settle = r; });")
	require.NoError(t, err)
	settle, ok := goja.AssertFunction(rt.Get("settle"))
	require.True(t, ok)
	s := load(t, in, "(async function () {\n  const v = await pending;\n  globalThis.seen = v;\n  return v;\n})")

	in.Enqueue(func() error {
		_, err := settle(goja.Undefined(), rt.ToValue(42))
		return err
	})
	v, err := in.Call(s.Value(), nil)
	require.NoError(t, err)
	promise, ok := v.Export().(*goja.Promise)
	require.True(t, ok)
	require.Equal(t, goja.PromiseStateFulfilled, promise.State())
	require.EqualValues(t, 42, rt.Get("seen").ToInteger())
}

func TestSyntaxError(t *testing.T) {
	_, err := New().Load("bad.js", "(function () {\n  let = ;\n})")
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	require.Equal(t, 2, se.Line)
}

func TestParseLineColSpec(t *testing.T) {
	line, col, err := ParseLineColSpec("12:4")
	require.NoError(t, err)
	require.Equal(t, 12, line)
	require.Equal(t, 4, col)

	line, col, err = ParseLineColSpec("3")
	require.NoError(t, err)
	require.Equal(t, 3, line)
	require.Equal(t, 0, col)

	_, _, err = ParseLineColSpec("x:1")
	require.Error(t, err)
}
