package compiler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dop251/goja"
	"github.com/dop251/goja/file"
	gojaparser "github.com/dop251/goja/parser"
	"github.com/stretchr/testify/require"

	"scriptkit/internal/interp"
	"scriptkit/internal/source"
	"scriptkit/internal/transpile"
)

type host struct {
	n      int
	before int
	after  int
	errs   []error
}

func compile[T any](t *testing.T, src string, opts Options[T]) *Callable[T] {
	t.Helper()
	c, err := Compile(context.Background(), src, opts)
	require.NoError(t, err)
	return c
}

func TestConstantsAndVariables(t *testing.T) {
	h := &host{n: 1}
	c := compile(t, "return base + n;", Options[*host]{
		Context:   h,
		Constants: map[string]any{"base": 10},
		Variables: map[string]func(*host) any{"n": func(h *host) any { return h.n }},
		Before:    func(h *host) { h.n++ },
	})

	v, err := c.Call()
	require.NoError(t, err)
	require.EqualValues(t, 12, v.ToInteger())

	// variables are read on every call
	v, err = c.Call()
	require.NoError(t, err)
	require.EqualValues(t, 13, v.ToInteger())
	require.Equal(t, "native", c.Backend())
}

func TestArgumentsAliasesAndDefaults(t *testing.T) {
	c := compile(t, "return e + ':' + event;", Options[any]{
		Arguments: []Argument{{"event", "e"}},
		Variables: map[string]func(any) any{
			DefaultMarker + "event": func(any) any { return "dflt" },
		},
	})

	v, err := c.Call()
	require.NoError(t, err)
	require.Equal(t, "dflt:dflt", v.String())

	v, err = c.Call("x")
	require.NoError(t, err)
	require.Equal(t, "x:x", v.String())
}

func TestInvalidNames(t *testing.T) {
	_, err := Compile(context.Background(), "1", Options[any]{Constants: map[string]any{"class": 1}})
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = Compile(context.Background(), "1", Options[any]{
		Constants: map[string]any{"a": 1},
		Arguments: []Argument{{"a"}},
	})
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = Compile(context.Background(), "1", Options[any]{FunctionName: "not valid"})
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestHooksAndOnError(t *testing.T) {
	h := &host{}
	opts := Options[*host]{
		Context: h,
		Before:  func(h *host) { h.before++ },
		After:   func(h *host) { h.after++ },
		OnError: func(err error, h *host, meta *Metadata) error {
			h.errs = append(h.errs, err)
			return nil
		},
	}
	c := compile(t, "throw new Error('bad');", opts)

	v, err := c.Call()
	require.NoError(t, err)
	require.True(t, goja.IsUndefined(v))
	require.Equal(t, 1, h.before)
	require.Equal(t, 1, h.after)
	require.Len(t, h.errs, 1)
	var ex *goja.Exception
	require.ErrorAs(t, h.errs[0], &ex)

	opts.OnError = func(err error, _ *host, meta *Metadata) error {
		return fmt.Errorf("%s: %w", meta.DiagnosticName, err)
	}
	c = compile(t, "throw new Error('bad');", opts)
	_, err = c.Call()
	require.Error(t, err)
	require.ErrorAs(t, err, &ex)
	require.Contains(t, err.Error(), "script: ")
	require.Equal(t, 2, h.after)
}

func TestErrorsPassThroughWithoutOnError(t *testing.T) {
	c := compile(t, "throw new Error('bad');", Options[any]{})
	_, err := c.Call()
	var ex *goja.Exception
	require.ErrorAs(t, err, &ex)
}

func TestInvokeWrapsCall(t *testing.T) {
	var calls int
	rt := goja.New()
	c := compile(t, "return 2;", Options[any]{
		Runtime: rt,
		Invoke: func(call func() (goja.Value, error), _ any) (goja.Value, error) {
			calls++
			v, err := call()
			if err != nil {
				return nil, err
			}
			return rt.ToValue(v.ToInteger() * 10), nil
		},
	})
	v, err := c.Call()
	require.NoError(t, err)
	require.EqualValues(t, 20, v.ToInteger())
	require.Equal(t, 1, calls)
}

func TestAsyncSettlesBeforeAfter(t *testing.T) {
	h := &host{}
	c := compile(t, "await null;\nreturn 5;", Options[*host]{
		Context: h,
		After:   func(h *host) { h.after++ },
	})
	require.True(t, c.Metadata().IsAsync)

	v, err := c.Call()
	require.NoError(t, err)
	p, ok := v.Export().(*goja.Promise)
	require.True(t, ok)
	require.Equal(t, goja.PromiseStateFulfilled, p.State())
	require.EqualValues(t, 5, p.Result().ToInteger())
	require.Equal(t, 1, h.after)
}

func TestAsyncRejectionGoesThroughOnError(t *testing.T) {
	h := &host{}
	c := compile(t, "await null;\nthrow new Error('late');", Options[*host]{
		Context: h,
		After:   func(h *host) { h.after++ },
		OnError: func(err error, h *host, _ *Metadata) error {
			h.errs = append(h.errs, err)
			return err
		},
	})

	v, err := c.Call()
	require.NoError(t, err)
	p := v.Export().(*goja.Promise)
	require.Equal(t, goja.PromiseStateRejected, p.State())
	require.Len(t, h.errs, 1)
	var rej *Rejection
	require.ErrorAs(t, h.errs[0], &rej)
	require.Contains(t, rej.Error(), "late")
	require.Contains(t, rej.Stack(), "late")
	require.Equal(t, 1, h.after)
}

func TestForceSyncDropsAwait(t *testing.T) {
	c := compile(t, "await null;\nreturn 5;", Options[any]{ForceSync: true})
	require.False(t, c.Metadata().IsAsync)
	v, err := c.Call()
	require.NoError(t, err)
	require.EqualValues(t, 5, v.ToInteger())
}

func TestProgramCompiledOnce(t *testing.T) {
	src := "return 'program-cache-probe';"
	before := programs.compiles.Load()
	compile(t, src, Options[any]{})
	compile(t, src, Options[any]{Runtime: goja.New()})
	require.Equal(t, before+1, programs.compiles.Load())
}

func TestGlobalOverride(t *testing.T) {
	rt := goja.New()
	g := rt.NewObject()
	require.NoError(t, g.Set("base", 99))
	require.NoError(t, g.Set("extra", 5))

	c := compile(t, "return base + extra;", Options[any]{
		Runtime:   rt,
		Global:    g,
		Constants: map[string]any{"base": 10},
	})
	v, err := c.Call()
	require.NoError(t, err)
	require.EqualValues(t, 15, v.ToInteger())
	require.Equal(t, 1, c.Metadata().BackendLineOffset)
}

func TestGlobalOverrideNeverShadowsVariables(t *testing.T) {
	rt := goja.New()
	g := rt.NewObject()
	require.NoError(t, g.Set("base", 99))
	require.NoError(t, g.Set("step", 99))
	require.NoError(t, g.Set("free", 1))

	c := compile(t, "return base + step + free;", Options[any]{
		Runtime:   rt,
		Global:    g,
		Constants: map[string]any{"base": 10},
		Variables: map[string]func(any) any{"step": func(any) any { return 7 }},
	})
	v, err := c.Call()
	require.NoError(t, err)
	require.EqualValues(t, 18, v.ToInteger())
}

func TestLocationRoundTrip(t *testing.T) {
	c := compile(t, "let x = 1;\nreturn x;", Options[any]{
		Constants: map[string]any{"k": 1},
		Variables: map[string]func(any) any{"v": func(any) any { return 2 }},
	})
	m := c.Metadata()
	require.Equal(t, 4, m.ScriptLineOffset)

	require.Equal(t, source.LineCol{}, m.LocationToOriginal(source.LineCol{Line: 2, Col: 1}))
	require.Equal(t, source.LineCol{Line: 1, Col: 5}, m.LocationToOriginal(source.LineCol{Line: 5, Col: 5}))

	at := m.LocationToCompiled(source.LineCol{Line: 2, Col: 8})
	require.Equal(t, source.LineCol{Line: 6, Col: 8}, at)
	require.Equal(t, source.LineCol{Line: 2, Col: 8}, m.LocationToOriginal(at))
}

func TestSyntaxErrorFromTranspile(t *testing.T) {
	_, err := Compile(context.Background(), "let x = ;", Options[any]{FunctionName: "test"})
	var se *transpile.SyntaxError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "test", se.File)
	require.Equal(t, 1, se.Line)
}

func TestEngineSyntaxErrorIsRemapped(t *testing.T) {
	res, err := transpile.Transpile(context.Background(), "a;\nb;", transpile.Options{})
	require.NoError(t, err)
	m := &Metadata{FileName: "f", ScriptLineOffset: 2, transpiled: res}

	err = m.engineSyntaxError(gojaparser.ErrorList{{Position: file.Position{Line: 4, Column: 2}, Message: "bad"}})
	var se *transpile.SyntaxError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 2, se.Line)
	require.Equal(t, 2, se.Column)
	require.Equal(t, "bad", se.Message)

	err = m.engineSyntaxError(gojaparser.ErrorList{{Position: file.Position{Line: 1, Column: 9}, Message: "pre"}})
	require.ErrorAs(t, err, &se)
	require.Zero(t, se.Line)
	require.Zero(t, se.Column)

	plain := errors.New("other")
	require.ErrorIs(t, m.engineSyntaxError(plain), plain)
}

func TestInterpretedBackend(t *testing.T) {
	in := interp.New()
	c := compile(t, "let x = a + 1;\nreturn x * 2;", Options[any]{
		Interpreter: in,
		Arguments:   []Argument{{"a"}},
	})
	require.Equal(t, "interp", c.Backend())
	require.NotNil(t, c.Metadata().Handle)

	v, err := c.Call(2)
	require.NoError(t, err)
	require.EqualValues(t, 6, v.ToInteger())

	points, err := c.ListPossibleBreakpoints()
	require.NoError(t, err)
	require.Equal(t, []PossibleBreakpoint{
		{Line: 1, Column: 1, States: interp.BothStates},
		{Line: 2, Column: 1, States: interp.Before},
	}, points)

	bp, err := c.SetBreakpoint(0, 2, 1, interp.Before)
	require.NoError(t, err)
	require.Equal(t, 4, bp.Point.Line)

	s, ok := c.Steppable()
	require.True(t, ok)
	x, err := s.Start(in.Runtime().ToValue(2))
	require.NoError(t, err)
	p, err := x.Resume()
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Same(t, bp, p.Breakpoint)

	v, err = x.Run()
	require.NoError(t, err)
	require.EqualValues(t, 6, v.ToInteger())
}

func TestBreakpointUsageErrors(t *testing.T) {
	c := compile(t, "return 1;", Options[any]{})
	_, err := c.SetBreakpoint(0, 1, 1, interp.Before)
	require.ErrorIs(t, err, ErrNotInterpreted)
	_, err = c.ListPossibleBreakpoints()
	require.ErrorIs(t, err, ErrNotInterpreted)

	var none *Callable[any]
	_, err = none.SetBreakpoint(0, 1, 1, interp.Before)
	require.ErrorIs(t, err, ErrNoInterpreter)
}
