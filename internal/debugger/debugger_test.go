package debugger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dop251/goja"

	"scriptkit/internal/compiler"
	"scriptkit/internal/interp"
)

const script = "let x = a + 1;\nif (x > 2) {\n  x = x * 2;\n}\nreturn x;"

func build(t *testing.T) (*compiler.Callable[any], *interp.Interp) {
	t.Helper()
	in := interp.New()
	c, err := compiler.Compile(context.Background(), script, compiler.Options[any]{
		Interpreter: in,
		Arguments:   []compiler.Argument{{"a"}},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return c, in
}

func session(t *testing.T, commands string) (Result, string) {
	t.Helper()
	c, in := build(t)
	var out bytes.Buffer
	d, err := New(c, in, []goja.Value{in.Runtime().ToValue(2)}, strings.NewReader(commands), &out, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d.Run(), out.String()
}

func TestBreakStepContinue(t *testing.T) {
	res, out := session(t, "break 3\ncontinue\nstep\nbreakpoints\ncontinue\n")
	if res.Err != nil || res.Quit {
		t.Fatalf("result = %+v", res)
	}
	if res.Value.ToInteger() != 6 {
		t.Fatalf("value = %v", res.Value)
	}
	for _, want := range []string{
		"breakpoint #1 at script:3:3",
		"stopped: breakpoint #1\nat script:3:3 (before)\n  3 |   x = x * 2;",
		"step: script:3:3 (after)",
		"  #1 script:3:3 [before]",
		"finished: 6",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "finished:"); n != 1 {
		t.Errorf("finished printed %d times:\n%s", n, out)
	}
}

func TestPossibleSkipsPreamble(t *testing.T) {
	_, out := session(t, "possible\n")
	want := "  1:1 [before,after]\n  2:1 [before,after]\n  3:3 [before,after]\n  5:1 [before]\n"
	if !strings.HasPrefix(out, want) {
		t.Fatalf("got:\n%s", out)
	}
}

func TestInputEndRunsToCompletion(t *testing.T) {
	res, out := session(t, "break 1\n")
	if res.Err != nil || res.Value.ToInteger() != 6 {
		t.Fatalf("result = %+v", res)
	}
	if !strings.Contains(out, "finished: 6") {
		t.Fatalf("got:\n%s", out)
	}
}

func TestQuitAborts(t *testing.T) {
	res, _ := session(t, "break 3\ncontinue\nquit\n")
	if !res.Quit {
		t.Fatalf("result = %+v", res)
	}
}

func TestBadCommands(t *testing.T) {
	_, out := session(t, "break\ndelete x\ndelete 9\nbreak 9\nfrobnicate\n")
	for _, want := range []string{
		"error: break expects",
		"error: invalid breakpoint id",
		"error: unknown breakpoint id",
		"error: interp: no pause point",
		"error: unknown command",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNativeCallableRejected(t *testing.T) {
	c, err := compiler.Compile(context.Background(), "return 1;", compiler.Options[any]{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(c, interp.New(), nil, nil, nil, false); err != compiler.ErrNotInterpreted {
		t.Fatalf("err = %v", err)
	}
}
