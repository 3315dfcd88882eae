package stack

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"scriptkit/internal/compiler"
	"scriptkit/internal/interp"
	"scriptkit/internal/source"
)

// offsetMapper shifts lines by a fixed preamble.
type offsetMapper struct {
	name, file string
	skip       uint32
}

func (m offsetMapper) DiagnosticName() string { return m.name }
func (m offsetMapper) FileName() string       { return m.file }

func (m offsetMapper) LocationToOriginal(lc source.LineCol) source.LineCol {
	if lc.Line <= m.skip {
		return source.LineCol{}
	}
	return source.LineCol{Line: lc.Line - m.skip, Col: lc.Col}
}

func TestRemapNativeFrame(t *testing.T) {
	raw := "Error: boom\n" +
		"\tat test (test:3:22(4))\n" +
		"\tat $$factory (test:1:1(0))\n" +
		"\tat hostCall (host.js:9:1(7))\n"
	tr := Remap(map[string]Mapper{"test": offsetMapper{"test", "test", 2}}, raw, Native)
	require.NotNil(t, tr)
	require.Equal(t, "Error: boom", tr.Message)
	require.Equal(t, []string{"at test (test:1:22)", HostFrame}, frameStrings(tr))
}

func TestRemapAttributesNestedFrames(t *testing.T) {
	raw := "TypeError: x\n" +
		"\tat helper (main:5:3(1))\n" +
		"\tat map (native)\n" +
		"\tat Module.main (main:4:10(2))\n" +
		"\tat lib (lib:8:1(0))\n" +
		"\tat other (lib:3:2(9))\n"
	tr := Remap(map[string]Mapper{
		"main": offsetMapper{"Main script", "main", 3},
		"lib":  offsetMapper{"lib", "lib", 1},
	}, raw, Native)
	require.Equal(t, []string{
		"at helper (main:2:3)",
		"at map (native)",
		"at Main script (main:1:10)",
		"at lib (lib:7:1)",
		HostFrame,
	}, frameStrings(tr))
}

func TestRemapDropsGoHostFrames(t *testing.T) {
	raw := "GoError: loop budget exhausted\n" +
		"\tat scriptkit/internal/buildpipeline.(*host).loopGuard-fm (native)\n" +
		"\tat main (main:4:5(3))\n"
	tr := Remap(map[string]Mapper{"main": offsetMapper{"main.js", "main", 1}}, raw, Native)
	require.Equal(t, []string{"at main.js (main:3:5)", HostFrame}, frameStrings(tr))
}

func TestRemapInterpretedFrame(t *testing.T) {
	raw := "Error: boom\n    in test at test:4:7\n    in <anonymous> at <native>"
	tr := Remap(map[string]Mapper{"test": offsetMapper{"test", "test", 2}}, raw, Interpreted)
	require.Equal(t, []string{"at test (test:2:7)", HostFrame}, frameStrings(tr))
}

func TestRemapNormalisesNames(t *testing.T) {
	// decomposed e + combining acute in the frame, composed in the map
	raw := "Error\n\tat cafe\u0301 (s:3:1(0))\n"
	tr := Remap(map[string]Mapper{"caf\u00e9": offsetMapper{"cafe", "s", 2}}, raw, Native)
	require.Equal(t, []string{"at cafe (s:1:1)", HostFrame}, frameStrings(tr))
}

func TestRemapWithoutMatch(t *testing.T) {
	raw := "Error\n\tat other (x:1:1(0))\n"
	require.Nil(t, Remap(map[string]Mapper{"test": offsetMapper{"test", "test", 2}}, raw, Native))
	require.Nil(t, ToOriginal(nil, nil))
}

func TestNativeEndToEnd(t *testing.T) {
	c, err := compiler.Compile(context.Background(), "let a = 1;\nthrow new Error('boom');", compiler.Options[any]{FunctionName: "test"})
	require.NoError(t, err)
	_, err = c.Call()
	require.Error(t, err)

	tr := ToOriginal(map[string]Mapper{"test": c}, err)
	require.NotNil(t, tr)
	lines := frameStrings(tr)
	require.True(t, strings.HasPrefix(lines[0], "at test (test:2:"), lines[0])
	require.Equal(t, 1, strings.Count(tr.String(), HostFrame))
	require.Equal(t, HostFrame, lines[len(lines)-1])
}

func TestInterpretedEndToEnd(t *testing.T) {
	c, err := compiler.Compile(context.Background(), "let a = 1;\nthrow new Error('boom');", compiler.Options[any]{
		FunctionName: "test",
		Interpreter:  interp.New(),
	})
	require.NoError(t, err)
	_, err = c.Call()
	require.Error(t, err)

	tr := ToOriginal(map[string]Mapper{"test": c}, err)
	require.NotNil(t, tr)
	lines := frameStrings(tr)
	require.True(t, strings.HasPrefix(lines[0], "at test (test:2:"), lines[0])
	require.Equal(t, HostFrame, lines[len(lines)-1])
}

func frameStrings(tr *Trace) []string {
	out := make([]string, len(tr.Frames))
	for i, f := range tr.Frames {
		out[i] = f.String()
	}
	return out
}
