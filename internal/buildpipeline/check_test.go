package buildpipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"scriptkit/internal/transpile"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) last(file string) Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out Event
	for _, ev := range r.events {
		if ev.File == file {
			out = ev
		}
	}
	return out
}

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestCheckReportsPerFile(t *testing.T) {
	dir := t.TempDir()
	good := writeScript(t, dir, "good.js", "let x = 1;\nreturn x;")
	macro := writeScript(t, dir, "expr.js", "=1 + 2")
	bad := writeScript(t, dir, "bad.js", "let a = 1;\nlet b = ;")
	missing := filepath.Join(dir, "missing.js")

	rec := &recorder{}
	res, err := Check(context.Background(), CheckRequest{
		Files:    []string{good, macro, bad, missing},
		Jobs:     2,
		BaseDir:  dir,
		Progress: rec,
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 4)
	require.True(t, res.Failed())

	require.False(t, res.Files[0].Failed())
	require.False(t, res.Files[1].Failed())
	require.Equal(t, Event{File: good, Stage: StageTranspile, Status: StatusDone, Elapsed: rec.last(good).Elapsed}, rec.last(good))

	r := res.Files[2]
	require.True(t, r.Bag.HasErrors())
	d, ok := r.Bag.FirstError()
	require.True(t, ok)
	start, _ := res.FileSet.Resolve(r.File, d.Primary)
	require.EqualValues(t, 2, start.Line)
	require.Equal(t, StatusError, rec.last(bad).Status)
	require.Equal(t, StageParse, rec.last(bad).Stage)

	require.Error(t, res.Files[3].Err)
	require.Equal(t, StageLoad, rec.last(missing).Stage)
}

func TestCheckMapsMacroSpans(t *testing.T) {
	bag, err := parseRaw("=1 +", nil, 0)
	require.NoError(t, err)
	require.True(t, bag.HasErrors())
	d, _ := bag.FirstError()
	// one byte was stripped by the default macro
	require.GreaterOrEqual(t, d.Primary.Lo(), 3)
}

func TestCheckAsyncFlags(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "a.js", "await null;\nreturn 1;")
	res, err := Check(context.Background(), CheckRequest{Files: []string{path}})
	require.NoError(t, err)
	require.True(t, res.Files[0].IsAsync)

	res, err = Check(context.Background(), CheckRequest{
		Files:     []string{path},
		Transpile: transpile.Options{ForceSync: true},
	})
	require.NoError(t, err)
	require.False(t, res.Files[0].IsAsync)
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("")
	require.NoError(t, err)
	require.Equal(t, BackendNative, b)
	b, err = ParseBackend("Interp")
	require.NoError(t, err)
	require.Equal(t, BackendInterp, b)
	_, err = ParseBackend("llvm")
	require.Error(t, err)
}

func TestDisplayFiles(t *testing.T) {
	dir := t.TempDir()
	got := DisplayFiles([]string{
		filepath.Join(dir, "b.js"),
		filepath.Join(dir, "sub", "a.js"),
		filepath.Join(dir, "b.js"),
	}, dir)
	require.Equal(t, []string{"b.js", "sub/a.js"}, got)
}
