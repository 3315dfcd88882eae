package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dop251/goja"
	"github.com/spf13/cobra"

	"scriptkit/internal/buildpipeline"
)

func touch(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestCollectScriptsWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.js"), "1")
	touch(t, filepath.Join(dir, "sub", "b.ts"), "1")
	touch(t, filepath.Join(dir, ".hidden", "c.js"), "1")
	touch(t, filepath.Join(dir, "node_modules", "d.js"), "1")
	touch(t, filepath.Join(dir, "readme.md"), "1")

	got, err := collectScripts([]string{dir}, &settings{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.js"), filepath.Join(dir, "sub", "b.ts")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPrintResult(t *testing.T) {
	rt := goja.New()
	cases := []struct {
		v      goja.Value
		format string
		want   string
	}{
		{rt.ToValue(3), "pretty", "3\n"},
		{goja.Undefined(), "pretty", ""},
		{rt.ToValue(map[string]any{"a": 1}), "pretty", "{\n  \"a\": 1\n}\n"},
		{rt.ToValue("x"), "json", "\"x\"\n"},
		{rt.ToValue(3), "none", ""},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		if err := printResult(&buf, tc.v, tc.format); err != nil {
			t.Fatal(err)
		}
		if buf.String() != tc.want {
			t.Errorf("%s %v: got %q, want %q", tc.format, tc.v, buf.String(), tc.want)
		}
	}
	if err := printResult(&bytes.Buffer{}, rt.ToValue(1), "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func newTestCommand(t *testing.T, config string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "scriptkit"}
	root.PersistentFlags().String("config", config, "")
	root.PersistentFlags().Bool("no-cache", false, "")
	root.PersistentFlags().Int("max-diagnostics", 100, "")
	child := &cobra.Command{Use: "run"}
	registerRunFlags(child)
	root.AddCommand(child)
	child.SetContext(context.Background())
	return child
}

func TestLoadSettingsFlagsOverrideManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "scriptkit.toml")
	touch(t, manifest, "[run]\nmain = 'main.js'\nbudget = 10\nbackend = 'interp'\n\n[names]\nloop_guard = 'tick'\n")

	cmd := newTestCommand(t, manifest)
	if err := cmd.Flags().Set("budget", "99"); err != nil {
		t.Fatal(err)
	}
	s, err := loadSettings(cmd, dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.budget != 99 {
		t.Errorf("budget = %d, want 99", s.budget)
	}
	if s.backend != buildpipeline.BackendInterp {
		t.Errorf("backend = %q", s.backend)
	}
	if s.names.LoopGuard != "tick" {
		t.Errorf("loop guard = %q", s.names.LoopGuard)
	}
	if s.maxDiag != 100 {
		t.Errorf("max diagnostics = %d", s.maxDiag)
	}
	path, err := s.scriptPath(nil)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "main.js") {
		t.Errorf("script path = %q", path)
	}
}

func TestScriptPathWithoutManifest(t *testing.T) {
	s := &settings{}
	if _, err := s.scriptPath(nil); err == nil {
		t.Fatal("expected error without args or manifest")
	}
	if p, _ := s.scriptPath([]string{"x.js"}); p != "x.js" {
		t.Fatalf("path = %q", p)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Fatal("expected error")
	}
	if !shouldUseTUI(uiModeOn, 1) || shouldUseTUI(uiModeOff, 5) {
		t.Fatal("explicit modes must win")
	}
}
