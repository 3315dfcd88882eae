package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFindsManifestUpwards(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[names]
loop_guard = "guard"

[run]
main = "src/main.js"
budget = 1000
backend = "interp"

[cache]
dir = ".cache"
`)
	sub := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Load(sub)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if m.Root != root {
		t.Fatalf("root = %q, want %q", m.Root, root)
	}
	cfg := m.Config
	if cfg.Names.LoopGuard != "guard" || cfg.Names.Import != "importModule" {
		t.Fatalf("names = %+v", cfg.Names)
	}
	if cfg.Macros != nil {
		t.Fatalf("macros should stay nil without [[macros]], got %v", cfg.Macros)
	}
	if cfg.Run.Budget != 1000 || cfg.Run.Backend != "interp" {
		t.Fatalf("run = %+v", cfg.Run)
	}
	if got := m.Resolve(cfg.Run.Main); got != filepath.Join(root, "src", "main.js") {
		t.Fatalf("main = %q", got)
	}
	if got := m.CacheDir(); got != filepath.Join(root, ".cache") {
		t.Fatalf("cache dir = %q", got)
	}
}

func TestLoadWithoutManifest(t *testing.T) {
	_, ok, err := Load(t.TempDir())
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestEmptyMacrosDisable(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "macros = []\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Macros == nil || len(cfg.Macros) != 0 {
		t.Fatalf("macros = %#v", cfg.Macros)
	}

	path = writeManifest(t, t.TempDir(), "[[macros]]\npattern = '^#!.*'\nreplacement = ''\n")
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Macros) != 1 || cfg.Macros[0].Pattern != "^#!.*" {
		t.Fatalf("macros = %#v", cfg.Macros)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]string{
		"unknown keys":     "[run]\nmian = 'x'\n",
		"missing pattern":  "[[macros]]\nreplacement = ''\n",
		"must not be":      "[run]\nbudget = -1\n",
		"native or interp": "[run]\nbackend = 'llvm'\n",
		"parse TOML":       "[run\n",
	}
	for want, body := range cases {
		path := writeManifest(t, t.TempDir(), body)
		_, err := LoadConfig(path)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("%q: err = %v", body, err)
		}
	}
}
