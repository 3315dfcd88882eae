package transpile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"scriptkit/internal/diag"
	"scriptkit/internal/source"
)

func mustTranspile(t *testing.T, raw string, opts Options) *Result {
	t.Helper()
	r, err := Transpile(context.Background(), raw, opts)
	if err != nil {
		t.Fatalf("transpile %q: %v", raw, err)
	}
	return r
}

func TestTranspileOutputs(t *testing.T) {
	cases := []struct {
		raw  string
		opts Options
		want string
	}{
		{`<div val="123">Hello</div>`, Options{}, "h(\"div\",{ \"val\":\"123\"},`Hello`,)"},
		{`export default "test";`, Options{Names: Names{Export: "exports"}}, `exports({ default: "test" });`},
		{`class Test { private abc(): void {} }`, Options{}, `class Test { abc() {} }`},
		{`interface ABC { x: number }`, Options{}, `const ABC = {};`},
		{`=1 + 2`, Options{}, `1 + 2`},
	}
	for _, tc := range cases {
		if got := mustTranspile(t, tc.raw, tc.opts).Code; got != tc.want {
			t.Errorf("%q\ngot  %s\nwant %s", tc.raw, got, tc.want)
		}
	}
}

func TestMacrosDisabled(t *testing.T) {
	// without the default macro the sentinel is not valid syntax
	if _, err := Transpile(context.Background(), "=1 + 2", Options{Macros: []Macro{}}); err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestSyntaxErrorUsesRawCoordinates(t *testing.T) {
	_, err := Transpile(context.Background(), "=x\n  )", Options{FileName: "test"})
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v", err)
	}
	if se.Line != 2 || se.Column != 3 {
		t.Fatalf("position = %d:%d", se.Line, se.Column)
	}
	if se.Code != diag.SynExpectExpression || se.File != "test" {
		t.Fatalf("error = %+v", se)
	}
}

func TestLocationMapping(t *testing.T) {
	r := mustTranspile(t, "let x: number = 1;\nfoo(x);", Options{})
	if r.Code != "let x = 1;\nfoo(x);" {
		t.Fatalf("code = %q", r.Code)
	}
	if got := r.LocToOriginal(source.LineCol{Line: 1, Col: 7}); got != (source.LineCol{Line: 1, Col: 15}) {
		t.Fatalf("LocToOriginal = %+v", got)
	}
	if got := r.LocToCompiled(source.LineCol{Line: 1, Col: 15}); got != (source.LineCol{Line: 1, Col: 7}) {
		t.Fatalf("LocToCompiled = %+v", got)
	}
	if got := r.LocToOriginal(source.LineCol{Line: 2, Col: 5}); got != (source.LineCol{Line: 2, Col: 5}) {
		t.Fatalf("second line = %+v", got)
	}

	r = mustTranspile(t, "=let x: number = 1;", Options{})
	if got := r.LocToOriginal(source.LineCol{Line: 1, Col: 7}); got != (source.LineCol{Line: 1, Col: 16}) {
		t.Fatalf("after macro = %+v", got)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	c, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	raw := "let x: number = 1;\nfor (;;) x++;"
	first, err := c.Transpile(context.Background(), raw, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got, ok, err := c.Get(Key(raw, Options{}))
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Code != first.Code || got.Original != first.Original || got.IsAsync != first.IsAsync {
		t.Fatalf("cached %+v, want %+v", got, first)
	}
	for off := 0; off <= len(first.Code); off++ {
		if a, b := first.ToOriginal(off), got.ToOriginal(off); a != b {
			t.Fatalf("ToOriginal(%d): %d vs %d", off, a, b)
		}
	}
	if Key(raw, Options{}) == Key(raw, Options{ForceSync: true}) {
		t.Fatal("options must change the key")
	}
	if _, ok, _ := c.Get(Key("other", Options{})); ok {
		t.Fatal("unexpected hit")
	}
}

func TestDiskCacheStoreFailureKeepsResult(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := OpenDiskCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	// каталог подменён файлом: запись в кэш невозможна даже под root
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	r, err := c.Transpile(context.Background(), "return 1;", Options{})
	if err != nil {
		t.Fatalf("transpile through broken cache: %v", err)
	}
	if r == nil || r.Raw != "return 1;" {
		t.Fatalf("unexpected result %+v", r)
	}
}
