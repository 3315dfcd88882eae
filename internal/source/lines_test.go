package source

import "testing"

func TestLinesRoundTrip(t *testing.T) {
	text := "ab\ncde\n\nf"
	l := NewLines(text)
	if l.Count() != 4 {
		t.Fatalf("Count = %d, want 4", l.Count())
	}
	cases := []struct {
		off  int
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{6, LineCol{2, 4}},
		{7, LineCol{3, 1}},
		{8, LineCol{4, 1}},
		{9, LineCol{4, 2}},
	}
	for _, tc := range cases {
		got := l.LineCol(tc.off)
		if got != tc.want {
			t.Errorf("LineCol(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
		back, ok := l.Offset(got)
		if !ok || back != tc.off {
			t.Errorf("Offset(%+v) = %d,%v, want %d", got, back, ok, tc.off)
		}
	}
}

func TestLinesClamp(t *testing.T) {
	l := NewLines("abc\nd")
	if got := l.LineCol(100); got != (LineCol{2, 2}) {
		t.Fatalf("clamped LineCol = %+v", got)
	}
	if off, ok := l.Offset(LineCol{1, 50}); !ok || off != 3 {
		t.Fatalf("Offset past line end = %d,%v, want 3", off, ok)
	}
	if _, ok := l.Offset(LineCol{3, 1}); ok {
		t.Fatal("Offset on missing line reported ok")
	}
}

func TestNormalizeCRLF(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc"))
	if !changed || string(out) != "a\nb\rc" {
		t.Fatalf("normalizeCRLF = %q,%v", out, changed)
	}
	out, changed = removeBOM([]byte("\xEF\xBB\xBFx"))
	if !changed || string(out) != "x" {
		t.Fatalf("removeBOM = %q,%v", out, changed)
	}
}

func TestSpanCover(t *testing.T) {
	s := SpanOf(4, 6).Cover(SpanOf(1, 5))
	if s != (Span{Start: 1, End: 6}) {
		t.Fatalf("Cover = %v", s)
	}
	if !s.Contains(1) || s.Contains(6) {
		t.Fatalf("Contains mismatch for %v", s)
	}
}

func TestFileSetGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.ts", []byte("one\ntwo\n"))
	f := fs.Get(id)
	if f.GetLine(2) != "two" || f.GetLine(3) != "" || f.GetLine(4) != "" {
		t.Fatalf("GetLine mismatch: %q %q", f.GetLine(2), f.GetLine(3))
	}
	start, end := fs.Resolve(id, SpanOf(4, 7))
	if start != (LineCol{2, 1}) || end != (LineCol{2, 4}) {
		t.Fatalf("Resolve = %+v %+v", start, end)
	}
	if got, ok := fs.GetByPath("./x.ts"); !ok || got.ID != id {
		t.Fatal("GetByPath did not find normalized path")
	}
}
