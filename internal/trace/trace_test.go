package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevelAndShouldEmit(t *testing.T) {
	l, err := ParseLevel("DETAIL")
	if err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel: %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if LevelPhase.ShouldEmit(ScopeModule) {
		t.Fatal("phase must not emit modules")
	}
	if !LevelDetail.ShouldEmit(ScopeModule) || LevelDetail.ShouldEmit(ScopeNode) {
		t.Fatal("detail emits modules only")
	}
	if LevelOff.ShouldEmit(ScopeDriver) {
		t.Fatal("off emits nothing")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("got %v %v", tr, err)
	}
	if s := Begin(tr, ScopeDriver, "x", 0); s.ID() != 0 || s.End("") != 0 {
		t.Fatal("disabled span must be inert")
	}
}

func TestStreamTextIndentsBySpan(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeStream, Output: &buf, Format: FormatText})
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithTracer(context.Background(), tr)
	root := Begin(tr, ScopeDriver, "run", 0)
	ctx = WithSpanContext(ctx, SpanContext{SpanID: root.ID()})
	mod := Begin(tr, ScopeModule, "module:lib.js", root.ID())
	mod.WithExtra("exports", "2").End("")
	Point(ctx, ScopeDriver, "budget", "10 iterations")
	Begin(tr, ScopeNode, "dropped", root.ID()).End("")
	root.End("ok")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("want 5 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[1], "  \u2192 module:lib.js") {
		t.Fatalf("module begin not indented: %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "  \u2190 module:lib.js {exports=2}") {
		t.Fatalf("module end: %q", lines[2])
	}
	if !strings.HasSuffix(lines[3], "  \u2022 budget (10 iterations)") {
		t.Fatalf("point: %q", lines[3])
	}
	if !strings.HasSuffix(lines[4], "] \u2190 run (ok)") {
		t.Fatalf("root end: %q", lines[4])
	}
}

func TestChromeOutputIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatChrome)
	s := Begin(tr, ScopeDriver, "check", 0)
	Begin(tr, ScopePass, "parse", s.ID()).End("")
	s.End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		TraceEvents []chromeEvent `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if len(doc.TraceEvents) != 4 {
		t.Fatalf("want 4 events, got %d", len(doc.TraceEvents))
	}
	if doc.TraceEvents[0].Ph != "B" || doc.TraceEvents[3].Ph != "E" || doc.TraceEvents[1].Cat != "pass" {
		t.Fatalf("unexpected events: %+v", doc.TraceEvents)
	}
}

func TestRingKeepsNewestAndDumps(t *testing.T) {
	r := NewRingTracer(2, LevelPhase)
	for _, name := range []string{"a", "b", "c"} {
		Begin(r, ScopeDriver, name, 0)
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot: %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Fatalf("want 2 ndjson lines, got %d", n)
	}
}

func TestErrorLevelForcesRing(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*RingTracer); !ok {
		t.Fatalf("want ring tracer, got %T", tr)
	}
	m := NewMultiTracer(LevelPhase, NewStreamTracer(&bytes.Buffer{}, LevelPhase, FormatText), NewRingTracer(4, LevelPhase))
	Begin(m, ScopeDriver, "x", 0)
	var buf bytes.Buffer
	if err := m.Dump(&buf, FormatText); err != nil || !strings.Contains(buf.String(), "x") {
		t.Fatalf("multi dump: %q %v", buf.String(), err)
	}
}

func TestFormatForPath(t *testing.T) {
	cases := map[string]Format{
		"out.ndjson":      FormatNDJSON,
		"out.chrome.json": FormatChrome,
		"-":               FormatText,
		"trace.log":       FormatText,
	}
	for path, want := range cases {
		if got := FormatForPath(path); got != want {
			t.Errorf("%s: got %d want %d", path, got, want)
		}
	}
}
