package observ

import (
	"strings"
	"testing"
)

func TestAbsorbedPhasesStayOutOfTotal(t *testing.T) {
	inner := Report{Phases: []PhaseReport{{Name: "parse", DurationMS: 1000}}}

	tm := NewTimer()
	idx := tm.Begin("transpile")
	tm.End(idx, "ok")
	tm.Absorb("transpile", inner)

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	if r.Phases[1].Name != "transpile/parse" {
		t.Fatalf("absorbed name = %q", r.Phases[1].Name)
	}
	if r.TotalMS >= 1000 {
		t.Fatalf("total %v includes absorbed phase", r.TotalMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "transpile/parse") || !strings.Contains(s, "// ok") {
		t.Fatalf("summary:\n%s", s)
	}
}

func TestEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("unexpected report %+v", r)
	}
}
