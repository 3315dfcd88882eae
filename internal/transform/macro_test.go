package transform

import "testing"

func TestDefaultMacroStripsSentinel(t *testing.T) {
	x, err := ExpandMacros("=1+2", DefaultMacros())
	if err != nil {
		t.Fatal(err)
	}
	if x.Text != "1+2" {
		t.Fatalf("text = %q", x.Text)
	}
	if got := x.ToRaw(0); got != 1 {
		t.Fatalf("ToRaw(0) = %d", got)
	}
	if got := x.FromRaw(3); got != 2 {
		t.Fatalf("FromRaw(3) = %d", got)
	}
	if got := x.FromRaw(0); got != 0 {
		t.Fatalf("FromRaw(0) = %d", got)
	}
}

func TestMacroOnlyAtLeadingEdge(t *testing.T) {
	x, err := ExpandMacros("a=b", DefaultMacros())
	if err != nil {
		t.Fatal(err)
	}
	if x.Text != "a=b" || len(x.Shifts) != 0 {
		t.Fatalf("expansion = %+v", x)
	}
	x, err = ExpandMacros("ab", []Macro{{Pattern: "b", Replacement: "x"}})
	if err != nil {
		t.Fatal(err)
	}
	if x.Text != "ab" {
		t.Fatalf("text = %q", x.Text)
	}
}

func TestMacroGroupsAndChaining(t *testing.T) {
	macros := []Macro{
		{Pattern: `^#!(\w+)`, Replacement: "/*$1*/"},
		{Pattern: `^/\*`, Replacement: "//"},
	}
	x, err := ExpandMacros("#!sh\nx", macros)
	if err != nil {
		t.Fatal(err)
	}
	if x.Text != "//sh*/\nx" {
		t.Fatalf("text = %q", x.Text)
	}
	// "\n" is at 6 in the expanded text and at 4 in the raw one.
	if got := x.ToRaw(6); got != 4 {
		t.Fatalf("ToRaw(6) = %d", got)
	}
	if got := x.FromRaw(4); got != 6 {
		t.Fatalf("FromRaw(4) = %d", got)
	}
	if got := x.ToRaw(2); got != 0 {
		t.Fatalf("ToRaw(2) = %d", got)
	}
}

func TestMacroBadPattern(t *testing.T) {
	if _, err := ExpandMacros("x", []Macro{{Pattern: "("}}); err == nil {
		t.Fatal("expected error")
	}
}
