package ui

import (
	"errors"
	"strings"
	"testing"

	"scriptkit/internal/buildpipeline"
)

func TestApplyEventTracksFinalStage(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("checking", []string{"a.js", "b.js"}, buildpipeline.StageTranspile, events).(*progressModel)

	m.applyEvent(buildpipeline.Event{File: "a.js", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusDone})
	if got := m.items[0].status; got != "parsing" {
		t.Fatalf("status after parse done = %q", got)
	}
	m.applyEvent(buildpipeline.Event{File: "a.js", Stage: buildpipeline.StageTranspile, Status: buildpipeline.StatusDone})
	if got := m.items[0].status; got != "done" {
		t.Fatalf("status after final stage = %q", got)
	}
	m.applyEvent(buildpipeline.Event{File: "b.js", Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusError})
	if got := m.items[1].status; got != "error" {
		t.Fatalf("status after error = %q", got)
	}
	// unknown files are ignored
	m.applyEvent(buildpipeline.Event{File: "c.js", Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusError})

	view := m.View()
	if !strings.Contains(view, "a.js") || !strings.Contains(view, "checking") {
		t.Fatalf("view missing content:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 6); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestHeaderCountsAndErrors(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("checking", []string{"a.js", "b.js", "c.js"}, buildpipeline.StageTranspile, events).(*progressModel)

	m.applyEvent(buildpipeline.Event{File: "a.js", Stage: buildpipeline.StageTranspile, Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{File: "b.js", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError, Err: errors.New("bad token\nmore")})

	if h := m.header(); !strings.Contains(h, "checking 2/3, 1 failed") {
		t.Fatalf("header = %q", h)
	}
	view := m.View()
	if !strings.Contains(view, "bad token") || strings.Contains(view, "more") {
		t.Fatalf("view should show the first error line only:\n%s", view)
	}
	if f := m.fraction(); f <= 2.0/3 || f >= 1 {
		t.Fatalf("fraction = %v", f)
	}
}

func TestProgressFromStageIsOrdered(t *testing.T) {
	prev := 0.0
	for _, st := range buildpipeline.Stages {
		p := progressFromStage(st)
		if p <= prev || p >= 1 {
			t.Fatalf("%s: %v after %v", st, p, prev)
		}
		prev = p
	}
}
