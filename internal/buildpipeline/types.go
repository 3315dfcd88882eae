package buildpipeline

import (
	"fmt"
	"strings"
	"time"
)

// Stage is one step a script goes through. Check stops after
// StageTranspile; run continues to StageRun.
type Stage string

const (
	StageLoad      Stage = "load"      // read from disk
	StageParse     Stage = "parse"     // syntax diagnostics
	StageTranspile Stage = "transpile" // lower and build the callable
	StageRun       Stage = "run"
)

// Stages lists every stage in pipeline order.
var Stages = [...]Stage{StageLoad, StageParse, StageTranspile, StageRun}

func (s Stage) index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Status is a file's state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the overall pipeline when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Backend selects the construction backend.
type Backend string

const (
	// BackendNative runs scripts directly in a goja realm.
	BackendNative Backend = "native"
	// BackendInterp runs scripts on the step-debuggable interpreter.
	BackendInterp Backend = "interp"
)

// ParseBackend accepts "native" or "interp"; empty means native.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native":
		return BackendNative, nil
	case "interp", "interpreted":
		return BackendInterp, nil
	}
	return "", fmt.Errorf("unknown backend %q (expected native|interp)", s)
}

// Timings holds per-stage durations. The zero value is empty.
type Timings struct {
	d   [len(Stages)]time.Duration
	set uint8 // bit i: Stages[i] recorded
}

// Set records dur for stage. Unknown stages are ignored.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if i := stage.index(); t != nil && i >= 0 {
		t.d[i] = dur
		t.set |= 1 << i
	}
}

func (t Timings) Has(stage Stage) bool {
	i := stage.index()
	return i >= 0 && t.set&(1<<i) != 0
}

func (t Timings) Duration(stage Stage) time.Duration {
	if i := stage.index(); i >= 0 {
		return t.d[i]
	}
	return 0
}

// Sum adds up the given stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, st := range stages {
		total += t.Duration(st)
	}
	return total
}
