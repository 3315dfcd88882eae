package interp

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"scriptkit/internal/source"
	"scriptkit/internal/textmodel"
)

var (
	// ErrBusy is returned when breakpoints change while a turn runs, or
	// when another execution is suspended in the realm.
	ErrBusy = errors.New("interp: realm is busy")
	// ErrDone is returned when resuming a finished execution.
	ErrDone = errors.New("interp: execution finished")
	// ErrAborted is the interrupt value of an aborted execution.
	ErrAborted = errors.New("interp: execution aborted")
	// ErrNoPoint means no pause point matches a breakpoint location.
	ErrNoPoint = errors.New("interp: no pause point at location")
)

// Interp owns one goja realm and everything loaded into it.
type Interp struct {
	rt *goja.Runtime

	mu     sync.Mutex
	busy   bool       // a goroutine is running script code
	active *Execution // started and not finished
	queue  []func() error

	scripts []*Script
	byName  map[string]*Script
	bps     *Breakpoints
}

// New creates an interpreter with a fresh realm.
func New() *Interp {
	in := &Interp{
		rt:     goja.New(),
		byName: make(map[string]*Script),
		bps:    newBreakpoints(),
	}
	if err := in.rt.Set(pauseHook, in.pause); err != nil {
		panic(err)
	}
	return in
}

// Runtime returns the realm. Its global object is the one loaded code sees.
func (in *Interp) Runtime() *goja.Runtime { return in.rt }

// Script is loaded, instrumented source.
type Script struct {
	in     *Interp
	serial int
	name   string
	src    string
	code   string
	points []Point
	buf    *textmodel.Buffer
	value  goja.Value

	srcLines  *source.Lines
	codeLines *source.Lines
}

func (s *Script) Name() string { return s.name }

// Source returns the text as loaded, before instrumentation.
func (s *Script) Source() string { return s.src }

// Value is the completion value of the loaded source.
func (s *Script) Value() goja.Value { return s.value }

// Points lists the pause points in source order.
func (s *Script) Points() []Point {
	return append([]Point(nil), s.points...)
}

// Resolve picks the pause point for a breakpoint request: an exact match,
// else the first point on the same line at or after col.
func (s *Script) Resolve(line, col int) (Point, bool) {
	for _, p := range s.points {
		if p.Line == line && p.Column == col {
			return p, true
		}
	}
	best, found := Point{}, false
	for _, p := range s.points {
		if p.Line != line || p.Column < col {
			continue
		}
		if !found || p.Column < best.Column {
			best, found = p, true
		}
	}
	return best, found
}

// sourceLoc maps an engine position in the instrumented code back to the
// loaded source.
func (s *Script) sourceLoc(line, col int) (int, int) {
	off, ok := s.codeLines.Offset(source.LineCol{Line: source.MustU32(line), Col: source.MustU32(col)})
	if !ok {
		return line, col
	}
	lc := s.srcLines.LineCol(s.buf.MapToOriginal(off))
	return int(lc.Line), int(lc.Col)
}

// Load instruments src and evaluates it in the realm. The script's value
// is the completion value, typically a function expression. Script code
// may load more scripts while its turn runs; the evaluation happens on the
// running goroutine.
func (in *Interp) Load(name, src string) (*Script, error) {
	in.mu.Lock()
	serial := len(in.scripts)
	in.mu.Unlock()

	ins, err := instrument(name, src, serial)
	if err != nil {
		return nil, err
	}
	prg, err := goja.Compile(name, ins.code, false)
	if err != nil {
		return nil, fmt.Errorf("interp: compile %s: %w", name, err)
	}
	s := &Script{
		in:        in,
		serial:    serial,
		name:      name,
		src:       src,
		code:      ins.code,
		points:    ins.points,
		buf:       ins.buf,
		srcLines:  source.NewLines(src),
		codeLines: source.NewLines(ins.code),
	}

	in.mu.Lock()
	in.scripts = append(in.scripts, s)
	in.byName[name] = s
	in.mu.Unlock()

	v, err := in.rt.RunProgram(prg)
	if err != nil {
		return nil, in.wrapError(err)
	}
	s.value = v
	return s, nil
}

// SetBreakpoint registers a breakpoint at the pause point resolved from
// line and col. id 0 allocates an id; a known id is replaced. It fails
// with ErrBusy while a turn is running.
func (in *Interp) SetBreakpoint(s *Script, id, line, col int, states State) (*Breakpoint, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.busy {
		return nil, ErrBusy
	}
	p, ok := s.Resolve(line, col)
	if !ok {
		return nil, fmt.Errorf("%w %s:%d:%d", ErrNoPoint, s.name, line, col)
	}
	if states&p.States == 0 {
		return nil, fmt.Errorf("interp: pause point %s:%d:%d has no %s state", s.name, p.Line, p.Column, states)
	}
	return in.bps.set(&Breakpoint{ID: id, Script: s, Point: p, States: states & p.States}), nil
}

// RemoveBreakpoint deletes a breakpoint; it reports whether it existed.
func (in *Interp) RemoveBreakpoint(id int) (bool, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.busy {
		return false, ErrBusy
	}
	return in.bps.Delete(id), nil
}

// Breakpoints returns the registered breakpoints.
func (in *Interp) Breakpoints() []*Breakpoint {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.bps.List()
}

// Enqueue schedules host work (typically settling a promise) to run in the
// realm after the current call of an execution returns.
func (in *Interp) Enqueue(task func() error) {
	in.mu.Lock()
	in.queue = append(in.queue, task)
	in.mu.Unlock()
}

func (in *Interp) dequeue() func() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.queue) == 0 {
		return nil
	}
	task := in.queue[0]
	in.queue = in.queue[1:]
	return task
}

// Running reports whether script code is executing right now.
func (in *Interp) Running() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.busy
}

// pause is the hook every pause point calls: $$pause(script, point, state).
func (in *Interp) pause(call goja.FunctionCall) goja.Value {
	x := in.active
	if x == nil {
		return goja.Undefined()
	}
	serial := int(call.Argument(0).ToInteger())
	if serial < 0 || serial >= len(in.scripts) {
		return goja.Undefined()
	}
	s := in.scripts[serial]
	id := int(call.Argument(1).ToInteger())
	st := State(call.Argument(2).ToInteger())

	bp, hit := in.bps.match(s, id, st)
	if !hit && !x.stepping {
		return goja.Undefined()
	}
	x.stepping = false
	x.events <- event{pause: &Pause{Script: s, Point: s.points[id], State: st, Breakpoint: bp}}
	if abort := <-x.resume; abort {
		in.rt.Interrupt(ErrAborted)
	}
	return goja.Undefined()
}
