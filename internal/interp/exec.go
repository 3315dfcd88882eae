package interp

import (
	"fmt"

	"github.com/dop251/goja"
)

// Pause describes where a suspended execution stopped. Breakpoint is nil
// for a single step.
type Pause struct {
	Script     *Script
	Point      Point
	State      State
	Breakpoint *Breakpoint
}

func (p *Pause) String() string {
	return fmt.Sprintf("%s:%d:%d (%s)", p.Script.Name(), p.Point.Line, p.Point.Column, p.State)
}

type event struct {
	pause *Pause
	value goja.Value
	err   error
}

// Execution is a resumable call. It is driven by Resume and Step until it
// reports completion; Run drives it to the end.
type Execution struct {
	in   *Interp
	fn   goja.Callable
	this goja.Value
	args []goja.Value

	started  bool
	done     bool
	stepping bool
	resume   chan bool // true aborts
	events   chan event

	pause *Pause
	value goja.Value
	err   error
}

// Start prepares a call of fn. Nothing runs until the first Resume.
func (in *Interp) Start(fn goja.Value, this goja.Value, args ...goja.Value) (*Execution, error) {
	call, ok := goja.AssertFunction(fn)
	if !ok {
		return nil, fmt.Errorf("interp: %s is not a function", fn)
	}
	if this == nil {
		this = goja.Undefined()
	}
	return &Execution{
		in:     in,
		fn:     call,
		this:   this,
		args:   args,
		resume: make(chan bool),
		events: make(chan event),
	}, nil
}

// Call runs fn to completion. Called from script code that is already
// running in this realm, it calls through directly and any pause it hits
// suspends the outer execution.
func (in *Interp) Call(fn goja.Value, this goja.Value, args ...goja.Value) (goja.Value, error) {
	if in.Running() {
		call, ok := goja.AssertFunction(fn)
		if !ok {
			return nil, fmt.Errorf("interp: %s is not a function", fn)
		}
		if this == nil {
			this = goja.Undefined()
		}
		return call(this, args...)
	}
	x, err := in.Start(fn, this, args...)
	if err != nil {
		return nil, err
	}
	return x.Run()
}

// Resume runs the execution until the next pause or until it finishes. It
// returns the pause, or nil once the call is complete.
func (x *Execution) Resume() (*Pause, error) {
	in := x.in
	in.mu.Lock()
	switch {
	case x.done:
		in.mu.Unlock()
		return nil, ErrDone
	case in.busy, in.active != nil && in.active != x:
		in.mu.Unlock()
		return nil, ErrBusy
	}
	in.busy, in.active = true, x
	in.mu.Unlock()

	x.pause = nil
	if !x.started {
		x.started = true
		go x.run()
	} else {
		x.resume <- false
	}
	ev := <-x.events

	in.mu.Lock()
	in.busy = false
	if ev.pause == nil {
		in.active = nil
		x.done = true
		x.value, x.err = ev.value, ev.err
	}
	in.mu.Unlock()
	x.pause = ev.pause
	return ev.pause, nil
}

// Step resumes and stops again at the very next pause point.
func (x *Execution) Step() (*Pause, error) {
	x.stepping = true
	return x.Resume()
}

// Run resumes until the call completes, stepping over every pause.
func (x *Execution) Run() (goja.Value, error) {
	x.stepping = false
	for !x.done {
		if _, err := x.Resume(); err != nil {
			return nil, err
		}
	}
	return x.value, x.err
}

// Abort stops a suspended execution. The call fails with an interrupt
// wrapping ErrAborted.
func (x *Execution) Abort() error {
	in := x.in
	if x.done {
		return nil
	}
	if !x.started {
		x.done, x.err = true, ErrAborted
		return nil
	}
	in.mu.Lock()
	in.busy = true
	in.mu.Unlock()

	x.resume <- true
	ev := <-x.events

	in.mu.Lock()
	in.busy, in.active = false, nil
	in.mu.Unlock()
	x.done, x.pause = true, nil
	x.value, x.err = ev.value, ev.err
	return nil
}

// Paused returns the current pause, or nil.
func (x *Execution) Paused() *Pause { return x.pause }

// Done reports whether the call has completed.
func (x *Execution) Done() bool { return x.done }

// Result is the call's outcome once Done.
func (x *Execution) Result() (goja.Value, error) { return x.value, x.err }

func (x *Execution) run() {
	var (
		v   goja.Value
		err error
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("interp: panic: %v", r)
		}
		x.events <- event{value: v, err: x.in.wrapError(err)}
	}()
	v, err = x.fn(x.this, x.args...)
	for err == nil {
		task := x.in.dequeue()
		if task == nil {
			break
		}
		err = task()
	}
}
