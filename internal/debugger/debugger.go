package debugger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"scriptkit/internal/compiler"
	"scriptkit/internal/interp"
	"scriptkit/internal/source"
)

// Target is a callable built on an interpreter. *compiler.Callable
// implements it for any host context.
type Target interface {
	Metadata() *compiler.Metadata
	Steppable() (compiler.Steppable, bool)
	SetBreakpoint(id, line, col int, states interp.State) (*interp.Breakpoint, error)
	ListPossibleBreakpoints() ([]compiler.PossibleBreakpoint, error)
}

// Breakpoints lists what is registered; *interp.Interp implements it.
type Breakpoints interface {
	Breakpoints() []*interp.Breakpoint
	RemoveBreakpoint(id int) (bool, error)
}

// Debugger drives one call of a script from line-oriented commands.
type Debugger struct {
	target Target
	bps    Breakpoints
	meta   *compiler.Metadata
	x      *interp.Execution

	in          *bufio.Scanner
	out         io.Writer
	interactive bool

	quit bool
}

// Result contains the outcome of a debugger session.
type Result struct {
	Value goja.Value
	Err   error
	Quit  bool
}

// New creates a Debugger for one call of target with args.
func New(target Target, bps Breakpoints, args []goja.Value, in io.Reader, out io.Writer, interactive bool) (*Debugger, error) {
	s, ok := target.Steppable()
	if !ok {
		return nil, compiler.ErrNotInterpreted
	}
	x, err := s.Start(args...)
	if err != nil {
		return nil, err
	}
	if in == nil {
		in = strings.NewReader("")
	}
	if out == nil {
		out = io.Discard
	}
	return &Debugger{
		target:      target,
		bps:         bps,
		meta:        target.Metadata(),
		x:           x,
		in:          bufio.NewScanner(in),
		out:         out,
		interactive: interactive,
	}, nil
}

// Run executes the debugger session.
func (d *Debugger) Run() Result {
	for !d.x.Done() && !d.quit {
		if d.interactive {
			fmt.Fprint(d.out, "(skdb) ") //nolint:errcheck
		}
		if !d.in.Scan() {
			break
		}
		line := strings.TrimSpace(d.in.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d.execCommand(line)
	}

	if d.quit {
		_ = d.x.Abort()
		return Result{Quit: true}
	}
	finished := d.x.Done()
	// When input ends, continue to completion ignoring breakpoints.
	v, err := d.x.Run()
	if err == nil && !finished {
		d.printResult(v)
	}
	return Result{Value: v, Err: err}
}

func (d *Debugger) execCommand(line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		d.help()
	case "step", "s":
		d.advance(d.x.Step)
	case "continue", "c":
		d.advance(d.x.Resume)
	case "break", "b":
		if len(args) < 1 || len(args) > 2 {
			fmt.Fprintln(d.out, "error: break expects <line[:col]> [before|after|both]") //nolint:errcheck
			return
		}
		if err := d.cmdBreak(args); err != nil {
			fmt.Fprintf(d.out, "error: %s\n", err.Error()) //nolint:errcheck
		}
	case "delete":
		if len(args) != 1 {
			fmt.Fprintln(d.out, "error: delete expects <id>") //nolint:errcheck
			return
		}
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			fmt.Fprintln(d.out, "error: invalid breakpoint id") //nolint:errcheck
			return
		}
		ok, err := d.bps.RemoveBreakpoint(id)
		switch {
		case err != nil:
			fmt.Fprintf(d.out, "error: %s\n", err.Error()) //nolint:errcheck
		case !ok:
			fmt.Fprintln(d.out, "error: unknown breakpoint id") //nolint:errcheck
		}
	case "breakpoints", "list":
		d.cmdList()
	case "possible":
		d.cmdPossible()
	case "where":
		if p := d.x.Paused(); p != nil {
			d.printPause("at", p)
		} else {
			fmt.Fprintln(d.out, "not started") //nolint:errcheck
		}
	case "quit", "q":
		d.quit = true
	default:
		fmt.Fprintln(d.out, "error: unknown command") //nolint:errcheck
	}
}

func (d *Debugger) advance(resume func() (*interp.Pause, error)) {
	p, err := resume()
	if err != nil {
		fmt.Fprintf(d.out, "error: %s\n", err.Error()) //nolint:errcheck
		return
	}
	if p == nil {
		v, err := d.x.Result()
		if err != nil {
			fmt.Fprintf(d.out, "error: %s\n", err.Error()) //nolint:errcheck
			return
		}
		d.printResult(v)
		return
	}
	if p.Breakpoint != nil {
		fmt.Fprintf(d.out, "stopped: breakpoint #%d\n", p.Breakpoint.ID) //nolint:errcheck
		d.printPause("at", p)
		return
	}
	d.printPause("step:", p)
}

func (d *Debugger) cmdBreak(args []string) error {
	line, col, err := interp.ParseLineColSpec(args[0])
	if err != nil {
		return err
	}
	states := interp.Before
	if len(args) == 2 {
		if states, err = interp.ParseState(args[1]); err != nil {
			return err
		}
	}
	if col == 0 {
		col = 1
	}
	bp, err := d.target.SetBreakpoint(0, line, col, states)
	if errors.Is(err, interp.ErrNoPoint) {
		if lc, ok := d.firstOnLine(line, col); ok {
			bp, err = d.target.SetBreakpoint(0, lc.Line, lc.Column, states)
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "breakpoint #%d at %s\n", bp.ID, d.location(bp.Point.Line, bp.Point.Column)) //nolint:errcheck
	return nil
}

// firstOnLine picks the first possible location on line at or after col,
// so "break 3" works when the statement is indented.
func (d *Debugger) firstOnLine(line, col int) (compiler.PossibleBreakpoint, bool) {
	points, err := d.target.ListPossibleBreakpoints()
	if err != nil {
		return compiler.PossibleBreakpoint{}, false
	}
	for _, p := range points {
		if p.Line == line && p.Column >= col {
			return p, true
		}
	}
	return compiler.PossibleBreakpoint{}, false
}

func (d *Debugger) cmdList() {
	fmt.Fprintln(d.out, "breakpoints:") //nolint:errcheck
	for _, bp := range d.bps.Breakpoints() {
		fmt.Fprintf(d.out, "  #%d %s [%s]\n", bp.ID, d.location(bp.Point.Line, bp.Point.Column), bp.States) //nolint:errcheck
	}
}

func (d *Debugger) cmdPossible() {
	points, err := d.target.ListPossibleBreakpoints()
	if err != nil {
		fmt.Fprintf(d.out, "error: %s\n", err.Error()) //nolint:errcheck
		return
	}
	for _, p := range points {
		fmt.Fprintf(d.out, "  %d:%d [%s]\n", p.Line, p.Column, p.States) //nolint:errcheck
	}
}

// location renders a loaded-source position in raw script coordinates.
func (d *Debugger) location(line, col int) string {
	lc := d.meta.LocationToOriginal(source.LineCol{Line: source.MustU32(line), Col: source.MustU32(col)})
	return fmt.Sprintf("%s:%d:%d", d.meta.FileName, lc.Line, lc.Col)
}

func (d *Debugger) printPause(prefix string, p *interp.Pause) {
	lc := d.meta.LocationToOriginal(source.LineCol{Line: source.MustU32(p.Point.Line), Col: source.MustU32(p.Point.Column)})
	fmt.Fprintf(d.out, "%s %s:%d:%d (%s)\n", prefix, d.meta.FileName, lc.Line, lc.Col, p.State) //nolint:errcheck
	if text := d.rawLine(int(lc.Line)); text != "" {
		fmt.Fprintf(d.out, "  %d | %s\n", lc.Line, text) //nolint:errcheck
	}
}

func (d *Debugger) rawLine(n int) string {
	if n <= 0 || d.meta.Transpiled() == nil {
		return ""
	}
	lines := strings.Split(d.meta.Transpiled().Raw, "\n")
	if n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
}

func (d *Debugger) printResult(v goja.Value) {
	if v == nil {
		v = goja.Undefined()
	}
	fmt.Fprintf(d.out, "finished: %s\n", v.String()) //nolint:errcheck
}

func (d *Debugger) help() {
	fmt.Fprintln(d.out, "commands:")                                  //nolint:errcheck
	fmt.Fprintln(d.out, "  help")                                     //nolint:errcheck
	fmt.Fprintln(d.out, "  step|s")                                   //nolint:errcheck
	fmt.Fprintln(d.out, "  continue|c")                               //nolint:errcheck
	fmt.Fprintln(d.out, "  break|b <line[:col]> [before|after|both]") //nolint:errcheck
	fmt.Fprintln(d.out, "  delete <id>")                              //nolint:errcheck
	fmt.Fprintln(d.out, "  breakpoints|list")                         //nolint:errcheck
	fmt.Fprintln(d.out, "  possible")                                 //nolint:errcheck
	fmt.Fprintln(d.out, "  where")                                    //nolint:errcheck
	fmt.Fprintln(d.out, "  quit|q")                                   //nolint:errcheck
}
