package compiler

import (
	"fmt"
	"sort"

	"scriptkit/internal/interp"
	"scriptkit/internal/source"
)

// PossibleBreakpoint is a pause location in raw script coordinates.
type PossibleBreakpoint struct {
	Line   int
	Column int
	States interp.State
}

func (c *Callable[T]) interpreted() (*interp.Script, error) {
	if c == nil || c.meta == nil {
		return nil, ErrNoInterpreter
	}
	if c.meta.Handle == nil {
		return nil, ErrNotInterpreted
	}
	if c.opts.Interpreter == nil {
		return nil, ErrNoInterpreter
	}
	return c.meta.Handle, nil
}

// SetBreakpoint registers a breakpoint at a 1-based raw script position.
// id 0 lets the interpreter allocate one.
func (c *Callable[T]) SetBreakpoint(id, line, col int, states interp.State) (*interp.Breakpoint, error) {
	s, err := c.interpreted()
	if err != nil {
		return nil, err
	}
	at := c.meta.LocationToCompiled(source.LineCol{Line: source.MustU32(line), Col: source.MustU32(col)})
	if at.Line == 0 {
		return nil, fmt.Errorf("%w %s:%d:%d", interp.ErrNoPoint, c.meta.FileName, line, col)
	}
	return c.opts.Interpreter.SetBreakpoint(s, id, int(at.Line), int(at.Col), states)
}

// ListPossibleBreakpoints returns every pause location inside the user
// code, in raw script coordinates. Points in the preamble are dropped.
func (c *Callable[T]) ListPossibleBreakpoints() ([]PossibleBreakpoint, error) {
	s, err := c.interpreted()
	if err != nil {
		return nil, err
	}
	skip := c.meta.ScriptLineOffset + c.meta.BackendLineOffset

	type key struct{ line, col int }
	merged := make(map[key]interp.State)
	for _, p := range s.Points() {
		if p.Line <= skip {
			continue
		}
		lc := c.meta.LocationToOriginal(source.LineCol{Line: source.MustU32(p.Line), Col: source.MustU32(p.Column)})
		if lc.IsZero() {
			continue
		}
		merged[key{int(lc.Line), int(lc.Col)}] |= p.States
	}

	out := make([]PossibleBreakpoint, 0, len(merged))
	for k, st := range merged {
		out = append(out, PossibleBreakpoint{Line: k.line, Column: k.col, States: st})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Column < out[j].Column
	})
	return out, nil
}
