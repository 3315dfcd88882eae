package interp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// Frame is one call site of an interpreted stack, in loaded-source
// coordinates.
type Frame struct {
	Func   string
	File   string
	Line   int
	Column int
	Native bool
}

// Error is a script failure inside the interpreter. Its stack is rendered
// in the interpreter's own frame shape:
//
//	in <func> at <file>:<line>:<col>
type Error struct {
	Value   goja.Value
	Message string
	Frames  []Frame
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Stack returns the message followed by one line per frame.
func (e *Error) Stack() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, f := range e.Frames {
		b.WriteString("\n    in ")
		switch {
		case f.Native:
			b.WriteString(f.Func)
			b.WriteString(" at <native>")
		default:
			b.WriteString(f.Func)
			fmt.Fprintf(&b, " at %s:%d:%d", f.File, f.Line, f.Column)
		}
	}
	return b.String()
}

func (in *Interp) wrapError(err error) error {
	if err == nil {
		return nil
	}
	var (
		ex  *goja.Exception
		ie  *goja.InterruptedError
		out = &Error{cause: err}
		raw []goja.StackFrame
	)
	switch {
	case errors.As(err, &ie):
		out.Message = fmt.Sprint(ie.Value())
		raw = ie.Stack()
	case errors.As(err, &ex):
		out.Value = ex.Value()
		out.Message = ex.Error()
		if out.Value != nil {
			out.Message = out.Value.String()
		}
		raw = ex.Stack()
	default:
		return err
	}
	for i := range raw {
		f := &raw[i]
		name := f.FuncName()
		if name == pauseHook {
			continue
		}
		file := f.SrcName()
		if file == "<native>" {
			out.Frames = append(out.Frames, Frame{Func: name, Native: true})
			continue
		}
		pos := f.Position()
		line, col := pos.Line, pos.Column
		if s := in.byName[file]; s != nil {
			line, col = s.sourceLoc(line, col)
		}
		out.Frames = append(out.Frames, Frame{Func: name, File: file, Line: line, Column: col})
	}
	return out
}
