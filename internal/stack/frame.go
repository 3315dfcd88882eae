package stack

import (
	"fmt"
	"strings"
)

// HostFrame is the text of the boundary frame that ends a remapped trace.
const HostFrame = "at <host>"

// Frame is one parsed call site.
type Frame struct {
	Func   string
	File   string
	Line   int
	Column int
	// Native frames have no source position.
	Native bool
	// Host marks the synthetic boundary frame.
	Host bool
}

func (f Frame) String() string {
	switch {
	case f.Host:
		return HostFrame
	case f.Native && f.Func == "":
		return "at native"
	case f.Native:
		return "at " + f.Func + " (native)"
	case f.Func == "":
		return fmt.Sprintf("at %s:%d:%d", f.File, f.Line, f.Column)
	}
	return fmt.Sprintf("at %s (%s:%d:%d)", f.Func, f.File, f.Line, f.Column)
}

// Trace is a remapped stack.
type Trace struct {
	Message string
	Frames  []Frame
}

func (t *Trace) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(t.Message)
	for _, f := range t.Frames {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("    ")
		b.WriteString(f.String())
	}
	return b.String()
}
