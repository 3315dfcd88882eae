package stack

import (
	"errors"
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/text/unicode/norm"

	"scriptkit/internal/interp"
	"scriptkit/internal/source"
)

// Mapper is a compiled callable as seen by stack remapping.
// *compiler.Callable implements it.
type Mapper interface {
	DiagnosticName() string
	FileName() string
	LocationToOriginal(lc source.LineCol) source.LineCol
}

// trampolinePrefix marks frames of the wrapping layer itself.
const trampolinePrefix = "$$"

// ToOriginal remaps the stack carried by err. callables is keyed by
// compiled function name. It returns nil when err has no stack or no frame
// belongs to a known callable.
func ToOriginal(callables map[string]Mapper, err error) *Trace {
	raw, p, ok := rawStack(err)
	if !ok {
		return nil
	}
	return Remap(callables, raw, p)
}

func rawStack(err error) (string, Parser, bool) {
	var (
		ie *interp.Error
		ex *goja.Exception
		st interface{ Stack() string }
	)
	switch {
	case err == nil:
		return "", nil, false
	case errors.As(err, &ie):
		return ie.Stack(), Interpreted, true
	case errors.As(err, &ex):
		return ex.String(), Native, true
	case errors.As(err, &st):
		return st.Stack(), Native, true
	}
	return "", nil, false
}

// Remap rewrites raw stack text parsed with p.
func Remap(callables map[string]Mapper, raw string, p Parser) *Trace {
	msg, frames := p.Parse(raw)
	byName := make(map[string]Mapper, len(callables))
	for name, m := range callables {
		byName[norm.NFC.String(name)] = m
	}

	owners := make([]Mapper, len(frames))
	oldest := -1
	for i, f := range frames {
		if f.Native {
			continue
		}
		if m, ok := byName[funcKey(f.Func)]; ok && (f.File == "" || f.File == m.FileName()) {
			owners[i] = m
			oldest = i
		}
	}
	if oldest < 0 {
		return nil
	}

	out := &Trace{Message: msg}
	for i := 0; i <= oldest; i++ {
		f := frames[i]
		if strings.HasPrefix(f.Func, trampolinePrefix) || f.Native && goSymbol(f.Func) {
			continue
		}
		if m := owners[i]; m != nil {
			out.Frames = append(out.Frames, remap(f, m, m.DiagnosticName()))
			continue
		}
		if m := enclosing(frames, owners, i, oldest); m != nil {
			out.Frames = append(out.Frames, remap(f, m, f.Func))
			continue
		}
		out.Frames = append(out.Frames, f)
	}
	out.Frames = append(out.Frames, Frame{Host: true})
	return out
}

// enclosing finds the callable whose code runs at depth i: the nearest
// older matched frame from the same file.
func enclosing(frames []Frame, owners []Mapper, i, oldest int) Mapper {
	f := frames[i]
	if f.Native || f.File == "" {
		return nil
	}
	for j := i + 1; j <= oldest; j++ {
		if m := owners[j]; m != nil {
			if m.FileName() == f.File {
				return m
			}
			return nil
		}
	}
	return nil
}

func remap(f Frame, m Mapper, name string) Frame {
	lc := m.LocationToOriginal(source.LineCol{Line: source.MustU32(f.Line), Col: source.MustU32(f.Column)})
	return Frame{Func: name, File: m.FileName(), Line: int(lc.Line), Column: int(lc.Col)}
}

// goSymbol reports whether a native frame is a Go function bound into the
// realm, named like "pkg/path.(*T).method-fm". Script names never contain
// these characters.
func goSymbol(name string) bool {
	return strings.ContainsAny(name, "/()-")
}

// funcKey strips an owner prefix ("Class.method" -> "method").
func funcKey(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return norm.NFC.String(name)
}
