package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dop251/goja"

	"scriptkit/internal/codegen"
	"scriptkit/internal/interp"
	"scriptkit/internal/token"
	"scriptkit/internal/transpile"
)

// DefaultMarker prefixes a variable that supplies the default of the
// argument with the rest of its name: "$$event" defaults "event".
const DefaultMarker = "$$"

// Argument is one positional slot. The first name is the parameter, the
// others are aliases bound to the same value.
type Argument []string

// Interpreter is the interpreted backend's collaborator. *interp.Interp
// implements it.
type Interpreter interface {
	Runtime() *goja.Runtime
	Load(name, src string) (*interp.Script, error)
	Start(fn, this goja.Value, args ...goja.Value) (*interp.Execution, error)
	Call(fn, this goja.Value, args ...goja.Value) (goja.Value, error)
	SetBreakpoint(s *interp.Script, id, line, col int, states interp.State) (*interp.Breakpoint, error)
}

// Options configure one Compile call. T is the host context handed to
// variables and hooks; use a pointer type when hooks need to mutate it.
type Options[T any] struct {
	Context T
	// Constants are bound once, when the callable is built.
	Constants map[string]any
	// Variables are evaluated on every call, right before the user code.
	Variables map[string]func(ctx T) any
	Arguments []Argument

	Before func(ctx T)
	// After runs on every exit path; for async scripts once the result
	// settles.
	After  func(ctx T)
	Invoke func(call func() (goja.Value, error), ctx T) (goja.Value, error)
	// OnError sees every failure of the call, async rejections included.
	// The returned error is what the caller gets; nil swallows it. Without
	// OnError errors are returned unchanged.
	OnError func(err error, ctx T, meta *Metadata) error

	// FunctionName names the compiled function; default "script".
	FunctionName string
	// DiagnosticName is shown in remapped stack traces; default
	// FunctionName.
	DiagnosticName string
	// FileName is the engine-side source name; default FunctionName.
	FileName  string
	ForceSync bool

	// Interpreter selects the interpreted backend. nil means native.
	Interpreter Interpreter
	// Runtime is the native backend's realm; nil creates a fresh one.
	Runtime *goja.Runtime
	// Global makes free identifiers resolve against this object first.
	// Native backend only; constants and variables still win.
	Global *goja.Object

	// Transpile passes Names and Macros to the transpiler.
	Transpile transpile.Options
	// Cache, if set, serves and stores transpile results on disk.
	Cache *transpile.DiskCache
}

func (o *Options[T]) normalize() error {
	if o.FunctionName == "" {
		o.FunctionName = "script"
	}
	if o.DiagnosticName == "" {
		o.DiagnosticName = o.FunctionName
	}
	if o.FileName == "" {
		o.FileName = o.FunctionName
	}
	if err := checkName("function", o.FunctionName); err != nil {
		return err
	}

	seen := make(map[string]string)
	declare := func(kind, name string) error {
		if err := checkName(kind, name); err != nil {
			return err
		}
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("%w: %s %q is already declared as a %s", ErrInvalidName, kind, name, prev)
		}
		seen[name] = kind
		return nil
	}
	for name := range o.Constants {
		if err := declare("constant", name); err != nil {
			return err
		}
	}
	for name := range o.Variables {
		if strings.HasPrefix(name, DefaultMarker) {
			if err := checkName("variable", name); err != nil {
				return err
			}
			continue
		}
		if err := declare("variable", name); err != nil {
			return err
		}
	}
	for _, arg := range o.Arguments {
		if len(arg) == 0 {
			return fmt.Errorf("%w: empty argument entry", ErrInvalidName)
		}
		for _, name := range arg {
			if err := declare("argument", name); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkName(kind, name string) error {
	if !codegen.IsIdentifierName(name) {
		return fmt.Errorf("%w: %s name %q is not an identifier", ErrInvalidName, kind, name)
	}
	if _, kw := token.LookupKeyword(name); kw {
		return fmt.Errorf("%w: %s name %q is a reserved word", ErrInvalidName, kind, name)
	}
	return nil
}

func (o *Options[T]) transpileOptions() transpile.Options {
	t := o.Transpile
	t.ForceSync = o.ForceSync
	t.FileName = o.FileName
	return t
}

func (o *Options[T]) hooked() bool {
	return o.Before != nil || o.After != nil || o.Invoke != nil || o.OnError != nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
