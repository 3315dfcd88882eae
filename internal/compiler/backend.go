package compiler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dop251/goja"
	"golang.org/x/sync/singleflight"
	"pkt.systems/pslog"

	"scriptkit/internal/interp"
)

// Bindings are the factory's arguments.
type Bindings struct {
	Constants *goja.Object
	Variables *goja.Object
	// Global is nil unless the source was assembled with a scoped lookup.
	Global *goja.Object
}

func (b Bindings) args() []goja.Value {
	g := goja.Undefined()
	if b.Global != nil {
		g = b.Global
	}
	return []goja.Value{b.Constants, b.Variables, g}
}

// Function is a constructed raw function: no hooks, no normalisation.
type Function interface {
	Call(args ...goja.Value) (goja.Value, error)
	Value() goja.Value
}

// Steppable is implemented by functions built on an Interpreter.
type Steppable interface {
	Function
	Start(args ...goja.Value) (*interp.Execution, error)
	Script() *interp.Script
}

// Backend constructs functions from final source.
type Backend interface {
	Name() string
	Runtime() *goja.Runtime
	// Scoped reports whether the backend honours a global override.
	Scoped() bool
	Construct(ctx context.Context, file, src string, b Bindings) (Function, error)
}

// programs is shared by every native backend. Programs are
// realm-independent, so one compile serves all runtimes.
var programs programCache

type programCache struct {
	progs    sync.Map // key -> *goja.Program
	group    singleflight.Group
	compiles atomic.Int64
}

func (c *programCache) get(ctx context.Context, file, src string) (*goja.Program, error) {
	key := file + "\x00" + src
	if p, ok := c.progs.Load(key); ok {
		pslog.Ctx(ctx).Debug("compiler: program cache hit", "file", file)
		return p.(*goja.Program), nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		if p, ok := c.progs.Load(key); ok {
			return p, nil
		}
		c.compiles.Add(1)
		p, err := goja.Compile(file, src, false)
		if err != nil {
			return nil, err
		}
		c.progs.Store(key, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	pslog.Ctx(ctx).Debug("compiler: program compiled", "file", file, "bytes", len(src))
	return v.(*goja.Program), nil
}

type nativeBackend struct {
	rt *goja.Runtime
}

// NewNative returns the backend that runs final source directly in rt.
func NewNative(rt *goja.Runtime) Backend {
	if rt == nil {
		rt = goja.New()
	}
	return &nativeBackend{rt: rt}
}

func (n *nativeBackend) Name() string           { return "native" }
func (n *nativeBackend) Runtime() *goja.Runtime { return n.rt }
func (n *nativeBackend) Scoped() bool           { return true }

func (n *nativeBackend) Construct(ctx context.Context, file, src string, b Bindings) (Function, error) {
	prg, err := programs.get(ctx, file, src)
	if err != nil {
		return nil, err
	}
	factory, err := n.rt.RunProgram(prg)
	if err != nil {
		return nil, err
	}
	v, err := callValue(factory, b.args())
	if err != nil {
		return nil, err
	}
	call, ok := goja.AssertFunction(v)
	if !ok {
		return nil, fmt.Errorf("compiler: factory returned %s, not a function", v)
	}
	return &nativeFunction{call: call, value: v}, nil
}

func callValue(fn goja.Value, args []goja.Value) (goja.Value, error) {
	call, ok := goja.AssertFunction(fn)
	if !ok {
		return nil, fmt.Errorf("compiler: %s is not a function", fn)
	}
	return call(goja.Undefined(), args...)
}

type nativeFunction struct {
	call  goja.Callable
	value goja.Value
}

func (f *nativeFunction) Call(args ...goja.Value) (goja.Value, error) {
	return f.call(goja.Undefined(), args...)
}

func (f *nativeFunction) Value() goja.Value { return f.value }

type interpBackend struct {
	in Interpreter
}

// NewInterpreted returns the backend that loads final source into in.
func NewInterpreted(in Interpreter) Backend {
	return &interpBackend{in: in}
}

func (b *interpBackend) Name() string           { return "interp" }
func (b *interpBackend) Runtime() *goja.Runtime { return b.in.Runtime() }
func (b *interpBackend) Scoped() bool           { return false }

func (b *interpBackend) Construct(_ context.Context, file, src string, bind Bindings) (Function, error) {
	s, err := b.in.Load(file, src)
	if err != nil {
		return nil, err
	}
	bind.Global = nil
	v, err := b.in.Call(s.Value(), goja.Undefined(), bind.args()...)
	if err != nil {
		return nil, err
	}
	if _, ok := goja.AssertFunction(v); !ok {
		return nil, fmt.Errorf("compiler: factory returned %s, not a function", v)
	}
	return &interpFunction{in: b.in, script: s, value: v}, nil
}

type interpFunction struct {
	in     Interpreter
	script *interp.Script
	value  goja.Value
}

func (f *interpFunction) Call(args ...goja.Value) (goja.Value, error) {
	return f.in.Call(f.value, goja.Undefined(), args...)
}

func (f *interpFunction) Value() goja.Value { return f.value }

func (f *interpFunction) Start(args ...goja.Value) (*interp.Execution, error) {
	return f.in.Start(f.value, goja.Undefined(), args...)
}

func (f *interpFunction) Script() *interp.Script { return f.script }
