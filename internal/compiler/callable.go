package compiler

import (
	"errors"

	"github.com/dop251/goja"

	"scriptkit/internal/source"
)

// Callable is a compiled script.
type Callable[T any] struct {
	fn      Function
	rt      *goja.Runtime
	meta    *Metadata
	opts    Options[T]
	backend string
}

// Metadata returns the script's metadata.
func (c *Callable[T]) Metadata() *Metadata { return c.meta }

// Runtime returns the realm the callable runs in.
func (c *Callable[T]) Runtime() *goja.Runtime { return c.rt }

// Value returns the raw script function, for handing to other scripts.
// Calling it bypasses hooks.
func (c *Callable[T]) Value() goja.Value { return c.fn.Value() }

// Backend names the backend that built the callable.
func (c *Callable[T]) Backend() string { return c.backend }

// Steppable returns the resumable entry point of an interpreted build.
func (c *Callable[T]) Steppable() (Steppable, bool) {
	s, ok := c.fn.(Steppable)
	return s, ok
}

func (c *Callable[T]) DiagnosticName() string { return c.meta.DiagnosticName }
func (c *Callable[T]) FileName() string       { return c.meta.FileName }

func (c *Callable[T]) LocationToOriginal(lc source.LineCol) source.LineCol {
	return c.meta.LocationToOriginal(lc)
}

// Call runs the script with positional arguments. Go values are converted
// with the realm's ToValue.
func (c *Callable[T]) Call(args ...any) (goja.Value, error) {
	vals := make([]goja.Value, len(args))
	for i, a := range args {
		vals[i] = c.rt.ToValue(a)
	}
	if !c.opts.hooked() && !c.meta.IsAsync {
		return c.fn.Call(vals...)
	}
	return c.invoke(vals)
}

func (c *Callable[T]) invoke(vals []goja.Value) (v goja.Value, err error) {
	o := &c.opts
	deferAfter := false
	defer func() {
		if !deferAfter && o.After != nil {
			o.After(o.Context)
		}
	}()

	if o.Before != nil {
		o.Before(o.Context)
	}
	call := func() (goja.Value, error) { return c.fn.Call(vals...) }
	if o.Invoke != nil {
		v, err = o.Invoke(call, o.Context)
	} else {
		v, err = call()
	}
	if err != nil {
		return c.fail(err)
	}
	if !c.meta.IsAsync {
		return v, nil
	}
	deferAfter = true
	return c.settle(v)
}

func (c *Callable[T]) fail(err error) (goja.Value, error) {
	if c.opts.OnError == nil {
		return nil, err
	}
	if err = c.opts.OnError(err, c.opts.Context, c.meta); err != nil {
		return nil, err
	}
	return goja.Undefined(), nil
}

// settle re-wraps an async result in a promise of the realm's own
// constructor. Rejections go through OnError and After runs once the
// result is settled.
func (c *Callable[T]) settle(v goja.Value) (goja.Value, error) {
	rt := c.rt
	o := &c.opts
	after := func() {
		if o.After != nil {
			o.After(o.Context)
		}
	}
	p, resolve, reject := rt.NewPromise()

	var then goja.Callable
	obj, ok := v.(*goja.Object)
	if ok {
		then, ok = goja.AssertFunction(obj.Get("then"))
	}
	if !ok {
		after()
		if err := resolve(v); err != nil {
			return nil, err
		}
		return rt.ToValue(p), nil
	}

	onFulfilled := func(call goja.FunctionCall) goja.Value {
		after()
		_ = resolve(call.Argument(0))
		return goja.Undefined()
	}
	onRejected := func(call goja.FunctionCall) goja.Value {
		var err error = &Rejection{Value: call.Argument(0)}
		if o.OnError != nil {
			err = o.OnError(err, o.Context, c.meta)
		}
		after()
		if err == nil {
			_ = resolve(goja.Undefined())
		} else {
			_ = reject(c.reason(err))
		}
		return goja.Undefined()
	}
	if _, err := then(obj, rt.ToValue(onFulfilled), rt.ToValue(onRejected)); err != nil {
		after()
		return c.fail(err)
	}
	return rt.ToValue(p), nil
}

// reason turns an error back into a script value for rejecting.
func (c *Callable[T]) reason(err error) goja.Value {
	var (
		rej *Rejection
		ex  *goja.Exception
	)
	switch {
	case errors.As(err, &rej):
		return rej.Value
	case errors.As(err, &ex):
		return ex.Value()
	}
	return c.rt.NewGoError(err)
}
