package compiler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dop251/goja"
	"pkt.systems/pslog"

	"scriptkit/internal/observ"
	"scriptkit/internal/trace"
	"scriptkit/internal/transpile"
)

// Compile builds a callable from raw script text.
func Compile[T any](ctx context.Context, raw string, opts Options[T]) (*Callable[T], error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	log := pslog.Ctx(ctx).With("file", opts.FileName)
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "compile", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	timer := observ.NewTimer()
	idx := timer.Begin("transpile")
	res, err := transpileWith(ctx, raw, &opts)
	timer.End(idx, "")
	if err != nil {
		return nil, err
	}
	timer.Absorb("transpile", res.Timings)

	backend := backendFor(&opts)
	scoped := opts.Global != nil && backend.Scoped()

	idx = timer.Begin("assemble")
	asm := assemble(res.Code, res.IsAsync, scoped, &opts)
	timer.End(idx, strconv.Itoa(asm.declLines+asm.scopedLines)+" preamble lines")

	meta := &Metadata{
		FunctionName:      opts.FunctionName,
		DiagnosticName:    opts.DiagnosticName,
		FileName:          opts.FileName,
		IsAsync:           res.IsAsync,
		IsModule:          res.IsModule,
		ScriptLineOffset:  asm.declLines,
		BackendLineOffset: asm.scopedLines,
		Source:            asm.src,
		transpiled:        res,
	}

	rt := backend.Runtime()
	bind, err := bindings(rt, &opts, scoped)
	if err != nil {
		return nil, err
	}

	idx = timer.Begin("construct")
	fn, err := backend.Construct(ctx, opts.FileName, asm.src, bind)
	timer.End(idx, backend.Name())
	if err != nil {
		return nil, meta.engineSyntaxError(err)
	}
	if s, ok := fn.(Steppable); ok {
		meta.Handle = s.Script()
	}
	meta.Timings = timer.Report()

	log.Debug("compiler: built",
		"backend", backend.Name(),
		"async", meta.IsAsync,
		"module", meta.IsModule,
		"total_ms", meta.Timings.TotalMS,
	)
	return &Callable[T]{fn: fn, rt: rt, meta: meta, opts: opts, backend: backend.Name()}, nil
}

func transpileWith[T any](ctx context.Context, raw string, o *Options[T]) (*transpile.Result, error) {
	if o.Cache != nil {
		return o.Cache.Transpile(ctx, raw, o.transpileOptions())
	}
	return transpile.Transpile(ctx, raw, o.transpileOptions())
}

func backendFor[T any](o *Options[T]) Backend {
	if o.Interpreter != nil {
		return NewInterpreted(o.Interpreter)
	}
	if o.Runtime == nil {
		o.Runtime = goja.New()
	}
	return NewNative(o.Runtime)
}

func bindings[T any](rt *goja.Runtime, o *Options[T], scoped bool) (Bindings, error) {
	b := Bindings{Constants: rt.NewObject(), Variables: rt.NewObject()}
	for name, v := range o.Constants {
		if err := b.Constants.Set(name, v); err != nil {
			return b, fmt.Errorf("compiler: constant %s: %w", name, err)
		}
	}
	for name, get := range o.Variables {
		get := get
		fn := func(goja.FunctionCall) goja.Value {
			return rt.ToValue(get(o.Context))
		}
		if err := b.Variables.Set(name, fn); err != nil {
			return b, fmt.Errorf("compiler: variable %s: %w", name, err)
		}
	}
	if scoped {
		b.Global = o.Global
	}
	return b, nil
}
