package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dop251/goja"
	"pkt.systems/pslog"

	"scriptkit/internal/compiler"
	"scriptkit/internal/debugger"
	"scriptkit/internal/interp"
	"scriptkit/internal/stack"
	"scriptkit/internal/trace"
	"scriptkit/internal/transpile"
)

// ErrUnsettled is returned when an async script's promise is still
// pending after the job queue drained.
var ErrUnsettled = errors.New("script promise did not settle")

// RunRequest describes one script execution.
type RunRequest struct {
	Path string
	// Source, when set, is used instead of reading Path.
	Source  string
	Backend Backend
	// Budget caps loop iterations per call; 0 is unlimited.
	Budget    int
	ForceSync bool
	Names     transpile.Names
	Macros    []transpile.Macro
	Cache     *transpile.DiskCache
	Args      []any
	Stdout    io.Writer
	Stderr    io.Writer
}

// RunResult is the outcome of a script that compiled.
type RunResult struct {
	Value goja.Value
	// Err is the script's failure, nil on success.
	Err error
	// Trace is Err's stack in script coordinates, when one could be built.
	Trace      *stack.Trace
	Iterations int
	IsAsync    bool
	IsModule   bool
	Timings    Timings
}

// Export returns the result as a Go value.
func (r *RunResult) Export() any {
	if r == nil || r.Value == nil {
		return nil
	}
	return r.Value.Export()
}

// Session is a compiled entry script and the host it runs in.
type Session struct {
	h       *host
	c       *compiler.Callable[*host]
	log     pslog.Logger
	timings Timings
}

// Prepare loads and compiles req.Path without calling it.
func Prepare(ctx context.Context, req RunRequest) (*Session, error) {
	path := req.Path
	if path == "" {
		path = "script.js"
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	req.Path = path
	s := &Session{log: pslog.Ctx(ctx).With("file", path, "backend", string(req.Backend))}

	start := time.Now()
	raw := req.Source
	if raw == "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		raw = string(b)
	}
	s.timings.Set(StageLoad, time.Since(start))

	s.h = newHost(ctx, &req)
	start = time.Now()
	c, _, err := s.h.compile(path, raw, (*host).resetBudget)
	s.timings.Set(StageTranspile, time.Since(start))
	if err != nil {
		return nil, err
	}
	s.c = c
	return s, nil
}

// Target exposes the entry script to the debugger. Only sessions on the
// interp backend can be stepped.
func (s *Session) Target() debugger.Target { return s.c }

// Interp is the interpreter of an interp-backend session, nil otherwise.
func (s *Session) Interp() *interp.Interp { return s.h.in }

// Runtime is the realm scripts run in.
func (s *Session) Runtime() *goja.Runtime { return s.h.rt }

// Metadata describes the entry script.
func (s *Session) Metadata() *compiler.Metadata { return s.c.Metadata() }

// Finish turns a raw call outcome into a RunResult: promises are unwrapped,
// modules yield their exports and failures get a remapped trace.
func (s *Session) Finish(v goja.Value, err error, elapsed time.Duration) *RunResult {
	meta := s.c.Metadata()
	if err == nil && meta.IsAsync {
		v, err = settled(v)
	}
	if err == nil && meta.IsModule {
		v = s.h.exports[meta.FileName]
	}
	res := &RunResult{
		Value:      v,
		Err:        err,
		Iterations: s.h.guards,
		IsAsync:    meta.IsAsync,
		IsModule:   meta.IsModule,
		Timings:    s.timings,
	}
	res.Timings.Set(StageRun, elapsed)
	if err != nil {
		res.Trace = stack.ToOriginal(s.h.mappers, err)
		s.log.Debug("run: script failed", "error", err)
	} else {
		s.log.Debug("run: done", "iterations", s.h.guards, "run_ms", elapsed.Milliseconds())
	}
	return res
}

// Call runs the entry script once with req.Args.
func (s *Session) Call() *RunResult {
	start := time.Now()
	v, err := s.c.Call(s.h.req.Args...)
	return s.Finish(v, err, time.Since(start))
}

// Run compiles and calls the script at req.Path. Load and compile failures
// are returned as errors; script failures land in RunResult.Err.
func Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "run", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	s, err := Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Call(), nil
}

// settled unwraps a promise returned by an async script.
func settled(v goja.Value) (goja.Value, error) {
	p, ok := v.Export().(*goja.Promise)
	if !ok {
		return v, nil
	}
	switch p.State() {
	case goja.PromiseStateFulfilled:
		return p.Result(), nil
	case goja.PromiseStateRejected:
		return nil, &compiler.Rejection{Value: p.Result()}
	}
	return nil, ErrUnsettled
}
