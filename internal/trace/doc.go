// Package trace records spans of scriptkit work: commands, transpile
// passes and imported modules.
//
// Enable it from the command line:
//
//	scriptkit run --trace=- --trace-level=detail main.js
//	scriptkit check --trace=out.json src/   # Chrome trace, open in Perfetto
//	scriptkit run --trace-level=error main.js
//
// The last form keeps events in a ring and prints them only when the
// command fails.
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: ring only, dumped on failure
//   - LevelPhase: driver and pass spans
//   - LevelDetail: plus one span per imported module
//   - LevelDebug: everything
//
// # Propagation
//
// The tracer and the active span travel in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.CurrentSpan(ctx).SpanID)
//	defer span.End("")
//	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})
package trace
