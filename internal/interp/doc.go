// Package interp is a step-debuggable interpreter built on a goja realm.
//
// Loaded source is instrumented before it reaches the engine: every
// statement inside a function body is bracketed by calls to a realm hook,
// which gives each statement a pause point with a "before" and (when the
// statement can complete normally) an "after" state. An Execution runs a
// call on its own goroutine and hands control back to the driver whenever
// a pause point is hit by a breakpoint or a pending single step, so the
// call can be resumed later. Only one goroutine ever touches the realm at a
// time.
package interp
