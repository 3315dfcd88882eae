// Package compiler turns a script into a callable Go value.
//
// Compile transpiles the script, wraps the result in a factory that binds
// host constants, per-call variables and named arguments, and hands the
// final source to a backend: goja directly (native) or an interp realm
// (interpreted, step-debuggable). The returned Callable carries Metadata
// that maps engine positions back to what the user wrote.
//
// Layout of the final source, one declaration per line:
//
//	(function $$factory($$c, $$v, $$g) {
//	with ($$g) {                      // native, only with a global override
//	const name = $$c["name"];         // constants
//	return [async ]function fn(args) {
//	let name = $$v["name"]();         // variables, re-evaluated per call
//	if (arg === undefined) arg = $$v["$$arg"]();
//	let alias = arg;
//	<user code>
//	};
//	}
//	})
package compiler
