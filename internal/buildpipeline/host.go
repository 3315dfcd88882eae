package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dop251/goja"
	"pkt.systems/pslog"

	"scriptkit/internal/codegen"
	"scriptkit/internal/compiler"
	"scriptkit/internal/interp"
	"scriptkit/internal/stack"
	"scriptkit/internal/token"
	"scriptkit/internal/trace"
	"scriptkit/internal/transpile"
)

var (
	// ErrBudget is thrown into a script whose loops ran past the budget.
	ErrBudget = errors.New("loop budget exhausted")
	// ErrBareSpecifier is returned for imports that are not file paths.
	ErrBareSpecifier = errors.New("bare module specifiers are not supported")
)

// moduleExts are tried in order for extension-less imports.
var moduleExts = []string{".js", ".ts", ".jsx", ".tsx", ".mjs"}

// host is the environment shared by the entry script and everything it
// imports. It is the compiler's host context.
type host struct {
	ctx    context.Context
	req    *RunRequest
	rt     *goja.Runtime
	in     *interp.Interp
	base   string
	budget int
	left   int
	guards int

	exports map[string]*goja.Object
	mappers map[string]stack.Mapper
	used    map[string]int
}

func newHost(ctx context.Context, req *RunRequest) *host {
	h := &host{
		ctx:     ctx,
		req:     req,
		base:    filepath.Dir(req.Path),
		budget:  req.Budget,
		exports: make(map[string]*goja.Object),
		mappers: make(map[string]stack.Mapper),
		used:    make(map[string]int),
	}
	if req.Backend == BackendInterp {
		h.in = interp.New()
		h.rt = h.in.Runtime()
	} else {
		h.rt = goja.New()
	}
	return h
}

func (h *host) names() transpile.Names { return h.req.Names.WithDefaults() }

// resetBudget runs before every call of the entry script.
func (h *host) resetBudget() {
	h.left = h.budget
	h.guards = 0
}

func (h *host) loopGuard(goja.FunctionCall) goja.Value {
	h.guards++
	if h.budget <= 0 {
		return goja.Undefined()
	}
	h.left--
	if h.left < 0 {
		trace.Point(h.ctx, trace.ScopeDriver, "budget", strconv.Itoa(h.budget)+" iterations")
		panic(h.rt.NewGoError(fmt.Errorf("%w after %d iterations", ErrBudget, h.budget)))
	}
	return goja.Undefined()
}

func (h *host) console() *goja.Object {
	out := h.req.Stdout
	if out == nil {
		out = io.Discard
	}
	errOut := h.req.Stderr
	if errOut == nil {
		errOut = out
	}
	printer := func(w io.Writer) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			fmt.Fprintln(w, strings.Join(parts, " ")) //nolint:errcheck
			return goja.Undefined()
		}
	}
	c := h.rt.NewObject()
	_ = c.Set("log", printer(out))
	_ = c.Set("info", printer(out))
	_ = c.Set("warn", printer(errOut))
	_ = c.Set("error", printer(errOut))
	return c
}

// element is the markup factory: h(type, props, ...children).
func (h *host) element(call goja.FunctionCall) goja.Value {
	el := h.rt.NewObject()
	_ = el.Set("type", call.Argument(0))
	props := call.Argument(1)
	if goja.IsUndefined(props) || goja.IsNull(props) {
		props = h.rt.NewObject()
	}
	_ = el.Set("props", props)
	var children []any
	if len(call.Arguments) > 2 {
		for _, c := range call.Arguments[2:] {
			children = append(children, c)
		}
	}
	_ = el.Set("children", h.rt.NewArray(children...))
	return el
}

// constants builds the injected bindings of one module.
func (h *host) constants(path string, exports *goja.Object) map[string]any {
	n := h.names()
	meta := h.rt.NewObject()
	_ = meta.Set("url", "file://"+filepath.ToSlash(path))
	_ = meta.Set("filename", path)
	_ = meta.Set("dirname", filepath.Dir(path))

	return map[string]any{
		n.LoopGuard: h.loopGuard,
		n.Meta:      meta,
		n.Factory:   h.element,
		n.Fragment:  "Fragment",
		"console":   h.console(),
		n.Export: func(call goja.FunctionCall) goja.Value {
			h.export(path, exports, call)
			return goja.Undefined()
		},
		n.Import: func(call goja.FunctionCall) goja.Value {
			v, err := h.importModule(path, call.Argument(0).String())
			if err != nil {
				panic(h.rt.NewGoError(err))
			}
			return v
		},
	}
}

// export handles exportModule({a, b}) and the re-export forms
// exportModule("./m"), exportModule("./m", ["a", ["b", "c"]]) and
// exportModule("./m", [["*", "ns"]]).
func (h *host) export(from string, exports *goja.Object, call goja.FunctionCall) {
	first := call.Argument(0)
	if obj, ok := first.(*goja.Object); ok {
		for _, k := range obj.Keys() {
			_ = exports.Set(k, obj.Get(k))
		}
		return
	}
	path, v, err := h.load(from, first.String())
	if err != nil {
		panic(h.rt.NewGoError(err))
	}
	src := h.exports[path]
	if src == nil {
		return
	}
	names := reexportNames(call.Argument(1))
	reexport(exports, src, names)
	// an async module may export more after its first await
	if p, ok := v.(*goja.Object); ok && p != src {
		if then, ok := goja.AssertFunction(p.Get("then")); ok {
			again := func(goja.FunctionCall) goja.Value {
				reexport(exports, src, names)
				return goja.Undefined()
			}
			if _, err := then(p, h.rt.ToValue(again)); err != nil {
				panic(h.rt.NewGoError(err))
			}
		}
	}
}

// reexportName is one entry of a re-export list. Local "*" binds the
// whole namespace.
type reexportName struct {
	local, exported string
}

// reexportNames decodes the list argument. nil means export *.
func reexportNames(v goja.Value) []reexportName {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	items, _ := v.Export().([]any)
	out := make([]reexportName, 0, len(items))
	for _, it := range items {
		switch it := it.(type) {
		case string:
			out = append(out, reexportName{local: it, exported: it})
		case []any:
			if len(it) != 2 {
				continue
			}
			local, _ := it[0].(string)
			exported, _ := it[1].(string)
			if local != "" && exported != "" {
				out = append(out, reexportName{local: local, exported: exported})
			}
		}
	}
	return out
}

func reexport(dst, src *goja.Object, names []reexportName) {
	if names == nil {
		for _, k := range src.Keys() {
			if k != "default" {
				_ = dst.Set(k, src.Get(k))
			}
		}
		return
	}
	for _, n := range names {
		if n.local == "*" {
			_ = dst.Set(n.exported, src)
			continue
		}
		if v := src.Get(n.local); v != nil {
			_ = dst.Set(n.exported, v)
		}
	}
}

func (h *host) resolve(from, spec string) (string, error) {
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") && !filepath.IsAbs(spec) {
		return "", fmt.Errorf("%w: %q", ErrBareSpecifier, spec)
	}
	path := spec
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(from), spec)
	}
	if st, err := os.Stat(path); err == nil && !st.IsDir() {
		return path, nil
	}
	for _, ext := range moduleExts {
		if st, err := os.Stat(path + ext); err == nil && !st.IsDir() {
			return path + ext, nil
		}
	}
	return "", fmt.Errorf("cannot resolve %q from %s", spec, from)
}

// importModule loads, compiles and runs a module once. Cyclic imports see
// the exports collected so far.
func (h *host) importModule(from, spec string) (goja.Value, error) {
	_, v, err := h.load(from, spec)
	return v, err
}

// load is importModule that also reports the resolved path.
func (h *host) load(from, spec string) (string, goja.Value, error) {
	path, err := h.resolve(from, spec)
	if err != nil {
		return "", nil, err
	}
	if ex, ok := h.exports[path]; ok {
		return path, ex, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	pslog.Ctx(h.ctx).Debug("run: import", "from", from, "spec", spec, "path", path)
	span := trace.Begin(trace.FromContext(h.ctx), trace.ScopeModule, "module:"+h.display(path), trace.CurrentSpan(h.ctx).SpanID)
	defer span.End("")
	c, exports, err := h.compile(path, string(raw), nil)
	if err != nil {
		return "", nil, err
	}
	v, err := c.Call()
	if err != nil {
		return "", nil, err
	}
	if !c.Metadata().IsAsync {
		return path, exports, nil
	}
	return path, h.afterSettled(v, exports), nil
}

// afterSettled resolves to exports once v settles.
func (h *host) afterSettled(v goja.Value, exports *goja.Object) goja.Value {
	obj, ok := v.(*goja.Object)
	if !ok {
		return exports
	}
	then, ok := goja.AssertFunction(obj.Get("then"))
	if !ok {
		return exports
	}
	p, resolve, reject := h.rt.NewPromise()
	onFulfilled := func(goja.FunctionCall) goja.Value {
		_ = resolve(exports)
		return goja.Undefined()
	}
	onRejected := func(call goja.FunctionCall) goja.Value {
		_ = reject(call.Argument(0))
		return goja.Undefined()
	}
	if _, err := then(obj, h.rt.ToValue(onFulfilled), h.rt.ToValue(onRejected)); err != nil {
		panic(h.rt.NewGoError(err))
	}
	return h.rt.ToValue(p)
}

// compile builds one module and registers it for stack remapping.
func (h *host) compile(path, raw string, before func(*host)) (*compiler.Callable[*host], *goja.Object, error) {
	exports := h.rt.NewObject()
	h.exports[path] = exports

	opts := compiler.Options[*host]{
		Context:        h,
		Constants:      h.constants(path, exports),
		FunctionName:   h.functionName(path),
		DiagnosticName: h.display(path),
		FileName:       path,
		ForceSync:      h.req.ForceSync,
		Transpile:      transpile.Options{Names: h.req.Names, Macros: h.req.Macros},
		Cache:          h.req.Cache,
		Before:         before,
	}
	if h.in != nil {
		opts.Interpreter = h.in
	} else {
		opts.Runtime = h.rt
	}
	c, err := compiler.Compile(h.ctx, raw, opts)
	if err != nil {
		delete(h.exports, path)
		return nil, nil, err
	}
	h.mappers[opts.FunctionName] = c
	return c, exports, nil
}

func (h *host) display(path string) string {
	if rel, err := filepath.Rel(h.base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

// functionName derives a unique identifier from the file's base name.
func (h *host) functionName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	for i, r := range stem {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := strings.TrimLeft(b.String(), "$")
	if name == "" || !codegen.IsIdentifierName(name) {
		name = "script"
	}
	if _, kw := token.LookupKeyword(name); kw {
		name += "_"
	}
	n := h.used[name]
	h.used[name] = n + 1
	if n > 0 {
		name += "_" + strconv.Itoa(n)
	}
	return name
}
