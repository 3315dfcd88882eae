package transform

import (
	"context"
	"fmt"
	"strconv"

	"scriptkit/internal/ast"
	"scriptkit/internal/source"
	"scriptkit/internal/textmodel"
	"scriptkit/internal/trace"
)

type Options struct {
	Names Names
	// ForceSync erases async and await so the script compiles to a plain
	// synchronous function. It wins over "modules are async".
	ForceSync bool
}

// Info is what the passes learned about the script.
type Info struct {
	// IsModule is set by any static import or export form.
	IsModule bool
	// TopLevelAwait reports a suspension point outside every function
	// and class body.
	TopLevelAwait bool
	// IsAsync is the final verdict: the script must run as an async body.
	IsAsync bool
}

// Context is shared by the passes of one run.
type Context struct {
	Src  string
	Prog *ast.Program
	Buf  *textmodel.Buffer
	Opts Options
	Info Info

	// base is the version the tree's offsets refer to.
	base textmodel.Version
}

type pass struct {
	name string
	run  func(c *Context, e *editor)
	when func(o Options) bool
}

var passes = []pass{
	{name: "modules", run: lowerModules},
	{name: "loopguard", run: guardLoops},
	{name: "markup", run: lowerMarkup},
	{name: "types", run: eraseTypes},
	{name: "async-erase", run: eraseAsync, when: func(o Options) bool { return o.ForceSync }},
}

// Run applies every pass to buf, whose current text must be the text prog
// was parsed from. buf keeps the full edit history on return.
func Run(ctx context.Context, buf *textmodel.Buffer, prog *ast.Program, opts Options) (Info, error) {
	opts.Names = opts.Names.WithDefaults()
	c := &Context{
		Src:  buf.String(),
		Prog: prog,
		Buf:  buf,
		Opts: opts,
		base: buf.Version(),
	}

	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID
	for _, p := range passes {
		if p.when != nil && !p.when(opts) {
			continue
		}
		span := trace.Begin(tracer, trace.ScopePass, "transform:"+p.name, parent)
		e := &editor{w: buf.NewWriterFrom(c.base), src: c.Src}
		p.run(c, e)
		span.WithExtra("edits", strconv.Itoa(e.n)).End("")
		if e.err != nil {
			return c.Info, fmt.Errorf("transform %s: %w", p.name, e.err)
		}
	}

	span := trace.Begin(tracer, trace.ScopePass, "transform:async-detect", parent)
	c.Info.TopLevelAwait = DetectTopLevelAwait(prog)
	c.Info.IsAsync = (c.Info.TopLevelAwait || c.Info.IsModule) && !opts.ForceSync
	span.End(strconv.FormatBool(c.Info.IsAsync))
	return c.Info, nil
}

// editor wraps a pass writer. The first failed edit sticks; later edits
// are dropped so a pass body can stay free of error plumbing.
type editor struct {
	w   *textmodel.Writer
	src string
	err error
	n   int
}

func (e *editor) keep(err error) {
	e.n++
	if err != nil && e.err == nil {
		e.err = err
	}
}

func (e *editor) insert(off uint32, text string) {
	if e.err == nil {
		e.keep(e.w.Insert(int(off), text))
	}
}

// insertLeft is used for closing text so nested wrappers close inside out.
func (e *editor) insertLeft(off uint32, text string) {
	if e.err == nil {
		e.keep(e.w.InsertLeft(int(off), text))
	}
}

func (e *editor) delete(sp source.Span) {
	if e.err == nil && sp.End > sp.Start {
		e.keep(e.w.Delete(int(sp.Start), int(sp.End)))
	}
}

func (e *editor) replace(sp source.Span, text string) {
	if e.err == nil {
		e.keep(e.w.Replace(int(sp.Start), int(sp.End), text))
	}
}

// deleteWord removes sp together with the blanks after it.
func (e *editor) deleteWord(sp source.Span) {
	end := sp.End
	for int(end) < len(e.src) && (e.src[end] == ' ' || e.src[end] == '\t') {
		end++
	}
	e.delete(source.Span{Start: sp.Start, End: end})
}
