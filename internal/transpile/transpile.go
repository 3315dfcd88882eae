package transpile

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"scriptkit/internal/diag"
	"scriptkit/internal/observ"
	"scriptkit/internal/parser"
	"scriptkit/internal/source"
	"scriptkit/internal/textmodel"
	"scriptkit/internal/trace"
	"scriptkit/internal/transform"
)

// Result is the compiled-output record of one script.
type Result struct {
	Code string
	// Original is the text after macro expansion; the buffer's base text.
	Original string
	// Raw is the input as given.
	Raw      string
	IsModule bool
	IsAsync  bool
	Shifts   []transform.Shift
	// History holds every edit the passes made, in order.
	History *textmodel.Buffer
	Timings observ.Report

	linesOnce sync.Once
	codeLines *source.Lines
	rawLines  *source.Lines
}

// Transpile lowers raw script text to plain script code.
func Transpile(ctx context.Context, raw string, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "transpile", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	timer := observ.NewTimer()
	idx := timer.Begin("macros")
	x, err := transform.ExpandMacros(raw, opts.macros())
	timer.End(idx, strconv.Itoa(len(x.Shifts))+" applied")
	if err != nil {
		return nil, err
	}

	idx = timer.Begin("parse")
	pspan := trace.Begin(tracer, trace.ScopePass, "parse", span.ID())
	res := parser.Parse(x.Text, parser.Options{MaxErrors: 1})
	pspan.End("")
	timer.End(idx, "")
	if d, ok := res.Bag.FirstError(); ok {
		return nil, syntaxError(raw, x, opts.FileName, d)
	}

	idx = timer.Begin("transform")
	buf := textmodel.New(x.Text)
	info, err := transform.Run(ctx, buf, res.Program, transform.Options{Names: opts.Names, ForceSync: opts.ForceSync})
	timer.End(idx, strconv.Itoa(len(buf.Edits()))+" edits")
	if err != nil {
		return nil, fmt.Errorf("transpile: %w", err)
	}

	return &Result{
		Code:     buf.String(),
		Original: x.Text,
		Raw:      raw,
		IsModule: info.IsModule,
		IsAsync:  info.IsAsync,
		Shifts:   x.Shifts,
		History:  buf,
		Timings:  timer.Report(),
	}, nil
}

func syntaxError(raw string, x transform.Expansion, file string, d diag.Diagnostic) *SyntaxError {
	lc := source.NewLines(raw).LineCol(x.ToRaw(int(d.Primary.Start)))
	return &SyntaxError{
		File:    file,
		Line:    int(lc.Line),
		Column:  int(lc.Col),
		Code:    d.Code,
		Message: d.Message,
	}
}

func (r *Result) expansion() transform.Expansion {
	return transform.Expansion{Text: r.Original, Shifts: r.Shifts}
}

// ToOriginal maps a byte offset in Code to the raw script.
func (r *Result) ToOriginal(off int) int {
	return r.expansion().ToRaw(r.History.MapToOriginal(off))
}

// ToCompiled maps a byte offset in the raw script to Code.
func (r *Result) ToCompiled(off int) int {
	return r.History.MapFromOriginal(r.expansion().FromRaw(off))
}

func (r *Result) lines() {
	r.linesOnce.Do(func() {
		r.codeLines = source.NewLines(r.Code)
		r.rawLines = source.NewLines(r.Raw)
	})
}

// LocToOriginal maps a 1-based position in Code to the raw script.
func (r *Result) LocToOriginal(lc source.LineCol) source.LineCol {
	r.lines()
	off, ok := r.codeLines.Offset(lc)
	if !ok {
		return source.LineCol{}
	}
	return r.rawLines.LineCol(r.ToOriginal(off))
}

// LocToCompiled maps a 1-based position in the raw script to Code.
func (r *Result) LocToCompiled(lc source.LineCol) source.LineCol {
	r.lines()
	off, ok := r.rawLines.Offset(lc)
	if !ok {
		return source.LineCol{}
	}
	return r.codeLines.LineCol(r.ToCompiled(off))
}
