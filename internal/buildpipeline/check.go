package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/dop251/goja"
	"golang.org/x/sync/errgroup"
	"pkt.systems/pslog"

	"scriptkit/internal/compiler"
	"scriptkit/internal/diag"
	"scriptkit/internal/parser"
	"scriptkit/internal/source"
	"scriptkit/internal/trace"
	"scriptkit/internal/transform"
	"scriptkit/internal/transpile"
)

// CheckRequest describes a batch syntax check.
type CheckRequest struct {
	Files []string
	// Jobs bounds concurrency; 0 means GOMAXPROCS.
	Jobs      int
	BaseDir   string
	Transpile transpile.Options
	Cache     *transpile.DiskCache
	Progress  ProgressSink
	// MaxDiagnostics caps the parse diagnostics kept per file.
	MaxDiagnostics int
}

// FileResult is the outcome for one script.
type FileResult struct {
	Path string
	File source.FileID
	// Bag holds parse diagnostics in raw script coordinates.
	Bag *diag.Bag
	// Err is the first compile failure, usually a *transpile.SyntaxError.
	Err      error
	Timings  Timings
	IsAsync  bool
	IsModule bool
}

// Failed reports whether the file has errors.
func (r *FileResult) Failed() bool {
	return r.Err != nil || (r.Bag != nil && r.Bag.HasErrors())
}

// CheckResult holds per-file results in input order.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Failed reports whether any file failed.
func (r *CheckResult) Failed() bool {
	for i := range r.Files {
		if r.Files[i].Failed() {
			return true
		}
	}
	return false
}

// Check parses and compiles every file concurrently. Unreadable files are
// reported in their FileResult; only context cancellation aborts the batch.
func Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	log := pslog.Ctx(ctx)
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	fs := source.NewFileSetWithBase(req.BaseDir)
	out := &CheckResult{FileSet: fs, Files: make([]FileResult, len(req.Files))}
	emitQueued(req.Progress, req.Files)

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(req.Files))))
	for i, path := range req.Files {
		r := &out.Files[i]
		r.Path = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if raw, ok := loadFile(fs, req.Progress, r); ok {
				checkFile(gctx, &req, r, raw)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	log.Debug("check: done", "files", len(req.Files), "failed", out.Failed())
	return out, nil
}

func checkFile(ctx context.Context, req *CheckRequest, r *FileResult, raw string) {
	sink := req.Progress

	start := time.Now()
	emit(sink, r.Path, StageParse, StatusWorking, nil, 0)
	r.Bag, r.Err = parseRaw(raw, req.Transpile.Macros, req.MaxDiagnostics)
	r.Timings.Set(StageParse, time.Since(start))
	if r.Err != nil || r.Bag.HasErrors() {
		err := r.Err
		if err == nil {
			err = errors.New("syntax errors")
		}
		emit(sink, r.Path, StageParse, StatusError, err, time.Since(start))
		return
	}
	emit(sink, r.Path, StageParse, StatusDone, nil, time.Since(start))

	start = time.Now()
	emit(sink, r.Path, StageTranspile, StatusWorking, nil, 0)
	c, err := compiler.Compile(ctx, raw, compiler.Options[any]{
		FileName:  r.Path,
		Runtime:   goja.New(),
		ForceSync: req.Transpile.ForceSync,
		Transpile: req.Transpile,
		Cache:     req.Cache,
	})
	r.Timings.Set(StageTranspile, time.Since(start))
	if err != nil {
		r.Err = err
		emit(sink, r.Path, StageTranspile, StatusError, err, time.Since(start))
		return
	}
	r.IsAsync = c.Metadata().IsAsync
	r.IsModule = c.Metadata().IsModule
	emit(sink, r.Path, StageTranspile, StatusDone, nil, time.Since(start))
}

func loadFile(fs *source.FileSet, sink ProgressSink, r *FileResult) (string, bool) {
	start := time.Now()
	emit(sink, r.Path, StageLoad, StatusWorking, nil, 0)
	id, err := fs.Load(r.Path)
	r.Timings.Set(StageLoad, time.Since(start))
	if err != nil {
		r.Err = fmt.Errorf("load %s: %w", r.Path, err)
		emit(sink, r.Path, StageLoad, StatusError, r.Err, time.Since(start))
		return "", false
	}
	r.File = id
	emit(sink, r.Path, StageLoad, StatusDone, nil, time.Since(start))
	return fs.Get(id).Text(), true
}

// parseRaw collects every parse diagnostic of raw, after macro expansion,
// with spans mapped back onto raw.
func parseRaw(raw string, macros []transform.Macro, limit int) (*diag.Bag, error) {
	if macros == nil {
		macros = transform.DefaultMacros()
	}
	x, err := transform.ExpandMacros(raw, macros)
	if err != nil {
		return nil, err
	}
	res := parser.Parse(x.Text, parser.Options{MaxErrors: uint(max(limit, 0))})
	bag := diag.NewBag(res.Bag.Cap())
	for _, d := range res.Bag.Items() {
		bag.Add(d.Shift(x.ToRaw))
	}
	bag.Sort()
	return bag, nil
}
