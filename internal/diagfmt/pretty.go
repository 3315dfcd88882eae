package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"scriptkit/internal/diag"
	"scriptkit/internal/source"
	"scriptkit/internal/transpile"
)

type palette struct {
	err, warn, info, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики одного файла в человекочитаемый вид:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строки контекста с подчёркиванием ^~~~ по Span. Bag лучше
// отсортировать заранее.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, id source.FileID, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	f := fs.Get(id)
	if f == nil {
		return
	}
	pal := newPalette(opts.Color)
	path := displayPath(f, opts.PathMode, fs.BaseDir())

	for _, d := range bag.Items() {
		start, end := fs.Resolve(id, d.Primary)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.path.Sprintf("%s:%d:%d", path, start.Line, start.Col),
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(),
			d.Message,
		)
		snippet(w, pal, f, start, end, int(opts.Context))
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			at, _ := fs.Resolve(id, n.Span)
			fmt.Fprintf(w, "  note: %s:%d:%d: %s\n", path, at.Line, at.Col, n.Msg)
		}
	}
}

// SyntaxError renders a compile failure against the raw script text.
func SyntaxError(w io.Writer, se *transpile.SyntaxError, raw string, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", se.File, se.Line, se.Column),
		pal.err.Sprint(diag.SevError.String()),
		se.Code.ID(),
		se.Message,
	)
	if se.Line <= 0 {
		return
	}
	f := &source.File{Path: se.File, Content: []byte(raw), LineIdx: lineIndex(raw)}
	at := source.LineCol{Line: source.MustU32(se.Line), Col: source.MustU32(se.Column)}
	snippet(w, pal, f, at, at, int(opts.Context))
}

func lineIndex(text string) []uint32 {
	var idx []uint32
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			idx = append(idx, source.MustU32(i))
		}
	}
	return idx
}

// snippet prints the primary line with its neighbours and a caret run
// under the span. Columns are bytes; the caret is placed by display width.
func snippet(w io.Writer, pal palette, f *source.File, start, end source.LineCol, context int) {
	if start.Line == 0 {
		return
	}
	first := max(int(start.Line)-context, 1)
	last := int(start.Line) + context
	gutter := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		if n > len(f.LineIdx)+1 {
			break
		}
		line := strings.TrimRight(f.GetLine(source.MustU32(n)), "\r")
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutter, n), expandTabs(line))
		if n != int(start.Line) {
			continue
		}
		lo := min(max(int(start.Col)-1, 0), len(line))
		hi := len(line)
		if end.Line == start.Line {
			hi = min(max(int(end.Col)-1, lo), len(line))
		}
		pad := runewidth.StringWidth(expandTabs(line[:lo]))
		width := max(runewidth.StringWidth(expandTabs(line[lo:hi])), 1)
		marks := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), pal.caret.Sprint(marks))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
