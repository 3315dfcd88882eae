package interp

import (
	"fmt"
	"strings"

	"scriptkit/internal/ast"
	"scriptkit/internal/parser"
	"scriptkit/internal/source"
	"scriptkit/internal/textmodel"
)

// pauseHook is the realm global the instrumented code calls.
const pauseHook = "$$pause"

// State selects when a pause point fires relative to its statement.
type State uint8

const (
	Before State = 1 << iota
	After

	BothStates = Before | After
)

func (s State) String() string {
	var parts []string
	if s&Before != 0 {
		parts = append(parts, "before")
	}
	if s&After != 0 {
		parts = append(parts, "after")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// ParseState accepts "before", "after" or "both".
func ParseState(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "before", "":
		return Before, nil
	case "after":
		return After, nil
	case "both", "before,after":
		return BothStates, nil
	}
	return 0, fmt.Errorf("unknown pause state %q", s)
}

// Point is a statement where execution can stop. Line and Column are
// 1-based and refer to the loaded (uninstrumented) source.
type Point struct {
	ID     int
	Line   int
	Column int
	States State
}

// SyntaxError is returned by Load for source that does not parse.
type SyntaxError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: SyntaxError: %s", e.File, e.Line, e.Column, e.Message)
}

type instrumented struct {
	code   string
	points []Point
	buf    *textmodel.Buffer
}

// instrument brackets every statement of every function body with pause
// hook calls. Top-level statements are left alone so the completion value
// of the loaded source stays the value of its last statement.
func instrument(name, src string, serial int) (*instrumented, error) {
	res := parser.Parse(src, parser.Options{MaxErrors: 1})
	lines := source.NewLines(src)
	if d, ok := res.Bag.FirstError(); ok {
		lc := lines.LineCol(int(d.Primary.Start))
		return nil, &SyntaxError{File: name, Line: int(lc.Line), Column: int(lc.Col), Message: d.Message}
	}

	buf := textmodel.New(src)
	ins := &instrumenter{w: buf.NewWriter(), lines: lines, serial: serial}
	ast.Inspect(res.Program, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.BlockStmt:
			ins.list(n.Body)
		case *ast.SwitchCase:
			ins.list(n.Body)
		}
		return true
	})
	if ins.err != nil {
		return nil, fmt.Errorf("interp: instrument %s: %w", name, ins.err)
	}
	return &instrumented{code: buf.String(), points: ins.points, buf: buf}, nil
}

type instrumenter struct {
	w      *textmodel.Writer
	lines  *source.Lines
	serial int
	points []Point
	err    error
}

func (ins *instrumenter) list(body []ast.Stmt) {
	for _, s := range body {
		states := pauseStates(s)
		if states == 0 || ins.err != nil {
			continue
		}
		sp := s.Span()
		lc := ins.lines.LineCol(int(sp.Start))
		id := len(ins.points)
		ins.points = append(ins.points, Point{ID: id, Line: int(lc.Line), Column: int(lc.Col), States: states})

		ins.err = ins.w.Insert(int(sp.Start), ins.call(id, Before)+";")
		if ins.err == nil && states&After != 0 {
			ins.err = ins.w.Insert(int(sp.End), ";"+ins.call(id, After)+";")
		}
	}
}

func (ins *instrumenter) call(id int, st State) string {
	return fmt.Sprintf("%s(%d,%d,%d)", pauseHook, ins.serial, id, st)
}

// pauseStates returns the states a statement supports, or 0 when it gets
// no pause point at all.
func pauseStates(s ast.Stmt) State {
	switch s := s.(type) {
	case *ast.FuncDecl, *ast.EmptyStmt, *ast.TypeDecl, *ast.DeclareStmt:
		return 0
	case *ast.ExprStmt:
		if s.Directive != "" {
			return 0
		}
	case *ast.ReturnStmt, *ast.ThrowStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return Before
	}
	return BothStates
}
