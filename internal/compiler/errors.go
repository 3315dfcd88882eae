package compiler

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
	gojaparser "github.com/dop251/goja/parser"

	"scriptkit/internal/diag"
	"scriptkit/internal/interp"
	"scriptkit/internal/source"
	"scriptkit/internal/transpile"
)

var (
	// ErrNotInterpreted is returned by debugging APIs called on a callable
	// built by the native backend.
	ErrNotInterpreted = errors.New("compiler: callable was not built by an interpreter")
	// ErrNoInterpreter is returned by debugging APIs given no callable
	// metadata to reach an interpreter through.
	ErrNoInterpreter = errors.New("compiler: no interpreter")
	// ErrInvalidName reports a function, constant, variable or argument
	// name that cannot be declared.
	ErrInvalidName = errors.New("compiler: invalid name")
)

// Rejection is what OnError receives when an async callable's promise is
// rejected.
type Rejection struct {
	Value goja.Value
}

func (r *Rejection) Error() string {
	if r.Value == nil {
		return "promise rejected"
	}
	return r.Value.String()
}

// Stack returns the rejection reason's stack property, or its message.
func (r *Rejection) Stack() string {
	if obj, ok := r.Value.(*goja.Object); ok {
		if s := obj.Get("stack"); s != nil && !goja.IsUndefined(s) && !goja.IsNull(s) {
			return s.String()
		}
	}
	return r.Error()
}

// engineSyntaxError turns a goja compile error of the final source into a
// SyntaxError at raw script coordinates. Errors inside the preamble are
// reported at 0:0.
func (m *Metadata) engineSyntaxError(err error) error {
	var (
		list gojaparser.ErrorList
		cse  *goja.CompilerSyntaxError
		ise  *interp.SyntaxError
		pos  source.LineCol
		msg  string
	)
	switch {
	case errors.As(err, &list) && len(list) > 0:
		pos = source.LineCol{Line: source.MustU32(list[0].Position.Line), Col: source.MustU32(list[0].Position.Column)}
		msg = list[0].Message
	case errors.As(err, &cse) && cse.File != nil:
		p := cse.File.Position(cse.Offset)
		pos = source.LineCol{Line: source.MustU32(p.Line), Col: source.MustU32(p.Column)}
		msg = cse.Message
	case errors.As(err, &ise):
		pos = source.LineCol{Line: source.MustU32(ise.Line), Col: source.MustU32(ise.Column)}
		msg = ise.Message
	default:
		return fmt.Errorf("compiler: %w", err)
	}
	orig := m.LocationToOriginal(pos)
	return &transpile.SyntaxError{
		File:    m.FileName,
		Line:    int(orig.Line),
		Column:  int(orig.Col),
		Code:    diag.UnknownCode,
		Message: msg,
	}
}
