package transpile

import (
	"fmt"

	"scriptkit/internal/diag"
)

// SyntaxError reports input that could not be parsed, or generated code the
// engine rejected. Line and Column are 1-based and always refer to the raw
// script, before macro expansion.
type SyntaxError struct {
	File    string
	Line    int
	Column  int
	Code    diag.Code
	Message string
}

func (e *SyntaxError) Error() string {
	file := e.File
	if file == "" {
		file = "<script>"
	}
	return fmt.Sprintf("%s:%d:%d: SyntaxError: %s", file, e.Line, e.Column, e.Message)
}
