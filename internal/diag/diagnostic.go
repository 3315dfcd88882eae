package diag

import (
	"scriptkit/internal/source"
)

// Severity orders diagnostics; anything at SevError fails a check.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{SevInfo: "INFO", SevWarning: "WARNING", SevError: "ERROR"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// New constructs a diagnostic without notes.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary}
}

// WithNote returns a copy of d with an extra note.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(append([]Note(nil), d.Notes...), Note{Span: sp, Msg: msg})
	return d
}

// Shift maps the primary span and every note span through f. The macro
// expander uses it to move parse diagnostics back to raw text.
func (d Diagnostic) Shift(f func(int) int) Diagnostic {
	d.Primary = source.SpanOf(f(d.Primary.Lo()), f(d.Primary.Hi()))
	if len(d.Notes) > 0 {
		notes := make([]Note, len(d.Notes))
		for i, n := range d.Notes {
			notes[i] = Note{Span: source.SpanOf(f(n.Span.Lo()), f(n.Span.Hi())), Msg: n.Msg}
		}
		d.Notes = notes
	}
	return d
}
