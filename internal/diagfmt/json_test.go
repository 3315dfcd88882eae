package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"scriptkit/internal/diag"
	"scriptkit/internal/source"
	"scriptkit/internal/transpile"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("function main() {\n\tlet x = \"unterminated\n}")
	fileID := fs.AddVirtual("test.js", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString, source.Span{Start: 27, End: 40}, "Unterminated string literal"))

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, fileID, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %+v", output)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "LEX1002" {
		t.Errorf("severity/code = %s/%s", d.Severity, d.Code)
	}
	if d.Location.File != "test.js" {
		t.Errorf("Expected file=test.js, got %s", d.Location.File)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 10 {
		t.Errorf("position = %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
}

func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("m.js", []byte("a b c d"))
	bag := diag.NewBag(10)
	for i := range 4 {
		bag.Add(diag.New(diag.SevWarning, diag.SynUnexpectedToken, source.SpanOf(i*2, i*2+1), "unexpected"))
	}

	output := BuildDiagnosticsOutput(bag, fs, fileID, JSONOpts{Max: 2})
	if output.Count != 2 {
		t.Fatalf("count = %d", output.Count)
	}
	if output.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("positions were not requested: %+v", output.Diagnostics[0].Location)
	}
}

func TestSyntaxErrorJSON(t *testing.T) {
	d := SyntaxErrorJSON(&transpile.SyntaxError{File: "s", Line: 3, Column: 4, Code: diag.SynUnclosedBrace, Message: "unclosed"})
	if d.Code != "SYN2003" || d.Location.StartLine != 3 || d.Location.StartCol != 4 || d.Location.File != "s" {
		t.Fatalf("got %+v", d)
	}
}
