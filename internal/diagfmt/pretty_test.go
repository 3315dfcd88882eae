package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"scriptkit/internal/diag"
	"scriptkit/internal/source"
	"scriptkit/internal/transpile"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	content := []byte("let x = \"unterminated string\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.js", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString, source.Span{Start: 8, End: 28}, "Unterminated string literal"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.js"},
		{"Relative path", PathModeRelative, "src/test.js"},
		{"Basename only", PathModeBasename, "test.js:1:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, fileID, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "LEX1002", "Unterminated string"} {
				if !strings.Contains(output, want) {
					t.Errorf("Expected %q in output, got:\n%s", want, output)
				}
			}
		})
	}
}

func TestPrettyCaretUnderSpan(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.js", []byte("let a = ;\n"))

	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevError, diag.SynExpectExpression, source.Span{Start: 8, End: 9}, "expected expression"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, fileID, PrettyOpts{PathMode: PathModeBasename})
	want := "a.js:1:9: ERROR SYN2006: expected expression\n" +
		"1 | let a = ;\n" +
		" |         ^\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

// TestPrettyWideRunes: ширина каретки считается по ширине символов, не по байтам
func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	content := "x = \"\u4f60\u597d\" +;\n"
	fileID := fs.AddVirtual("w.js", []byte(content))

	start := strings.Index(content, ";")
	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevError, diag.SynExpectExpression, source.SpanOf(start, start+1), "expected expression"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, fileID, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	caret := lines[2]
	// пять узких, два широких по 2, ещё три узких
	if idx := strings.Index(caret, "^"); idx != len(" | ")+12 {
		t.Fatalf("caret at %d in %q", idx, caret)
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte("import x from\n"))

	d := diag.New(diag.SevWarning, diag.SynImportMalformed, source.Span{Start: 7, End: 8}, "malformed import")
	d = d.WithNote(source.Span{Start: 9, End: 13}, "module specifier expected after from")
	bag := diag.NewBag(4)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, fileID, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	output := buf.String()
	if !strings.Contains(output, "WARNING SYN2013") {
		t.Fatalf("expected severity and code, got:\n%s", output)
	}
	if !strings.Contains(output, "note: test.js:1:10: module specifier") {
		t.Fatalf("expected note with location, got:\n%s", output)
	}
}

func TestSyntaxErrorSnippet(t *testing.T) {
	se := &transpile.SyntaxError{File: "script", Line: 2, Column: 3, Code: diag.SynExpectExpression, Message: "expected expression"}

	var buf bytes.Buffer
	SyntaxError(&buf, se, "=x\n  )\nfoo()", PrettyOpts{Context: 1})
	output := buf.String()
	for _, want := range []string{
		"script:2:3: ERROR SYN2006: expected expression",
		"1 | =x",
		"2 |   )",
		" |   ^",
		"3 | foo()",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in:\n%s", want, output)
		}
	}

	// позиция в преамбуле: без сниппета
	buf.Reset()
	SyntaxError(&buf, &transpile.SyntaxError{File: "script", Message: "bad"}, "x", PrettyOpts{})
	if strings.Contains(buf.String(), "|") {
		t.Fatalf("unexpected snippet:\n%s", buf.String())
	}
}
