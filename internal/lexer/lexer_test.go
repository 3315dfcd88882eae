package lexer

import (
	"testing"

	"scriptkit/internal/diag"
	"scriptkit/internal/source"
	"scriptkit/internal/token"
)

func collect(src string) []token.Token {
	lx := New(src, Options{})
	var out []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

func TestNextBasic(t *testing.T) {
	toks := collect("let x = a?.b ?? 1_000n; // tail\nreturn #p")
	want := []struct {
		kind token.Kind
		text string
	}{
		{token.Ident, "let"}, {token.Ident, "x"}, {token.Assign, "="}, {token.Ident, "a"},
		{token.QuestionDot, "?."}, {token.Ident, "b"}, {token.QuestionQ, "??"},
		{token.Number, "1_000n"}, {token.Semicolon, ";"}, {token.KwReturn, "return"},
		{token.PrivateName, "#p"},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("tok[%d] = %v %q, want %v %q", i, toks[i].Kind, toks[i].Text, w.kind, w.text)
		}
	}
	if !toks[9].NewlineBefore || toks[8].NewlineBefore {
		t.Error("NewlineBefore not tracked across line comment")
	}
}

func TestGreaterIsSingle(t *testing.T) {
	lx := New("a >>= b", Options{})
	lx.Next()
	gt := lx.Next()
	if gt.Kind != token.Gt {
		t.Fatalf("want single '>', got %v", gt.Kind)
	}
	full := lx.RescanGreater(gt)
	if full.Kind != token.ShrAssign || full.Text != ">>=" {
		t.Fatalf("RescanGreater = %v %q", full.Kind, full.Text)
	}
	if next := lx.Next(); next.Text != "b" {
		t.Fatalf("after rescan got %q", next.Text)
	}
}

func TestRescanRegexAndTemplate(t *testing.T) {
	lx := New("/[/]x/g.test(`a${b}c${d}`)", Options{})
	re := lx.RescanRegex(lx.Next())
	if re.Kind != token.Regex || re.Text != "/[/]x/g" {
		t.Fatalf("regex = %v %q", re.Kind, re.Text)
	}
	lx.Next() // .
	lx.Next() // test
	lx.Next() // (
	head := lx.Next()
	if head.Kind != token.TemplateHead || head.Text != "`a${" {
		t.Fatalf("head = %v %q", head.Kind, head.Text)
	}
	lx.Next() // b
	mid := lx.RescanTemplate(lx.Next())
	if mid.Kind != token.TemplateMiddle || mid.Text != "}c${" {
		t.Fatalf("middle = %v %q", mid.Kind, mid.Text)
	}
	lx.Next() // d
	tail := lx.RescanTemplate(lx.Next())
	if tail.Kind != token.TemplateTail || tail.Text != "}`" {
		t.Fatalf("tail = %v %q", tail.Kind, tail.Text)
	}
}

func TestMarkupMode(t *testing.T) {
	lx := New(`<my-el data-x="a\b">hi {x}</my-el>`, Options{})
	if tok := lx.Next(); tok.Kind != token.Lt {
		t.Fatalf("want '<', got %v", tok.Kind)
	}
	name := lx.NextMarkup()
	if name.Kind != token.Ident || name.Text != "my-el" {
		t.Fatalf("name = %q", name.Text)
	}
	attr := lx.NextMarkup()
	if attr.Text != "data-x" {
		t.Fatalf("attr = %q", attr.Text)
	}
	lx.NextMarkup() // =
	if str := lx.NextMarkup(); str.Text != `"a\b"` {
		t.Fatalf("string = %q", str.Text)
	}
	lx.NextMarkup() // >
	text := lx.ScanMarkupText()
	if text.Kind != token.MarkupText || text.Text != "hi " {
		t.Fatalf("text = %q", text.Text)
	}
}

type bagReporter struct{ codes []diag.Code }

func (r *bagReporter) Report(code diag.Code, _ diag.Severity, _ source.Span, _ string, _ []diag.Note) {
	r.codes = append(r.codes, code)
}

func TestUnterminated(t *testing.T) {
	r := &bagReporter{}
	lx := New("'abc\n/* x", Options{Reporter: r})
	for lx.Next().Kind != token.EOF {
	}
	if len(r.codes) != 2 || r.codes[0] != diag.LexUnterminatedString || r.codes[1] != diag.LexUnterminatedBlockComment {
		t.Fatalf("codes = %v", r.codes)
	}
}
