package lexer

import (
	"scriptkit/internal/token"
)

// Lexer is a pull scanner driven by the parser. It holds no lookahead:
// after each call the cursor sits at the end of the returned token, so the
// parser can rewind with Reset and rescan in another mode.
type Lexer struct {
	cursor Cursor
	opts   Options
}

func New(src string, opts Options) *Lexer {
	return &Lexer{
		cursor: NewCursor(src),
		opts:   opts,
	}
}

// Source returns the scanned text.
func (lx *Lexer) Source() string { return lx.cursor.Src }

// Offset returns the current cursor offset.
func (lx *Lexer) Offset() uint32 { return lx.cursor.Off }

// Reset moves the cursor to off.
func (lx *Lexer) Reset(off uint32) { lx.cursor.Reset(Mark(off)) }

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	nl := lx.skipTrivia()
	start := lx.cursor.Mark()
	if lx.cursor.EOF() {
		tok := lx.emit(token.EOF, start)
		tok.NewlineBefore = nl
		return tok
	}

	var tok token.Token
	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch) || ch == '\\' || ch >= 0x80:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		tok = lx.scanNumber()
	case ch == '"' || ch == '\'':
		tok = lx.scanString()
	case ch == '`':
		tok = lx.scanTemplate(false)
	case ch == '#' && (isIdentStartByte(lx.cursor.PeekAt(1)) || lx.cursor.PeekAt(1) >= 0x80):
		tok = lx.scanPrivateName()
	default:
		tok = lx.scanOperatorOrPunct()
	}
	tok.NewlineBefore = nl
	return tok
}

// RescanRegex rescans a '/' or '/=' token as a regular expression literal.
func (lx *Lexer) RescanRegex(tok token.Token) token.Token {
	lx.cursor.Reset(Mark(tok.Span.Start))
	out := lx.scanRegex()
	out.NewlineBefore = tok.NewlineBefore
	return out
}

// RescanTemplate rescans a '}' token as a template continuation
// (TemplateMiddle or TemplateTail).
func (lx *Lexer) RescanTemplate(tok token.Token) token.Token {
	lx.cursor.Reset(Mark(tok.Span.Start))
	out := lx.scanTemplate(true)
	out.NewlineBefore = tok.NewlineBefore
	return out
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: k,
		Span: sp,
		Text: lx.cursor.Src[sp.Start:sp.End],
	}
}
