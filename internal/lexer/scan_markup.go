package lexer

import (
	"scriptkit/internal/diag"
	"scriptkit/internal/token"
)

// NextMarkup scans a token inside a markup tag: names may contain '-',
// strings have no escapes, and '/', '>' never combine with what follows.
func (lx *Lexer) NextMarkup() token.Token {
	nl := lx.skipTrivia()
	start := lx.cursor.Mark()
	var tok token.Token
	b := lx.cursor.Peek()
	switch {
	case lx.cursor.EOF():
		tok = lx.emit(token.EOF, start)
	case b == '"' || b == '\'':
		quote := lx.cursor.Bump()
		for !lx.cursor.EOF() && lx.cursor.Peek() != quote {
			lx.bumpRune()
		}
		if !lx.cursor.Eat(quote) {
			lx.report(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated attribute string")
		}
		tok = lx.emit(token.String, start)
	case isIdentStartByte(b) || b >= 0x80:
		lx.scanIdentTail(true)
		for lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
			lx.scanIdentTail(false)
		}
		tok = lx.emit(token.Ident, start)
		if tok.Text == "" {
			lx.bumpRune()
			tok = lx.emit(token.Invalid, start)
		}
	default:
		k, ok := singleOps[b]
		if !ok {
			k = token.Invalid
		}
		lx.bumpRune()
		tok = lx.emit(k, start)
	}
	tok.NewlineBefore = nl
	return tok
}

// ScanMarkupText reads raw text up to the next '{' or '<'. The returned
// token may be empty.
func (lx *Lexer) ScanMarkupText() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '{' || b == '<' {
			break
		}
		lx.bumpRune()
	}
	return lx.emit(token.MarkupText, start)
}
