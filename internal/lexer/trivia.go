package lexer

import (
	"unicode"

	"scriptkit/internal/diag"
)

// skipTrivia пропускает пробелы, переводы строк и комментарии.
// Возвращает true, если встретился перевод строки (в том числе внутри /* */).
func (lx *Lexer) skipTrivia() bool {
	newline := false
	if lx.cursor.Off == 0 && lx.cursor.EatString("#!") {
		lx.skipLine()
	}
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == ' ' || b == '\t' || b == '\v' || b == '\f':
			lx.cursor.Bump()
		case b == '\n' || b == '\r':
			lx.cursor.Bump()
			newline = true
		case b == '/' && lx.cursor.PeekAt(1) == '/':
			lx.skipLine()
		case b == '/' && lx.cursor.PeekAt(1) == '*':
			if lx.skipBlockComment() {
				newline = true
			}
		case b >= 0x80:
			r, _ := lx.peekRune()
			if isLineTerminator(r) {
				newline = true
			} else if !unicode.IsSpace(r) && r != '\ufeff' {
				return newline
			}
			lx.bumpRune()
		default:
			return newline
		}
	}
	return newline
}

func (lx *Lexer) skipLine() {
	for !lx.cursor.EOF() {
		r, _ := lx.peekRune()
		if isLineTerminator(r) {
			return
		}
		lx.bumpRune()
	}
}

// skipBlockComment consumes /* ... */; reports and stops at EOF if unterminated.
func (lx *Lexer) skipBlockComment() bool {
	start := lx.cursor.Mark()
	lx.cursor.Off += 2
	newline := false
	for !lx.cursor.EOF() {
		if lx.cursor.EatString("*/") {
			return newline
		}
		r, _ := lx.peekRune()
		if isLineTerminator(r) {
			newline = true
		}
		lx.bumpRune()
	}
	lx.report(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	return newline
}
