package lexer

import (
	"scriptkit/internal/diag"
	"scriptkit/internal/token"
)

// scanString: "..." или '...'; перевод строки без '\' завершает литерал с ошибкой.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == quote:
			lx.cursor.Bump()
			return lx.emit(token.String, start)
		case b == '\\':
			lx.cursor.Bump()
			if lx.cursor.Peek() == '\r' && lx.cursor.PeekAt(1) == '\n' {
				lx.cursor.Bump()
			}
			lx.bumpRune()
		case b == '\n' || b == '\r':
			lx.report(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string literal")
			return lx.emit(token.String, start)
		default:
			lx.bumpRune()
		}
	}
	lx.report(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string literal")
	return lx.emit(token.String, start)
}

// scanTemplate scans from '`' (head) or '}' (continuation) to the next
// substitution or the closing backtick.
func (lx *Lexer) scanTemplate(continuation bool) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '`' or '}'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '`':
			lx.cursor.Bump()
			if continuation {
				return lx.emit(token.TemplateTail, start)
			}
			return lx.emit(token.NoSubstTemplate, start)
		case b == '\\':
			lx.cursor.Bump()
			lx.bumpRune()
		case b == '$' && lx.cursor.PeekAt(1) == '{':
			lx.cursor.Off += 2
			if continuation {
				return lx.emit(token.TemplateMiddle, start)
			}
			return lx.emit(token.TemplateHead, start)
		default:
			lx.bumpRune()
		}
	}
	lx.report(diag.LexUnterminatedTemplate, lx.cursor.SpanFrom(start), "unterminated template literal")
	if continuation {
		return lx.emit(token.TemplateTail, start)
	}
	return lx.emit(token.NoSubstTemplate, start)
}

// scanRegex scans /body/flags; classes may contain unescaped '/'.
func (lx *Lexer) scanRegex() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	inClass := false
	for {
		if lx.cursor.EOF() {
			lx.report(diag.LexUnterminatedRegex, lx.cursor.SpanFrom(start), "unterminated regular expression")
			return lx.emit(token.Regex, start)
		}
		r, _ := lx.peekRune()
		if isLineTerminator(r) {
			lx.report(diag.LexUnterminatedRegex, lx.cursor.SpanFrom(start), "unterminated regular expression")
			return lx.emit(token.Regex, start)
		}
		lx.bumpRune()
		switch r {
		case '\\':
			lx.bumpRune()
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				lx.scanIdentTail(false)
				return lx.emit(token.Regex, start)
			}
		}
	}
}
