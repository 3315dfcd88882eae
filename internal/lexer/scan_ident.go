package lexer

import (
	"scriptkit/internal/diag"
	"scriptkit/internal/token"
)

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.scanIdentTail(true)
	tok := lx.emit(token.Ident, start)
	if tok.Text == "" {
		lx.bumpRune()
		tok = lx.emit(token.Invalid, start)
		lx.report(diag.LexUnknownChar, tok.Span, "unexpected character "+tok.Text)
		return tok
	}
	if kw, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = kw
	}
	return tok
}

// scanIdentTail consumes identifier characters; first allows a start char.
// Returns the number of bytes consumed.
func (lx *Lexer) scanIdentTail(first bool) int {
	begin := lx.cursor.Off
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b < 0x80:
			ok := isIdentContinueByte(b)
			if first {
				ok = isIdentStartByte(b)
			}
			if b == '\\' && lx.cursor.PeekAt(1) == 'u' {
				lx.scanUnicodeEscape()
				first = false
				continue
			}
			if !ok {
				return int(lx.cursor.Off - begin)
			}
			lx.cursor.Bump()
		default:
			r, _ := lx.peekRune()
			ok := isIdentContinueRune(r)
			if first {
				ok = isIdentStartRune(r)
			}
			if !ok {
				return int(lx.cursor.Off - begin)
			}
			lx.bumpRune()
		}
		first = false
	}
	return int(lx.cursor.Off - begin)
}

// \uXXXX или \u{X...}
func (lx *Lexer) scanUnicodeEscape() {
	lx.cursor.Off += 2
	if lx.cursor.Eat('{') {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '}' {
			lx.cursor.Bump()
		}
		lx.cursor.Eat('}')
		return
	}
	for i := 0; i < 4 && isHex(lx.cursor.Peek()); i++ {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanPrivateName() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	lx.scanIdentTail(true)
	return lx.emit(token.PrivateName, start)
}
