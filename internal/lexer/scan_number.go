package lexer

import (
	"scriptkit/internal/diag"
	"scriptkit/internal/token"
)

// scanNumber: 0x.., 0o.., 0b.., decimals with '_' separators, fractions,
// exponents and the BigInt suffix 'n'.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) | 0x20 {
		case 'x':
			lx.cursor.Off += 2
			return lx.finishRadix(start, isHex)
		case 'o':
			lx.cursor.Off += 2
			return lx.finishRadix(start, func(b byte) bool { return b >= '0' && b <= '7' })
		case 'b':
			lx.cursor.Off += 2
			return lx.finishRadix(start, func(b byte) bool { return b == '0' || b == '1' })
		}
	}
	lx.eatDigits(isDec)
	if lx.cursor.Peek() == 'n' {
		lx.cursor.Bump()
		return lx.finishNumber(start)
	}
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		lx.eatDigits(isDec)
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if b2 := lx.cursor.Peek(); b2 == '+' || b2 == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			lx.cursor.Reset(mark)
			lx.report(diag.LexBadNumber, lx.cursor.SpanFrom(start), "missing exponent digits")
		}
		lx.eatDigits(isDec)
	}
	return lx.finishNumber(start)
}

func (lx *Lexer) finishRadix(start Mark, digit func(byte) bool) token.Token {
	if lx.eatDigits(digit) == 0 {
		lx.report(diag.LexBadNumber, lx.cursor.SpanFrom(start), "missing digits after radix prefix")
	}
	lx.cursor.Eat('n')
	return lx.finishNumber(start)
}

// finishNumber rejects an identifier glued to the literal (3in, 1px).
func (lx *Lexer) finishNumber(start Mark) token.Token {
	if b := lx.cursor.Peek(); isIdentStartByte(b) {
		lx.scanIdentTail(false)
		lx.report(diag.LexBadNumber, lx.cursor.SpanFrom(start), "identifier starts immediately after numeric literal")
	}
	return lx.emit(token.Number, start)
}

func (lx *Lexer) eatDigits(digit func(byte) bool) int {
	n := 0
	for {
		b := lx.cursor.Peek()
		if digit(b) {
			n++
			lx.cursor.Bump()
			continue
		}
		if b == '_' && n > 0 && digit(lx.cursor.PeekAt(1)) {
			lx.cursor.Bump()
			continue
		}
		return n
	}
}
