package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"scriptkit/internal/ast"
)

func (p *Parser) parseStringLit() *ast.StringLit {
	tok := p.next()
	return &ast.StringLit{Base: ast.Base{Range: tok.Span}, Value: unquote(tok.Text), Raw: tok.Text}
}

// unquote снимает кавычки и раскрывает escape-последовательности строкового
// литерала. Некорректные последовательности оставляются как есть.
func unquote(raw string) string {
	if len(raw) < 2 {
		return ""
	}
	body := raw[1:]
	if q := raw[0]; body[len(body)-1] == q {
		body = body[:len(body)-1]
	}
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			sb.WriteByte(c)
			i++
			continue
		}
		i++
		c = body[i]
		i++
		switch c {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\r':
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case '\n':
			// продолжение строки
		case 'x':
			if r, n := hexRune(body[i:], 2); n > 0 {
				sb.WriteRune(r)
				i += n
			} else {
				sb.WriteByte('x')
			}
		case 'u':
			r, n := unicodeEscape(body[i:])
			if n == 0 {
				sb.WriteByte('u')
				break
			}
			i += n
			if utf8.ValidRune(r) {
				sb.WriteRune(r)
			} else {
				sb.WriteRune(utf8.RuneError)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// unicodeEscape читает XXXX или {X...} после \u, склеивая суррогатные пары.
func unicodeEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil {
			return 0, 0
		}
		return rune(v), end + 1
	}
	r, n := hexRune(s, 4)
	if n == 0 {
		return 0, 0
	}
	if r >= 0xD800 && r < 0xDC00 && strings.HasPrefix(s[n:], `\u`) {
		if lo, m := hexRune(s[n+2:], 4); m > 0 && lo >= 0xDC00 && lo < 0xE000 {
			return (r-0xD800)<<10 + (lo - 0xDC00) + 0x10000, n + 2 + m
		}
	}
	return r, n
}

func hexRune(s string, width int) (rune, int) {
	if len(s) < width {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:width], 16, 32)
	if err != nil {
		return 0, 0
	}
	return rune(v), width
}

